package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"vivacondo-api/internal/domain"
)

// PostgresDeliveriesRepository implements DeliveriesRepository on the
// deliveries table.
type PostgresDeliveriesRepository struct {
	db *sql.DB
}

func NewPostgresDeliveriesRepository(db *sql.DB) *PostgresDeliveriesRepository {
	return &PostgresDeliveriesRepository{db: db}
}

var _ DeliveriesRepository = (*PostgresDeliveriesRepository)(nil)

const deliveryColumns = `
	id,
	condominium_id,
	user_id,
	employee_id,
	item_description,
	status,
	received_at,
	delivered_to_name,
	delivered_at,
	notes
`

func scanDelivery(row interface{ Scan(...any) error }) (*domain.Delivery, error) {
	var d domain.Delivery
	err := row.Scan(
		&d.ID,
		&d.CondominiumID,
		&d.UserID,
		&d.EmployeeID,
		&d.ItemDescription,
		&d.Status,
		&d.ReceivedAt,
		&d.DeliveredToName,
		&d.DeliveredAt,
		&d.Notes,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDelivery returns (nil, nil) when absent in this condominium.
func (r *PostgresDeliveriesRepository) GetDelivery(ctx context.Context, condominiumID, deliveryID int64) (*domain.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE condominium_id = $1 AND id = $2`

	d, err := scanDelivery(r.db.QueryRowContext(ctx, query, condominiumID, deliveryID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get delivery: %w", err)
	}
	return d, nil
}

// ListDeliveries supports pagination, status/recipient filters and search.
func (r *PostgresDeliveriesRepository) ListDeliveries(ctx context.Context, condominiumID int64, filters DeliveryFilters, page, size int) ([]*domain.Delivery, int, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	offset := (page - 1) * size

	where := []string{"condominium_id = $1"}
	args := []any{condominiumID}
	argN := 2

	if filters.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argN))
		args = append(args, filters.Status)
		argN++
	}
	if filters.UserID != 0 {
		where = append(where, fmt.Sprintf("user_id = $%d", argN))
		args = append(args, filters.UserID)
		argN++
	}
	if filters.Search != "" {
		where = append(where, fmt.Sprintf("(item_description ILIKE $%d OR delivered_to_name ILIKE $%d)", argN, argN))
		args = append(args, "%"+filters.Search+"%")
		argN++
	}

	whereClause := "WHERE " + strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM deliveries `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count deliveries: %w", err)
	}

	query := `SELECT ` + deliveryColumns + ` FROM deliveries ` + whereClause +
		fmt.Sprintf(" ORDER BY received_at DESC LIMIT $%d OFFSET $%d", argN, argN+1)
	args = append(args, size, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list deliveries: %w", err)
	}
	defer rows.Close()

	deliveries := []*domain.Delivery{}
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan delivery: %w", err)
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, total, rows.Err()
}

// CreateDelivery inserts the record and returns the generated id.
func (r *PostgresDeliveriesRepository) CreateDelivery(ctx context.Context, delivery *domain.Delivery) (int64, error) {
	query := `
		INSERT INTO deliveries (
			condominium_id, user_id, employee_id, item_description,
			status, received_at, delivered_to_name, delivered_at, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		delivery.CondominiumID,
		delivery.UserID,
		delivery.EmployeeID,
		delivery.ItemDescription,
		delivery.Status,
		delivery.ReceivedAt,
		delivery.DeliveredToName,
		delivery.DeliveredAt,
		delivery.Notes,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create delivery: %w", err)
	}
	return id, nil
}

// UpdateDelivery writes the mutable field set, scoped to the
// condominium the delivery belongs to.
func (r *PostgresDeliveriesRepository) UpdateDelivery(ctx context.Context, delivery *domain.Delivery) error {
	query := `
		UPDATE deliveries SET
			user_id = $3,
			employee_id = $4,
			item_description = $5,
			status = $6,
			received_at = $7,
			delivered_to_name = $8,
			delivered_at = $9,
			notes = $10
		WHERE condominium_id = $1 AND id = $2
	`
	res, err := r.db.ExecContext(ctx, query,
		delivery.CondominiumID,
		delivery.ID,
		delivery.UserID,
		delivery.EmployeeID,
		delivery.ItemDescription,
		delivery.Status,
		delivery.ReceivedAt,
		delivery.DeliveredToName,
		delivery.DeliveredAt,
		delivery.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to update delivery: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delivery not found: id=%d", delivery.ID)
	}
	return nil
}

// DeleteDelivery removes the record within one condominium.
func (r *PostgresDeliveriesRepository) DeleteDelivery(ctx context.Context, condominiumID, deliveryID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM deliveries WHERE condominium_id = $1 AND id = $2`,
		condominiumID, deliveryID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete delivery: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delivery not found: id=%d", deliveryID)
	}
	return nil
}

// MarkDelivered records the handover for the confirm-receipt flow.
func (r *PostgresDeliveriesRepository) MarkDelivered(ctx context.Context, condominiumID, deliveryID int64, deliveredToName string, deliveredAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE deliveries
		 SET status = $3, delivered_to_name = $4, delivered_at = $5
		 WHERE condominium_id = $1 AND id = $2`,
		condominiumID, deliveryID,
		domain.DeliveryStatusDelivered, deliveredToName, deliveredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to mark delivery delivered: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delivery not found: id=%d", deliveryID)
	}
	return nil
}
