package service

import (
	"bytes"
	"context"
	"database/sql"
	"testing"
	"time"

	"vivacondo-api/internal/domain"
	"vivacondo-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestExportResidents(t *testing.T) {
	users := repository.NewMemoryUsersRepo()
	deliveries := repository.NewMemoryDeliveriesRepo()
	svc := NewExportService(users, deliveries, zap.NewNop())
	ctx := context.Background()

	_, err := users.CreateUser(ctx, &domain.User{
		Name:          "Ana",
		LastName:      "Silva",
		Email:         "ana@example.com",
		Role:          domain.RoleMorador,
		AccountStatus: true,
		CondominiumID: sql.NullInt64{Int64: 1, Valid: true},
		Phone:         sql.NullString{String: "11 99999-0000", Valid: true},
	})
	require.NoError(t, err)
	// a funcionario in the same condominium stays out of the export
	_, err = users.CreateUser(ctx, &domain.User{
		Name:          "Pedro",
		Email:         "pedro@example.com",
		Role:          domain.RoleFuncionario,
		AccountStatus: true,
		CondominiumID: sql.NullInt64{Int64: 1, Valid: true},
	})
	require.NoError(t, err)

	data, err := svc.ExportResidents(ctx, 1)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Moradores")
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus one resident")
	assert.Equal(t, residentExportHeader, rows[0])
	assert.Equal(t, "Ana", rows[1][0])
	assert.Equal(t, "Silva", rows[1][1])
	assert.Equal(t, "ana@example.com", rows[1][2])
	assert.Equal(t, "Ativo", rows[1][5])
}

func TestExportDeliveries(t *testing.T) {
	users := repository.NewMemoryUsersRepo()
	deliveries := repository.NewMemoryDeliveriesRepo()
	svc := NewExportService(users, deliveries, zap.NewNop())
	ctx := context.Background()

	_, err := deliveries.CreateDelivery(ctx, &domain.Delivery{
		CondominiumID:   1,
		ItemDescription: "Caixa Mercado Livre",
		Status:          domain.DeliveryStatusAwaiting,
		ReceivedAt:      mustTime(t, "2026-08-20T14:30:00Z"),
	})
	require.NoError(t, err)
	// delivery from another condominium must not leak into the sheet
	_, err = deliveries.CreateDelivery(ctx, &domain.Delivery{
		CondominiumID:   2,
		ItemDescription: "Envelope alheio",
		Status:          domain.DeliveryStatusAwaiting,
		ReceivedAt:      mustTime(t, "2026-08-20T14:30:00Z"),
	})
	require.NoError(t, err)

	data, err := svc.ExportDeliveries(ctx, 1)
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Entregas")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, deliveryExportHeader, rows[0])
	assert.Equal(t, "Caixa Mercado Livre", rows[1][0])
	assert.Equal(t, domain.DeliveryStatusAwaiting, rows[1][1])
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts
}

func TestExportEmptyCondominium(t *testing.T) {
	svc := NewExportService(repository.NewMemoryUsersRepo(), repository.NewMemoryDeliveriesRepo(), zap.NewNop())

	data, err := svc.ExportResidents(context.Background(), 1)
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Moradores")
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}
