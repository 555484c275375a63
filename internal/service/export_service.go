package service

import (
	"bytes"
	"context"
	"fmt"

	"vivacondo-api/internal/domain"
	"vivacondo-api/internal/repository"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExportService builds the XLSX downloads offered on the sindico
// dashboard.
type ExportService interface {
	ExportResidents(ctx context.Context, condominiumID int64) ([]byte, error)
	ExportDeliveries(ctx context.Context, condominiumID int64) ([]byte, error)
}

type exportService struct {
	users      repository.UsersRepository
	deliveries repository.DeliveriesRepository
	logger     *zap.Logger
}

func NewExportService(users repository.UsersRepository, deliveries repository.DeliveriesRepository, logger *zap.Logger) ExportService {
	return &exportService{users: users, deliveries: deliveries, logger: logger}
}

var residentExportHeader = []string{
	"Nome",
	"Sobrenome",
	"E-mail",
	"Telefone",
	"Endereço",
	"Status",
	"Último acesso",
}

var deliveryExportHeader = []string{
	"Item",
	"Status",
	"Recebido em",
	"Entregue a",
	"Entregue em",
	"Observações",
}

// exportPageSize bounds one repository fetch while paging the full set.
const exportPageSize = 500

func (s *exportService) ExportResidents(ctx context.Context, condominiumID int64) ([]byte, error) {
	var rows [][]any
	for page := 1; ; page++ {
		users, _, err := s.users.ListUsers(ctx, condominiumID, repository.UserFilters{
			Role: domain.RoleMorador,
		}, page, exportPageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list residents for export: %w", err)
		}
		for _, u := range users {
			status := "Inativo"
			if u.AccountStatus {
				status = "Ativo"
			}
			lastLogin := ""
			if u.LastLoginAt.Valid {
				lastLogin = u.LastLoginAt.Time.Format("02/01/2006 15:04")
			}
			rows = append(rows, []any{
				u.Name, u.LastName, u.Email, u.Phone.String, u.Address.String, status, lastLogin,
			})
		}
		if len(users) < exportPageSize {
			break
		}
	}
	return buildSheet("Moradores", residentExportHeader, rows)
}

func (s *exportService) ExportDeliveries(ctx context.Context, condominiumID int64) ([]byte, error) {
	var rows [][]any
	for page := 1; ; page++ {
		deliveries, _, err := s.deliveries.ListDeliveries(ctx, condominiumID, repository.DeliveryFilters{}, page, exportPageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list deliveries for export: %w", err)
		}
		for _, d := range deliveries {
			deliveredAt := ""
			if d.DeliveredAt.Valid {
				deliveredAt = d.DeliveredAt.Time.Format("02/01/2006 15:04")
			}
			rows = append(rows, []any{
				d.ItemDescription,
				d.Status,
				d.ReceivedAt.Format("02/01/2006 15:04"),
				d.DeliveredToName.String,
				deliveredAt,
				d.Notes.String,
			})
		}
		if len(deliveries) < exportPageSize {
			break
		}
	}
	return buildSheet("Entregas", deliveryExportHeader, rows)
}

// buildSheet writes one styled sheet with a bold header row.
func buildSheet(sheetName string, headers []string, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	// WriteTo needs the file open, so Close only on error paths.

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
		colName, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheetName, colName, colName, 22); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}
