package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vivacondo-api/internal/domain"
	"vivacondo-api/internal/repository"

	"go.uber.org/zap"
)

// CondominiumService manages the tenants themselves. The HTTP layer
// restricts every operation here to suporte; inactive and expired
// condominiums stay manageable so they can be reactivated.
type CondominiumService interface {
	ListCondominiums(ctx context.Context, req ListCondominiumsRequest) (*ListCondominiumsResponse, error)
	GetCondominium(ctx context.Context, id int64) (*CondominiumDetail, error)
	CreateCondominium(ctx context.Context, req CondominiumRequest) (*CondominiumDetail, error)
	UpdateCondominium(ctx context.Context, id int64, req CondominiumRequest) (*CondominiumDetail, error)
	SetCondominiumStatus(ctx context.Context, id int64, active bool) error
	DeleteCondominium(ctx context.Context, id int64) error
}

type condominiumService struct {
	condos repository.CondominiumsRepository
	logger *zap.Logger
}

func NewCondominiumService(condos repository.CondominiumsRepository, logger *zap.Logger) CondominiumService {
	return &condominiumService{condos: condos, logger: logger}
}

type ListCondominiumsRequest struct {
	Active *bool
	Search string
	Page   int
	Size   int
}

type ListCondominiumsResponse struct {
	Condominiums []CondominiumDetail `json:"condominiums"`
	Total        int                 `json:"total"`
}

type CondominiumDetail struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	CNPJ         *string    `json:"cnpj"`
	CompanyType  *string    `json:"company_type"`
	PostalCode   *string    `json:"postal_code"`
	Street       *string    `json:"street"`
	Number       *string    `json:"number"`
	Neighborhood *string    `json:"neighborhood"`
	City         *string    `json:"city"`
	State        *string    `json:"state"`
	Phone        *string    `json:"phone"`
	Email        *string    `json:"email"`
	IsActive     bool       `json:"is_active"`
	ExpiresAt    *time.Time `json:"expires_at"`
}

type CondominiumRequest struct {
	Name         string `json:"name"`
	CNPJ         string `json:"cnpj"`
	CompanyType  string `json:"company_type"`
	PostalCode   string `json:"postal_code"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	ExpiresAt    string `json:"expires_at"` // "2006-01-02", empty = no expiration
}

func (s *condominiumService) ListCondominiums(ctx context.Context, req ListCondominiumsRequest) (*ListCondominiumsResponse, error) {
	filters := repository.CondominiumFilters{
		Active: req.Active,
		Search: strings.TrimSpace(req.Search),
	}
	condos, total, err := s.condos.ListCondominiums(ctx, filters, req.Page, req.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to list condominiums: %w", err)
	}
	out := &ListCondominiumsResponse{
		Condominiums: make([]CondominiumDetail, 0, len(condos)),
		Total:        total,
	}
	for _, c := range condos {
		out.Condominiums = append(out.Condominiums, condominiumDetailFrom(c))
	}
	return out, nil
}

func (s *condominiumService) GetCondominium(ctx context.Context, id int64) (*CondominiumDetail, error) {
	condo, err := s.loadCondo(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := condominiumDetailFrom(condo)
	return &detail, nil
}

func (s *condominiumService) CreateCondominium(ctx context.Context, req CondominiumRequest) (*CondominiumDetail, error) {
	condo := condominiumFromRequest(req)
	condo.IsActive = true

	id, err := s.condos.CreateCondominium(ctx, condo)
	if err != nil {
		return nil, fmt.Errorf("failed to create condominium: %w", err)
	}
	condo.ID = id

	s.logger.Info("condominium created",
		zap.Int64("condominium_id", id),
		zap.String("name", condo.Name),
	)

	detail := condominiumDetailFrom(condo)
	return &detail, nil
}

func (s *condominiumService) UpdateCondominium(ctx context.Context, id int64, req CondominiumRequest) (*CondominiumDetail, error) {
	existing, err := s.loadCondo(ctx, id)
	if err != nil {
		return nil, err
	}

	condo := condominiumFromRequest(req)
	condo.ID = id
	condo.IsActive = existing.IsActive
	if err := s.condos.UpdateCondominium(ctx, id, condo); err != nil {
		return nil, fmt.Errorf("failed to update condominium: %w", err)
	}

	detail := condominiumDetailFrom(condo)
	return &detail, nil
}

func (s *condominiumService) SetCondominiumStatus(ctx context.Context, id int64, active bool) error {
	if _, err := s.loadCondo(ctx, id); err != nil {
		return err
	}
	if err := s.condos.SetCondominiumStatus(ctx, id, active); err != nil {
		return fmt.Errorf("failed to set condominium status: %w", err)
	}
	s.logger.Info("condominium status changed",
		zap.Int64("condominium_id", id),
		zap.Bool("active", active),
	)
	return nil
}

func (s *condominiumService) DeleteCondominium(ctx context.Context, id int64) error {
	if _, err := s.loadCondo(ctx, id); err != nil {
		return err
	}
	if err := s.condos.DeleteCondominium(ctx, id); err != nil {
		return fmt.Errorf("failed to delete condominium: %w", err)
	}
	return nil
}

func (s *condominiumService) loadCondo(ctx context.Context, id int64) (*domain.Condominium, error) {
	condo, err := s.condos.FindCondominium(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load condominium %d: %w", id, err)
	}
	if condo == nil {
		return nil, ErrCondominiumNotFound
	}
	return condo, nil
}

func condominiumFromRequest(req CondominiumRequest) *domain.Condominium {
	return &domain.Condominium{
		Name:         strings.TrimSpace(req.Name),
		CNPJ:         nullString(req.CNPJ),
		CompanyType:  nullString(req.CompanyType),
		PostalCode:   nullString(req.PostalCode),
		Street:       nullString(req.Street),
		Number:       nullString(req.Number),
		Neighborhood: nullString(req.Neighborhood),
		City:         nullString(req.City),
		State:        nullString(req.State),
		Phone:        nullString(req.Phone),
		Email:        nullString(req.Email),
		ExpiresAt:    nullDate(req.ExpiresAt),
	}
}

func condominiumDetailFrom(c *domain.Condominium) CondominiumDetail {
	d := CondominiumDetail{
		ID:           c.ID,
		Name:         c.Name,
		CNPJ:         stringPtr(c.CNPJ),
		CompanyType:  stringPtr(c.CompanyType),
		PostalCode:   stringPtr(c.PostalCode),
		Street:       stringPtr(c.Street),
		Number:       stringPtr(c.Number),
		Neighborhood: stringPtr(c.Neighborhood),
		City:         stringPtr(c.City),
		State:        stringPtr(c.State),
		Phone:        stringPtr(c.Phone),
		Email:        stringPtr(c.Email),
		IsActive:     c.IsActive,
	}
	if c.ExpiresAt.Valid {
		t := c.ExpiresAt.Time
		d.ExpiresAt = &t
	}
	return d
}
