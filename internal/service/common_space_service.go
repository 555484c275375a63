package service

import (
	"context"
	"fmt"
	"strings"

	"vivacondo-api/internal/domain"
	"vivacondo-api/internal/repository"

	"go.uber.org/zap"
)

// CommonSpaceService manages the bookable shared areas of a condominium.
type CommonSpaceService interface {
	ListCommonSpaces(ctx context.Context, condominiumID int64, page, size int) (*ListCommonSpacesResponse, error)
	GetCommonSpace(ctx context.Context, condominiumID, spaceID int64) (*CommonSpaceDetail, error)
	CreateCommonSpace(ctx context.Context, actor *domain.User, condominiumID int64, req CommonSpaceRequest) (*CommonSpaceDetail, error)
	UpdateCommonSpace(ctx context.Context, actor *domain.User, condominiumID, spaceID int64, req CommonSpaceRequest) (*CommonSpaceDetail, error)
	DeleteCommonSpace(ctx context.Context, actor *domain.User, condominiumID, spaceID int64) error
}

type commonSpaceService struct {
	spaces  repository.CommonSpacesRepository
	auditor *Auditor
	logger  *zap.Logger
}

func NewCommonSpaceService(spaces repository.CommonSpacesRepository, auditor *Auditor, logger *zap.Logger) CommonSpaceService {
	return &commonSpaceService{spaces: spaces, auditor: auditor, logger: logger}
}

type ListCommonSpacesResponse struct {
	CommonSpaces []CommonSpaceDetail `json:"common_spaces"`
	Total        int                 `json:"total"`
}

type CommonSpaceDetail struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Description    *string  `json:"description"`
	Rules          []string `json:"rules"`
	ManualApproval bool     `json:"manual_approval"`
	Status         bool     `json:"status"`
}

type CommonSpaceRequest struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Rules          []string `json:"rules"`
	ManualApproval bool     `json:"manual_approval"`
	Status         *bool    `json:"status"`
}

func (s *commonSpaceService) ListCommonSpaces(ctx context.Context, condominiumID int64, page, size int) (*ListCommonSpacesResponse, error) {
	spaces, total, err := s.spaces.ListCommonSpaces(ctx, condominiumID, page, size)
	if err != nil {
		return nil, fmt.Errorf("failed to list common spaces: %w", err)
	}
	out := &ListCommonSpacesResponse{
		CommonSpaces: make([]CommonSpaceDetail, 0, len(spaces)),
		Total:        total,
	}
	for _, sp := range spaces {
		out.CommonSpaces = append(out.CommonSpaces, commonSpaceDetailFrom(sp))
	}
	return out, nil
}

func (s *commonSpaceService) GetCommonSpace(ctx context.Context, condominiumID, spaceID int64) (*CommonSpaceDetail, error) {
	space, err := s.loadScoped(ctx, condominiumID, spaceID)
	if err != nil {
		return nil, err
	}
	detail := commonSpaceDetailFrom(space)
	return &detail, nil
}

func (s *commonSpaceService) CreateCommonSpace(ctx context.Context, actor *domain.User, condominiumID int64, req CommonSpaceRequest) (*CommonSpaceDetail, error) {
	space := &domain.CommonSpace{
		CondominiumID:  condominiumID,
		Name:           strings.TrimSpace(req.Name),
		Description:    nullString(req.Description),
		Rules:          req.Rules,
		ManualApproval: req.ManualApproval,
		Status:         true,
	}
	if req.Status != nil {
		space.Status = *req.Status
	}

	id, err := s.spaces.CreateCommonSpace(ctx, space)
	if err != nil {
		return nil, fmt.Errorf("failed to create common space: %w", err)
	}
	space.ID = id

	s.auditor.Record(ctx, actor, condominiumID, domain.AuditAddCommonSpace, space.Name, nil)

	detail := commonSpaceDetailFrom(space)
	return &detail, nil
}

func (s *commonSpaceService) UpdateCommonSpace(ctx context.Context, actor *domain.User, condominiumID, spaceID int64, req CommonSpaceRequest) (*CommonSpaceDetail, error) {
	space, err := s.loadScoped(ctx, condominiumID, spaceID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		space.Name = name
	}
	space.Description = nullString(req.Description)
	if req.Rules != nil {
		space.Rules = req.Rules
	}
	space.ManualApproval = req.ManualApproval
	if req.Status != nil {
		space.Status = *req.Status
	}

	if err := s.spaces.UpdateCommonSpace(ctx, space); err != nil {
		return nil, fmt.Errorf("failed to update common space: %w", err)
	}

	s.auditor.Record(ctx, actor, condominiumID, domain.AuditUpdatedCommonSpace, space.Name, nil)

	detail := commonSpaceDetailFrom(space)
	return &detail, nil
}

func (s *commonSpaceService) DeleteCommonSpace(ctx context.Context, actor *domain.User, condominiumID, spaceID int64) error {
	space, err := s.loadScoped(ctx, condominiumID, spaceID)
	if err != nil {
		return err
	}
	if err := s.spaces.DeleteCommonSpace(ctx, condominiumID, spaceID); err != nil {
		return fmt.Errorf("failed to delete common space: %w", err)
	}
	s.auditor.Record(ctx, actor, condominiumID, domain.AuditDeletedCommonSpace, space.Name, nil)
	return nil
}

func (s *commonSpaceService) loadScoped(ctx context.Context, condominiumID, spaceID int64) (*domain.CommonSpace, error) {
	space, err := s.spaces.GetCommonSpace(ctx, condominiumID, spaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load common space %d: %w", spaceID, err)
	}
	if space == nil {
		return nil, ErrCommonSpaceNotFound
	}
	return space, nil
}

func commonSpaceDetailFrom(sp *domain.CommonSpace) CommonSpaceDetail {
	rules := sp.Rules
	if rules == nil {
		rules = []string{}
	}
	return CommonSpaceDetail{
		ID:             sp.ID,
		Name:           sp.Name,
		Description:    stringPtr(sp.Description),
		Rules:          rules,
		ManualApproval: sp.ManualApproval,
		Status:         sp.Status,
	}
}
