package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"vivacondo-api/internal/authz"
	"vivacondo-api/internal/domain"
	"vivacondo-api/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService manages the accounts living inside a condominium:
// moradores, funcionarios, sub-sindicos and the sindico itself.
type UserService interface {
	ListUsers(ctx context.Context, condominiumID int64, req ListUsersRequest) (*ListUsersResponse, error)
	GetUser(ctx context.Context, condominiumID, userID int64) (*UserDetail, error)
	CreateUser(ctx context.Context, actor *domain.User, condominiumID int64, req CreateUserRequest) (*UserDetail, error)
	UpdateUser(ctx context.Context, actor *domain.User, condominiumID, userID int64, req UpdateUserRequest) (*UserDetail, error)
	UpdateStatusAndRole(ctx context.Context, actor *domain.User, condominiumID, userID int64, req UpdateStatusRoleRequest) (*UserDetail, error)
	UpdateSettings(ctx context.Context, actor *domain.User, condominiumID, userID int64, req UpdateSettingsRequest) error
	DeleteUser(ctx context.Context, actor *domain.User, condominiumID, userID int64) error

	// RememberCondominium records the condominium the user last worked
	// in, so the frontend can preselect it on the next login.
	RememberCondominium(ctx context.Context, userID, condominiumID int64) error
}

type userService struct {
	users     repository.UsersRepository
	perms     repository.PermissionsRepository
	employees repository.EmployeesRepository
	auditor   *Auditor
	logger    *zap.Logger
}

func NewUserService(
	users repository.UsersRepository,
	perms repository.PermissionsRepository,
	employees repository.EmployeesRepository,
	auditor *Auditor,
	logger *zap.Logger,
) UserService {
	return &userService{
		users:     users,
		perms:     perms,
		employees: employees,
		auditor:   auditor,
		logger:    logger,
	}
}

type ListUsersRequest struct {
	Role         string
	Status       *bool
	Search       string
	ExcludeRoles []string
	Page         int
	Size         int
}

type ListUsersResponse struct {
	Users []UserDetail `json:"users"`
	Total int          `json:"total"`

	// Status summary for the list header.
	CountTotal    int `json:"count_total"`
	CountActive   int `json:"count_active"`
	CountInactive int `json:"count_inactive"`
}

// UserDetail is the outward representation of a user. Permissions is
// the effective (merged) set and only present for sub_sindico accounts.
type UserDetail struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	AccountStatus bool   `json:"account_status"`

	Phone         *string `json:"phone"`
	Description   *string `json:"description"`
	DateOfBirth   *string `json:"date_of_birth"` // "2006-01-02"
	Address       *string `json:"address"`
	Complement    *string `json:"complement"`
	City          *string `json:"city"`
	ZipCode       *string `json:"zip_code"`
	State         *string `json:"state"`
	Country       *string `json:"country"`
	AcceptsEmails bool    `json:"accepts_emails"`

	LastLoginAt *time.Time          `json:"last_login_at"`
	Permissions authz.PermissionSet `json:"permissions,omitempty"`
}

type CreateUserRequest struct {
	Name        string `json:"name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
	DateOfBirth string `json:"date_of_birth"` // "2006-01-02"
	Address     string `json:"address"`
	Complement  string `json:"complement"`
	City        string `json:"city"`
	ZipCode     string `json:"zip_code"`
	State       string `json:"state"`
	Country     string `json:"country"`
}

type UpdateUserRequest struct {
	Name        *string `json:"name"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	Phone       *string `json:"phone"`
	Description *string `json:"description"`
	DateOfBirth *string `json:"date_of_birth"`
	Address     *string `json:"address"`
	Complement  *string `json:"complement"`
	City        *string `json:"city"`
	ZipCode     *string `json:"zip_code"`
	State       *string `json:"state"`
	Country     *string `json:"country"`
}

type UpdateStatusRoleRequest struct {
	AccountStatus *bool   `json:"account_status"`
	Role          *string `json:"role"`

	// Permissions is a sparse override merged onto the stored set
	// inside one transaction; only meaningful for sub_sindico.
	Permissions authz.PermissionSet `json:"permissions"`
}

type UpdateSettingsRequest struct {
	AcceptsEmails *bool   `json:"accepts_emails"`
	Password      *string `json:"password"`
}

func (s *userService) ListUsers(ctx context.Context, condominiumID int64, req ListUsersRequest) (*ListUsersResponse, error) {
	filters := repository.UserFilters{
		Role:          req.Role,
		AccountStatus: req.Status,
		Search:        strings.TrimSpace(req.Search),
		ExcludeRoles:  req.ExcludeRoles,
	}
	users, total, err := s.users.ListUsers(ctx, condominiumID, filters, req.Page, req.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	countTotal, countActive, countInactive, err := s.users.CountUsersByStatus(ctx, condominiumID)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	out := &ListUsersResponse{
		Users:         make([]UserDetail, 0, len(users)),
		Total:         total,
		CountTotal:    countTotal,
		CountActive:   countActive,
		CountInactive: countInactive,
	}
	for _, u := range users {
		out.Users = append(out.Users, userDetailFrom(u, nil))
	}
	return out, nil
}

func (s *userService) GetUser(ctx context.Context, condominiumID, userID int64) (*UserDetail, error) {
	user, err := s.loadScoped(ctx, condominiumID, userID)
	if err != nil {
		return nil, err
	}

	var perms authz.PermissionSet
	if user.Role == domain.RoleSubSindico {
		stored, err := s.perms.PermissionSetForUser(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load permissions for user %d: %w", user.ID, err)
		}
		perms = authz.Merge(authz.DefaultMatrix(), stored)
	}

	detail := userDetailFrom(user, perms)
	return &detail, nil
}

func (s *userService) CreateUser(ctx context.Context, actor *domain.User, condominiumID int64, req CreateUserRequest) (*UserDetail, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:          strings.TrimSpace(req.Name),
		LastName:      strings.TrimSpace(req.LastName),
		Email:         email,
		Role:          req.Role,
		PasswordHash:  hash,
		AccountStatus: true,
		Phone:         nullString(req.Phone),
		Description:   nullString(req.Description),
		DateOfBirth:   nullDate(req.DateOfBirth),
		Address:       nullString(req.Address),
		Complement:    nullString(req.Complement),
		City:          nullString(req.City),
		ZipCode:       nullString(req.ZipCode),
		State:         nullString(req.State),
		Country:       nullString(req.Country),
		AcceptsEmails: true,
	}

	// suporte accounts belong to the platform, not to any condominium.
	if req.Role != domain.RoleSuporte {
		user.CondominiumID = sql.NullInt64{Int64: condominiumID, Valid: true}
	}

	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id

	switch req.Role {
	case domain.RoleSindico:
		if err := s.users.LinkCondominium(ctx, id, condominiumID); err != nil {
			return nil, fmt.Errorf("failed to link condominium: %w", err)
		}
	case domain.RoleSubSindico:
		if err := s.users.LinkCondominium(ctx, id, condominiumID); err != nil {
			return nil, fmt.Errorf("failed to link condominium: %w", err)
		}
		// The permission row starts as the all-deny default; the
		// sindico grants individual cells afterwards.
		if err := s.perms.EnsureDefault(ctx, id); err != nil {
			return nil, fmt.Errorf("failed to create default permissions: %w", err)
		}
	}

	s.auditor.Record(ctx, actor, condominiumID, auditAddActionFor(req.Role), user.FullName(), nil)

	detail := userDetailFrom(user, nil)
	return &detail, nil
}

func (s *userService) UpdateUser(ctx context.Context, actor *domain.User, condominiumID, userID int64, req UpdateUserRequest) (*UserDetail, error) {
	user, err := s.loadScoped(ctx, condominiumID, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			taken, err := s.users.GetUserByEmail(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			if taken != nil && taken.ID != user.ID {
				return nil, ErrEmailTaken
			}
			user.Email = email
		}
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	applyNullString(&user.Phone, req.Phone)
	applyNullString(&user.Description, req.Description)
	if req.DateOfBirth != nil {
		user.DateOfBirth = nullDate(*req.DateOfBirth)
	}
	applyNullString(&user.Address, req.Address)
	applyNullString(&user.Complement, req.Complement)
	applyNullString(&user.City, req.City)
	applyNullString(&user.ZipCode, req.ZipCode)
	applyNullString(&user.State, req.State)
	applyNullString(&user.Country, req.Country)

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	action := auditUpdateActionFor(user.Role)
	if actor != nil && actor.ID == user.ID {
		action = domain.AuditUpdatedOwnAccount
	}
	s.auditor.Record(ctx, actor, condominiumID, action, user.FullName(), nil)

	detail := userDetailFrom(user, nil)
	return &detail, nil
}

// UpdateStatusAndRole changes account status and/or role, and applies a
// permission override when one is given. The override is merged onto
// the stored set inside one transaction (row lock on the user's
// permission record), so two concurrent edits serialize and the last
// writer wins.
func (s *userService) UpdateStatusAndRole(ctx context.Context, actor *domain.User, condominiumID, userID int64, req UpdateStatusRoleRequest) (*UserDetail, error) {
	user, err := s.loadScoped(ctx, condominiumID, userID)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if req.AccountStatus != nil && *req.AccountStatus != user.AccountStatus {
		changes["account_status"] = map[string]bool{"from": user.AccountStatus, "to": *req.AccountStatus}
		user.AccountStatus = *req.AccountStatus
	}
	if req.Role != nil && *req.Role != user.Role {
		changes["role"] = map[string]string{"from": user.Role, "to": *req.Role}
		user.Role = *req.Role
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	var effective authz.PermissionSet
	if user.Role == domain.RoleSubSindico {
		if err := s.perms.EnsureDefault(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("failed to create default permissions: %w", err)
		}
		if len(req.Permissions) > 0 {
			effective, err = s.perms.MergeAndSave(ctx, user.ID, req.Permissions)
			if err != nil {
				return nil, fmt.Errorf("failed to save permissions: %w", err)
			}
			changes["permissions"] = req.Permissions
		} else {
			stored, err := s.perms.PermissionSetForUser(ctx, user.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to load permissions for user %d: %w", user.ID, err)
			}
			effective = authz.Merge(authz.DefaultMatrix(), stored)
		}
	}

	if len(changes) > 0 {
		s.auditor.Record(ctx, actor, condominiumID, auditUpdateActionFor(user.Role), user.FullName(), changes)
	}

	detail := userDetailFrom(user, effective)
	return &detail, nil
}

func (s *userService) UpdateSettings(ctx context.Context, actor *domain.User, condominiumID, userID int64, req UpdateSettingsRequest) error {
	user, err := s.loadScoped(ctx, condominiumID, userID)
	if err != nil {
		return err
	}

	if req.AcceptsEmails != nil {
		user.AcceptsEmails = *req.AcceptsEmails
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}

	if actor != nil && actor.ID == user.ID {
		s.auditor.Record(ctx, actor, condominiumID, domain.AuditUpdatedOwnAccount, user.FullName(), nil)
	}
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, actor *domain.User, condominiumID, userID int64) error {
	user, err := s.loadScoped(ctx, condominiumID, userID)
	if err != nil {
		return err
	}

	// Dependent rows first: permission set and employment record.
	if err := s.perms.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete permissions: %w", err)
	}
	if err := s.employees.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete employee record: %w", err)
	}
	if err := s.users.DeleteUser(ctx, condominiumID, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.auditor.Record(ctx, actor, condominiumID, auditDeleteActionFor(user.Role), user.FullName(), nil)
	return nil
}

func (s *userService) RememberCondominium(ctx context.Context, userID, condominiumID int64) error {
	return s.users.UpdateLastViewedCondominium(ctx, userID, condominiumID)
}

func (s *userService) loadScoped(ctx context.Context, condominiumID, userID int64) (*domain.User, error) {
	user, err := s.users.GetUser(ctx, condominiumID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func auditAddActionFor(role string) string {
	if role == domain.RoleFuncionario {
		return domain.AuditAddEmployee
	}
	return domain.AuditAddResident
}

func auditUpdateActionFor(role string) string {
	if role == domain.RoleFuncionario {
		return domain.AuditUpdatedEmployee
	}
	return domain.AuditUpdatedResident
}

func auditDeleteActionFor(role string) string {
	if role == domain.RoleFuncionario {
		return domain.AuditDeletedEmployee
	}
	return domain.AuditDeletedResident
}

func userDetailFrom(u *domain.User, perms authz.PermissionSet) UserDetail {
	d := UserDetail{
		ID:            u.ID,
		Name:          u.Name,
		LastName:      u.LastName,
		Email:         u.Email,
		Role:          u.Role,
		AccountStatus: u.AccountStatus,
		Phone:         stringPtr(u.Phone),
		Description:   stringPtr(u.Description),
		Address:       stringPtr(u.Address),
		Complement:    stringPtr(u.Complement),
		City:          stringPtr(u.City),
		ZipCode:       stringPtr(u.ZipCode),
		State:         stringPtr(u.State),
		Country:       stringPtr(u.Country),
		AcceptsEmails: u.AcceptsEmails,
		Permissions:   perms,
	}
	if u.DateOfBirth.Valid {
		s := u.DateOfBirth.Time.Format("2006-01-02")
		d.DateOfBirth = &s
	}
	if u.LastLoginAt.Valid {
		t := u.LastLoginAt.Time
		d.LastLoginAt = &t
	}
	return d
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

func nullDate(s string) sql.NullTime {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullTime{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func applyNullString(dst *sql.NullString, src *string) {
	if src == nil {
		return
	}
	*dst = nullString(*src)
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
