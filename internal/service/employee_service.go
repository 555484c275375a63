package service

import (
	"context"
	"fmt"
	"strings"

	"vivacondo-api/internal/domain"
	"vivacondo-api/internal/repository"

	"go.uber.org/zap"
)

// EmployeeService manages condominium staff. An employee is a
// funcionario user plus an employment record (occupation, dates,
// employment status); identity and login stay on the users table.
type EmployeeService interface {
	ListEmployees(ctx context.Context, condominiumID int64, req ListEmployeesRequest) (*ListEmployeesResponse, error)
	GetEmployee(ctx context.Context, condominiumID, userID int64) (*EmployeeDetail, error)
	CreateEmployee(ctx context.Context, actor *domain.User, condominiumID int64, req CreateEmployeeRequest) (*EmployeeDetail, error)
	UpdateEmployee(ctx context.Context, actor *domain.User, condominiumID, userID int64, req UpdateEmployeeRequest) (*EmployeeDetail, error)
	DeleteEmployee(ctx context.Context, actor *domain.User, condominiumID, userID int64) error
}

type employeeService struct {
	users     UserService
	usersRepo repository.UsersRepository
	records   repository.EmployeesRepository
	auditor   *Auditor
	logger    *zap.Logger
}

func NewEmployeeService(
	users UserService,
	usersRepo repository.UsersRepository,
	records repository.EmployeesRepository,
	auditor *Auditor,
	logger *zap.Logger,
) EmployeeService {
	return &employeeService{
		users:     users,
		usersRepo: usersRepo,
		records:   records,
		auditor:   auditor,
		logger:    logger,
	}
}

type ListEmployeesRequest struct {
	Status *bool
	Search string
	Page   int
	Size   int
}

type ListEmployeesResponse struct {
	Employees []EmployeeDetail `json:"employees"`
	Total     int              `json:"total"`
}

type EmployeeDetail struct {
	UserDetail

	Occupation      string  `json:"occupation"`
	AdmissionDate   *string `json:"admission_date"`   // "2006-01-02"
	ResignationDate *string `json:"resignation_date"` // "2006-01-02"
	WorkDescription *string `json:"work_description"`
	EmploymentState string  `json:"employment_state"`
}

type CreateEmployeeRequest struct {
	CreateUserRequest

	Occupation      string `json:"occupation"`
	AdmissionDate   string `json:"admission_date"`
	WorkDescription string `json:"work_description"`
	EmploymentState string `json:"employment_state"`
}

type UpdateEmployeeRequest struct {
	UpdateUserRequest

	Occupation      *string `json:"occupation"`
	AdmissionDate   *string `json:"admission_date"`
	ResignationDate *string `json:"resignation_date"`
	WorkDescription *string `json:"work_description"`
	EmploymentState *string `json:"employment_state"`
}

func (s *employeeService) ListEmployees(ctx context.Context, condominiumID int64, req ListEmployeesRequest) (*ListEmployeesResponse, error) {
	filters := repository.UserFilters{
		Role:          domain.RoleFuncionario,
		AccountStatus: req.Status,
		Search:        strings.TrimSpace(req.Search),
	}
	users, total, err := s.usersRepo.ListUsers(ctx, condominiumID, filters, req.Page, req.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	out := &ListEmployeesResponse{
		Employees: make([]EmployeeDetail, 0, len(users)),
		Total:     total,
	}
	for _, u := range users {
		record, err := s.records.GetByUserID(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load employee record for user %d: %w", u.ID, err)
		}
		out.Employees = append(out.Employees, employeeDetailFrom(u, record))
	}
	return out, nil
}

func (s *employeeService) GetEmployee(ctx context.Context, condominiumID, userID int64) (*EmployeeDetail, error) {
	user, err := s.usersRepo.GetUser(ctx, condominiumID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	if user == nil || user.Role != domain.RoleFuncionario {
		return nil, ErrEmployeeNotFound
	}
	record, err := s.records.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load employee record for user %d: %w", userID, err)
	}
	detail := employeeDetailFrom(user, record)
	return &detail, nil
}

func (s *employeeService) CreateEmployee(ctx context.Context, actor *domain.User, condominiumID int64, req CreateEmployeeRequest) (*EmployeeDetail, error) {
	req.Role = domain.RoleFuncionario
	user, err := s.users.CreateUser(ctx, actor, condominiumID, req.CreateUserRequest)
	if err != nil {
		return nil, err
	}

	state := req.EmploymentState
	if state == "" {
		state = domain.EmployeeStatusTrabalhando
	}
	record := &domain.Employee{
		UserID:        user.ID,
		Occupation:    strings.TrimSpace(req.Occupation),
		AdmissionDate: nullDate(req.AdmissionDate),
		Description:   nullString(req.WorkDescription),
		Status:        state,
	}
	if err := s.records.UpsertForUser(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save employee record: %w", err)
	}

	detail := EmployeeDetail{
		UserDetail:      *user,
		Occupation:      record.Occupation,
		WorkDescription: stringPtr(record.Description),
		EmploymentState: record.Status,
	}
	if record.AdmissionDate.Valid {
		d := record.AdmissionDate.Time.Format("2006-01-02")
		detail.AdmissionDate = &d
	}
	return &detail, nil
}

func (s *employeeService) UpdateEmployee(ctx context.Context, actor *domain.User, condominiumID, userID int64, req UpdateEmployeeRequest) (*EmployeeDetail, error) {
	if _, err := s.users.UpdateUser(ctx, actor, condominiumID, userID, req.UpdateUserRequest); err != nil {
		return nil, err
	}

	record, err := s.records.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load employee record for user %d: %w", userID, err)
	}
	if record == nil {
		record = &domain.Employee{UserID: userID, Status: domain.EmployeeStatusTrabalhando}
	}

	if req.Occupation != nil {
		record.Occupation = strings.TrimSpace(*req.Occupation)
	}
	if req.AdmissionDate != nil {
		record.AdmissionDate = nullDate(*req.AdmissionDate)
	}
	if req.ResignationDate != nil {
		record.ResignationDate = nullDate(*req.ResignationDate)
	}
	if req.WorkDescription != nil {
		record.Description = nullString(*req.WorkDescription)
	}
	if req.EmploymentState != nil && *req.EmploymentState != "" {
		record.Status = *req.EmploymentState
	}
	if err := s.records.UpsertForUser(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save employee record: %w", err)
	}

	return s.GetEmployee(ctx, condominiumID, userID)
}

func (s *employeeService) DeleteEmployee(ctx context.Context, actor *domain.User, condominiumID, userID int64) error {
	user, err := s.usersRepo.GetUser(ctx, condominiumID, userID)
	if err != nil {
		return fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	if user == nil || user.Role != domain.RoleFuncionario {
		return ErrEmployeeNotFound
	}
	return s.users.DeleteUser(ctx, actor, condominiumID, userID)
}

func employeeDetailFrom(u *domain.User, record *domain.Employee) EmployeeDetail {
	d := EmployeeDetail{UserDetail: userDetailFrom(u, nil)}
	if record == nil {
		return d
	}
	d.Occupation = record.Occupation
	d.WorkDescription = stringPtr(record.Description)
	d.EmploymentState = record.Status
	if record.AdmissionDate.Valid {
		s := record.AdmissionDate.Time.Format("2006-01-02")
		d.AdmissionDate = &s
	}
	if record.ResignationDate.Valid {
		s := record.ResignationDate.Time.Format("2006-01-02")
		d.ResignationDate = &s
	}
	return d
}
