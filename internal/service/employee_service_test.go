package service

import (
	"context"
	"testing"

	"vivacondo-api/internal/domain"
	"vivacondo-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type employeeFixture struct {
	svc     EmployeeService
	users   *repository.MemoryUsersRepo
	records *repository.MemoryEmployeesRepo
	userSvc UserService
}

func newEmployeeFixture(t *testing.T) *employeeFixture {
	t.Helper()
	users := repository.NewMemoryUsersRepo()
	perms := repository.NewMemoryPermissionsRepo()
	records := repository.NewMemoryEmployeesRepo()
	auditor := NewAuditor(repository.NewMemoryAuditRepo(), zap.NewNop())
	userSvc := NewUserService(users, perms, records, auditor, zap.NewNop())
	return &employeeFixture{
		svc:     NewEmployeeService(userSvc, users, records, auditor, zap.NewNop()),
		users:   users,
		records: records,
		userSvc: userSvc,
	}
}

func TestCreateEmployee(t *testing.T) {
	f := newEmployeeFixture(t)

	detail, err := f.svc.CreateEmployee(context.Background(), sindicoActor(), 1, CreateEmployeeRequest{
		CreateUserRequest: CreateUserRequest{
			Name:     "Pedro",
			LastName: "Lima",
			Email:    "pedro@example.com",
			Password: "x",
			Role:     domain.RoleMorador, // ignored: employees are always funcionario
		},
		Occupation:    "Porteiro",
		AdmissionDate: "2026-01-15",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleFuncionario, detail.Role)
	assert.Equal(t, "Porteiro", detail.Occupation)
	require.NotNil(t, detail.AdmissionDate)
	assert.Equal(t, "2026-01-15", *detail.AdmissionDate)
	assert.Equal(t, domain.EmployeeStatusTrabalhando, detail.EmploymentState)

	record, err := f.records.GetByUserID(context.Background(), detail.ID)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "Porteiro", record.Occupation)
}

func TestGetEmployeeRejectsNonStaff(t *testing.T) {
	f := newEmployeeFixture(t)

	resident, err := f.userSvc.CreateUser(context.Background(), sindicoActor(), 1, CreateUserRequest{
		Name: "Ana", Email: "ana@example.com", Password: "x", Role: domain.RoleMorador,
	})
	require.NoError(t, err)

	_, err = f.svc.GetEmployee(context.Background(), 1, resident.ID)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	err = f.svc.DeleteEmployee(context.Background(), sindicoActor(), 1, resident.ID)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestUpdateEmployeeRecordsResignation(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateEmployee(ctx, sindicoActor(), 1, CreateEmployeeRequest{
		CreateUserRequest: CreateUserRequest{
			Name: "Pedro", Email: "pedro@example.com", Password: "x",
		},
		Occupation: "Porteiro",
	})
	require.NoError(t, err)

	resignation := "2026-08-01"
	dismissed := domain.EmployeeStatusDesligado
	updated, err := f.svc.UpdateEmployee(ctx, sindicoActor(), 1, created.ID, UpdateEmployeeRequest{
		ResignationDate: &resignation,
		EmploymentState: &dismissed,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ResignationDate)
	assert.Equal(t, resignation, *updated.ResignationDate)
	assert.Equal(t, dismissed, updated.EmploymentState)
	assert.Equal(t, "Porteiro", updated.Occupation, "untouched fields survive the update")
}

func TestDeleteEmployeeRemovesRecord(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateEmployee(ctx, sindicoActor(), 1, CreateEmployeeRequest{
		CreateUserRequest: CreateUserRequest{
			Name: "Pedro", Email: "pedro@example.com", Password: "x",
		},
		Occupation: "Zelador",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteEmployee(ctx, sindicoActor(), 1, created.ID))

	user, err := f.users.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, user)

	record, err := f.records.GetByUserID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestListEmployeesOnlySeesStaff(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()

	_, err := f.userSvc.CreateUser(ctx, sindicoActor(), 1, CreateUserRequest{
		Name: "Ana", Email: "ana@example.com", Password: "x", Role: domain.RoleMorador,
	})
	require.NoError(t, err)
	_, err = f.svc.CreateEmployee(ctx, sindicoActor(), 1, CreateEmployeeRequest{
		CreateUserRequest: CreateUserRequest{
			Name: "Pedro", Email: "pedro@example.com", Password: "x",
		},
		Occupation: "Porteiro",
	})
	require.NoError(t, err)

	resp, err := f.svc.ListEmployees(ctx, 1, ListEmployeesRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "Pedro", resp.Employees[0].Name)
	assert.Equal(t, "Porteiro", resp.Employees[0].Occupation)
}
