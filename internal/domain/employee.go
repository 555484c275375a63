package domain

import (
	"database/sql"
)

// Employee statuses.
const (
	EmployeeStatusTrabalhando = "trabalhando"
	EmployeeStatusFerias      = "ferias"
	EmployeeStatusLicenca     = "licenca"
	EmployeeStatusAfastado    = "afastado"
	EmployeeStatusDesligado   = "desligado"
	EmployeeStatusSuspenso    = "suspenso"
)

// Employee domain model (employees table). Extends a funcionario user
// with employment details; the user row carries identity and login.
type Employee struct {
	ID     int64 `db:"id"`
	UserID int64 `db:"user_id"`

	Occupation      string         `db:"occupation"`
	AdmissionDate   sql.NullTime   `db:"admission_date"`
	ResignationDate sql.NullTime   `db:"resignation_date"`
	Description     sql.NullString `db:"employee_description"`
	Status          string         `db:"status"`
}
