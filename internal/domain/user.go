package domain

import (
	"database/sql"
)

// User roles. Role semantics (who bypasses the permission matrix, who is
// bound to a single condominium) live in internal/authz, not here.
const (
	RoleSuporte     = "suporte"
	RoleSindico     = "sindico"
	RoleSubSindico  = "sub_sindico"
	RoleMorador     = "morador"
	RoleFuncionario = "funcionario"
)

// User domain model (users table).
type User struct {
	ID            int64         `db:"id"`
	CondominiumID sql.NullInt64 `db:"condominium_id"` // nullable: suporte users have none

	Name     string `db:"name"`
	LastName string `db:"last_name"`
	Email    string `db:"email"`
	Role     string `db:"role"`

	PasswordHash  []byte `db:"password"`
	AccountStatus bool   `db:"account_status"`

	Phone         sql.NullString `db:"phone"`
	Description   sql.NullString `db:"description"`
	DateOfBirth   sql.NullTime   `db:"date_of_birth"`
	Address       sql.NullString `db:"address"`
	Complement    sql.NullString `db:"complement"`
	City          sql.NullString `db:"city"`
	ZipCode       sql.NullString `db:"zip_code"`
	State         sql.NullString `db:"state"`
	Country       sql.NullString `db:"country"`
	AcceptsEmails bool           `db:"accepts_emails"`

	LastLoginAt             sql.NullTime  `db:"last_login_at"`
	LastViewedCondominiumID sql.NullInt64 `db:"last_viewed_condominium_id"`

	// Condominiums linked through condominium_user (sindico and
	// sub_sindico accounts, many-to-many). Loaded by the repository.
	LinkedCondominiumIDs []int64 `db:"-"`
}

// FullName joins name and last name for audit descriptions.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.Name
	}
	return u.Name + " " + u.LastName
}
