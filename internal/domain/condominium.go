package domain

import (
	"database/sql"
	"time"
)

// Condominium domain model (condominiums table). One condominium is one
// tenant: the unit of data isolation for every other record.
type Condominium struct {
	ID int64 `db:"id"`

	Name        string         `db:"name"`
	CNPJ        sql.NullString `db:"cnpj"`
	CompanyType sql.NullString `db:"company_type"`

	PostalCode   sql.NullString `db:"postal_code"`
	Street       sql.NullString `db:"street"`
	Number       sql.NullString `db:"number"`
	Neighborhood sql.NullString `db:"neighborhood"`
	City         sql.NullString `db:"city"`
	State        sql.NullString `db:"state"`

	Phone sql.NullString `db:"phone"`
	Email sql.NullString `db:"email"`

	IsActive  bool         `db:"is_active"`
	ExpiresAt sql.NullTime `db:"expires_at"`
}

// Expired reports whether the subscription lapsed before now. The
// tenant resolver treats an expired condominium as inactive.
func (c *Condominium) Expired(now time.Time) bool {
	return c.ExpiresAt.Valid && c.ExpiresAt.Time.Before(now)
}
