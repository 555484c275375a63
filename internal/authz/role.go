package authz

import (
	"vivacondo-api/internal/domain"
)

// RoleCategory is the single place role strings are interpreted.
// Handlers and services must never compare against raw role values;
// they go through Classify and the predicates below.
type RoleCategory int

const (
	// RoleUnknown is the fail-closed category for unrecognized role
	// strings: never resolved, never authorized.
	RoleUnknown RoleCategory = iota
	RoleFullAccess
	RoleTenantOwner
	RoleSubScoped
	RoleMember
	RoleStaff
)

// Classify maps a stored role string to its category.
func Classify(role string) RoleCategory {
	switch role {
	case domain.RoleSuporte:
		return RoleFullAccess
	case domain.RoleSindico:
		return RoleTenantOwner
	case domain.RoleSubSindico:
		return RoleSubScoped
	case domain.RoleMorador:
		return RoleMember
	case domain.RoleFuncionario:
		return RoleStaff
	default:
		return RoleUnknown
	}
}

// HasImplicitFullPermissions reports whether the category bypasses the
// permission matrix entirely. Only suporte and sindico do; they carry
// no stored permission set at all.
func (c RoleCategory) HasImplicitFullPermissions() bool {
	return c == RoleFullAccess || c == RoleTenantOwner
}

// OwnsMultipleTenants reports whether condominium access is decided by
// the many-to-many link set rather than a single bound id.
func (c RoleCategory) OwnsMultipleTenants() bool {
	return c == RoleTenantOwner
}

// IsSingleTenantBound reports whether the account lives inside exactly
// one condominium (users.condominium_id).
func (c RoleCategory) IsSingleTenantBound() bool {
	return c == RoleMember || c == RoleStaff
}

func (c RoleCategory) String() string {
	switch c {
	case RoleFullAccess:
		return "full_access"
	case RoleTenantOwner:
		return "tenant_owner"
	case RoleSubScoped:
		return "sub_scoped"
	case RoleMember:
		return "member"
	case RoleStaff:
		return "staff"
	default:
		return "unknown"
	}
}
