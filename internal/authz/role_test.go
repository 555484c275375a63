package authz

import (
	"testing"

	"vivacondo-api/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		role string
		want RoleCategory
	}{
		{domain.RoleSuporte, RoleFullAccess},
		{domain.RoleSindico, RoleTenantOwner},
		{domain.RoleSubSindico, RoleSubScoped},
		{domain.RoleMorador, RoleMember},
		{domain.RoleFuncionario, RoleStaff},
		{"", RoleUnknown},
		{"admin", RoleUnknown},
		{"SINDICO", RoleUnknown}, // role strings are case sensitive
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.role), "role %q", tc.role)
	}
}

func TestRoleCategoryPredicates(t *testing.T) {
	assert.True(t, RoleFullAccess.HasImplicitFullPermissions())
	assert.True(t, RoleTenantOwner.HasImplicitFullPermissions())
	assert.False(t, RoleSubScoped.HasImplicitFullPermissions())
	assert.False(t, RoleMember.HasImplicitFullPermissions())
	assert.False(t, RoleStaff.HasImplicitFullPermissions())
	assert.False(t, RoleUnknown.HasImplicitFullPermissions())

	assert.True(t, RoleTenantOwner.OwnsMultipleTenants())
	assert.False(t, RoleFullAccess.OwnsMultipleTenants())

	assert.True(t, RoleMember.IsSingleTenantBound())
	assert.True(t, RoleStaff.IsSingleTenantBound())
	assert.False(t, RoleSubScoped.IsSingleTenantBound())
	assert.False(t, RoleTenantOwner.IsSingleTenantBound())
}
