package repository

import (
	"context"
	"testing"

	"vivacondo-api/internal/authz"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionsEnsureDefault(t *testing.T) {
	repo := NewMemoryPermissionsRepo()
	ctx := context.Background()

	row, err := repo.GetByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, row, "no row before EnsureDefault")

	require.NoError(t, repo.EnsureDefault(ctx, 1))

	set, err := repo.PermissionSetForUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, authz.DefaultMatrix(), set)
}

func TestPermissionsEnsureDefaultKeepsExistingRow(t *testing.T) {
	repo := NewMemoryPermissionsRepo()
	ctx := context.Background()

	_, err := repo.MergeAndSave(ctx, 1, authz.PermissionSet{
		authz.ModuleResidents: {authz.ActionView: true},
	})
	require.NoError(t, err)

	require.NoError(t, repo.EnsureDefault(ctx, 1))

	set, err := repo.PermissionSetForUser(ctx, 1)
	require.NoError(t, err)
	assert.True(t, set[authz.ModuleResidents][authz.ActionView],
		"EnsureDefault must not reset an existing grant")
}

func TestPermissionsMergeAndSaveAccumulates(t *testing.T) {
	repo := NewMemoryPermissionsRepo()
	ctx := context.Background()

	first, err := repo.MergeAndSave(ctx, 2, authz.PermissionSet{
		authz.ModuleResidents: {authz.ActionView: true},
	})
	require.NoError(t, err)
	assert.True(t, first[authz.ModuleResidents][authz.ActionView])
	assert.False(t, first[authz.ModuleDeliveries][authz.ActionCreate])

	second, err := repo.MergeAndSave(ctx, 2, authz.PermissionSet{
		authz.ModuleDeliveries: {authz.ActionCreate: true},
	})
	require.NoError(t, err)
	assert.True(t, second[authz.ModuleResidents][authz.ActionView], "earlier grant survives")
	assert.True(t, second[authz.ModuleDeliveries][authz.ActionCreate])
}

func TestPermissionsMergeAndSaveRevokes(t *testing.T) {
	repo := NewMemoryPermissionsRepo()
	ctx := context.Background()

	_, err := repo.MergeAndSave(ctx, 3, authz.PermissionSet{
		authz.ModuleEmployees: {authz.ActionDelete: true},
	})
	require.NoError(t, err)

	revoked, err := repo.MergeAndSave(ctx, 3, authz.PermissionSet{
		authz.ModuleEmployees: {authz.ActionDelete: false},
	})
	require.NoError(t, err)
	assert.False(t, revoked[authz.ModuleEmployees][authz.ActionDelete])
}

func TestPermissionsUnknownEntriesDropOnMerge(t *testing.T) {
	repo := NewMemoryPermissionsRepo()
	ctx := context.Background()

	effective, err := repo.MergeAndSave(ctx, 4, authz.PermissionSet{
		"reservations":        {authz.ActionView: true},
		authz.ModuleResidents: {"approve": true},
	})
	require.NoError(t, err)

	_, ok := effective["reservations"]
	assert.False(t, ok)
	_, ok = effective[authz.ModuleResidents]["approve"]
	assert.False(t, ok)
}

func TestPermissionsDeleteByUserID(t *testing.T) {
	repo := NewMemoryPermissionsRepo()
	ctx := context.Background()

	require.NoError(t, repo.EnsureDefault(ctx, 5))
	require.NoError(t, repo.DeleteByUserID(ctx, 5))

	row, err := repo.GetByUserID(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, row)

	// deleted user falls back to the empty override
	set, err := repo.PermissionSetForUser(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, set)
}
