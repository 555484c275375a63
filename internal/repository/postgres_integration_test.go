// +build integration

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"vivacondo-api/internal/authz"
	"vivacondo-api/internal/config"
	"vivacondo-api/internal/database"
	"vivacondo-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	cfg := config.Load()
	db, err := database.Open(&cfg.Database)
	if err != nil {
		t.Skipf("Skipping integration test: database not available: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func seedTestCondominium(t *testing.T, db *sql.DB) int64 {
	t.Helper()
	condos := NewPostgresCondominiumsRepository(db)
	id, err := condos.CreateCondominium(context.Background(), &domain.Condominium{
		Name:     fmt.Sprintf("Residencial Integração %d", time.Now().UnixNano()),
		IsActive: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = condos.DeleteCondominium(context.Background(), id) })
	return id
}

func TestPostgresUsersRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	condoID := seedTestCondominium(t, db)
	users := NewPostgresUsersRepository(db)

	email := fmt.Sprintf("integ-%d@example.com", time.Now().UnixNano())
	id, err := users.CreateUser(ctx, &domain.User{
		CondominiumID: sql.NullInt64{Int64: condoID, Valid: true},
		Name:          "Ana",
		LastName:      "Silva",
		Email:         email,
		Role:          domain.RoleMorador,
		PasswordHash:  []byte("hash"),
		AccountStatus: true,
		AcceptsEmails: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = users.DeleteUser(ctx, condoID, id) })

	byEmail, err := users.GetUserByEmail(ctx, email)
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, id, byEmail.ID)
	assert.Equal(t, "Ana", byEmail.Name)

	// scoped lookup only answers inside the owning condominium
	scoped, err := users.GetUser(ctx, condoID, id)
	require.NoError(t, err)
	require.NotNil(t, scoped)
	other, err := users.GetUser(ctx, condoID+1, id)
	require.NoError(t, err)
	assert.Nil(t, other)

	byEmail.Name = "Ana Maria"
	require.NoError(t, users.UpdateUser(ctx, byEmail))
	updated, err := users.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", updated.Name)
}

func TestPostgresUsersLinkedCondominiums(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	condoID := seedTestCondominium(t, db)
	users := NewPostgresUsersRepository(db)

	email := fmt.Sprintf("integ-sindico-%d@example.com", time.Now().UnixNano())
	id, err := users.CreateUser(ctx, &domain.User{
		CondominiumID: sql.NullInt64{Int64: condoID, Valid: true},
		Name:          "Carlos",
		Email:         email,
		Role:          domain.RoleSindico,
		PasswordHash:  []byte("hash"),
		AccountStatus: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = users.DeleteUser(ctx, condoID, id) })

	require.NoError(t, users.LinkCondominium(ctx, id, condoID))

	loaded, err := users.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.Contains(t, loaded.LinkedCondominiumIDs, condoID)
}

func TestPostgresPermissionsMergeAndSave(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	condoID := seedTestCondominium(t, db)
	users := NewPostgresUsersRepository(db)
	perms := NewPostgresPermissionsRepository(db)

	email := fmt.Sprintf("integ-sub-%d@example.com", time.Now().UnixNano())
	userID, err := users.CreateUser(ctx, &domain.User{
		CondominiumID: sql.NullInt64{Int64: condoID, Valid: true},
		Name:          "Bruno",
		Email:         email,
		Role:          domain.RoleSubSindico,
		PasswordHash:  []byte("hash"),
		AccountStatus: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = perms.DeleteByUserID(ctx, userID)
		_ = users.DeleteUser(ctx, condoID, userID)
	})

	require.NoError(t, perms.EnsureDefault(ctx, userID))

	set, err := perms.PermissionSetForUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, authz.DefaultMatrix(), authz.Merge(authz.DefaultMatrix(), set))

	effective, err := perms.MergeAndSave(ctx, userID, authz.PermissionSet{
		authz.ModuleDeliveries: {authz.ActionView: true},
	})
	require.NoError(t, err)
	assert.True(t, effective[authz.ModuleDeliveries][authz.ActionView])

	// second override accumulates instead of replacing
	effective, err = perms.MergeAndSave(ctx, userID, authz.PermissionSet{
		authz.ModuleResidents: {authz.ActionView: true},
	})
	require.NoError(t, err)
	assert.True(t, effective[authz.ModuleDeliveries][authz.ActionView])
	assert.True(t, effective[authz.ModuleResidents][authz.ActionView])
}
