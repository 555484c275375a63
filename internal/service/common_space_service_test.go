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

func newCommonSpaceService(t *testing.T) (CommonSpaceService, *repository.MemoryAuditRepo) {
	t.Helper()
	audit := repository.NewMemoryAuditRepo()
	auditor := NewAuditor(audit, zap.NewNop())
	return NewCommonSpaceService(repository.NewMemoryCommonSpacesRepo(), auditor, zap.NewNop()), audit
}

func TestCreateCommonSpace(t *testing.T) {
	svc, audit := newCommonSpaceService(t)

	detail, err := svc.CreateCommonSpace(context.Background(), sindicoActor(), 1, CommonSpaceRequest{
		Name:           "Salão de Festas",
		Description:    "Capacidade para 80 pessoas",
		Rules:          []string{"Reserva com 48h de antecedência"},
		ManualApproval: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Salão de Festas", detail.Name)
	assert.True(t, detail.Status, "new spaces start active")
	assert.True(t, detail.ManualApproval)
	assert.Equal(t, []string{"Reserva com 48h de antecedência"}, detail.Rules)

	logs, _, err := audit.ListAuditLogs(context.Background(), 1, 1, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.AuditAddCommonSpace, logs[0].Action)
	assert.Equal(t, "Salão de Festas", logs[0].Description)
}

func TestCommonSpaceRulesNeverNil(t *testing.T) {
	svc, _ := newCommonSpaceService(t)

	detail, err := svc.CreateCommonSpace(context.Background(), sindicoActor(), 1, CommonSpaceRequest{
		Name: "Academia",
	})
	require.NoError(t, err)
	require.NotNil(t, detail.Rules)
	assert.Empty(t, detail.Rules)
}

func TestUpdateCommonSpaceStatus(t *testing.T) {
	svc, _ := newCommonSpaceService(t)
	ctx := context.Background()

	created, err := svc.CreateCommonSpace(ctx, sindicoActor(), 1, CommonSpaceRequest{Name: "Piscina"})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.UpdateCommonSpace(ctx, sindicoActor(), 1, created.ID, CommonSpaceRequest{
		Name:   "Piscina",
		Status: &inactive,
	})
	require.NoError(t, err)
	assert.False(t, updated.Status)
}

func TestCommonSpaceScopedToCondominium(t *testing.T) {
	svc, _ := newCommonSpaceService(t)
	ctx := context.Background()

	created, err := svc.CreateCommonSpace(ctx, sindicoActor(), 1, CommonSpaceRequest{Name: "Churrasqueira"})
	require.NoError(t, err)

	_, err = svc.GetCommonSpace(ctx, 2, created.ID)
	assert.ErrorIs(t, err, ErrCommonSpaceNotFound)

	err = svc.DeleteCommonSpace(ctx, sindicoActor(), 2, created.ID)
	assert.ErrorIs(t, err, ErrCommonSpaceNotFound)
}

func TestDeleteCommonSpace(t *testing.T) {
	svc, audit := newCommonSpaceService(t)
	ctx := context.Background()

	created, err := svc.CreateCommonSpace(ctx, sindicoActor(), 1, CommonSpaceRequest{Name: "Playground"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCommonSpace(ctx, sindicoActor(), 1, created.ID))

	_, err = svc.GetCommonSpace(ctx, 1, created.ID)
	assert.ErrorIs(t, err, ErrCommonSpaceNotFound)

	logs, _, err := audit.ListAuditLogs(ctx, 1, 1, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, domain.AuditDeletedCommonSpace, logs[0].Action)
}
