package service

import (
	"context"
	"testing"

	"vivacondo-api/internal/config"
	"vivacondo-api/internal/domain"
	"vivacondo-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type deliveryFixture struct {
	svc   DeliveryService
	audit *repository.MemoryAuditRepo
}

func newDeliveryFixture(t *testing.T) *deliveryFixture {
	t.Helper()
	audit := repository.NewMemoryAuditRepo()
	auditor := NewAuditor(audit, zap.NewNop())
	// gateway disabled: events are dropped, never sent
	notifier := NewNotifier(config.NotifierConfig{}, zap.NewNop())
	return &deliveryFixture{
		svc:   NewDeliveryService(repository.NewMemoryDeliveriesRepo(), auditor, notifier, zap.NewNop()),
		audit: audit,
	}
}

func porteiroActor() *domain.User {
	return &domain.User{ID: 50, Name: "Pedro", Role: domain.RoleFuncionario}
}

func TestCreateDelivery(t *testing.T) {
	f := newDeliveryFixture(t)

	detail, err := f.svc.CreateDelivery(context.Background(), porteiroActor(), 1, CreateDeliveryRequest{
		UserID:          7,
		ItemDescription: "Caixa Mercado Livre",
		Notes:           "frágil",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DeliveryStatusAwaiting, detail.Status)
	assert.False(t, detail.ReceivedAt.IsZero())
	require.NotNil(t, detail.UserID)
	assert.Equal(t, int64(7), *detail.UserID)
	require.NotNil(t, detail.EmployeeID)
	assert.Equal(t, int64(50), *detail.EmployeeID, "the registering employee is recorded")

	logs, _, err := f.audit.ListAuditLogs(context.Background(), 1, 1, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.AuditAddDelivery, logs[0].Action)
}

func TestConfirmDelivery(t *testing.T) {
	f := newDeliveryFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateDelivery(ctx, porteiroActor(), 1, CreateDeliveryRequest{
		UserID:          7,
		ItemDescription: "Envelope",
	})
	require.NoError(t, err)

	confirmed, err := f.svc.ConfirmDelivery(ctx, porteiroActor(), 1, created.ID, ConfirmDeliveryRequest{
		DeliveredToName: "Ana Silva",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DeliveryStatusDelivered, confirmed.Status)
	require.NotNil(t, confirmed.DeliveredToName)
	assert.Equal(t, "Ana Silva", *confirmed.DeliveredToName)
	require.NotNil(t, confirmed.DeliveredAt)

	logs, _, err := f.audit.ListAuditLogs(ctx, 1, 1, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, domain.AuditConfirmedDelivery, logs[0].Action)
}

func TestConfirmDeliveryTwice(t *testing.T) {
	f := newDeliveryFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateDelivery(ctx, porteiroActor(), 1, CreateDeliveryRequest{
		ItemDescription: "Envelope",
	})
	require.NoError(t, err)

	_, err = f.svc.ConfirmDelivery(ctx, porteiroActor(), 1, created.ID, ConfirmDeliveryRequest{DeliveredToName: "Ana"})
	require.NoError(t, err)

	_, err = f.svc.ConfirmDelivery(ctx, porteiroActor(), 1, created.ID, ConfirmDeliveryRequest{DeliveredToName: "Ana"})
	assert.ErrorIs(t, err, ErrDeliveryAlreadyDone)
}

func TestDeliveryScopedToCondominium(t *testing.T) {
	f := newDeliveryFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateDelivery(ctx, porteiroActor(), 1, CreateDeliveryRequest{
		ItemDescription: "Envelope",
	})
	require.NoError(t, err)

	_, err = f.svc.GetDelivery(ctx, 2, created.ID)
	assert.ErrorIs(t, err, ErrDeliveryNotFound)

	_, err = f.svc.ConfirmDelivery(ctx, porteiroActor(), 2, created.ID, ConfirmDeliveryRequest{})
	assert.ErrorIs(t, err, ErrDeliveryNotFound)
}

func TestUpdateDeliveryReassignsRecipient(t *testing.T) {
	f := newDeliveryFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateDelivery(ctx, porteiroActor(), 1, CreateDeliveryRequest{
		UserID:          7,
		ItemDescription: "Caixa",
	})
	require.NoError(t, err)

	var unassigned int64 = 0
	updated, err := f.svc.UpdateDelivery(ctx, porteiroActor(), 1, created.ID, UpdateDeliveryRequest{
		UserID: &unassigned,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.UserID, "recipient zero clears the assignment")
}

func TestDeleteDelivery(t *testing.T) {
	f := newDeliveryFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateDelivery(ctx, porteiroActor(), 1, CreateDeliveryRequest{
		ItemDescription: "Caixa",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteDelivery(ctx, porteiroActor(), 1, created.ID))

	_, err = f.svc.GetDelivery(ctx, 1, created.ID)
	assert.ErrorIs(t, err, ErrDeliveryNotFound)
}

func TestListDeliveriesByStatus(t *testing.T) {
	f := newDeliveryFixture(t)
	ctx := context.Background()

	a, err := f.svc.CreateDelivery(ctx, porteiroActor(), 1, CreateDeliveryRequest{ItemDescription: "Caixa A"})
	require.NoError(t, err)
	_, err = f.svc.CreateDelivery(ctx, porteiroActor(), 1, CreateDeliveryRequest{ItemDescription: "Caixa B"})
	require.NoError(t, err)

	_, err = f.svc.ConfirmDelivery(ctx, porteiroActor(), 1, a.ID, ConfirmDeliveryRequest{DeliveredToName: "Ana"})
	require.NoError(t, err)

	resp, err := f.svc.ListDeliveries(ctx, 1, ListDeliveriesRequest{Status: domain.DeliveryStatusAwaiting})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "Caixa B", resp.Deliveries[0].ItemDescription)
}
