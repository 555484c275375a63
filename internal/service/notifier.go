package service

import (
	"context"
	"fmt"
	"time"

	"vivacondo-api/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Notifier pushes delivery events to the external notification gateway.
// It is best-effort: a gateway failure is logged and never propagates
// into the request that produced the event.
type Notifier struct {
	client  *resty.Client
	enabled bool
	logger  *zap.Logger
}

func NewNotifier(cfg config.NotifierConfig, logger *zap.Logger) *Notifier {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.Timeout) * time.Second).
		SetRetryCount(2)
	if cfg.APIKey != "" {
		client.SetHeader("X-Api-Key", cfg.APIKey)
	}
	return &Notifier{
		client:  client,
		enabled: cfg.Enabled && cfg.BaseURL != "",
		logger:  logger,
	}
}

type deliveryEvent struct {
	Event           string `json:"event"`
	CondominiumID   int64  `json:"condominium_id"`
	DeliveryID      int64  `json:"delivery_id"`
	RecipientUserID int64  `json:"recipient_user_id,omitempty"`
	ItemDescription string `json:"item_description"`
}

// DeliveryRegistered notifies the recipient that a package arrived at
// the gatehouse.
func (n *Notifier) DeliveryRegistered(ctx context.Context, condominiumID, deliveryID, recipientUserID int64, item string) {
	n.post(ctx, deliveryEvent{
		Event:           "delivery.registered",
		CondominiumID:   condominiumID,
		DeliveryID:      deliveryID,
		RecipientUserID: recipientUserID,
		ItemDescription: item,
	})
}

// DeliveryConfirmed notifies that the package was handed over.
func (n *Notifier) DeliveryConfirmed(ctx context.Context, condominiumID, deliveryID, recipientUserID int64, item string) {
	n.post(ctx, deliveryEvent{
		Event:           "delivery.confirmed",
		CondominiumID:   condominiumID,
		DeliveryID:      deliveryID,
		RecipientUserID: recipientUserID,
		ItemDescription: item,
	})
}

func (n *Notifier) post(ctx context.Context, ev deliveryEvent) {
	if !n.enabled {
		return
	}
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(ev).
		Post("/v1/notifications")
	if err != nil {
		n.logger.Warn("notification gateway unreachable",
			zap.String("event", ev.Event),
			zap.Int64("delivery_id", ev.DeliveryID),
			zap.Error(err),
		)
		return
	}
	if resp.IsError() {
		n.logger.Warn("notification gateway rejected event",
			zap.String("event", ev.Event),
			zap.Int64("delivery_id", ev.DeliveryID),
			zap.String("status", fmt.Sprintf("%d", resp.StatusCode())),
		)
	}
}
