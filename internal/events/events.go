// Package events publishes domain events for downstream consumers such as
// fulfilment and analytics.
package events

import (
	"context"
	"time"

	"github.com/wichananm65/eco-shop-backend/internal/logger"
)

const EventTypeOrderPaid = "order.paid"

type OrderLine struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type OrderPaidEvent struct {
	EventID          string      `json:"eventId"`
	EventType        string      `json:"eventType"`
	OrderID          int         `json:"orderId"`
	UserID           int         `json:"userId"`
	Receipt          string      `json:"receipt"`
	GatewayPaymentID string      `json:"gatewayPaymentId"`
	Amount           float64     `json:"amount"`
	Currency         string      `json:"currency"`
	Items            []OrderLine `json:"items"`
	Timestamp        time.Time   `json:"timestamp"`
}

type Publisher interface {
	PublishOrderPaid(ctx context.Context, event OrderPaidEvent) error
}

// NoopPublisher drops events. It is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderPaid(ctx context.Context, event OrderPaidEvent) error {
	logger.Logger.Debug().Int("order_id", event.OrderID).Msg("event publishing disabled")
	return nil
}
