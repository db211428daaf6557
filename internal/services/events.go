package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"printshop/internal/models"
)

// Routing keys of the events published on the message broker.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusUpdated = "order.status_updated"
	EventStockReplenished   = "stock.replenished"
)

// EventPublisher publishes domain events. A nil EventPublisher disables
// publishing.
type EventPublisher interface {
	PublishJSON(routingKey string, v any) error
}

// OrderCreatedEvent is published after an order is persisted.
type OrderCreatedEvent struct {
	OrderID    string          `json:"orderId"`
	CustomerID string          `json:"customerId"`
	Status     string          `json:"status"`
	Total      decimal.Decimal `json:"total"`
	ItemCount  int             `json:"itemCount"`
	PickupDate time.Time       `json:"pickupDate"`
}

// OrderStatusUpdatedEvent is published after an admin changes an order status.
type OrderStatusUpdatedEvent struct {
	OrderID   string    `json:"orderId"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StockReplenishedEvent is published after a stock order is processed.
type StockReplenishedEvent struct {
	StockItemID  string `json:"stockItemId"`
	ProductID    string `json:"productId"`
	Added        int    `json:"added"`
	NewQuantity  int    `json:"newQuantity"`
	StockOrderID string `json:"stockOrderId"`
}

func publish(p EventPublisher, log *zap.Logger, routingKey string, event any) {
	if p == nil {
		log.Debug("event publishing disabled", zap.String("routing_key", routingKey))
		return
	}
	if err := p.PublishJSON(routingKey, event); err != nil {
		log.Warn("failed to publish event", zap.String("routing_key", routingKey), zap.Error(err))
	}
}

// EventLogger returns a consumer handler that decodes domain events and logs
// them. Malformed payloads are returned as errors so the consumer rejects
// them.
func EventLogger(log *zap.Logger) func(amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		switch msg.RoutingKey {
		case EventOrderCreated:
			var ev OrderCreatedEvent
			if err := json.Unmarshal(msg.Body, &ev); err != nil {
				return fmt.Errorf("decode %s: %w", msg.RoutingKey, err)
			}
			log.Info("order created",
				zap.String("order_id", ev.OrderID),
				zap.String("customer_id", ev.CustomerID),
				zap.String("total", ev.Total.StringFixed(2)),
				zap.Int("items", ev.ItemCount),
				zap.Time("pickup_date", ev.PickupDate),
			)
		case EventOrderStatusUpdated:
			var ev OrderStatusUpdatedEvent
			if err := json.Unmarshal(msg.Body, &ev); err != nil {
				return fmt.Errorf("decode %s: %w", msg.RoutingKey, err)
			}
			log.Info("order status updated",
				zap.String("order_id", ev.OrderID),
				zap.String("status", ev.Status),
			)
		case EventStockReplenished:
			var ev StockReplenishedEvent
			if err := json.Unmarshal(msg.Body, &ev); err != nil {
				return fmt.Errorf("decode %s: %w", msg.RoutingKey, err)
			}
			log.Info("stock replenished",
				zap.String("stock_item_id", ev.StockItemID),
				zap.Int("added", ev.Added),
				zap.Int("quantity", ev.NewQuantity),
			)
		default:
			log.Debug("ignoring event", zap.String("routing_key", msg.RoutingKey))
		}
		return nil
	}
}

func orderCreatedEvent(o *models.Order) OrderCreatedEvent {
	return OrderCreatedEvent{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Status:     string(o.Status),
		Total:      o.TotalAmount,
		ItemCount:  len(o.Items),
		PickupDate: o.PickupDate,
	}
}
