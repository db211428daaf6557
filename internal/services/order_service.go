package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"printshop/internal/models"
	"printshop/internal/repositories"
)

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo repositories.OrderRepository
	events    EventPublisher
	log       *zap.Logger
	now       func() time.Time
}

// NewOrderService creates a new OrderService. events may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, events EventPublisher, log *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		events:    events,
		log:       log,
		now:       time.Now,
	}
}

// GetAllOrders retrieves the orders matching filter, newest first.
func (s *OrderService) GetAllOrders(filter models.OrderFilter) ([]models.Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, filter.Status)
	}
	return s.orderRepo.GetAll(filter)
}

// GetCustomerOrders retrieves the orders of one customer, newest first.
func (s *OrderService) GetCustomerOrders(customerID string) ([]models.Order, error) {
	return s.orderRepo.GetAll(models.OrderFilter{CustomerID: customerID})
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// CreateOrder validates and persists an order, then announces it. The total
// is recomputed from the line items.
func (s *OrderService) CreateOrder(order models.Order) (*models.Order, error) {
	if len(order.Items) == 0 {
		return nil, fmt.Errorf("%w: order has no items", ErrInvalidInput)
	}
	if err := validateStruct(order.CustomerDetails); err != nil {
		return nil, err
	}
	if order.PickupDate.IsZero() {
		return nil, fmt.Errorf("%w: pickup date is required", ErrInvalidInput)
	}

	total := decimal.Zero
	for i := range order.Items {
		item := &order.Items[i]
		if err := validateStruct(item); err != nil {
			return nil, err
		}
		item.TotalPrice = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(item.TotalPrice)
	}

	now := s.now()
	order.ID = uuid.New().String()
	order.TotalAmount = total
	order.CreatedAt = now
	order.UpdatedAt = now
	if order.CustomerID == "" {
		order.CustomerID = models.GuestCustomerID
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}

	if err := s.orderRepo.Create(&order); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}
	s.log.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("customer_id", order.CustomerID),
		zap.String("total", order.TotalAmount.StringFixed(2)),
	)

	publish(s.events, s.log, EventOrderCreated, orderCreatedEvent(&order))
	return &order, nil
}

// UpdateOrderStatus changes the status of an existing order.
func (s *OrderService) UpdateOrderStatus(id string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	order, err := s.orderRepo.UpdateStatus(id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	s.log.Info("order status updated", zap.String("order_id", id), zap.String("status", string(status)))

	publish(s.events, s.log, EventOrderStatusUpdated, OrderStatusUpdatedEvent{
		OrderID:   order.ID,
		Status:    string(order.Status),
		UpdatedAt: order.UpdatedAt,
	})
	return order, nil
}

// Summary aggregates every order for the admin dashboard. Revenue excludes
// cancelled orders.
func (s *OrderService) Summary() (*models.OrderSummary, error) {
	orders, err := s.orderRepo.GetAll(models.OrderFilter{})
	if err != nil {
		return nil, err
	}

	summary := &models.OrderSummary{
		TotalOrders: len(orders),
		ByStatus:    make(map[models.OrderStatus]int),
		Revenue:     decimal.Zero,
	}
	for _, o := range orders {
		summary.ByStatus[o.Status]++
		if o.Status != models.OrderStatusCancelled {
			summary.Revenue = summary.Revenue.Add(o.TotalAmount)
		}
	}
	return summary, nil
}
