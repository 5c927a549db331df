package services

import (
	"context"
	"errors"

	"github.com/kendall-kelly/shop-api/logger"
	"github.com/kendall-kelly/shop-api/metrics"
	"github.com/kendall-kelly/shop-api/models"
	"github.com/kendall-kelly/shop-api/repository"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// OrderService places, cancels and looks up orders
type OrderService struct {
	uow     *repository.UnitOfWorkFactory
	members *repository.MemberRepository
	items   *repository.ItemRepository
	orders  *repository.OrderRepository
	log     *log.Entry
}

var orderServiceInstance *OrderService

func NewOrderService(uow *repository.UnitOfWorkFactory) *OrderService {
	return &OrderService{
		uow:     uow,
		members: repository.NewMemberRepository(),
		items:   repository.NewItemRepository(),
		orders:  repository.NewOrderRepository(),
		log:     logger.Component("order_service"),
	}
}

// InitOrderService creates the process-wide order service
func InitOrderService(uow *repository.UnitOfWorkFactory) *OrderService {
	orderServiceInstance = NewOrderService(uow)
	return orderServiceInstance
}

// GetOrderService returns the initialized order service instance
func GetOrderService() *OrderService {
	return orderServiceInstance
}

// SetOrderService sets the order service instance (primarily for testing)
func SetOrderService(service *OrderService) {
	orderServiceInstance = service
}

// Order places a single-line order for count units of an item, shipped to the
// member's address at the item's current price. Returns the order id.
func (s *OrderService) Order(ctx context.Context, memberID, itemID uint, count int) (id uint, err error) {
	ctx, span := startSpan(ctx, "OrderService.Order",
		attribute.Int64("member.id", int64(memberID)),
		attribute.Int64("item.id", int64(itemID)),
		attribute.Int("order.count", count),
	)
	defer func() {
		if err != nil {
			metrics.OrderFailures.WithLabelValues("order", failureReason(err)).Inc()
		}
		endSpan(span, err)
	}()

	uow, err := s.uow.Begin(ctx, false)
	if err != nil {
		return 0, err
	}
	defer uow.Rollback()

	member, err := s.members.FindOne(uow, memberID)
	if err != nil {
		return 0, err
	}
	item, err := s.items.FindOne(uow, itemID)
	if err != nil {
		return 0, err
	}

	line, err := models.CreateOrderItem(item, item.Price, count)
	if err != nil {
		return 0, err
	}
	order, err := models.CreateOrder(member.ID, models.NewDelivery(member.Address), line)
	if err != nil {
		return 0, err
	}

	// stock is read then written back without a lock
	if err := s.items.Save(uow, item); err != nil {
		return 0, err
	}
	if err := s.orders.Save(uow, order); err != nil {
		return 0, err
	}
	if err := uow.Commit(); err != nil {
		return 0, err
	}

	metrics.OrdersPlaced.Inc()
	s.log.WithFields(log.Fields{
		"order_id":  order.ID,
		"member_id": memberID,
		"item_id":   itemID,
		"count":     count,
	}).Info("Order placed")
	return order.ID, nil
}

// CancelOrder cancels an order and puts its stock back
func (s *OrderService) CancelOrder(ctx context.Context, orderID uint) (err error) {
	ctx, span := startSpan(ctx, "OrderService.CancelOrder", attribute.Int64("order.id", int64(orderID)))
	defer func() {
		if err != nil {
			metrics.OrderFailures.WithLabelValues("cancel", failureReason(err)).Inc()
		}
		endSpan(span, err)
	}()

	uow, err := s.uow.Begin(ctx, false)
	if err != nil {
		return err
	}
	defer uow.Rollback()

	order, err := s.orders.FindOne(uow, orderID)
	if err != nil {
		return err
	}
	items, err := s.items.FindByIDs(uow, order.ItemIDs())
	if err != nil {
		return err
	}
	if err := order.Cancel(items); err != nil {
		return err
	}

	for _, item := range items {
		if err := s.items.Save(uow, item); err != nil {
			return err
		}
	}
	if err := s.orders.Save(uow, order); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	metrics.OrdersCanceled.Inc()
	s.log.WithField("order_id", orderID).Info("Order canceled")
	return nil
}

// FindOne loads an order with its lines and delivery
func (s *OrderService) FindOne(ctx context.Context, orderID uint) (order *models.Order, err error) {
	ctx, span := startSpan(ctx, "OrderService.FindOne", attribute.Int64("order.id", int64(orderID)))
	defer func() { endSpan(span, err) }()

	uow, err := s.uow.Begin(ctx, true)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	order, err = s.orders.FindOne(uow, orderID)
	if err != nil {
		return nil, err
	}
	return order, uow.Commit()
}

// FindOrders searches orders by member name and status
func (s *OrderService) FindOrders(ctx context.Context, search repository.OrderSearch) (orders []models.Order, err error) {
	ctx, span := startSpan(ctx, "OrderService.FindOrders",
		attribute.String("search.member_name", search.MemberName),
		attribute.String("search.status", string(search.OrderStatus)),
	)
	defer func() { endSpan(span, err) }()

	uow, err := s.uow.Begin(ctx, true)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	orders, err = s.orders.Search(uow, search)
	if err != nil {
		return nil, err
	}
	return orders, uow.Commit()
}

// FindMemberOrders lists the orders of a member, models.ErrNotFound for an unknown member
func (s *OrderService) FindMemberOrders(ctx context.Context, memberID uint) (orders []models.Order, err error) {
	ctx, span := startSpan(ctx, "OrderService.FindMemberOrders", attribute.Int64("member.id", int64(memberID)))
	defer func() { endSpan(span, err) }()

	uow, err := s.uow.Begin(ctx, true)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if _, err := s.members.FindOne(uow, memberID); err != nil {
		return nil, err
	}
	orders, err = s.orders.FindByMember(uow, memberID)
	if err != nil {
		return nil, err
	}
	return orders, uow.Commit()
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, models.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	case errors.Is(err, models.ErrAlreadyDelivered), errors.Is(err, models.ErrAlreadyCanceled):
		return "not_cancelable"
	case errors.Is(err, models.ErrInvalidCount):
		return "invalid_count"
	default:
		return "internal"
	}
}
