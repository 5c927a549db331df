package repository

import (
	"github.com/kendall-kelly/shop-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	orderIDColumn       = clause.Column{Name: "order_id"}
	orderMemberIDColumn = clause.Column{Name: "member_id"}
	orderStatusColumn   = clause.Column{Name: "status"}
	orderItemOrderID    = clause.Column{Name: "order_id"}
	deliveryIDColumn    = clause.Column{Name: "delivery_id"}
)

// searchLimit caps the number of orders returned by Search
const searchLimit = 1000

// OrderSearch filters orders. Zero fields do not filter.
type OrderSearch struct {
	MemberName  string
	OrderStatus models.OrderStatus
}

// OrderRepository stores order aggregates: the order row, its lines and its delivery
type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// Save inserts a new order together with its delivery and lines.
// For a stored order only the order row is updated; lines are immutable.
func (r *OrderRepository) Save(uow *UnitOfWork, order *models.Order) error {
	db := uow.DB()
	if order.ID == 0 {
		if order.Delivery != nil {
			if err := db.Create(order.Delivery).Error; err != nil {
				return translate(err, "save delivery")
			}
			order.DeliveryID = order.Delivery.ID
		}
		return translate(db.Create(order).Error, "save order")
	}
	return translate(db.Omit(clause.Associations).Save(order).Error, "save order")
}

// FindOne loads the order with its lines and delivery
func (r *OrderRepository) FindOne(uow *UnitOfWork, id uint) (*models.Order, error) {
	var order models.Order
	err := preloadAggregate(uow.DB()).
		Where(clause.Eq{Column: orderIDColumn, Value: id}).
		Take(&order).Error
	if err != nil {
		return nil, translate(err, "find order")
	}
	orders := []models.Order{order}
	if err := attachDeliveries(uow.DB(), orders); err != nil {
		return nil, translate(err, "find order delivery")
	}
	return &orders[0], nil
}

func (r *OrderRepository) FindAll(uow *UnitOfWork) ([]models.Order, error) {
	return r.find(uow, uow.DB(), "find orders")
}

// FindByMember lists the orders placed by a member
func (r *OrderRepository) FindByMember(uow *UnitOfWork, memberID uint) ([]models.Order, error) {
	return r.find(uow, uow.DB().Where(clause.Eq{Column: orderMemberIDColumn, Value: memberID}), "find orders by member")
}

// Search filters by exact member name and by status, at most 1000 orders
func (r *OrderRepository) Search(uow *UnitOfWork, search OrderSearch) ([]models.Order, error) {
	db := uow.DB()
	query := db.Limit(searchLimit)

	if search.OrderStatus != "" {
		query = query.Where(clause.Eq{Column: orderStatusColumn, Value: search.OrderStatus})
	}
	if search.MemberName != "" {
		var memberIDs []uint
		err := db.Model(&models.Member{}).
			Where(clause.Eq{Column: memberNameColumn, Value: search.MemberName}).
			Pluck(memberIDColumn.Name, &memberIDs).Error
		if err != nil {
			return nil, translate(err, "search orders")
		}
		if len(memberIDs) == 0 {
			return []models.Order{}, nil
		}
		values := make([]interface{}, len(memberIDs))
		for i, id := range memberIDs {
			values[i] = id
		}
		query = query.Where(clause.IN{Column: orderMemberIDColumn, Values: values})
	}
	return r.find(uow, query, "search orders")
}

// Delete removes the order, its lines and its delivery
func (r *OrderRepository) Delete(uow *UnitOfWork, id uint) error {
	order, err := r.FindOne(uow, id)
	if err != nil {
		return err
	}

	db := uow.DB()
	if err := db.Where(clause.Eq{Column: orderItemOrderID, Value: order.ID}).Delete(&models.OrderItem{}).Error; err != nil {
		return translate(err, "delete order items")
	}
	if err := db.Where(clause.Eq{Column: orderIDColumn, Value: order.ID}).Delete(&models.Order{}).Error; err != nil {
		return translate(err, "delete order")
	}
	if order.DeliveryID != 0 {
		if err := db.Where(clause.Eq{Column: deliveryIDColumn, Value: order.DeliveryID}).Delete(&models.Delivery{}).Error; err != nil {
			return translate(err, "delete delivery")
		}
	}
	return nil
}

func (r *OrderRepository) find(uow *UnitOfWork, query *gorm.DB, what string) ([]models.Order, error) {
	var orders []models.Order
	err := preloadAggregate(query).
		Order(clause.OrderByColumn{Column: orderIDColumn}).
		Find(&orders).Error
	if err != nil {
		return nil, translate(err, what)
	}
	if err := attachDeliveries(uow.DB(), orders); err != nil {
		return nil, translate(err, what)
	}
	return orders, nil
}

// attachDeliveries loads the deliveries referenced by DeliveryID in one query
func attachDeliveries(db *gorm.DB, orders []models.Order) error {
	ids := make([]interface{}, 0, len(orders))
	for i := range orders {
		if orders[i].DeliveryID != 0 {
			ids = append(ids, orders[i].DeliveryID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var deliveries []models.Delivery
	if err := db.Where(clause.IN{Column: deliveryIDColumn, Values: ids}).Find(&deliveries).Error; err != nil {
		return err
	}
	byID := make(map[uint]*models.Delivery, len(deliveries))
	for i := range deliveries {
		byID[deliveries[i].ID] = &deliveries[i]
	}
	for i := range orders {
		orders[i].Delivery = byID[orders[i].DeliveryID]
	}
	return nil
}

func preloadAggregate(db *gorm.DB) *gorm.DB {
	return db.
		Preload("OrderItems", func(db *gorm.DB) *gorm.DB {
			return db.Order(clause.OrderByColumn{Column: clause.Column{Name: "order_item_id"}})
		})
}
