package models

import (
	"fmt"
	"strings"
	"time"
)

// OrderStatus is either ORDER or CANCEL; the only transition is ORDER -> CANCEL
type OrderStatus string

const (
	OrderStatusOrder  OrderStatus = "ORDER"
	OrderStatusCancel OrderStatus = "CANCEL"
)

// ParseOrderStatus accepts the stored status names case-insensitively
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case OrderStatusOrder:
		return OrderStatusOrder, true
	case OrderStatusCancel:
		return OrderStatusCancel, true
	}
	return "", false
}

// Order is the aggregate root for order lines and the delivery.
// It references its member by id; lines and delivery are cascade-owned.
// The delivery is linked through DeliveryID only and loaded by the order repository.
type Order struct {
	ID         uint        `gorm:"primaryKey;column:order_id" json:"id"`
	MemberID   uint        `gorm:"not null;index" json:"member_id"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items"`
	DeliveryID uint        `gorm:"index" json:"delivery_id"`
	Delivery   *Delivery   `gorm:"-" json:"delivery,omitempty"`
	OrderDate  time.Time   `gorm:"not null" json:"order_date"`
	Status     OrderStatus `gorm:"type:varchar(16);not null;index" json:"status"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// CreateOrder assembles a new order for a member from already created lines
func CreateOrder(memberID uint, delivery *Delivery, lines ...*OrderItem) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrNoOrderItems
	}
	order := &Order{
		MemberID:   memberID,
		Delivery:   delivery,
		OrderDate:  time.Now(),
		Status:     OrderStatusOrder,
		OrderItems: make([]OrderItem, 0, len(lines)),
	}
	for _, line := range lines {
		order.AddOrderItem(line)
	}
	return order, nil
}

// AddOrderItem appends a line and points it at this order
func (o *Order) AddOrderItem(line *OrderItem) {
	line.OrderID = o.ID
	o.OrderItems = append(o.OrderItems, *line)
}

// ItemIDs lists the distinct catalog items referenced by the order lines
func (o *Order) ItemIDs() []uint {
	seen := make(map[uint]bool, len(o.OrderItems))
	ids := make([]uint, 0, len(o.OrderItems))
	for _, line := range o.OrderItems {
		if !seen[line.ItemID] {
			seen[line.ItemID] = true
			ids = append(ids, line.ItemID)
		}
	}
	return ids
}

// Cancel restores the stock of every line using the items lookup table (item id -> item)
// and marks the order canceled. Either all lines are canceled or none is.
func (o *Order) Cancel(items map[uint]*Item) error {
	if o.Status == OrderStatusCancel {
		return ErrAlreadyCanceled
	}
	if o.Delivery != nil && o.Delivery.Status == DeliveryStatusComp {
		return ErrAlreadyDelivered
	}
	for i := range o.OrderItems {
		line := &o.OrderItems[i]
		if err := line.checkCancel(items[line.ItemID]); err != nil {
			return fmt.Errorf("order %d, item %d: %w", o.ID, line.ItemID, err)
		}
	}
	for i := range o.OrderItems {
		line := &o.OrderItems[i]
		if err := line.Cancel(items[line.ItemID]); err != nil {
			return err
		}
	}
	o.Status = OrderStatusCancel
	return nil
}

// TotalPrice sums the total price of all lines
func (o *Order) TotalPrice() int {
	total := 0
	for i := range o.OrderItems {
		total += o.OrderItems[i].TotalPrice()
	}
	return total
}
