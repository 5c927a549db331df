package models

import "fmt"

// OrderItem is one order line. Price and count are a snapshot taken when the order
// was placed; later catalog price changes do not affect it.
type OrderItem struct {
	ID         uint `gorm:"primaryKey;column:order_item_id" json:"id"`
	OrderID    uint `gorm:"not null;index" json:"order_id"` // owning order
	ItemID     uint `gorm:"not null;index" json:"item_id"`  // referenced catalog item
	OrderPrice int  `gorm:"not null" json:"order_price"`
	Count      int  `gorm:"not null;check:count > 0" json:"count"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_item"
}

// CreateOrderItem snapshots price and count onto a new line and takes count units
// out of the item's stock. Nothing is changed when the stock is insufficient.
func CreateOrderItem(item *Item, orderPrice, count int) (*OrderItem, error) {
	if item == nil {
		return nil, fmt.Errorf("create order item: %w", ErrNotFound)
	}
	if count <= 0 {
		return nil, ErrInvalidCount
	}
	if orderPrice < 0 {
		return nil, ErrInvalidPrice
	}
	if err := item.RemoveStock(count); err != nil {
		return nil, err
	}
	return &OrderItem{
		ItemID:     item.ID,
		OrderPrice: orderPrice,
		Count:      count,
	}, nil
}

// Cancel puts the line's count back into the referenced item's stock
func (oi *OrderItem) Cancel(item *Item) error {
	if err := oi.checkCancel(item); err != nil {
		return err
	}
	return item.AddStock(oi.Count)
}

// checkCancel reports whether Cancel(item) would succeed without changing anything
func (oi *OrderItem) checkCancel(item *Item) error {
	if item == nil || item.ID != oi.ItemID {
		return fmt.Errorf("order item %d: %w", oi.ID, ErrItemMismatch)
	}
	if oi.Count < 0 {
		return ErrInvalidCount
	}
	return nil
}

// TotalPrice is the snapshot price times the ordered count
func (oi *OrderItem) TotalPrice() int {
	return oi.OrderPrice * oi.Count
}
