package models

// DeliveryStatus tracks shipping progress
type DeliveryStatus string

const (
	DeliveryStatusReady DeliveryStatus = "READY"
	DeliveryStatusComp  DeliveryStatus = "COMP"
)

// Delivery is owned by exactly one order and shares its lifetime
type Delivery struct {
	ID      uint           `gorm:"primaryKey;column:delivery_id" json:"id"`
	Address Address        `gorm:"embedded" json:"address"`
	Status  DeliveryStatus `gorm:"type:varchar(16);not null;default:'READY'" json:"status"`
}

// TableName specifies the table name for the Delivery model
func (Delivery) TableName() string {
	return "delivery"
}

// NewDelivery creates a delivery to the given address, ready to ship
func NewDelivery(address Address) *Delivery {
	return &Delivery{Address: address, Status: DeliveryStatusReady}
}
