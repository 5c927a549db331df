package models

import (
	"strings"
	"time"
)

// Address is a value type embedded into members and deliveries
type Address struct {
	City    string `gorm:"column:city" json:"city"`
	Street  string `gorm:"column:street" json:"street"`
	Zipcode string `gorm:"column:zipcode" json:"zipcode"`
}

// Member represents a registered shop member.
// Orders are reached through the order repository by member id, never through the member.
type Member struct {
	ID        uint      `gorm:"primaryKey;column:member_id" json:"id"`
	Name      string    `gorm:"not null;index" json:"name"` // uniqueness is checked by MemberService, not by the schema
	Address   Address   `gorm:"embedded" json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Member model
func (Member) TableName() string {
	return "member"
}

// Validate checks the member invariants that do not need storage access
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// Rename changes the member name
func (m *Member) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	m.Name = name
	return nil
}
