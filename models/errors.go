package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by lookups by id with no match
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateMember is returned when a member with the same name already exists
	ErrDuplicateMember = errors.New("member already exists")
	// ErrInsufficientStock is returned when a stock decrement would go below zero
	ErrInsufficientStock = errors.New("need more stock")
	ErrEmptyName         = errors.New("name is required")
	ErrInvalidCount      = errors.New("count must be greater than zero")
	ErrInvalidPrice      = errors.New("price must not be negative")
	ErrInvalidKind       = errors.New("item kind must be book, album or movie")
	ErrNoOrderItems      = errors.New("order must contain at least one order item")
	ErrItemMismatch      = errors.New("item does not match order item")
	// ErrAlreadyDelivered is returned when cancelling an order whose delivery is complete
	ErrAlreadyDelivered = errors.New("order has already been delivered and cannot be canceled")
	ErrAlreadyCanceled  = errors.New("order is already canceled")
)

// DuplicateMemberError reports a registration conflict on the member name
type DuplicateMemberError struct {
	Name string
}

func (e *DuplicateMemberError) Error() string {
	return fmt.Sprintf("member %q already exists", e.Name)
}

func (e *DuplicateMemberError) Unwrap() error {
	return ErrDuplicateMember
}

// InsufficientStockError reports a stock decrement that would leave negative stock
type InsufficientStockError struct {
	ItemID    uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("need more stock for item %d: requested %d, available %d", e.ItemID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}
