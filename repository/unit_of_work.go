// Package repository holds the unit of work and the typed repositories of the shop.
// Every repository call runs against the transaction of the unit of work it is given.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kendall-kelly/shop-api/models"
	"gorm.io/gorm"
)

// ErrUnitOfWorkClosed is returned when a finished unit of work is used again
var ErrUnitOfWorkClosed = errors.New("unit of work already closed")

// UnitOfWorkFactory opens units of work on one database
type UnitOfWorkFactory struct {
	db *gorm.DB
}

// NewUnitOfWorkFactory creates a factory for db
func NewUnitOfWorkFactory(db *gorm.DB) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{db: db}
}

// UnitOfWork is one database transaction shared by the repository calls of a service operation
type UnitOfWork struct {
	tx       *gorm.DB
	readOnly bool
	done     bool
}

// Begin starts a transaction. Read-only units of work ask for a read-only
// transaction on dialects that support it.
func (f *UnitOfWorkFactory) Begin(ctx context.Context, readOnly bool) (*UnitOfWork, error) {
	var opts []*sql.TxOptions
	if readOnly && f.db.Dialector.Name() == "postgres" {
		opts = append(opts, &sql.TxOptions{ReadOnly: true})
	}
	tx := f.db.WithContext(ctx).Begin(opts...)
	if tx.Error != nil {
		return nil, fmt.Errorf("begin transaction: %w", tx.Error)
	}
	return &UnitOfWork{tx: tx, readOnly: readOnly}, nil
}

// DB returns the transaction handle for repository queries
func (u *UnitOfWork) DB() *gorm.DB {
	return u.tx
}

// ReadOnly reports whether the unit of work was opened for reads only
func (u *UnitOfWork) ReadOnly() bool {
	return u.readOnly
}

// Commit commits the transaction
func (u *UnitOfWork) Commit() error {
	if u.done {
		return ErrUnitOfWorkClosed
	}
	u.done = true
	if err := u.tx.Commit().Error; err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Rollback aborts the transaction. It does nothing after Commit or a previous Rollback.
func (u *UnitOfWork) Rollback() {
	if u.done {
		return
	}
	u.done = true
	u.tx.Rollback()
}

// Migrate creates or updates the shop schema
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Member{},
		&models.Item{},
		&models.Delivery{},
		&models.Order{},
		&models.OrderItem{},
	)
}

func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, models.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}
