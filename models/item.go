package models

import (
	"strings"
	"time"
)

// ItemKind is the single-table discriminator stored in the dtype column
type ItemKind string

const (
	ItemKindBook  ItemKind = "B"
	ItemKindAlbum ItemKind = "A"
	ItemKindMovie ItemKind = "M"
)

// ParseItemKind maps the API names (book, album, movie) to the stored discriminator
func ParseItemKind(kind string) (ItemKind, bool) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "book", "b":
		return ItemKindBook, true
	case "album", "a":
		return ItemKindAlbum, true
	case "movie", "m":
		return ItemKindMovie, true
	}
	return "", false
}

// String returns the API name of the kind
func (k ItemKind) String() string {
	switch k {
	case ItemKindBook:
		return "book"
	case ItemKindAlbum:
		return "album"
	case ItemKindMovie:
		return "movie"
	}
	return string(k)
}

// Item is a catalog entry. Books, albums and movies share the item table and
// only fill the columns of their own kind.
type Item struct {
	ID            uint     `gorm:"primaryKey;column:item_id" json:"id"`
	DType         ItemKind `gorm:"column:dtype;type:varchar(1);not null;index" json:"-"`
	Name          string   `gorm:"not null" json:"name"`
	Price         int      `gorm:"not null;check:price >= 0" json:"price"`
	StockQuantity int      `gorm:"not null;check:stock_quantity >= 0" json:"stock_quantity"`

	// Book
	Author string `json:"author,omitempty"`
	ISBN   string `gorm:"column:isbn" json:"isbn,omitempty"`
	// Album
	Artist string `json:"artist,omitempty"`
	Etc    string `json:"etc,omitempty"`
	// Movie
	Director string `json:"director,omitempty"`
	Actor    string `json:"actor,omitempty"`

	ImageKey  *string   `json:"image_key,omitempty"`         // nullable, storage key of the uploaded image
	ImageURL  *string   `gorm:"-" json:"image_url,omitempty"` // computed, resolved by the image service
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Item model
func (Item) TableName() string {
	return "item"
}

// Validate checks catalog invariants before the item is stored
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if i.Price < 0 {
		return ErrInvalidPrice
	}
	if i.StockQuantity < 0 {
		return ErrInvalidCount
	}
	return nil
}

// AddStock increases the stock by quantity
func (i *Item) AddStock(quantity int) error {
	if quantity < 0 {
		return ErrInvalidCount
	}
	i.StockQuantity += quantity
	return nil
}

// RemoveStock decreases the stock by quantity.
// The stock is left untouched when the result would be negative.
func (i *Item) RemoveStock(quantity int) error {
	if quantity < 0 {
		return ErrInvalidCount
	}
	rest := i.StockQuantity - quantity
	if rest < 0 {
		return &InsufficientStockError{ItemID: i.ID, Requested: quantity, Available: i.StockQuantity}
	}
	i.StockQuantity = rest
	return nil
}

// Change applies a catalog update of name, price and stock
func (i *Item) Change(name string, price, stockQuantity int) error {
	updated := *i
	updated.Name = name
	updated.Price = price
	updated.StockQuantity = stockQuantity
	if err := updated.Validate(); err != nil {
		return err
	}
	*i = updated
	return nil
}
