package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cart is the server side cart of one anonymous session.
type Cart struct {
	ID        uuid.UUID `gorm:"primaryKey"`
	SessionID string    `gorm:"size:128;uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (Cart) TableName() string {
	return "carts"
}

type CartItem struct {
	ID        uuid.UUID `gorm:"primaryKey"`
	CartID    uuid.UUID `gorm:"uniqueIndex:idx_cart_product;not null"`
	ProductID uint      `gorm:"uniqueIndex:idx_cart_product;not null"`
	Quantity  int       `gorm:"not null;check:quantity > 0"`
	Product   *Product  `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}

// Product is the catalog entry a line item points at. Prices are in minor units.
type Product struct {
	ID    uint   `gorm:"primaryKey"                json:"id"`
	Name  string `gorm:"size:255;not null"          json:"name"`
	Slug  string `gorm:"size:255;uniqueIndex"       json:"slug"`
	Price int64  `gorm:"not null;check:price >= 0"  json:"price"`
	Image string `gorm:"size:1024"                  json:"image"`
}

func (Product) TableName() string {
	return "products"
}

func All() []any {
	return []any{&Product{}, &Cart{}, &CartItem{}}
}
