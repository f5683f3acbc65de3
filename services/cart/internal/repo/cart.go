package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/garden_shop/services/cart/internal/models"
)

// GetOrCreateCart returns the cart of sessionID, creating it on first use.
// Concurrent first requests for one session end up with the same cart.
func (r *GormRepo) GetOrCreateCart(ctx context.Context, sessionID string) (*models.Cart, error) {
	db := r.DB.WithContext(ctx)

	cart := models.Cart{SessionID: sessionID}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoNothing: true,
	}).Create(&cart).Error; err != nil {
		return nil, err
	}

	var stored models.Cart
	if err := db.Where("session_id = ?", sessionID).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *GormRepo) FindCart(ctx context.Context, sessionID string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB.WithContext(ctx).Where("session_id = ?", sessionID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepo) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ?", cartID).
		Order("created_at, id").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

var ErrQuantityLimit = errors.New("line quantity limit exceeded")

// AddItem adds quantity of productID to the cart. An existing line for the
// product has its quantity increased instead of getting a second row.
// When the merged quantity would exceed maxQuantity nothing is changed and
// ErrQuantityLimit is returned.
func (r *GormRepo) AddItem(ctx context.Context, cartID uuid.UUID, productID uint, quantity, maxQuantity int) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := models.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
				"updated_at": gorm.Expr("excluded.updated_at"),
			}),
		}).Create(&row).Error; err != nil {
			return err
		}
		if err := tx.Preload("Product").
			Where("cart_id = ? AND product_id = ?", cartID, productID).
			First(&item).Error; err != nil {
			return err
		}
		if item.Quantity > maxQuantity {
			return ErrQuantityLimit
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) GetItem(ctx context.Context, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).Preload("Product").Where("id = ?", itemID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).Where("id = ?", itemID).Update("quantity", quantity)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Preload("Product").Where("id = ?", itemID).First(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes a line and returns what was removed.
func (r *GormRepo) DeleteItem(ctx context.Context, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", itemID).First(&item).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) DeleteAllItems(ctx context.Context, cartID uuid.UUID) (int64, error) {
	res := r.DB.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}
