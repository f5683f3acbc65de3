package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/garden_shop/pkg/events"
	"github.com/Skotchmaster/garden_shop/pkg/logging"
	"github.com/Skotchmaster/garden_shop/services/cart/internal/models"
	"github.com/Skotchmaster/garden_shop/services/cart/internal/repo"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
)

const (
	maxSessionIDLen = 128
	// MaxLineQuantity caps one line, including quantity merged from repeated adds.
	MaxLineQuantity = 999
)

type CartService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *CartService) GetCart(ctx context.Context, sessionID string) (*models.Cart, []models.CartItem, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, nil, err
	}

	cart, err := s.Repo.GetOrCreateCart(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("get cart: %w", err)
	}
	items, err := s.Repo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list items: %w", err)
	}
	return cart, items, nil
}

func (s *CartService) AddItem(ctx context.Context, sessionID string, productID uint, quantity int) (*models.CartItem, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	if productID == 0 {
		return nil, fmt.Errorf("productId is required: %w", ErrValidation)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}
	if quantity > MaxLineQuantity {
		return nil, fmt.Errorf("quantity must be at most %d: %w", MaxLineQuantity, ErrValidation)
	}

	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	cart, err := s.Repo.GetOrCreateCart(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	item, err := s.Repo.AddItem(ctx, cart.ID, productID, quantity, MaxLineQuantity)
	if err != nil {
		if errors.Is(err, repo.ErrQuantityLimit) {
			return nil, fmt.Errorf("quantity cannot exceed %d: %w", MaxLineQuantity, ErrValidation)
		}
		return nil, fmt.Errorf("add item: %w", err)
	}

	s.publish(ctx, cart.ID, events.CartEvent{
		Type:      events.TypeItemAdded,
		SessionID: sessionID,
		CartID:    cart.ID.String(),
		ItemID:    item.ID.String(),
		ProductID: productID,
		Quantity:  quantity,
	})
	return item, nil
}

func (s *CartService) UpdateItem(ctx context.Context, itemID string, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}
	if quantity > MaxLineQuantity {
		return nil, fmt.Errorf("quantity must be at most %d: %w", MaxLineQuantity, ErrValidation)
	}
	id, err := parseItemID(itemID)
	if err != nil {
		return nil, err
	}

	item, err := s.Repo.UpdateQuantity(ctx, id, quantity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("update item: %w", err)
	}

	s.publish(ctx, item.CartID, events.CartEvent{
		Type:      events.TypeItemUpdated,
		CartID:    item.CartID.String(),
		ItemID:    item.ID.String(),
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	})
	return item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, itemID string) error {
	id, err := parseItemID(itemID)
	if err != nil {
		return err
	}

	item, err := s.Repo.DeleteItem(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("cart item not found: %w", ErrNotFound)
		}
		return fmt.Errorf("remove item: %w", err)
	}

	s.publish(ctx, item.CartID, events.CartEvent{
		Type:      events.TypeItemRemoved,
		CartID:    item.CartID.String(),
		ItemID:    item.ID.String(),
		ProductID: item.ProductID,
	})
	return nil
}

// ClearCart removes every line of the session's cart. A session without a
// cart has nothing to clear.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) (int64, error) {
	if err := validateSessionID(sessionID); err != nil {
		return 0, err
	}

	cart, err := s.Repo.FindCart(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("find cart: %w", err)
	}

	n, err := s.Repo.DeleteAllItems(ctx, cart.ID)
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}

	s.publish(ctx, cart.ID, events.CartEvent{
		Type:      events.TypeCartCleared,
		SessionID: sessionID,
		CartID:    cart.ID.String(),
	})
	return n, nil
}

// publish is best effort, a broker outage never fails a cart request.
func (s *CartService) publish(ctx context.Context, cartID uuid.UUID, ev events.CartEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, cartID.String(), ev); err != nil {
		logging.FromContext(ctx).Warn("publish_cart_event_error", "type", ev.Type, "error", err)
	}
}

func validateSessionID(sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return fmt.Errorf("sessionId is required: %w", ErrValidation)
	}
	if len(sessionID) > maxSessionIDLen {
		return fmt.Errorf("sessionId is too long: %w", ErrValidation)
	}
	return nil
}

// parseItemID maps malformed ids to not found, no such item can exist.
func parseItemID(itemID string) (uuid.UUID, error) {
	id, err := uuid.Parse(itemID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("cart item not found: %w", ErrNotFound)
	}
	return id, nil
}
