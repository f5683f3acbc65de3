package cartstate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Skotchmaster/garden_shop/pkg/cartclient"
	"github.com/Skotchmaster/garden_shop/pkg/logging"
)

const GenericFailureMessage = "Something went wrong with your cart. Please try again."

const (
	OpLoad   = "load"
	OpAdd    = "add"
	OpUpdate = "update"
	OpRemove = "remove"
	OpClear  = "clear"
)

var (
	ErrInvalidQuantity = errors.New("cart: quantity must be at least 1")
	ErrNotLoaded       = errors.New("cart: not loaded")
	ErrBusy            = errors.New("cart: a load or mutation is already in flight")
)

// API is the cart API as seen by the dispatcher. *cartclient.Client implements it.
type API interface {
	GetCart(ctx context.Context, sessionID string) (*cartclient.CartResponse, error)
	AddItem(ctx context.Context, sessionID string, productID uint, quantity int) (*cartclient.LineItem, error)
	UpdateItem(ctx context.Context, itemID string, quantity int) (*cartclient.LineItem, error)
	RemoveItem(ctx context.Context, itemID string) error
}

// BulkClearer is implemented by APIs that can empty a cart in one request.
type BulkClearer interface {
	ClearCart(ctx context.Context, sessionID string) error
}

type SessionSource interface {
	SessionID(ctx context.Context) string
}

type Options struct {
	// Optimistic moves DisplayCount ahead of the server while an add is in flight.
	// Line items themselves are only ever taken from server responses.
	Optimistic bool
	// BulkClear empties the cart with one request when the API supports it,
	// instead of removing items one by one.
	BulkClear bool
}

// ClearError reports a clear that stopped part way. Items in Removed are gone
// from the cart, items in Remaining are untouched.
type ClearError struct {
	Removed   []string
	Remaining []string
	Err       error
}

func (e *ClearError) Error() string {
	return fmt.Sprintf("clear cart: %d removed, %d remaining: %v", len(e.Removed), len(e.Remaining), e.Err)
}

func (e *ClearError) Unwrap() error { return e.Err }

// Dispatcher runs cart mutations against the API and reconciles the Store with
// the responses. Methods may be called concurrently; callers should not issue
// two mutations for the same item at once (see State.Busy).
type Dispatcher struct {
	api      API
	sessions SessionSource
	store    *Store
	notifier Notifier
	opts     Options
}

func NewDispatcher(api API, sessions SessionSource, store *Store, notifier Notifier, opts Options) *Dispatcher {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Dispatcher{
		api:      api,
		sessions: sessions,
		store:    store,
		notifier: notifier,
		opts:     opts,
	}
}

func (d *Dispatcher) State() State { return d.store.Snapshot() }

func (d *Dispatcher) Load(ctx context.Context) error {
	sessionID := d.sessions.SessionID(ctx)
	l := logging.FromContext(ctx).With("op", OpLoad, "session_id", sessionID)

	applied, open := d.store.DispatchIf(State.CanLoad, LoadStarted{SessionID: sessionID})
	if !open {
		return nil
	}
	if !applied {
		l.Info("load_cart_skipped", "reason", "busy")
		return ErrBusy
	}

	resp, err := d.api.GetCart(ctx, sessionID)
	if err != nil {
		msg := userMessage(err)
		l.Warn("load_cart_error", "error", err)
		if d.store.Dispatch(LoadFailed{Err: msg}) {
			d.notify(ctx, Notification{Level: LevelError, Op: OpLoad, Message: msg, Err: err})
		}
		return err
	}

	items := make([]LineItem, 0, len(resp.Items))
	for _, it := range resp.Items {
		items = append(items, fromWire(it))
	}
	d.store.Dispatch(LoadSucceeded{CartID: resp.Cart.ID, Items: items})
	l.Debug("load_cart_success", "items", len(items))
	return nil
}

func (d *Dispatcher) Add(ctx context.Context, productID uint, quantity int) (LineItem, error) {
	if quantity <= 0 {
		d.notify(ctx, Notification{Level: LevelError, Op: OpAdd, Message: "Quantity must be at least 1.", Err: ErrInvalidQuantity})
		return LineItem{}, ErrInvalidQuantity
	}
	if err := d.requireLoaded(ctx, OpAdd); err != nil {
		return LineItem{}, err
	}

	key := ProductKey(productID)
	optimistic := 0
	if d.opts.Optimistic {
		optimistic = quantity
	}
	l := logging.FromContext(ctx).With("op", OpAdd, "product_id", productID, "quantity", quantity)

	d.store.Dispatch(MutationStarted{Key: key, OptimisticQty: optimistic})

	wire, err := d.api.AddItem(ctx, d.sessions.SessionID(ctx), productID, quantity)
	if err != nil {
		d.fail(ctx, l, OpAdd, key, optimistic, err)
		return LineItem{}, err
	}

	item := fromWire(*wire)
	if d.store.Dispatch(ItemUpserted{Item: item}, MutationSucceeded{Key: key, OptimisticQty: optimistic}) {
		d.notify(ctx, Notification{Level: LevelSuccess, Op: OpAdd, Message: fmt.Sprintf("Added %s to your cart.", itemName(item))})
	}
	l.Info("add_item_success", "item_id", item.ID, "confirmed_quantity", item.Quantity)
	return item, nil
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less removes it.
func (d *Dispatcher) UpdateQuantity(ctx context.Context, itemID string, quantity int) (LineItem, error) {
	if quantity <= 0 {
		return LineItem{}, d.Remove(ctx, itemID)
	}
	if err := d.requireLoaded(ctx, OpUpdate); err != nil {
		return LineItem{}, err
	}

	key := ItemKey(itemID)
	l := logging.FromContext(ctx).With("op", OpUpdate, "item_id", itemID, "quantity", quantity)

	d.store.Dispatch(MutationStarted{Key: key})

	wire, err := d.api.UpdateItem(ctx, itemID, quantity)
	if err != nil {
		d.fail(ctx, l, OpUpdate, key, 0, err)
		return LineItem{}, err
	}

	item := fromWire(*wire)
	if d.store.Dispatch(ItemUpserted{Item: item}, MutationSucceeded{Key: key}) {
		d.notify(ctx, Notification{Level: LevelSuccess, Op: OpUpdate, Message: fmt.Sprintf("Updated %s quantity to %d.", itemName(item), item.Quantity)})
	}
	l.Info("update_item_success")
	return item, nil
}

// Remove deletes a line. Removing a line the server no longer has is not an error.
func (d *Dispatcher) Remove(ctx context.Context, itemID string) error {
	if err := d.requireLoaded(ctx, OpRemove); err != nil {
		return err
	}

	key := ItemKey(itemID)
	l := logging.FromContext(ctx).With("op", OpRemove, "item_id", itemID)

	d.store.Dispatch(MutationStarted{Key: key})

	err := d.api.RemoveItem(ctx, itemID)
	switch {
	case err == nil:
		if d.store.Dispatch(ItemRemoved{ItemID: itemID}, MutationSucceeded{Key: key}) {
			d.notify(ctx, Notification{Level: LevelSuccess, Op: OpRemove, Message: "Removed from your cart."})
		}
		l.Info("remove_item_success")
		return nil
	case errors.Is(err, cartclient.ErrNotFound):
		if d.store.Dispatch(ItemRemoved{ItemID: itemID}, MutationSucceeded{Key: key}) {
			d.notify(ctx, Notification{Level: LevelInfo, Op: OpRemove, Message: "That item was already removed."})
		}
		l.Info("remove_item_already_removed")
		return nil
	default:
		d.fail(ctx, l, OpRemove, key, 0, err)
		return err
	}
}

// Clear empties the cart. Without bulk clear, lines are removed one at a time
// and the first failure stops the run with a *ClearError.
func (d *Dispatcher) Clear(ctx context.Context) error {
	if err := d.requireLoaded(ctx, OpClear); err != nil {
		return err
	}

	l := logging.FromContext(ctx).With("op", OpClear)
	items := d.store.Snapshot().Items

	d.store.Dispatch(MutationStarted{Key: ClearKey})

	if bulk, ok := d.api.(BulkClearer); ok && d.opts.BulkClear {
		if err := bulk.ClearCart(ctx, d.sessions.SessionID(ctx)); err != nil {
			d.fail(ctx, l, OpClear, ClearKey, 0, err)
			return err
		}
		d.cleared(ctx, l, ItemsCleared{})
		return nil
	}

	removed := make([]string, 0, len(items))
	for i, it := range items {
		err := d.api.RemoveItem(ctx, it.ID)
		if err != nil && !errors.Is(err, cartclient.ErrNotFound) {
			remaining := make([]string, 0, len(items)-i)
			for _, rest := range items[i:] {
				remaining = append(remaining, rest.ID)
			}
			clearErr := &ClearError{Removed: removed, Remaining: remaining, Err: err}
			d.fail(ctx, l, OpClear, ClearKey, 0, clearErr)
			return clearErr
		}
		removed = append(removed, it.ID)
		d.store.Dispatch(ItemRemoved{ItemID: it.ID})
	}

	d.cleared(ctx, l)
	return nil
}

func (d *Dispatcher) cleared(ctx context.Context, l *slog.Logger, events ...Event) {
	events = append(events, MutationSucceeded{Key: ClearKey})
	if d.store.Dispatch(events...) {
		d.notify(ctx, Notification{Level: LevelSuccess, Op: OpClear, Message: "Your cart is empty."})
	}
	l.Info("clear_cart_success")
}

func (d *Dispatcher) requireLoaded(ctx context.Context, op string) error {
	if d.store.Snapshot().Loaded() {
		return nil
	}
	d.notify(ctx, Notification{Level: LevelError, Op: op, Message: "Your cart is still loading.", Err: ErrNotLoaded})
	return ErrNotLoaded
}

func (d *Dispatcher) fail(ctx context.Context, l *slog.Logger, op, key string, optimistic int, err error) {
	msg := userMessage(err)
	l.Warn("cart_mutation_error", "error", err)
	if d.store.Dispatch(MutationFailed{Key: key, OptimisticQty: optimistic, Err: msg}) {
		d.notify(ctx, Notification{Level: LevelError, Op: op, Message: msg, Err: err})
	}
}

func (d *Dispatcher) notify(ctx context.Context, n Notification) {
	if d.store.Closed() {
		return
	}
	d.notifier.Notify(ctx, n)
}

func userMessage(err error) string {
	if msg := strings.TrimSpace(cartclient.Message(err)); msg != "" {
		return msg
	}
	return GenericFailureMessage
}

func itemName(it LineItem) string {
	if it.Product != nil && it.Product.Name != "" {
		return it.Product.Name
	}
	return "item"
}

func fromWire(w cartclient.LineItem) LineItem {
	it := LineItem{
		ID:        w.ID,
		ProductID: w.ProductID,
		Quantity:  w.Quantity,
	}
	if w.Product != nil {
		it.Product = &Product{
			Name:  w.Product.Name,
			Slug:  w.Product.Slug,
			Price: w.Product.Price,
			Image: w.Product.Image,
		}
	}
	return it
}
