// Package cartstate keeps the storefront's view of the shopping cart in sync
// with the cart API.
//
// State changes only through Reduce, a pure function of the previous state and
// an Event. The Store wraps Reduce for concurrent use and fans state out to
// subscribers; the Dispatcher turns user intents into API calls and events.
package cartstate

import (
	"fmt"
	"maps"
	"slices"
)

type Status int

const (
	StatusUninitialized Status = iota
	StatusLoading
	StatusReady
	StatusMutating
	StatusErrored
)

func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusMutating:
		return "mutating"
	case StatusErrored:
		return "errored"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

type Product struct {
	Name  string
	Slug  string
	Price int64
	Image string
}

type LineItem struct {
	ID        string
	ProductID uint
	Quantity  int
	Product   *Product
}

type State struct {
	Status    Status
	SessionID string
	CartID    string
	Items     []LineItem
	Err       string

	// InFlight counts mutations that have started and not settled.
	InFlight int
	// Pending maps a mutation key (see ProductKey, ItemKey) to its in-flight count.
	Pending map[string]int
	// OptimisticQty is added to the confirmed count while optimistic adds are in flight.
	OptimisticQty int
}

func ProductKey(productID uint) string { return fmt.Sprintf("product:%d", productID) }
func ItemKey(itemID string) string     { return "item:" + itemID }

const ClearKey = "clear"

// Loaded reports whether the cart accepts mutations.
func (s State) Loaded() bool {
	return s.Status == StatusReady || s.Status == StatusMutating || s.Status == StatusErrored
}

// Busy reports whether a mutation for key is in flight.
// CanLoad reports whether a (re)load may start: no load and no mutation is in flight.
func (s State) CanLoad() bool {
	return s.Status != StatusLoading && s.InFlight == 0
}

func (s State) Busy(key string) bool {
	return s.Pending[key] > 0
}

func (s State) ItemCount() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

// DisplayCount is the badge count: confirmed quantities plus optimistic adds.
func (s State) DisplayCount() int {
	return s.ItemCount() + s.OptimisticQty
}

// Subtotal sums quantity × price over items that carry a product snapshot.
func (s State) Subtotal() int64 {
	var total int64
	for _, it := range s.Items {
		if it.Product != nil {
			total += int64(it.Quantity) * it.Product.Price
		}
	}
	return total
}

func (s State) Item(id string) (LineItem, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return LineItem{}, false
}

func (s State) ItemByProduct(productID uint) (LineItem, bool) {
	for _, it := range s.Items {
		if it.ProductID == productID {
			return it, true
		}
	}
	return LineItem{}, false
}

func (s State) clone() State {
	out := s
	out.Items = slices.Clone(s.Items)
	out.Pending = maps.Clone(s.Pending)
	return out
}
