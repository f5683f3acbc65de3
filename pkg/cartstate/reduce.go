package cartstate

type Event interface {
	event()
}

type LoadStarted struct{ SessionID string }

type LoadSucceeded struct {
	CartID string
	Items  []LineItem
}

type LoadFailed struct{ Err string }

type MutationStarted struct {
	Key           string
	OptimisticQty int
}

// ItemUpserted, ItemRemoved and ItemsCleared carry server-confirmed changes.
// They do not settle a mutation on their own.
type ItemUpserted struct{ Item LineItem }

type ItemRemoved struct{ ItemID string }

type ItemsCleared struct{}

type MutationSucceeded struct {
	Key           string
	OptimisticQty int
}

type MutationFailed struct {
	Key           string
	OptimisticQty int
	Err           string
}

type Reset struct{}

func (LoadStarted) event()       {}
func (LoadSucceeded) event()     {}
func (LoadFailed) event()        {}
func (MutationStarted) event()   {}
func (ItemUpserted) event()      {}
func (ItemRemoved) event()       {}
func (ItemsCleared) event()      {}
func (MutationSucceeded) event() {}
func (MutationFailed) event()    {}
func (Reset) event()             {}

// Reduce returns the state that follows s after ev. s is not modified.
// Events that do not apply to the current status leave the state unchanged.
func Reduce(s State, ev Event) State {
	switch e := ev.(type) {
	case Reset:
		return State{}

	case LoadStarted:
		if !s.CanLoad() {
			return s
		}
		next := s.clone()
		next.Status = StatusLoading
		next.SessionID = e.SessionID
		next.Err = ""
		return next

	case LoadSucceeded:
		if s.Status != StatusLoading {
			return s
		}
		next := s.clone()
		next.Status = StatusReady
		next.CartID = e.CartID
		next.Items = nil
		for _, it := range e.Items {
			next.Items = upsert(next.Items, it)
		}
		next.Err = ""
		return next

	case LoadFailed:
		if s.Status != StatusLoading {
			return s
		}
		next := s.clone()
		next.Status = StatusErrored
		next.Items = nil
		next.Err = e.Err
		return next

	case MutationStarted:
		if !s.Loaded() {
			return s
		}
		next := s.clone()
		if next.Pending == nil {
			next.Pending = map[string]int{}
		}
		next.Pending[e.Key]++
		next.InFlight++
		next.OptimisticQty += e.OptimisticQty
		next.Status = StatusMutating
		return next

	case ItemUpserted:
		if !s.Loaded() {
			return s
		}
		next := s.clone()
		next.Items = upsert(next.Items, e.Item)
		return next

	case ItemRemoved:
		if !s.Loaded() {
			return s
		}
		next := s.clone()
		next.Items = removeID(next.Items, e.ItemID)
		return next

	case ItemsCleared:
		if !s.Loaded() {
			return s
		}
		next := s.clone()
		next.Items = nil
		return next

	case MutationSucceeded:
		if s.InFlight == 0 {
			return s
		}
		next := settle(s, e.Key, e.OptimisticQty)
		next.Err = ""
		if next.InFlight == 0 {
			next.Status = StatusReady
		}
		return next

	case MutationFailed:
		if s.InFlight == 0 {
			return s
		}
		next := settle(s, e.Key, e.OptimisticQty)
		next.Err = e.Err
		if next.InFlight == 0 {
			next.Status = StatusErrored
		}
		return next
	}
	return s
}

func settle(s State, key string, optimistic int) State {
	next := s.clone()
	next.InFlight--
	next.OptimisticQty -= optimistic
	if next.Pending[key] > 1 {
		next.Pending[key]--
	} else {
		delete(next.Pending, key)
	}
	return next
}

// upsert replaces the line with the same id, or failing that the line for the
// same product, so a cart never holds two lines for one product.
// A non-positive quantity removes the line.
func upsert(items []LineItem, it LineItem) []LineItem {
	if it.Quantity <= 0 {
		items = removeID(items, it.ID)
		return removeProduct(items, it.ProductID)
	}

	idx := -1
	for i := range items {
		if items[i].ID == it.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		for i := range items {
			if items[i].ProductID == it.ProductID {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		return append(items, it)
	}

	items[idx] = it
	out := items[:0]
	for i, cur := range items {
		if i != idx && cur.ProductID == it.ProductID {
			continue
		}
		out = append(out, cur)
	}
	return out
}

func removeID(items []LineItem, id string) []LineItem {
	out := items[:0]
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

func removeProduct(items []LineItem, productID uint) []LineItem {
	out := items[:0]
	for _, it := range items {
		if it.ProductID != productID {
			out = append(out, it)
		}
	}
	return out
}
