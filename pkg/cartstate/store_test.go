package cartstate

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_DispatchNotifiesSubscribers(t *testing.T) {
	t.Parallel()

	s := NewStore()
	var seen []Status
	cancel := s.Subscribe(func(st State) { seen = append(seen, st.Status) })

	require.True(t, s.Dispatch(LoadStarted{SessionID: "sess"}))
	require.True(t, s.Dispatch(LoadSucceeded{CartID: "c", Items: []LineItem{trowel(1)}}))
	assert.Equal(t, []Status{StatusLoading, StatusReady}, seen)

	cancel()
	s.Dispatch(MutationStarted{Key: "k"})
	assert.Len(t, seen, 2)
	assert.Equal(t, StatusMutating, s.Snapshot().Status)
}

func TestStore_DispatchBatchIsOneChange(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Dispatch(LoadStarted{}, LoadSucceeded{CartID: "c"}, MutationStarted{Key: "k"})

	calls := 0
	s.Subscribe(func(st State) {
		calls++
		assert.Equal(t, StatusReady, st.Status)
		assert.Equal(t, 3, st.ItemCount())
	})

	s.Dispatch(ItemUpserted{Item: trowel(3)}, MutationSucceeded{Key: "k"})
	assert.Equal(t, 1, calls)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Dispatch(LoadStarted{}, LoadSucceeded{Items: []LineItem{trowel(1)}})

	snap := s.Snapshot()
	snap.Items[0].Quantity = 100

	assert.Equal(t, 1, s.Snapshot().Items[0].Quantity)
}

func TestStore_CloseDropsLateResults(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Dispatch(LoadStarted{}, LoadSucceeded{Items: []LineItem{trowel(1)}}, MutationStarted{Key: "k"})

	notified := false
	s.Subscribe(func(State) { notified = true })
	s.Close()

	assert.False(t, s.Dispatch(ItemUpserted{Item: trowel(5)}, MutationSucceeded{Key: "k"}))
	assert.True(t, s.Closed())
	assert.False(t, notified)
	assert.Equal(t, 1, s.Snapshot().ItemCount())
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Dispatch(LoadStarted{}, LoadSucceeded{})

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := ProductKey(uint(i))
			s.Dispatch(MutationStarted{Key: key})
			s.Dispatch(ItemUpserted{Item: LineItem{ID: key, ProductID: uint(i), Quantity: 1}}, MutationSucceeded{Key: key})
		}(i)
	}
	wg.Wait()

	st := s.Snapshot()
	assert.Equal(t, StatusReady, st.Status)
	assert.Zero(t, st.InFlight)
	assert.Equal(t, n, st.ItemCount())
}

func TestStore_DispatchIf(t *testing.T) {
	t.Parallel()

	s := NewStore()
	calls := 0
	s.Subscribe(func(State) { calls++ })

	applied, open := s.DispatchIf(State.CanLoad, LoadStarted{SessionID: "sess"})
	assert.True(t, applied)
	assert.True(t, open)

	// a second load while the first is still loading is refused
	applied, open = s.DispatchIf(State.CanLoad, LoadStarted{SessionID: "other"})
	assert.False(t, applied)
	assert.True(t, open)
	assert.Equal(t, "sess", s.Snapshot().SessionID)
	assert.Equal(t, 1, calls)

	s.Close()
	applied, open = s.DispatchIf(nil, LoadSucceeded{CartID: "c"})
	assert.False(t, applied)
	assert.False(t, open)
}
