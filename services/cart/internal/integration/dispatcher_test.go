package integration

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/garden_shop/pkg/cartclient"
	"github.com/Skotchmaster/garden_shop/pkg/cartstate"
	"github.com/Skotchmaster/garden_shop/pkg/session"
)

func newLiveDispatcher(t *testing.T, opts cartstate.Options) (*cartstate.Dispatcher, *cartstate.Recorder, *session.Provider) {
	t.Helper()

	env := newTestEnv(t)
	srv := httptest.NewServer(env.E)
	t.Cleanup(srv.Close)

	sessions := session.NewProvider(session.NewMemoryStore())
	rec := &cartstate.Recorder{}
	d := cartstate.NewDispatcher(cartclient.New(srv.URL), sessions, cartstate.NewStore(), rec, opts)
	require.NoError(t, d.Load(context.Background()))
	return d, rec, sessions
}

func TestDispatcherAgainstService(t *testing.T) {
	ctx := context.Background()
	d, rec, _ := newLiveDispatcher(t, cartstate.Options{})

	st := d.State()
	require.Equal(t, cartstate.StatusReady, st.Status)
	require.NotEmpty(t, st.CartID)
	require.Empty(t, st.Items)

	_, err := d.Add(ctx, 42, 1)
	require.NoError(t, err)
	_, err = d.Add(ctx, 42, 2)
	require.NoError(t, err)

	st = d.State()
	require.Len(t, st.Items, 1)
	assert.Equal(t, uint(42), st.Items[0].ProductID)
	assert.Equal(t, 3, st.Items[0].Quantity)
	assert.Equal(t, int64(3*1299), st.Subtotal())

	seeds, err := d.Add(ctx, 7, 4)
	require.NoError(t, err)
	assert.Equal(t, 7, d.State().ItemCount())

	_, err = d.UpdateQuantity(ctx, seeds.ID, 0)
	require.NoError(t, err)
	st = d.State()
	_, ok := st.Item(seeds.ID)
	assert.False(t, ok)
	assert.Equal(t, 3, st.ItemCount())

	// a second removal of the same line is answered with 404 and ignored
	require.NoError(t, d.Remove(ctx, seeds.ID))
	assert.Equal(t, 3, d.State().ItemCount())

	_, err = d.Add(ctx, 999, 1)
	require.Error(t, err)
	n, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, cartstate.LevelError, n.Level)
	assert.Equal(t, "product not found", n.Message)
	assert.Equal(t, 3, d.State().ItemCount())
}

func TestDispatcherAgainstService_Clear(t *testing.T) {
	for _, bulk := range []bool{false, true} {
		bulk := bulk
		name := "sequential"
		if bulk {
			name = "bulk"
		}
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			d, _, _ := newLiveDispatcher(t, cartstate.Options{BulkClear: bulk})

			for _, pid := range []uint{42, 7, 3} {
				_, err := d.Add(ctx, pid, 1)
				require.NoError(t, err)
			}
			require.NoError(t, d.Clear(ctx))
			assert.Empty(t, d.State().Items)

			// the server agrees after a fresh load
			require.NoError(t, d.Load(ctx))
			assert.Empty(t, d.State().Items)
		})
	}
}

func TestDispatcherAgainstService_SessionReset(t *testing.T) {
	ctx := context.Background()
	d, _, sessions := newLiveDispatcher(t, cartstate.Options{})

	_, err := d.Add(ctx, 42, 1)
	require.NoError(t, err)
	before := d.State().CartID

	require.NoError(t, sessions.Clear(ctx))
	require.NoError(t, d.Load(ctx))

	st := d.State()
	assert.NotEqual(t, before, st.CartID)
	assert.Empty(t, st.Items)
}
