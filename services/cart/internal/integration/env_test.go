package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/garden_shop/pkg/db"
	"github.com/Skotchmaster/garden_shop/pkg/events"
	"github.com/Skotchmaster/garden_shop/pkg/logging"
	"github.com/Skotchmaster/garden_shop/services/cart/internal/httpserver"
	"github.com/Skotchmaster/garden_shop/services/cart/internal/models"
	"github.com/Skotchmaster/garden_shop/services/cart/internal/repo"
	"github.com/Skotchmaster/garden_shop/services/cart/internal/service"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.CartEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, ev events.CartEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	DB     *gorm.DB
	Repo   *repo.GormRepo
	Events *recordingPublisher
}

var catalog = []models.Product{
	{ID: 42, Name: "Trowel", Slug: "trowel", Price: 1299, Image: "/img/trowel.jpg"},
	{ID: 7, Name: "Tomato seeds", Slug: "tomato-seeds", Price: 350},
	{ID: 3, Name: "Watering can", Slug: "watering-can", Price: 2499},
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctx := context.Background()
	gdb, err := db.Open(ctx, "sqlite:file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := &repo.GormRepo{DB: gdb}
	require.NoError(t, r.Migrate(ctx))
	require.NoError(t, r.UpsertProducts(ctx, catalog))

	pub := &recordingPublisher{}
	e := httpserver.New(&httpserver.Deps{
		CartHandler: &httpserver.CartHTTP{Svc: &service.CartService{Repo: r, Events: pub}},
		Logger:      logging.NewWithWriter(io.Discard, "error"),
	})

	return &testEnv{T: t, E: e, DB: gdb, Repo: r, Events: pub}
}

func (env *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(env.T, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// mustField returns the raw JSON of one top level field, so tests can tell [] from null.
func mustField(t *testing.T, body []byte, name string) json.RawMessage {
	t.Helper()
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &fields))
	raw, ok := fields[name]
	require.True(t, ok, "field %q missing in %s", name, body)
	return raw
}

var errBroker = errors.New("broker down")
