package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/garden_shop/pkg/db"
	"github.com/Skotchmaster/garden_shop/services/cart/internal/models"
	"github.com/Skotchmaster/garden_shop/services/cart/internal/repo"
)

func newRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	gdb, err := db.Open(context.Background(), "sqlite:file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := &repo.GormRepo{DB: gdb}
	require.NoError(t, r.Migrate(context.Background()))
	return r
}

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestSeedCatalog(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	path := writeSeed(t, `[
		{"id": 42, "name": "Trowel", "slug": "trowel", "price": 1299},
		{"id": 7, "name": "Tomato seeds", "slug": "tomato-seeds", "price": 350, "image": "/img/tomato.jpg"}
	]`)
	n, err := SeedCatalog(ctx, r, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	p, err := r.GetProduct(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Tomato seeds", p.Name)
	assert.Equal(t, "/img/tomato.jpg", p.Image)

	// seeding again overwrites by id
	path = writeSeed(t, `[{"id": 42, "name": "Hand trowel", "slug": "trowel", "price": 1499}]`)
	_, err = SeedCatalog(ctx, r, path)
	require.NoError(t, err)

	p, err = r.GetProduct(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Hand trowel", p.Name)
	assert.Equal(t, int64(1499), p.Price)
}

func TestSeedCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"missing id", `[{"name": "Rake", "price": 100}]`},
		{"missing name", `[{"id": 1, "price": 100}]`},
		{"negative price", `[{"id": 1, "name": "Rake", "price": -1}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRepo(t)
			_, err := SeedCatalog(context.Background(), r, writeSeed(t, tt.body))
			require.Error(t, err)
		})
	}

	_, err := SeedCatalog(context.Background(), newRepo(t), filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestCartService_Validation(t *testing.T) {
	ctx := context.Background()
	svc := &CartService{Repo: newRepo(t)}

	_, _, err := svc.GetCart(ctx, "  ")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddItem(ctx, "s", 0, 1)
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddItem(ctx, "s", 1, 0)
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddItem(ctx, "s", 1, 1)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UpdateItem(ctx, "bogus", 2)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UpdateItem(ctx, "bogus", 0)
	require.ErrorIs(t, err, ErrValidation)

	require.ErrorIs(t, svc.RemoveItem(ctx, "bogus"), ErrNotFound)

	n, err := svc.ClearCart(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCartService_MergedQuantityLimit(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	require.NoError(t, r.UpsertProducts(ctx, []models.Product{{ID: 42, Name: "Trowel", Price: 1299}}))
	svc := &CartService{Repo: r}

	_, err := svc.AddItem(ctx, "s", 42, MaxLineQuantity)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, "s", 42, 1)
	require.ErrorIs(t, err, ErrValidation)

	_, items, err := svc.GetCart(ctx, "s")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, MaxLineQuantity, items[0].Quantity)

	_, err = svc.AddItem(ctx, "s", 42, MaxLineQuantity+1)
	require.ErrorIs(t, err, ErrValidation)
}
