package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Skotchmaster/garden_shop/pkg/logging"
	"github.com/Skotchmaster/garden_shop/services/cart/internal/models"
	"github.com/Skotchmaster/garden_shop/services/cart/internal/repo"
)

// SeedCatalog loads a JSON array of products from path into the products table.
func SeedCatalog(ctx context.Context, r *repo.GormRepo, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read catalog seed: %w", err)
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return 0, fmt.Errorf("decode catalog seed: %w", err)
	}
	for i, p := range products {
		if p.ID == 0 || p.Name == "" || p.Price < 0 {
			return 0, fmt.Errorf("catalog seed entry %d (id=%d): %w", i, p.ID, ErrValidation)
		}
	}

	if err := r.UpsertProducts(ctx, products); err != nil {
		return 0, fmt.Errorf("store catalog seed: %w", err)
	}
	logging.FromContext(ctx).Info("catalog_seeded", "path", path, "products", len(products))
	return len(products), nil
}
