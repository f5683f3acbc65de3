package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/garden_shop/services/cart/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Migrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(models.All()...)
}
