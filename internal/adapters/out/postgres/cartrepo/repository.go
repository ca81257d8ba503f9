package cartrepo

import (
	"context"
	"errors"
	"time"

	"coffeeshop/internal/core/domain/model/cart"
	"coffeeshop/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements ports.CartRepository using GORM.
type GormCartRepository struct {
	db *gorm.DB
}

func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// Get returns the stored cart or a fresh empty one. It never inserts.
func (r *GormCartRepository) Get(ctx context.Context, customerID string) (*cart.Cart, error) {
	var dto CartDTO
	err := r.db.WithContext(ctx).First(&dto, "customer_id = ?", customerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return cart.NewCart(customerID)
	}
	if err != nil {
		return nil, errs.NewPersistenceError("get cart", err)
	}

	return toDomain(dto)
}

// Save upserts the cart; an empty cart removes the row.
func (r *GormCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.IsEmpty() {
		return r.Delete(ctx, c.CustomerID())
	}

	dto := fromDomain(c)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "customer_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"lines", "updated_at"}),
		}).
		Create(&dto).Error
	if err != nil {
		return errs.NewPersistenceError("save cart", err)
	}
	return nil
}

func (r *GormCartRepository) Delete(ctx context.Context, customerID string) error {
	if err := r.db.WithContext(ctx).Delete(&CartDTO{}, "customer_id = ?", customerID).Error; err != nil {
		return errs.NewPersistenceError("delete cart", err)
	}
	return nil
}

func (r *GormCartRepository) DeleteUpdatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("updated_at < ?", cutoff).Delete(&CartDTO{})
	if result.Error != nil {
		return 0, errs.NewPersistenceError("purge carts", result.Error)
	}
	return result.RowsAffected, nil
}
