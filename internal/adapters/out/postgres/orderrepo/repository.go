package orderrepo

import (
	"context"
	"errors"
	"fmt"

	"coffeeshop/internal/core/domain/model/kernel"
	"coffeeshop/internal/core/domain/model/order"
	"coffeeshop/internal/core/ports"
	"coffeeshop/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
// Bound to a transaction it serves commands; bound to the plain connection it
// serves read-only queries.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository. tracker may be nil.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order row together with its lines and initial history.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", ports.ErrOrderNumberTaken, aggregate.Number())
		}
		return errs.NewPersistenceError("add order", err)
	}

	r.track(aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(r.db.WithContext(ctx), "get order", "orderId", id.String(), "id = ?", id.Bytes())
}

// GetForUpdate retrieves an order and holds its row lock until the transaction ends.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	tx := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.first(tx, "get order for update", "orderId", id.String(), "id = ?", id.Bytes())
}

// GetByNumber retrieves an order by its human-facing number.
func (r *GormOrderRepository) GetByNumber(ctx context.Context, number order.Number) (*order.Order, error) {
	if err := number.Validate(); err != nil {
		return nil, err
	}
	return r.first(r.db.WithContext(ctx), "get order by number", "number", number.String(), "number = ?", number.String())
}

// NumberExists reports whether any order already uses number.
func (r *GormOrderRepository) NumberExists(ctx context.Context, number order.Number) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("number = ?", number.String()).Count(&count).Error
	if err != nil {
		return false, errs.NewPersistenceError("check order number", err)
	}
	return count > 0, nil
}

// ListByCustomer returns a page of customerID's orders, newest first, with
// lines and history loaded. Orders created at the same instant are ordered by
// id so pages never overlap.
func (r *GormOrderRepository) ListByCustomer(
	ctx context.Context,
	customerID string,
	limit, offset int,
) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&dtos).Error
	if err != nil {
		return nil, errs.NewPersistenceError("list orders", err)
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// UpdateStatus compares-and-sets the status column and appends the newest
// history entry. ports.ErrStatusConflict means the stored status was no longer expected.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, aggregate *order.Order, expected order.Status) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	id := aggregate.ID().Bytes()
	db := r.db.WithContext(ctx)

	result := db.Model(&OrderDTO{}).
		Where("id = ? AND status = ?", id, int(expected)).
		Update("status", int(aggregate.Status()))
	if result.Error != nil {
		return errs.NewPersistenceError("update order status", result.Error)
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&OrderDTO{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return errs.NewPersistenceError("update order status", err)
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("orderId", aggregate.ID().String())
		}
		return ports.ErrStatusConflict
	}

	history := aggregate.History()
	entry := historyFromDomain(id, len(history)-1, history[len(history)-1])
	if err := db.Create(&entry).Error; err != nil {
		return errs.NewPersistenceError("append status history", err)
	}

	r.track(aggregate)
	return nil
}

func (r *GormOrderRepository) first(
	tx *gorm.DB,
	operation, paramName, key string,
	query string,
	args ...any,
) (*order.Order, error) {
	var dto OrderDTO
	err := tx.
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where(query, args...).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(paramName, key)
		}
		return nil, errs.NewPersistenceError(operation, err)
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) track(aggregate *order.Order) {
	if r.tracker != nil {
		r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	}
}
