// Package cartrepo persists carts, one row per customer. Lines live in a JSON
// column because a cart is always read and written whole.
package cartrepo

import (
	"time"

	"coffeeshop/internal/core/domain/model/cart"
)

type CartDTO struct {
	CustomerID string        `gorm:"type:varchar(64);primaryKey"`
	Lines      []CartLineDTO `gorm:"type:jsonb;serializer:json;not null"`
	UpdatedAt  time.Time     `gorm:"autoUpdateTime:false;not null;index"`
}

func (CartDTO) TableName() string {
	return "carts"
}

type CartLineDTO struct {
	ItemID   string   `json:"item_id"`
	Size     string   `json:"size,omitempty"`
	Addons   []string `json:"addons,omitempty"`
	Quantity int      `json:"quantity"`
}

func fromDomain(c *cart.Cart) CartDTO {
	lines := make([]CartLineDTO, 0, len(c.Lines()))
	for _, l := range c.Lines() {
		lines = append(lines, CartLineDTO{
			ItemID:   l.ItemID(),
			Size:     l.Size(),
			Addons:   l.Addons(),
			Quantity: l.Quantity(),
		})
	}

	return CartDTO{
		CustomerID: c.CustomerID(),
		Lines:      lines,
		UpdatedAt:  c.UpdatedAt(),
	}
}

func toDomain(dto CartDTO) (*cart.Cart, error) {
	lines := make([]cart.Line, 0, len(dto.Lines))
	for _, l := range dto.Lines {
		line, err := cart.NewLine(l.ItemID, l.Size, l.Addons, l.Quantity)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return cart.RestoreCart(dto.CustomerID, lines, dto.UpdatedAt.UTC())
}
