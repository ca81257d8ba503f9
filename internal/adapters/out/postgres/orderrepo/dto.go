// Package orderrepo persists order aggregates. An order spans three tables:
// the order row, its ordered line snapshots and its append-only status history.
package orderrepo

import (
	"time"

	"coffeeshop/internal/core/domain/model/kernel"
	"coffeeshop/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the order row. Status is stored as its integer value.
type OrderDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number          string     `gorm:"type:varchar(9);uniqueIndex;not null"`
	CustomerID      string     `gorm:"type:varchar(64);not null;index:idx_orders_customer_created,priority:1"`
	Total           int64      `gorm:"not null"`
	OrderType       string     `gorm:"type:varchar(32);not null"`
	ScheduledTime   *time.Time
	DeliveryAddress string     `gorm:"type:varchar(1200)"`
	Notes           string     `gorm:"type:varchar(2000)"`
	PaymentMethod   string     `gorm:"type:varchar(16);not null"`
	Status          int        `gorm:"not null;index"`
	CreatedAt       time.Time  `gorm:"autoCreateTime:false;not null;index:idx_orders_customer_created,priority:2"`

	Lines   []OrderLineDTO     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	History []StatusHistoryDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderLineDTO is one line snapshot. Addons are stored as a JSON column
// because they are never queried on their own.
type OrderLineDTO struct {
	ID        uint       `gorm:"primaryKey"`
	OrderID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Position  int        `gorm:"not null"`
	ItemID    string     `gorm:"type:varchar(64);not null"`
	Name      string     `gorm:"type:varchar(255);not null"`
	UnitPrice int64      `gorm:"not null"`
	Quantity  int        `gorm:"not null"`
	Size      string     `gorm:"type:varchar(32)"`
	Addons    []AddonDTO `gorm:"type:jsonb;serializer:json"`
}

func (OrderLineDTO) TableName() string {
	return "order_lines"
}

type AddonDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// StatusHistoryDTO is one history entry. Position keeps entries in the order
// they were appended even when timestamps collide.
type StatusHistoryDTO struct {
	ID        uint      `gorm:"primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_history_order_position,priority:1"`
	Position  int       `gorm:"not null;uniqueIndex:idx_history_order_position,priority:2"`
	Status    int       `gorm:"not null"`
	ChangedAt time.Time `gorm:"not null"`
	Actor     string    `gorm:"type:varchar(64);not null"`
}

func (StatusHistoryDTO) TableName() string {
	return "order_status_history"
}

func fromDomain(o *order.Order) OrderDTO {
	id := o.ID().Bytes()
	details := o.Details()

	lines := make([]OrderLineDTO, 0, len(o.Lines()))
	for i, l := range o.Lines() {
		addons := make([]AddonDTO, 0, len(l.Addons()))
		for _, a := range l.Addons() {
			addons = append(addons, AddonDTO{ID: a.ID, Name: a.Name, Price: a.Price.Minor()})
		}
		lines = append(lines, OrderLineDTO{
			OrderID:   id,
			Position:  i,
			ItemID:    l.ItemID(),
			Name:      l.Name(),
			UnitPrice: l.UnitPrice().Minor(),
			Quantity:  l.Quantity(),
			Size:      l.Size(),
			Addons:    addons,
		})
	}

	history := make([]StatusHistoryDTO, 0, len(o.History()))
	for i, h := range o.History() {
		history = append(history, historyFromDomain(id, i, h))
	}

	return OrderDTO{
		ID:              id,
		Number:          o.Number().String(),
		CustomerID:      o.CustomerID(),
		Total:           o.Total().Minor(),
		OrderType:       string(details.Type()),
		ScheduledTime:   details.ScheduledTime(),
		DeliveryAddress: details.DeliveryAddress(),
		Notes:           details.Notes(),
		PaymentMethod:   string(details.PaymentMethod()),
		Status:          int(o.Status()),
		CreatedAt:       o.CreatedAt(),
		Lines:           lines,
		History:         history,
	}
}

func historyFromDomain(orderID uuid.UUID, position int, h order.HistoryEntry) StatusHistoryDTO {
	return StatusHistoryDTO{
		OrderID:   orderID,
		Position:  position,
		Status:    int(h.Status()),
		ChangedAt: h.ChangedAt(),
		Actor:     h.Actor(),
	}
}

// toDomain rebuilds the aggregate. Lines and History must already be sorted by position.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	details, err := order.RestoreDetails(
		order.Type(dto.OrderType),
		dto.ScheduledTime,
		dto.DeliveryAddress,
		dto.Notes,
		order.PaymentMethod(dto.PaymentMethod),
	)
	if err != nil {
		return nil, err
	}

	lines := make([]order.Line, 0, len(dto.Lines))
	for _, l := range dto.Lines {
		addons := make([]order.Addon, 0, len(l.Addons))
		for _, a := range l.Addons {
			addons = append(addons, order.Addon{ID: a.ID, Name: a.Name, Price: kernel.Money(a.Price)})
		}
		line, lineErr := order.NewLine(l.ItemID, l.Name, kernel.Money(l.UnitPrice), l.Quantity, l.Size, addons)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, line)
	}

	history := make([]order.HistoryEntry, 0, len(dto.History))
	for _, h := range dto.History {
		history = append(history, order.NewHistoryEntry(order.Status(h.Status), h.ChangedAt, h.Actor))
	}

	return order.RestoreOrder(order.State{
		ID:         id,
		Number:     order.Number(dto.Number),
		CustomerID: dto.CustomerID,
		Lines:      lines,
		Total:      kernel.Money(dto.Total),
		Details:    details,
		CreatedAt:  dto.CreatedAt,
		Status:     order.Status(dto.Status),
		History:    history,
	})
}
