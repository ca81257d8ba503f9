package order

import (
	"time"

	"coffeeshop/internal/core/domain/model/kernel"
)

// StatusEvent describes one committed status change. The creation event has
// From == Unknown and To == Pending. OrderNumber and CustomerID travel with the
// event so the dispatcher never needs to reload the order.
type StatusEvent struct {
	OrderID     kernel.UUID
	OrderNumber Number
	CustomerID  string
	From        Status
	To          Status
	At          time.Time
	Actor       string
}

// IsCreation reports whether the event announces a new order.
func (e StatusEvent) IsCreation() bool {
	return e.From == Unknown && e.To == Pending
}
