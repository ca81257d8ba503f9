package services

import (
	"fmt"
	"strings"
	"time"

	"coffeeshop/internal/core/domain/model/notification"
	"coffeeshop/internal/core/domain/model/order"
)

func customerStatusTexts() map[order.Status]string {
	return map[order.Status]string{
		order.Confirmed: "✅ Your order %s is confirmed",
		order.Preparing: "👨‍🍳 Your order %s is being prepared",
		order.Ready:     "☕ Your order %s is ready!",
		order.Completed: "🏁 Order %s is completed. Enjoy!",
		order.Cancelled: "❌ Order %s was cancelled",
	}
}

func staffActionLabels() map[order.Status]string {
	return map[order.Status]string{
		order.Confirmed: "✅ Confirm",
		order.Preparing: "👨‍🍳 Preparing",
		order.Ready:     "☕ Ready",
		order.Completed: "🏁 Complete",
		order.Cancelled: "❌ Cancel",
	}
}

// MessageComposer renders orders and status events into chat messages.
// Pending has no customer text: customers get a receipt at creation instead.
type MessageComposer struct {
	location *time.Location
}

// NewMessageComposer renders times in loc (UTC when nil).
func NewMessageComposer(loc *time.Location) MessageComposer {
	if loc == nil {
		loc = time.UTC
	}
	return MessageComposer{location: loc}
}

// StaffOrderMessage renders the full order with one action per legal next status.
func (c MessageComposer) StaffOrderMessage(o *order.Order) (notification.Message, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "🆕 New order %s\n", o.Number())
	fmt.Fprintf(&b, "Customer: %s\n", o.CustomerID())

	d := o.Details()
	fmt.Fprintf(&b, "Type: %s\n", d.Type())
	if st := d.ScheduledTime(); st != nil {
		fmt.Fprintf(&b, "Pickup at: %s\n", st.In(c.location).Format("02.01.2006 15:04"))
	}
	fmt.Fprintf(&b, "Payment: %s\n", d.PaymentMethod())

	b.WriteString("\n")
	for _, l := range o.Lines() {
		total, err := l.Total()
		if err != nil {
			return notification.Message{}, err
		}
		b.WriteString("• " + l.Name())
		if l.Size() != "" {
			b.WriteString(" (" + l.Size() + ")")
		}
		for _, a := range l.Addons() {
			b.WriteString(" + " + a.Name)
		}
		fmt.Fprintf(&b, " × %d = %s\n", l.Quantity(), total)
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", o.Total())

	if d.DeliveryAddress() != "" {
		fmt.Fprintf(&b, "Address: %s\n", d.DeliveryAddress())
	}
	if d.Notes() != "" {
		fmt.Fprintf(&b, "Notes: %s\n", d.Notes())
	}

	labels := staffActionLabels()
	actions := make([]notification.Action, 0, len(o.NextStatuses()))
	for _, next := range o.NextStatuses() {
		data, err := EncodeStatusCallback(o.ID(), o.Status(), next)
		if err != nil {
			return notification.Message{}, err
		}
		actions = append(actions, notification.Action{Label: labels[next], Data: data})
	}

	return notification.Message{Text: strings.TrimRight(b.String(), "\n"), Actions: actions}, nil
}

// CustomerReceiptMessage acknowledges a submitted order to its customer.
func (c MessageComposer) CustomerReceiptMessage(o *order.Order) notification.Message {
	return notification.Message{
		Text: fmt.Sprintf("🧾 Order %s is placed. Total: %s. We will let you know when it moves along.",
			o.Number(), o.Total()),
	}
}

// CustomerStatusMessage renders the fixed text for e.To. ok is false when the
// status has no customer text (Pending).
func (c MessageComposer) CustomerStatusMessage(e order.StatusEvent) (notification.Message, bool) {
	format, ok := customerStatusTexts()[e.To]
	if !ok {
		return notification.Message{}, false
	}
	return notification.Message{Text: fmt.Sprintf(format, e.OrderNumber)}, true
}
