package http

import (
	"time"

	"coffeeshop/internal/core/application/usecases/queries"
	"coffeeshop/internal/core/domain/model/order"
)

// Request and response bodies of the API. Field names follow openapi.yaml.

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type CartItemRequest struct {
	ItemID   string   `json:"itemId"`
	Size     string   `json:"size,omitempty"`
	Addons   []string `json:"addons,omitempty"`
	Quantity *int     `json:"quantity,omitempty"`
}

type RemoveCartItemParams struct {
	ItemID   string
	Size     *string
	Addons   *[]string
	Quantity *int
}

type ListCustomerOrdersParams struct {
	Limit  *int
	Offset *int
}

type SubmitOrderRequest struct {
	OrderType       string     `json:"orderType"`
	ScheduledTime   *time.Time `json:"scheduledTime,omitempty"`
	DeliveryAddress string     `json:"deliveryAddress,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	PaymentMethod   string     `json:"paymentMethod,omitempty"`
}

type StatusUpdateRequest struct {
	ExpectedStatus string `json:"expectedStatus"`
	Status         string `json:"status"`
	ActorID        string `json:"actorId"`
}

type CartLine struct {
	ItemID    string   `json:"itemId"`
	Name      string   `json:"name"`
	Size      string   `json:"size,omitempty"`
	Addons    []string `json:"addons,omitempty"`
	Quantity  int      `json:"quantity"`
	UnitPrice int64    `json:"unitPrice"`
	LineTotal int64    `json:"lineTotal"`
	Available bool     `json:"available"`
}

type Cart struct {
	CustomerID string     `json:"customerId"`
	Lines      []CartLine `json:"lines"`
	Total      int64      `json:"total"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

type OrderAddon struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type OrderLine struct {
	ItemID    string       `json:"itemId"`
	Name      string       `json:"name"`
	Size      string       `json:"size,omitempty"`
	Addons    []OrderAddon `json:"addons,omitempty"`
	Quantity  int          `json:"quantity"`
	UnitPrice int64        `json:"unitPrice"`
	LineTotal int64        `json:"lineTotal"`
}

type HistoryEntry struct {
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changedAt"`
	ActorID   string    `json:"actorId"`
}

type Order struct {
	ID              string         `json:"id"`
	Number          string         `json:"number"`
	CustomerID      string         `json:"customerId"`
	Status          string         `json:"status"`
	OrderType       string         `json:"orderType"`
	ScheduledTime   *time.Time     `json:"scheduledTime,omitempty"`
	DeliveryAddress string         `json:"deliveryAddress,omitempty"`
	Notes           string         `json:"notes,omitempty"`
	PaymentMethod   string         `json:"paymentMethod"`
	Lines           []OrderLine    `json:"lines"`
	Total           int64          `json:"total"`
	CreatedAt       time.Time      `json:"createdAt"`
	History         []HistoryEntry `json:"history"`
	NextStatuses    []string       `json:"nextStatuses"`
}


func cartFromView(v queries.CartView) Cart {
	resp := Cart{
		CustomerID: v.CustomerID,
		Lines:      make([]CartLine, len(v.Lines)),
		Total:      v.Total.Minor(),
	}
	if !v.UpdatedAt.IsZero() {
		updatedAt := v.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	for i, l := range v.Lines {
		resp.Lines[i] = CartLine{
			ItemID:    l.ItemID,
			Name:      l.Name,
			Size:      l.Size,
			Addons:    l.Addons,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.Minor(),
			LineTotal: l.LineTotal.Minor(),
			Available: l.Available,
		}
	}
	return resp
}

func orderFromDomain(o *order.Order) (Order, error) {
	d := o.Details()
	resp := Order{
		ID:              o.ID().String(),
		Number:          o.Number().String(),
		CustomerID:      o.CustomerID(),
		Status:          o.Status().String(),
		OrderType:       string(d.Type()),
		ScheduledTime:   d.ScheduledTime(),
		DeliveryAddress: d.DeliveryAddress(),
		Notes:           d.Notes(),
		PaymentMethod:   string(d.PaymentMethod()),
		Lines:           make([]OrderLine, 0, len(o.Lines())),
		Total:           o.Total().Minor(),
		CreatedAt:       o.CreatedAt(),
		History:         make([]HistoryEntry, 0, len(o.History())),
		NextStatuses:    make([]string, 0, len(o.NextStatuses())),
	}

	for _, l := range o.Lines() {
		total, err := l.Total()
		if err != nil {
			return Order{}, err
		}
		line := OrderLine{
			ItemID:    l.ItemID(),
			Name:      l.Name(),
			Size:      l.Size(),
			Quantity:  l.Quantity(),
			UnitPrice: l.UnitPrice().Minor(),
			LineTotal: total.Minor(),
		}
		for _, a := range l.Addons() {
			line.Addons = append(line.Addons, OrderAddon{ID: a.ID, Name: a.Name, Price: a.Price.Minor()})
		}
		resp.Lines = append(resp.Lines, line)
	}

	for _, h := range o.History() {
		resp.History = append(resp.History, HistoryEntry{
			Status:    h.Status().String(),
			ChangedAt: h.ChangedAt(),
			ActorID:   h.Actor(),
		})
	}
	for _, s := range o.NextStatuses() {
		resp.NextStatuses = append(resp.NextStatuses, s.String())
	}

	return resp, nil
}
