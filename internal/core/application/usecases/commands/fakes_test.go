package commands_test

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"coffeeshop/internal/core/application/usecases/commands"
	"coffeeshop/internal/core/domain/model/cart"
	"coffeeshop/internal/core/domain/model/catalog"
	"coffeeshop/internal/core/domain/model/kernel"
	"coffeeshop/internal/core/domain/model/order"
	"coffeeshop/internal/core/ports"
	"coffeeshop/internal/pkg/errs"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

// memStore keeps committed orders and carts. Each memUoW stages its writes and
// applies them on Commit.
type memStore struct {
	mu            sync.Mutex
	orders        map[string]*order.Order
	carts         map[string]*cart.Cart
	conflictsLeft int

	// addErrs fail the next Adds, one error per call; commitErr fails every Commit.
	addErrs   []error
	commitErr error

	// beforeUpdate runs once, ahead of the next UpdateStatus, to let a test
	// commit a competing change between the read and the write.
	beforeUpdate func()
}

func newMemStore() *memStore {
	return &memStore{
		orders: make(map[string]*order.Order),
		carts:  make(map[string]*cart.Cart),
	}
}

func (s *memStore) Create() commands.UoW {
	return &memUoW{store: s}
}

func (s *memStore) order(t *testing.T, id kernel.UUID) *order.Order {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id.String()]
	require.True(t, ok, "order %s not stored", id)
	return cloneOrder(o)
}

func (s *memStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *memStore) cart(customerID string) *cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[customerID]; ok {
		return cloneCart(c)
	}
	c, _ := cart.NewCart(customerID)
	return c
}

func (s *memStore) putCart(t *testing.T, customerID string, lines ...cart.Line) {
	t.Helper()
	c, err := cart.RestoreCart(customerID, lines, now)
	require.NoError(t, err)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[customerID] = c
}

func (s *memStore) putOrder(o *order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID().String()] = cloneOrder(o)
}

func cloneOrder(o *order.Order) *order.Order {
	c, err := order.RestoreOrder(order.State{
		ID:         o.ID(),
		Number:     o.Number(),
		CustomerID: o.CustomerID(),
		Lines:      o.Lines(),
		Total:      o.Total(),
		Details:    o.Details(),
		CreatedAt:  o.CreatedAt(),
		Status:     o.Status(),
		History:    o.History(),
	})
	if err != nil {
		panic(err)
	}
	return c
}

func cloneCart(c *cart.Cart) *cart.Cart {
	cp, err := cart.RestoreCart(c.CustomerID(), c.Lines(), c.UpdatedAt())
	if err != nil {
		panic(err)
	}
	return cp
}

type memUoW struct {
	store       *memStore
	begun       bool
	orders      map[string]*order.Order
	carts       map[string]*cart.Cart
	removeCarts []string
	purgeBefore *time.Time
}

func (u *memUoW) Begin(context.Context) error {
	u.begun = true
	u.orders = make(map[string]*order.Order)
	u.carts = make(map[string]*cart.Cart)
	return nil
}

func (u *memUoW) Commit(context.Context) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	if u.store.commitErr != nil {
		return u.store.commitErr
	}
	for id, o := range u.orders {
		u.store.orders[id] = o
	}
	for _, id := range u.removeCarts {
		delete(u.store.carts, id)
	}
	for id, c := range u.carts {
		if c.IsEmpty() {
			delete(u.store.carts, id)
			continue
		}
		u.store.carts[id] = c
	}
	if u.purgeBefore != nil {
		for id, c := range u.store.carts {
			if c.UpdatedAt().Before(*u.purgeBefore) {
				delete(u.store.carts, id)
			}
		}
	}
	u.begun = false
	return nil
}

func (u *memUoW) Rollback(context.Context) error {
	u.begun = false
	return nil
}

func (u *memUoW) OrderRepository() ports.OrderRepository { return memOrders{u} }
func (u *memUoW) CartRepository() ports.CartRepository   { return memCarts{u} }

type memOrders struct{ u *memUoW }

func (r memOrders) Add(_ context.Context, o *order.Order) error {
	r.u.store.mu.Lock()
	defer r.u.store.mu.Unlock()
	if len(r.u.store.addErrs) > 0 {
		err := r.u.store.addErrs[0]
		r.u.store.addErrs = r.u.store.addErrs[1:]
		return err
	}
	for _, stored := range r.u.store.orders {
		if stored.Number() == o.Number() {
			return fmt.Errorf("%w: %s", ports.ErrOrderNumberTaken, o.Number())
		}
	}
	r.u.orders[o.ID().String()] = cloneOrder(o)
	return nil
}

func (r memOrders) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	if o, ok := r.u.orders[id.String()]; ok {
		return cloneOrder(o), nil
	}
	r.u.store.mu.Lock()
	defer r.u.store.mu.Unlock()
	if o, ok := r.u.store.orders[id.String()]; ok {
		return cloneOrder(o), nil
	}
	return nil, errs.NewObjectNotFoundError("orderID", id)
}

func (r memOrders) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.Get(ctx, id)
}

func (r memOrders) GetByNumber(_ context.Context, number order.Number) (*order.Order, error) {
	r.u.store.mu.Lock()
	defer r.u.store.mu.Unlock()
	for _, o := range r.u.store.orders {
		if o.Number() == number {
			return cloneOrder(o), nil
		}
	}
	return nil, errs.NewObjectNotFoundError("number", number)
}

func (r memOrders) NumberExists(ctx context.Context, number order.Number) (bool, error) {
	_, err := r.GetByNumber(ctx, number)
	return err == nil, nil
}

func (r memOrders) UpdateStatus(_ context.Context, o *order.Order, expected order.Status) error {
	r.u.store.mu.Lock()
	hook := r.u.store.beforeUpdate
	r.u.store.beforeUpdate = nil
	r.u.store.mu.Unlock()
	if hook != nil {
		hook()
	}

	r.u.store.mu.Lock()
	defer r.u.store.mu.Unlock()
	if r.u.store.conflictsLeft > 0 {
		r.u.store.conflictsLeft--
		return ports.ErrStatusConflict
	}
	stored, ok := r.u.store.orders[o.ID().String()]
	if !ok {
		return errs.NewObjectNotFoundError("orderID", o.ID())
	}
	if stored.Status() != expected {
		return ports.ErrStatusConflict
	}
	r.u.orders[o.ID().String()] = cloneOrder(o)
	return nil
}

type memCarts struct{ u *memUoW }

func (r memCarts) Get(_ context.Context, customerID string) (*cart.Cart, error) {
	if c, ok := r.u.carts[customerID]; ok {
		return cloneCart(c), nil
	}
	return r.u.store.cart(customerID), nil
}

func (r memCarts) Save(_ context.Context, c *cart.Cart) error {
	r.u.carts[c.CustomerID()] = cloneCart(c)
	return nil
}

func (r memCarts) Delete(_ context.Context, customerID string) error {
	delete(r.u.carts, customerID)
	r.u.removeCarts = append(r.u.removeCarts, customerID)
	return nil
}

func (r memCarts) DeleteUpdatedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.u.store.mu.Lock()
	defer r.u.store.mu.Unlock()
	var n int64
	for _, c := range r.u.store.carts {
		if c.UpdatedAt().Before(cutoff) {
			n++
		}
	}
	r.u.purgeBefore = &cutoff
	return n, nil
}

// Factory adapters, as the composition root does it for the real unit of work.
type cartUoWFactory struct{ s *memStore }

func (f cartUoWFactory) Create() commands.CartUoW { return f.s.Create() }

type orderUoWFactory struct{ s *memStore }

func (f orderUoWFactory) Create() commands.OrderUoW { return f.s.Create() }

type mapCatalog map[string]catalog.Item

func (m mapCatalog) Item(_ context.Context, id string) (catalog.Item, error) {
	if it, ok := m[id]; ok {
		return it, nil
	}
	return catalog.Item{}, errs.NewObjectNotFoundError("itemID", id)
}

func (m mapCatalog) Items(context.Context) ([]catalog.Item, error) {
	out := make([]catalog.Item, 0, len(m))
	for _, it := range m {
		out = append(out, it)
	}
	return out, nil
}

func testMenu(t *testing.T) mapCatalog {
	t.Helper()
	m := mapCatalog{}
	for _, def := range []struct {
		id, name string
		price    kernel.Money
		category catalog.Category
	}{
		{"espresso", "Espresso", 800, catalog.Coffee},
		{"cappuccino", "Cappuccino", 1200, catalog.Coffee},
		{"cheesecake", "Cheesecake", 1800, catalog.Dessert},
		{"oat-milk", "Oat milk", 300, catalog.Addon},
		{"syrup-vanilla", "Vanilla syrup", 200, catalog.Addon},
	} {
		it, err := catalog.NewItem(def.id, def.name, def.price, def.category)
		require.NoError(t, err)
		m[def.id] = it
	}
	return m
}

type recordingAnnouncer struct {
	mu      sync.Mutex
	created []*order.Order
	events  []order.StatusEvent
}

func (a *recordingAnnouncer) AnnounceCreation(_ context.Context, o *order.Order) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.created = append(a.created, o)
}

func (a *recordingAnnouncer) AnnounceStatus(_ context.Context, e order.StatusEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *recordingAnnouncer) createdOrders() []*order.Order {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.created)
}

func (a *recordingAnnouncer) statusEvents() []order.StatusEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.events)
}

func cartLine(t *testing.T, item, size string, qty int, addons ...string) cart.Line {
	t.Helper()
	l, err := cart.NewLine(item, size, addons, qty)
	require.NoError(t, err)
	return l
}
