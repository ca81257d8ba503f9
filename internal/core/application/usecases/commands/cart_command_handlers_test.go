package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"coffeeshop/internal/core/application/usecases/commands"
	"coffeeshop/internal/core/domain/model/cart"
	"coffeeshop/internal/core/domain/model/kernel"
	"coffeeshop/internal/core/ports"
	"coffeeshop/internal/pkg/errs"
	"coffeeshop/internal/pkg/keylock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCartRepository struct{ mock.Mock }

func (m *MockCartRepository) Get(ctx context.Context, customerID string) (*cart.Cart, error) {
	args := m.Called(ctx, customerID)
	c, _ := args.Get(0).(*cart.Cart)
	return c, args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, customerID string) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteUpdatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockCartUoW struct{ mock.Mock }

func (m *MockCartUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCartUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCartUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCartUoW) CartRepository() ports.CartRepository {
	args := m.Called()
	return args.Get(0).(ports.CartRepository)
}

type MockCartUoWFactory struct{ mock.Mock }

func (m *MockCartUoWFactory) Create() commands.CartUoW {
	args := m.Called()
	return args.Get(0).(commands.CartUoW)
}

type MockLocker struct{ mock.Mock }

func (m *MockLocker) Lock(ctx context.Context, key string) (ports.UnlockFunc, error) {
	args := m.Called(ctx, key)
	unlock, _ := args.Get(0).(ports.UnlockFunc)
	return unlock, args.Error(1)
}

func TestNewAddCartItemCommand(t *testing.T) {
	t.Run("should normalise the entry", func(t *testing.T) {
		cmd, err := commands.NewAddCartItemCommand(" 42 ", "cappuccino", " M ", []string{"syrup-vanilla", "oat-milk", "oat-milk"}, 2)
		require.NoError(t, err)
		assert.Equal(t, "42", cmd.CustomerID())
		assert.Equal(t, "m", cmd.Line().Size())
		assert.Equal(t, []string{"oat-milk", "syrup-vanilla"}, cmd.Line().Addons())
		assert.Equal(t, 2, cmd.Line().Quantity())
	})

	t.Run("should report every invalid field", func(t *testing.T) {
		_, err := commands.NewAddCartItemCommand("", "", "m", nil, 0)
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject a command that bypassed the constructor", func(t *testing.T) {
		h := commands.NewAddCartItemCommandHandler(cartUoWFactory{newMemStore()}, keylock.New(), kernel.FixedClock{At: now}, 0)
		_, err := h.Handle(t.Context(), commands.AddCartItemCommand{})
		assert.ErrorIs(t, err, commands.ErrAddCartItemCommandIsNotConstructed)
	})
}

func TestAddCartItemCommandHandler_Handle(t *testing.T) {
	t.Run("should merge identical entries", func(t *testing.T) {
		store := newMemStore()
		h := commands.NewAddCartItemCommandHandler(cartUoWFactory{store}, keylock.New(), kernel.FixedClock{At: now}, time.Second)

		for _, addons := range [][]string{{"oat-milk"}, {"oat-milk"}, nil} {
			cmd, err := commands.NewAddCartItemCommand("42", "cappuccino", "m", addons, 1)
			require.NoError(t, err)
			_, err = h.Handle(t.Context(), cmd)
			require.NoError(t, err)
		}

		c := store.cart("42")
		require.Len(t, c.Lines(), 2)
		assert.Equal(t, 2, c.Lines()[0].Quantity())
		assert.Equal(t, 1, c.Lines()[1].Quantity())
		assert.Equal(t, now, c.UpdatedAt())
	})

	t.Run("should not lose concurrent additions", func(t *testing.T) {
		store := newMemStore()
		h := commands.NewAddCartItemCommandHandler(cartUoWFactory{store}, keylock.New(), kernel.FixedClock{At: now}, 5*time.Second)
		cmd, err := commands.NewAddCartItemCommand("42", "espresso", "s", nil, 1)
		require.NoError(t, err)

		const workers = 50
		var wg sync.WaitGroup
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := h.Handle(context.Background(), cmd)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		c := store.cart("42")
		require.Len(t, c.Lines(), 1)
		assert.Equal(t, workers, c.Lines()[0].Quantity())
	})

	t.Run("should fail with persistence error when the lock cannot be taken", func(t *testing.T) {
		locker := new(MockLocker)
		locker.On("Lock", mock.Anything, "cart:42").Return(nil, context.DeadlineExceeded).Once()
		factory := new(MockCartUoWFactory)

		h := commands.NewAddCartItemCommandHandler(factory, locker, kernel.FixedClock{At: now}, time.Second)
		cmd, _ := commands.NewAddCartItemCommand("42", "espresso", "s", nil, 1)

		_, err := h.Handle(t.Context(), cmd)
		require.ErrorIs(t, err, errs.ErrPersistence)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		factory.AssertNotCalled(t, "Create")
	})
}

func TestRemoveCartItemCommandHandler_Handle(t *testing.T) {
	t.Run("should decrement and then drop the entry", func(t *testing.T) {
		store := newMemStore()
		store.putCart(t, "42", cartLine(t, "cappuccino", "m", 3, "oat-milk"))
		h := commands.NewRemoveCartItemCommandHandler(cartUoWFactory{store}, keylock.New(), kernel.FixedClock{At: now}, time.Second)

		cmd, err := commands.NewRemoveCartItemCommand("42", "cappuccino", "M", []string{"oat-milk"}, 2)
		require.NoError(t, err)
		c, err := h.Handle(t.Context(), cmd)
		require.NoError(t, err)
		assert.Equal(t, 1, c.Lines()[0].Quantity())

		_, err = h.Handle(t.Context(), cmd)
		require.NoError(t, err)
		assert.True(t, store.cart("42").IsEmpty())
	})

	t.Run("should report a missing entry as not found", func(t *testing.T) {
		store := newMemStore()
		store.putCart(t, "42", cartLine(t, "cappuccino", "m", 1))
		h := commands.NewRemoveCartItemCommandHandler(cartUoWFactory{store}, keylock.New(), kernel.FixedClock{At: now}, time.Second)

		cmd, _ := commands.NewRemoveCartItemCommand("42", "cappuccino", "m", []string{"oat-milk"}, 1)
		_, err := h.Handle(t.Context(), cmd)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.Equal(t, 1, store.cart("42").ItemCount())
	})
}

func TestClearCartCommandHandler_Handle(t *testing.T) {
	t.Run("should save the emptied cart in one transaction", func(t *testing.T) {
		ctx := t.Context()
		c, err := cart.RestoreCart("42", []cart.Line{cartLine(t, "espresso", "s", 2)}, now)
		require.NoError(t, err)

		unlocked := false
		locker := new(MockLocker)
		locker.On("Lock", mock.Anything, "cart:42").
			Return(ports.UnlockFunc(func(context.Context) error { unlocked = true; return nil }), nil).Once()

		repo := new(MockCartRepository)
		uow := new(MockCartUoW)
		mock.InOrder(
			uow.On("Begin", mock.Anything).Return(nil).Once(),
			uow.On("CartRepository").Return(repo).Once(),
			repo.On("Get", mock.Anything, "42").Return(c, nil).Once(),
			repo.On("Save", mock.Anything, mock.MatchedBy(func(saved *cart.Cart) bool {
				return saved.IsEmpty()
			})).Return(nil).Once(),
			uow.On("Commit", mock.Anything).Return(nil).Once(),
			uow.On("Rollback", mock.Anything).Return(nil).Once(),
		)
		factory := new(MockCartUoWFactory)
		factory.On("Create").Return(uow).Once()

		cmd, err := commands.NewClearCartCommand("42")
		require.NoError(t, err)
		h := commands.NewClearCartCommandHandler(factory, locker, kernel.FixedClock{At: now}, time.Second)
		require.NoError(t, h.Handle(ctx, cmd))

		assert.True(t, unlocked)
		repo.AssertExpectations(t)
		uow.AssertExpectations(t)
		factory.AssertExpectations(t)
		locker.AssertExpectations(t)
	})

	t.Run("should not commit when saving fails", func(t *testing.T) {
		c, _ := cart.NewCart("42")
		locker := new(MockLocker)
		locker.On("Lock", mock.Anything, "cart:42").
			Return(ports.UnlockFunc(func(context.Context) error { return nil }), nil).Once()

		saveErr := errs.NewPersistenceError("save cart", errors.New("connection reset"))
		repo := new(MockCartRepository)
		uow := new(MockCartUoW)
		mock.InOrder(
			uow.On("Begin", mock.Anything).Return(nil).Once(),
			uow.On("CartRepository").Return(repo).Once(),
			repo.On("Get", mock.Anything, "42").Return(c, nil).Once(),
			repo.On("Save", mock.Anything, c).Return(saveErr).Once(),
			uow.On("Rollback", mock.Anything).Return(nil).Once(),
		)
		factory := new(MockCartUoWFactory)
		factory.On("Create").Return(uow).Once()

		cmd, _ := commands.NewClearCartCommand("42")
		h := commands.NewClearCartCommandHandler(factory, locker, kernel.FixedClock{At: now}, time.Second)
		err := h.Handle(t.Context(), cmd)
		require.ErrorIs(t, err, errs.ErrPersistence)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("should reject a blank customer", func(t *testing.T) {
		_, err := commands.NewClearCartCommand("  ")
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestPurgeExpiredCartsCommandHandler_Handle(t *testing.T) {
	store := newMemStore()
	store.putCart(t, "old", cartLine(t, "espresso", "s", 1))
	h := commands.NewPurgeExpiredCartsCommandHandler(cartUoWFactory{store}, kernel.FixedClock{At: now.Add(25 * time.Hour)})

	fresh := commands.NewAddCartItemCommandHandler(cartUoWFactory{store}, keylock.New(), kernel.FixedClock{At: now.Add(24 * time.Hour)}, time.Second)
	cmd, _ := commands.NewAddCartItemCommand("fresh", "espresso", "s", nil, 1)
	_, err := fresh.Handle(t.Context(), cmd)
	require.NoError(t, err)

	purge, err := commands.NewPurgeExpiredCartsCommand(24 * time.Hour)
	require.NoError(t, err)
	removed, err := h.Handle(t.Context(), purge)
	require.NoError(t, err)

	assert.Equal(t, int64(1), removed)
	assert.True(t, store.cart("old").IsEmpty())
	assert.False(t, store.cart("fresh").IsEmpty())

	_, err = commands.NewPurgeExpiredCartsCommand(0)
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}
