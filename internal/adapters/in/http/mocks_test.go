package http_test

import (
	"context"

	"coffeeshop/internal/core/application/usecases/commands"
	"coffeeshop/internal/core/application/usecases/queries"
	"coffeeshop/internal/core/domain/model/cart"
	"coffeeshop/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
)

type MockAddCartItem struct{ mock.Mock }

func (m *MockAddCartItem) Handle(ctx context.Context, cmd commands.AddCartItemCommand) (*cart.Cart, error) {
	args := m.Called(ctx, cmd)
	c, _ := args.Get(0).(*cart.Cart)
	return c, args.Error(1)
}

type MockRemoveCartItem struct{ mock.Mock }

func (m *MockRemoveCartItem) Handle(ctx context.Context, cmd commands.RemoveCartItemCommand) (*cart.Cart, error) {
	args := m.Called(ctx, cmd)
	c, _ := args.Get(0).(*cart.Cart)
	return c, args.Error(1)
}

type MockClearCart struct{ mock.Mock }

func (m *MockClearCart) Handle(ctx context.Context, cmd commands.ClearCartCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockSubmitOrder struct{ mock.Mock }

func (m *MockSubmitOrder) Handle(ctx context.Context, cmd commands.SubmitOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockUpdateOrderStatus struct{ mock.Mock }

func (m *MockUpdateOrderStatus) Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockGetCart struct{ mock.Mock }

func (m *MockGetCart) Handle(ctx context.Context, query queries.GetCartQuery) (queries.CartView, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.CartView), args.Error(1)
}

type MockGetOrder struct{ mock.Mock }

func (m *MockGetOrder) Handle(ctx context.Context, query queries.GetOrderQuery) (*order.Order, error) {
	args := m.Called(ctx, query)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockListCustomerOrders struct{ mock.Mock }

func (m *MockListCustomerOrders) Handle(
	ctx context.Context,
	query queries.ListCustomerOrdersQuery,
) ([]*order.Order, error) {
	args := m.Called(ctx, query)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

type MockAnswerer struct{ mock.Mock }

func (m *MockAnswerer) AnswerCallback(ctx context.Context, callbackID, text string) error {
	return m.Called(ctx, callbackID, text).Error(0)
}
