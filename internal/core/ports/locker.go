package ports

import "context"

// UnlockFunc releases a lock obtained from Locker.
type UnlockFunc = func(ctx context.Context) error

// Locker serialises work on a key (a customer cart or an order) across callers.
// Lock blocks until the key is free or ctx is done.
type Locker interface {
	Lock(ctx context.Context, key string) (UnlockFunc, error)
}

// CartLockKey and OrderLockKey namespace lock keys.
func CartLockKey(customerID string) string {
	return "cart:" + customerID
}

func OrderLockKey(orderID string) string {
	return "order:" + orderID
}
