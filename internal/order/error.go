package order

import "errors"

var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrOrderAlreadyCancelled  = errors.New("order is already cancelled")
	ErrOrderNotCancellable    = errors.New("cannot cancel shipped or delivered orders")
	ErrInvalidStateTransition = errors.New("invalid order status transition")
	errDuplicateOrderNumber   = errors.New("order number collision")
)
