package payment

import "errors"

var (
	ErrOrderNotFoundOrPaid = errors.New("order not found or already paid")
	ErrInvalidMethod       = errors.New("invalid payment method")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrRefundNotAllowed    = errors.New("can only refund completed payments")
	ErrRefundNotSupported  = errors.New("refund not supported for this payment method")
	ErrRefundTooLarge      = errors.New("refund amount exceeds payment amount")
	ErrGatewayRefund       = errors.New("gateway refund failed")
)
