package payment

import (
	"github.com/sirupsen/logrus"

	"github.com/sibarmoto/motoparts-backend/internal/order"
	"github.com/sibarmoto/motoparts-backend/internal/pricing"
)

type PaymentLogHook struct{}

func (h *PaymentLogHook) Fire(entry *logrus.Entry) error {
	entry.Message = "Payment: " + entry.Message
	return nil
}

func (h *PaymentLogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Result reports a settlement attempt back to the client.
type Result struct {
	Payment     *order.Payment     `json:"payment"`
	OrderStatus order.OrderStatus  `json:"order_status"`
	OrderState  order.PaymentState `json:"order_payment_status"`
}

type RefundResult struct {
	PaymentID     string  `json:"payment_id"`
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transaction_id"`
}

type MethodInfo struct {
	ID          order.PaymentMethod `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Enabled     bool                `json:"enabled"`
}

type PaymentService interface {
	// Process runs one settlement attempt for an unpaid order. A gateway
	// failure is recorded as a failed payment, not returned as an error.
	Process(orderID, userID, membershipType string, method order.PaymentMethod, data Data) (*Result, error)

	// RefundPayment refunds a completed payment. A non-positive amount
	// means the full payment amount.
	RefundPayment(paymentID string, amount float64) (*RefundResult, error)

	Methods() []MethodInfo
	History(userID string, status order.PaymentStatus, page, limit int) ([]order.Payment, *order.Pagination, error)
}

type paymentService struct {
	storage  Storage
	gateway  Gateway
	currency string
	logger   *logrus.Entry
}

func NewService(storage Storage, gateway Gateway, currency string, log *logrus.Entry) PaymentService {
	return &paymentService{
		storage:  storage,
		gateway:  gateway,
		currency: currency,
		logger:   log,
	}
}

func (s *paymentService) strategyFor(method order.PaymentMethod) Strategy {
	switch method {
	case order.MethodCard, order.MethodBankTransfer, order.MethodWallet:
		return newGatewayStrategy(s.gateway, method, s.currency)
	case order.MethodCash:
		return newDeferredStrategy(method, "payment will be collected upon delivery")
	case order.MethodPayLater:
		return newDeferredStrategy(method, "payment will be processed after delivery")
	default:
		return nil
	}
}

func (s *paymentService) Process(orderID, userID, membershipType string, method order.PaymentMethod, data Data) (*Result, error) {
	o, err := s.storage.GetUnpaidOrder(orderID, userID)
	if err != nil {
		return nil, err
	}

	strategy := s.strategyFor(method)
	if strategy == nil {
		return nil, ErrInvalidMethod
	}

	outcome := strategy.Charge(o, data)

	// points accrue only when the attempt completed
	points := 0
	if outcome.Status == order.PaymentCompleted {
		points = pricing.PointsEarned(o.TotalAmount, membershipType)
	}

	applied, err := s.storage.ApplyOutcome(o, method, outcome, points)
	if err != nil {
		return nil, err
	}

	orderStatus := o.Status
	orderState := o.PaymentState
	if outcome.Status == order.PaymentCompleted {
		orderStatus = order.StatusPaid
		orderState = order.PaymentStatePaid
		s.logger.Infof("payment %s completed for order %s, %d points credited", applied.ID, o.ID, points)
	} else {
		s.logger.Infof("payment %s for order %s finished as %s", applied.ID, o.ID, outcome.Status)
	}

	return &Result{
		Payment:     applied,
		OrderStatus: orderStatus,
		OrderState:  orderState,
	}, nil
}

func (s *paymentService) RefundPayment(paymentID string, amount float64) (*RefundResult, error) {
	p, err := s.storage.GetPayment(paymentID)
	if err != nil {
		return nil, err
	}

	if p.Status != order.PaymentCompleted {
		return nil, ErrRefundNotAllowed
	}

	if amount <= 0 {
		amount = p.Amount
	}
	if amount > p.Amount {
		return nil, ErrRefundTooLarge
	}

	strategy := s.strategyFor(p.Method)
	if strategy == nil {
		return nil, ErrRefundNotSupported
	}

	outcome, err := strategy.Refund(p, amount)
	if err != nil {
		return nil, err
	}
	if outcome.Status != order.PaymentCompleted {
		return nil, ErrGatewayRefund
	}

	if err := s.storage.ApplyRefund(p, outcome); err != nil {
		return nil, err
	}

	s.logger.Infof("payment %s refunded, amount %.2f", paymentID, amount)

	return &RefundResult{
		PaymentID:     paymentID,
		Amount:        amount,
		TransactionID: outcome.TransactionID,
	}, nil
}

func (s *paymentService) Methods() []MethodInfo {
	return []MethodInfo{
		{ID: order.MethodCard, Name: "Credit/Debit Card", Description: "Pay securely with your credit or debit card", Enabled: true},
		{ID: order.MethodBankTransfer, Name: "Bank Transfer", Description: "Pay through your bank's payment gateway", Enabled: true},
		{ID: order.MethodWallet, Name: "Wallet", Description: "Pay using your wallet account", Enabled: true},
		{ID: order.MethodCash, Name: "Cash on Delivery", Description: "Pay with cash when your order is delivered", Enabled: true},
		{ID: order.MethodPayLater, Name: "Pay Later", Description: "Pay after receiving your order", Enabled: true},
	}
}

func (s *paymentService) History(userID string, status order.PaymentStatus, page, limit int) ([]order.Payment, *order.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	payments, total, err := s.storage.ListPayments(userID, status, limit, (page-1)*limit)
	if err != nil {
		return nil, nil, err
	}

	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}

	return payments, &order.Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}, nil
}
