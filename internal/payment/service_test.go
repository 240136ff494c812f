package payment

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/sibarmoto/motoparts-backend/internal/order"
)

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

type fakeStorage struct {
	order   *order.Order
	payment *order.Payment

	appliedOutcome Outcome
	appliedPoints  int
	appliedMethod  order.PaymentMethod

	refunded bool

	listPayments []order.Payment
	listTotal    int64
}

func (f *fakeStorage) GetUnpaidOrder(orderID, userID string) (*order.Order, error) {
	if f.order == nil || f.order.ID != orderID || f.order.UserID != userID {
		return nil, ErrOrderNotFoundOrPaid
	}
	return f.order, nil
}

func (f *fakeStorage) GetPayment(paymentID string) (*order.Payment, error) {
	if f.payment == nil || f.payment.ID != paymentID {
		return nil, ErrPaymentNotFound
	}
	return f.payment, nil
}

func (f *fakeStorage) ApplyOutcome(o *order.Order, method order.PaymentMethod, outcome Outcome, points int) (*order.Payment, error) {
	f.appliedOutcome = outcome
	f.appliedPoints = points
	f.appliedMethod = method
	return &order.Payment{
		ID:              "payment-1",
		OrderID:         o.ID,
		Method:          method,
		Amount:          o.TotalAmount,
		Status:          outcome.Status,
		TransactionID:   outcome.TransactionID,
		GatewayResponse: outcome.GatewayResponse,
	}, nil
}

func (f *fakeStorage) ApplyRefund(p *order.Payment, outcome Outcome) error {
	f.refunded = true
	return nil
}

func (f *fakeStorage) ListPayments(userID string, status order.PaymentStatus, limit, offset int) ([]order.Payment, int64, error) {
	return f.listPayments, f.listTotal, nil
}

type fakeGateway struct {
	chargeStatus string
	chargeErr    error
	refundStatus string
	refundErr    error

	gotCharge CreateCharge
	gotRefund CreateRefund
}

func (f *fakeGateway) CreateCharge(charge CreateCharge, idempotenceKey string) (*Charge, int, error) {
	f.gotCharge = charge
	if f.chargeErr != nil {
		return nil, 500, f.chargeErr
	}
	return &Charge{ID: "ch_1", Status: f.chargeStatus, Amount: charge.Amount, Currency: charge.Currency}, 200, nil
}

func (f *fakeGateway) RefundCharge(refund CreateRefund, idempotenceKey string) (*Refund, int, error) {
	f.gotRefund = refund
	if f.refundErr != nil {
		return nil, 500, f.refundErr
	}
	return &Refund{ID: "re_1", Status: f.refundStatus, ChargeID: refund.ChargeID, Amount: refund.Amount}, 200, nil
}

func unpaidOrder() *order.Order {
	return &order.Order{
		ID:           "order-1",
		UserID:       "user-1",
		Status:       order.StatusPending,
		TotalAmount:  320,
		PaymentState: order.PaymentStateUnpaid,
	}
}

func TestProcessCardSuccess(t *testing.T) {
	storage := &fakeStorage{order: unpaidOrder()}
	gateway := &fakeGateway{chargeStatus: chargeSucceeded}
	service := NewService(storage, gateway, "SAR", testLog())

	result, err := service.Process("order-1", "user-1", "gold", order.MethodCard, Data{MethodToken: "tok_1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Payment.Status != order.PaymentCompleted {
		t.Errorf("expected completed payment, got %s", result.Payment.Status)
	}
	if result.Payment.TransactionID != "ch_1" {
		t.Errorf("expected gateway charge id, got %s", result.Payment.TransactionID)
	}
	if result.OrderStatus != order.StatusPaid || result.OrderState != order.PaymentStatePaid {
		t.Errorf("expected order paid/paid, got %s/%s", result.OrderStatus, result.OrderState)
	}

	// gold rate 1.2 on 320 floors to 384
	if storage.appliedPoints != 384 {
		t.Errorf("expected 384 points, got %d", storage.appliedPoints)
	}
	if gateway.gotCharge.Currency != "SAR" || gateway.gotCharge.Amount != 320 {
		t.Errorf("unexpected charge payload: %+v", gateway.gotCharge)
	}
}

func TestProcessCardDeclined(t *testing.T) {
	storage := &fakeStorage{order: unpaidOrder()}
	gateway := &fakeGateway{chargeStatus: "declined"}
	service := NewService(storage, gateway, "SAR", testLog())

	result, err := service.Process("order-1", "user-1", "gold", order.MethodCard, Data{MethodToken: "tok_1"})
	if err != nil {
		t.Fatalf("declined charge must not be an error: %v", err)
	}

	if result.Payment.Status != order.PaymentFailed {
		t.Errorf("expected failed payment, got %s", result.Payment.Status)
	}
	if result.OrderStatus != order.StatusPending || result.OrderState != order.PaymentStateUnpaid {
		t.Errorf("order must stay unpaid for retry, got %s/%s", result.OrderStatus, result.OrderState)
	}
	if storage.appliedPoints != 0 {
		t.Errorf("no points on a failed attempt, got %d", storage.appliedPoints)
	}
}

func TestProcessGatewayUnreachable(t *testing.T) {
	storage := &fakeStorage{order: unpaidOrder()}
	gateway := &fakeGateway{chargeErr: fmt.Errorf("failed charge request")}
	service := NewService(storage, gateway, "SAR", testLog())

	result, err := service.Process("order-1", "user-1", "silver", order.MethodWallet, Data{MethodToken: "tok_1"})
	if err != nil {
		t.Fatalf("gateway failure must be recorded, not returned: %v", err)
	}
	if result.Payment.Status != order.PaymentFailed {
		t.Errorf("expected failed payment, got %s", result.Payment.Status)
	}
	if !strings.Contains(result.Payment.GatewayResponse, "failed charge request") {
		t.Errorf("expected gateway error in response: %s", result.Payment.GatewayResponse)
	}
}

func TestProcessCardWithoutPaymentData(t *testing.T) {
	storage := &fakeStorage{order: unpaidOrder()}
	gateway := &fakeGateway{chargeStatus: chargeSucceeded}
	service := NewService(storage, gateway, "SAR", testLog())

	result, err := service.Process("order-1", "user-1", "gold", order.MethodCard, Data{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Payment.Status != order.PaymentFailed {
		t.Errorf("expected failed payment without payment data, got %s", result.Payment.Status)
	}
	if gateway.gotCharge.OrderID != "" {
		t.Errorf("gateway must not be called without payment data")
	}
}

func TestProcessDeferredMethods(t *testing.T) {
	tests := []struct {
		method order.PaymentMethod
		prefix string
	}{
		{method: order.MethodCash, prefix: "CASH_"},
		{method: order.MethodPayLater, prefix: "PAYLATER_"},
	}

	for _, tc := range tests {
		t.Run(string(tc.method), func(t *testing.T) {
			storage := &fakeStorage{order: unpaidOrder()}
			service := NewService(storage, &fakeGateway{}, "SAR", testLog())

			result, err := service.Process("order-1", "user-1", "diamond", tc.method, Data{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if result.Payment.Status != order.PaymentPending {
				t.Errorf("expected pending payment, got %s", result.Payment.Status)
			}
			if !strings.HasPrefix(result.Payment.TransactionID, tc.prefix) {
				t.Errorf("expected transaction id prefix %s, got %s", tc.prefix, result.Payment.TransactionID)
			}
			if result.OrderStatus != order.StatusPending || result.OrderState != order.PaymentStateUnpaid {
				t.Errorf("order must stay unpaid until collection, got %s/%s", result.OrderStatus, result.OrderState)
			}
			if storage.appliedPoints != 0 {
				t.Errorf("no points before collection, got %d", storage.appliedPoints)
			}
		})
	}
}

func TestProcessUnknownMethod(t *testing.T) {
	storage := &fakeStorage{order: unpaidOrder()}
	service := NewService(storage, &fakeGateway{}, "SAR", testLog())

	_, err := service.Process("order-1", "user-1", "gold", order.PaymentMethod("crypto"), Data{})
	if !errors.Is(err, ErrInvalidMethod) {
		t.Fatalf("expected ErrInvalidMethod, got %v", err)
	}
}

func TestProcessPaidOrderRejected(t *testing.T) {
	storage := &fakeStorage{}
	service := NewService(storage, &fakeGateway{}, "SAR", testLog())

	_, err := service.Process("order-1", "user-1", "gold", order.MethodCard, Data{MethodToken: "tok_1"})
	if !errors.Is(err, ErrOrderNotFoundOrPaid) {
		t.Fatalf("expected ErrOrderNotFoundOrPaid, got %v", err)
	}
}

func completedPayment() *order.Payment {
	return &order.Payment{
		ID:            "payment-1",
		OrderID:       "order-1",
		Method:        order.MethodCard,
		Amount:        320,
		Status:        order.PaymentCompleted,
		TransactionID: "ch_1",
	}
}

func TestRefundPayment(t *testing.T) {
	storage := &fakeStorage{payment: completedPayment()}
	gateway := &fakeGateway{refundStatus: chargeSucceeded}
	service := NewService(storage, gateway, "SAR", testLog())

	result, err := service.RefundPayment("payment-1", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// non-positive amount means full refund
	if result.Amount != 320 {
		t.Errorf("expected full refund 320, got %v", result.Amount)
	}
	if gateway.gotRefund.ChargeID != "ch_1" || gateway.gotRefund.Amount != 320 {
		t.Errorf("unexpected refund payload: %+v", gateway.gotRefund)
	}
	if !storage.refunded {
		t.Errorf("expected refund persisted")
	}
}

func TestRefundPaymentPartial(t *testing.T) {
	storage := &fakeStorage{payment: completedPayment()}
	gateway := &fakeGateway{refundStatus: chargeSucceeded}
	service := NewService(storage, gateway, "SAR", testLog())

	result, err := service.RefundPayment("payment-1", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Amount != 100 || gateway.gotRefund.Amount != 100 {
		t.Errorf("expected partial refund 100, got %v", result.Amount)
	}
}

func TestRefundPaymentGating(t *testing.T) {
	pending := completedPayment()
	pending.Status = order.PaymentPending

	cash := completedPayment()
	cash.Method = order.MethodCash

	tests := []struct {
		name    string
		payment *order.Payment
		amount  float64
		gateway *fakeGateway
		wantErr error
	}{
		{name: "pending payment refused", payment: pending, gateway: &fakeGateway{}, wantErr: ErrRefundNotAllowed},
		{name: "amount over payment refused", payment: completedPayment(), amount: 500, gateway: &fakeGateway{}, wantErr: ErrRefundTooLarge},
		{name: "cash has no gateway refund", payment: cash, gateway: &fakeGateway{}, wantErr: ErrRefundNotSupported},
		{name: "gateway decline surfaces", payment: completedPayment(), gateway: &fakeGateway{refundStatus: "failed"}, wantErr: ErrGatewayRefund},
		{name: "gateway unreachable surfaces", payment: completedPayment(), gateway: &fakeGateway{refundErr: fmt.Errorf("failed refund request")}, wantErr: ErrGatewayRefund},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			storage := &fakeStorage{payment: tc.payment}
			service := NewService(storage, tc.gateway, "SAR", testLog())

			_, err := service.RefundPayment(tc.payment.ID, tc.amount)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if storage.refunded {
				t.Errorf("refund must not be persisted on %s", tc.name)
			}
		})
	}
}

func TestRefundUnknownPayment(t *testing.T) {
	service := NewService(&fakeStorage{}, &fakeGateway{}, "SAR", testLog())

	if _, err := service.RefundPayment("payment-404", 0); !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
}

func TestMethods(t *testing.T) {
	service := NewService(&fakeStorage{}, &fakeGateway{}, "SAR", testLog())

	methods := service.Methods()
	if len(methods) != 5 {
		t.Fatalf("expected 5 methods, got %d", len(methods))
	}
	for _, m := range methods {
		if !m.ID.Valid() {
			t.Errorf("method %s not accepted by validation", m.ID)
		}
		if !m.Enabled {
			t.Errorf("method %s should be enabled", m.ID)
		}
	}
}
