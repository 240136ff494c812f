package payment

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sibarmoto/motoparts-backend/internal/order"
)

// Data carries the method-specific input the client supplies for a
// settlement attempt. Secret-bearing material stays inside the gateway call
// and is never echoed back.
type Data struct {
	MethodToken string `json:"method_token,omitempty"`
	ChargeID    string `json:"charge_id,omitempty"`
}

// Outcome is the normalized result every strategy returns.
type Outcome struct {
	Status          order.PaymentStatus
	TransactionID   string
	GatewayResponse string
}

// Strategy settles (and refunds) payments for one method.
type Strategy interface {
	Charge(o *order.Order, data Data) Outcome
	Refund(p *order.Payment, amount float64) (Outcome, error)
}

func failedOutcome(reason string) Outcome {
	body, _ := json.Marshal(map[string]string{"error": reason})
	return Outcome{
		Status:          order.PaymentFailed,
		GatewayResponse: string(body),
	}
}

// gatewayStrategy settles card, bank-transfer and wallet payments through
// the external gateway. A gateway error becomes a failed outcome, never a
// hard error: the order survives for retry.
type gatewayStrategy struct {
	gateway  Gateway
	method   order.PaymentMethod
	currency string
}

func newGatewayStrategy(gateway Gateway, method order.PaymentMethod, currency string) *gatewayStrategy {
	return &gatewayStrategy{
		gateway:  gateway,
		method:   method,
		currency: currency,
	}
}

func (s *gatewayStrategy) Charge(o *order.Order, data Data) Outcome {
	if data.MethodToken == "" && data.ChargeID == "" {
		return failedOutcome("payment data is required")
	}

	charge, _, err := s.gateway.CreateCharge(CreateCharge{
		Amount:      o.TotalAmount,
		Currency:    s.currency,
		Method:      string(s.method),
		MethodToken: data.MethodToken,
		ChargeID:    data.ChargeID,
		OrderID:     o.ID,
	}, uuid.NewString())
	if err != nil {
		return failedOutcome(err.Error())
	}

	body, _ := json.Marshal(map[string]interface{}{
		"charge_id": charge.ID,
		"status":    charge.Status,
		"amount":    charge.Amount,
		"currency":  charge.Currency,
	})

	status := order.PaymentFailed
	if charge.Status == chargeSucceeded {
		status = order.PaymentCompleted
	}

	return Outcome{
		Status:          status,
		TransactionID:   charge.ID,
		GatewayResponse: string(body),
	}
}

func (s *gatewayStrategy) Refund(p *order.Payment, amount float64) (Outcome, error) {
	refund, _, err := s.gateway.RefundCharge(CreateRefund{
		ChargeID: p.TransactionID,
		Amount:   amount,
	}, uuid.NewString())
	if err != nil {
		return failedOutcome(err.Error()), nil
	}

	body, _ := json.Marshal(map[string]interface{}{
		"refund_id": refund.ID,
		"status":    refund.Status,
		"amount":    refund.Amount,
	})

	status := order.PaymentFailed
	if refund.Status == chargeSucceeded {
		status = order.PaymentCompleted
	}

	return Outcome{
		Status:          status,
		TransactionID:   refund.ID,
		GatewayResponse: string(body),
	}, nil
}

// deferredStrategy covers cash and pay-later: no external call, settlement
// is always pending and completes out-of-band.
type deferredStrategy struct {
	method order.PaymentMethod
	note   string
}

func newDeferredStrategy(method order.PaymentMethod, note string) *deferredStrategy {
	return &deferredStrategy{method: method, note: note}
}

func (s *deferredStrategy) Charge(o *order.Order, data Data) Outcome {
	body, _ := json.Marshal(map[string]string{
		"method": string(s.method),
		"status": "pending_confirmation",
		"note":   s.note,
	})

	return Outcome{
		Status:          order.PaymentPending,
		TransactionID:   deferredTransactionID(s.method),
		GatewayResponse: string(body),
	}
}

func (s *deferredStrategy) Refund(p *order.Payment, amount float64) (Outcome, error) {
	return Outcome{}, ErrRefundNotSupported
}

func deferredTransactionID(method order.PaymentMethod) string {
	tag := strings.ToUpper(strings.ReplaceAll(string(method), "_", ""))
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s_%d_%s", tag, time.Now().UnixMilli(), random)
}
