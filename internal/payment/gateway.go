package payment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type GatewayLogHook struct{}

func (h *GatewayLogHook) Fire(entry *logrus.Entry) error {
	entry.Message = "Gateway: " + entry.Message
	return nil
}

func (h *GatewayLogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Gateway is the external payment collaborator: create-or-confirm a charge,
// refund a charge. Implemented by gatewayAdapter; faked in tests.
type Gateway interface {
	CreateCharge(charge CreateCharge, idempotenceKey string) (*Charge, int, error)
	RefundCharge(refund CreateRefund, idempotenceKey string) (*Refund, int, error)
}

type CreateCharge struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Method      string  `json:"method"`
	MethodToken string  `json:"method_token,omitempty"`
	ChargeID    string  `json:"charge_id,omitempty"`
	OrderID     string  `json:"order_id"`
}

type Charge struct {
	ID       string  `json:"id"`
	Status   string  `json:"status"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type CreateRefund struct {
	ChargeID string  `json:"charge_id"`
	Amount   float64 `json:"amount"`
}

type Refund struct {
	ID       string  `json:"id"`
	Status   string  `json:"status"`
	ChargeID string  `json:"charge_id"`
	Amount   float64 `json:"amount"`
}

// Charge statuses the gateway reports.
const (
	chargeSucceeded = "succeeded"
)

type gatewayAdapter struct {
	client      http.Client
	log         *logrus.Entry
	gatewayHost string
	gatewayPort string
}

func NewGatewayAdapter(log *logrus.Entry, gatewayHost, gatewayPort string) Gateway {
	c := http.Client{
		Timeout: time.Second * 10,
	}

	return &gatewayAdapter{
		client:      c,
		log:         log,
		gatewayHost: gatewayHost,
		gatewayPort: gatewayPort,
	}
}

func (g *gatewayAdapter) CreateCharge(charge CreateCharge, idempotenceKey string) (*Charge, int, error) {
	chargeBytes, err := json.Marshal(charge)
	if err != nil {
		g.log.Debugf("CreateCharge: error marshal charge - %v", err)
		return nil, 0, fmt.Errorf("error marshal charge")
	}

	url := fmt.Sprintf("http://%s%s%s", g.gatewayHost, g.gatewayPort, "/charge")
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(chargeBytes))
	if err != nil {
		g.log.Errorf("CreateCharge: failed create charge request - /charge - %v", err)
		return nil, 0, fmt.Errorf("failed charge request")
	}

	q := req.URL.Query()
	q.Add("idempotenceKey", idempotenceKey)
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Errorf("CreateCharge: failed charge request - %v", err)
		return nil, 0, fmt.Errorf("failed charge request")
	}
	defer resp.Body.Close()

	bts, err := io.ReadAll(resp.Body)
	if err != nil {
		g.log.Debugf("CreateCharge: failed readAll body - %v", err)
		return nil, 0, fmt.Errorf("failed readAll body")
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var result Charge
		if err := json.Unmarshal(bts, &result); err != nil {
			g.log.Errorf("CreateCharge: failed to decode response body - %v", err)
			return nil, 500, fmt.Errorf("failed to decode response body")
		}
		return &result, 200, nil
	case http.StatusBadRequest:
		g.log.Errorf("CreateCharge: failed charge response (StatusBadRequest), body - %s", string(bts))
		return nil, 400, fmt.Errorf("failed charge response (StatusBadRequest)")
	default:
		g.log.Errorf("CreateCharge: failed charge response (unexpected error) - %d, body - %s", resp.StatusCode, string(bts))
		return nil, 500, fmt.Errorf("failed charge response (unexpected error)")
	}
}

func (g *gatewayAdapter) RefundCharge(refund CreateRefund, idempotenceKey string) (*Refund, int, error) {
	refundBytes, err := json.Marshal(refund)
	if err != nil {
		g.log.Debugf("RefundCharge: error marshal refund - %v", err)
		return nil, 0, fmt.Errorf("error marshal refund")
	}

	url := fmt.Sprintf("http://%s%s%s", g.gatewayHost, g.gatewayPort, "/refund")
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(refundBytes))
	if err != nil {
		g.log.Errorf("RefundCharge: failed create refund request - /refund - %v", err)
		return nil, 0, fmt.Errorf("failed refund request")
	}

	q := req.URL.Query()
	q.Add("idempotenceKey", idempotenceKey)
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Errorf("RefundCharge: failed refund request - %v", err)
		return nil, 0, fmt.Errorf("failed refund request")
	}
	defer resp.Body.Close()

	bts, err := io.ReadAll(resp.Body)
	if err != nil {
		g.log.Debugf("RefundCharge: failed readAll body - %v", err)
		return nil, 0, fmt.Errorf("failed readAll body")
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var result Refund
		if err := json.Unmarshal(bts, &result); err != nil {
			g.log.Errorf("RefundCharge: failed to decode response body - %v", err)
			return nil, 500, fmt.Errorf("failed to decode response body")
		}
		return &result, 200, nil
	case http.StatusBadRequest:
		g.log.Errorf("RefundCharge: failed refund response (StatusBadRequest), body - %s", string(bts))
		return nil, 400, fmt.Errorf("failed refund response (StatusBadRequest)")
	case http.StatusNotFound:
		return nil, 404, fmt.Errorf("refund: charge not found")
	default:
		g.log.Errorf("RefundCharge: failed refund response (unexpected error) - %d, body - %s", resp.StatusCode, string(bts))
		return nil, 500, fmt.Errorf("failed refund response (unexpected error)")
	}
}
