package payment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func splitHostPort(t *testing.T, serverURL string) (string, string) {
	t.Helper()
	trimmed := strings.TrimPrefix(serverURL, "http://")
	idx := strings.LastIndex(trimmed, ":")
	if idx < 0 {
		t.Fatalf("unexpected test server url: %s", serverURL)
	}
	return trimmed[:idx], trimmed[idx:]
}

func TestGatewayAdapterCreateCharge(t *testing.T) {
	var gotKey string
	var gotCharge CreateCharge

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/charge" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotKey = r.URL.Query().Get("idempotenceKey")
		if err := json.NewDecoder(r.Body).Decode(&gotCharge); err != nil {
			t.Errorf("failed to decode charge: %v", err)
		}

		json.NewEncoder(w).Encode(Charge{ID: "ch_1", Status: "succeeded", Amount: gotCharge.Amount, Currency: gotCharge.Currency})
	}))
	defer srv.Close()

	host, port := splitHostPort(t, srv.URL)
	adapter := NewGatewayAdapter(testLog(), host, port)

	charge, code, err := adapter.CreateCharge(CreateCharge{
		Amount:      320,
		Currency:    "SAR",
		Method:      "card",
		MethodToken: "tok_1",
		OrderID:     "order-1",
	}, "key-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if code != 200 {
		t.Errorf("expected 200, got %d", code)
	}
	if charge.ID != "ch_1" || charge.Status != "succeeded" {
		t.Errorf("unexpected charge: %+v", charge)
	}
	if gotKey != "key-1" {
		t.Errorf("expected idempotence key on request, got %q", gotKey)
	}
	if gotCharge.Amount != 320 || gotCharge.Currency != "SAR" || gotCharge.OrderID != "order-1" {
		t.Errorf("unexpected charge payload: %+v", gotCharge)
	}
}

func TestGatewayAdapterCreateChargeBadRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	host, port := splitHostPort(t, srv.URL)
	adapter := NewGatewayAdapter(testLog(), host, port)

	_, code, err := adapter.CreateCharge(CreateCharge{Amount: 320}, "key-1")
	if err == nil {
		t.Fatalf("expected error on bad request")
	}
	if code != 400 {
		t.Errorf("expected 400, got %d", code)
	}
}

func TestGatewayAdapterRefundCharge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/refund" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var refund CreateRefund
		json.NewDecoder(r.Body).Decode(&refund)
		json.NewEncoder(w).Encode(Refund{ID: "re_1", Status: "succeeded", ChargeID: refund.ChargeID, Amount: refund.Amount})
	}))
	defer srv.Close()

	host, port := splitHostPort(t, srv.URL)
	adapter := NewGatewayAdapter(testLog(), host, port)

	refund, _, err := adapter.RefundCharge(CreateRefund{ChargeID: "ch_1", Amount: 100}, "key-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refund.ID != "re_1" || refund.ChargeID != "ch_1" || refund.Amount != 100 {
		t.Errorf("unexpected refund: %+v", refund)
	}
}

func TestGatewayAdapterRefundChargeNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	host, port := splitHostPort(t, srv.URL)
	adapter := NewGatewayAdapter(testLog(), host, port)

	_, code, err := adapter.RefundCharge(CreateRefund{ChargeID: "ch_missing"}, "key-3")
	if err == nil {
		t.Fatalf("expected error on missing charge")
	}
	if code != 404 {
		t.Errorf("expected 404, got %d", code)
	}
}
