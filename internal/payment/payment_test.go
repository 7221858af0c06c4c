package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/wichananm65/eco-shop-backend/internal/apperror"
	"github.com/wichananm65/eco-shop-backend/internal/config"
)

func TestToMinorUnits(t *testing.T) {
	cases := []struct {
		amount   float64
		currency string
		want     int64
	}{
		{499.99, "INR", 49999},
		{0.1 + 0.2, "usd", 30},
		{1500, "JPY", 1500},
		{0, "INR", 0},
	}
	for _, tc := range cases {
		if got := ToMinorUnits(tc.amount, tc.currency); got != tc.want {
			t.Errorf("ToMinorUnits(%v, %s) = %d, want %d", tc.amount, tc.currency, got, tc.want)
		}
	}
}

func TestVerifySignature(t *testing.T) {
	sig := Sign("order_abc", "pay_123", "s3cret")
	if !VerifySignature("order_abc", "pay_123", sig, "s3cret") {
		t.Fatalf("expected valid signature")
	}
	if VerifySignature("order_abc", "pay_124", sig, "s3cret") {
		t.Fatalf("signature for another payment accepted")
	}
	if VerifySignature("order_abc", "pay_123", sig, "other") {
		t.Fatalf("signature under another secret accepted")
	}
	if VerifySignature("order_abc", "pay_123", "", "s3cret") {
		t.Fatalf("empty signature accepted")
	}
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key_id" || pass != "key_secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/orders" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var req createOrderRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(GatewayOrder{ID: "order_1", Amount: req.Amount, Currency: req.Currency, Receipt: req.Receipt, Status: "created"})
	}))
	defer srv.Close()

	c := NewClient(config.PaymentConfig{BaseURL: srv.URL + "/", KeyID: "key_id", KeySecret: "key_secret"})
	order, err := c.CreateOrder(context.Background(), 49999, "INR", "rcpt_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID != "order_1" || order.Amount != 49999 || order.Receipt != "rcpt_1" {
		t.Fatalf("unexpected order %+v", order)
	}
}

func TestCreateOrder_BreakerOpensOnFailures(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(config.PaymentConfig{BaseURL: srv.URL, KeyID: "k", KeySecret: "s"})
	for i := 0; i < failureThreshold; i++ {
		_, err := c.CreateOrder(context.Background(), 100, "INR", "r")
		if apperror.KindOf(err) != apperror.KindUnavailable {
			t.Fatalf("call %d: expected unavailable, got %v", i, err)
		}
	}

	_, err := c.CreateOrder(context.Background(), 100, "INR", "r")
	if apperror.Status(err) != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 from open breaker, got %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != failureThreshold {
		t.Fatalf("expected open breaker to skip the gateway, got %d hits", got)
	}
}

func TestCreateOrder_RejectionDoesNotTrip(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"description":"invalid currency"}}`))
	}))
	defer srv.Close()

	c := NewClient(config.PaymentConfig{BaseURL: srv.URL, KeyID: "k", KeySecret: "s"})
	for i := 0; i < failureThreshold+2; i++ {
		_, err := c.CreateOrder(context.Background(), 100, "XYZ", "r")
		if apperror.KindOf(err) != apperror.KindValidation {
			t.Fatalf("call %d: expected validation error, got %v", i, err)
		}
	}
	if got := atomic.LoadInt32(&hits); got != failureThreshold+2 {
		t.Fatalf("expected every call to reach the gateway, got %d", got)
	}
}
