package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/wichananm65/eco-shop-backend/internal/apperror"
	"github.com/wichananm65/eco-shop-backend/internal/config"
	"github.com/wichananm65/eco-shop-backend/internal/logger"
)

const failureThreshold = 5

// errRejected marks a 4xx answer. It is the caller's fault, so it does not
// count against the breaker.
var errRejected = errors.New("payment gateway rejected request")

// Client is a gateway client for the orders API. Every call goes through a
// circuit breaker.
type Client struct {
	baseURL   string
	keyID     string
	keySecret string
	http      *http.Client
	breaker   *gobreaker.CircuitBreaker[GatewayOrder]
}

func NewClient(cfg config.PaymentConfig) *Client {
	settings := gobreaker.Settings{
		Name:        "payment-gateway",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errRejected)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		http:      &http.Client{Timeout: 10 * time.Second},
		breaker:   gobreaker.NewCircuitBreaker[GatewayOrder](settings),
	}
}

func (c *Client) KeyID() string { return c.keyID }

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// CreateOrder registers an order with the gateway. amount is in minor units.
func (c *Client) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (GatewayOrder, error) {
	order, err := c.breaker.Execute(func() (GatewayOrder, error) {
		return c.createOrder(ctx, amount, currency, receipt)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return GatewayOrder{}, apperror.Unavailable("payment gateway unavailable", err)
		}
		if errors.Is(err, errRejected) {
			return GatewayOrder{}, &apperror.Error{Kind: apperror.KindValidation, Message: "payment gateway rejected the order", Err: err}
		}
		return GatewayOrder{}, apperror.Unavailable("payment gateway unavailable", err)
	}
	return order, nil
}

func (c *Client) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	return VerifySignature(gatewayOrderID, paymentID, signature, c.keySecret)
}

func (c *Client) createOrder(ctx context.Context, amount int64, currency, receipt string) (GatewayOrder, error) {
	body, err := json.Marshal(createOrderRequest{Amount: amount, Currency: currency, Receipt: receipt})
	if err != nil {
		return GatewayOrder{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return GatewayOrder{}, err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return GatewayOrder{}, fmt.Errorf("create gateway order: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return GatewayOrder{}, fmt.Errorf("read gateway response: %w", err)
	}
	if res.StatusCode >= 400 && res.StatusCode < 500 {
		return GatewayOrder{}, fmt.Errorf("%w: status %d: %s", errRejected, res.StatusCode, raw)
	}
	if res.StatusCode >= 300 {
		return GatewayOrder{}, fmt.Errorf("gateway status %d", res.StatusCode)
	}

	var order GatewayOrder
	if err := json.Unmarshal(raw, &order); err != nil {
		return GatewayOrder{}, fmt.Errorf("decode gateway order: %w", err)
	}
	if order.ID == "" {
		return GatewayOrder{}, errors.New("gateway order without id")
	}
	return order, nil
}
