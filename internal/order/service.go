package order

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wichananm65/eco-shop-backend/internal/apperror"
	"github.com/wichananm65/eco-shop-backend/internal/cart"
	"github.com/wichananm65/eco-shop-backend/internal/events"
	"github.com/wichananm65/eco-shop-backend/internal/logger"
	"github.com/wichananm65/eco-shop-backend/internal/notification"
	"github.com/wichananm65/eco-shop-backend/internal/payment"
	"github.com/wichananm65/eco-shop-backend/internal/product"
	"github.com/wichananm65/eco-shop-backend/internal/user"
)

var (
	ErrEmptyCart        = apperror.Validation("cart is empty")
	ErrMixedCurrency    = apperror.Validation("cart contains products priced in different currencies")
	ErrPaymentNotBegun  = apperror.Validation("payment has not been started for this order")
	ErrInvalidSignature = apperror.Validation("payment signature is invalid")
)

type Cart interface {
	Items(ctx context.Context, userID int) ([]cart.Item, error)
	ClearCart(ctx context.Context, userID int) error
}

type Catalog interface {
	ListByIDs(ctx context.Context, ids []int) ([]product.Product, error)
}

type Users interface {
	GetByID(ctx context.Context, id int) (user.User, error)
}

// Gateway creates and verifies payments with the hosted payment provider.
type Gateway interface {
	KeyID() string
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (payment.GatewayOrder, error)
	VerifySignature(gatewayOrderID, paymentID, signature string) bool
}

// Service provides business logic for orders.
type Service struct {
	repo      Repository
	cart      Cart
	catalog   Catalog
	users     Users
	gateway   Gateway
	sender    notification.Sender
	publisher events.Publisher
}

type Deps struct {
	Cart      Cart
	Catalog   Catalog
	Users     Users
	Gateway   Gateway
	Sender    notification.Sender
	Publisher events.Publisher
}

func NewService(r Repository, deps Deps) *Service {
	return &Service{
		repo:      r,
		cart:      deps.Cart,
		catalog:   deps.Catalog,
		users:     deps.Users,
		gateway:   deps.Gateway,
		sender:    deps.Sender,
		publisher: deps.Publisher,
	}
}

// Place turns the user's cart into an order priced from the current catalog.
// The cart itself is left untouched until payment succeeds.
func (s *Service) Place(ctx context.Context, userID int, shippingAddress string) (Order, error) {
	cartItems, err := s.cart.Items(ctx, userID)
	if err != nil {
		return Order{}, err
	}
	if len(cartItems) == 0 {
		return Order{}, ErrEmptyCart
	}

	ids := make([]int, 0, len(cartItems))
	for _, it := range cartItems {
		ids = append(ids, it.ProductID)
	}
	products, err := s.catalog.ListByIDs(ctx, ids)
	if err != nil {
		return Order{}, err
	}
	byID := make(map[int]product.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]Item, 0, len(cartItems))
	currency := ""
	total := 0.0
	for _, it := range cartItems {
		p, ok := byID[it.ProductID]
		if !ok {
			return Order{}, apperror.NotFound(fmt.Sprintf("product %d is no longer available", it.ProductID))
		}
		if currency == "" {
			currency = p.Currency
		} else if p.Currency != currency {
			return Order{}, ErrMixedCurrency
		}
		line := Item{
			ProductID:   p.ID,
			ProductName: p.Name,
			UnitPrice:   p.Price,
			Quantity:    it.Quantity,
			LineTotal:   roundAmount(p.Price * float64(it.Quantity)),
		}
		total += line.LineTotal
		items = append(items, line)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	return s.repo.Create(ctx, Order{
		UserID:          userID,
		Items:           items,
		TotalAmount:     roundAmount(total),
		Currency:        currency,
		Status:          StatusPendingPayment,
		Receipt:         newReceipt(),
		ShippingAddress: strings.TrimSpace(shippingAddress),
		CreatedAt:       now,
		UpdatedAt:       now,
	})
}

// Get returns the order when it belongs to userID. Orders of other users are
// reported as not found.
func (s *Service) Get(ctx context.Context, userID, id int) (Order, error) {
	ord, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if ord.UserID != userID {
		return Order{}, ErrNotFound
	}
	return ord, nil
}

func (s *Service) List(ctx context.Context, userID int) ([]Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// CreatePayment opens a gateway order for an unpaid order. Calling it again
// after a failed attempt replaces the gateway order.
func (s *Service) CreatePayment(ctx context.Context, userID, id int) (PaymentIntent, error) {
	ord, err := s.Get(ctx, userID, id)
	if err != nil {
		return PaymentIntent{}, err
	}
	if ord.Status == StatusPaid {
		return PaymentIntent{}, ErrAlreadyPaid
	}

	amount := payment.ToMinorUnits(ord.TotalAmount, ord.Currency)
	gwOrder, err := s.gateway.CreateOrder(ctx, amount, ord.Currency, ord.Receipt)
	if err != nil {
		return PaymentIntent{}, err
	}
	// the order may have been paid while the gateway call was in flight
	unpaid := []string{StatusPendingPayment, StatusPaymentFailed}
	if err := s.repo.SetGatewayOrder(ctx, ord.ID, unpaid, gwOrder.ID, time.Now().UTC().Format(time.RFC3339)); err != nil {
		if errors.Is(err, ErrStatusConflict) {
			if current, getErr := s.repo.GetByID(ctx, ord.ID); getErr == nil && current.Status == StatusPaid {
				return PaymentIntent{}, ErrAlreadyPaid
			}
		}
		return PaymentIntent{}, err
	}

	return PaymentIntent{
		OrderID:        ord.ID,
		GatewayOrderID: gwOrder.ID,
		Amount:         amount,
		Currency:       ord.Currency,
		Receipt:        ord.Receipt,
		KeyID:          s.gateway.KeyID(),
	}, nil
}

// VerifyPayment checks the checkout signature and marks the order paid. A
// bad signature marks the order payment_failed.
func (s *Service) VerifyPayment(ctx context.Context, userID, id int, gatewayPaymentID, signature string) (Order, error) {
	ord, err := s.Get(ctx, userID, id)
	if err != nil {
		return Order{}, err
	}
	if ord.Status == StatusPaid {
		return Order{}, ErrAlreadyPaid
	}
	if ord.GatewayOrderID == "" {
		return Order{}, ErrPaymentNotBegun
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if !s.gateway.VerifySignature(ord.GatewayOrderID, gatewayPaymentID, signature) {
		logger.Logger.Warn().Int("order_id", ord.ID).Int("user_id", userID).Msg("payment signature mismatch")
		if _, err := s.repo.Transition(ctx, ord.ID, []string{StatusPendingPayment}, StatusPaymentFailed, "", now); err != nil {
			logger.Logger.Error().Err(err).Int("order_id", ord.ID).Msg("failed to mark payment failed")
		}
		return Order{}, ErrInvalidSignature
	}

	paid, err := s.repo.Transition(ctx, ord.ID, []string{StatusPendingPayment, StatusPaymentFailed}, StatusPaid, gatewayPaymentID, now)
	if err != nil {
		return Order{}, err
	}

	s.afterPaid(ctx, paid)
	return paid, nil
}

// afterPaid runs the follow-up work of a successful payment. Failures are
// logged; the payment itself already succeeded.
func (s *Service) afterPaid(ctx context.Context, ord Order) {
	log := logger.Logger.With().Int("order_id", ord.ID).Int("user_id", ord.UserID).Logger()

	if err := s.cart.ClearCart(ctx, ord.UserID); err != nil {
		log.Error().Err(err).Msg("failed to clear cart after payment")
	}

	if u, err := s.users.GetByID(ctx, ord.UserID); err != nil {
		log.Error().Err(err).Msg("failed to load user for confirmation email")
	} else if err := s.sender.Send(ctx, notification.OrderPaidMessage(u.Email, ord.ID, ord.Receipt, ord.TotalAmount, ord.Currency)); err != nil {
		log.Error().Err(err).Msg("failed to send order confirmation")
	}

	lines := make([]events.OrderLine, 0, len(ord.Items))
	for _, it := range ord.Items {
		lines = append(lines, events.OrderLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	if err := s.publisher.PublishOrderPaid(ctx, events.OrderPaidEvent{
		OrderID:          ord.ID,
		UserID:           ord.UserID,
		Receipt:          ord.Receipt,
		GatewayPaymentID: ord.GatewayPaymentID,
		Amount:           ord.TotalAmount,
		Currency:         ord.Currency,
		Items:            lines,
	}); err != nil {
		log.Error().Err(err).Msg("failed to publish order paid event")
	}
}

func newReceipt() string {
	return "rcpt_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func roundAmount(v float64) float64 {
	return math.Round(v*100) / 100
}
