// Package notification delivers outbound email such as login codes and order
// confirmations.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/wichananm65/eco-shop-backend/internal/logger"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes messages to the log instead of delivering them. It is used
// when no SMTP server is configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg Message) error {
	logger.Logger.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Msg("email not sent, smtp disabled")
	return nil
}

func OTPMessage(to, code string, ttl time.Duration) Message {
	return Message{
		To:      to,
		Subject: "Your sign-in code",
		Body: fmt.Sprintf("Your one-time sign-in code is %s.\r\nIt expires in %d minutes. If you did not ask for it you can ignore this email.\r\n",
			code, int(ttl.Minutes())),
	}
}

func OrderPaidMessage(to string, orderID int, receipt string, amount float64, currency string) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Order #%d confirmed", orderID),
		Body: fmt.Sprintf("Thanks for your order.\r\nWe received your payment of %.2f %s for order #%d (receipt %s).\r\n",
			amount, currency, orderID, receipt),
	}
}
