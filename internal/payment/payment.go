// Package payment talks to the hosted payment gateway: it creates gateway
// orders and verifies the signature the checkout returns.
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strings"
)

// GatewayOrder is the gateway's view of an order awaiting payment.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

var zeroDecimalCurrencies = map[string]struct{}{
	"JPY": {}, "KRW": {}, "VND": {}, "CLP": {}, "PYG": {}, "UGX": {}, "XAF": {}, "XOF": {},
}

// ToMinorUnits converts a decimal amount to the integer unit the gateway
// expects (paise for INR, cents for USD).
func ToMinorUnits(amount float64, currency string) int64 {
	if _, ok := zeroDecimalCurrencies[strings.ToUpper(currency)]; ok {
		return int64(math.Round(amount))
	}
	return int64(math.Round(amount * 100))
}

// Sign returns the hex HMAC-SHA256 of "orderID|paymentID" under secret. It is
// the value the checkout hands back as the payment signature.
func Sign(gatewayOrderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares signature with the expected one in constant time.
func VerifySignature(gatewayOrderID, paymentID, signature, secret string) bool {
	expected := Sign(gatewayOrderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}
