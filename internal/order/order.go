package order

const (
	StatusPendingPayment = "pending_payment"
	StatusPaid           = "paid"
	StatusPaymentFailed  = "payment_failed"
)

// Item is a priced order line. Prices are copied from the catalog when the
// order is placed and never change afterwards.
type Item struct {
	ProductID   int     `json:"productId"`
	ProductName string  `json:"productName"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
	LineTotal   float64 `json:"lineTotal"`
}

// Order represents a purchase made by a user.
type Order struct {
	ID               int     `json:"orderId"`
	UserID           int     `json:"userId"`
	Items            []Item  `json:"items"`
	TotalAmount      float64 `json:"totalAmount"`
	Currency         string  `json:"currency"`
	Status           string  `json:"status"`
	Receipt          string  `json:"receipt"`
	ShippingAddress  string  `json:"shippingAddress"`
	GatewayOrderID   string  `json:"gatewayOrderId,omitempty"`
	GatewayPaymentID string  `json:"gatewayPaymentId,omitempty"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`
}

// PaymentIntent is what the client needs to open the gateway checkout.
type PaymentIntent struct {
	OrderID        int    `json:"orderId"`
	GatewayOrderID string `json:"gatewayOrderId"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
	KeyID          string `json:"keyId"`
}
