package product

// Product is a catalog entry. Products are created through the admin API and
// only read when computing carts, orders and recommendations.
type Product struct {
	ID                  int     `json:"productId"`
	Name                string  `json:"productName" validate:"required,max=200"`
	Description         string  `json:"productDesc" validate:"max=5000"`
	Category            string  `json:"category" validate:"required,max=100"`
	SustainabilityScore float64 `json:"sustainabilityScore" validate:"gte=0"`
	Price               float64 `json:"productPrice" validate:"gte=0"`
	Currency            string  `json:"currency" validate:"omitempty,iso4217"`
	Image               *string `json:"productImg,omitempty"`
	CreatedAt           string  `json:"createdAt,omitempty"`
	UpdatedAt           string  `json:"updatedAt,omitempty"`
}

// DefaultCurrency is applied to products created without an explicit currency.
const DefaultCurrency = "INR"
