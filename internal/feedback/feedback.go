package feedback

// Feedback is one user's rating of one product. A user has at most one
// feedback per product; submitting again replaces it.
type Feedback struct {
	ID        int    `json:"feedbackId"`
	UserID    int    `json:"userId"`
	ProductID int    `json:"productId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Summary aggregates the feedback left on a product.
type Summary struct {
	ProductID     int        `json:"productId"`
	AverageRating float64    `json:"averageRating"`
	Count         int        `json:"count"`
	Items         []Feedback `json:"items"`
}
