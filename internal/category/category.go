package category

// Category is a distinct product category with the number of products in it.
type Category struct {
	Name         string `json:"categoryName"`
	ProductCount int    `json:"productCount"`
}
