package product

func ptrString(s string) *string { return &s }

// SampleProducts is the catalog seeded by the dev reset endpoint.
func SampleProducts() []Product {
	return []Product{
		{
			Name:                "Bamboo Toothbrush",
			Description:         "Compostable bamboo handle with plant-based bristles",
			Category:            "Personal Care",
			SustainabilityScore: 8.5,
			Price:               99,
			Image:               ptrString("/products/bamboo-toothbrush.jpg"),
		},
		{
			Name:                "Beeswax Food Wraps",
			Description:         "Reusable set of three organic cotton wraps",
			Category:            "Kitchen",
			SustainabilityScore: 9,
			Price:               549,
			Image:               ptrString("/products/beeswax-wraps.jpg"),
		},
		{
			Name:                "Steel Water Bottle",
			Description:         "Insulated 750ml stainless steel bottle",
			Category:            "Kitchen",
			SustainabilityScore: 7,
			Price:               899,
			Image:               ptrString("/products/steel-bottle.jpg"),
		},
		{
			Name:                "Organic Cotton Tote",
			Description:         "Fair-trade heavy canvas shopping bag",
			Category:            "Bags",
			SustainabilityScore: 7.5,
			Price:               299,
			Image:               ptrString("/products/cotton-tote.jpg"),
		},
		{
			Name:                "Solid Shampoo Bar",
			Description:         "Plastic-free shampoo bar for all hair types",
			Category:            "Personal Care",
			SustainabilityScore: 8,
			Price:               349,
			Image:               ptrString("/products/shampoo-bar.jpg"),
		},
	}
}
