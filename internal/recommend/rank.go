// Package recommend ranks catalog products for a user from their liked and
// disliked products.
package recommend

import (
	"sort"

	"github.com/wichananm65/eco-shop-backend/internal/product"
)

const (
	DefaultLimit = 10

	preferredCategoryBonus = 2.0
	likedBonus             = 3.0
	dislikedPenalty        = 3.0
)

// Input is a snapshot of everything Rank needs. Catalog order is the tie
// breaker for equal scores.
type Input struct {
	Liked               []int
	Disliked            []int
	PreferredCategories []string
	Catalog             []product.Product
}

// Score is the weighted sum for one product: its sustainability score, plus
// a bonus when its category is preferred, plus a bonus when liked, minus a
// penalty when disliked.
func Score(p product.Product, preferred map[string]struct{}, liked, disliked map[int]struct{}) float64 {
	score := p.SustainabilityScore
	if _, ok := preferred[p.Category]; ok {
		score += preferredCategoryBonus
	}
	if _, ok := liked[p.ID]; ok {
		score += likedBonus
	}
	if _, ok := disliked[p.ID]; ok {
		score -= dislikedPenalty
	}
	return score
}

// Rank returns at most limit products ordered by descending score. Liked and
// disliked products are never returned. A limit <= 0 means DefaultLimit.
func Rank(in Input, limit int) []product.Product {
	if limit <= 0 {
		limit = DefaultLimit
	}

	liked := idSet(in.Liked)
	disliked := idSet(in.Disliked)
	preferred := make(map[string]struct{}, len(in.PreferredCategories))
	for _, c := range in.PreferredCategories {
		preferred[c] = struct{}{}
	}

	type candidate struct {
		product product.Product
		score   float64
	}
	candidates := make([]candidate, 0, len(in.Catalog))
	for _, p := range in.Catalog {
		_, isLiked := liked[p.ID]
		_, isDisliked := disliked[p.ID]
		if isLiked || isDisliked {
			continue
		}
		candidates = append(candidates, candidate{product: p, score: Score(p, preferred, liked, disliked)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]product.Product, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.product)
	}
	return out
}

func idSet(ids []int) map[int]struct{} {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
