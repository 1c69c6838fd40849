package merchant

import (
	"github.com/subscout/subscout/internal/brand"
	"github.com/subscout/subscout/internal/model"
)

// Resolver runs the full merchant identity pipeline over a transaction
// batch: normalization, fuzzy grouping, brand annotation.
type Resolver struct {
	brands    *brand.Resolver
	threshold int
}

// NewResolver creates a resolver using the given brand lexicon and fuzzy
// similarity threshold (0-100).
func NewResolver(brands *brand.Resolver, threshold int) *Resolver {
	return &Resolver{brands: brands, threshold: threshold}
}

// Resolve returns a copy of the batch with MerchantKey, Brand, and Category
// populated. Input transactions are not mutated.
func (r *Resolver) Resolve(txns []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, len(txns))
	keys := make([]string, len(txns))
	for i, tx := range txns {
		out[i] = tx
		keys[i] = Normalize(tx.Description)
	}

	mapping := GroupKeys(keys, r.threshold)

	for i := range out {
		key := keys[i]
		if rep, ok := mapping[key]; ok {
			key = rep
		}
		out[i].MerchantKey = key

		if m, ok := r.brands.Resolve(out[i].Description); ok {
			out[i].Brand = m.Name
			out[i].Category = m.Category
		}
	}

	return out
}
