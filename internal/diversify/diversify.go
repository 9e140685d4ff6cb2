// Package diversify dedups and caps the pooled outfit list, producing the
// final ranked result.
package diversify

import (
	"sort"
	"strings"

	"github.com/hyperjump/kode/internal/models"
)

// Diversify sorts outfits by score descending, drops any outfit whose exact
// item-SKU set was already kept, and caps the result at desiredCount. Set
// equality is what dedups, not titles: the same single item emitted by two
// strategies counts as a duplicate and only the higher-scored survives.
// Fewer than desiredCount results, including zero, is a valid outcome.
func Diversify(outfits []*models.Outfit, desiredCount int) []*models.Outfit {
	if desiredCount <= 0 || len(outfits) == 0 {
		return []*models.Outfit{}
	}

	sorted := make([]*models.Outfit, len(outfits))
	copy(sorted, outfits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	seen := make(map[string]bool, len(sorted))
	kept := make([]*models.Outfit, 0, desiredCount)
	for _, outfit := range sorted {
		key := itemSetKey(outfit)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, outfit)
		if len(kept) == desiredCount {
			break
		}
	}
	return kept
}

// itemSetKey builds an order-independent key from the outfit's item SKUs.
func itemSetKey(outfit *models.Outfit) string {
	skus := outfit.ItemSKUs()
	sort.Strings(skus)
	return strings.Join(skus, "|")
}
