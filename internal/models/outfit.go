package models

// OutfitType describes how an outfit was assembled.
type OutfitType string

const (
	OutfitCompleteDress  OutfitType = "complete_dress"
	OutfitCoordinatedSet OutfitType = "coordinated_set"
	OutfitStatementPiece OutfitType = "statement_piece"
)

// Outfit is an assembled recommendation. Items hold read-only candidate
// references; an outfit is never mutated after creation, rejection drops
// the whole instance.
type Outfit struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	Type       OutfitType   `json:"type"`
	Items      []*Candidate `json:"items"`
	TotalPrice float64      `json:"total_price"`
	Score      float64      `json:"score"`
	Rationale  string       `json:"rationale"`
}

// ItemSKUs returns the SKUs of the outfit's items in item order.
func (o *Outfit) ItemSKUs() []string {
	skus := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		skus = append(skus, item.SKU())
	}
	return skus
}
