package models

// KeywordBundle is the structured search signal set derived from a free-text
// request. All fields may be empty; an empty field means "no constraint".
// A bundle is created once per request and never mutated afterwards.
type KeywordBundle struct {
	Keywords   []string `json:"keywords"`
	Colors     []string `json:"colors,omitempty"`
	Occasions  []string `json:"occasions,omitempty"`
	Styles     []string `json:"styles,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Materials  []string `json:"materials,omitempty"`
	Mood       string   `json:"mood,omitempty"`

	// Fallback records that the natural-language expansion degraded to
	// token splitting. It does not affect matching behavior.
	Fallback bool `json:"fallback,omitempty"`
}

// IsEmpty reports whether the bundle carries no search signal at all.
func (b *KeywordBundle) IsEmpty() bool {
	if b == nil {
		return true
	}
	return len(b.Keywords) == 0 && len(b.Colors) == 0 && len(b.Occasions) == 0 &&
		len(b.Styles) == 0 && len(b.Categories) == 0 && len(b.Materials) == 0
}

// DressOnly reports whether the bundle's category hints point exclusively at
// dresses. The balancer skips top/bottom fill for dress-only requests.
func (b *KeywordBundle) DressOnly() bool {
	if b == nil || len(b.Categories) == 0 {
		return false
	}
	for _, c := range b.Categories {
		if Category(c) != CategoryDress {
			return false
		}
	}
	return true
}
