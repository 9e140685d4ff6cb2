// Package rules holds the immutable styling rule tables shared by the
// matcher and the assembler: color compatibility, category title overrides,
// and occasion synonyms. Tables are built once by Default and passed as a
// dependency, never read from ambient globals.
package rules

import (
	"strings"

	"github.com/hyperjump/kode/internal/models"
)

// Rules bundles the lookup tables. Construct with Default; the zero value
// treats every color pair as compatible and trusts stored category labels.
type Rules struct {
	colorPairs       map[string]map[string]bool
	topKeywords      []string
	bottomKeywords   []string
	dressKeywords    []string
	occasionTriggers map[string]string
}

// Default returns the built-in rule tables.
func Default() *Rules {
	r := &Rules{
		colorPairs: make(map[string]map[string]bool),
		topKeywords: []string{
			"blouse", "shirt", "top", "cardigan", "tank",
		},
		bottomKeywords: []string{
			"shorts", "pants", "skirt", "trouser",
		},
		dressKeywords: []string{"dress"},
		occasionTriggers: map[string]string{
			"dance":     "party",
			"dancing":   "party",
			"party":     "party",
			"club":      "party",
			"clubbing":  "party",
			"wedding":   "wedding",
			"office":    "work",
			"work":      "work",
			"meeting":   "work",
			"interview": "work",
			"beach":     "vacation",
			"vacation":  "vacation",
			"gym":       "sport",
			"running":   "sport",
			"date":      "date",
			"dinner":    "date",
		},
	}

	// Known-compatible pairs, registered symmetrically. Any pair absent
	// from the table is treated as compatible: rejecting a wearable
	// combination is worse than allowing a questionable one.
	pairs := map[string][]string{
		"black": {"white", "grey", "beige", "navy", "blue", "red", "pink", "green"},
		"white": {"black", "grey", "navy", "beige", "blue", "red", "brown", "green"},
		"blue":  {"white", "black", "grey", "navy", "beige"},
		"navy":  {"white", "black", "grey", "beige", "blue"},
		"grey":  {"black", "white", "navy", "blue", "pink", "red"},
		"beige": {"black", "white", "navy", "brown", "blue"},
		"brown": {"beige", "white", "cream"},
		"red":   {"black", "white", "grey"},
		"pink":  {"black", "grey", "white"},
		"green": {"black", "white", "beige"},
	}
	for color, partners := range pairs {
		for _, partner := range partners {
			r.addColorPair(color, partner)
		}
	}
	return r
}

func (r *Rules) addColorPair(a, b string) {
	for _, pair := range [][2]string{{a, b}, {b, a}} {
		if r.colorPairs[pair[0]] == nil {
			r.colorPairs[pair[0]] = make(map[string]bool)
		}
		r.colorPairs[pair[0]][pair[1]] = true
	}
}

// ColorCompatible reports whether two colors wear well together. The policy
// is permissive: empty or unknown colors are compatible, same color is
// compatible, and only pairs where both colors are known but not listed
// together are rejected.
func (r *Rules) ColorCompatible(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" || a == b {
		return true
	}
	partnersA, knownA := r.colorPairs[a]
	_, knownB := r.colorPairs[b]
	if !knownA || !knownB {
		return true
	}
	return partnersA[b]
}

// ColorListed reports whether the pair is explicitly listed in the
// compatibility table. Unlike ColorCompatible it is strict: unknown or
// empty colors return false. The matcher uses it so that the
// compatible-color score is only awarded for a positively known pairing.
func (r *Rules) ColorListed(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return r.colorPairs[a][b]
}

// ResolveCategory resolves a product's category from its title and stored
// label. Stored labels are occasionally wrong (a blouse tagged "bottom"),
// so title keywords take precedence; absent any override keyword the stored
// label is trusted.
func (r *Rules) ResolveCategory(title, stored string) models.Category {
	lower := strings.ToLower(title)
	for _, kw := range r.dressKeywords {
		if strings.Contains(lower, kw) {
			return models.CategoryDress
		}
	}
	for _, kw := range r.topKeywords {
		if strings.Contains(lower, kw) {
			return models.CategoryTop
		}
	}
	for _, kw := range r.bottomKeywords {
		if strings.Contains(lower, kw) {
			return models.CategoryBottom
		}
	}
	switch models.Category(strings.ToLower(strings.TrimSpace(stored))) {
	case models.CategoryTop:
		return models.CategoryTop
	case models.CategoryBottom:
		return models.CategoryBottom
	case models.CategoryDress:
		return models.CategoryDress
	case models.CategoryOuterwear:
		return models.CategoryOuterwear
	}
	return models.CategoryOther
}

// OccasionFor maps a message token to a canonical occasion tag.
// Returns "" when the token carries no occasion signal.
func (r *Rules) OccasionFor(token string) string {
	return r.occasionTriggers[strings.ToLower(token)]
}
