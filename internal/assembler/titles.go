package assembler

import (
	"fmt"
	"strings"

	"github.com/hyperjump/kode/internal/models"
)

// occasionWord picks the most specific occasion phrase available: an
// occasion tag first, then the mood, then a generic fallback.
func occasionWord(bundle *models.KeywordBundle) string {
	if bundle != nil {
		if len(bundle.Occasions) > 0 {
			return bundle.Occasions[0]
		}
		if bundle.Mood != "" {
			return bundle.Mood
		}
	}
	return "any occasion"
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func dressTitle(bundle *models.KeywordBundle) string {
	return fmt.Sprintf("%s Ready Dress", titleCase(occasionWord(bundle)))
}

func setTitle(bundle *models.KeywordBundle) string {
	return fmt.Sprintf("%s Coordinated Set", titleCase(occasionWord(bundle)))
}

func statementTitle(bundle *models.KeywordBundle) string {
	return fmt.Sprintf("%s Statement Piece", titleCase(occasionWord(bundle)))
}

func itemPhrase(c *models.Candidate) string {
	color := strings.ToLower(strings.TrimSpace(c.Product.Color))
	title := strings.ToLower(strings.TrimSpace(c.Product.Title))
	if color != "" && !strings.Contains(title, color) {
		return color + " " + title
	}
	return title
}

func dressRationale(dress *models.Candidate, bundle *models.KeywordBundle) string {
	return fmt.Sprintf("The %s is a complete look on its own, ready for %s.",
		itemPhrase(dress), occasionWord(bundle))
}

func setRationale(top, bottom *models.Candidate, bundle *models.KeywordBundle) string {
	return fmt.Sprintf("The %s pairs well with the %s, a coordinated look that works for %s.",
		itemPhrase(top), itemPhrase(bottom), occasionWord(bundle))
}

func statementRationale(c *models.Candidate, bundle *models.KeywordBundle) string {
	return fmt.Sprintf("The %s stands on its own as a statement for %s.",
		itemPhrase(c), occasionWord(bundle))
}
