package matcher

// Weights holds the relevance scoring weights and matcher tunables. The
// values were tuned by hand; they live here, in one place, so they can be
// adjusted and tested independently of control flow. Signal weights sum to
// 1.0 when every signal is present; scores are clamped to [0,1].
type Weights struct {
	ColorExact      float64 // product color exactly matches a requested color
	ColorCompatible float64 // product color is compatible with a requested color
	Occasion        float64
	CategoryHint    float64
	Style           float64
	Material        float64
	KeywordBonus    float64 // per keyword found in the title
	KeywordCap      float64 // upper bound on the summed keyword bonus

	RelevanceFloor float64 // candidates below this are discarded
	RelaxedFloor   float64 // applied when the floor would empty the result
	MaxCandidates  int
}

// DefaultWeights returns the default scoring weights.
func DefaultWeights() *Weights {
	w := &Weights{}
	w.ApplyDefaults()
	return w
}

// ApplyDefaults sets default values for any zero fields.
func (w *Weights) ApplyDefaults() {
	if w.ColorExact == 0 {
		w.ColorExact = 0.25
	}
	if w.ColorCompatible == 0 {
		w.ColorCompatible = 0.15
	}
	if w.Occasion == 0 {
		w.Occasion = 0.20
	}
	if w.CategoryHint == 0 {
		w.CategoryHint = 0.20
	}
	if w.Style == 0 {
		w.Style = 0.15
	}
	if w.Material == 0 {
		w.Material = 0.10
	}
	if w.KeywordBonus == 0 {
		w.KeywordBonus = 0.05
	}
	if w.KeywordCap == 0 {
		w.KeywordCap = 0.15
	}
	if w.RelevanceFloor == 0 {
		w.RelevanceFloor = 0.15
	}
	if w.RelaxedFloor == 0 {
		w.RelaxedFloor = 0.01
	}
	if w.MaxCandidates == 0 {
		w.MaxCandidates = 15
	}
}
