package models

import "fmt"

// RecommendRequest is a recommendation request with the raw user message
// and the desired number of outfits.
type RecommendRequest struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// Validate ensures the request has a message and normalizes the count.
func (r *RecommendRequest) Validate() error {
	if r.Message == "" {
		return fmt.Errorf("message cannot be empty")
	}
	if r.Count <= 0 {
		r.Count = 3
	}
	if r.Count > 10 {
		r.Count = 10
	}
	return nil
}

// RecommendResponse is the ranked outfit list returned to the caller.
type RecommendResponse struct {
	Outfits   []*Outfit      `json:"outfits"`
	Total     int            `json:"total"`
	Bundle    *KeywordBundle `json:"bundle,omitempty"`
	Degraded  bool           `json:"degraded,omitempty"`
	QueryTime int64          `json:"query_time_ms"`
	Message   string         `json:"message"`
}
