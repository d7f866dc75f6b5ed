package models

// MatchResult pairs a matched product with its similarity score and the
// rationale explaining which constraints it satisfied. Results are
// ordered by descending score; ties break on ascending product ID.
type MatchResult struct {
	Product Product `json:"product"`
	Score   float64 `json:"score"`
	Why     string  `json:"why,omitempty"`
}

// ConversationalResult is the outcome of a natural-language ask: the
// assistant reply plus the ranked products it refers to.
type ConversationalResult struct {
	Reply string        `json:"reply"`
	Items []MatchResult `json:"items"`
}
