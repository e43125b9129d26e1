package models

import "fmt"

// AnalysisMode selects the terminal consumer of ranked context.
type AnalysisMode string

const (
	// ModeLocal produces a deterministic summary of ranked citations without
	// any external call.
	ModeLocal AnalysisMode = "local"
	// ModeExternal sends assembled context plus the scenario to an external
	// text-generation service.
	ModeExternal AnalysisMode = "external"
)

// ScenarioQuery is a free-text legal scenario with retrieval parameters.
type ScenarioQuery struct {
	Scenario string       `json:"scenario"`
	TopK     int          `json:"top_k,omitempty"`
	Mode     AnalysisMode `json:"mode,omitempty"`
}

// Validate ensures the query has a scenario and normalizes parameters.
func (q *ScenarioQuery) Validate() error {
	if q.Scenario == "" {
		return fmt.Errorf("scenario cannot be empty")
	}
	if q.TopK <= 0 {
		q.TopK = 5
	}
	if q.TopK > 50 {
		q.TopK = 50
	}
	if q.Mode == "" {
		q.Mode = ModeLocal
	}
	if q.Mode != ModeLocal && q.Mode != ModeExternal {
		return fmt.Errorf("unknown analysis mode %q", q.Mode)
	}
	return nil
}

// SearchResponse is the response for a retrieval request.
type SearchResponse struct {
	Results   []RankedResult `json:"results"`
	Total     int            `json:"total"`
	QueryTime int64          `json:"query_time_ms"`
	Scenario  string         `json:"scenario"`
}

// AnalysisResult is the typed outcome of a scenario analysis. Mode reports
// which analyzer actually produced Text: when the external service fails the
// engine degrades to the local analyzer and records why in FallbackReason,
// so callers can distinguish "external analysis unavailable" from "external
// analysis returned this text".
type AnalysisResult struct {
	Text           string       `json:"text"`
	Mode           AnalysisMode `json:"mode"`
	FallbackReason string       `json:"fallback_reason,omitempty"`
	Results        []RankedResult `json:"results,omitempty"`
}
