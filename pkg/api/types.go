package api

import (
	"github.com/dd0wney/cluso-netanalytics/pkg/algorithms"
)

// InfluenceResponse carries the score map and the ranked list. Ranking is
// truncated by the top query parameter; Scores never is.
type InfluenceResponse struct {
	Scores  map[string]float64          `json:"scores"`
	Ranking []algorithms.InfluenceScore `json:"ranking"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}
