package models

import "encoding/json"

// DetailsJobState mirrors the remote computation states of the carrier API.
type DetailsJobState string

const (
	DetailsJobPending  DetailsJobState = "pending"
	DetailsJobFinished DetailsJobState = "finished"
	DetailsJobError    DetailsJobState = "error"
)

// DetailsJob is the ephemeral view of one remote seat-map computation.
// It lives only for the duration of a single poll loop.
type DetailsJob struct {
	RequestID string
	TripID    string
	State     DetailsJobState
	Attempt   int
	Payload   json.RawMessage
}

// SearchRequest mirrors the carrier search API input.
type SearchRequest struct {
	Origin      string   `json:"origin" binding:"required"`
	Destination string   `json:"destination" binding:"required"`
	Date        string   `json:"date" binding:"required"`
	Passengers  []string `json:"passengers"`
}

// SearchResult is the polled search snapshot returned by the carrier.
type SearchResult struct {
	State     string          `json:"state"`
	Trips     json.RawMessage `json:"trips"`
	Lines     json.RawMessage `json:"lines"`
	Terminals json.RawMessage `json:"terminals"`
}
