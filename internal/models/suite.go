package models

import (
	"encoding/json"
	"time"
)

// SuiteRecord is an archived generation result. The archive is write-behind:
// the generation pipeline itself never reads from it.
type SuiteRecord struct {
	ID            string          `json:"id"`
	SpecTitle     string          `json:"specTitle"`
	SpecVersion   string          `json:"specVersion"`
	EndpointCount int             `json:"endpointCount"`
	Source        string          `json:"source"` // "model" or "mock"
	CreatedAt     time.Time       `json:"createdAt"`
	Suite         json.RawMessage `json:"suite"`
}

// SuiteSummary is a lightweight version for listings, without the suite body.
type SuiteSummary struct {
	ID            string    `json:"id"`
	SpecTitle     string    `json:"specTitle"`
	SpecVersion   string    `json:"specVersion"`
	EndpointCount int       `json:"endpointCount"`
	Source        string    `json:"source"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Summary strips the suite body from a record.
func (r *SuiteRecord) Summary() SuiteSummary {
	return SuiteSummary{
		ID:            r.ID,
		SpecTitle:     r.SpecTitle,
		SpecVersion:   r.SpecVersion,
		EndpointCount: r.EndpointCount,
		Source:        r.Source,
		CreatedAt:     r.CreatedAt,
	}
}
