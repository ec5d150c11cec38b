package models

import (
	"time"
)

// Suite sources recorded in traces and archive records.
const (
	SourceModel = "model"
	SourceMock  = "mock"
)

// Trace captures one generation request end to end.
type Trace struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Duration      int64     `json:"duration"` // Duration in nanoseconds
	SpecTitle     string    `json:"specTitle"`
	EndpointCount int       `json:"endpointCount"`
	Source        string    `json:"source"` // "model" or "mock"
	PromptBytes   int       `json:"promptBytes"`
	SuiteID       string    `json:"suiteId,omitempty"`
	Detail        string    `json:"detail,omitempty"` // Why the mock fallback was taken, if it was
}

// TraceFilter represents filters for querying traces
type TraceFilter struct {
	Source    string    `json:"source,omitempty"`
	SpecTitle string    `json:"specTitle,omitempty"`
	StartTime time.Time `json:"startTime,omitempty"`
	EndTime   time.Time `json:"endTime,omitempty"`
	Limit     int       `json:"limit,omitempty"`
}
