package models

import (
	"time"
)

// GlobalStats represents aggregate generation statistics.
type GlobalStats struct {
	TotalRequests     int64        `json:"totalRequests"`
	ModelSuites       int64        `json:"modelSuites"`
	MockSuites        int64        `json:"mockSuites"`
	InputErrors       int64        `json:"inputErrors"`
	TotalEndpoints    int64        `json:"totalEndpoints"`
	AvgGenerationMs   float64      `json:"avgGenerationMs"`
	RequestsPerSecond float64      `json:"requestsPerSecond"`
	StartTime         time.Time    `json:"startTime"`
	Uptime            string       `json:"uptime"`
	RecentFallbacks   []ErrorStat  `json:"recentFallbacks"`
	RequestsByHour    []HourlyStat `json:"requestsByHour"`
}

// ErrorStat records one degradation to the mock fallback.
type ErrorStat struct {
	Timestamp time.Time `json:"timestamp"`
	SpecTitle string    `json:"specTitle"`
	Detail    string    `json:"detail"`
}

// HourlyStat represents hourly request statistics
type HourlyStat struct {
	Hour     string `json:"hour"`
	Requests int64  `json:"requests"`
	Mocked   int64  `json:"mocked"`
}
