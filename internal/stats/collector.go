package stats

import (
	"sort"
	"sync"
	"time"

	"github.com/apiqa/testforge/internal/models"
)

// Collector aggregates generation statistics.
type Collector struct {
	mu              sync.RWMutex
	startTime       time.Time
	totalRequests   int64
	modelSuites     int64
	mockSuites      int64
	inputErrors     int64
	totalEndpoints  int64
	totalTimeNs     int64
	recentFallbacks []models.ErrorStat
	hourlyStats     map[string]*hourlyCounter // "YYYY-MM-DD-HH" -> counter
	maxFallbacks    int
	maxHourlySlots  int
}

type hourlyCounter struct {
	Hour     string
	Requests int64
	Mocked   int64
}

// NewCollector creates a new statistics collector
func NewCollector() *Collector {
	return &Collector{
		startTime:       time.Now(),
		recentFallbacks: make([]models.ErrorStat, 0),
		hourlyStats:     make(map[string]*hourlyCounter),
		maxFallbacks:    100,
		maxHourlySlots:  168, // 7 days
	}
}

// RecordGeneration records one completed generation request.
func (c *Collector) RecordGeneration(specTitle, source, detail string, endpointCount int, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalRequests++
	c.totalEndpoints += int64(endpointCount)
	c.totalTimeNs += duration.Nanoseconds()

	mocked := source == models.SourceMock
	if mocked {
		c.mockSuites++
		c.recentFallbacks = append(c.recentFallbacks, models.ErrorStat{
			Timestamp: time.Now(),
			SpecTitle: specTitle,
			Detail:    detail,
		})
		if len(c.recentFallbacks) > c.maxFallbacks {
			c.recentFallbacks = c.recentFallbacks[1:]
		}
	} else {
		c.modelSuites++
	}

	hourKey := time.Now().Format("2006-01-02-15")
	hourly, ok := c.hourlyStats[hourKey]
	if !ok {
		hourly = &hourlyCounter{Hour: hourKey}
		c.hourlyStats[hourKey] = hourly
		c.cleanupOldHourlyStats()
	}
	hourly.Requests++
	if mocked {
		hourly.Mocked++
	}
}

// RecordInputError records a request rejected before the generation path.
func (c *Collector) RecordInputError() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inputErrors++
}

// cleanupOldHourlyStats removes hourly stats older than maxHourlySlots
func (c *Collector) cleanupOldHourlyStats() {
	if len(c.hourlyStats) <= c.maxHourlySlots {
		return
	}

	keys := make([]string, 0, len(c.hourlyStats))
	for k := range c.hourlyStats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	toRemove := len(keys) - c.maxHourlySlots
	for i := 0; i < toRemove; i++ {
		delete(c.hourlyStats, keys[i])
	}
}

// GetGlobalStats returns global statistics
func (c *Collector) GetGlobalStats() *models.GlobalStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var avgGenerationMs float64
	if c.totalRequests > 0 {
		avgGenerationMs = float64(c.totalTimeNs) / float64(c.totalRequests) / 1e6
	}

	uptime := time.Since(c.startTime).Seconds()
	var requestsPerSecond float64
	if uptime > 0 {
		requestsPerSecond = float64(c.totalRequests) / uptime
	}

	fallbacks := make([]models.ErrorStat, len(c.recentFallbacks))
	copy(fallbacks, c.recentFallbacks)

	return &models.GlobalStats{
		TotalRequests:     c.totalRequests,
		ModelSuites:       c.modelSuites,
		MockSuites:        c.mockSuites,
		InputErrors:       c.inputErrors,
		TotalEndpoints:    c.totalEndpoints,
		AvgGenerationMs:   avgGenerationMs,
		RequestsPerSecond: requestsPerSecond,
		StartTime:         c.startTime,
		Uptime:            formatDuration(time.Since(c.startTime)),
		RecentFallbacks:   fallbacks,
		RequestsByHour:    c.buildHourlyStats(),
	}
}

// buildHourlyStats builds the hourly statistics array for the last 24 hours.
func (c *Collector) buildHourlyStats() []models.HourlyStat {
	now := time.Now()
	stats := make([]models.HourlyStat, 0, 24)

	for i := 23; i >= 0; i-- {
		hour := now.Add(-time.Duration(i) * time.Hour)
		hourKey := hour.Format("2006-01-02-15")

		stat := models.HourlyStat{
			Hour: hour.Format("15:00"),
		}

		if hourly, ok := c.hourlyStats[hourKey]; ok {
			stat.Requests = hourly.Requests
			stat.Mocked = hourly.Mocked
		}

		stats = append(stats, stat)
	}

	return stats
}

// Reset resets all statistics
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.startTime = time.Now()
	c.totalRequests = 0
	c.modelSuites = 0
	c.mockSuites = 0
	c.inputErrors = 0
	c.totalEndpoints = 0
	c.totalTimeNs = 0
	c.recentFallbacks = make([]models.ErrorStat, 0)
	c.hourlyStats = make(map[string]*hourlyCounter)
}

// formatDuration formats a duration in a human-readable format
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes()) % 60

	if int(d.Hours()) > 0 {
		return d.Round(time.Minute).String()
	}
	if minutes > 0 {
		return d.Round(time.Second).String()
	}
	return d.Round(time.Millisecond).String()
}
