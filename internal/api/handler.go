package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/apiqa/testforge/internal/generator"
	"github.com/apiqa/testforge/internal/models"
	"github.com/apiqa/testforge/internal/parser"
	"github.com/apiqa/testforge/internal/stats"
	"github.com/apiqa/testforge/internal/storage"
	"github.com/apiqa/testforge/internal/tracing"
)

// Handler handles API requests
type Handler struct {
	normalizer     *parser.Normalizer
	client         *generator.Client
	store          storage.Storage
	statsCollector *stats.Collector
	tracingService *tracing.Service
}

// NewHandler creates a new API handler
func NewHandler(client *generator.Client, store storage.Storage, statsCollector *stats.Collector, tracingService *tracing.Service) *Handler {
	return &Handler{
		normalizer:     parser.NewNormalizer(),
		client:         client,
		store:          store,
		statsCollector: statsCollector,
		tracingService: tracingService,
	}
}

// SpecInput carries the OpenAPI document to generate tests for, either as a
// decoded JSON object or as raw YAML/JSON text.
type SpecInput struct {
	OpenAPISpec map[string]interface{} `json:"openapi_spec"`
	Content     string                 `json:"content"`
}

// GenerateResponse is the envelope returned by GenerateTests.
type GenerateResponse struct {
	TestCases interface{} `json:"test_cases"`
	Status    string      `json:"status"`
	Message   string      `json:"message"`
}

// document resolves the input to a decoded spec document.
func (in *SpecInput) document() (map[string]interface{}, error) {
	if len(in.OpenAPISpec) > 0 {
		return in.OpenAPISpec, nil
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, nil
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal([]byte(in.Content), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode spec content: %w", err)
	}
	return doc, nil
}

// GenerateTests generates a test case suite from an OpenAPI specification.
// Input failures are reported to the caller; failures on the provider path
// never are, the client degrades to its mock fallback instead.
func (h *Handler) GenerateTests(c *gin.Context) {
	var input SpecInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.statsCollector.RecordInputError()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := input.document()
	if err != nil {
		h.statsCollector.RecordInputError()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(doc) == 0 {
		h.statsCollector.RecordInputError()
		c.JSON(http.StatusBadRequest, gin.H{"error": "OpenAPI spec is required"})
		return
	}

	log.Printf("Processing OpenAPI specification...")

	normalized := h.normalizer.Normalize(doc)
	if normalized == nil || len(normalized.Endpoints) == 0 {
		h.statsCollector.RecordInputError()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or empty OpenAPI specification"})
		return
	}

	log.Printf("Found %d endpoints", len(normalized.Endpoints))

	startTime := time.Now()
	result := h.client.Generate(c.Request.Context(), normalized)
	duration := time.Since(startTime)

	title, version := specInfo(normalized)
	suiteID := h.archiveSuite(result, title, version, len(normalized.Endpoints))

	h.statsCollector.RecordGeneration(title, result.Source, result.Detail, len(normalized.Endpoints), duration)
	h.tracingService.Record(&models.Trace{
		Timestamp:     startTime,
		Duration:      duration.Nanoseconds(),
		SpecTitle:     title,
		EndpointCount: len(normalized.Endpoints),
		Source:        result.Source,
		PromptBytes:   result.PromptBytes,
		SuiteID:       suiteID,
		Detail:        result.Detail,
	})

	c.JSON(http.StatusOK, GenerateResponse{
		TestCases: result.Suite,
		Status:    "success",
		Message:   fmt.Sprintf("Generated test cases for %d endpoints", len(normalized.Endpoints)),
	})
}

// archiveSuite records the generated suite in the archive. Archive failures
// are logged but never fail the generation request.
func (h *Handler) archiveSuite(result *generator.Result, title, version string, endpointCount int) string {
	raw, err := json.Marshal(result.Suite)
	if err != nil {
		log.Printf("Failed to serialize suite for archive: %v", err)
		return ""
	}

	record := &models.SuiteRecord{
		ID:            uuid.New().String(),
		SpecTitle:     title,
		SpecVersion:   version,
		EndpointCount: endpointCount,
		Source:        result.Source,
		CreatedAt:     time.Now(),
		Suite:         raw,
	}

	if err := h.store.SaveSuite(record); err != nil {
		log.Printf("Failed to archive suite: %v", err)
		return ""
	}

	return record.ID
}

// specInfo extracts the document title and version for traces and archive
// records.
func specInfo(spec *models.NormalizedSpec) (title, version string) {
	if t, ok := spec.Info["title"].(string); ok {
		title = t
	}
	if v, ok := spec.Info["version"].(string); ok {
		version = v
	}
	return title, version
}

// ValidateSpec runs strict OpenAPI 3 validation against the submitted
// document. Advisory only; generation accepts documents this rejects.
func (h *Handler) ValidateSpec(c *gin.Context) {
	var input SpecInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var content []byte
	if strings.TrimSpace(input.Content) != "" {
		content = []byte(input.Content)
	} else if len(input.OpenAPISpec) > 0 {
		data, err := json.Marshal(input.OpenAPISpec)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		content = data
	} else {
		c.JSON(http.StatusBadRequest, gin.H{"error": "OpenAPI spec is required"})
		return
	}

	c.JSON(http.StatusOK, parser.ValidateDocument(content))
}

// TestProvider sends a trivial prompt to the generation provider and echoes
// the raw outcome. Connectivity diagnostics only.
func (h *Handler) TestProvider(c *gin.Context) {
	diag, err := h.client.TestConnection(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, diag)
}

// ListSuites returns summaries of archived suites
func (h *Handler) ListSuites(c *gin.Context) {
	records, err := h.store.ListSuites()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	summaries := make([]models.SuiteSummary, len(records))
	for i, record := range records {
		summaries[i] = record.Summary()
	}

	c.JSON(http.StatusOK, summaries)
}

// GetSuite returns a single archived suite
func (h *Handler) GetSuite(c *gin.Context) {
	id := c.Param("id")

	record, err := h.store.GetSuite(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Suite not found"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// DeleteSuite deletes an archived suite
func (h *Handler) DeleteSuite(c *gin.Context) {
	id := c.Param("id")

	if err := h.store.DeleteSuite(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Suite not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Suite deleted"})
}

// ListTraces returns generation traces
func (h *Handler) ListTraces(c *gin.Context) {
	filter := &models.TraceFilter{
		Limit: 100, // Default limit
	}

	if source := c.Query("source"); source != "" {
		filter.Source = source
	}
	if title := c.Query("specTitle"); title != "" {
		filter.SpecTitle = title
	}
	if limit := c.Query("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			filter.Limit = n
		}
	}

	traces := h.tracingService.GetTraces(filter)
	c.JSON(http.StatusOK, traces)
}

// GetTrace returns a single trace
func (h *Handler) GetTrace(c *gin.Context) {
	id := c.Param("id")

	trace := h.tracingService.GetTrace(id)
	if trace == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trace not found"})
		return
	}

	c.JSON(http.StatusOK, trace)
}

// ClearTraces clears all traces
func (h *Handler) ClearTraces(c *gin.Context) {
	h.tracingService.ClearTraces()
	c.JSON(http.StatusOK, gin.H{"message": "Traces cleared"})
}

// GetStats returns global generation statistics
func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.statsCollector.GetGlobalStats())
}

// ResetStats resets all statistics
func (h *Handler) ResetStats(c *gin.Context) {
	h.statsCollector.Reset()
	c.JSON(http.StatusOK, gin.H{"message": "Statistics reset"})
}

// HealthCheck returns health status
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "testforge",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
