package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/apiqa/testforge/internal/generator"
	"github.com/apiqa/testforge/internal/models"
	"github.com/apiqa/testforge/internal/stats"
	"github.com/apiqa/testforge/internal/storage"
	"github.com/apiqa/testforge/internal/tracing"
)

func setupTestHandler(t *testing.T, client *generator.Client) (*Handler, storage.Storage, *tracing.Service, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if client == nil {
		client = generator.NewClient(generator.Config{})
	}

	store := storage.NewMemoryStorage()
	collector := stats.NewCollector()
	tracingSvc := tracing.NewService(100)

	handler := NewHandler(client, store, collector, tracingSvc)

	r := gin.New()
	return handler, store, tracingSvc, r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}

	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func petstoreDoc() map[string]interface{} {
	return map[string]interface{}{
		"openapi": "3.0.0",
		"info":    map[string]interface{}{"title": "Pet Store", "version": "1.0.0"},
		"paths": map[string]interface{}{
			"/pets": map[string]interface{}{
				"get":  map[string]interface{}{"summary": "List pets", "operationId": "listPets"},
				"post": map[string]interface{}{"summary": "Create pet", "operationId": "createPet"},
			},
		},
	}
}

func TestNewHandler(t *testing.T) {
	handler, _, _, _ := setupTestHandler(t, nil)

	if handler == nil {
		t.Fatal("Expected handler to be created")
	}
	if handler.normalizer == nil {
		t.Error("Expected normalizer to be initialized")
	}
}

func TestGenerateTests_MockFallback(t *testing.T) {
	// Unconfigured client: every generation serves the mock suite.
	handler, store, tracingSvc, r := setupTestHandler(t, nil)
	r.POST("/generate-tests", handler.GenerateTests)

	w := postJSON(t, r, "/generate-tests", map[string]interface{}{"openapi_spec": petstoreDoc()})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp["status"] != "success" {
		t.Errorf("Expected status success, got %v", resp["status"])
	}
	if resp["message"] != "Generated test cases for 2 endpoints" {
		t.Errorf("Unexpected message: %v", resp["message"])
	}

	groups, ok := resp["test_cases"].([]interface{})
	if !ok {
		t.Fatalf("Expected test_cases array, got %T", resp["test_cases"])
	}
	if len(groups) != 2 {
		t.Fatalf("Expected 2 endpoint groups, got %d", len(groups))
	}

	first, _ := groups[0].(map[string]interface{})
	if first["endpoint"] != "/pets" || first["method"] != "GET" {
		t.Errorf("Unexpected first group: %v", first)
	}
	cases, _ := first["testCases"].([]interface{})
	if len(cases) != 2 {
		t.Fatalf("Expected 2 test cases, got %d", len(cases))
	}
	happy, _ := cases[0].(map[string]interface{})
	if happy["testId"] != "TC001_Mock_HappyPath" {
		t.Errorf("Unexpected first test ID: %v", happy["testId"])
	}

	// The suite is archived and the generation traced.
	records, _ := store.ListSuites()
	if len(records) != 1 {
		t.Fatalf("Expected 1 archived suite, got %d", len(records))
	}
	if records[0].Source != models.SourceMock {
		t.Errorf("Expected mock source in archive, got %s", records[0].Source)
	}
	if records[0].SpecTitle != "Pet Store" {
		t.Errorf("Unexpected archived title: %s", records[0].SpecTitle)
	}

	traces := tracingSvc.GetTraces(nil)
	if len(traces) != 1 {
		t.Fatalf("Expected 1 trace, got %d", len(traces))
	}
	if traces[0].Source != models.SourceMock || traces[0].EndpointCount != 2 {
		t.Errorf("Unexpected trace: %+v", traces[0])
	}
}

func TestGenerateTests_YAMLContent(t *testing.T) {
	handler, _, _, r := setupTestHandler(t, nil)
	r.POST("/generate-tests", handler.GenerateTests)

	content := `
openapi: 3.0.0
info:
  title: YAML API
  version: 1.0.0
paths:
  /things:
    get:
      summary: List things
`
	w := postJSON(t, r, "/generate-tests", map[string]interface{}{"content": content})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["message"] != "Generated test cases for 1 endpoints" {
		t.Errorf("Unexpected message: %v", resp["message"])
	}
}

func TestGenerateTests_MissingSpec(t *testing.T) {
	handler, _, _, r := setupTestHandler(t, nil)
	r.POST("/generate-tests", handler.GenerateTests)

	w := postJSON(t, r, "/generate-tests", map[string]interface{}{})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}

	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "OpenAPI spec is required" {
		t.Errorf("Unexpected error: %v", resp["error"])
	}
}

func TestGenerateTests_EmptySpec(t *testing.T) {
	handler, store, _, r := setupTestHandler(t, nil)
	r.POST("/generate-tests", handler.GenerateTests)

	// A document with no operations normalizes to zero endpoints.
	doc := map[string]interface{}{
		"openapi": "3.0.0",
		"info":    map[string]interface{}{"title": "Empty", "version": "1.0.0"},
		"paths":   map[string]interface{}{},
	}
	w := postJSON(t, r, "/generate-tests", map[string]interface{}{"openapi_spec": doc})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}

	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "Invalid or empty OpenAPI specification" {
		t.Errorf("Unexpected error: %v", resp["error"])
	}

	records, _ := store.ListSuites()
	if len(records) != 0 {
		t.Errorf("Expected no archived suites, got %d", len(records))
	}
}

func TestGenerateTests_InvalidBody(t *testing.T) {
	handler, _, _, r := setupTestHandler(t, nil)
	r.POST("/generate-tests", handler.GenerateTests)

	req := httptest.NewRequest("POST", "/generate-tests", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestGenerateTests_ModelRoundTrip(t *testing.T) {
	// The provider's parsed output is returned unmodified, byte-for-byte
	// equivalent after re-serialization.
	suite := `[{"endpoint": "/pets", "method": "GET", "testCases": [{"testId": "TC001_ListPets_HappyPath", "extraField": {"nested": [1, 2, 3]}}]}]`

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []interface{}{
				map[string]interface{}{
					"content": map[string]interface{}{
						"parts": []interface{}{map[string]interface{}{"text": suite}},
					},
				},
			},
		})
	}))
	defer provider.Close()

	client := generator.NewClient(generator.Config{APIKey: "test-key", URL: provider.URL})
	handler, store, _, r := setupTestHandler(t, client)
	r.POST("/generate-tests", handler.GenerateTests)

	w := postJSON(t, r, "/generate-tests", map[string]interface{}{"openapi_spec": petstoreDoc()})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)

	var want interface{}
	json.Unmarshal([]byte(suite), &want)

	got, _ := json.Marshal(resp["test_cases"])
	wantJSON, _ := json.Marshal(want)
	if string(got) != string(wantJSON) {
		t.Errorf("Suite was not passed through unmodified:\n got %s\nwant %s", got, wantJSON)
	}

	records, _ := store.ListSuites()
	if len(records) != 1 || records[0].Source != models.SourceModel {
		t.Errorf("Expected 1 model-sourced archive record, got %+v", records)
	}
}

func TestValidateSpec_Valid(t *testing.T) {
	handler, _, _, r := setupTestHandler(t, nil)
	r.POST("/spec/validate", handler.ValidateSpec)

	content := `
openapi: 3.0.0
info:
  title: Valid API
  version: 1.0.0
paths:
  /items:
    get:
      responses:
        '200':
          description: OK
`
	w := postJSON(t, r, "/spec/validate", map[string]interface{}{"content": content})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	if result["valid"] != true {
		t.Errorf("Expected valid spec, got %v", result)
	}
	if result["title"] != "Valid API" {
		t.Errorf("Unexpected title: %v", result["title"])
	}
}

func TestValidateSpec_Invalid(t *testing.T) {
	handler, _, _, r := setupTestHandler(t, nil)
	r.POST("/spec/validate", handler.ValidateSpec)

	w := postJSON(t, r, "/spec/validate", map[string]interface{}{"content": "openapi: 3.0.0\n"})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	if result["valid"] != false {
		t.Errorf("Expected invalid spec, got %v", result)
	}
}

func TestValidateSpec_MissingInput(t *testing.T) {
	handler, _, _, r := setupTestHandler(t, nil)
	r.POST("/spec/validate", handler.ValidateSpec)

	w := postJSON(t, r, "/spec/validate", map[string]interface{}{})

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestTestProvider_Unconfigured(t *testing.T) {
	handler, _, _, r := setupTestHandler(t, nil)
	r.GET("/provider/test", handler.TestProvider)

	req := httptest.NewRequest("GET", "/provider/test", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] == nil {
		t.Errorf("Expected error field, got %v", resp)
	}
}

func TestSuiteArchive_CRUD(t *testing.T) {
	handler, store, _, r := setupTestHandler(t, nil)
	r.GET("/suites", handler.ListSuites)
	r.GET("/suites/:id", handler.GetSuite)
	r.DELETE("/suites/:id", handler.DeleteSuite)

	record := &models.SuiteRecord{
		ID:            "suite-1",
		SpecTitle:     "Pet Store",
		EndpointCount: 2,
		Source:        models.SourceMock,
		CreatedAt:     time.Now(),
		Suite:         json.RawMessage(`[]`),
	}
	store.SaveSuite(record)

	// List
	req := httptest.NewRequest("GET", "/suites", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var summaries []map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &summaries)
	if len(summaries) != 1 {
		t.Fatalf("Expected 1 summary, got %d", len(summaries))
	}
	if _, hasSuite := summaries[0]["suite"]; hasSuite {
		t.Error("Summaries must not carry the suite body")
	}

	// Get
	req = httptest.NewRequest("GET", "/suites/suite-1", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var got map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &got)
	if got["id"] != "suite-1" {
		t.Errorf("Unexpected record: %v", got)
	}

	// Get missing
	req = httptest.NewRequest("GET", "/suites/nope", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}

	// Delete
	req = httptest.NewRequest("DELETE", "/suites/suite-1", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	// Delete again
	req = httptest.NewRequest("DELETE", "/suites/suite-1", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestListTraces_SourceFilter(t *testing.T) {
	handler, _, tracingSvc, r := setupTestHandler(t, nil)
	r.GET("/traces", handler.ListTraces)

	tracingSvc.Record(&models.Trace{SpecTitle: "A", Source: models.SourceMock})
	tracingSvc.Record(&models.Trace{SpecTitle: "B", Source: models.SourceModel})

	req := httptest.NewRequest("GET", "/traces?source=mock", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var traces []map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &traces)
	if len(traces) != 1 {
		t.Fatalf("Expected 1 trace, got %d", len(traces))
	}
	if traces[0]["specTitle"] != "A" {
		t.Errorf("Unexpected trace: %v", traces[0])
	}
}

func TestStats_Endpoints(t *testing.T) {
	handler, _, _, r := setupTestHandler(t, nil)
	r.POST("/generate-tests", handler.GenerateTests)
	r.GET("/stats", handler.GetStats)
	r.POST("/stats/reset", handler.ResetStats)

	postJSON(t, r, "/generate-tests", map[string]interface{}{"openapi_spec": petstoreDoc()})

	req := httptest.NewRequest("GET", "/stats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var stats map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &stats)
	if stats["totalRequests"] != float64(1) {
		t.Errorf("Expected 1 total request, got %v", stats["totalRequests"])
	}
	if stats["mockSuites"] != float64(1) {
		t.Errorf("Expected 1 mock suite, got %v", stats["mockSuites"])
	}

	// Reset
	req = httptest.NewRequest("POST", "/stats/reset", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/stats", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	json.Unmarshal(w.Body.Bytes(), &stats)
	if stats["totalRequests"] != float64(0) {
		t.Errorf("Expected 0 total requests after reset, got %v", stats["totalRequests"])
	}
}

func TestHealthCheck(t *testing.T) {
	handler, _, _, r := setupTestHandler(t, nil)
	r.GET("/health", handler.HealthCheck)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["status"] != "healthy" {
		t.Errorf("Unexpected health response: %v", resp)
	}
}
