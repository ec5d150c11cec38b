package models

// Test case categories the generation prompt mandates. The model is asked to
// use exactly these values; the mock fallback uses Positive and
// Authentication.
const (
	CategoryPositive       = "Positive"
	CategoryNegative       = "Negative"
	CategoryBoundary       = "Boundary"
	CategoryDataValidation = "DataValidation"
	CategorySecurity       = "Security"
	CategoryAuthentication = "Authentication"
)

// EndpointTestGroup is the per-endpoint element of a generated suite. This is
// the shape the prompt instructs the model to produce; model output is passed
// through as parsed JSON without being forced into this struct, so the type is
// only constructed directly by the mock fallback.
type EndpointTestGroup struct {
	Endpoint    string     `json:"endpoint"`
	Method      string     `json:"method"`
	Summary     string     `json:"summary"`
	OperationID string     `json:"operationId"`
	TestCases   []TestCase `json:"testCases"`
}

// TestCase is a single generated test case.
type TestCase struct {
	TestID           string           `json:"testId"`
	Description      string           `json:"description"`
	Category         string           `json:"category"`
	Request          TestRequest      `json:"request"`
	ExpectedResponse ExpectedResponse `json:"expectedResponse"`
}

// TestRequest describes the request to issue.
type TestRequest struct {
	PathParams  map[string]interface{} `json:"pathParams"`
	QueryParams map[string]interface{} `json:"queryParams"`
	Headers     map[string]interface{} `json:"headers"`
	Body        map[string]interface{} `json:"body"`
}

// ExpectedResponse describes the expected outcome.
type ExpectedResponse struct {
	StatusCode   int                    `json:"statusCode"`
	BodyContract map[string]interface{} `json:"bodyContract"`
	Headers      map[string]interface{} `json:"headers"`
}
