package prompt

import (
	"encoding/json"
	"fmt"

	"github.com/apiqa/testforge/internal/models"
)

// template instructs the model to emit a single strictly valid JSON array in
// the exact suite schema, covering the six mandatory scenario categories.
// The schema here is the contract the rest of the pipeline relies on; change
// it together with the models package.
const template = `You are a meticulous and expert QA Automation Engineer specializing in API testing and security.
Your task is to analyze the provided OpenAPI specification and generate a comprehensive, exhaustive suite of test cases.

The output MUST be a single, strictly valid JSON array. Do not include any explanatory text, markdown formatting like ` + "```json" + `, or anything outside of the JSON structure.

The JSON structure must follow this exact schema for each endpoint in the specification:
[
  {
    "endpoint": "string (e.g., /users/{id})",
    "method": "string (e.g., GET, POST)",
    "summary": "string (from OpenAPI spec)",
    "operationId": "string (from OpenAPI spec)",
    "testCases": [
      {
        "testId": "string (a unique readable ID, e.g., TC001_GetUser_HappyPath)",
        "description": "string (A clear, one-sentence objective for the test case)",
        "category": "string (One of: 'Positive', 'Negative', 'Boundary', 'DataValidation', 'Security', 'Authentication')",
        "request": {
          "pathParams": { "key": "value" },
          "queryParams": { "key": "value" },
          "headers": { "Content-Type": "application/json", "Authorization": "Bearer <VALID_TOKEN>" },
          "body": { /* JSON body or appropriate payload based on the test */ }
        },
        "expectedResponse": {
          "statusCode": "integer (e.g., 200, 400, 404)",
          "bodyContract": { /* A JSON schema, key-value pairs, or a description of the expected response body structure */ },
          "headers": { "key": "value" }
        }
      }
    ]
  }
]

For each endpoint, generate test cases covering ALL of the following scenarios where applicable:

1.  **Positive Scenarios (Happy Path):**
    - Test with all required fields correctly filled.
    - Test with required and optional fields correctly filled.

2.  **Negative Scenarios & Data Validation:**
    - Test with missing required fields (in body, query, path, headers).
    - Test with incorrect data types (e.g., string for a number, number for a boolean).
    - Test with invalid enum values.
    - Test with null values for non-nullable fields.
    - Test with empty strings/arrays for fields that require data.
    - Test with malformed JSON in the request body.

3.  **Boundary Value Analysis (BVA):**
    - For numeric fields: test with minimum, maximum, just below min, and just above max values.
    - For string fields: test with minimum and maximum length, empty string, and a very long string.
    - For arrays: test with empty array, array with one item, and array at max capacity (if defined).

4.  **Authentication & Authorization:**
    - Test without any authentication token.
    - Test with an invalid or expired token.
    - Test with a token that lacks the necessary permissions/scope (simulate 403 Forbidden).

5.  **Security Snippets:**
    - For string parameters, include basic payloads to check for vulnerabilities like SQL Injection (e.g., ` + "`' OR 1=1 --`" + `) and XSS (e.g., ` + "`<script>alert(1)</script>`" + `).

6.  **Error Handling:**
    - Explicitly create tests that should trigger defined error responses (e.g., 400, 404, 409, 422) based on the spec.

Now, generate the test cases for the following OpenAPI Specification:
%s
`

// Build serializes the normalized spec into the instructional template. It is
// pure string formatting; the only failure mode is JSON marshalling.
func Build(spec *models.NormalizedSpec) (string, error) {
	specJSON, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize normalized spec: %w", err)
	}
	return fmt.Sprintf(template, specJSON), nil
}
