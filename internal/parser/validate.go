package parser

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// ValidationResult reports the outcome of strict OpenAPI 3 validation.
// Strict validation is advisory only: the generation pipeline itself runs on
// the lenient normalizer and accepts documents this check would reject.
type ValidationResult struct {
	Valid          bool     `json:"valid"`
	Errors         []string `json:"errors"`
	Title          string   `json:"title,omitempty"`
	Version        string   `json:"version,omitempty"`
	PathCount      int      `json:"pathCount"`
	OperationCount int      `json:"operationCount"`
}

// ValidateDocument loads and validates an OpenAPI 3 document (YAML or JSON).
func ValidateDocument(content []byte) *ValidationResult {
	result := &ValidationResult{Errors: make([]string, 0)}

	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true

	doc, err := loader.LoadFromData(content)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	if doc.Info != nil {
		result.Title = doc.Info.Title
		result.Version = doc.Info.Version
	}
	if doc.Paths != nil {
		result.PathCount = doc.Paths.Len()
		for _, pathItem := range doc.Paths.Map() {
			if pathItem == nil {
				continue
			}
			result.OperationCount += len(pathItem.Operations())
		}
	}

	if err := doc.Validate(loader.Context); err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	result.Valid = true
	return result
}
