package prompt

import (
	"strings"
	"testing"

	"github.com/apiqa/testforge/internal/models"
)

func TestBuild_ContainsSpecAndInstructions(t *testing.T) {
	spec := &models.NormalizedSpec{
		Info: map[string]interface{}{"title": "Pet Store", "version": "1.0.0"},
		Endpoints: []models.Endpoint{
			{Path: "/pets/{id}", Method: "GET", OperationID: "getPet"},
		},
	}

	text, err := Build(spec)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.Contains(text, "QA Automation Engineer") {
		t.Error("Expected instructional preamble")
	}
	if !strings.Contains(text, `"Pet Store"`) {
		t.Error("Expected spec info to be embedded")
	}
	if !strings.Contains(text, "/pets/{id}") {
		t.Error("Expected endpoint path to be embedded")
	}
	if !strings.Contains(text, "'Positive', 'Negative', 'Boundary', 'DataValidation', 'Security', 'Authentication'") {
		t.Error("Expected category taxonomy in the prompt")
	}
	if !strings.HasSuffix(strings.TrimSpace(text), "}") && !strings.Contains(text, "Now, generate the test cases") {
		t.Error("Expected the spec to close the prompt")
	}
}

func TestBuild_Deterministic(t *testing.T) {
	spec := &models.NormalizedSpec{
		Info: map[string]interface{}{"title": "API"},
		Endpoints: []models.Endpoint{
			{Path: "/a", Method: "GET"},
			{Path: "/b", Method: "POST"},
		},
	}

	a, err := Build(spec)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	b, err := Build(spec)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if a != b {
		t.Error("Expected identical prompts for identical specs")
	}
}

func TestBuild_EmptyEndpoints(t *testing.T) {
	text, err := Build(&models.NormalizedSpec{Endpoints: []models.Endpoint{}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(text, `"endpoints": []`) {
		t.Error("Expected empty endpoints array in serialized spec")
	}
}
