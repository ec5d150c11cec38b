package models

// NormalizedSpec is the flattened form of an OpenAPI document that the
// generation pipeline works on. It is built fresh for every request and
// discarded once the response has been written.
type NormalizedSpec struct {
	Info      map[string]interface{} `json:"info"`
	Servers   []interface{}          `json:"servers"`
	Endpoints []Endpoint             `json:"endpoints"`
}

// Endpoint is one (path, method) operation extracted from the document.
type Endpoint struct {
	Path        string                  `json:"path"`
	Method      string                  `json:"method"` // Always uppercase, one of the seven recognized verbs
	OperationID string                  `json:"operationId"`
	Summary     string                  `json:"summary"`
	Description string                  `json:"description"`
	Parameters  ParameterSet            `json:"parameters"`
	RequestBody RequestBodySpec         `json:"requestBody"`
	Responses   map[string]ResponseSpec `json:"responses"`
	Tags        []string                `json:"tags"`
}

// ParameterSet buckets operation parameters by location. Parameters with an
// unrecognized "in" value are dropped during normalization.
type ParameterSet struct {
	Path   map[string]ParameterInfo `json:"path"`
	Query  map[string]ParameterInfo `json:"query"`
	Header map[string]ParameterInfo `json:"header"`
	Cookie map[string]ParameterInfo `json:"cookie"`
}

// ParameterInfo describes a single parameter.
type ParameterInfo struct {
	Type        string                 `json:"type"`
	Required    bool                   `json:"required"`
	Description string                 `json:"description"`
	Example     interface{}            `json:"example"`
	Schema      map[string]interface{} `json:"schema"`
}

// RequestBodySpec describes the retained request body. Only one content type
// survives normalization: first match wins among json, form-urlencoded and
// multipart, in that priority order. The zero value marshals to {} for
// operations without a declared body.
type RequestBodySpec struct {
	ContentType string                 `json:"content_type,omitempty"`
	Required    bool                   `json:"required,omitempty"`
	Schema      map[string]interface{} `json:"schema,omitempty"`
	Description string                 `json:"description,omitempty"`
}

// ResponseSpec describes the declared response for one status code.
type ResponseSpec struct {
	Description string                     `json:"description"`
	Headers     map[string]interface{}     `json:"headers"`
	Content     map[string]ResponseContent `json:"content"`
}

// ResponseContent holds the schema and example for one response content type.
type ResponseContent struct {
	Schema  map[string]interface{} `json:"schema"`
	Example interface{}            `json:"example"`
}
