package parser

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/apiqa/testforge/internal/models"
)

// Normalizer flattens raw OpenAPI documents into the uniform endpoint list
// the generation pipeline consumes. It is deliberately lenient: it works on
// the raw decoded document, drops anything it does not recognize without
// error, and never propagates a failure to the caller.
type Normalizer struct{}

// NewNormalizer creates a new spec normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// recognizedMethods is the fixed iteration order for operations within a path
// item. Go maps do not preserve document order, so paths are walked in sorted
// order and methods in this order to keep the endpoint list deterministic.
var recognizedMethods = []string{"get", "post", "put", "patch", "delete", "head", "options"}

// operationIDReplacer builds synthesized operation IDs from path patterns.
var operationIDReplacer = strings.NewReplacer("/", "_", "{", "_", "}", "_")

// Normalize flattens a raw OpenAPI/Swagger document. An empty or missing
// paths mapping yields zero endpoints, which is not an error here; whether
// that constitutes an invalid spec is the caller's decision. Any internal
// failure is recovered, logged and reported as a nil result.
func (n *Normalizer) Normalize(doc map[string]interface{}) (spec *models.NormalizedSpec) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Error normalizing OpenAPI spec: %v", r)
			spec = nil
		}
	}()

	if len(doc) == 0 {
		return nil
	}

	spec = &models.NormalizedSpec{
		Info:      asMap(doc["info"]),
		Servers:   asSlice(doc["servers"]),
		Endpoints: make([]models.Endpoint, 0),
	}

	paths := asMap(doc["paths"])
	pathKeys := make([]string, 0, len(paths))
	for p := range paths {
		pathKeys = append(pathKeys, p)
	}
	sort.Strings(pathKeys)

	for _, path := range pathKeys {
		pathItem := asMap(paths[path])
		if pathItem == nil {
			continue
		}

		for _, method := range recognizedMethods {
			var op map[string]interface{}
			for key, value := range pathItem {
				if strings.EqualFold(key, method) {
					op = asMap(value)
					break
				}
			}
			if op == nil {
				continue
			}

			endpoint := models.Endpoint{
				Path:        path,
				Method:      strings.ToUpper(method),
				OperationID: operationID(op, method, path),
				Summary:     asString(op["summary"]),
				Description: asString(op["description"]),
				Parameters:  extractParameters(op),
				RequestBody: extractRequestBody(op),
				Responses:   extractResponses(op),
				Tags:        asStringSlice(op["tags"]),
			}
			spec.Endpoints = append(spec.Endpoints, endpoint)
		}
	}

	log.Printf("Normalized OpenAPI spec: %d endpoints found", len(spec.Endpoints))
	return spec
}

// operationID returns the declared operationId, or synthesizes one from the
// method and path so it is never empty.
func operationID(op map[string]interface{}, method, path string) string {
	if id := asString(op["operationId"]); id != "" {
		return id
	}
	return fmt.Sprintf("%s_%s", strings.ToLower(method), operationIDReplacer.Replace(path))
}

// extractParameters buckets operation parameters by location. A missing "in"
// defaults to query; an unrecognized one drops the parameter.
func extractParameters(op map[string]interface{}) models.ParameterSet {
	set := models.ParameterSet{
		Path:   make(map[string]models.ParameterInfo),
		Query:  make(map[string]models.ParameterInfo),
		Header: make(map[string]models.ParameterInfo),
		Cookie: make(map[string]models.ParameterInfo),
	}
	buckets := map[string]map[string]models.ParameterInfo{
		"path":   set.Path,
		"query":  set.Query,
		"header": set.Header,
		"cookie": set.Cookie,
	}

	for _, raw := range asSlice(op["parameters"]) {
		param := asMap(raw)
		if param == nil {
			continue
		}

		location := asString(param["in"])
		if location == "" {
			location = "query"
		}
		name := asString(param["name"])
		if name == "" {
			name = "unknown"
		}

		schema := asMap(param["schema"])
		info := models.ParameterInfo{
			Type:        asString(schema["type"]),
			Required:    asBool(param["required"]),
			Description: asString(param["description"]),
			Example:     param["example"],
			Schema:      schema,
		}
		if info.Type == "" {
			info.Type = "string"
		}
		if info.Schema == nil {
			info.Schema = map[string]interface{}{}
		}

		if bucket, ok := buckets[location]; ok {
			bucket[name] = info
		}
	}

	return set
}

// bodyContentTypes is the fixed priority order for request body content.
// First match wins, regardless of the order of declaration.
var bodyContentTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// extractRequestBody retains a single content type from the declared request
// body, or the zero value when no body is declared or no content type
// matches.
func extractRequestBody(op map[string]interface{}) models.RequestBodySpec {
	requestBody := asMap(op["requestBody"])
	if len(requestBody) == 0 {
		return models.RequestBodySpec{}
	}

	content := asMap(requestBody["content"])
	for _, contentType := range bodyContentTypes {
		media := asMap(content[contentType])
		if media == nil {
			continue
		}
		schema := asMap(media["schema"])
		if schema == nil {
			schema = map[string]interface{}{}
		}
		return models.RequestBodySpec{
			ContentType: contentType,
			Required:    asBool(requestBody["required"]),
			Schema:      schema,
			Description: asString(requestBody["description"]),
		}
	}

	return models.RequestBodySpec{}
}

// extractResponses copies response declarations per status code, preserving
// the nested content/schema/example fields.
func extractResponses(op map[string]interface{}) map[string]models.ResponseSpec {
	responses := make(map[string]models.ResponseSpec)

	for statusCode, raw := range asMap(op["responses"]) {
		responseInfo := asMap(raw)
		if responseInfo == nil {
			continue
		}

		headers := asMap(responseInfo["headers"])
		if headers == nil {
			headers = map[string]interface{}{}
		}
		spec := models.ResponseSpec{
			Description: asString(responseInfo["description"]),
			Headers:     headers,
			Content:     make(map[string]models.ResponseContent),
		}

		for contentType, contentRaw := range asMap(responseInfo["content"]) {
			contentInfo := asMap(contentRaw)
			if contentInfo == nil {
				continue
			}
			schema := asMap(contentInfo["schema"])
			if schema == nil {
				schema = map[string]interface{}{}
			}
			spec.Content[contentType] = models.ResponseContent{
				Schema:  schema,
				Example: contentInfo["example"],
			}
		}

		responses[statusCode] = spec
	}

	return responses
}

func asMap(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

func asSlice(v interface{}) []interface{} {
	s, _ := v.([]interface{})
	return s
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

func asStringSlice(v interface{}) []string {
	raw := asSlice(v)
	result := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}
