package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/apiqa/testforge/internal/models"
	"github.com/apiqa/testforge/internal/prompt"
)

// DefaultProviderURL is the generation endpoint used when none is configured.
const DefaultProviderURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash-exp:generateContent"

// placeholderKey is the shipped default credential; it marks the client as
// unconfigured just like an empty value.
const placeholderKey = "your-api-key-here"

// candidateTextPath locates the generated text in the provider's response
// envelope.
const candidateTextPath = "candidates.0.content.parts.0.text"

// Config carries the provider settings injected into the client at
// construction. Nothing here is read from ambient process state.
type Config struct {
	APIKey          string
	URL             string
	Temperature     float64
	MaxOutputTokens int
	Timeout         time.Duration
	TestTimeout     time.Duration
}

// Client calls the remote generation provider and degrades to the mock
// fallback on every failure. It holds no per-request state and is safe for
// concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a generation client with defaults applied for any unset
// config values.
func NewClient(cfg Config) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultProviderURL
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	}
	if cfg.MaxOutputTokens == 0 {
		cfg.MaxOutputTokens = 8192
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.TestTimeout == 0 {
		cfg.TestTimeout = 30 * time.Second
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
	}
}

// Configured reports whether a real credential is available. Without one the
// client never issues network calls and always serves the mock fallback.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != "" && c.cfg.APIKey != placeholderKey
}

// Result is the outcome of one generation. Suite is either the parsed model
// output, passed through unmodified, or the full mock suite; never a mix.
type Result struct {
	Suite       interface{}
	Source      string // models.SourceModel or models.SourceMock
	Detail      string // reason the mock fallback was taken, empty for model output
	PromptBytes int    // size of the rendered prompt, 0 when it never got built
}

// Generate produces a test suite for the normalized spec. It never fails
// outward: every error on the provider path is logged and degrades to the
// mock fallback, regardless of cause.
func (c *Client) Generate(ctx context.Context, spec *models.NormalizedSpec) (result *Result) {
	promptBytes := 0
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Unexpected error calling generation provider: %v", r)
			result = c.fallback(spec, fmt.Sprintf("unexpected error: %v", r))
		}
		if result != nil {
			result.PromptBytes = promptBytes
		}
	}()

	promptText, err := prompt.Build(spec)
	if err != nil {
		log.Printf("Failed to build generation prompt: %v", err)
		return c.fallback(spec, "prompt build failed")
	}
	promptBytes = len(promptText)

	if !c.Configured() {
		log.Printf("Warning: generation credential not configured, using mock suite")
		return c.fallback(spec, "credential not configured")
	}

	status, body, err := c.post(ctx, promptText, c.cfg.Temperature, c.cfg.MaxOutputTokens, c.cfg.Timeout)
	if err != nil {
		log.Printf("Generation provider request failed: %v", err)
		return c.fallback(spec, "provider request failed")
	}

	if status != http.StatusOK {
		log.Printf("Generation provider error: %d - %s", status, body)
		return c.fallback(spec, fmt.Sprintf("provider returned status %d", status))
	}

	text := gjson.GetBytes(body, candidateTextPath)
	if !text.Exists() {
		log.Printf("No candidates in generation provider response")
		return c.fallback(spec, "no candidates in provider response")
	}

	generated := strings.TrimSpace(text.String())
	cleaned := CleanModelText(generated)

	var suite interface{}
	if err := json.Unmarshal([]byte(cleaned), &suite); err != nil {
		log.Printf("Failed to parse generated JSON: %v", err)
		log.Printf("Raw response: %s", generated)
		return c.fallback(spec, "unparseable model output")
	}

	return &Result{Suite: suite, Source: models.SourceModel}
}

// fallback builds the deterministic mock result.
func (c *Client) fallback(spec *models.NormalizedSpec, detail string) *Result {
	log.Printf("Generating mock test cases...")
	return &Result{
		Suite:  MockSuite(spec.Endpoints),
		Source: models.SourceMock,
		Detail: detail,
	}
}

// Diagnostic is the raw outcome of a connectivity test call.
type Diagnostic struct {
	StatusCode int         `json:"status_code"`
	Response   interface{} `json:"response"`
}

// TestConnection sends a trivial fixed prompt to the provider and echoes the
// raw status and body. Used for connectivity checks only.
func (c *Client) TestConnection(ctx context.Context) (*Diagnostic, error) {
	if !c.Configured() {
		return nil, errors.New("generation credential not configured")
	}

	status, body, err := c.post(ctx, `Return only this JSON: {"test": "hello world"}`, 0.1, 100, c.cfg.TestTimeout)
	if err != nil {
		return nil, err
	}

	var parsed interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		parsed = string(body)
	}

	return &Diagnostic{StatusCode: status, Response: parsed}, nil
}

type generateRequest struct {
	Contents         []requestContent `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMIMEType string  `json:"responseMimeType"`
}

// post issues the single bounded provider call. No retries; a timeout is
// treated like any other failure by the caller.
func (c *Client) post(ctx context.Context, promptText string, temperature float64, maxTokens int, timeout time.Duration) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload := generateRequest{
		Contents: []requestContent{
			{Parts: []requestPart{{Text: promptText}}},
		},
		GenerationConfig: generationConfig{
			Temperature:      temperature,
			MaxOutputTokens:  maxTokens,
			ResponseMIMEType: "application/json",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to encode provider request: %w", err)
	}

	endpoint := c.cfg.URL + "?key=" + url.QueryEscape(c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}

	return resp.StatusCode, data, nil
}
