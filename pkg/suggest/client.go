package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const (
	// DefaultEndpoint is the Gemini API base URL, without the version segment.
	DefaultEndpoint   = "https://generativelanguage.googleapis.com/"
	DefaultAPIVersion = "v1beta"
	DefaultModel      = "gemini-2.0-flash"
)

// Client asks a Gemini model for note content through the genai SDK.
type Client struct {
	models *genai.Models
	model  string
	logger *slog.Logger
}

type clientOptions struct {
	endpoint string
	model    string
	http     *http.Client
	logger   *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*clientOptions)

// WithEndpoint overrides the API base URL.
func WithEndpoint(endpoint string) ClientOption {
	return func(o *clientOptions) {
		if endpoint != "" {
			o.endpoint = strings.TrimRight(endpoint, "/") + "/"
		}
	}
}

// WithModel selects the model name.
func WithModel(model string) ClientOption {
	return func(o *clientOptions) {
		if model != "" {
			o.model = model
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(o *clientOptions) {
		if hc != nil {
			o.http = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(o *clientOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewClient creates a client authenticated with apiKey.
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	o := &clientOptions{
		endpoint: DefaultEndpoint,
		model:    DefaultModel,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: o.http,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    o.endpoint,
			APIVersion: DefaultAPIVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return &Client{models: gc.Models, model: o.model, logger: o.logger}, nil
}

var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"content": {
			Type:        genai.TypeString,
			Description: "The generated content for the sticky note based on the topic.",
		},
	},
	Required: []string{"content"},
}

// Generate implements Generator. It makes exactly one request.
func (c *Client) Generate(ctx context.Context, req Request) (Response, error) {
	if err := req.Validate(); err != nil {
		return Response{}, err
	}

	prompt, err := Prompt(req)
	if err != nil {
		return Response{}, fmt.Errorf("rendering prompt: %w", err)
	}

	c.logger.Debug("requesting suggestion", "model", c.model, "topic", req.Topic)

	out, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
	})
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return Response{}, fmt.Errorf("%w: %w", ErrService, cerr)
		}
		c.logger.Debug("suggestion failed", "model", c.model, "error", err)
		return Response{}, fmt.Errorf("%w: %w", ErrService, err)
	}
	return parseCandidates(out)
}

// parseCandidates extracts the {"content": "..."} object the model was asked
// to return from the first candidate.
func parseCandidates(out *genai.GenerateContentResponse) (Response, error) {
	if out == nil || len(out.Candidates) == 0 || out.Candidates[0].Content == nil ||
		len(out.Candidates[0].Content.Parts) == 0 {
		return Response{}, fmt.Errorf("%w: no candidates", ErrInvalidResponse)
	}

	var text strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		if p != nil {
			text.WriteString(p.Text)
		}
	}

	var r Response
	if err := json.Unmarshal([]byte(text.String()), &r); err != nil {
		return Response{}, fmt.Errorf("%w: model reply is not a content object: %v", ErrInvalidResponse, err)
	}
	if err := r.Validate(); err != nil {
		return Response{}, err
	}
	return r, nil
}
