// Package suggest asks a generative text service for sticky-note content
// about a topic.
//
// The board never depends on this package. Callers obtain a Response and
// hand its Content to the engine's AddNote.
package suggest

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrInvalidRequest is returned when a request fails validation.
	ErrInvalidRequest = errors.New("invalid suggestion request")
	// ErrInvalidResponse is returned when the service reply has no usable content.
	ErrInvalidResponse = errors.New("invalid suggestion response")
	// ErrService wraps transport failures and non-success replies.
	ErrService = errors.New("suggestion service failure")
)

// Request asks for content about Topic.
type Request struct {
	Topic string `json:"topic"`
}

// Validate rejects blank topics.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return ErrInvalidRequest
	}
	return nil
}

// Response carries the generated note content.
type Response struct {
	Content string `json:"content"`
}

// Validate rejects empty content.
func (r Response) Validate() error {
	if r.Content == "" {
		return ErrInvalidResponse
	}
	return nil
}

// Generator produces note content for a topic.
type Generator interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// Func adapts a plain function to Generator. Validation still applies.
type Func func(ctx context.Context, topic string) (string, error)

// Generate implements Generator.
func (f Func) Generate(ctx context.Context, req Request) (Response, error) {
	if err := req.Validate(); err != nil {
		return Response{}, err
	}
	content, err := f(ctx, req.Topic)
	if err != nil {
		return Response{}, err
	}
	resp := Response{Content: content}
	return resp, resp.Validate()
}
