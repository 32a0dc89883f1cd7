// Package ai is the gateway to the generative model that produces DNA
// reports and assistant answers.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

var (
	// ErrEmptyResponse is returned when the model answers with no text
	ErrEmptyResponse = errors.New("empty response from model")

	// ErrPromptBlocked is returned when the model refuses the prompt.
	// Sending the same prompt again gets the same answer.
	ErrPromptBlocked = errors.New("prompt blocked by model")
)

// Request is a single prompt sent to a Generator
type Request struct {
	System string
	Prompt string
	// JSON asks the model for a JSON-only response
	JSON bool
}

// Generator turns a prompt into model text
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GenAIGenerator calls Gemini through google.golang.org/genai
type GenAIGenerator struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGenAIGenerator creates a Gemini-backed generator
func NewGenAIGenerator(ctx context.Context, apiKey, model string) (*GenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIGenerator{
		client:      client,
		model:       model,
		temperature: 0.4,
	}, nil
}

// Model returns the configured model name
func (g *GenAIGenerator) Model() string {
	return g.model
}

// Generate sends the prompt and returns the response text
func (g *GenAIGenerator) Generate(ctx context.Context, req Request) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return "", fmt.Errorf("%w: %s", ErrPromptBlocked, fb.BlockReason)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
