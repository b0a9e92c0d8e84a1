package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/pharmtrack/pharmtrack-backend/pkg/errors"
)

// Completer produces a model completion for a prompt under a persona. The
// persona sets the assistant's role and constraints; the prompt carries the
// actual question.
type Completer interface {
	Complete(ctx context.Context, persona, prompt string) (string, error)
}

// GeminiCompleter implements Completer against the Gemini API
type GeminiCompleter struct {
	client *genai.Client
	model  string
}

// NewGeminiCompleter creates a Gemini-backed completer
func NewGeminiCompleter(ctx context.Context, apiKey, model string) (*GeminiCompleter, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiCompleter{
		client: client,
		model:  model,
	}, nil
}

// Complete sends the prompt with the persona as system instruction and
// returns the concatenated text of the first candidate.
func (g *GeminiCompleter) Complete(ctx context.Context, persona, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	if persona != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(persona)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", errors.ExternalService("gemini", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.ExternalService("gemini", fmt.Errorf("empty response"))
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", errors.ExternalService("gemini", fmt.Errorf("response contained no text"))
	}

	return out, nil
}

// Close releases the underlying client
func (g *GeminiCompleter) Close() error {
	return g.client.Close()
}
