// Package clarify rewrites free-form line item descriptions into clearer,
// more standardized wording using a generative model. Model failures are
// reported inside the Result, never as transport errors.
package clarify

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Clarifier suggests a clearer alternative for a line item description.
type Clarifier interface {
	Clarify(ctx context.Context, itemDescription string) (string, error)
}

// Result is the wire shape returned to clients. Exactly one of
// ClarifiedDescription and Error is set, depending on Success.
type Result struct {
	Success              bool   `json:"success"`
	ClarifiedDescription string `json:"clarifiedDescription,omitempty"`
	Error                string `json:"error,omitempty"`
}

// Run invokes the clarifier and folds the outcome into a Result.
func Run(ctx context.Context, c Clarifier, itemDescription string) Result {
	if strings.TrimSpace(itemDescription) == "" {
		return Result{Success: false, Error: "item description is empty"}
	}
	clarified, err := c.Clarify(ctx, itemDescription)
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}
	return Result{Success: true, ClarifiedDescription: clarified}
}

// Gemini is a Clarifier backed by the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

func (g *Gemini) Clarify(ctx context.Context, itemDescription string) (string, error) {
	model := g.client.GenerativeModel(g.model)

	resp, err := model.GenerateContent(ctx, genai.Text(BuildPrompt(itemDescription)))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("model returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	clarified := strings.TrimSpace(sb.String())
	if clarified == "" {
		return "", fmt.Errorf("model returned empty text")
	}
	return clarified, nil
}

// BuildPrompt renders the instruction sent to the model.
func BuildPrompt(itemDescription string) string {
	return fmt.Sprintf(
		"You are helping a small business write professional invoices. "+
			"Given the following invoice line item description, suggest a clearer "+
			"and more standardized alternative. Reply with the improved description "+
			"only, no preamble and no quotes.\n\nDescription: %s",
		itemDescription,
	)
}
