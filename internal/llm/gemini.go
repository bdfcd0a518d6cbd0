package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiGenerator calls the Gemini API and asks for a JSON reply.
type GeminiGenerator struct {
	client            *genai.Client
	model             string
	systemInstruction string
}

// NewGeminiGenerator creates a generator for the given API key and model.
func NewGeminiGenerator(ctx context.Context, apiKey, model, systemInstruction string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiGenerator{
		client:            client,
		model:             model,
		systemInstruction: systemInstruction,
	}, nil
}

// Generate sends prompt and returns the model's text.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   analysisSchema,
		Temperature:      genai.Ptr[float32](0.4),
	}
	if g.systemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(g.systemInstruction, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("GenAI returned empty content")
	}
	return text, nil
}

var percent = &genai.Schema{Type: genai.TypeInteger, Minimum: genai.Ptr[float64](0), Maximum: genai.Ptr[float64](100)}

var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"score": percent,
		"risk":  {Type: genai.TypeString, Enum: []string{"Low", "Medium", "High"}},
		"metrics": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"focus":        percent,
				"stress":       percent,
				"satisfaction": percent,
			},
			Required: []string{"focus", "stress", "satisfaction"},
		},
		"summary": {Type: genai.TypeString},
		"recommendations": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"score", "risk", "metrics", "summary", "recommendations"},
}
