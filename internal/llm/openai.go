package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// CompatGenerator calls an OpenAI-compatible chat completions endpoint
// (Ollama, LM Studio, vLLM).
type CompatGenerator struct {
	url               string
	model             string
	apiKey            string
	systemInstruction string
	client            *http.Client
}

func NewCompatGenerator(url, model, apiKey, systemInstruction string) *CompatGenerator {
	return &CompatGenerator{
		url:               strings.TrimRight(url, "/"),
		model:             model,
		apiKey:            apiKey,
		systemInstruction: systemInstruction,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (g *CompatGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if g.systemInstruction != "" {
		messages = append(messages, chatMessage{Role: "system", Content: g.systemInstruction})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	body, err := json.Marshal(chatRequest{Model: g.model, Messages: messages, Temperature: 0})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("LLM request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("LLM returned status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode LLM response: %w", err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("LLM returned empty content")
	}
	return out.Choices[0].Message.Content, nil
}
