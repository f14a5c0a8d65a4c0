package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// AssistantService is a thin pass-through to an OpenAI-compatible
// chat-completions endpoint. No conversation state is kept server-side.
type AssistantService struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

func NewAssistantService(baseURL, apiKey, model string) *AssistantService {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &AssistantService{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

var ErrAssistantUnavailable = errors.New("assistant not configured or upstream failed")

const systemPrompt = "You are the CollegeCart helper, a concise assistant for a campus " +
	"second-hand marketplace. Answer questions about listing items, cart, checkout, " +
	"OTP delivery handshakes and reviews."

func (s *AssistantService) Ask(ctx context.Context, message string) (string, error) {
	if s.APIKey == "" {
		return "", ErrAssistantUnavailable
	}

	body := map[string]any{
		"model": s.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": message},
		},
		"max_tokens": 512,
	}
	b, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.BaseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.APIKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssistantUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("%w: upstream %d: %s", ErrAssistantUnavailable, resp.StatusCode, raw)
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrAssistantUnavailable)
	}
	return out.Choices[0].Message.Content, nil
}
