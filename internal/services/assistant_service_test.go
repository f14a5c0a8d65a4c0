package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collegecart/internal/services"
)

func TestAssistantAsk(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body.Model)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Equal(t, "how do I sell my cycle?", body.Messages[1].Content)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "List it under cycles."}},
			},
		})
	}))
	defer upstream.Close()

	svc := services.NewAssistantService(upstream.URL, "sk-test", "gpt-4o-mini")
	reply, err := svc.Ask(context.Background(), "how do I sell my cycle?")
	require.NoError(t, err)
	assert.Equal(t, "List it under cycles.", reply)
}

func TestAssistantAsk_NotConfigured(t *testing.T) {
	svc := services.NewAssistantService("", "", "gpt-4o-mini")
	_, err := svc.Ask(context.Background(), "hello")
	assert.ErrorIs(t, err, services.ErrAssistantUnavailable)
}

func TestAssistantAsk_UpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	svc := services.NewAssistantService(upstream.URL, "sk-test", "gpt-4o-mini")
	_, err := svc.Ask(context.Background(), "hello")
	assert.ErrorIs(t, err, services.ErrAssistantUnavailable)
}

func TestAssistantAsk_EmptyChoices(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer upstream.Close()

	svc := services.NewAssistantService(upstream.URL, "sk-test", "gpt-4o-mini")
	_, err := svc.Ask(context.Background(), "hello")
	assert.ErrorIs(t, err, services.ErrAssistantUnavailable)
}
