package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ielts-tools/rater-api/pkg/llm"
)

func TestOllamaGeneratorReturnsCompletion(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"message": map[string]string{"role": "assistant", "content": "  {\"overall_score\": 7}  "},
		})
	}))
	defer server.Close()

	generator := llm.NewOllamaGenerator(llm.OllamaConfig{BaseURL: server.URL, Logger: zerolog.Nop()})

	reply, err := generator.Generate(context.Background(), "score this essay")
	require.NoError(t, err)
	require.Equal(t, `{"overall_score": 7}`, reply)
	require.Equal(t, "/api/chat", gotPath)
	require.Equal(t, "llama3.2", gotBody["model"])
	require.Equal(t, false, gotBody["stream"])

	messages, ok := gotBody["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 1)
	turn := messages[0].(map[string]interface{})
	require.Equal(t, "user", turn["role"])
	require.Equal(t, "score this essay", turn["content"])
}

func TestOllamaGeneratorWrapsBackendFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	generator := llm.NewOllamaGenerator(llm.OllamaConfig{BaseURL: server.URL, Logger: zerolog.Nop()})

	_, err := generator.Generate(context.Background(), "prompt")
	var upstream *llm.UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Contains(t, upstream.Error(), "model not loaded")
}

func TestOllamaGeneratorWrapsConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	generator := llm.NewOllamaGenerator(llm.OllamaConfig{BaseURL: server.URL, Logger: zerolog.Nop()})

	_, err := generator.Generate(context.Background(), "prompt")
	var upstream *llm.UpstreamError
	require.ErrorAs(t, err, &upstream)
}
