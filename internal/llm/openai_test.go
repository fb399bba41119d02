package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAI(url string) *OpenAI {
	c := NewOpenAI("test-key", "gpt-4")
	c.url = url
	return c
}

func TestOpenAIComplete(t *testing.T) {
	var gotReq chatRequest
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "yes"}},
			},
		})
	}))
	defer srv.Close()

	out, err := newTestOpenAI(srv.URL).Complete(context.Background(), "grade this", "is it relevant?", 0)
	require.NoError(t, err)

	assert.Equal(t, "yes", out)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "gpt-4", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "grade this", gotReq.Messages[0].Content)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	assert.Equal(t, float64(0), gotReq.Temperature)
}

func TestOpenAICompleteSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer srv.Close()

	_, err := newTestOpenAI(srv.URL).Complete(context.Background(), "", "prompt", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestOpenAICompleteRejectsEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := newTestOpenAI(srv.URL).Complete(context.Background(), "", "prompt", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestNewPicksProviderAndModel(t *testing.T) {
	withKey := Config{OpenAIKey: "sk-test"}

	reasoning, ok := New(withKey, RoleReasoning).(*OpenAI)
	require.True(t, ok)
	assert.Equal(t, openAIReasoningModel, reasoning.model)

	grader, ok := New(withKey, RoleGrader).(*OpenAI)
	require.True(t, ok)
	assert.Equal(t, openAIGraderModel, grader.model)

	local, ok := New(Config{OllamaURL: "http://localhost:11434"}, RoleGrader).(*Ollama)
	require.True(t, ok)
	assert.Equal(t, ollamaModel, local.model)
}
