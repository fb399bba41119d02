package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaCompleteAssemblesStreamedChunks(t *testing.T) {
	var gotReq ollamaRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		enc := json.NewEncoder(w)
		_ = enc.Encode(ollamaResponse{Response: "Hello"})
		_ = enc.Encode(ollamaResponse{Response: ", world"})
		_ = enc.Encode(ollamaResponse{Response: "!", Done: true})
	}))
	defer srv.Close()

	client := NewOllama(srv.URL, "mistral")
	out, err := client.Complete(context.Background(), "be brief", "say hello", 0.7)
	require.NoError(t, err)

	assert.Equal(t, "Hello, world!", out)
	assert.Equal(t, "mistral", gotReq.Model)
	assert.Equal(t, "say hello", gotReq.Prompt)
	assert.Equal(t, "be brief", gotReq.System)
	assert.Equal(t, 0.7, gotReq.Options["temperature"])
}

func TestOllamaCompleteSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewOllama(srv.URL, "mistral")
	_, err := client.Complete(context.Background(), "", "prompt", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestOllamaCompleteStopsAtDone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"response":"done part","done":true}`)
		fmt.Fprintln(w, `{"response":"trailing garbage","done":false}`)
	}))
	defer srv.Close()

	client := NewOllama(srv.URL, "mistral")
	out, err := client.Complete(context.Background(), "", "prompt", 0)
	require.NoError(t, err)
	assert.Equal(t, "done part", out)
}
