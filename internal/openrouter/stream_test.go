package openrouter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeJSONBody(r *http.Request, v any) error {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	return sonic.Unmarshal(data, v)
}

// sseHandler writes the given SSE lines and terminates the stream.
func sseHandler(lines ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, line := range lines {
			fmt.Fprintf(w, "%s\n\n", line)
			flusher.Flush()
		}
	}
}

func newStreamClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)
	return client
}

func TestChatStreamYieldsFragments(t *testing.T) {
	client := newStreamClient(t, sseHandler(
		`data: {"id":"gen-1","model":"x-ai/grok-4-fast","choices":[{"index":0,"delta":{"role":"assistant","content":"Hello"}}]}`,
		`data: {"id":"gen-1","model":"x-ai/grok-4-fast","choices":[{"index":0,"delta":{"content":", "}}]}`,
		`data: {"id":"gen-1","model":"x-ai/grok-4-fast","choices":[{"index":0,"delta":{"content":"world"}}]}`,
		`data: {"id":"gen-1","model":"x-ai/grok-4-fast","choices":[],"usage":{"prompt_tokens":10,"completion_tokens":3,"total_tokens":13}}`,
		`data: [DONE]`,
	))

	stream, err := client.CreateChatCompletionStream(context.Background(), ChatRequest{
		Model:    "x-ai/grok-4-fast",
		Messages: []Message{TextMessage(RoleUser, "hi")},
	})
	require.NoError(t, err)
	defer stream.Close()

	var fragments []string
	for stream.Next() {
		assert.NotEmpty(t, stream.Text())
		fragments = append(fragments, stream.Text())
	}

	require.NoError(t, stream.Err())
	assert.Equal(t, []string{"Hello", ", ", "world"}, fragments)
	assert.Equal(t, "Hello, world", stream.Accumulated())
	assert.Equal(t, "x-ai/grok-4-fast", stream.Model())

	usage := stream.Usage()
	require.NotNil(t, usage)
	assert.Equal(t, 10, usage.PromptTokens)
	assert.Equal(t, 3, usage.CompletionTokens)
	assert.Equal(t, 13, usage.TotalTokens)
}

func TestChatStreamIsExhaustedAfterDone(t *testing.T) {
	client := newStreamClient(t, sseHandler(
		`data: {"choices":[{"index":0,"delta":{"content":"only"}}]}`,
		`data: [DONE]`,
	))

	stream, err := client.CreateChatCompletionStream(context.Background(), ChatRequest{Model: "x-ai/grok-4-fast"})
	require.NoError(t, err)
	defer stream.Close()

	assert.True(t, stream.Next())
	assert.False(t, stream.Next())
	// Not restartable.
	assert.False(t, stream.Next())
	assert.NoError(t, stream.Err())
}

func TestChatStreamSkipsMalformedChunks(t *testing.T) {
	client := newStreamClient(t, sseHandler(
		`: comment line`,
		`data: {not valid json`,
		`data: {"choices":[{"index":0,"delta":{"content":""}}]}`,
		`data: {"choices":[{"index":0,"delta":{"content":"ok"}}]}`,
		`data: [DONE]`,
	))

	stream, err := client.CreateChatCompletionStream(context.Background(), ChatRequest{Model: "x-ai/grok-4-fast"})
	require.NoError(t, err)
	defer stream.Close()

	var fragments []string
	for stream.Next() {
		fragments = append(fragments, stream.Text())
	}

	assert.NoError(t, stream.Err())
	assert.Equal(t, []string{"ok"}, fragments)
}

func TestChatStreamCloseBeforeExhaustion(t *testing.T) {
	client := newStreamClient(t, sseHandler(
		`data: {"choices":[{"index":0,"delta":{"content":"first"}}]}`,
		`data: {"choices":[{"index":0,"delta":{"content":"second"}}]}`,
		`data: [DONE]`,
	))

	stream, err := client.CreateChatCompletionStream(context.Background(), ChatRequest{Model: "x-ai/grok-4-fast"})
	require.NoError(t, err)

	require.True(t, stream.Next())
	require.NoError(t, stream.Close())

	// A closed stream yields nothing more; Close is idempotent.
	assert.False(t, stream.Next())
	assert.NoError(t, stream.Close())
	assert.Equal(t, "first", stream.Accumulated())
}

func TestChatStreamProviderErrorBeforeStreaming(t *testing.T) {
	client := newStreamClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limit exceeded", "type": "rate_limit_error"}}`))
	}))

	stream, err := client.CreateChatCompletionStream(context.Background(), ChatRequest{Model: "x-ai/grok-4-fast"})

	assert.Nil(t, stream)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "rate limit exceeded", apiErr.Message)
}

func TestChatStreamRequestsStreaming(t *testing.T) {
	var gotBody ChatRequest
	client := newStreamClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, decodeJSONBody(r, &gotBody))
		sseHandler(`data: [DONE]`).ServeHTTP(w, r)
	}))

	stream, err := client.CreateChatCompletionStream(context.Background(), ChatRequest{Model: "x-ai/grok-4-fast"})
	require.NoError(t, err)
	defer stream.Close()

	assert.False(t, stream.Next())
	assert.True(t, gotBody.Stream)
}
