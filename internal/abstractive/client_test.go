// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package abstractive

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-digest/internal/httputil"
	"github.com/pdiddy/paper-digest/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

var evidence = []types.SummaryItem{
	{Text: "Transformers rely on attention.", Page: 1, Score: 0.4},
	{Text: "  ", Page: 2},
	{Text: "Results improve BLEU.", Page: 0},
}

func TestFormatEvidence(t *testing.T) {
	got := FormatEvidence(evidence)
	assert.Equal(t, "[1] (p. 1) Transformers rely on attention.\n[2] (p. ?) Results improve BLEU.", got)
	assert.Empty(t, FormatEvidence(nil))
}

func TestRenderUserPrompt(t *testing.T) {
	got, err := renderUserPrompt("[1] (p. 1) A.", 300)
	require.NoError(t, err)
	assert.Contains(t, got, "EVIDENCE (with page numbers):\n\n[1] (p. 1) A.")
	assert.Contains(t, got, "<= 300 tokens")
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(types.AbstractiveConfig{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	c, err := NewClient(types.AbstractiveConfig{APIKey: "k", BaseURL: "http://x/v1/"})
	require.NoError(t, err)
	assert.Equal(t, "http://x/v1", c.baseURL)
	assert.Equal(t, DefaultModel, c.model)
	assert.Equal(t, DefaultTokenLimit, c.tokenLimit)
	assert.Equal(t, DefaultTemperature, c.temperature)
	assert.Equal(t, defaultTimeout, c.http.Timeout)
}

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, req chatRequest)) (*httptest.Server, *Client) {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		handler(w, req)
	}))
	t.Cleanup(ts.Close)

	c, err := NewClient(types.AbstractiveConfig{APIKey: "secret", BaseURL: ts.URL + "/v1", MaxRetries: 2})
	require.NoError(t, err)
	return ts, c
}

func TestGenerate(t *testing.T) {
	var got chatRequest
	_, c := newTestServer(t, func(w http.ResponseWriter, req chatRequest) {
		got = req
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  A summary (p. 1).  "}}]}`))
	})

	text, err := c.Generate(context.Background(), evidence, "", 0)
	require.NoError(t, err)
	assert.Equal(t, "A summary (p. 1).", text)

	assert.Equal(t, DefaultModel, got.Model)
	assert.Equal(t, DefaultTokenLimit, got.MaxTokens)
	assert.InDelta(t, 0.3, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, systemPrompt, got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Contains(t, got.Messages[1].Content, "[1] (p. 1) Transformers rely on attention.")
}

func TestGenerateOverrides(t *testing.T) {
	var got chatRequest
	_, c := newTestServer(t, func(w http.ResponseWriter, req chatRequest) {
		got = req
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	})

	_, err := c.Generate(context.Background(), evidence, "gpt-4o", 200)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", got.Model)
	assert.Equal(t, 200, got.MaxTokens)
	assert.Contains(t, got.Messages[1].Content, "<= 200 tokens")
}

func TestGenerateEmptyEvidence(t *testing.T) {
	var calls int32
	_, c := newTestServer(t, func(w http.ResponseWriter, _ chatRequest) {
		atomic.AddInt32(&calls, 1)
	})

	text, err := c.Generate(context.Background(), []types.SummaryItem{{Text: " "}}, "", 0)
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "api error", status: http.StatusUnauthorized, body: `{"error":"bad key"}`, wantErr: "returned 401"},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantErr: "no choices"},
		{name: "bad json", status: http.StatusOK, body: `not json`, wantErr: "decoding"},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `slow down`, wantErr: "returned 429"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c := newTestServer(t, func(w http.ResponseWriter, _ chatRequest) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := c.Generate(context.Background(), evidence, "", 0)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGenerateRetriesRateLimit(t *testing.T) {
	var calls int32
	_, c := newTestServer(t, func(w http.ResponseWriter, _ chatRequest) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"done"}}]}`))
	})

	text, err := c.Generate(context.Background(), evidence, "", 0)
	require.NoError(t, err)
	assert.Equal(t, "done", text)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
