package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/milk9111/deskpet/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Path string
	Auth string
	Body map[string]any
}

func completionServer(t *testing.T, reply string, got *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Path = r.URL.Path
		got.Auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got.Body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":` + mustJSON(t, reply) + `}}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestChatSendsHistoryAndPrompt(t *testing.T) {
	var got capturedRequest
	srv := completionServer(t, "hi there", &got)

	c := NewHTTPClient(Config{
		BaseURL:      srv.URL + "/",
		APIKey:       "sk-chat",
		Model:        "m1",
		Temperature:  0.5,
		MaxTokens:    200,
		SystemPrompt: "be a pet",
	}, nil)

	history := []Message{{Role: RoleUser, Content: "earlier"}, {Role: RoleAssistant, Content: "reply"}}
	reply, err := c.Chat(context.Background(), "hello", history)
	require.NoError(t, err)

	assert.Equal(t, "hi there", reply)
	assert.Equal(t, "/chat/completions", got.Path)
	assert.Equal(t, "Bearer sk-chat", got.Auth)
	assert.Equal(t, "m1", got.Body["model"])
	assert.Equal(t, 0.5, got.Body["temperature"])
	assert.Equal(t, float64(200), got.Body["max_tokens"])
	assert.Equal(t, false, got.Body["stream"])

	msgs, ok := got.Body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 4)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "be a pet", msgs[0].(map[string]any)["content"])
	assert.Equal(t, "hello", msgs[3].(map[string]any)["content"])
}

func TestAnalyzeImageUsesVisionEndpoint(t *testing.T) {
	var got capturedRequest
	srv := completionServer(t, "you are coding", &got)

	c := NewHTTPClient(Config{
		BaseURL:     "http://unused.invalid",
		APIKey:      "sk-chat",
		VisionURL:   srv.URL + "/v1/vision",
		VisionModel: "vl",
	}, nil)

	reply, err := c.AnalyzeImage(context.Background(), []byte{0x89, 'P', 'N', 'G'}, "what is the user doing?")
	require.NoError(t, err)
	assert.Equal(t, "you are coding", reply)
	assert.Equal(t, "/v1/vision", got.Path)
	assert.Equal(t, "Bearer sk-chat", got.Auth, "vision key falls back to the chat key")
	assert.Equal(t, "vl", got.Body["model"])

	msgs := got.Body["messages"].([]any)
	user := msgs[1].(map[string]any)
	parts := user["content"].([]any)
	require.Len(t, parts, 2)
	img := parts[1].(map[string]any)["image_url"].(map[string]any)
	assert.True(t, strings.HasPrefix(img["url"].(string), "data:image/png;base64,"))
}

func TestAnalyzeImageFallsBackToChatEndpoint(t *testing.T) {
	var got capturedRequest
	srv := completionServer(t, "ok", &got)

	c := NewHTTPClient(Config{BaseURL: srv.URL, VisionKey: "sk-vision"}, nil)
	_, err := c.AnalyzeImage(context.Background(), []byte("png"), "q")
	require.NoError(t, err)
	assert.Equal(t, "/chat/completions", got.Path)
	assert.Equal(t, "Bearer sk-vision", got.Auth)
}

func TestChatErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		timeout time.Duration
		want    error
	}{
		{
			name: "status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "bad key", http.StatusUnauthorized)
			},
			want: common.ErrTransport,
		},
		{
			name: "malformed",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"choices":`))
			},
			want: common.ErrMalformedResponse,
		},
		{
			name: "no_choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"choices":[]}`))
			},
			want: common.ErrMalformedResponse,
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
			timeout: 50 * time.Millisecond,
			want:    common.ErrTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewHTTPClient(Config{BaseURL: srv.URL, ChatTimeout: tt.timeout}, nil)
			_, err := c.Chat(context.Background(), "hello", nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTransportErrorWhenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewHTTPClient(Config{BaseURL: url}, nil)
	_, err := c.Chat(context.Background(), "hello", nil)
	assert.ErrorIs(t, err, common.ErrTransport)
}

func TestNop(t *testing.T) {
	var c Client = Nop{}
	_, err := c.Chat(context.Background(), "x", nil)
	assert.ErrorIs(t, err, common.ErrDisabled)
	_, err = c.AnalyzeImage(context.Background(), nil, "x")
	assert.ErrorIs(t, err, common.ErrDisabled)
}
