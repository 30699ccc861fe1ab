// Package ai talks to an OpenAI-compatible chat completions endpoint and
// keeps the conversation history the pet sends along with each message.
package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/milk9111/deskpet/common"
)

// Message is one chat turn as sent to the endpoint.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Client is the pet's conversational collaborator.
type Client interface {
	Chat(ctx context.Context, message string, history []Message) (string, error)
	AnalyzeImage(ctx context.Context, png []byte, prompt string) (string, error)
}

// Config holds HTTP client configuration.
type Config struct {
	BaseURL      string
	APIKey       string
	Model        string
	Temperature  float64
	MaxTokens    int
	SystemPrompt string

	// VisionURL is the full URL image analysis is posted to. When empty the
	// chat endpoint is used.
	VisionURL       string
	VisionKey       string
	VisionModel     string
	VisionMaxTokens int
	VisionPrompt    string

	ChatTimeout   time.Duration
	VisionTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		BaseURL:         "https://api.deepseek.com",
		Model:           "deepseek-chat",
		Temperature:     0.7,
		MaxTokens:       500,
		SystemPrompt:    DefaultPrompt(),
		VisionModel:     "openbmb/minicpm-v4.5:8b",
		VisionMaxTokens: 300,
		VisionPrompt:    defaultVisionPrompt,
		ChatTimeout:     30 * time.Second,
		VisionTimeout:   60 * time.Second,
	}
}

const defaultVisionPrompt = `You are a playful desktop pet peeking at the user's screen.
Guess what the user is working on or enjoying from the screenshot and start a
short, friendly conversation about it. Keep it to two or three sentences.`

// HTTPClient implements Client over net/http.
type HTTPClient struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

func NewHTTPClient(cfg Config, logger *slog.Logger) *HTTPClient {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = def.SystemPrompt
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = def.VisionModel
	}
	if cfg.VisionMaxTokens <= 0 {
		cfg.VisionMaxTokens = def.VisionMaxTokens
	}
	if cfg.VisionPrompt == "" {
		cfg.VisionPrompt = def.VisionPrompt
	}
	if cfg.VisionKey == "" {
		cfg.VisionKey = cfg.APIKey
	}
	if cfg.ChatTimeout == 0 {
		cfg.ChatTimeout = def.ChatTimeout
	}
	if cfg.VisionTimeout == 0 {
		cfg.VisionTimeout = def.VisionTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPClient{
		cfg: cfg,
		// Per-call deadlines come from the context.
		httpClient: &http.Client{},
		logger:     logger,
	}
}

type completionRequest struct {
	Model       string  `json:"model"`
	Messages    []any   `json:"messages"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Stream      bool    `json:"stream"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type multipartMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

// Chat sends the system prompt, history and message, returning the reply.
func (c *HTTPClient) Chat(ctx context.Context, message string, history []Message) (string, error) {
	messages := make([]any, 0, len(history)+2)
	if c.cfg.SystemPrompt != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: c.cfg.SystemPrompt})
	}
	for _, m := range history {
		messages = append(messages, m)
	}
	messages = append(messages, Message{Role: RoleUser, Content: message})

	ctx, cancel := context.WithTimeout(ctx, c.cfg.ChatTimeout)
	defer cancel()

	req := completionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}
	return c.complete(ctx, c.cfg.BaseURL+"/chat/completions", c.cfg.APIKey, req)
}

// AnalyzeImage sends a PNG screenshot with prompt to the vision endpoint.
func (c *HTTPClient) AnalyzeImage(ctx context.Context, png []byte, prompt string) (string, error) {
	url := c.cfg.VisionURL
	if url == "" {
		c.logger.Warn("vision url not configured, using chat endpoint", "base_url", c.cfg.BaseURL)
		url = c.cfg.BaseURL + "/chat/completions"
	}

	messages := []any{
		Message{Role: RoleSystem, Content: c.cfg.VisionPrompt},
		multipartMessage{
			Role: RoleUser,
			Content: []contentPart{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: &imageURL{URL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)}},
			},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.VisionTimeout)
	defer cancel()

	req := completionRequest{
		Model:       c.cfg.VisionModel,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   c.cfg.VisionMaxTokens,
	}
	return c.complete(ctx, url, c.cfg.VisionKey, req)
}

func (c *HTTPClient) complete(ctx context.Context, url, key string, reqBody completionRequest) (string, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w: %w", common.ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("sending request: %w: %w", common.ErrTimeout, err)
		}
		return "", fmt.Errorf("sending request: %w: %w", common.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: unexpected status %d: %s", common.ErrTransport, resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	var result completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("reading response: %w: %w", common.ErrTimeout, err)
		}
		return "", fmt.Errorf("decoding response: %w: %w", common.ErrMalformedResponse, err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: response has no choices", common.ErrMalformedResponse)
	}

	c.logger.Debug("completion", "url", url, "model", reqBody.Model, "took", time.Since(started))
	return result.Choices[0].Message.Content, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Nop is the Client used when AI is disabled or unconfigured.
type Nop struct{}

func (Nop) Chat(context.Context, string, []Message) (string, error) {
	return "", common.ErrDisabled
}

func (Nop) AnalyzeImage(context.Context, []byte, string) (string, error) {
	return "", common.ErrDisabled
}
