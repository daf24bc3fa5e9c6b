package minimax

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/doomlearn/doomfeed-backend/internal/llm"
	"github.com/doomlearn/doomfeed-backend/internal/platform/envutil"
	"github.com/doomlearn/doomfeed-backend/internal/platform/logger"
)

const providerName = "minimax"

const maxAttempts = 2

type Client struct {
	log        *logger.Logger
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(log *logger.Logger) (*Client, error) {
	return NewClientWithKey(log, "")
}

func NewClientWithKey(log *logger.Logger, apiKey string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv("MINIMAX_API_KEY"))
	}
	if apiKey == "" {
		return nil, fmt.Errorf("missing MINIMAX_API_KEY")
	}

	endpoint := envutil.Str("MINIMAX_BASE_URL", "https://api.minimaxi.chat/v1/text/chatcompletion_v2")
	model := envutil.Str("MINIMAX_MODEL", "abab6.5s-chat")
	timeoutSec := envutil.Int("LLM_TIMEOUT_SECONDS", 30)

	return &Client{
		log:        log.With("service", "MinimaxClient"),
		endpoint:   endpoint,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}, nil
}

func (c *Client) Name() string { return providerName }

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		text, err := c.generateOnce(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		c.log.Warn("Minimax attempt failed", "attempt", attempt, "error", err.Error())
	}
	return "", &llm.ProviderError{Provider: providerName, Attempts: maxAttempts, Err: lastErr}
}

func (c *Client) generateOnce(ctx context.Context, prompt string) (string, error) {
	body := chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return "", readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("minimax http %d: %s", resp.StatusCode, snippet(raw))
	}

	// The envelope can be 200 with no choices when the upstream rejects the
	// request; treat that the same as a transport failure.
	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("minimax decode error: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("minimax response missing choices: %s", snippet(raw))
	}
	return out.Choices[0].Message.Content, nil
}

func snippet(raw []byte) string {
	const max = 512
	s := string(raw)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
