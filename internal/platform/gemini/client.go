package gemini

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

const providerName = "gemini"

// attempts per Generate call; a failed first call is retried immediately,
// with no backoff, before the adapter gives up.
const maxAttempts = 2

type Client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient builds the resident adapter from GEMINI_API_KEY. Missing
// credential fails construction immediately; the caller simply never
// registers the provider.
func NewClient(log *logger.Logger) (*Client, error) {
	return NewClientWithKey(log, "")
}

// NewClientWithKey builds a transient adapter around a per-call credential;
// an empty key falls back to the environment.
func NewClientWithKey(log *logger.Logger, apiKey string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	}
	if apiKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}

	baseURL := strings.TrimRight(envutil.Str("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"), "/")
	model := envutil.Str("GEMINI_MODEL", "gemini-2.0-flash")
	timeoutSec := envutil.Int("LLM_TIMEOUT_SECONDS", 30)

	return &Client{
		log:        log.With("service", "GeminiClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}, nil
}

func (c *Client) Name() string { return providerName }

type generateRequest struct {
	Contents []reqContent `json:"contents"`
}

type reqContent struct {
	Parts []reqPart `json:"parts"`
}

type reqPart struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []reqPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		text, err := c.generateOnce(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		c.log.Warn("Gemini attempt failed", "attempt", attempt, "error", err.Error())
	}
	return "", &llm.ProviderError{Provider: providerName, Attempts: maxAttempts, Err: lastErr}
}

func (c *Client) generateOnce(ctx context.Context, prompt string) (string, error) {
	body := generateRequest{Contents: []reqContent{{Parts: []reqPart{{Text: prompt}}}}}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

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
		return "", fmt.Errorf("gemini http %d: %s", resp.StatusCode, snippet(raw))
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("gemini decode error: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini response missing candidates: %s", snippet(raw))
	}

	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

func snippet(raw []byte) string {
	const max = 512
	s := string(raw)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
