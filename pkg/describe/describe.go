// Package describe translates natural-language room descriptions into
// scene documents by calling an OpenAI-compatible chat completions
// endpoint.
//
// The model is instructed to emit strict JSON in the scene schema, and
// its output is still treated as untrusted: it goes through the same
// decode and validation path as a hand-written scene file. Responses are
// cached by prompt so repeated builds of the same description do not
// re-query the model.
package describe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/roomsmith/roomsmith/pkg/errors"
	"github.com/roomsmith/roomsmith/pkg/httputil"
	"github.com/roomsmith/roomsmith/pkg/scene"
)

const (
	// DefaultBaseURL is the OpenAI API root; any compatible endpoint works.
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel balances schema adherence against cost.
	DefaultModel = "gpt-4o-mini"
	// EnvAPIKey names the environment variable holding the API key.
	EnvAPIKey = "OPENAI_API_KEY"

	requestTimeout = 60 * time.Second
)

// Client talks to the text-understanding service.
type Client struct {
	httpClient *http.Client
	cache      *httputil.Cache
	logger     *log.Logger

	baseURL string
	model   string
	apiKey  string
}

// Config configures a Client. Zero values fall back to the defaults
// above; the API key falls back to the OPENAI_API_KEY environment
// variable.
type Config struct {
	BaseURL string
	Model   string
	APIKey  string
	Cache   *httputil.Cache
	Logger  *log.Logger
}

// NewClient creates a describe client. A nil cache disables response
// caching.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(EnvAPIKey)
	}
	if cfg.APIKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"no API key: set %s or pass one explicitly", EnvAPIKey)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		cache:      cfg.Cache,
		logger:     cfg.Logger,
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
	}, nil
}

// chat completions wire types, reduced to the fields in use.
type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float32       `json:"temperature"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Describe translates a prompt into a decoded, defaulted scene. The
// returned scene has not been validated yet.
func (c *Client) Describe(ctx context.Context, prompt string, d *scene.Defaults) (*scene.Scene, error) {
	raw, err := c.completion(ctx, prompt)
	if err != nil {
		return nil, err
	}
	s, err := scene.ParseJSON(raw, d)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDescribeFailed,
			"model returned a scene that does not decode")
	}
	return s, nil
}

// completion returns the raw scene JSON for a prompt, consulting the
// cache first.
func (c *Client) completion(ctx context.Context, prompt string) ([]byte, error) {
	cacheKey := "describe:" + c.model + ":" + prompt
	if c.cache != nil {
		var cached json.RawMessage
		if ok, _ := c.cache.Get(cacheKey, &cached); ok {
			c.logger.Debug("describe cache hit")
			return cached, nil
		}
	}

	var raw []byte
	fetch := func() error {
		data, err := c.post(ctx, prompt)
		if err != nil {
			return err
		}
		raw = data
		return nil
	}
	if err := httputil.RetryWithBackoff(ctx, fetch); err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.ErrCodeDescribeFailed, "text-understanding request failed")
	}

	if c.cache != nil {
		_ = c.cache.Set(cacheKey, json.RawMessage(raw))
	}
	return raw, nil
}

func (c *Client) post(ctx context.Context, prompt string) ([]byte, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature:    0,
		ResponseFormat: &respFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &httputil.RetryableError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &httputil.RetryableError{Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &httputil.RetryableError{
			Err: fmt.Errorf("text-understanding service returned status %d", resp.StatusCode)}
	default:
		return nil, errors.New(errors.ErrCodeDescribeFailed,
			"text-understanding service returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDescribeFailed, "malformed completion response")
	}
	if parsed.Error != nil {
		return nil, errors.New(errors.ErrCodeDescribeFailed, "%s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return nil, errors.New(errors.ErrCodeDescribeFailed, "completion has no choices")
	}
	return []byte(parsed.Choices[0].Message.Content), nil
}
