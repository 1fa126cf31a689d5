package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"poster-server/internal/infra"
)

// DefaultRetries makes a call use the client's configured retry policy.
const DefaultRetries = -1

// ErrNoAPIKey is returned for text calls when the client runs without
// credentials. Image calls render synthetic posters instead.
var ErrNoAPIKey = errors.New("gemini api key not configured")

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey       string
	BaseURL      string
	TextModel    string
	MaxRetries   int
	RetryBackoff time.Duration
	HTTPClient   *http.Client
	Logger       *infra.Logger
}

// Client talks to the Gemini generateContent endpoint. The same call contract
// serves every model tier; callers pick the model per request.
type Client struct {
	apiKey       string
	baseURL      string
	textModel    string
	maxRetries   int
	retryBackoff time.Duration
	httpClient   *http.Client
	logger       *infra.Logger
}

// APIError is a non-2xx answer from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gemini status %d", e.StatusCode)
	}
	return fmt.Sprintf("gemini status %d: %s", e.StatusCode, e.Message)
}

// Retryable reports whether the status is worth another attempt.
func (e *APIError) Retryable() bool {
	switch e.StatusCode {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// NewClient constructs a Gemini client with sane defaults. Callers may provide
// a nil HTTP client; a reusable one with sensible timeouts will be created.
func NewClient(opts Options) (*Client, error) {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	textModel := strings.TrimSpace(opts.TextModel)
	if textModel == "" {
		textModel = "gemini-2.5-flash"
	}

	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	backoff := opts.RetryBackoff
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}

	return &Client{
		apiKey:       strings.TrimSpace(opts.APIKey),
		baseURL:      baseURL,
		textModel:    textModel,
		maxRetries:   maxRetries,
		retryBackoff: backoff,
		httpClient:   client,
		logger:       logger,
	}, nil
}

// TextModel returns the model used for text-only calls.
func (c *Client) TextModel() string {
	return c.textModel
}

// Synthetic reports whether the client renders placeholders instead of
// calling the service.
func (c *Client) Synthetic() bool {
	return c.apiKey == ""
}

// GenerateContent sends one request to model. maxRetries overrides the
// client's retry policy unless it is DefaultRetries. The response is returned
// even when it holds no image so callers can account for its tokens.
func (c *Client) GenerateContent(ctx context.Context, model string, req Request, maxRetries int) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.Synthetic() {
		if !req.WantImage {
			return nil, ErrNoAPIKey
		}
		return c.syntheticResponse(model, req), nil
	}
	if maxRetries == DefaultRetries {
		maxRetries = c.maxRetries
	}

	payload := buildPayload(req)
	path := fmt.Sprintf("/models/%s:generateContent", url.PathEscape(model))

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.retryBackoff * time.Duration(1<<(attempt-1))
			c.logger.Debug().
				Err(lastErr).
				Str("model", model).
				Int("attempt", attempt+1).
				Dur("backoff", wait).
				Msg("genai: retrying request")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		var raw generateContentResponse
		err := c.invokeGemini(ctx, path, payload, &raw)
		if err == nil {
			return raw.toResponse(), nil
		}
		lastErr = err
		if !retryable(err) || ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

// GenerateText runs a text-only request against the client's text model.
func (c *Client) GenerateText(ctx context.Context, req Request) (*Response, error) {
	req.WantImage = false
	return c.GenerateContent(ctx, c.textModel, req, DefaultRetries)
}

func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	var decodeErr *decodeError
	if errors.As(err, &decodeErr) {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

type decodeError struct{ err error }

func (e *decodeError) Error() string { return "decode gemini response: " + e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

func (c *Client) invokeGemini(ctx context.Context, path string, payload any, out any) error {
	endpoint := strings.TrimRight(c.baseURL, "/") + path
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		var apiErr errorResponse
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
			msg := apiErr.Error.Message
			if apiErr.Error.Status != "" {
				msg = apiErr.Error.Status + ": " + msg
			}
			return &APIError{StatusCode: resp.StatusCode, Message: msg}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &decodeError{err: err}
	}
	return nil
}
