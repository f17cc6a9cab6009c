// Package gemini talks to the Gemini and Imagen REST endpoints.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/config"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/logging"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/model"
)

// Config holds the client settings. Zero values fall back to the defaults.
type Config struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string
	Timeout    time.Duration // 0 means no client-side timeout
	HTTPClient *http.Client
}

// Client issues analysis and image requests. It is safe for concurrent use.
type Client struct {
	apiKey     string
	baseURL    string
	textModel  string
	imageModel string
	timeout    time.Duration
	http       *http.Client
}

func New(cfg Config) *Client {
	c := &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
		timeout:    cfg.Timeout,
		http:       cfg.HTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = config.DefaultBaseURL
	}
	if c.textModel == "" {
		c.textModel = config.DefaultTextModel
	}
	if c.imageModel == "" {
		c.imageModel = config.DefaultImageModel
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	return c
}

// FromConfig builds a client from the application configuration.
func FromConfig(cfg *config.Config) *Client {
	return New(Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		TextModel:  cfg.TextModel,
		ImageModel: cfg.ImageModel,
		Timeout:    cfg.RequestTimeout,
	})
}

// apiError is the error envelope returned by Google APIs.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// post sends body as JSON to the model method and returns the raw response body.
func (c *Client) post(ctx context.Context, op, modelName, method string, body any) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &model.ServiceError{Op: op, Message: "failed to marshal request", Cause: err}
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:%s", c.baseURL, modelName, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, &model.ServiceError{Op: op, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	logging.Debug("Sending AI request", "operation", op, "model", modelName, "bytes", len(payload))

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &model.ServiceError{Op: op, Message: fmt.Sprintf("request timeout after %v", c.timeout), Cause: err}
		}
		return nil, &model.ServiceError{Op: op, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.ServiceError{Op: op, Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		return nil, &model.ServiceError{Op: op, Message: fmt.Sprintf("service returned status %d: %s", resp.StatusCode, msg)}
	}
	return data, nil
}

// cleanJSONContent strips a markdown code fence around a JSON document.
func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") || !strings.HasSuffix(content, "```") {
		return content
	}
	content = strings.TrimSuffix(strings.TrimPrefix(content, "```"), "```")
	content = strings.TrimPrefix(content, "json")
	return strings.TrimSpace(content)
}
