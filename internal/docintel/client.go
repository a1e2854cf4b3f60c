package docintel

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/time/rate"
)

const (
	DefaultModelID      = "prebuilt-layout"
	DefaultAPIVersion   = "2024-11-30"
	DefaultPollInterval = 2 * time.Second
	DefaultTimeout      = 120 * time.Second

	// Document Intelligence S0 tier allows 1 analyze request per second.
	DefaultRateLimit = 1.0

	submitRetries    = 3
	submitRetryDelay = 2 * time.Second
)

// ServiceError is a failure reported by the layout-analysis service,
// including analyze operations that complete with a failed status.
type ServiceError struct {
	StatusCode int    // HTTP status, 0 for operation-level failures
	Code       string // service error code if the response carried one
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("document analysis failed (%s): %s", e.Code, e.Message)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("document analysis failed (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("document analysis failed: %s", e.Message)
}

// Config holds configuration for the layout-analysis client.
type Config struct {
	Endpoint     string
	APIKey       string
	ModelID      string
	APIVersion   string
	PollInterval time.Duration
	Timeout      time.Duration
	RateLimit    float64 // analyze submissions per second
	Logger       *slog.Logger
}

// Client calls the Azure Document Intelligence REST API: it submits an
// analyze request, then polls the returned operation until it reaches a
// terminal status.
type Client struct {
	endpoint     string
	apiKey       string
	modelID      string
	apiVersion   string
	pollInterval time.Duration
	timeout      time.Duration
	limiter      *rate.Limiter
	logger       *slog.Logger
	client       *http.Client
}

// NewClient creates a new layout-analysis client.
func NewClient(cfg Config) *Client {
	if cfg.ModelID == "" {
		cfg.ModelID = DefaultModelID
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Client{
		endpoint:     strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:       cfg.APIKey,
		modelID:      cfg.ModelID,
		apiVersion:   cfg.APIVersion,
		pollInterval: cfg.PollInterval,
		timeout:      cfg.Timeout,
		limiter:      rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		logger:       cfg.Logger.With("component", "docintel"),
		client:       &http.Client{Timeout: 60 * time.Second},
	}
}

type analyzeRequest struct {
	URLSource    string `json:"urlSource,omitempty"`
	Base64Source string `json:"base64Source,omitempty"`
}

// Analyze submits a document by URL and waits for the layout result.
// The URL must be readable by the service (e.g. a signed storage URL).
func (c *Client) Analyze(ctx context.Context, documentURL string) (*AnalyzeResult, error) {
	return c.analyze(ctx, analyzeRequest{URLSource: documentURL})
}

// AnalyzeBytes submits raw document bytes and waits for the layout result.
func (c *Client) AnalyzeBytes(ctx context.Context, data []byte) (*AnalyzeResult, error) {
	return c.analyze(ctx, analyzeRequest{
		Base64Source: base64.StdEncoding.EncodeToString(data),
	})
}

func (c *Client) analyze(ctx context.Context, req analyzeRequest) (*AnalyzeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	opURL, err := c.submit(ctx, req)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("analysis submitted", "operation", opURL)
	return c.poll(ctx, opURL)
}

// submit starts an analyze operation and returns the operation URL.
// Transient failures are retried; 4xx responses are returned immediately.
func (c *Client) submit(ctx context.Context, reqBody analyzeRequest) (string, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal analyze request: %w", err)
	}

	url := fmt.Sprintf("%s/documentintelligence/documentModels/%s:analyze?api-version=%s",
		c.endpoint, c.modelID, c.apiVersion)

	var opURL string
	err = retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

			resp, err := c.client.Do(req)
			if err != nil {
				return fmt.Errorf("analyze request failed: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusAccepted {
				svcErr := c.readError(resp)
				if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
					return retry.Unrecoverable(svcErr)
				}
				return svcErr
			}

			opURL = resp.Header.Get("Operation-Location")
			if opURL == "" {
				return retry.Unrecoverable(&ServiceError{Message: "missing Operation-Location header"})
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(submitRetries),
		retry.Delay(submitRetryDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", err
	}
	return opURL, nil
}

// poll fetches the operation until it reaches a terminal status.
func (c *Client) poll(ctx context.Context, opURL string) (*AnalyzeResult, error) {
	for {
		op, err := c.fetchOperation(ctx, opURL)
		if err != nil {
			return nil, err
		}

		switch op.Status {
		case StatusSucceeded:
			if op.AnalyzeResult == nil {
				return nil, &ServiceError{Message: "operation succeeded without a result"}
			}
			return op.AnalyzeResult, nil
		case StatusFailed:
			svcErr := &ServiceError{Message: "analysis reported failure"}
			if op.Error != nil {
				svcErr.Code = op.Error.Code
				svcErr.Message = op.Error.Message
			}
			return nil, svcErr
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for analysis: %w", ctx.Err())
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *Client) fetchOperation(ctx context.Context, opURL string) (*AnalyzeOperation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create poll request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("poll request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.readError(resp)
	}

	var op AnalyzeOperation
	if err := json.NewDecoder(resp.Body).Decode(&op); err != nil {
		return nil, fmt.Errorf("failed to decode operation status: %w", err)
	}
	return &op, nil
}

// readError extracts the service error envelope from a non-2xx response.
func (c *Client) readError(resp *http.Response) *ServiceError {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return &ServiceError{StatusCode: resp.StatusCode, Message: "unreadable error response"}
	}

	var envelope errorResponse
	if json.Unmarshal(body, &envelope) == nil && envelope.Error.Message != "" {
		return &ServiceError{
			StatusCode: resp.StatusCode,
			Code:       envelope.Error.Code,
			Message:    envelope.Error.Message,
		}
	}
	return &ServiceError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
}
