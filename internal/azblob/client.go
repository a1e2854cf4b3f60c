// Package azblob is a minimal Azure Blob Storage REST client covering the
// operations the pipeline needs: container listing, blob read/write,
// container creation, and read-only SAS URL generation.
package azblob

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	apiVersion = "2021-08-06"

	uploadRetries    = 3
	uploadRetryDelay = time.Second
)

// StorageError is a failed storage operation. It keeps enough context for
// a per-document failure record.
type StorageError struct {
	Op         string // "list", "download", "upload", "create-container"
	Container  string
	Blob       string
	StatusCode int
	Err        error
}

func (e *StorageError) Error() string {
	target := e.Container
	if e.Blob != "" {
		target += "/" + e.Blob
	}
	return fmt.Sprintf("storage %s %s: %v", e.Op, target, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// BlobInfo describes one listed blob.
type BlobInfo struct {
	Name string
	Size int64
}

// Client is an authenticated blob service client.
type Client struct {
	creds  *Credentials
	logger *slog.Logger
	client *http.Client
	now    func() time.Time
}

// NewClient creates a client from a storage connection string.
func NewClient(connectionString string, logger *slog.Logger) (*Client, error) {
	creds, err := ParseConnectionString(connectionString)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		creds:  creds,
		logger: logger.With("component", "azblob"),
		client: &http.Client{Timeout: 60 * time.Second},
		now:    time.Now,
	}, nil
}

// AccountName returns the storage account this client talks to.
func (c *Client) AccountName() string { return c.creds.AccountName }

// listResponse is the container listing XML envelope.
type listResponse struct {
	XMLName    xml.Name `xml:"EnumerationResults"`
	Blobs      []listedBlob `xml:"Blobs>Blob"`
	NextMarker string       `xml:"NextMarker"`
}

type listedBlob struct {
	Name       string `xml:"Name"`
	Properties struct {
		ContentLength int64 `xml:"Content-Length"`
	} `xml:"Properties"`
}

// List returns the blobs in a container in service order, optionally
// filtered by file extension (case-insensitive, e.g. ".pdf").
func (c *Client) List(ctx context.Context, container, extFilter string) ([]BlobInfo, error) {
	var blobs []BlobInfo
	marker := ""

	for {
		query := url.Values{
			"restype": {"container"},
			"comp":    {"list"},
		}
		if marker != "" {
			query.Set("marker", marker)
		}

		body, _, err := c.do(ctx, http.MethodGet, container, "", query, nil, "")
		if err != nil {
			return nil, &StorageError{Op: "list", Container: container, Err: err}
		}

		var page listResponse
		if err := xml.Unmarshal(body, &page); err != nil {
			return nil, &StorageError{Op: "list", Container: container,
				Err: fmt.Errorf("failed to decode listing: %w", err)}
		}

		for _, blob := range page.Blobs {
			if extFilter != "" && !strings.HasSuffix(strings.ToLower(blob.Name), strings.ToLower(extFilter)) {
				continue
			}
			blobs = append(blobs, BlobInfo{Name: blob.Name, Size: blob.Properties.ContentLength})
		}

		if page.NextMarker == "" {
			return blobs, nil
		}
		marker = page.NextMarker
	}
}

// Download reads a blob's contents.
func (c *Client) Download(ctx context.Context, container, name string) ([]byte, error) {
	body, _, err := c.do(ctx, http.MethodGet, container, name, nil, nil, "")
	if err != nil {
		return nil, &StorageError{Op: "download", Container: container, Blob: name, Err: err}
	}
	return body, nil
}

// Upload writes a block blob, overwriting any existing blob of the same
// name. Transient service errors are retried.
func (c *Client) Upload(ctx context.Context, container, name string, data []byte, contentType string) error {
	err := retry.Do(
		func() error {
			_, status, err := c.do(ctx, http.MethodPut, container, name, nil, data, contentType)
			if err != nil {
				if status >= 400 && status < 500 {
					return retry.Unrecoverable(err)
				}
				return err
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uploadRetries),
		retry.Delay(uploadRetryDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return &StorageError{Op: "upload", Container: container, Blob: name, Err: err}
	}
	c.logger.Debug("blob uploaded", "container", container, "blob", name, "bytes", len(data))
	return nil
}

// EnsureContainer creates the container if it does not already exist.
func (c *Client) EnsureContainer(ctx context.Context, container string) error {
	query := url.Values{"restype": {"container"}}
	_, status, err := c.do(ctx, http.MethodPut, container, "", query, nil, "")
	if err != nil {
		// 409 means the container already exists, which is fine.
		if status == http.StatusConflict {
			return nil
		}
		return &StorageError{Op: "create-container", Container: container, Err: err}
	}
	c.logger.Info("container created", "container", container)
	return nil
}

// do performs one signed request and returns the response body and status.
func (c *Client) do(ctx context.Context, method, container, blob string, query url.Values, body []byte, contentType string) ([]byte, int, error) {
	u := c.creds.Endpoint + "/" + container
	if blob != "" {
		u += "/" + url.PathEscape(blob)
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.ContentLength = int64(len(body))
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if method == http.MethodPut && blob != "" {
		req.Header.Set("x-ms-blob-type", "BlockBlob")
	}
	req.Header.Set("x-ms-date", c.now().UTC().Format(http.TimeFormat))
	req.Header.Set("x-ms-version", apiVersion)
	c.creds.sign(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, fmt.Errorf("status %d: %s", resp.StatusCode, condense(respBody))
	}
	return respBody, resp.StatusCode, nil
}

// condense trims an error body down to a loggable single line.
func condense(body []byte) string {
	s := strings.Join(strings.Fields(string(body)), " ")
	if len(s) > 300 {
		s = s[:300] + "..."
	}
	return s
}
