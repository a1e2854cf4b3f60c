package docintel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// analyzeServer simulates the submit + poll flow: POST :analyze returns 202
// with an Operation-Location, GETs on that location walk through the given
// operation payloads in order.
func analyzeServer(t *testing.T, operations []string) *httptest.Server {
	t.Helper()
	polls := 0
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if !strings.Contains(r.URL.Path, ":analyze") {
				t.Errorf("unexpected submit path %s", r.URL.Path)
			}
			if r.Header.Get("Ocp-Apim-Subscription-Key") == "" {
				t.Error("submit must carry the subscription key")
			}
			w.Header().Set("Operation-Location", server.URL+"/operations/abc123")
			w.WriteHeader(http.StatusAccepted)
			return
		}
		if polls >= len(operations) {
			t.Fatal("polled past the last prepared operation state")
		}
		fmt.Fprint(w, operations[polls])
		polls++
	}))
	t.Cleanup(server.Close)
	return server
}

func newPollingClient(endpoint string) *Client {
	return NewClient(Config{
		Endpoint:     endpoint,
		APIKey:       "test-key",
		PollInterval: time.Millisecond,
		RateLimit:    1000,
		Logger:       testLogger(),
	})
}

func TestAnalyze(t *testing.T) {
	t.Run("polls until succeeded", func(t *testing.T) {
		server := analyzeServer(t, []string{
			`{"status":"running"}`,
			`{"status":"running"}`,
			`{"status":"succeeded","analyzeResult":{"content":"Prior authorization is required.","pages":[{"pageNumber":1}]}}`,
		})

		result, err := newPollingClient(server.URL).Analyze(context.Background(), "https://example.com/doc.pdf")
		if err != nil {
			t.Fatalf("Analyze() error = %v", err)
		}
		if result.Content != "Prior authorization is required." {
			t.Errorf("unexpected content: %q", result.Content)
		}
		if len(result.Pages) != 1 {
			t.Errorf("expected 1 page, got %d", len(result.Pages))
		}
	})

	t.Run("failed operation carries the service detail", func(t *testing.T) {
		server := analyzeServer(t, []string{
			`{"status":"failed","error":{"code":"InvalidContent","message":"The file is corrupted."}}`,
		})

		_, err := newPollingClient(server.URL).Analyze(context.Background(), "https://example.com/doc.pdf")
		var svcErr *ServiceError
		if !errors.As(err, &svcErr) {
			t.Fatalf("expected ServiceError, got %v", err)
		}
		if svcErr.Code != "InvalidContent" || svcErr.Message != "The file is corrupted." {
			t.Errorf("service detail lost: %+v", svcErr)
		}
	})

	t.Run("succeeded without a result is an error", func(t *testing.T) {
		server := analyzeServer(t, []string{`{"status":"succeeded"}`})

		_, err := newPollingClient(server.URL).Analyze(context.Background(), "https://example.com/doc.pdf")
		if err == nil {
			t.Fatal("expected error for missing analyzeResult")
		}
	})

	t.Run("analyze bytes submits base64 content", func(t *testing.T) {
		var submitted analyzeRequest
		var server *httptest.Server
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				if err := json.NewDecoder(r.Body).Decode(&submitted); err != nil {
					t.Errorf("failed to decode submit body: %v", err)
				}
				w.Header().Set("Operation-Location", server.URL+"/operations/xyz")
				w.WriteHeader(http.StatusAccepted)
				return
			}
			fmt.Fprint(w, `{"status":"succeeded","analyzeResult":{"content":""}}`)
		}))
		defer server.Close()

		_, err := newPollingClient(server.URL).AnalyzeBytes(context.Background(), []byte("%PDF-1.7"))
		if err != nil {
			t.Fatalf("AnalyzeBytes() error = %v", err)
		}
		if submitted.Base64Source != "JVBERi0xLjc=" {
			t.Errorf("expected base64 source, got %q", submitted.Base64Source)
		}
		if submitted.URLSource != "" {
			t.Errorf("url source must be empty for byte submission, got %q", submitted.URLSource)
		}
	})
}

func TestSubmitErrors(t *testing.T) {
	t.Run("4xx is not retried and parses the error envelope", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":{"code":"InvalidRequest","message":"Source URL is not accessible."}}`)
		}))
		defer server.Close()

		_, err := newPollingClient(server.URL).Analyze(context.Background(), "https://example.com/doc.pdf")
		var svcErr *ServiceError
		if !errors.As(err, &svcErr) {
			t.Fatalf("expected ServiceError, got %v", err)
		}
		if svcErr.StatusCode != http.StatusBadRequest || svcErr.Code != "InvalidRequest" {
			t.Errorf("envelope not parsed: %+v", svcErr)
		}
		if calls != 1 {
			t.Errorf("4xx should fail fast, got %d attempts", calls)
		}
	})

	t.Run("missing operation location fails immediately", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		}))
		defer server.Close()

		_, err := newPollingClient(server.URL).Analyze(context.Background(), "https://example.com/doc.pdf")
		if err == nil || !strings.Contains(err.Error(), "Operation-Location") {
			t.Errorf("expected missing header error, got %v", err)
		}
	})
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{Endpoint: "https://svc.example.com/", APIKey: "k"})

	if c.modelID != DefaultModelID {
		t.Errorf("expected default model, got %s", c.modelID)
	}
	if c.apiVersion != DefaultAPIVersion {
		t.Errorf("expected default api version, got %s", c.apiVersion)
	}
	if c.pollInterval != DefaultPollInterval || c.timeout != DefaultTimeout {
		t.Errorf("expected default intervals, got %v / %v", c.pollInterval, c.timeout)
	}
	if c.endpoint != "https://svc.example.com" {
		t.Errorf("trailing slash should be trimmed, got %s", c.endpoint)
	}
}
