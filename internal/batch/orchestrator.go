// Package batch drives the per-document pipeline across every PDF in the
// input container and folds the outcomes into a batch summary.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mwhitaker/policyscan/internal/assemble"
	"github.com/mwhitaker/policyscan/internal/azblob"
	"github.com/mwhitaker/policyscan/internal/docintel"
	"github.com/mwhitaker/policyscan/internal/layout"
	"github.com/mwhitaker/policyscan/internal/rules"
)

// ObjectStore is the storage surface the orchestrator needs.
// *azblob.Client satisfies it.
type ObjectStore interface {
	List(ctx context.Context, container, extFilter string) ([]azblob.BlobInfo, error)
	Download(ctx context.Context, container, name string) ([]byte, error)
	Upload(ctx context.Context, container, name string, data []byte, contentType string) error
	EnsureContainer(ctx context.Context, container string) error
	SignedURL(container, name string, ttl time.Duration) (string, error)
}

// Analyzer is the layout-analysis surface the orchestrator needs.
// *docintel.Client satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, documentURL string) (*docintel.AnalyzeResult, error)
	AnalyzeBytes(ctx context.Context, data []byte) (*docintel.AnalyzeResult, error)
}

// Config configures an Orchestrator.
type Config struct {
	PDFContainer  string
	JSONContainer string
	SASTTL        time.Duration

	// PacingDelay is the enforced wait between documents so the analysis
	// service is not hammered. Never applied after the last document.
	PacingDelay time.Duration

	// TransferDirect downloads PDF bytes and submits them inline instead
	// of handing the service a signed URL. Needed for accounts with
	// shared-access signatures disabled.
	TransferDirect bool

	Logger *slog.Logger
}

// Orchestrator runs the fetch → analyze → enrich → persist pipeline.
// Documents are processed strictly one at a time, in listing order.
type Orchestrator struct {
	store    ObjectStore
	analyzer Analyzer
	cfg      Config
	logger   *slog.Logger

	// Injectable for deterministic tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates an orchestrator.
func New(store ObjectStore, analyzer Analyzer, cfg Config) *Orchestrator {
	if cfg.SASTTL <= 0 {
		cfg.SASTTL = 2 * time.Hour
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Orchestrator{
		store:    store,
		analyzer: analyzer,
		cfg:      cfg,
		logger:   cfg.Logger.With("component", "batch"),
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// ProcessBlob runs the full pipeline for one PDF blob and returns the
// persisted extraction document.
func (o *Orchestrator) ProcessBlob(ctx context.Context, blobName string) (*assemble.ExtractionDocument, error) {
	logger := o.logger.With("blob", blobName)
	logger.Info("processing document")

	raw, err := o.analyzeBlob(ctx, blobName)
	if err != nil {
		return nil, err
	}

	doc := layout.FromAnalyzeResult(blobName, raw)
	meta := rules.Extract(doc.FullText)
	extraction := assemble.New(doc, meta, o.now())

	data, err := extraction.Marshal()
	if err != nil {
		return nil, err
	}

	outName := OutputBlobName(blobName)
	if err := o.store.Upload(ctx, o.cfg.JSONContainer, outName, data, "application/json"); err != nil {
		return nil, err
	}

	logger.Info("document processed",
		"output", outName,
		"pages", extraction.PageCount,
		"rules", extraction.RulesCount,
		"document_type", extraction.Metadata.DocumentType,
	)
	return extraction, nil
}

// analyzeBlob submits one blob to the layout-analysis service, either by
// signed URL (default) or by direct byte transfer.
func (o *Orchestrator) analyzeBlob(ctx context.Context, blobName string) (*docintel.AnalyzeResult, error) {
	if o.cfg.TransferDirect {
		data, err := o.store.Download(ctx, o.cfg.PDFContainer, blobName)
		if err != nil {
			return nil, err
		}
		return o.analyzer.AnalyzeBytes(ctx, data)
	}

	signedURL, err := o.store.SignedURL(o.cfg.PDFContainer, blobName, o.cfg.SASTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate signed url for %s: %w", blobName, err)
	}
	return o.analyzer.Analyze(ctx, signedURL)
}

// Run processes every PDF in the input container. Per-document failures are
// recorded and the batch continues; cancellation fails the in-flight
// document and abandons the remainder. The summary artifact is uploaded at
// the end; if that upload fails the summary is still returned.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.New().String()[:8]
	logger := o.logger.With("run_id", runID)

	if err := o.store.EnsureContainer(ctx, o.cfg.JSONContainer); err != nil {
		// Upload will surface the real problem per document.
		logger.Warn("could not ensure output container", "error", err)
	}

	blobs, err := o.store.List(ctx, o.cfg.PDFContainer, ".pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to list input container: %w", err)
	}
	if len(blobs) == 0 {
		logger.Warn("no PDF files found", "container", o.cfg.PDFContainer)
		return BuildSummary(nil, o.now()), nil
	}

	var totalSize int64
	for _, b := range blobs {
		totalSize += b.Size
	}
	logger.Info("starting batch",
		"files", len(blobs),
		"total_mb", fmt.Sprintf("%.2f", float64(totalSize)/(1024*1024)),
		"estimated_pages", len(blobs)*15,
	)

	var results []Result
	for i, blob := range blobs {
		logger.Info("batch progress", "index", i+1, "total", len(blobs), "blob", blob.Name)

		doc, err := o.ProcessBlob(ctx, blob.Name)
		if err != nil {
			logger.Error("document failed", "blob", blob.Name, "error", err)
			results = append(results, Result{
				BlobName:  blob.Name,
				Status:    StatusFailed,
				Error:     err.Error(),
				Timestamp: o.now().UTC().Format(time.RFC3339),
			})
			// Batch-level cancellation: the in-flight document is recorded
			// as failed and the remaining documents are abandoned.
			if ctx.Err() != nil {
				logger.Warn("batch cancelled", "remaining", len(blobs)-i-1)
				break
			}
		} else {
			results = append(results, Result{
				BlobName:  blob.Name,
				Status:    StatusSuccess,
				Pages:     doc.PageCount,
				Rules:     doc.RulesCount,
				JSONBlob:  OutputBlobName(blob.Name),
				Timestamp: o.now().UTC().Format(time.RFC3339),
			})
		}

		if i < len(blobs)-1 && o.cfg.PacingDelay > 0 {
			if err := o.sleep(ctx, o.cfg.PacingDelay); err != nil {
				logger.Warn("batch cancelled during pacing", "remaining", len(blobs)-i-1)
				break
			}
		}
	}

	summary := BuildSummary(results, o.now())
	if err := o.uploadSummary(ctx, summary); err != nil {
		// Summary persistence failure never changes recorded outcomes.
		logger.Warn("could not upload batch summary", "error", err)
	}

	logger.Info("batch complete",
		"successful", summary.Successful,
		"failed", summary.Failed,
		"total_pages", summary.TotalPages,
		"total_rules", summary.TotalRules,
	)
	return summary, nil
}

func (o *Orchestrator) uploadSummary(ctx context.Context, summary *Summary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize summary: %w", err)
	}
	name := SummaryBlobName(o.now())
	return o.store.Upload(ctx, o.cfg.JSONContainer, name, data, "application/json")
}

// sleepCtx waits for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
