package usecase

import (
	"context"
	"time"

	"loc8r/internal/config"
	"loc8r/internal/entity"
	"loc8r/internal/htmldoc"
	"loc8r/internal/locator"
	"loc8r/internal/ports"
	"loc8r/pkg/apperr"
	"loc8r/pkg/logg"
	"loc8r/pkg/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	scanServiceName = "ScanService"
	scanTracer      = "usecase.scanner"
)

// ScanService runs the scan pipeline: enumerate interactables, resolve
// each element's locators through the uniqueness oracle, assemble the
// result in DOM traversal order.
type ScanService struct {
	config   *config.Config
	logger   *zap.Logger
	browser  ports.BrowserManager
	resolver *locator.Resolver
	tracer   trace.Tracer
}

type ScanServiceParams struct {
	fx.In

	Config  *config.Config
	Logger  *zap.Logger
	Browser ports.BrowserManager
}

func NewScanService(params ScanServiceParams) *ScanService {
	opts := locator.OptionsFromConfig(params.Config.ScanConfig)

	return &ScanService{
		config:   params.Config,
		logger:   params.Logger.With(zap.String(logg.Layer, scanServiceName)),
		browser:  params.Browser,
		resolver: locator.NewResolver(params.Logger, opts),
		tracer:   otel.Tracer(scanTracer),
	}
}

// Scan snapshots the current live page and resolves locators for every
// interactable element on it.
func (s *ScanService) Scan(ctx context.Context) (result *entity.ScanResult, err error) {
	const op = "Scan"
	logger := s.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	if !s.browser.IsReady() {
		return nil, apperr.WrapErrorWithReason(op, apperr.CodeBrowserNotReady, "browser_not_ready")
	}

	doc, err := s.browser.Document(ctx)
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeDocumentUnavailable, err, map[string]any{
			apperr.MetaReason: "document_unavailable",
			apperr.MetaStage:  apperr.StageScan,
		})
	}

	url, title, err := s.browser.PageInfo(ctx)
	if err != nil {
		logger.Warn("Failed to read page info", zap.Error(err))
	}

	step.AddEvent("document acquired")

	return s.scanDocument(ctx, logger, step, doc, url, title)
}

// ScanFile runs the identical pipeline against a static HTML file, no
// browser involved.
func (s *ScanService) ScanFile(ctx context.Context, path string) (result *entity.ScanResult, err error) {
	const op = "ScanFile"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.Path, path))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.String("path", path))
	defer func() {
		step.End(err)
	}()

	doc, err := htmldoc.Open(path, s.config.ScanConfig.AncestorDepth)
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeDocumentUnavailable, err, map[string]any{
			apperr.MetaReason: "html_file_unreadable",
			apperr.MetaStage:  apperr.StageScan,
			apperr.MetaPath:   path,
		})
	}

	return s.scanDocument(ctx, logger, step, doc, path, "")
}

// Check probes a single selector against the live page and reports its
// match count.
func (s *ScanService) Check(ctx context.Context, family entity.LocatorFamily, selector string) (count int, err error) {
	const op = "Check"
	logger := s.logger.With(
		zap.String(logg.Operation, op),
		zap.String(logg.Family, string(family)),
		zap.String(logg.Selector, selector))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op,
		attribute.String("family", string(family)),
		attribute.String("selector", selector))
	defer func() {
		step.End(err)
	}()

	if !s.browser.IsReady() {
		return -1, apperr.WrapErrorWithReason(op, apperr.CodeBrowserNotReady, "browser_not_ready")
	}

	doc, err := s.browser.Document(ctx)
	if err != nil {
		return -1, err
	}

	timeout := time.Duration(s.config.ScanConfig.OracleTimeout) * time.Millisecond
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return doc.Count(ctx, family, selector)
}

func (s *ScanService) scanDocument(ctx context.Context, logger *zap.Logger, step *tracing.Span, doc ports.Document, url, title string) (*entity.ScanResult, error) {
	const op = "scanDocument"

	result := &entity.ScanResult{
		ID:        uuid.New(),
		URL:       url,
		Title:     title,
		StartedAt: time.Now(),
	}

	logger = logger.With(zap.String(logg.ScanID, result.ID.String()))

	snapshots, err := doc.Interactables(ctx)
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeDocumentUnavailable, err, map[string]any{
			apperr.MetaReason: "introspection_failed",
			apperr.MetaStage:  apperr.StageIntrospect,
			apperr.MetaScanID: result.ID.String(),
		})
	}

	logger.Info("Interactable elements found", zap.Int("count", len(snapshots)))
	step.AddEvent("interactables enumerated", attribute.Int("count", len(snapshots)))

	result.Entries = make([]entity.ScanEntry, 0, len(snapshots))

	for i, snap := range snapshots {
		// Cooperative cancellation between elements, never mid-candidate.
		select {
		case <-ctx.Done():
			return result, apperr.Wrap(op, apperr.CodeCancelled, ctx.Err(), map[string]any{
				apperr.MetaReason: "scan_cancelled",
				apperr.MetaScanID: result.ID.String(),
			})
		default:
		}

		entry := s.resolver.ResolveElement(ctx, doc, i+1, snap)
		if entry.Error != "" {
			logger.Warn("Element resolution failed",
				zap.Int("index", entry.Index),
				zap.String(logg.Tag, entry.Tag),
				zap.String("error", entry.Error))
		}

		result.Entries = append(result.Entries, entry)
	}

	step.AddEvent("scan completed", attribute.Int("elements", len(result.Entries)))

	return result, nil
}
