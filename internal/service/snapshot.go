package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"pricing_history/internal/config"
	"pricing_history/internal/domain"
	"pricing_history/internal/metrics"
)

// FunctionName labels diagnostics rows written by the snapshot pipeline.
const FunctionName = "PriceSnapshot"

const cleanupTimeout = 30 * time.Second

// SnapshotService ingests one pricing snapshot across all configured currencies.
type SnapshotService struct {
	source      Source
	upserter    *Upserter
	runs        RunStore
	diagnostics DiagnosticsStore
	publisher   Publisher
	metrics     *metrics.Metrics
	logger      *slog.Logger
	config      config.SnapshotConfig

	now func() time.Time
}

func NewSnapshotService(
	source Source,
	upserter *Upserter,
	runs RunStore,
	diagnostics DiagnosticsStore,
	publisher Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
	cfg config.SnapshotConfig,
) *SnapshotService {
	return &SnapshotService{
		source:      source,
		upserter:    upserter,
		runs:        runs,
		diagnostics: diagnostics,
		publisher:   publisher,
		metrics:     m,
		logger:      logger.With("source", source.ID()),
		config:      cfg,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Run processes every currency in order and stops at the first failure.
// The report is returned in both cases and lists the currencies attempted.
func (s *SnapshotService) Run(ctx context.Context, trigger domain.Trigger) (*domain.SnapshotReport, error) {
	startedAt := s.now()
	report := &domain.SnapshotReport{
		InvocationID: uuid.NewString(),
		SnapshotID:   domain.SnapshotIDFor(startedAt),
		Trigger:      trigger,
		StartedAt:    startedAt,
	}

	logger := s.logger.With(
		"invocation_id", report.InvocationID,
		"snapshot_id", report.SnapshotID,
		"trigger", trigger,
	)

	s.recordDiagnostics(ctx, logger, trigger, startedAt)
	report.HungReaped = s.reapHungRuns(ctx, logger)

	logger.Info("starting price snapshot",
		"currencies", len(s.config.Currencies),
		"batch_size", s.config.BatchSize,
	)

	for _, currency := range s.config.Currencies {
		result := s.processCurrency(ctx, logger, report, currency)
		report.Results = append(report.Results, result)

		if result.Err != nil {
			report.FinishedAt = s.now()
			s.markSnapshotFailed(ctx, logger, report.SnapshotID)
			logger.Error("price snapshot failed",
				"results", strings.Join(report.Lines(), ", "),
				"error", result.Err,
			)
			return report, fmt.Errorf("process currency %s: %w", currency, result.Err)
		}
	}

	report.FinishedAt = s.now()
	logger.Info("price snapshot completed",
		"results", strings.Join(report.Lines(), ", "),
		"total_items", report.TotalItems(),
		"duration", report.FinishedAt.Sub(report.StartedAt),
	)

	return report, nil
}

func (s *SnapshotService) processCurrency(
	ctx context.Context,
	logger *slog.Logger,
	report *domain.SnapshotReport,
	currency string,
) domain.CurrencyResult {
	logger = logger.With("currency", currency)
	startedAt := s.now()

	logger.Info("starting ingestion for currency")

	total, err := s.ingestCurrency(ctx, logger, report.SnapshotID, currency, startedAt)
	finishedAt := s.now()

	result := domain.CurrencyResult{
		Currency: currency,
		Duration: finishedAt.Sub(startedAt),
	}

	if err != nil {
		result.Status = domain.RunStatusFailed
		result.Err = err
		logger.Error("failed to process currency", "error", err)
		s.finishFailed(ctx, logger, report.SnapshotID, currency)
	} else {
		result.Status = domain.RunStatusSucceeded
		result.Items = total
		logger.Info("completed currency",
			"items", total,
			"duration", result.Duration,
		)
	}

	s.metrics.RunFinished(currency, result.Status, result.Duration)

	event := &domain.RunEvent{
		InvocationID: report.InvocationID,
		SnapshotID:   report.SnapshotID,
		Currency:     currency,
		Status:       result.Status,
		ItemCount:    result.Items,
		Trigger:      report.Trigger,
		StartedAt:    startedAt,
		FinishedAt:   finishedAt,
	}
	if err != nil {
		event.Error = err.Error()
	}
	s.publishRun(ctx, logger, event)

	return result
}

// ingestCurrency walks every page for one currency and returns the number of
// items committed.
func (s *SnapshotService) ingestCurrency(
	ctx context.Context,
	logger *slog.Logger,
	snapshotID, currency string,
	startedAt time.Time,
) (int, error) {
	if err := s.runs.Start(ctx, snapshotID, currency, startedAt); err != nil {
		return 0, fmt.Errorf("start run: %w", err)
	}

	total := 0
	pageURL := s.source.FirstPageURL(currency)

	for page := 1; ; page++ {
		p, err := s.source.FetchPage(ctx, pageURL)
		if err != nil {
			return 0, fmt.Errorf("fetch page %d: %w", page, err)
		}

		if len(p.Items) > 0 {
			n, err := s.upserter.Upsert(ctx, snapshotID, currency, p.Items)
			if err != nil {
				return 0, fmt.Errorf("upsert page %d: %w", page, err)
			}
			total += n
		}

		logger.Info("processed page",
			"page", page,
			"items", len(p.Items),
			"total", total,
		)

		if !p.HasNext() {
			break
		}
		pageURL = p.NextPageLink
	}

	if err := s.runs.Finish(ctx, snapshotID, currency, domain.RunStatusSucceeded, total); err != nil {
		return 0, fmt.Errorf("finish run: %w", err)
	}

	return total, nil
}

// cleanupContext outlives cancellation of ctx so failure bookkeeping still lands.
func cleanupContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
}

func (s *SnapshotService) finishFailed(ctx context.Context, logger *slog.Logger, snapshotID, currency string) {
	cctx, cancel := cleanupContext(ctx)
	defer cancel()

	if err := s.runs.Finish(cctx, snapshotID, currency, domain.RunStatusFailed, 0); err != nil {
		logger.Error("failed to mark run as failed", "error", err)
	}
}

func (s *SnapshotService) markSnapshotFailed(ctx context.Context, logger *slog.Logger, snapshotID string) {
	cctx, cancel := cleanupContext(ctx)
	defer cancel()

	n, err := s.runs.MarkFailed(cctx, snapshotID, "")
	if err != nil {
		logger.Error("failed to mark snapshot as failed", "error", err)
		return
	}
	if n > 0 {
		logger.Warn("marked running runs as failed", "count", n)
	}
}

func (s *SnapshotService) reapHungRuns(ctx context.Context, logger *slog.Logger) int64 {
	n, err := s.runs.ReapHung(ctx, s.config.MaxRunAge)
	if err != nil {
		logger.Error("failed to clean up hung runs", "error", err)
		return 0
	}
	if n > 0 {
		logger.Warn("cleaned up hung runs",
			"count", n,
			"max_age", s.config.MaxRunAge,
		)
		s.metrics.HungRunsReaped(n)
	}
	return n
}

func (s *SnapshotService) recordDiagnostics(ctx context.Context, logger *slog.Logger, trigger domain.Trigger, at time.Time) {
	if s.diagnostics == nil {
		return
	}
	msg := fmt.Sprintf("snapshot started at %s (%s)", at.Format(time.RFC3339), trigger)
	if err := s.diagnostics.Record(ctx, FunctionName, msg); err != nil {
		logger.Error("diagnostics write failed", "error", err)
	}
}

func (s *SnapshotService) publishRun(ctx context.Context, logger *slog.Logger, event *domain.RunEvent) {
	if s.publisher == nil {
		return
	}
	cctx, cancel := cleanupContext(ctx)
	defer cancel()

	if err := s.publisher.PublishRun(cctx, event); err != nil {
		logger.Warn("failed to publish run event", "error", err)
	}
}
