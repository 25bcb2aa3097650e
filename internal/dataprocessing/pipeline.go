package dataprocessing

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/shantanuseth8203/Data-Visualization/internal/errors"
	"github.com/shantanuseth8203/Data-Visualization/pkg/contracts/domain"
)

const tracerName = "salespulse/dataprocessing"

// Recorder receives pipeline measurements. infrastructure.PipelineMetrics
// implements it on top of OpenTelemetry.
type Recorder interface {
	RecordRun(ctx context.Context, duration time.Duration, err error)
	RecordDropped(ctx context.Context, table, reason string, rows int)
}

type noopRecorder struct{}

func (noopRecorder) RecordRun(context.Context, time.Duration, error)    {}
func (noopRecorder) RecordDropped(context.Context, string, string, int) {}

// Pipeline runs the full batch computation over one snapshot. It holds no
// per-run state, so one instance may be invoked repeatedly.
type Pipeline struct {
	logger   *slog.Logger
	opts     Options
	recorder Recorder
	tracer   trace.Tracer
	now      func() time.Time
}

// PipelineOption customises a Pipeline.
type PipelineOption func(*Pipeline)

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) PipelineOption {
	return func(p *Pipeline) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithClock overrides the clock used for ResultSet.ComputedAt.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPipeline creates a pipeline. Blank column names in opts fall back to
// DefaultOptions.
func NewPipeline(logger *slog.Logger, opts Options, options ...PipelineOption) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{
		logger:   logger.With(slog.String("component", "pipeline")),
		opts:     opts.normalized(),
		recorder: noopRecorder{},
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}
	for _, o := range options {
		o(p)
	}
	return p
}

// Compute is a convenience wrapper around NewPipeline(slog.Default(), opts).Compute.
func Compute(ctx context.Context, snap domain.Snapshot, opts Options) (*ResultSet, error) {
	return NewPipeline(slog.Default(), opts).Compute(ctx, snap)
}

// Compute normalizes the three tables, joins sales to products, aggregates
// the sales by day and month and derives statistics and the trend line.
// Schema, integrity and join ambiguity errors abort the run and no partial
// result is returned. Too few points for a trend only blanks the trend.
func (p *Pipeline) Compute(ctx context.Context, snap domain.Snapshot) (*ResultSet, error) {
	start := time.Now()
	runID := uuid.New().String()
	logger := p.logger.With(slog.String("run_id", runID))

	ctx, span := p.tracer.Start(ctx, "pipeline.compute", trace.WithAttributes(attribute.String("run_id", runID)))
	defer span.End()

	result, err := p.compute(ctx, logger, runID, snap)
	duration := time.Since(start)
	p.recorder.RecordRun(ctx, duration, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "pipeline failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", duration))
		return nil, err
	}

	logger.InfoContext(ctx, "pipeline completed",
		slog.Int("days", len(result.DailySeries)),
		slog.Int("months", len(result.MonthlyRollup)),
		slog.Int("enriched", len(result.enriched)),
		slog.Int("warnings", len(result.Warnings)),
		slog.Duration("duration", duration))
	return result, nil
}

func (p *Pipeline) compute(ctx context.Context, logger *slog.Logger, runID string, snap domain.Snapshot) (*ResultSet, error) {
	if err := p.opts.Validate(); err != nil {
		return nil, err
	}
	var report domain.StageReport

	// Normalize
	_, span := p.tracer.Start(ctx, "pipeline.normalize")
	sales, salesReport, err := NormalizeSales(snap.Sales, p.opts.Sales, NormalizeOptions{DropUnparseable: p.opts.DropUnparseable})
	if err != nil {
		endSpan(span, err)
		return nil, err
	}
	products, productsReport, err := NormalizeProducts(snap.Products, p.opts.Products)
	if err != nil {
		endSpan(span, err)
		return nil, err
	}
	_, customersReport, err := NormalizeCustomers(snap.Customers, p.opts.Customers)
	if err != nil {
		endSpan(span, err)
		return nil, err
	}
	report.Sales, report.Products, report.Customers = salesReport, productsReport, customersReport
	span.SetAttributes(
		attribute.Int("sales.output", salesReport.Output),
		attribute.Int("products.output", productsReport.Output),
		attribute.Int("customers.output", customersReport.Output))
	endSpan(span, nil)

	for _, tr := range []domain.TableReport{salesReport, productsReport, customersReport} {
		p.logTableReport(ctx, logger, tr)
	}

	// Join
	_, span = p.tracer.Start(ctx, "pipeline.join")
	enriched, joinReport, err := Join(sales, products, p.opts.JoinKey)
	endSpan(span, err)
	if err != nil {
		return nil, err
	}
	report.Join = joinReport
	if joinReport.Unmatched > 0 {
		p.recorder.RecordDropped(ctx, "sales", "unmatched_join_key", joinReport.Unmatched)
		logger.WarnContext(ctx, "sales rows without matching product dropped",
			slog.String("join_key", p.opts.JoinKey),
			slog.Int("unmatched", joinReport.Unmatched),
			slog.Int("kept", joinReport.Output))
	}

	// Aggregate
	_, span = p.tracer.Start(ctx, "pipeline.aggregate")
	for i, s := range sales {
		if s.Date.IsZero() {
			err := apperrors.NewDataIntegrityError(tableName(snap.Sales, "sales"), p.opts.Sales.Date, i+1, s.Date, nil)
			endSpan(span, err)
			return nil, err
		}
	}
	daily := AggregateDaily(sales)
	monthly := AggregateMonthly(sales)
	endSpan(span, nil)

	// Statistics
	result := &ResultSet{
		RunID:         runID,
		ComputedAt:    p.now().UTC(),
		DailySeries:   daily,
		MonthlyRollup: monthly,
		Summary:       Summarize(daily),
		Report:        report,
		Warnings:      []string{},
		enriched:      enriched,
	}
	if result.Summary.StdDev == nil {
		result.Warnings = append(result.Warnings,
			apperrors.NewInsufficientDataError("standard deviation", result.Summary.Count, 2).Message)
	}

	trend, err := FitTrend(daily)
	switch {
	case err == nil:
		result.Trend = &trend
	case !isFatal(err):
		result.Warnings = append(result.Warnings, warningText(err))
		logger.WarnContext(ctx, "trend line unavailable", slog.String("reason", err.Error()))
	default:
		return nil, err
	}

	return result, nil
}

func (p *Pipeline) logTableReport(ctx context.Context, logger *slog.Logger, tr domain.TableReport) {
	reasons := []struct {
		reason string
		rows   int
	}{
		{"null", tr.DroppedNull},
		{"unparseable", tr.DroppedUnparseable},
		{"duplicate", tr.DroppedDuplicate},
	}
	for _, r := range reasons {
		if r.rows > 0 {
			p.recorder.RecordDropped(ctx, tr.Table, r.reason, r.rows)
		}
	}
	logger.InfoContext(ctx, "table normalized",
		slog.String("table", tr.Table),
		slog.Int("input", tr.Input),
		slog.Int("dropped_null", tr.DroppedNull),
		slog.Int("dropped_unparseable", tr.DroppedUnparseable),
		slog.Int("dropped_duplicate", tr.DroppedDuplicate),
		slog.Int("output", tr.Output))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// isFatal reports whether err must abort the run rather than blank one figure.
func isFatal(err error) bool {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Fatal()
	}
	return true
}

func warningText(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
