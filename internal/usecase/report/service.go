// Package report runs one document comparison end to end: extraction, diff,
// recursive summarization and bullet formatting.
package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"docdiff/internal/domain/entity"
	"docdiff/internal/infra/extractor"
	"docdiff/internal/observability/logging"
	"docdiff/internal/observability/metrics"
	"docdiff/internal/observability/tracing"
	"docdiff/internal/usecase/summary"
)

// DocumentSource reads a document, local or remote, into lines.
type DocumentSource interface {
	Extract(ctx context.Context, location string) (*extractor.Document, error)
}

// Differ computes the change set between two line sequences.
type Differ interface {
	Diff(oldLines, newLines []entity.Line) entity.ChangeSet
}

// Summarizer condenses a change set.
type Summarizer interface {
	Summarize(ctx context.Context, changes entity.ChangeSet) (string, summary.Report)
}

// Formatter renders a summary as bullets.
type Formatter interface {
	Format(summary string) entity.BulletList
}

// Result is the outcome of one comparison run.
type Result struct {
	RunID    string
	Old      *extractor.Document
	New      *extractor.Document
	Changes  entity.ChangeSet
	Summary  string
	Bullets  entity.BulletList
	Report   summary.Report
	Duration time.Duration
}

// Service orchestrates a comparison run.
type Service struct {
	Source     DocumentSource
	Differ     Differ
	Summarizer Summarizer
	Formatter  Formatter

	// Tracer overrides the global tracer. Optional.
	Tracer trace.Tracer
}

// NewService creates a new report Service with the provided dependencies.
func NewService(source DocumentSource, differ Differ, summarizer Summarizer, formatter Formatter) *Service {
	return &Service{
		Source:     source,
		Differ:     differ,
		Summarizer: summarizer,
		Formatter:  formatter,
	}
}

// Run compares the documents at oldPath and newPath.
//
// Extraction failures abort the run and are returned as entity.ExtractionError.
// Summarization failures never fail the run; they are visible in Result.Report
// and, for the final pass, in the summary text itself.
func (s *Service) Run(ctx context.Context, oldPath, newPath string) (*Result, error) {
	start := time.Now()
	runID := uuid.New().String()
	logger := logging.WithRunID(slog.Default(), runID)

	ctx, span := s.tracer().Start(ctx, "docdiff.run", trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.String("document.old", oldPath),
		attribute.String("document.new", newPath)))
	defer span.End()

	oldDoc, err := s.extract(ctx, logger, oldPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		return nil, err
	}
	newDoc, err := s.extract(ctx, logger, newPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		return nil, err
	}

	_, diffSpan := s.tracer().Start(ctx, "compare.diff")
	changes := s.Differ.Diff(oldDoc.Lines, newDoc.Lines)
	added, removed := changes.Count(entity.Added), changes.Count(entity.Removed)
	diffSpan.SetAttributes(attribute.Int("lines.added", added), attribute.Int("lines.removed", removed))
	diffSpan.End()
	metrics.RecordChanges(added, removed)

	logger.InfoContext(ctx, "documents compared",
		slog.Int("added", added),
		slog.Int("removed", removed))

	text, report := s.Summarizer.Summarize(ctx, changes)
	bullets := s.Formatter.Format(text)
	metrics.UpdateBulletsRendered(bullets.Len())

	duration := time.Since(start)
	metrics.RecordRunDuration(duration)

	span.SetAttributes(attribute.Int("bullets", bullets.Len()))
	logger.InfoContext(ctx, "run completed",
		slog.Int("bullets", bullets.Len()),
		slog.Bool("incomplete", report.Incomplete()),
		slog.Duration("duration", duration))

	return &Result{
		RunID:    runID,
		Old:      oldDoc,
		New:      newDoc,
		Changes:  changes,
		Summary:  text,
		Bullets:  bullets,
		Report:   report,
		Duration: duration,
	}, nil
}

func (s *Service) extract(ctx context.Context, logger *slog.Logger, path string) (*extractor.Document, error) {
	ctx, span := s.tracer().Start(ctx, "extractor.extract", trace.WithAttributes(attribute.String("document.path", path)))
	defer span.End()

	doc, err := s.Source.Extract(ctx, path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		logger.ErrorContext(ctx, "document extraction failed",
			slog.String("path", path),
			slog.Any("error", err))
		return nil, err
	}

	span.SetAttributes(attribute.String("document.format", doc.Format), attribute.Int("lines", len(doc.Lines)))
	metrics.RecordDocumentLines(doc.Format, len(doc.Lines))
	logger.DebugContext(ctx, "document extracted",
		slog.String("path", path),
		slog.String("format", doc.Format),
		slog.Int("lines", len(doc.Lines)))
	return doc, nil
}

func (s *Service) tracer() trace.Tracer {
	if s.Tracer != nil {
		return s.Tracer
	}
	return tracing.GetTracer()
}
