// Package summary condenses a change set into one summary string using one or
// two summarization passes over positional chunks.
package summary

import (
	"context"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"docdiff/internal/config"
	"docdiff/internal/domain/entity"
	"docdiff/internal/observability/metrics"
	"docdiff/internal/observability/tracing"
	"docdiff/internal/utils/text"
)

// Gateway is the summarization capability consumed by the Service.
// Both calls are single-shot from the caller's point of view.
type Gateway interface {
	SummarizeChunk(ctx context.Context, chunk string, maxOutputTokens int) (string, error)
	SummarizeFinal(ctx context.Context, chunk string, maxOutputTokens int) (string, error)
}

// Options holds the sizing parameters of both passes.
type Options struct {
	ChunkSizePass1       int
	ChunkSizePass2       int
	WordCountThreshold   int
	MaxOutputTokensPass1 int
	MaxOutputTokensPass2 int
	FallbackMarker       string
	// Concurrency bounds parallel gateway calls within a pass. Values below 2
	// run calls one after another.
	Concurrency int
}

// OptionsFromConfig maps the summary section of the configuration.
func OptionsFromConfig(cfg config.SummaryConfig) Options {
	return Options{
		ChunkSizePass1:       cfg.ChunkSizePass1,
		ChunkSizePass2:       cfg.ChunkSizePass2,
		WordCountThreshold:   cfg.WordCountThreshold,
		MaxOutputTokensPass1: cfg.MaxOutputTokensPass1,
		MaxOutputTokensPass2: cfg.MaxOutputTokensPass2,
		FallbackMarker:       cfg.FallbackMarker,
		Concurrency:          cfg.Concurrency,
	}
}

// DefaultOptions returns the options of the default configuration.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default().Summary)
}

// Report describes what happened during one Summarize call.
type Report struct {
	Pass1Chunks    int  `json:"pass1_chunks"`
	Pass1Failures  int  `json:"pass1_failures"`
	Pass1Words     int  `json:"pass1_words"`
	Pass2Triggered bool `json:"pass2_triggered"`
	Pass2Chunks    int  `json:"pass2_chunks"`
	Pass2Failures  int  `json:"pass2_failures"`
}

// Incomplete reports whether any chunk failed to summarize.
func (r Report) Incomplete() bool {
	return r.Pass1Failures > 0 || r.Pass2Failures > 0
}

// Service runs the recursive summarization pipeline.
type Service struct {
	gateway Gateway
	opts    Options

	// Tracer overrides the global tracer. Optional.
	Tracer trace.Tracer
}

// NewService creates a Service.
func NewService(gateway Gateway, opts Options) *Service {
	return &Service{
		gateway: gateway,
		opts:    opts,
	}
}

// chunkResult is the outcome of one gateway call within a pass.
type chunkResult struct {
	summary string
	err     error
}

// Summarize condenses changes into a single summary.
//
// Pass 1 sends chunks of ChunkSizePass1 characters; failed or empty chunk
// summaries are dropped. When the joined Pass 1 output has more than
// WordCountThreshold words it is re-chunked at ChunkSizePass2 and condensed
// again, and every failed Pass 2 chunk contributes FallbackMarker instead.
// Gateway failures never escape; they are counted in the returned Report.
func (s *Service) Summarize(ctx context.Context, changes entity.ChangeSet) (string, Report) {
	var report Report

	ctx, span := s.tracer().Start(ctx, "summary.summarize")
	defer span.End()

	blob := changes.Text()
	chunks := text.Chunk(blob, s.opts.ChunkSizePass1)
	report.Pass1Chunks = len(chunks)
	if len(chunks) == 0 {
		span.SetAttributes(attribute.Int("pass1.chunks", 0))
		return "", report
	}

	results := s.runPass(ctx, "summary.pass1", chunks, func(ctx context.Context, chunk string) (string, error) {
		return s.gateway.SummarizeChunk(ctx, chunk, s.opts.MaxOutputTokensPass1)
	})

	parts := make([]string, 0, len(results))
	for i, res := range results {
		if res.err != nil {
			report.Pass1Failures++
			slog.WarnContext(ctx, "chunk summarization failed, dropping chunk",
				slog.Int("chunk", i),
				slog.Any("error", res.err))
			continue
		}
		if res.summary == "" {
			continue
		}
		parts = append(parts, res.summary)
	}
	combined := strings.Join(parts, " ")
	report.Pass1Words = text.CountWords(combined)
	metrics.RecordPass(1, report.Pass1Chunks, report.Pass1Failures)

	span.SetAttributes(
		attribute.Int("pass1.chunks", report.Pass1Chunks),
		attribute.Int("pass1.failures", report.Pass1Failures),
		attribute.Int("pass1.words", report.Pass1Words))

	if report.Pass1Words <= s.opts.WordCountThreshold {
		s.logReport(ctx, report)
		return combined, report
	}

	report.Pass2Triggered = true
	metrics.RecordSecondPassTriggered()
	slog.InfoContext(ctx, "combined summary exceeds word threshold, running final pass",
		slog.Int("words", report.Pass1Words),
		slog.Int("threshold", s.opts.WordCountThreshold))

	finalChunks := text.Chunk(combined, s.opts.ChunkSizePass2)
	report.Pass2Chunks = len(finalChunks)

	results = s.runPass(ctx, "summary.pass2", finalChunks, func(ctx context.Context, chunk string) (string, error) {
		return s.gateway.SummarizeFinal(ctx, chunk, s.opts.MaxOutputTokensPass2)
	})

	parts = make([]string, 0, len(results))
	for i, res := range results {
		if res.err != nil {
			report.Pass2Failures++
			slog.ErrorContext(ctx, "final summarization failed, emitting fallback marker",
				slog.Int("chunk", i),
				slog.Any("error", res.err))
			parts = append(parts, s.opts.FallbackMarker)
			continue
		}
		parts = append(parts, res.summary)
	}
	metrics.RecordPass(2, report.Pass2Chunks, report.Pass2Failures)

	span.SetAttributes(
		attribute.Int("pass2.chunks", report.Pass2Chunks),
		attribute.Int("pass2.failures", report.Pass2Failures))
	if report.Pass2Failures > 0 {
		span.SetStatus(codes.Error, "final pass incomplete")
	}

	s.logReport(ctx, report)
	return strings.Join(parts, " "), report
}

// runPass calls fn for every chunk and returns the results in chunk order.
func (s *Service) runPass(
	ctx context.Context,
	name string,
	chunks []string,
	fn func(ctx context.Context, chunk string) (string, error),
) []chunkResult {
	ctx, span := s.tracer().Start(ctx, name, trace.WithAttributes(attribute.Int("chunks", len(chunks))))
	defer span.End()

	results := make([]chunkResult, len(chunks))
	call := func(i int) {
		chunkCtx, chunkSpan := s.tracer().Start(ctx, name+".chunk", trace.WithAttributes(
			attribute.Int("chunk.index", i),
			attribute.Int("chunk.length", text.CountRunes(chunks[i]))))
		defer chunkSpan.End()

		summary, err := fn(chunkCtx, chunks[i])
		if err != nil {
			chunkSpan.RecordError(err)
			chunkSpan.SetStatus(codes.Error, "summarization failed")
		}
		results[i] = chunkResult{summary: summary, err: err}
	}

	if s.opts.Concurrency < 2 {
		for i := range chunks {
			call(i)
		}
		return results
	}

	var eg errgroup.Group
	eg.SetLimit(s.opts.Concurrency)
	for i := range chunks {
		eg.Go(func() error {
			call(i)
			return nil
		})
	}
	_ = eg.Wait()

	return results
}

func (s *Service) logReport(ctx context.Context, report Report) {
	slog.InfoContext(ctx, "summarization completed",
		slog.Int("pass1_chunks", report.Pass1Chunks),
		slog.Int("pass1_failures", report.Pass1Failures),
		slog.Int("pass1_words", report.Pass1Words),
		slog.Bool("pass2_triggered", report.Pass2Triggered),
		slog.Int("pass2_chunks", report.Pass2Chunks),
		slog.Int("pass2_failures", report.Pass2Failures))
}

func (s *Service) tracer() trace.Tracer {
	if s.Tracer != nil {
		return s.Tracer
	}
	return tracing.GetTracer()
}
