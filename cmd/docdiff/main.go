// Package main provides the docdiff command, which summarizes the changes
// between two versions of a document as a bullet list.
// Usage: docdiff [flags] <old-document> <new-document>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"docdiff/internal/config"
	"docdiff/internal/infra/extractor"
	"docdiff/internal/infra/fetcher"
	"docdiff/internal/infra/summarizer"
	"docdiff/internal/observability/logging"
	"docdiff/internal/observability/metrics"
	"docdiff/internal/observability/tracing"
	"docdiff/internal/usecase/bullet"
	"docdiff/internal/usecase/compare"
	"docdiff/internal/usecase/report"
	"docdiff/internal/usecase/summary"
)

// Process exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

const usage = `Usage: docdiff [flags] <old-document> <new-document>

Documents are local paths or http(s) URLs.
Supported formats: .txt .md .html .htm .docx .pdf .rss .atom .xml

Examples:
  docdiff old.docx new.docx
  docdiff --output json --provider claude v1.md v2.md
  docdiff https://example.com/terms-2024.html https://example.com/terms-2025.html
  docdiff --config docdiff.yaml --metrics-file /var/lib/node_exporter/docdiff.prom a.pdf b.pdf

Flags:
`

// cliOptions holds the parsed command-line flags.
type cliOptions struct {
	configPath  string
	output      string
	noHeader    bool
	order       string
	provider    string
	model       string
	metricsFile string
	trace       bool
	timeout     time.Duration
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one comparison and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, paths, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n\n", err)
		_, _ = fmt.Fprint(stderr, usage)
		return exitUsage
	}

	cfg, err := config.Load(opts.configPath, opts.overrides()...)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: Failed to load configuration: %v\n", err)
		return exitFailure
	}

	logger := logging.NewLogger(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}, stderr)
	slog.SetDefault(logger)

	if opts.trace {
		shutdown := tracing.Setup(stderr)
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Error("failed to shut down tracer provider", slog.Any("error", err))
			}
		}()
	}

	svc, err := buildService(cfg)
	if err != nil {
		logger.Error("failed to initialize", slog.Any("error", err))
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	code := exitOK
	res, err := svc.Run(ctx, paths[0], paths[1])
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		code = exitFailure
	} else if err := report.Write(stdout, res, opts.output, !opts.noHeader); err != nil {
		logger.Error("failed to write output", slog.Any("error", err))
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		code = exitFailure
	}

	if opts.metricsFile != "" {
		if err := metrics.WriteTextfile(opts.metricsFile); err != nil {
			logger.Warn("failed to write metrics file",
				slog.String("path", opts.metricsFile),
				slog.Any("error", err))
		}
	}

	return code
}

func parseFlags(args []string, stderr io.Writer) (*cliOptions, []string, error) {
	opts := &cliOptions{}

	fs := flag.NewFlagSet("docdiff", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	fs.StringVar(&opts.configPath, "config", "", "Path to a YAML configuration file")
	fs.StringVar(&opts.output, "output", report.OutputText, "Output format: text or json")
	fs.BoolVar(&opts.noHeader, "no-header", false, "Omit the header line in text output")
	fs.StringVar(&opts.order, "order", "", "Bullet order: stable or set (overrides BULLET_ORDER)")
	fs.StringVar(&opts.provider, "provider", "", "Summarization provider: openai, claude or echo (overrides SUMMARIZER_PROVIDER)")
	fs.StringVar(&opts.model, "model", "", "Provider model identifier (overrides SUMMARIZER_MODEL)")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")
	fs.BoolVar(&opts.trace, "trace", false, "Log finished trace spans to stderr")
	fs.DurationVar(&opts.timeout, "timeout", 0, "Deadline for the whole run, e.g. 5m (0 disables)")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	switch opts.output {
	case report.OutputText, report.OutputJSON:
	default:
		return nil, nil, fmt.Errorf("invalid output format %q (must be 'text' or 'json')", opts.output)
	}
	if opts.order != "" {
		if _, err := bullet.ParseOrder(opts.order); err != nil {
			return nil, nil, err
		}
	}
	if opts.timeout < 0 {
		return nil, nil, fmt.Errorf("timeout cannot be negative: %s", opts.timeout)
	}
	if fs.NArg() != 2 {
		return nil, nil, fmt.Errorf("expected 2 document paths, got %d", fs.NArg())
	}

	return opts, fs.Args(), nil
}

// overrides maps the flags that were given onto the configuration.
func (o *cliOptions) overrides() []config.Override {
	var out []config.Override
	if o.order != "" {
		order := strings.ToLower(o.order)
		out = append(out, func(c *config.Config) { c.Bullets.Order = order })
	}
	if o.provider != "" {
		provider := strings.ToLower(o.provider)
		out = append(out, func(c *config.Config) { c.Gateway.Provider = provider })
	}
	if o.model != "" {
		model := o.model
		out = append(out, func(c *config.Config) { c.Gateway.Model = model })
	}
	return out
}

// buildService wires the comparison pipeline from cfg.
func buildService(cfg *config.Config) (*report.Service, error) {
	gateway, err := summarizer.NewGatewayFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("create summarization gateway: %w", err)
	}

	formatter, err := bullet.NewFormatterFromConfig(cfg.Bullets)
	if err != nil {
		return nil, fmt.Errorf("create bullet formatter: %w", err)
	}

	fetchConfig := fetcher.FromConfig(cfg.Fetch)
	if err := fetchConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fetch configuration: %w", err)
	}

	return report.NewService(
		extractor.Sources{Remote: fetcher.New(fetchConfig)},
		compare.NewEngine(),
		summary.NewService(gateway, summary.OptionsFromConfig(cfg.Summary)),
		formatter,
	), nil
}
