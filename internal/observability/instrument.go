package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/processors/minsev"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// instrumentationName identifies log records emitted through the OpenTelemetry bridge.
const instrumentationName = "github.com/florianilch/oairequest"

// Exporter selects where logs go besides the console.
type Exporter string

const (
	ExporterNone     Exporter = "none"
	ExporterStdout   Exporter = "stdout"
	ExporterOTLPGRPC Exporter = "otlp-grpc"
	ExporterOTLPHTTP Exporter = "otlp-http"
)

// Options configures Instrument.
type Options struct {
	Level    slog.Level
	Format   string
	Exporter Exporter
	// Output receives console logs; defaults to os.Stderr so stdout stays free for
	// command output.
	Output io.Writer
}

// Instrument installs the default slog logger. With an exporter other than
// ExporterNone, records are sent through an OpenTelemetry LoggerProvider instead of the
// console. The returned function flushes and stops the provider.
func Instrument(ctx context.Context, opts Options) (func(context.Context) error, error) {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}

	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		slog.Warn("opentelemetry error", "error", err)
	}))

	if opts.Exporter == "" || opts.Exporter == ExporterNone {
		handler, err := newConsoleHandler(opts.Output, opts.Level, opts.Format)
		if err != nil {
			return nil, err
		}
		slog.SetDefault(slog.New(newTraceContextHandler(handler)))
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := newExporter(ctx, opts.Exporter)
	if err != nil {
		return nil, err
	}

	provider := newLoggerProvider(exporter, opts.Level)

	slog.SetDefault(slog.New(newTraceContextHandler(
		otelslog.NewHandler(instrumentationName, otelslog.WithLoggerProvider(provider)),
	)))

	return func(ctx context.Context) error {
		if err := provider.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutting down logger provider: %w", err)
		}
		return nil
	}, nil
}

// newLoggerProvider batches records to exporter, dropping those below level.
func newLoggerProvider(exporter sdklog.Exporter, level slog.Level) *sdklog.LoggerProvider {
	processor := minsev.NewLogProcessor(sdklog.NewBatchProcessor(exporter), toSeverity(level))
	return sdklog.NewLoggerProvider(sdklog.WithProcessor(processor))
}

// ParseExporter validates an exporter name.
func ParseExporter(s string) (Exporter, error) {
	switch e := Exporter(strings.ToLower(s)); e {
	case ExporterNone, ExporterStdout, ExporterOTLPGRPC, ExporterOTLPHTTP:
		return e, nil
	default:
		return "", fmt.Errorf("unsupported log exporter %q (expected: none, stdout, otlp-grpc, otlp-http)", s)
	}
}

// newConsoleHandler creates a handler for human-readable logs.
func newConsoleHandler(w io.Writer, level slog.Level, logFormat string) (slog.Handler, error) {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	switch strings.ToLower(logFormat) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text", "":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("unsupported log format %q (expected: json, text)", logFormat)
	}

	return handler, nil
}

// newExporter creates the log exporter. OTLP exporters read their endpoint and headers
// from the standard OTEL_EXPORTER_OTLP_* environment variables.
func newExporter(ctx context.Context, exporter Exporter) (sdklog.Exporter, error) {
	switch exporter {
	case ExporterStdout:
		return stdoutlog.New(stdoutlog.WithWriter(os.Stderr))
	case ExporterOTLPGRPC:
		return otlploggrpc.New(ctx)
	case ExporterOTLPHTTP:
		return otlploghttp.New(ctx)
	default:
		return nil, errors.New("no exporter configured")
	}
}

// toSeverity maps slog levels onto the minimum severity filter.
func toSeverity(level slog.Level) minsev.Severity {
	switch {
	case level <= slog.LevelDebug:
		return minsev.SeverityDebug
	case level <= slog.LevelInfo:
		return minsev.SeverityInfo
	case level <= slog.LevelWarn:
		return minsev.SeverityWarn
	default:
		return minsev.SeverityError
	}
}
