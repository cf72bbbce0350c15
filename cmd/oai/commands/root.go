// Package commands implements the oai command line.
//
// Every API operation is a subcommand. By default a subcommand prints the decorated
// request descriptor (method, URL, headers, body) as JSON, YAML or a curl command line.
// With --response it instead decodes a saved response body with the operation's parser.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/oairequest/internal/observability"
)

// Execute runs the root command with the given context and arguments.
func Execute(ctx context.Context, args []string, version, commit string) error {
	return newRootCommand(version, commit).Run(ctx, args)
}

func newRootCommand(version, commit string) *cli.Command {
	var shutdown func(context.Context) error

	return &cli.Command{
		Name:    "oai",
		Usage:   "Describe OpenAI API requests and decode their responses",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		Flags:   globalFlags(),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			var level slog.Level
			if err := level.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
				return ctx, err
			}
			exporter, err := observability.ParseExporter(cmd.String("log-exporter"))
			if err != nil {
				return ctx, err
			}

			// Set up observability before any command runs
			shutdown, err = observability.Instrument(ctx, observability.Options{
				Level:    level,
				Format:   cmd.String("log-format"),
				Exporter: exporter,
			})
			if err != nil {
				return ctx, fmt.Errorf("failed to set up observability layer: %w", err)
			}
			return ctx, nil
		},
		After: func(ctx context.Context, cmd *cli.Command) error {
			if shutdown == nil {
				return nil
			}
			return shutdown(context.WithoutCancel(ctx))
		},
		Commands: []*cli.Command{
			authCommand(),
			chatCommand(),
			completionsCommand(),
			editsCommand(),
			embeddingsCommand(),
			moderationsCommand(),
			filesCommand(),
			fineTunesCommand(),
			imagesCommand(),
			audioCommand(),
			modelsCommand(),
		},
		// Message contents and stop sequences may contain commas
		DisableSliceFlagSeparator: true,
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "path to a TOML config file",
			Sources: cli.EnvVars("OAI_CONFIG"),
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "path to a dotenv file with OPENAI_* variables",
		},
		&cli.StringFlag{
			Name:  "base-url",
			Usage: "API base URL (overrides config)",
		},
		&cli.StringFlag{
			Name:  "organization",
			Usage: "organization ID (overrides config)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "log level (debug|info|warn|error)",
			Value: slog.LevelInfo.String(),
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "log format (text|json)",
			Value: "text",
		},
		&cli.StringFlag{
			Name:  "log-exporter",
			Usage: "OpenTelemetry log exporter (none|stdout|otlp-grpc|otlp-http)",
			Value: string(observability.ExporterNone),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format (json|yaml|curl)",
			Value:   "json",
		},
		&cli.BoolFlag{
			Name:  "show-secrets",
			Usage: "print the Authorization header unredacted",
		},
		&cli.StringFlag{
			Name:  "request-id",
			Usage: `X-Request-ID header value; "auto" generates one`,
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "timeout hint attached to the request (overrides config)",
		},
		&cli.StringFlag{
			Name:  "response",
			Usage: "decode this saved response body instead of printing the request",
		},
		&cli.StringFlag{
			Name:  "response-content-type",
			Usage: "Content-Type header of the saved response",
		},
		&cli.IntFlag{
			Name:  "response-status",
			Usage: "HTTP status of the saved response; non-2xx reports the API error",
			Value: 200,
		},
	}
}
