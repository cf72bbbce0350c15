package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/florianilch/oairequest/auth"
	"github.com/florianilch/oairequest/internal/app"
	"github.com/florianilch/oairequest/internal/observability"
	"github.com/florianilch/oairequest/internal/render"
	"github.com/florianilch/oairequest/request"
	"github.com/florianilch/oairequest/types"
)

// emit finishes a subcommand: it either decodes the saved response given with
// --response, or decorates the request and prints it.
func emit[T any](ctx context.Context, cmd *cli.Command, req request.Request[T]) error {
	format, err := render.ParseFormat(cmd.String("output"))
	if err != nil {
		return err
	}

	if path := cmd.String("response"); path != "" {
		return decodeResponse(ctx, cmd, req, path, format)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	authCfg, err := cfg.AuthConfig(ctx)
	if err != nil {
		return err
	}

	timeout := cfg.Timeout
	if cmd.IsSet("timeout") {
		timeout = cmd.Duration("timeout")
	}
	if timeout > 0 {
		req = req.WithTimeout(timeout)
	}

	if id := requestID(cmd); id != "" {
		req = req.WithHeader("X-Request-ID", id)
		ctx = observability.WithRequestID(ctx, id)
	}

	req = auth.Decorate(authCfg, req)
	slog.DebugContext(ctx, "built request", "method", req.Method, "url", req.URL)

	return render.Request(stdout(cmd), req, render.Options{
		Format:      format,
		ShowSecrets: cmd.Bool("show-secrets"),
	})
}

// decodeResponse runs the request's parser over a saved response body.
func decodeResponse[T any](ctx context.Context, cmd *cli.Command, req request.Request[T], path string, format render.Format) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	status := cmd.Int("response-status")
	if status < 200 || status > 299 {
		var zero T
		if _, binary := any(zero).(types.Blob); binary {
			return &request.BinaryStatusError{StatusCode: status, Body: data}
		}
		return &request.StatusError{StatusCode: status, Body: string(data)}
	}

	header := make(http.Header)
	if contentType := cmd.String("response-content-type"); contentType != "" {
		header.Set("Content-Type", contentType)
	}

	value, err := req.Parse(request.Response{Header: header, Body: data})
	if err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	slog.DebugContext(ctx, "decoded response", "bytes", len(data))

	if format == render.FormatCurl {
		format = render.FormatJSON
	}
	return render.Value(stdout(cmd), value, format)
}

func loadConfig(cmd *cli.Command) (*app.Config, error) {
	overrides := map[string]any{}
	if cmd.IsSet("base-url") {
		overrides["base_url"] = cmd.String("base-url")
	}
	if cmd.IsSet("organization") {
		overrides["organization_id"] = cmd.String("organization")
	}

	return app.LoadConfig(app.LoadOptions{
		Path:      cmd.String("config"),
		EnvFile:   cmd.String("env-file"),
		Environ:   os.Environ,
		Overrides: overrides,
	})
}

func requestID(cmd *cli.Command) string {
	id := cmd.String("request-id")
	if id == "auto" {
		return uuid.New().String()
	}
	return id
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// readUpload reads a file for a multipart part. The content type is sniffed from the
// content.
func readUpload(path string) (types.Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Upload{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return types.Upload{
		Filename: filepath.Base(path),
		Content:  types.Blob{Data: data, ContentType: mimetype.Detect(data).String()},
	}, nil
}

func optString(cmd *cli.Command, name string) *string {
	if !cmd.IsSet(name) {
		return nil
	}
	v := cmd.String(name)
	return &v
}

func optInt(cmd *cli.Command, name string) *int {
	if !cmd.IsSet(name) {
		return nil
	}
	v := cmd.Int(name)
	return &v
}

func optFloat(cmd *cli.Command, name string) *float64 {
	if !cmd.IsSet(name) {
		return nil
	}
	v := cmd.Float(name)
	return &v
}

func optBool(cmd *cli.Command, name string) *bool {
	if !cmd.IsSet(name) {
		return nil
	}
	v := cmd.Bool(name)
	return &v
}

// optStrings returns nil when the flag was not given, so the field is left out.
func optStrings(cmd *cli.Command, name string) []string {
	if !cmd.IsSet(name) {
		return nil
	}
	return cmd.StringSlice(name)
}

// requireArg returns the single positional argument of cmd.
func requireArg(cmd *cli.Command, what string) (string, error) {
	if cmd.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one argument: %s", what)
	}
	return cmd.Args().First(), nil
}
