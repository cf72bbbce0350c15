// Package app loads the configuration of the oai command and resolves credentials.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/florianilch/oairequest/auth"
)

// EnvPrefix is stripped from environment variables before they are mapped onto config
// keys: OPENAI_API_KEY becomes api_key.
const EnvPrefix = "OPENAI_"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config is the oai configuration.
type Config struct {
	APIKey          string              `koanf:"api_key"`
	OrganizationID  string              `koanf:"organization_id"`
	BaseURL         string              `koanf:"base_url" validate:"omitempty,url"`
	CredentialStore CredentialStoreType `koanf:"credential_store" validate:"oneof=env file keyring"`
	CredentialFile  string              `koanf:"credential_file" validate:"required_if=CredentialStore file"`
	// Timeout is attached to request descriptors as a hint for the execution layer.
	Timeout time.Duration `koanf:"timeout" validate:"gte=0"`
}

// defaults are loaded before any other source.
func defaults() map[string]any {
	credentialFile := ""
	if dir, err := os.UserConfigDir(); err == nil {
		credentialFile = filepath.Join(dir, "oai", "api_key")
	}
	return map[string]any{
		"base_url":         auth.DefaultBaseURL,
		"credential_store": string(CredentialStoreEnv),
		"credential_file":  credentialFile,
	}
}

// LoadOptions lists the configuration sources. Later sources win:
// defaults, TOML file, dotenv file, environment, overrides.
type LoadOptions struct {
	// Path is an optional TOML file.
	Path string
	// EnvFile is an optional dotenv file. Its variables rank below the process
	// environment.
	EnvFile string
	// Environ returns the process environment; os.Environ when nil.
	Environ func() []string
	// Overrides are explicit values, typically from command-line flags.
	Overrides map[string]any
}

// LoadConfig loads and validates the configuration.
func LoadConfig(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if opts.Path != "" {
		if err := k.Load(file.Provider(opts.Path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", opts.Path, err)
		}
	}

	environ := opts.Environ
	if environ == nil {
		environ = os.Environ
	}
	if opts.EnvFile != "" {
		dotenv, err := godotenv.Read(opts.EnvFile)
		if err != nil {
			return nil, fmt.Errorf("reading env file %s: %w", opts.EnvFile, err)
		}
		environ = withDotenv(dotenv, environ)
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), value
		},
		EnvironFunc: environ,
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("loading overrides: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// withDotenv puts dotenv variables in front of the process environment, so the process
// environment wins on conflicts.
func withDotenv(dotenv map[string]string, environ func() []string) func() []string {
	return func() []string {
		vars := make([]string, 0, len(dotenv))
		for k, v := range dotenv {
			vars = append(vars, k+"="+v)
		}
		return append(vars, environ()...)
	}
}

// credentials are validated separately from Config because login and logout run before
// an API key exists.
type credentials struct {
	APIKey         string `validate:"required"`
	OrganizationID string `validate:"omitempty,startswith=org-"`
}

// ErrNoAPIKey is returned when neither the configuration nor the credential store
// provides an API key.
var ErrNoAPIKey = errors.New("no API key configured")

// AuthConfig resolves the API key, from the configuration first and the credential
// store second, and returns the auth configuration for request decoration.
func (c *Config) AuthConfig(ctx context.Context) (auth.Config, error) {
	apiKey := c.APIKey
	if apiKey == "" && c.CredentialStore != CredentialStoreEnv {
		store, err := c.NewCredentialStore()
		if err != nil {
			return auth.Config{}, err
		}
		apiKey, err = store.Read(ctx)
		if err != nil {
			return auth.Config{}, fmt.Errorf("reading API key from %s store: %w", c.CredentialStore, err)
		}
	}
	if apiKey == "" {
		return auth.Config{}, ErrNoAPIKey
	}

	creds := credentials{APIKey: apiKey, OrganizationID: c.OrganizationID}
	if err := validate.Struct(&creds); err != nil {
		return auth.Config{}, fmt.Errorf("invalid credentials: %w", err)
	}

	return auth.Config{
		OrganizationID: c.OrganizationID,
		APIKey:         apiKey,
		BaseURL:        c.BaseURL,
	}, nil
}
