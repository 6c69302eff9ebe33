// Package config resolves the effective CLI configuration from four
// sources — CLI flags, environment variables, the persisted config file,
// and compiled-in defaults — and owns the config file's only write path.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// Compiled-in defaults, the lowest-precedence source. Credentials have no
// default: they stay empty until a higher-precedence source provides them.
const (
	DefaultBaseURL      = "https://api.sigfox.com/v2"
	DefaultTimeout      = 30 * time.Second
	DefaultOutputFormat = "table"
)

// EnvPrefix namespaces the environment-variable source
// (SIGFOX_API_LOGIN, SIGFOX_API_PASSWORD, SIGFOX_BASE_URL,
// SIGFOX_TIMEOUT, SIGFOX_OUTPUT_FORMAT).
const EnvPrefix = "SIGFOX"

// Config is the effective configuration for one CLI invocation. It is
// built once by Resolve and read-only afterwards.
type Config struct {
	APILogin     string
	APIPassword  string
	BaseURL      string
	Timeout      time.Duration
	OutputFormat string
}

// Configured reports whether both API credentials are present.
func (c Config) Configured() bool {
	return c.APILogin != "" && c.APIPassword != ""
}

// Values is one configuration source. The zero value of each field means
// "unset": the next source in precedence order supplies it.
type Values struct {
	APILogin     string
	APIPassword  string
	BaseURL      string
	Timeout      time.Duration
	OutputFormat string
}

// Resolve merges the three optional sources over the compiled-in defaults,
// highest precedence first: cli > env > file > defaults. It is a pure
// function of its inputs — total, deterministic, and idempotent. The only
// normalization applied is stripping the base URL's trailing slash.
func Resolve(cli, env, file Values) Config {
	cfg := Config{
		APILogin:     firstNonEmpty(cli.APILogin, env.APILogin, file.APILogin),
		APIPassword:  firstNonEmpty(cli.APIPassword, env.APIPassword, file.APIPassword),
		BaseURL:      firstNonEmpty(cli.BaseURL, env.BaseURL, file.BaseURL, DefaultBaseURL),
		OutputFormat: firstNonEmpty(cli.OutputFormat, env.OutputFormat, file.OutputFormat, DefaultOutputFormat),
		Timeout:      firstDuration(cli.Timeout, env.Timeout, file.Timeout, DefaultTimeout),
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstDuration(values ...time.Duration) time.Duration {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

// FromEnv reads the environment-variable source.
func FromEnv() Values {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return Values{
		APILogin:     v.GetString("api_login"),
		APIPassword:  v.GetString("api_password"),
		BaseURL:      v.GetString("base_url"),
		Timeout:      parseTimeout(v.GetString("timeout")),
		OutputFormat: v.GetString("output_format"),
	}
}

// parseTimeout accepts either a Go duration ("45s") or a bare number of
// seconds ("45"), the format the config file uses. Unparseable input is
// treated as unset.
func parseTimeout(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}

// fileConfig mirrors the on-disk TOML layout: three human-editable groups.
type fileConfig struct {
	Auth struct {
		APILogin    string `toml:"api_login,omitempty"`
		APIPassword string `toml:"api_password,omitempty"`
	} `toml:"auth"`
	API struct {
		BaseURL string `toml:"base_url,omitempty"`
		Timeout int    `toml:"timeout,omitempty"` // seconds
	} `toml:"api"`
	Output struct {
		DefaultFormat string `toml:"default_format,omitempty"`
	} `toml:"output"`
}

// DefaultPath is the persisted config file location,
// ~/.config/sigfox-cli/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".config", "sigfox-cli", "config.toml"), nil
}

// LoadFile reads the persisted-file source. A missing file is not an
// error — it simply contributes nothing to the merge.
func LoadFile(path string) (Values, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Values{}, nil
	}
	if err != nil {
		return Values{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return Values{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	var vals Values
	vals.APILogin = fc.Auth.APILogin
	vals.APIPassword = fc.Auth.APIPassword
	vals.BaseURL = fc.API.BaseURL
	if fc.API.Timeout > 0 {
		vals.Timeout = time.Duration(fc.API.Timeout) * time.Second
	}
	vals.OutputFormat = fc.Output.DefaultFormat
	return vals, nil
}

// Persist writes the given source values to path atomically: the new
// content goes to a temp file in the same directory, fsynced, then renamed
// over the old file. An interrupted write leaves either the old file or
// the new one, never a mix. Unset fields are omitted, so compiled-in
// defaults are never materialized into the file. File mode is 0600 — the
// file holds credentials.
func Persist(path string, vals Values) error {
	var fc fileConfig
	fc.Auth.APILogin = vals.APILogin
	fc.Auth.APIPassword = vals.APIPassword
	fc.API.BaseURL = vals.BaseURL
	fc.API.Timeout = int(vals.Timeout / time.Second)
	fc.Output.DefaultFormat = vals.OutputFormat

	data, err := toml.Marshal(fc)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.toml")
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp config file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp config file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp config file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace config file: %w", err)
	}
	return nil
}
