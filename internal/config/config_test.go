package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDefaults(t *testing.T) {
	cfg := Resolve(Values{}, Values{}, Values{})

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultOutputFormat, cfg.OutputFormat)
	assert.Empty(t, cfg.APILogin)
	assert.Empty(t, cfg.APIPassword)
	assert.False(t, cfg.Configured())
}

func TestResolvePrecedencePerField(t *testing.T) {
	cli := Values{APILogin: "cli-login"}
	env := Values{APILogin: "env-login", BaseURL: "https://env.example.com"}
	file := Values{
		APILogin:     "file-login",
		APIPassword:  "file-password",
		BaseURL:      "https://file.example.com",
		Timeout:      45 * time.Second,
		OutputFormat: "json",
	}

	cfg := Resolve(cli, env, file)

	// Each field resolves independently: login from cli, base URL from
	// env, everything else from the file.
	assert.Equal(t, "cli-login", cfg.APILogin)
	assert.Equal(t, "file-password", cfg.APIPassword)
	assert.Equal(t, "https://env.example.com", cfg.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.True(t, cfg.Configured())
}

func TestResolveIsDeterministic(t *testing.T) {
	cli := Values{BaseURL: "https://a.example.com/"}
	env := Values{APILogin: "login"}
	file := Values{Timeout: 10 * time.Second}

	first := Resolve(cli, env, file)
	second := Resolve(cli, env, file)
	assert.Equal(t, first, second)
}

func TestResolveStripsTrailingSlash(t *testing.T) {
	cfg := Resolve(Values{BaseURL: "https://api.example.com/v2/"}, Values{}, Values{})
	assert.Equal(t, "https://api.example.com/v2", cfg.BaseURL)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("SIGFOX_API_LOGIN", "env-login")
	t.Setenv("SIGFOX_API_PASSWORD", "env-password")
	t.Setenv("SIGFOX_TIMEOUT", "45")
	t.Setenv("SIGFOX_OUTPUT_FORMAT", "json")

	vals := FromEnv()
	assert.Equal(t, "env-login", vals.APILogin)
	assert.Equal(t, "env-password", vals.APIPassword)
	assert.Equal(t, 45*time.Second, vals.Timeout)
	assert.Equal(t, "json", vals.OutputFormat)
}

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{"", 0},
		{"45s", 45 * time.Second},
		{"2m", 2 * time.Minute},
		{"45", 45 * time.Second},
		{"-5", 0},
		{"garbage", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseTimeout(tt.raw), "input %q", tt.raw)
	}
}

func TestLoadFileMissingIsNotAnError(t *testing.T) {
	vals, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Values{}, vals)
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("this is not toml ==="), 0o600))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestPersistRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	in := Values{
		APILogin:     "login",
		APIPassword:  "password",
		BaseURL:      "https://api.example.com/v2",
		Timeout:      45 * time.Second,
		OutputFormat: "json",
	}
	require.NoError(t, Persist(path, in))

	vals, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, in, vals)

	// Persist followed by Resolve reproduces the persisted settings.
	cfg := Resolve(Values{}, Values{}, vals)
	assert.Equal(t, "login", cfg.APILogin)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestPersistOmitsUnsetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, Persist(path, Values{APILogin: "login"}))

	// Only the set key reaches disk; defaults are resolved at load time,
	// not materialized into the file, so later default changes still apply.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)
	assert.Contains(t, content, "api_login")
	assert.NotContains(t, content, "base_url")
	assert.NotContains(t, content, "timeout")
	assert.NotContains(t, content, "default_format")

	vals, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Values{APILogin: "login"}, vals)
	assert.Equal(t, DefaultBaseURL, Resolve(Values{}, Values{}, vals).BaseURL)
}

func TestPersistFileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix file modes")
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, Persist(path, Values{APILogin: "l", APIPassword: "p"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestPersistOverwritesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, Persist(path, Values{APILogin: "old"}))
	require.NoError(t, Persist(path, Values{APILogin: "new"}))

	vals, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", vals.APILogin)

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "config.toml", entries[0].Name())
}
