package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/gogen/pkg/key"
	"github.com/idelchi/mkencbox/internal/commands"
	"github.com/idelchi/mkencbox/internal/config"
)

// Commands share the global viper instance, so these tests do not run in parallel.
func execute(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()

	var cfg config.Config

	root := commands.NewRootCommand(&cfg, "test")
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	return &cfg, root.Execute()
}

func TestKeygen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")

	_, err := execute(t, "keygen", "--size", "32", path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(64), info.Size())

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = key.FromHex(string(content))
	require.NoError(t, err, "the key is hex encoded")
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	_, err = execute(t, "keygen", path)
	require.ErrorIs(t, err, os.ErrExist, "an existing key file is never overwritten")

	_, err = execute(t, "keygen", "--size", "0", filepath.Join(t.TempDir(), "other"))
	require.Error(t, err)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "key")

	_, err := execute(t, "keygen", keyFile)
	require.NoError(t, err)

	src := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello world"), 0o600))

	cfg, err := execute(t, "enc", "-q", "-k", keyFile, "-a", "chacha20", "-s", "pepper", src)
	require.NoError(t, err)
	assert.Equal(t, config.ModeEncrypt, cfg.Mode)
	assert.Equal(t, "chacha20", cfg.Algorithm)
	assert.Equal(t, "pepper", cfg.Salt)
	assert.Equal(t, []string{src}, cfg.Files)

	restored := filepath.Join(dir, "restored.txt")

	_, err = execute(t, "dec", "-q", "-k", keyFile, "-a", "chacha20", "-s", "pepper", "-o", restored, src+".enc")
	require.NoError(t, err)

	got, err := os.ReadFile(restored)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(got))
}

func TestFlagDefaults(t *testing.T) {
	dir := t.TempDir()
	patterns := filepath.Join(dir, "patterns.jsonc")
	require.NoError(t, os.WriteFile(patterns, []byte(`["*.log"]`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.log"), []byte("x"), 0o600))

	cfg, err := execute(t, "check", "-q", "--exclude-from", patterns, "--exclude", "a.*,*.log", dir)
	require.NoError(t, err)

	assert.Equal(t, config.ModeCheck, cfg.Mode)
	assert.Equal(t, "cbc", cfg.Algorithm)
	assert.Equal(t, "tar", cfg.Archive)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"a.*", "*.log"}, cfg.Exclude)
	assert.Positive(t, cfg.Parallel)
}

func TestValidationErrors(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o600))

	tests := map[string][]string{
		"missing key file":     {"encrypt", src},
		"bad algorithm":        {"encrypt", "-k", src, "-a", "des", src},
		"non hex cbc salt":     {"encrypt", "-k", src, "-s", "zz", src},
		"output with two":      {"encrypt", "-k", src, "-o", "out", src, src},
		"no inputs":            {"decrypt", "-k", src},
		"unknown archive":      {"auto", "-k", src, "--archive", "rar", src},
		"zero parallel":        {"encrypt", "-k", src, "-j", "0", src},
		"unknown log level":    {"encrypt", "-k", src, "--log-level", "loud", src},
		"missing exclude file": {"check", "--exclude-from", filepath.Join(dir, "missing"), dir},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, args...)
			require.Error(t, err)
		})
	}

	_, err := os.Stat(src + ".enc")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestShowExitsBeforeRunning(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "key")
	src := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(keyFile, []byte("secret"), 0o600))
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o600))

	cfg, err := execute(t, "encrypt", "--show", "-k", keyFile, src)
	require.ErrorIs(t, err, cobraext.ErrExitGracefully)
	assert.True(t, cfg.Show)

	_, err = os.Stat(src + ".enc")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnvironmentBinding(t *testing.T) {
	keyFile := filepath.Join(t.TempDir(), "key")
	require.NoError(t, os.WriteFile(keyFile, []byte("secret"), 0o600))

	t.Setenv("MKENCBOX_KEY_FILE", keyFile)
	t.Setenv("MKENCBOX_ALGORITHM", "chacha20")
	t.Setenv("MKENCBOX_LOG_LEVEL", "debug")

	src := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o600))

	cfg, err := execute(t, "encrypt", "-q", "-a", "cbc", src)
	require.NoError(t, err)

	assert.Equal(t, keyFile, cfg.KeyFile)
	assert.Equal(t, "cbc", cfg.Algorithm, "flags win over the environment")
	assert.Equal(t, "debug", cfg.LogLevel)
}
