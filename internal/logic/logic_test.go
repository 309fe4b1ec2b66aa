package logic_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/mkencbox/internal/config"
	"github.com/idelchi/mkencbox/internal/logic"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func baseConfig(t *testing.T, mode config.Mode, files ...string) *config.Config {
	t.Helper()

	key := filepath.Join(t.TempDir(), "key")
	writeFile(t, key, "secret")

	return &config.Config{
		KeyFile:   key,
		Algorithm: "cbc",
		Archive:   "tar",
		Parallel:  2,
		Quiet:     true,
		LogLevel:  "error",
		Mode:      mode,
		Files:     files,
	}
}

func TestRunEncryptThenAuto(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "tree")
	writeFile(t, filepath.Join(src, "a.txt"), "alpha")
	writeFile(t, filepath.Join(src, "sub", "b.txt"), "bravo")
	writeFile(t, filepath.Join(src, "sub", "skip.log"), "excluded")

	cfg := baseConfig(t, config.ModeEncrypt, src)
	cfg.Exclude = []string{"*.log"}
	require.NoError(t, logic.Run(context.Background(), cfg))

	encrypted := src + ".enc"
	require.FileExists(t, encrypted)

	restored := filepath.Join(dir, "restored")
	auto := baseConfig(t, config.ModeAuto, encrypted)
	auto.KeyFile = cfg.KeyFile
	auto.Output = restored
	require.NoError(t, logic.Run(context.Background(), auto))

	got, err := os.ReadFile(filepath.Join(restored, "sub", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "bravo", string(got))
	assert.NoFileExists(t, filepath.Join(restored, "sub", "skip.log"))
}

func TestRunContinuesAfterFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	writeFile(t, good, "content")

	cfg := baseConfig(t, config.ModeEncrypt, filepath.Join(dir, "missing.txt"), good)
	cfg.Algorithm = "chacha20"
	cfg.Stats = true

	require.Error(t, logic.Run(context.Background(), cfg))
	assert.FileExists(t, good+".enc")
	assert.NoFileExists(t, filepath.Join(dir, "missing.txt.enc"))
}

func TestRunRefusesExistingOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "file.txt")
	writeFile(t, src, "content")
	writeFile(t, src+".enc", "already here")

	err := logic.Run(context.Background(), baseConfig(t, config.ModeEncrypt, src))
	require.ErrorIs(t, err, os.ErrExist)

	got, err := os.ReadFile(src + ".enc")
	require.NoError(t, err)
	assert.Equal(t, "already here", string(got))
}

func TestRunCheck(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "logs", "app.log"), "x")
	writeFile(t, filepath.Join(dir, "main.go"), "x")

	cfg := baseConfig(t, config.ModeCheck, dir)
	cfg.Exclude = []string{"*.log", "logs"}
	require.NoError(t, logic.RunCheck(cfg))

	cfg.Exclude = []string{"*.log", "*.tmp"}
	require.Error(t, logic.RunCheck(cfg))

	cfg.Exclude = nil
	require.Error(t, logic.RunCheck(cfg))
}
