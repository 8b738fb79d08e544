package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	intconfig "github.com/leapstack-labs/leaplint/internal/config"
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFlags mirrors the persistent flags registered by the root command.
func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.BoolP("verbose", "v", false, "")
	fs.StringP("output", "o", "", "")
	fs.Bool("preview", false, "")
	fs.Int("workers", 0, "")
	fs.StringSlice("exclude", nil, "")
	return fs
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, intconfig.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Cleanup(ResetConfig)
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.False(t, cfg.Preview)
	assert.Equal(t, OutputAuto, cfg.OutputFormat)
	assert.Equal(t, 0, cfg.Workers)
	assert.Equal(t, intconfig.DefaultInclude, cfg.Include)
	assert.Empty(t, cfg.Exclude)
	assert.Nil(t, cfg.Lint.IgnoreNames)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_FileDiscoveredUpward(t *testing.T) {
	t.Cleanup(ResetConfig)
	root := t.TempDir()
	path := writeConfig(t, root, `
preview: true
lint:
  rules:
    invalid-test-name: warn
  ignore_names: ["setUp"]
`)
	nested := filepath.Join(root, "src", "tests")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, path, GetConfigFileUsed())
	assert.Equal(t, root, cfg.ProjectRoot)
	assert.True(t, cfg.Preview)
	assert.Equal(t, core.LevelWarn, cfg.Lint.Rules["invalid-test-name"])
	assert.Equal(t, []string{"setUp"}, cfg.Lint.IgnoreNames)
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	t.Cleanup(ResetConfig)
	t.Chdir(t.TempDir())
	other := t.TempDir()
	path := writeConfig(t, other, "workers: 3\n")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, other, cfg.ProjectRoot)
}

func TestLoadConfig_ExplicitFileMissing(t *testing.T) {
	t.Cleanup(ResetConfig)
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
}

func TestLoadConfig_Precedence(t *testing.T) {
	t.Cleanup(ResetConfig)
	dir := t.TempDir()
	writeConfig(t, dir, "output: markdown\nworkers: 2\n")
	t.Chdir(dir)
	t.Setenv("LEAPLINT_OUTPUT", "json")
	t.Setenv("LEAPLINT_WORKERS", "4")

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--workers", "8"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, OutputJSON, cfg.OutputFormat, "env overrides file")
	assert.Equal(t, 8, cfg.Workers, "flag overrides env")
}

func TestLoadConfig_UnsetFlagsDoNotOverride(t *testing.T) {
	t.Cleanup(ResetConfig)
	dir := t.TempDir()
	writeConfig(t, dir, "preview: true\n")
	t.Chdir(dir)

	flags := newFlags()
	require.NoError(t, flags.Parse(nil))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.True(t, cfg.Preview)
}

func TestLoadConfig_NestedEnv(t *testing.T) {
	t.Cleanup(ResetConfig)
	t.Chdir(t.TempDir())
	t.Setenv("LEAPLINT_LINT__EXTEND_IGNORE_NAMES", "*allowed*,test_ok")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"*allowed*", "test_ok"}, cfg.Lint.ExtendIgnoreNames)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errSub  string
	}{
		{"bad output", "output: yaml\n", "output"},
		{"negative workers", "workers: -1\n", "workers"},
		{"bad exclude", "exclude: [\"[\"]\n", "exclude"},
		{"bad level", "lint:\n  rules:\n    invalid-test-name: loud\n", "invalid level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(ResetConfig)
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)
			t.Chdir(dir)

			_, err := LoadConfig("", nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSub)
		})
	}
}

func TestReloadProject(t *testing.T) {
	t.Cleanup(ResetConfig)
	dir := t.TempDir()
	path := writeConfig(t, dir, "lint:\n  rules:\n    invalid-test-name: warn\n")
	t.Chdir(dir)

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--preview"}))
	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("exclude: [\"gen/**\"]\nlint:\n  rules:\n    invalid-test-name: error\n"), 0o600))

	next, err := ReloadProject(cfg)
	require.NoError(t, err)
	assert.True(t, next.Preview, "flag values survive a reload")
	assert.Equal(t, core.LevelError, next.Lint.Rules["invalid-test-name"])
	assert.Equal(t, []string{"gen/**"}, next.Exclude)
	assert.Equal(t, core.LevelWarn, cfg.Lint.Rules["invalid-test-name"], "original is untouched")
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()), "falls back to a discard logger")

	logger := slog.New(slog.DiscardHandler)
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, GetLogger(ctx))
	assert.Same(t, logger, ctx.Value(LoggerKey()))
}
