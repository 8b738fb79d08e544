package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/cli"
)

func TestDedent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "shared indent", in: "  # Check\n  leaplint check\n", want: "# Check\nleaplint check"},
		{name: "nested lines keep relative indent", in: "  a\n    b\n\n  c", want: "a\n  b\n\nc"},
		{name: "mixed prefixes", in: "\t  a\n\t b", want: " a\nb"},
		{name: "no indent", in: "a\nb", want: "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dedent(tt.in))
		})
	}
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "LEAPLINT_OUTPUT", envName("output"))
	assert.Equal(t, "LEAPLINT_LINT__EXTEND_IGNORE_NAMES", envName("lint.extend_ignore_names"))
}

func TestCommandTree(t *testing.T) {
	var names []string
	for _, cmd := range commandTree(cli.NewRootCmd()) {
		names = append(names, pageName(cmd))
	}
	assert.Contains(t, names, "check")
	assert.Contains(t, names, "cache")
	assert.Contains(t, names, "cache-runs")
	assert.NotContains(t, names, "help")
}

func TestGenerateCLIDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateCLIDocs(dir))

	index, err := os.ReadFile(filepath.Join(dir, "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "[`cache runs`](/cli/cache-runs)")
	assert.Contains(t, string(index), "`LEAPLINT_PREVIEW`")
	assert.Contains(t, string(index), "`LEAPLINT_LINT__IGNORE_NAMES`")

	page, err := os.ReadFile(filepath.Join(dir, "cache-runs.md"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "# leaplint cache runs")
	assert.Contains(t, string(page), "`--limit`")
	assert.FileExists(t, filepath.Join(dir, "check.md"))
}
