package checker

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/cache"
	"github.com/leapstack-labs/leaplint/internal/testutil"
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/lint/rules"
)

func baseOptions(t *testing.T, paths ...string) Options {
	return Options{
		Paths:    paths,
		Registry: rules.Registry(),
		Rules:    rules.All(),
		Logger:   testutil.NewTestLogger(t),
		Workers:  2,
	}
}

func TestRun_DefaultSelection(t *testing.T) {
	root := testutil.NewPythonProject(t, "")

	report, err := Run(context.Background(), baseOptions(t, root))
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 2, report.Files)
	assert.Empty(t, report.ParseErrors)

	var rulesHit []lint.LintName
	for _, res := range report.Results {
		for _, d := range res.Diagnostics {
			assert.Contains(t, d.Message, "testDeposit")
			assert.Equal(t, core.SeverityWarning, d.Severity)
			rulesHit = append(rulesHit, d.Rule)
		}
	}
	assert.Equal(t, []lint.LintName{"camel-case-test-name", "invalid-test-name"}, rulesHit)
	assert.Equal(t, 2, report.Issues())
	assert.Equal(t, 2, report.Count(core.SeverityWarning))
	assert.Equal(t, 0, report.Count(core.SeverityError))

	require.Len(t, report.Advisories, 1)
	assert.Equal(t, lint.LintName("camel-case-test-name"), report.Advisories[0].Rule)
}

func TestRun_LevelOverridesAndIgnoreNames(t *testing.T) {
	root := testutil.NewPythonProject(t, "")
	opts := baseOptions(t, root)
	opts.Lint = core.LintConfig{
		Rules: map[string]core.Level{
			"invalid-test-name":    core.LevelError,
			"camel-case-test-name": core.LevelIgnore,
		},
	}

	report, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Count(core.SeverityError))
	assert.Empty(t, report.Advisories)

	opts.Lint.ExtendIgnoreNames = []string{"test*"}
	report, err = Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Issues())
}

func TestRun_LocalDefinitionShadowsOverride(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		"test_shadow.py": `from typing import override


def override(f):
    return f


@override
def myFunction():
    pass
`,
	})

	report, err := Run(context.Background(), baseOptions(t, root))
	require.NoError(t, err)

	var hit bool
	for _, res := range report.Results {
		for _, d := range res.Diagnostics {
			if d.Rule == "invalid-test-name" && strings.Contains(d.Message, "myFunction") {
				hit = true
				assert.Equal(t, 9, d.Span.Start.Line)
			}
		}
	}
	assert.True(t, hit, "the local override no longer means typing.override")
}

func TestRun_OptionsKeyedByAlias(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		"test_alias.py": "def myFunction():\n    pass\n",
	})
	opts := baseOptions(t, root)
	opts.Lint = core.LintConfig{
		Rules: map[string]core.Level{"camel-case-test-name": core.LevelIgnore},
		Options: map[string]core.RuleOptions{
			"mixed-case-test-name": {lint.OptionExtendIgnoreNames: []any{"my*"}},
		},
	}

	report, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Issues())

	opts.Lint.Options = map[string]core.RuleOptions{"no-such-rule": {}}
	_, err = Run(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lint.options.no-such-rule")
}

func TestRun_PreviewEnablesClassRule(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		"models.py": "class user_model:\n    pass\n",
	})

	opts := baseOptions(t, root)
	report, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Issues())

	opts.Preview = true
	report, err = Run(context.Background(), opts)
	require.NoError(t, err)
	require.Equal(t, 1, report.Issues())
	assert.Equal(t, lint.LintName("invalid-class-name"), report.Results[0].Diagnostics[0].Rule)
}

func TestRun_ConfigErrors(t *testing.T) {
	root := testutil.NewPythonProject(t, "")

	t.Run("unknown rule", func(t *testing.T) {
		opts := baseOptions(t, root)
		opts.Lint.Rules = map[string]core.Level{"no-such-rule": core.LevelWarn}
		_, err := Run(context.Background(), opts)

		var selErr *lint.SelectionError
		require.ErrorAs(t, err, &selErr)
		assert.Equal(t, "no-such-rule", selErr.Rule)
	})

	t.Run("removed rule", func(t *testing.T) {
		opts := baseOptions(t, root)
		opts.Lint.Rules = map[string]core.Level{"unittest-test-prefix": core.LevelError}
		_, err := Run(context.Background(), opts)

		var getErr *lint.GetLintError
		require.ErrorAs(t, err, &getErr)
		assert.Equal(t, lint.GetLintRemoved, getErr.Kind)
	})

	t.Run("bad ignore pattern", func(t *testing.T) {
		opts := baseOptions(t, root)
		opts.Lint.ExtendIgnoreNames = []string{"["}
		_, err := Run(context.Background(), opts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "lint.ignore_names")
	})
}

func TestRun_SyntaxErrorIsSkipped(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		"broken.py": "def testBroken(:\n",
		"ok.py":     "def testOk():\n    pass\n",
	})

	report, err := Run(context.Background(), baseOptions(t, root))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Files)
	require.Len(t, report.ParseErrors, 1)
	assert.True(t, IsSyntaxError(report.ParseErrors[0]))
	require.Len(t, report.Results, 1)
	assert.Equal(t, filepath.Join(root, "ok.py"), report.Results[0].Path)
}

func TestRun_Cancelled(t *testing.T) {
	root := testutil.NewPythonProject(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, baseOptions(t, root))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRun_MissingPath(t *testing.T) {
	_, err := Run(context.Background(), baseOptions(t, filepath.Join(t.TempDir(), "missing")))
	require.Error(t, err)
}

func TestRun_Cache(t *testing.T) {
	ctx := context.Background()
	root := testutil.NewPythonProject(t, "")
	store, err := cache.Open(cache.DefaultPath(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	opts := baseOptions(t, root)
	opts.Cache = store

	first, err := Run(ctx, opts)
	require.NoError(t, err)
	assert.Zero(t, first.Cached)
	assert.Equal(t, 2, first.Issues())

	second, err := Run(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Cached, "unchanged files come from the cache")
	assert.Equal(t, first.Results, second.Results)

	// Editing a file invalidates only that file.
	testutil.WriteFiles(t, root, map[string]string{
		"tests/test_account.py": "def test_deposit():\n    pass\n",
	})
	third, err := Run(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, third.Cached)
	assert.Equal(t, 0, third.Issues())

	// A level override changes the settings key.
	opts.Lint.Rules = map[string]core.Level{"invalid-test-name": core.LevelError}
	fourth, err := Run(ctx, opts)
	require.NoError(t, err)
	assert.Zero(t, fourth.Cached)

	runs, err := store.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 4)
	ids := []string{runs[0].ID, runs[1].ID, runs[2].ID, runs[3].ID}
	assert.Contains(t, ids, first.RunID)
	assert.Contains(t, ids, fourth.RunID)
}
