// Package checker runs one lint pass over a set of Python paths: discovery,
// parsing, rule selection and analysis. The CLI check command and watch mode
// both drive it.
package checker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leaplint/internal/cache"
	"github.com/leapstack-labs/leaplint/internal/python"
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

// Options configures a single run.
type Options struct {
	// Paths are the files and directories to check.
	Paths   []string
	Include []string
	Exclude []string

	Lint    core.LintConfig
	Preview bool
	// Workers bounds parse and analysis concurrency. Zero means GOMAXPROCS.
	Workers int

	Registry *lint.Registry
	Rules    []lint.RuleDef
	Logger   *slog.Logger

	// Cache, when set, answers unchanged files from previous runs and
	// records this run.
	Cache *cache.Store
}

// Report is the outcome of a run.
type Report struct {
	RunID string
	Files int
	// Cached is the number of files answered from the cache.
	Cached     int
	Results    []lint.FileResult
	Advisories []lint.Advisory
	// ParseErrors holds files that could not be read or parsed. They are
	// skipped, not fatal.
	ParseErrors []error
	Duration    time.Duration
}

// Issues returns the total number of diagnostics.
func (r *Report) Issues() int {
	n := 0
	for _, res := range r.Results {
		n += len(res.Diagnostics)
	}
	return n
}

// Count returns the number of diagnostics with the given severity.
func (r *Report) Count(sev core.Severity) int {
	n := 0
	for _, res := range r.Results {
		for _, d := range res.Diagnostics {
			if d.Severity == sev {
				n++
			}
		}
	}
	return n
}

// Run performs one lint pass. Configuration errors (unknown or removed rules,
// malformed patterns) abort the run before any file is read.
func Run(ctx context.Context, opts Options) (*Report, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("run_id", runID)

	analyzer, advisories, err := Prepare(opts.Registry, opts.Rules, opts.Lint, opts.Preview, logger)
	if err != nil {
		return nil, err
	}

	files, err := python.DiscoverAll(opts.Paths, opts.Include, opts.Exclude)
	if err != nil {
		return nil, err
	}
	logger.Debug("files discovered", "count", len(files))

	var key string
	if opts.Cache != nil {
		if key, err = settingsKey(opts); err != nil {
			return nil, err
		}
	}

	loadedFiles, err := loadAll(ctx, files, opts.Workers, opts.Cache, key, logger)
	if err != nil {
		return nil, err
	}

	results, cached, parseErrs, err := analyze(ctx, analyzer, loadedFiles, opts.Workers, opts.Cache, key, logger)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:       runID,
		Files:       len(files),
		Cached:      cached,
		Results:     results,
		Advisories:  advisories,
		ParseErrors: parseErrs,
		Duration:    time.Since(start),
	}
	if opts.Cache != nil {
		err := opts.Cache.RecordRun(ctx, cache.Run{
			ID:        runID,
			StartedAt: start,
			Duration:  report.Duration,
			Files:     report.Files,
			Cached:    cached,
			Errors:    report.Count(core.SeverityError),
			Warnings:  report.Count(core.SeverityWarning),
		})
		if err != nil {
			logger.Warn("recording run failed", "error", err)
		}
	}
	logger.Info("check complete",
		"files", report.Files,
		"cached", cached,
		"issues", report.Issues(),
		"parse_errors", len(parseErrs),
		"duration", report.Duration,
	)
	return report, nil
}

// Prepare resolves the rule selection and per-rule settings of cfg into an
// analyzer. The language server uses it directly for single documents.
func Prepare(reg *lint.Registry, defs []lint.RuleDef, cfg core.LintConfig, preview bool, logger *slog.Logger) (*lint.Analyzer, []lint.Advisory, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	sel, advisories, err := lint.NewSelection(reg, lint.SelectionOptions{
		Levels:  cfg.LevelOverrides(),
		Preview: preview,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	settings, err := lint.NewSettings(reg, &cfg)
	if err != nil {
		return nil, nil, err
	}
	analyzer := lint.NewAnalyzer(defs, sel, settings)
	logger.Debug("rules selected", "active", len(sel.Active()), "runnable", analyzer.RuleCount())
	return analyzer, advisories, nil
}

// loaded is the outcome of reading one file: a parsed unit to analyze, or a
// cached result, or an error.
type loaded struct {
	unit   *lint.Unit
	cached *lint.FileResult
	hash   string
	err    error
}

// loadAll reads and parses files concurrently. Files with a matching cache
// entry are not parsed. A file that fails to parse is logged and reported;
// only cancellation aborts the whole batch.
func loadAll(ctx context.Context, files []string, workers int, store *cache.Store, settingsKey string, logger *slog.Logger) ([]loaded, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := make([]loaded, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = load(gctx, path, store, settingsKey, logger)
			if out[i].err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.Warn("skipping file", "path", path, "error", out[i].err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func load(ctx context.Context, path string, store *cache.Store, settingsKey string, logger *slog.Logger) loaded {
	src, err := os.ReadFile(path)
	if err != nil {
		return loaded{err: fmt.Errorf("%s: read file: %w", path, err)}
	}

	var hash string
	if store != nil {
		hash = cache.HashContent(src)
		diags, hit, err := store.Lookup(ctx, path, hash, settingsKey)
		switch {
		case err != nil:
			logger.Warn("cache lookup failed", "path", path, "error", err)
		case hit:
			return loaded{cached: &lint.FileResult{Path: path, Diagnostics: diags}, hash: hash}
		}
	}

	f, err := python.Parse(ctx, path, src)
	if err != nil {
		if !IsSyntaxError(err) {
			err = fmt.Errorf("%s: %w", path, err)
		}
		return loaded{err: err}
	}
	return loaded{unit: &lint.Unit{Module: f.Module, Semantic: f.Bindings}, hash: hash}
}

// analyze runs the analyzer over the parsed files, stores fresh results in
// the cache and merges them with the cached ones.
func analyze(ctx context.Context, analyzer *lint.Analyzer, files []loaded, workers int, store *cache.Store, settingsKey string, logger *slog.Logger) ([]lint.FileResult, int, []error, error) {
	var (
		units   []lint.Unit
		results []lint.FileResult
		failed  []error
		hashes  = make(map[string]string)
	)
	for _, f := range files {
		switch {
		case f.err != nil:
			failed = append(failed, f.err)
		case f.cached != nil:
			results = append(results, *f.cached)
		default:
			units = append(units, *f.unit)
			hashes[f.unit.Module.Path] = f.hash
		}
	}
	cached := len(results)

	fresh, err := analyzer.AnalyzeAll(ctx, units, workers)
	if err != nil {
		return nil, 0, nil, err
	}
	if store != nil {
		for _, res := range fresh {
			if err := store.Put(ctx, res.Path, hashes[res.Path], settingsKey, res.Diagnostics); err != nil {
				logger.Warn("cache store failed", "path", res.Path, "error", err)
			}
		}
	}

	results = append(results, fresh...)
	slices.SortFunc(results, func(x, y lint.FileResult) int {
		return strings.Compare(x.Path, y.Path)
	})
	return results, cached, failed, nil
}

// settingsKey fingerprints the configuration and the rule catalog, so a
// config edit or a rule change invalidates cached results.
func settingsKey(opts Options) (string, error) {
	catalog := make([]string, 0, opts.Registry.Len())
	for _, m := range opts.Registry.Lints() {
		lc := m.Lifecycle()
		catalog = append(catalog, fmt.Sprintf("%s:%s:%s@%s", m.Name(), m.DefaultLevel(), lc.Stage(), lc.Since()))
	}
	return cache.SettingsKey(opts.Lint, opts.Preview, catalog)
}

// IsSyntaxError reports whether err wraps a *python.SyntaxError.
func IsSyntaxError(err error) bool {
	var se *python.SyntaxError
	return errors.As(err, &se)
}
