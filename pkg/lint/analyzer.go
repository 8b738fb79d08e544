package lint

import (
	"context"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leaplint/pkg/semantic"
	"github.com/leapstack-labs/leaplint/pkg/syntax"
)

// Analyzer runs the active rules against parsed modules.
// It holds no mutable state and may be shared between goroutines.
type Analyzer struct {
	byKind    map[syntax.Kind][]RuleDef
	selection *Selection
	settings  *Settings
}

// NewAnalyzer creates an analyzer for the rules enabled in sel.
// Rules that are not selected, or that have no check, never run.
func NewAnalyzer(rules []RuleDef, sel *Selection, settings *Settings) *Analyzer {
	if settings == nil {
		settings = DefaultSettings()
	}
	a := &Analyzer{
		byKind:    make(map[syntax.Kind][]RuleDef),
		selection: sel,
		settings:  settings,
	}
	for _, rule := range rules {
		if rule.Check == nil || !sel.Enabled(rule.Name()) {
			continue
		}
		for _, kind := range rule.Kinds {
			a.byKind[kind] = append(a.byKind[kind], rule)
		}
	}
	return a
}

// RuleCount returns the number of distinct rules the analyzer will run.
func (a *Analyzer) RuleCount() int {
	seen := make(map[LintName]struct{})
	for _, rules := range a.byKind {
		for _, r := range rules {
			seen[r.Name()] = struct{}{}
		}
	}
	return len(seen)
}

// Analyze runs all applicable rules against every node of mod.
// Diagnostics are ordered by position, then rule name.
func (a *Analyzer) Analyze(mod *syntax.Module, sem semantic.Model) []Diagnostic {
	if mod == nil {
		return nil
	}

	var diagnostics []Diagnostic
	for node := range mod.Walk() {
		for _, rule := range a.byKind[node.Kind()] {
			diag, ok := rule.Check(node, sem, a.settings)
			if !ok {
				continue
			}
			diag.Rule = rule.Name()
			diag.Severity, _ = a.selection.Severity(rule.Name())
			diag.DocumentationURL = BuildDocURL(rule.Name())
			diagnostics = append(diagnostics, diag)
		}
	}

	slices.SortFunc(diagnostics, compareDiagnostics)
	return diagnostics
}

// Unit is one parsed file ready for analysis.
type Unit struct {
	Module   *syntax.Module
	Semantic semantic.Model
}

// FileResult holds the diagnostics of one file.
type FileResult struct {
	Path        string
	Diagnostics []Diagnostic
}

// AnalyzeAll analyzes units concurrently with at most workers goroutines
// (GOMAXPROCS when workers <= 0). Results are sorted by path. Units without a
// module produce no result.
func (a *Analyzer) AnalyzeAll(ctx context.Context, units []Unit, workers int) ([]FileResult, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	units = slices.DeleteFunc(slices.Clone(units), func(u Unit) bool { return u.Module == nil })

	results := make([]FileResult, len(units))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, unit := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = FileResult{
				Path:        unit.Module.Path,
				Diagnostics: a.Analyze(unit.Module, unit.Semantic),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(x, y FileResult) int {
		return strings.Compare(x.Path, y.Path)
	})
	return results, nil
}
