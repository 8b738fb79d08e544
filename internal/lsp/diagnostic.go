package lsp

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/leaplint/internal/checker"
	intconfig "github.com/leapstack-labs/leaplint/internal/config"
	"github.com/leapstack-labs/leaplint/internal/python"
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/token"
)

// diagnosticSource is reported as the source of every published diagnostic.
const diagnosticSource = "leaplint"

func prepareAnalyzer(opts Options, cfg intconfig.ProjectConfig, logger *slog.Logger) (*lint.Analyzer, []lint.Advisory, error) {
	return checker.Prepare(opts.Registry, opts.Rules, cfg.Lint, opts.Preview, logger)
}

// publishDiagnostics lints the document and publishes the result.
// Non-Python documents always get an empty list.
func (s *Server) publishDiagnostics(ctx context.Context, uri string) {
	doc := s.documents.Get(uri)
	if doc == nil {
		return
	}

	diagnostics := []Diagnostic{}
	if strings.HasSuffix(URIToPath(uri), ".py") {
		diagnostics = s.lintDocument(ctx, doc)
	}

	version := doc.Version
	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Version:     &version,
		Diagnostics: diagnostics,
	})
}

// lintDocument parses and analyzes one document. A syntax error becomes a
// single error diagnostic; no rules run on unparsable source.
func (s *Server) lintDocument(ctx context.Context, doc *Document) []Diagnostic {
	s.lintMu.RLock()
	analyzer := s.analyzer
	s.lintMu.RUnlock()
	if analyzer == nil {
		return []Diagnostic{}
	}

	file, err := python.Parse(ctx, URIToPath(doc.URI), []byte(doc.Content))
	if err != nil {
		var syntaxErr *python.SyntaxError
		if errors.As(err, &syntaxErr) {
			pos := doc.OffsetToPosition(syntaxErr.Pos.Offset)
			return []Diagnostic{{
				Range:    Range{Start: pos, End: pos},
				Severity: DiagnosticSeverityError,
				Code:     "syntax-error",
				Source:   diagnosticSource,
				Message:  syntaxErr.Msg,
			}}
		}
		s.logger.Warn("parse failed", "uri", doc.URI, "error", err)
		return []Diagnostic{}
	}

	found := analyzer.Analyze(file.Module, file.Bindings)
	s.resultsMu.Lock()
	s.results[doc.URI] = found
	s.resultsMu.Unlock()

	diagnostics := make([]Diagnostic, 0, len(found))
	for _, d := range found {
		diagnostics = append(diagnostics, toLSPDiagnostic(doc, d))
	}
	return diagnostics
}

// toLSPDiagnostic converts a lint diagnostic using the document's own offsets.
func toLSPDiagnostic(doc *Document, d lint.Diagnostic) Diagnostic {
	out := Diagnostic{
		Range:    spanToRange(doc, d.Span),
		Severity: severityToLSP(d.Severity),
		Code:     string(d.Rule),
		Source:   diagnosticSource,
		Message:  d.Message,
	}
	if d.DocumentationURL != "" {
		out.CodeDescription = &CodeDescription{Href: d.DocumentationURL}
	}
	return out
}

func spanToRange(doc *Document, span token.Span) Range {
	return Range{
		Start: doc.OffsetToPosition(span.Start.Offset),
		End:   doc.OffsetToPosition(span.End.Offset),
	}
}

func severityToLSP(sev core.Severity) DiagnosticSeverity {
	switch sev {
	case core.SeverityError:
		return DiagnosticSeverityError
	case core.SeverityWarning:
		return DiagnosticSeverityWarning
	default:
		return DiagnosticSeverityInformation
	}
}
