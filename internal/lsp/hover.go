package lsp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/lint"
)

// handleHover answers with the documentation of the rule reported at the
// cursor, or null when no diagnostic covers it.
func (s *Server) handleHover(msg *JSONRPCMessage) error {
	var params HoverParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidParams, Message: err.Error()})
		return err
	}

	hover := s.getHover(params)
	if hover == nil {
		s.sendResponse(msg.ID, nil, nil)
		return nil
	}
	s.sendResponse(msg.ID, hover, nil)
	return nil
}

func (s *Server) getHover(params HoverParams) *Hover {
	uri := params.TextDocument.URI
	doc := s.documents.Get(uri)
	if doc == nil {
		return nil
	}
	offset := doc.PositionToOffset(params.Position)

	s.resultsMu.Lock()
	found := s.results[uri]
	s.resultsMu.Unlock()

	var sections []string
	var hit *lint.Diagnostic
	for i, d := range found {
		if !d.Span.Contains(offset) {
			continue
		}
		if hit == nil {
			hit = &found[i]
		}
		sections = append(sections, s.ruleHover(d))
	}
	if hit == nil {
		return nil
	}

	r := spanToRange(doc, hit.Span)
	return &Hover{
		Contents: MarkupContent{
			Kind:  MarkupKindMarkdown,
			Value: strings.Join(sections, "\n\n---\n\n"),
		},
		Range: &r,
	}
}

// ruleHover renders the message and rule documentation for one diagnostic.
func (s *Server) ruleHover(d lint.Diagnostic) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** (`%s`)\n\n", d.Message, d.Rule)

	if m, ok := s.opts.Registry.Lookup(string(d.Rule)); ok {
		b.WriteString(m.Summary())
		b.WriteString("\n\n")
		b.WriteString(m.Documentation())
	}
	if d.DocumentationURL != "" {
		fmt.Fprintf(&b, "\n\n[Documentation](%s)", d.DocumentationURL)
	}
	return b.String()
}
