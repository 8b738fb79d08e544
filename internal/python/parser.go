// Package python is the Python frontend. It parses sources with tree-sitter and
// produces the syntax tree and import bindings that lint rules consume.
package python

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/leapstack-labs/leaplint/pkg/semantic"
	"github.com/leapstack-labs/leaplint/pkg/syntax"
	"github.com/leapstack-labs/leaplint/pkg/token"
)

// maxDepth bounds recursion on pathological inputs.
const maxDepth = 1000

// SyntaxError reports source that tree-sitter could not parse cleanly.
type SyntaxError struct {
	Path string
	Pos  token.Position
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%s: %s", e.Path, e.Pos, e.Msg)
}

// File is a parsed Python source file.
type File struct {
	Module   *syntax.Module
	Bindings *semantic.Bindings
}

// ParseFile reads and parses a Python file.
func ParseFile(ctx context.Context, path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Parse(ctx, path, content)
}

// Parse parses Python source. Sources with syntax errors are rejected with a
// *SyntaxError pointing at the first problem.
func Parse(ctx context.Context, path string, src []byte) (*File, error) {
	if !utf8.Valid(src) {
		return nil, &SyntaxError{Path: path, Pos: token.Position{Line: 1, Column: 1}, Msg: "source is not valid UTF-8"}
	}

	// A parser per call: sitter.Parser is not safe for concurrent use.
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, firstSyntaxError(path, root, src)
	}

	b := &builder{src: src, bindings: semantic.NewBindings()}
	mod := &syntax.Module{Path: path, Body: b.definitions(root, 0)}
	b.imports(root, 0)

	return &File{Module: mod, Bindings: b.bindings}, nil
}

type builder struct {
	src      []byte
	bindings *semantic.Bindings
}

func (b *builder) text(n *sitter.Node) string {
	return n.Content(b.src)
}

// definitions collects the function and class definitions nested under n,
// looking through compound statements such as if, try and with.
func (b *builder) definitions(n *sitter.Node, depth int) []syntax.Node {
	if n == nil || depth > maxDepth {
		return nil
	}
	var out []syntax.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "function_definition":
			out = append(out, b.function(child, nil, depth))
		case "class_definition":
			out = append(out, b.class(child, nil, depth))
		case "decorated_definition":
			if def := b.decorated(child, depth); def != nil {
				out = append(out, def)
			}
		default:
			out = append(out, b.definitions(child, depth+1)...)
		}
	}
	return out
}

func (b *builder) decorated(n *sitter.Node, depth int) syntax.Node {
	var decorators []syntax.Decorator
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "decorator" {
			decorators = append(decorators, b.decorator(child))
		}
	}

	def := n.ChildByFieldName("definition")
	if def == nil {
		return nil
	}
	switch def.Type() {
	case "function_definition":
		fn := b.function(def, decorators, depth)
		fn.Range = span(n)
		return fn
	case "class_definition":
		cls := b.class(def, decorators, depth)
		cls.Range = span(n)
		return cls
	default:
		return nil
	}
}

// decorator returns the decorator's dotted target with any call arguments removed.
func (b *builder) decorator(n *sitter.Node) syntax.Decorator {
	dec := syntax.Decorator{Span: span(n)}
	if n.NamedChildCount() == 0 {
		return dec
	}
	expr := n.NamedChild(0)
	if expr.Type() == "call" {
		if fn := expr.ChildByFieldName("function"); fn != nil {
			expr = fn
		}
	}
	dec.Expression = strings.Join(strings.Fields(b.text(expr)), "")
	return dec
}

func (b *builder) function(n *sitter.Node, decorators []syntax.Decorator, depth int) *syntax.FunctionDef {
	fn := &syntax.FunctionDef{
		Decorators: decorators,
		Range:      span(n),
	}
	if name := n.ChildByFieldName("name"); name != nil {
		fn.Name = b.text(name)
		fn.NameSpan = span(name)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "async" {
			fn.Async = true
			break
		}
	}
	fn.Body = b.definitions(n.ChildByFieldName("body"), depth+1)
	return fn
}

func (b *builder) class(n *sitter.Node, decorators []syntax.Decorator, depth int) *syntax.ClassDef {
	cls := &syntax.ClassDef{
		Decorators: decorators,
		Range:      span(n),
	}
	if name := n.ChildByFieldName("name"); name != nil {
		cls.Name = b.text(name)
		cls.NameSpan = span(name)
	}
	if supers := n.ChildByFieldName("superclasses"); supers != nil {
		for i := 0; i < int(supers.NamedChildCount()); i++ {
			arg := supers.NamedChild(i)
			if arg.Type() == "keyword_argument" {
				continue
			}
			cls.Bases = append(cls.Bases, b.text(arg))
		}
	}
	cls.Body = b.definitions(n.ChildByFieldName("body"), depth+1)
	return cls
}

// imports records every import statement in the file, at any nesting level,
// in source order. Bindings are file-wide: an import inside a function is
// visible everywhere. Definitions directly in the module body rebind their
// name locally.
func (b *builder) imports(n *sitter.Node, depth int) {
	if depth > maxDepth {
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "import_statement":
			b.importStatement(child)
		case "import_from_statement":
			b.importFromStatement(child)
		case "function_definition", "class_definition":
			if depth == 0 {
				b.bindDefinition(child)
			}
			b.imports(child, depth+1)
		case "decorated_definition":
			if def := child.ChildByFieldName("definition"); def != nil && depth == 0 {
				b.bindDefinition(def)
			}
			b.imports(child, depth+1)
		default:
			b.imports(child, depth+1)
		}
	}
}

func (b *builder) bindDefinition(n *sitter.Node) {
	if name := n.ChildByFieldName("name"); name != nil {
		b.bindings.BindLocal(b.text(name))
	}
}

// importStatement handles `import a.b` and `import a.b as c`.
func (b *builder) importStatement(n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "dotted_name":
			b.bindings.BindImport(b.text(child), "")
		case "aliased_import":
			name, alias := b.aliased(child)
			if name != "" {
				b.bindings.BindImport(name, alias)
			}
		}
	}
}

// importFromStatement handles `from m import a, b as c`. Wildcard imports bind nothing.
func (b *builder) importFromStatement(n *sitter.Node) {
	var module string
	sawImport := false
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "import":
			sawImport = true
		case "relative_import":
			module = b.text(child)
		case "dotted_name":
			if !sawImport {
				module = b.text(child)
				continue
			}
			b.bindings.BindFromImport(module, b.text(child), "")
		case "aliased_import":
			name, alias := b.aliased(child)
			if name != "" {
				b.bindings.BindFromImport(module, name, alias)
			}
		}
	}
}

func (b *builder) aliased(n *sitter.Node) (name, alias string) {
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		name = b.text(nameNode)
	}
	if aliasNode := n.ChildByFieldName("alias"); aliasNode != nil {
		alias = b.text(aliasNode)
	}
	return name, alias
}

func position(p sitter.Point, offset uint32) token.Position {
	return token.Position{
		Line:   int(p.Row) + 1,
		Column: int(p.Column) + 1,
		Offset: int(offset),
	}
}

func span(n *sitter.Node) token.Span {
	return token.Span{
		Start: position(n.StartPoint(), n.StartByte()),
		End:   position(n.EndPoint(), n.EndByte()),
	}
}

// firstSyntaxError locates the first ERROR or MISSING node under root.
func firstSyntaxError(path string, root *sitter.Node, src []byte) *SyntaxError {
	var found *sitter.Node
	var visit func(n *sitter.Node, depth int)
	visit = func(n *sitter.Node, depth int) {
		if found != nil || depth > maxDepth {
			return
		}
		if n.IsError() || n.IsMissing() {
			found = n
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			visit(n.Child(i), depth+1)
		}
	}
	visit(root, 0)

	if found == nil {
		return &SyntaxError{Path: path, Pos: token.Position{Line: 1, Column: 1}, Msg: "syntax error"}
	}
	msg := "syntax error"
	if found.IsMissing() {
		msg = fmt.Sprintf("missing %s", found.Type())
	} else if text := found.Content(src); text != "" && len(text) < 40 {
		msg = fmt.Sprintf("unexpected %q", text)
	}
	return &SyntaxError{Path: path, Pos: position(found.StartPoint(), found.StartByte()), Msg: msg}
}
