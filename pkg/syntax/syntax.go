// Package syntax defines the syntax-tree contract consumed by lint rules.
//
// The tree is produced by a frontend (see internal/python); rules only see the
// node shapes declared here. Nodes are immutable once built and may be shared
// between goroutines.
package syntax

import (
	"iter"

	"github.com/leapstack-labs/leaplint/pkg/token"
)

// Kind identifies the shape of a node.
type Kind int

// Node kinds rules can subscribe to.
const (
	KindInvalid Kind = iota
	KindFunctionDef
	KindClassDef
)

// String returns the node kind name.
func (k Kind) String() string {
	switch k {
	case KindFunctionDef:
		return "function_def"
	case KindClassDef:
		return "class_def"
	default:
		return "invalid"
	}
}

// Node is a syntax-tree construct with a source range.
type Node interface {
	Kind() Kind
	Span() token.Span
}

// Named is a node with an identifying name. Its identifier span is used as the
// diagnostic anchor.
type Named interface {
	Node
	Identifier() (string, token.Span)
}

// Decorator is a single decorator applied to a definition.
type Decorator struct {
	// Expression is the decorator target as a dotted path with any call
	// arguments removed, e.g. "typing.override" for @typing.override().
	Expression string
	Span       token.Span
}

// FunctionDef is a function or method definition.
type FunctionDef struct {
	Name       string
	NameSpan   token.Span
	Decorators []Decorator
	Range      token.Span
	Async      bool
	Body       []Node // nested definitions only
}

// Kind implements Node.
func (f *FunctionDef) Kind() Kind { return KindFunctionDef }

// Span implements Node.
func (f *FunctionDef) Span() token.Span { return f.Range }

// Identifier implements Named.
func (f *FunctionDef) Identifier() (string, token.Span) { return f.Name, f.NameSpan }

// ClassDef is a class definition.
type ClassDef struct {
	Name       string
	NameSpan   token.Span
	Decorators []Decorator
	Bases      []string
	Range      token.Span
	Body       []Node // nested definitions only
}

// Kind implements Node.
func (c *ClassDef) Kind() Kind { return KindClassDef }

// Span implements Node.
func (c *ClassDef) Span() token.Span { return c.Range }

// Identifier implements Named.
func (c *ClassDef) Identifier() (string, token.Span) { return c.Name, c.NameSpan }

// DecoratorsOf returns the decorator list of a definition node, or nil.
func DecoratorsOf(n Node) []Decorator {
	switch n := n.(type) {
	case *FunctionDef:
		return n.Decorators
	case *ClassDef:
		return n.Decorators
	default:
		return nil
	}
}

// Module is a parsed source file.
type Module struct {
	Path string
	Body []Node
}

// Walk yields every node in the module in source order, parents before children.
// The sequence can be ranged over any number of times.
func (m *Module) Walk() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		if m == nil {
			return
		}
		walk(m.Body, yield)
	}
}

func walk(nodes []Node, yield func(Node) bool) bool {
	for _, n := range nodes {
		if !yield(n) {
			return false
		}
		var children []Node
		switch n := n.(type) {
		case *FunctionDef:
			children = n.Body
		case *ClassDef:
			children = n.Body
		}
		if !walk(children, yield) {
			return false
		}
	}
	return true
}
