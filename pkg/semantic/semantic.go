// Package semantic defines the semantic facts lint rules may query.
//
// Rules never resolve symbols themselves. They ask a Model, supplied by the
// frontend, and use the helpers in this package to answer capability
// questions such as "is this definition marked as an override?".
package semantic

import (
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/syntax"
)

// Model answers name-resolution questions for a single analyzed module.
// Implementations must be safe for concurrent reads.
type Model interface {
	// ResolveQualifiedName resolves a dotted expression as written in source,
	// e.g. "t.override", to its fully qualified name, e.g. "typing.override".
	// It returns false when the head of the expression is not bound by an
	// import, or when a later local definition rebinds it.
	ResolveQualifiedName(expr string) (string, bool)
}

// Capability is a well-known decorator meaning.
type Capability string

// Known decorator capabilities.
const (
	CapabilityOverride Capability = "override"
	CapabilityOverload Capability = "overload"
)

// typingModules are the modules a typing capability may be imported from.
var typingModules = []string{"typing", "typing_extensions"}

// HasCapability reports whether any decorator resolves to the given typing capability.
func HasCapability(decorators []syntax.Decorator, model Model, capability Capability) bool {
	if model == nil {
		return false
	}
	for _, dec := range decorators {
		qualified, ok := model.ResolveQualifiedName(dec.Expression)
		if !ok {
			continue
		}
		for _, mod := range typingModules {
			if qualified == mod+"."+string(capability) {
				return true
			}
		}
	}
	return false
}

// IsOverride reports whether the decorators include typing.override.
func IsOverride(decorators []syntax.Decorator, model Model) bool {
	return HasCapability(decorators, model, CapabilityOverride)
}

// IsOverload reports whether the decorators include typing.overload.
func IsOverload(decorators []syntax.Decorator, model Model) bool {
	return HasCapability(decorators, model, CapabilityOverload)
}

// Bindings is a Model backed by the module's import statements.
//
// Bindings is populated by the frontend in source order while parsing and is
// read-only afterwards. The last binding of a name wins.
type Bindings struct {
	names map[string]string // local name -> qualified name
}

// NewBindings returns an empty binding table.
func NewBindings() *Bindings {
	return &Bindings{names: make(map[string]string)}
}

// BindImport records `import module` or `import module as alias`.
func (b *Bindings) BindImport(module, alias string) {
	if alias != "" {
		b.names[alias] = module
		return
	}
	// `import a.b` binds `a`.
	head, _, _ := strings.Cut(module, ".")
	b.names[head] = head
}

// BindFromImport records `from module import name` or `from module import name as alias`.
func (b *Bindings) BindFromImport(module, name, alias string) {
	local := name
	if alias != "" {
		local = alias
	}
	b.names[local] = module + "." + name
}

// BindLocal records a module-level `def name` or `class name`. A local
// definition shadows any earlier import of the same name.
func (b *Bindings) BindLocal(name string) {
	delete(b.names, name)
}

// Len returns the number of import-bound names.
func (b *Bindings) Len() int {
	if b == nil {
		return 0
	}
	return len(b.names)
}

// ResolveQualifiedName implements Model.
func (b *Bindings) ResolveQualifiedName(expr string) (string, bool) {
	if b == nil || expr == "" {
		return "", false
	}
	head, rest, hasRest := strings.Cut(expr, ".")
	qualified, ok := b.names[head]
	if !ok {
		return "", false
	}
	if hasRest {
		return qualified + "." + rest, true
	}
	return qualified, true
}
