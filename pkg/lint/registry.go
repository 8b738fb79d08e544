package lint

import (
	"fmt"
	"slices"

	"github.com/leapstack-labs/leaplint/pkg/core"
)

// =============================================================================
// Builder
// =============================================================================

// RegistryBuilder collects lint metadata at startup.
// It is not safe for concurrent use; build the registry once, then share it.
type RegistryBuilder struct {
	byName  map[LintName]*LintMetadata
	order   []*LintMetadata
	aliases map[LintName]LintName
}

// NewRegistryBuilder returns an empty builder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{
		byName:  make(map[LintName]*LintMetadata),
		aliases: make(map[LintName]LintName),
	}
}

// Register adds a lint. Registering two lints with the same name is a
// programming error and panics, naming both declaration sites.
func (b *RegistryBuilder) Register(m *LintMetadata) *RegistryBuilder {
	if m == nil {
		panic("lint: Register called with nil metadata")
	}
	if prev, ok := b.byName[m.name]; ok {
		panic(fmt.Sprintf("lint: duplicate lint %q declared at %s and %s", m.name, prev.Location(), m.Location()))
	}
	if target, ok := b.aliases[m.name]; ok {
		panic(fmt.Sprintf("lint: lint %q declared at %s shadows an alias of %q", m.name, m.Location(), target))
	}
	b.byName[m.name] = m
	b.order = append(b.order, m)
	return b
}

// RegisterAlias makes from resolve to the registered lint to. Aliases keep
// configuration that uses a rule's previous name working after a rename.
func (b *RegistryBuilder) RegisterAlias(from, to LintName) *RegistryBuilder {
	if !ValidName(string(from)) {
		panic(fmt.Sprintf("lint: invalid alias name %q", from))
	}
	if _, ok := b.byName[to]; !ok {
		panic(fmt.Sprintf("lint: alias %q targets unknown lint %q", from, to))
	}
	if _, ok := b.byName[from]; ok {
		panic(fmt.Sprintf("lint: alias %q collides with a registered lint", from))
	}
	if prev, ok := b.aliases[from]; ok {
		panic(fmt.Sprintf("lint: alias %q already targets %q", from, prev))
	}
	b.aliases[from] = to
	return b
}

// Build freezes the builder into a Registry. The builder must not be used afterwards.
func (b *RegistryBuilder) Build() *Registry {
	return &Registry{
		byName:  b.byName,
		order:   b.order,
		aliases: b.aliases,
	}
}

// =============================================================================
// Registry
// =============================================================================

// Registry is the read-only set of known lints.
type Registry struct {
	byName  map[LintName]*LintMetadata
	order   []*LintMetadata
	aliases map[LintName]LintName
}

// GetLintErrorKind distinguishes lookup failures.
type GetLintErrorKind int

const (
	// GetLintUnknown means no lint or alias has the requested name.
	GetLintUnknown GetLintErrorKind = iota
	// GetLintRemoved means the lint exists but has been removed.
	GetLintRemoved
)

// GetLintError is returned by Registry.Get.
type GetLintError struct {
	Kind   GetLintErrorKind
	Name   string
	Reason string // removal reason, GetLintRemoved only
}

func (e *GetLintError) Error() string {
	switch e.Kind {
	case GetLintRemoved:
		if e.Reason != "" {
			return fmt.Sprintf("lint `%s` has been removed: %s", e.Name, e.Reason)
		}
		return fmt.Sprintf("lint `%s` has been removed", e.Name)
	default:
		return fmt.Sprintf("unknown lint rule `%s`", e.Name)
	}
}

// Get returns the lint with the given name or alias.
// Removed lints are reported as a *GetLintError of kind GetLintRemoved.
func (r *Registry) Get(name string) (*LintMetadata, error) {
	m, ok := r.Lookup(name)
	if !ok {
		return nil, &GetLintError{Kind: GetLintUnknown, Name: name}
	}
	if core.IsRemoved(m.lifecycle) {
		return nil, &GetLintError{Kind: GetLintRemoved, Name: name, Reason: core.LifecycleReason(m.lifecycle)}
	}
	return m, nil
}

// Lookup returns the lint with the given name or alias regardless of its lifecycle.
func (r *Registry) Lookup(name string) (*LintMetadata, bool) {
	if r == nil {
		return nil, false
	}
	key := LintName(name)
	if target, ok := r.aliases[key]; ok {
		key = target
	}
	m, ok := r.byName[key]
	return m, ok
}

// Lints returns all lints in registration order.
func (r *Registry) Lints() []*LintMetadata {
	if r == nil {
		return nil
	}
	return slices.Clone(r.order)
}

// Len returns the number of registered lints.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Aliases returns the sorted aliases that resolve to name.
func (r *Registry) Aliases(name LintName) []LintName {
	if r == nil {
		return nil
	}
	var out []LintName
	for from, to := range r.aliases {
		if to == name {
			out = append(out, from)
		}
	}
	slices.Sort(out)
	return out
}

// Info returns tooling metadata for every lint, in registration order.
func (r *Registry) Info() []core.RuleInfo {
	if r == nil {
		return nil
	}
	infos := make([]core.RuleInfo, 0, len(r.order))
	for _, m := range r.order {
		info := m.Info()
		for _, alias := range r.Aliases(m.name) {
			info.Aliases = append(info.Aliases, string(alias))
		}
		infos = append(infos, info)
	}
	return infos
}

// Groups returns the distinct rule groups in first-registration order.
func (r *Registry) Groups() []string {
	if r == nil {
		return nil
	}
	var groups []string
	for _, m := range r.order {
		if !slices.Contains(groups, m.group) {
			groups = append(groups, m.group)
		}
	}
	return groups
}
