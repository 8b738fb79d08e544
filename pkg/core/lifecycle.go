package core

import "fmt"

// =============================================================================
// Lifecycle
// =============================================================================

// Stage orders the lifecycle variants. A rule only ever moves forward one stage at a time.
type Stage int

// Lifecycle stages, in transition order.
const (
	StagePreview Stage = iota
	StageStable
	StageDeprecated
	StageRemoved
)

// String returns the lower-case stage name.
func (s Stage) String() string {
	switch s {
	case StagePreview:
		return "preview"
	case StageStable:
		return "stable"
	case StageDeprecated:
		return "deprecated"
	case StageRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// ParseStage converts a stage name to a Stage.
func ParseStage(s string) (Stage, bool) {
	switch s {
	case "preview":
		return StagePreview, true
	case "stable":
		return StageStable, true
	case "deprecated":
		return StageDeprecated, true
	case "removed":
		return StageRemoved, true
	default:
		return StagePreview, false
	}
}

// Lifecycle is the versioned status of a rule. The concrete variants are
// Preview, Stable, Deprecated and Removed; the set is closed.
//
// Consumers are expected to type-switch over all four variants.
type Lifecycle interface {
	// Stage returns the position of the variant in the transition order.
	Stage() Stage
	// Since returns the version in which the rule entered this stage.
	Since() string

	isLifecycle()
}

// Preview rules run only when preview mode is requested and carry no stability guarantees.
type Preview struct {
	Version string
}

// Stable rules are generally available and covered by semantic-versioning guarantees.
type Stable struct {
	Version string
}

// Deprecated rules still run, but will be removed in a future release.
type Deprecated struct {
	Version string
	// Reason explains the deprecation and names a replacement rule, if any.
	Reason string
}

// Removed rules never run. Selecting one is a configuration error.
type Removed struct {
	Version string
	Reason  string
}

func (Preview) Stage() Stage    { return StagePreview }
func (Stable) Stage() Stage     { return StageStable }
func (Deprecated) Stage() Stage { return StageDeprecated }
func (Removed) Stage() Stage    { return StageRemoved }

func (p Preview) Since() string    { return p.Version }
func (s Stable) Since() string     { return s.Version }
func (d Deprecated) Since() string { return d.Version }
func (r Removed) Since() string    { return r.Version }

func (Preview) isLifecycle()    {}
func (Stable) isLifecycle()     {}
func (Deprecated) isLifecycle() {}
func (Removed) isLifecycle()    {}

// LifecyclePreview returns a Preview lifecycle added in version.
func LifecyclePreview(version string) Lifecycle { return Preview{Version: version} }

// LifecycleStable returns a Stable lifecycle stabilized in version.
func LifecycleStable(version string) Lifecycle { return Stable{Version: version} }

// LifecycleDeprecated returns a Deprecated lifecycle.
func LifecycleDeprecated(version, reason string) Lifecycle {
	return Deprecated{Version: version, Reason: reason}
}

// LifecycleRemoved returns a Removed lifecycle.
func LifecycleRemoved(version, reason string) Lifecycle {
	return Removed{Version: version, Reason: reason}
}

// IsRemoved reports whether the lifecycle is Removed.
func IsRemoved(lc Lifecycle) bool {
	_, ok := lc.(Removed)
	return ok
}

// LifecycleReason returns the reason text of a Deprecated or Removed lifecycle.
func LifecycleReason(lc Lifecycle) string {
	switch lc := lc.(type) {
	case Deprecated:
		return lc.Reason
	case Removed:
		return lc.Reason
	default:
		return ""
	}
}

// TransitionError reports an invalid lifecycle transition.
type TransitionError struct {
	From Stage
	To   Stage
	Msg  string
}

func (e *TransitionError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("invalid lifecycle transition %s -> %s: %s", e.From, e.To, e.Msg)
	}
	return fmt.Sprintf("invalid lifecycle transition %s -> %s", e.From, e.To)
}

// Advance validates a transition from one lifecycle to the next.
// The only legal paths are Preview -> Stable -> Deprecated -> Removed, one step at a time.
func Advance(from, to Lifecycle) (Lifecycle, error) {
	if from == nil || to == nil {
		return nil, fmt.Errorf("lifecycle transition requires both endpoints")
	}
	if to.Stage() != from.Stage()+1 {
		return nil, &TransitionError{From: from.Stage(), To: to.Stage()}
	}
	if to.Since() == "" {
		return nil, &TransitionError{From: from.Stage(), To: to.Stage(), Msg: "missing version"}
	}
	if to.Stage() >= StageDeprecated && LifecycleReason(to) == "" {
		return nil, &TransitionError{From: from.Stage(), To: to.Stage(), Msg: "missing reason"}
	}
	return to, nil
}
