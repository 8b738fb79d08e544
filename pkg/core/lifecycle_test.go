package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycle_Variants(t *testing.T) {
	tests := []struct {
		name    string
		lc      Lifecycle
		stage   Stage
		since   string
		reason  string
		removed bool
	}{
		{name: "preview", lc: LifecyclePreview("0.1.0"), stage: StagePreview, since: "0.1.0"},
		{name: "stable", lc: LifecycleStable("0.2.0"), stage: StageStable, since: "0.2.0"},
		{name: "deprecated", lc: LifecycleDeprecated("0.3.0", "use other-rule"), stage: StageDeprecated, since: "0.3.0", reason: "use other-rule"},
		{name: "removed", lc: LifecycleRemoved("0.4.0", "no longer useful"), stage: StageRemoved, since: "0.4.0", reason: "no longer useful", removed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.stage, tt.lc.Stage())
			assert.Equal(t, tt.since, tt.lc.Since())
			assert.Equal(t, tt.reason, LifecycleReason(tt.lc))
			assert.Equal(t, tt.removed, IsRemoved(tt.lc))
			assert.Equal(t, tt.name, tt.lc.Stage().String())

			parsed, ok := ParseStage(tt.name)
			assert.True(t, ok)
			assert.Equal(t, tt.stage, parsed)
		})
	}
}

func TestAdvance_ForwardPath(t *testing.T) {
	lc := LifecyclePreview("0.1.0")

	lc, err := Advance(lc, LifecycleStable("0.2.0"))
	require.NoError(t, err)
	assert.Equal(t, StageStable, lc.Stage())

	lc, err = Advance(lc, LifecycleDeprecated("0.3.0", "superseded by other-rule"))
	require.NoError(t, err)
	assert.Equal(t, StageDeprecated, lc.Stage())

	lc, err = Advance(lc, LifecycleRemoved("0.4.0", "superseded by other-rule"))
	require.NoError(t, err)
	assert.True(t, IsRemoved(lc))
}

func TestAdvance_RejectsInvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from Lifecycle
		to   Lifecycle
	}{
		{name: "removed to stable", from: LifecycleRemoved("0.4.0", "gone"), to: LifecycleStable("0.5.0")},
		{name: "stable to preview", from: LifecycleStable("0.2.0"), to: LifecyclePreview("0.3.0")},
		{name: "preview to deprecated", from: LifecyclePreview("0.1.0"), to: LifecycleDeprecated("0.2.0", "skip")},
		{name: "preview to removed", from: LifecyclePreview("0.1.0"), to: LifecycleRemoved("0.2.0", "skip")},
		{name: "stable to stable", from: LifecycleStable("0.1.0"), to: LifecycleStable("0.2.0")},
		{name: "missing version", from: LifecyclePreview("0.1.0"), to: LifecycleStable("")},
		{name: "missing reason", from: LifecycleStable("0.1.0"), to: LifecycleDeprecated("0.2.0", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Advance(tt.from, tt.to)
			require.Error(t, err)

			var terr *TransitionError
			require.True(t, errors.As(err, &terr))
			assert.Equal(t, tt.from.Stage(), terr.From)
			assert.Equal(t, tt.to.Stage(), terr.To)
		})
	}
}

func TestAdvance_NilEndpoints(t *testing.T) {
	_, err := Advance(nil, LifecycleStable("0.1.0"))
	assert.Error(t, err)
}
