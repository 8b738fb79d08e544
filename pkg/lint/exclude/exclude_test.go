package exclude

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternSet_Matches(t *testing.T) {
	set, err := New("*allowed*", "legacy_?", "setUp")
	require.NoError(t, err)

	tests := []struct {
		name string
		want bool
	}{
		{name: "testAllowedName", want: false},
		{name: "test_allowed_name", want: true},
		{name: "legacy_1", want: true},
		{name: "legacy_12", want: false},
		{name: "setUp", want: true},
		{name: "setup", want: false},
		{name: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, set.Matches(tt.name))
		})
	}
}

func TestPatternSet_OrderIrrelevant(t *testing.T) {
	a := MustNew("foo*", "*bar")
	b := MustNew("*bar", "foo*")

	for _, name := range []string{"foobar", "foo", "xbar", "baz"} {
		assert.Equal(t, a.Matches(name), b.Matches(name), name)
	}
}

func TestNew_InvalidPattern(t *testing.T) {
	_, err := New("ok*", "[unclosed", "also[bad")
	require.Error(t, err)

	var perr *PatternError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "[unclosed", perr.Pattern)
	assert.Contains(t, err.Error(), "also[bad")
}

func TestDefault(t *testing.T) {
	set := Default()
	assert.Equal(t, 12, set.Len())
	assert.True(t, set.Matches("setUpClass"))
	assert.True(t, set.Matches("maxDiff"))
	assert.False(t, set.Matches("testSomething"))
}

func TestFromOptions(t *testing.T) {
	t.Run("nil ignore keeps defaults", func(t *testing.T) {
		set, err := FromOptions(nil, []string{"*Legacy"})
		require.NoError(t, err)
		assert.True(t, set.Matches("tearDown"))
		assert.True(t, set.Matches("testLegacy"))
	})

	t.Run("ignore replaces defaults", func(t *testing.T) {
		set, err := FromOptions([]string{"only*"}, nil)
		require.NoError(t, err)
		assert.False(t, set.Matches("tearDown"))
		assert.True(t, set.Matches("onlyThis"))
	})

	t.Run("empty ignore clears defaults", func(t *testing.T) {
		set, err := FromOptions([]string{}, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, set.Len())
		assert.False(t, set.Matches("setUp"))
	})
}

func TestPatternSet_Extend(t *testing.T) {
	base := MustNew("a*")
	ext, err := base.Extend("b*")
	require.NoError(t, err)

	assert.Equal(t, []string{"a*"}, base.Patterns())
	assert.Equal(t, []string{"a*", "b*"}, ext.Patterns())

	same, err := base.Extend()
	require.NoError(t, err)
	assert.Same(t, base, same)
}

func TestPatternSet_Nil(t *testing.T) {
	var set *PatternSet
	assert.False(t, set.Matches("anything"))
	assert.Equal(t, 0, set.Len())
	assert.Nil(t, set.Patterns())
}
