package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/lint/exclude"
	"github.com/leapstack-labs/leaplint/pkg/semantic"
	"github.com/leapstack-labs/leaplint/pkg/syntax"
	"github.com/leapstack-labs/leaplint/pkg/token"
)

var nameSpan = token.Span{
	Start: token.Position{Line: 3, Column: 5, Offset: 40},
	End:   token.Position{Line: 3, Column: 15, Offset: 50},
}

func typingBindings() *semantic.Bindings {
	b := semantic.NewBindings()
	b.BindImport("typing", "")
	b.BindFromImport("typing_extensions", "overload", "")
	return b
}

func TestIsLowercase(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"my_function", true},
		{"test__a__b", true},
		{"_private", true},
		{"test1", true},
		{"myFunction", false},
		{"ALLCAPS", false},
		{"___", false},
		{"123", false},
		{"", false},
		{"ñandú", true},
		{"Ñandú", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, isLowercase(tt.in))
		})
	}
}

func TestIsCapWords(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"HttpClient", true},
		{"_Private", true},
		{"A", true},
		{"http_client", false},
		{"Http_Client", false},
		{"lower", false},
		{"_", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, isCapWords(tt.in))
		})
	}
}

func TestEvaluateTestName(t *testing.T) {
	bindings := typingBindings()

	tests := []struct {
		name       string
		candidate  string
		decorators []syntax.Decorator
		ignore     *exclude.PatternSet
		wantDiag   bool
	}{
		{
			name:       "already lowercase regardless of decorators or exclusions",
			candidate:  "my_function",
			decorators: []syntax.Decorator{{Expression: "typing.override"}},
			ignore:     exclude.MustNew("*"),
		},
		{
			name:      "mixed case with nothing suppressing",
			candidate: "myFunction",
			ignore:    exclude.MustNew(),
			wantDiag:  true,
		},
		{
			name:       "override decorator suppresses",
			candidate:  "myFunction",
			decorators: []syntax.Decorator{{Expression: "typing.override"}},
			ignore:     exclude.MustNew(),
		},
		{
			name:       "overload decorator suppresses",
			candidate:  "myFunction",
			decorators: []syntax.Decorator{{Expression: "overload"}},
			ignore:     exclude.MustNew(),
		},
		{
			name:      "matching exclusion suppresses",
			candidate: "myFunction",
			ignore:    exclude.MustNew("my*"),
		},
		{
			name:      "non-matching exclusions do not suppress",
			candidate: "myFunction",
			ignore:    exclude.MustNew("other*", "*Helper"),
			wantDiag:  true,
		},
		{
			name:       "unresolvable decorator does not suppress",
			candidate:  "myFunction",
			decorators: []syntax.Decorator{{Expression: "override"}},
			ignore:     exclude.MustNew(),
			wantDiag:   true,
		},
		{
			name:      "default allow-list",
			candidate: "setUpClass",
			ignore:    exclude.Default(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diag, ok := EvaluateTestName(tt.candidate, nameSpan, tt.decorators, tt.ignore, bindings)
			require.Equal(t, tt.wantDiag, ok)
			if !tt.wantDiag {
				assert.Equal(t, lint.Diagnostic{}, diag)
				return
			}
			assert.Equal(t, lint.LintName("invalid-test-name"), diag.Rule)
			assert.Equal(t, "Test name `myFunction` should follow test__[object]__[description] pattern", diag.Message)
			assert.Equal(t, nameSpan, diag.Span)
		})
	}
}

func TestEvaluateTestName_Idempotent(t *testing.T) {
	bindings := typingBindings()
	ignore := exclude.MustNew("other*")

	first, ok1 := EvaluateTestName("testFoo", nameSpan, nil, ignore, bindings)
	second, ok2 := EvaluateTestName("testFoo", nameSpan, nil, ignore, bindings)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)

	_, ok1 = EvaluateTestName("test_foo", nameSpan, nil, ignore, bindings)
	_, ok2 = EvaluateTestName("test_foo", nameSpan, nil, ignore, bindings)
	assert.False(t, ok1)
	assert.False(t, ok2)
}

func TestCheckInvalidTestName_UsesSettings(t *testing.T) {
	settings, err := lint.NewSettings(nil, &core.LintConfig{
		Options: map[string]core.RuleOptions{
			"invalid-test-name": {lint.OptionExtendIgnoreNames: []any{"*Legacy*"}},
		},
	})
	require.NoError(t, err)

	allowed := &syntax.FunctionDef{Name: "testLegacyPath", NameSpan: nameSpan}
	flagged := &syntax.FunctionDef{Name: "testNewPath", NameSpan: nameSpan}
	class := &syntax.ClassDef{Name: "testNewPath"}

	_, ok := InvalidTestName.Check(allowed, nil, settings)
	assert.False(t, ok)
	_, ok = InvalidTestName.Check(flagged, nil, settings)
	assert.True(t, ok)
	_, ok = InvalidTestName.Check(class, nil, settings)
	assert.False(t, ok)
}

func TestInvalidClassName(t *testing.T) {
	tests := []struct {
		name     string
		class    string
		options  core.RuleOptions
		wantDiag bool
	}{
		{name: "capwords", class: "HttpClient"},
		{name: "snake case", class: "http_client", wantDiag: true},
		{name: "private allowed by default", class: "_Hidden"},
		{name: "private rejected when disabled", class: "_Hidden", options: core.RuleOptions{OptionAllowLeadingUnderscore: false}, wantDiag: true},
		{name: "excluded name", class: "maxDiff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &core.LintConfig{}
			if tt.options != nil {
				cfg.Options = map[string]core.RuleOptions{"invalid-class-name": tt.options}
			}
			settings, err := lint.NewSettings(nil, cfg)
			require.NoError(t, err)

			diag, ok := InvalidClassName.Check(&syntax.ClassDef{Name: tt.class, NameSpan: nameSpan}, nil, settings)
			assert.Equal(t, tt.wantDiag, ok)
			if tt.wantDiag {
				assert.Equal(t, "Class name `"+tt.class+"` should use CapWords convention", diag.Message)
				assert.Equal(t, nameSpan, diag.Span)
			}
		})
	}
}

func TestCamelCaseTestName(t *testing.T) {
	bindings := typingBindings()

	tests := []struct {
		name       string
		fn         string
		decorators []syntax.Decorator
		options    core.RuleOptions
		wantDiag   bool
	}{
		{name: "camel case", fn: "testLogin", wantDiag: true},
		{name: "snake case", fn: "test_login"},
		{name: "prefix only", fn: "test"},
		{name: "not a test", fn: "helperLogin"},
		{name: "override", fn: "testLogin", decorators: []syntax.Decorator{{Expression: "typing.override"}}},
		{name: "custom prefix", fn: "checkLogin", options: core.RuleOptions{OptionPrefix: "check"}, wantDiag: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &core.LintConfig{}
			if tt.options != nil {
				cfg.Options = map[string]core.RuleOptions{"camel-case-test-name": tt.options}
			}
			settings, err := lint.NewSettings(nil, cfg)
			require.NoError(t, err)

			fn := &syntax.FunctionDef{Name: tt.fn, NameSpan: nameSpan, Decorators: tt.decorators}
			diag, ok := CamelCaseTestName.Check(fn, bindings, settings)
			assert.Equal(t, tt.wantDiag, ok)
			if tt.wantDiag {
				assert.Equal(t, "Test name `"+tt.fn+"` uses camelCase", diag.Message)
			}
		})
	}
}

func TestUnittestTestPrefix_HasNoCheck(t *testing.T) {
	assert.Nil(t, UnittestTestPrefix.Check)
	assert.True(t, core.IsRemoved(UnittestTestPrefix.Lint.Lifecycle()))
}
