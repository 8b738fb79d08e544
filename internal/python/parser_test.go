package python

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/pkg/semantic"
	"github.com/leapstack-labs/leaplint/pkg/syntax"
)

const sample = `import typing
import typing_extensions as te
from typing import overload as ov
from os import path, sep

class TestParser(Base, metaclass=Meta):
    def setUp(self):
        pass

    @typing.override
    def testOverridden(self):
        pass

    @te.override()
    async def testAsync(self):
        pass

if True:
    @ov
    def testOverload(x): ...

def outer():
    def innerCamel():
        pass
`

func parseSample(t *testing.T) *File {
	t.Helper()
	f, err := Parse(context.Background(), "sample.py", []byte(sample))
	require.NoError(t, err)
	return f
}

func TestParse_Definitions(t *testing.T) {
	f := parseSample(t)

	var names []string
	for node := range f.Module.Walk() {
		name, _ := node.(syntax.Named).Identifier()
		names = append(names, name)
	}
	assert.Equal(t, []string{"TestParser", "setUp", "testOverridden", "testAsync", "testOverload", "outer", "innerCamel"}, names)

	cls := f.Module.Body[0].(*syntax.ClassDef)
	assert.Equal(t, []string{"Base"}, cls.Bases)
	assert.Equal(t, 6, cls.NameSpan.Start.Line)
	assert.Equal(t, 7, cls.NameSpan.Start.Column)
	assert.Equal(t, "TestParser", sample[cls.NameSpan.Start.Offset:cls.NameSpan.End.Offset])

	overridden := cls.Body[1].(*syntax.FunctionDef)
	require.Len(t, overridden.Decorators, 1)
	assert.Equal(t, "typing.override", overridden.Decorators[0].Expression)
	assert.Equal(t, 10, overridden.Range.Start.Line, "range starts at the decorator")

	async := cls.Body[2].(*syntax.FunctionDef)
	assert.True(t, async.Async)
	require.Len(t, async.Decorators, 1)
	assert.Equal(t, "te.override", async.Decorators[0].Expression)

	overload := f.Module.Body[1].(*syntax.FunctionDef)
	assert.Equal(t, "ov", overload.Decorators[0].Expression)
}

func TestParse_Bindings(t *testing.T) {
	f := parseSample(t)

	tests := []struct {
		expr string
		want string
	}{
		{"typing.override", "typing.override"},
		{"te.override", "typing_extensions.override"},
		{"ov", "typing.overload"},
		{"path", "os.path"},
		{"sep", "os.sep"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, ok := f.Bindings.ResolveQualifiedName(tt.expr)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	cls := f.Module.Body[0].(*syntax.ClassDef)
	assert.True(t, semantic.IsOverride(syntax.DecoratorsOf(cls.Body[1]), f.Bindings))
	assert.True(t, semantic.IsOverride(syntax.DecoratorsOf(cls.Body[2]), f.Bindings))
	assert.True(t, semantic.IsOverload(syntax.DecoratorsOf(f.Module.Body[1]), f.Bindings))
}

func TestParse_LocalDefinitionShadowsImport(t *testing.T) {
	src := `from typing import override, overload

def override(f):
    return f

@override
def myFunction():
    pass

class overload:
    pass

from typing import overload
`
	f, err := Parse(context.Background(), "shadow.py", []byte(src))
	require.NoError(t, err)

	_, ok := f.Bindings.ResolveQualifiedName("override")
	assert.False(t, ok, "module-level def rebinds override")

	decorated := f.Module.Body[1].(*syntax.FunctionDef)
	assert.False(t, semantic.IsOverride(decorated.Decorators, f.Bindings))

	got, ok := f.Bindings.ResolveQualifiedName("overload")
	require.True(t, ok, "the later import wins over the class")
	assert.Equal(t, "typing.overload", got)
}

func TestParse_NestedDefinitionKeepsImport(t *testing.T) {
	src := `from typing import override

class TestThing:
    def override(self):
        pass

    @override
    def testCamel(self):
        pass
`
	f, err := Parse(context.Background(), "nested.py", []byte(src))
	require.NoError(t, err)

	got, ok := f.Bindings.ResolveQualifiedName("override")
	require.True(t, ok)
	assert.Equal(t, "typing.override", got)
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := Parse(context.Background(), "bad.py", []byte("def broken(:\n    pass\n"))
	require.Error(t, err)

	var serr *SyntaxError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "bad.py", serr.Path)
	assert.Equal(t, 1, serr.Pos.Line)
}

func TestParse_InvalidUTF8(t *testing.T) {
	_, err := Parse(context.Background(), "bin.py", []byte{0xff, 0xfe})
	var serr *SyntaxError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Msg, "UTF-8")
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "m.py")
	require.NoError(t, os.WriteFile(path, []byte("def fooBar():\n    pass\n"), 0o644))

	f, err := ParseFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, f.Module.Path)
	require.Len(t, f.Module.Body, 1)

	_, err = ParseFile(context.Background(), filepath.Join(dir, "missing.py"))
	require.Error(t, err)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"a.py",
		"pkg/b.py",
		"pkg/tests/test_c.py",
		"pkg/readme.md",
		".venv/lib/d.py",
		"__pycache__/e.py",
		".hidden/f.py",
		"generated/g.py",
	}
	for _, f := range files {
		path := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))
	}

	got, err := Discover(dir, nil, []string{"generated/**"})
	require.NoError(t, err)

	var rel []string
	for _, p := range got {
		r, err := filepath.Rel(dir, p)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{"a.py", "pkg/b.py", "pkg/tests/test_c.py"}, rel)

	only, err := Discover(dir, []string{"**/test_*.py"}, nil)
	require.NoError(t, err)
	require.Len(t, only, 1)

	single, err := Discover(filepath.Join(dir, "a.py"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.py")}, single)

	_, err = Discover(dir, []string{"[bad"}, nil)
	require.Error(t, err)

	all, err := DiscoverAll([]string{dir, filepath.Join(dir, "a.py")}, nil, []string{"generated/**"})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
