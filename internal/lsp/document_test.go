package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentStore_OpenGetClose(t *testing.T) {
	store := NewDocumentStore()

	uri := "file:///test/test_account.py"
	content := "def test_deposit():\n    pass\n"

	store.Open(uri, content, 1)

	doc := store.Get(uri)
	require.NotNil(t, doc, "expected document to exist")
	assert.Equal(t, uri, doc.URI)
	assert.Equal(t, content, doc.Content)
	assert.Equal(t, 1, doc.Version)
	assert.Equal(t, []int{0, 20, 29}, doc.Lines)

	store.Close(uri)
	assert.Nil(t, store.Get(uri), "expected document to be nil after close")
}

func TestDocumentStore_Update(t *testing.T) {
	store := NewDocumentStore()

	uri := "file:///test/test_account.py"
	store.Open(uri, "x = 1", 1)
	before := store.Get(uri)

	store.Update(uri, "x = 2\ny = 3", 2)
	doc := store.Get(uri)
	assert.Equal(t, "x = 2\ny = 3", doc.Content)
	assert.Equal(t, 2, doc.Version)
	assert.Equal(t, []int{0, 6}, doc.Lines)
	assert.Equal(t, "x = 1", before.Content, "earlier snapshots are not mutated")

	t.Run("stale version is dropped", func(t *testing.T) {
		store.Update(uri, "x = 0", 1)
		assert.Equal(t, "x = 2\ny = 3", store.Get(uri).Content)
	})

	t.Run("unknown document is ignored", func(t *testing.T) {
		store.Update("file:///nope.py", "x", 1)
		assert.Nil(t, store.Get("file:///nope.py"))
	})
}

func TestDocumentStore_List(t *testing.T) {
	store := NewDocumentStore()

	store.Open("file:///c.py", "c = 1", 1)
	store.Open("file:///a.py", "a = 1", 1)
	store.Open("file:///b.py", "b = 1", 1)

	assert.Equal(t, []string{"file:///a.py", "file:///b.py", "file:///c.py"}, store.List())
}

func TestComputeLineOffsets(t *testing.T) {
	tests := []struct {
		content  string
		expected []int
	}{
		{"", []int{0}},
		{"abc", []int{0}},
		{"a\nb", []int{0, 2}},
		{"a\nb\nc", []int{0, 2, 4}},
		{"\n\n\n", []int{0, 1, 2, 3}},
		{"line1\nline2\nline3", []int{0, 6, 12}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, computeLineOffsets(tt.content), "content %q", tt.content)
	}
}

func TestDocument_PositionToOffset(t *testing.T) {
	content := "line0\nline1\nline2"
	doc := &Document{
		Content: content,
		Lines:   computeLineOffsets(content),
	}

	tests := []struct {
		pos      Position
		expected int
	}{
		{Position{Line: 0, Character: 0}, 0},
		{Position{Line: 0, Character: 3}, 3},
		{Position{Line: 0, Character: 5}, 5},
		{Position{Line: 1, Character: 0}, 6},
		{Position{Line: 1, Character: 4}, 10},
		{Position{Line: 2, Character: 0}, 12},
		{Position{Line: 2, Character: 5}, 17},
		// Edge cases
		{Position{Line: 100, Character: 0}, len(content)}, // Line beyond document
		{Position{Line: 0, Character: 100}, len(content)}, // Character beyond line
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, doc.PositionToOffset(tt.pos), "PositionToOffset(%v)", tt.pos)
	}
}

func TestDocument_OffsetToPosition(t *testing.T) {
	content := "line0\nline1\nline2"
	doc := &Document{
		Content: content,
		Lines:   computeLineOffsets(content),
	}

	tests := []struct {
		offset   int
		expected Position
	}{
		{0, Position{Line: 0, Character: 0}},
		{3, Position{Line: 0, Character: 3}},
		{5, Position{Line: 0, Character: 5}},
		{6, Position{Line: 1, Character: 0}},
		{10, Position{Line: 1, Character: 4}},
		{12, Position{Line: 2, Character: 0}},
		{17, Position{Line: 2, Character: 5}},
		// Edge cases
		{-1, Position{Line: 0, Character: 0}},  // Negative offset
		{100, Position{Line: 2, Character: 5}}, // Beyond end
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, doc.OffsetToPosition(tt.offset), "OffsetToPosition(%d)", tt.offset)
	}
}

func TestURIToPath(t *testing.T) {
	tests := []struct {
		uri      string
		expected string
	}{
		{"file:///Users/test/test_model.py", "/Users/test/test_model.py"},
		{"file:///home/user/my%20project/a.py", "/home/user/my project/a.py"},
		{"/already/a/path.py", "/already/a/path.py"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, URIToPath(tt.uri), "URIToPath(%q)", tt.uri)
	}
}

func TestPathToURI(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/Users/test/test_model.py", "file:///Users/test/test_model.py"},
		{"/home/user/my project/a.py", "file:///home/user/my%20project/a.py"},
		{"file:///already/uri.py", "file:///already/uri.py"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, PathToURI(tt.path), "PathToURI(%q)", tt.path)
	}
}
