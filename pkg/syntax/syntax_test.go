package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModule_WalkOrder(t *testing.T) {
	mod := &Module{
		Path: "example.py",
		Body: []Node{
			&ClassDef{
				Name: "Suite",
				Body: []Node{
					&FunctionDef{Name: "test_a"},
					&FunctionDef{Name: "helper", Body: []Node{&FunctionDef{Name: "inner"}}},
				},
			},
			&FunctionDef{Name: "top"},
		},
	}

	var names []string
	for n := range mod.Walk() {
		name, _ := n.(Named).Identifier()
		names = append(names, name)
	}
	assert.Equal(t, []string{"Suite", "test_a", "helper", "inner", "top"}, names)

	// Restartable
	count := 0
	for range mod.Walk() {
		count++
	}
	assert.Equal(t, 5, count)
}

func TestModule_WalkStopsEarly(t *testing.T) {
	mod := &Module{Body: []Node{&FunctionDef{Name: "a"}, &FunctionDef{Name: "b"}}}

	var seen []string
	for n := range mod.Walk() {
		name, _ := n.(Named).Identifier()
		seen = append(seen, name)
		break
	}
	assert.Equal(t, []string{"a"}, seen)
}

func TestDecoratorsOf(t *testing.T) {
	decs := []Decorator{{Expression: "typing.override"}}
	assert.Equal(t, decs, DecoratorsOf(&FunctionDef{Decorators: decs}))
	assert.Equal(t, decs, DecoratorsOf(&ClassDef{Decorators: decs}))
	assert.Nil(t, DecoratorsOf(nil))
	assert.Equal(t, "function_def", KindFunctionDef.String())
	assert.Equal(t, "class_def", KindClassDef.String())
}
