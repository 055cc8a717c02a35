package bundleadapter

import "testing"

func TestUnwrap(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"plain value", 42, 42},
		{"map without default", map[string]any{"named": 1}, map[string]any{"named": 1}},
		{"map with default", map[string]any{"default": "d", "named": 1}, "d"},
		{"dependency map with default", DependencyMap{"default": "d"}, "d"},
		{"nil default entry", map[string]any{"default": nil}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Unwrap(tt.in)
			switch want := tt.want.(type) {
			case map[string]any:
				gm, ok := got.(map[string]any)
				if !ok || len(gm) != len(want) {
					t.Fatalf("Unwrap(%v) = %v, want %v", tt.in, got, tt.want)
				}
			default:
				if got != tt.want {
					t.Errorf("Unwrap(%v) = %v, want %v", tt.in, got, tt.want)
				}
			}
		})
	}
}

func TestCloneElementMergesProps(t *testing.T) {
	el := NewElement("button", Props{"a": 1, "b": 2}, "child")
	got := CloneElement(el, Props{"b": 3, "c": 4})

	if got == el {
		t.Fatal("CloneElement returned the original element")
	}
	if got.Props["a"] != 1 || got.Props["b"] != 3 || got.Props["c"] != 4 {
		t.Errorf("merged props = %v", got.Props)
	}
	if el.Props["b"] != 2 {
		t.Error("CloneElement mutated the original props")
	}
	if len(got.Children) != 1 || got.Children[0] != "child" {
		t.Errorf("children not carried over: %v", got.Children)
	}
}

func TestIsElement(t *testing.T) {
	if !IsElement(NewElement("div", nil)) {
		t.Error("IsElement(*Element) = false")
	}
	if IsElement(Element{}) {
		t.Error("IsElement(Element) = true, want false for non-pointer")
	}
	if IsElement("div") {
		t.Error("IsElement(string) = true")
	}
}
