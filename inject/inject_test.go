package inject

import "testing"

func TestMatcherMatch(t *testing.T) {
	m := NewMatcher(Rules{
		IDs:      []string{"react", "react/jsx-runtime"},
		Prefixes: []string{"@ui/", "host:"},
	})

	tests := []struct {
		id   string
		want bool
	}{
		{"react", true},
		{"react/jsx-runtime", true},
		{"react-dom", false},
		{"@ui/forms", true},
		{"@ui/", true},
		{"@uikit/forms", false},
		{"host:charts", true},
		{"./local", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := m.Match(tt.id); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestMatcherEmptyRules(t *testing.T) {
	m := NewMatcher(Rules{})
	for _, id := range []string{"react", "", "@ui/forms"} {
		if m.Match(id) {
			t.Errorf("empty rules matched %q", id)
		}
	}
}

func TestMatcherIgnoresEmptyEntries(t *testing.T) {
	m := NewMatcher(Rules{IDs: []string{""}, Prefixes: []string{""}})
	if m.Match("anything") {
		t.Error("empty prefix matched everything")
	}
	if m.Match("") {
		t.Error("empty id entry matched")
	}
}
