package match_test

import (
	"testing"

	"github.com/furrow/furrow/pkg/match"
)

func TestContainsAny(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		keywords []string
		want     bool
	}{
		{"exact", "Tomato", []string{"tomato"}, true},
		{"substring", "Cherry Tomato", []string{"tomato"}, true},
		{"case insensitive keyword", "potato", []string{"POTATO"}, true},
		{"no match", "Basil", []string{"tomato", "potato"}, false},
		{"empty keyword list", "Basil", nil, false},
		{"blank keyword ignored", "Basil", []string{"", "  "}, false},
		{"blank name", "", []string{"tomato"}, false},
		{"second keyword", "Garlic", []string{"onion", "garlic"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := match.ContainsAny(tt.input, tt.keywords); got != tt.want {
				t.Errorf("ContainsAny(%q, %v) = %v, want %v", tt.input, tt.keywords, got, tt.want)
			}
		})
	}
}

func TestReferences(t *testing.T) {
	tests := []struct {
		name      string
		fragments []string
		names     []string
		want      bool
	}{
		{"fragment inside name", []string{"bean"}, []string{"Green Bean"}, true},
		{"name inside fragment", []string{"green beans"}, []string{"Bean"}, true},
		{"common name", []string{"maize"}, []string{"Corn", "Maize"}, true},
		{"no reference", []string{"basil"}, []string{"Tomato"}, false},
		{"blank fragment", []string{""}, []string{"Tomato"}, false},
		{"blank name", []string{"tomato"}, []string{""}, false},
		{"no fragments", nil, []string{"Tomato"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := match.References(tt.fragments, tt.names...); got != tt.want {
				t.Errorf("References(%v, %v) = %v, want %v", tt.fragments, tt.names, got, tt.want)
			}
		})
	}
}
