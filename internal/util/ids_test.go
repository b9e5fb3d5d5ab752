package util

import (
	"reflect"
	"testing"
)

func TestNormalizeLocusTag(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		want string
	}{
		{name: "already canonical", tag: "B0001", want: "B0001"},
		{name: "lower case", tag: "b0001", want: "B0001"},
		{name: "surrounding whitespace", tag: "  b0001 ", want: "B0001"},
		{name: "version suffix stripped", tag: "b0001.2", want: "B0001"},
		{name: "non-numeric suffix kept", tag: "PA14.ORF1", want: "PA14.ORF1"},
		{name: "leading dot kept", tag: ".123", want: ".123"},
		{name: "empty", tag: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeLocusTag(tt.tag); got != tt.want {
				t.Errorf("NormalizeLocusTag(%q) = %q, want %q", tt.tag, got, tt.want)
			}
		})
	}
}

func TestNormalizeLocusTags(t *testing.T) {
	got := NormalizeLocusTags([]string{"b0001", "", "B0001.1", "b0002", "  "})
	want := []string{"B0001", "B0002"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeLocusTags() = %v, want %v", got, want)
	}
}

func TestNewSessionID(t *testing.T) {
	a, err := NewSessionID()
	if err != nil {
		t.Fatalf("NewSessionID() error = %v", err)
	}
	b, err := NewSessionID()
	if err != nil {
		t.Fatalf("NewSessionID() error = %v", err)
	}
	if len(a) != 21 {
		t.Errorf("session ID length = %d, want 21", len(a))
	}
	if a == b {
		t.Error("two session IDs collided")
	}
}
