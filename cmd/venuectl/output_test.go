package main

import (
	"bytes"
	"testing"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"Zuni Café", 20, "Zuni Café"},
		{"Zuni Café", 9, "Zuni Café"},
		{"Zuni Café", 5, "Zuni…"},
	}
	for _, tt := range tests {
		if got := truncateString(tt.in, tt.n); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, ImportResult{Imported: 2, Errors: []string{}}); err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"imported\": 2,\n  \"skipped\": 0,\n  \"errors\": []\n}\n"
	if buf.String() != want {
		t.Errorf("writeJSON() = %q, want %q", buf.String(), want)
	}
}
