package version

import "testing"

func TestString(t *testing.T) {
	orig := [3]string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = orig[0], orig[1], orig[2] })

	tests := []struct {
		version, commit, date string
		want                  string
	}{
		{"dev", "unknown", "unknown", "dev"},
		{"v0.3.0", "0123456789abcdef", "unknown", "v0.3.0 (0123456)"},
		{"v0.3.0", "abc", "2026-01-02", "v0.3.0 (abc, 2026-01-02)"},
	}
	for _, tc := range tests {
		Version, Commit, Date = tc.version, tc.commit, tc.date
		if got := String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}
