package textutil

import "testing"

func TestOr(t *testing.T) {
	cases := []struct {
		value, fallback, want string
	}{
		{"ffmpeg7", "ffmpeg", "ffmpeg7"},
		{"  /opt/bin/ffprobe ", "ffprobe", "/opt/bin/ffprobe"},
		{"", "N/A", "N/A"},
		{"   ", "libx264", "libx264"},
	}
	for _, tc := range cases {
		if got := Or(tc.value, tc.fallback); got != tc.want {
			t.Fatalf("Or(%q, %q) = %q, want %q", tc.value, tc.fallback, got, tc.want)
		}
	}
}

func TestTernary(t *testing.T) {
	if got := Ternary(true, "frame", "frames"); got != "frame" {
		t.Fatalf("unexpected %q", got)
	}
	if got := Ternary(false, 1, 2); got != 2 {
		t.Fatalf("unexpected %d", got)
	}
}
