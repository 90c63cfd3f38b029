package testers

import "testing"

func TestMatchesNoise(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"GET https://www.googletagmanager.com/gtag/js?id=X", true},
		{"https://example.com/favicon.ico", true},
		{"Failed to load resource: the server responded with 404", true},
		{"TypeError: cannot read property 'x' of undefined", false},
	}
	for _, tc := range cases {
		if got := matchesNoise(tc.text, consoleNoise); got != tc.want {
			t.Errorf("matchesNoise(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestNetworkNoiseExtendsConsoleNoise(t *testing.T) {
	if !matchesNoise("https://static.hotjar.com/c/hotjar.js", networkNoise) {
		t.Error("network noise should include hotjar")
	}
	if !matchesNoise("https://www.googletagmanager.com/gtag/js", networkNoise) {
		t.Error("network noise should still include console noise patterns")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello", 10); got != "hello" {
		t.Errorf("truncate short string = %q", got)
	}
	if got := truncate("hello world", 5); got != "hello" {
		t.Errorf("truncate(%q, 5) = %q, want %q", "hello world", got, "hello")
	}
}

func TestFirstLine(t *testing.T) {
	if got := firstLine("line one\nline two"); got != "line one" {
		t.Errorf("firstLine() = %q, want %q", got, "line one")
	}
	if got := firstLine("single line"); got != "single line" {
		t.Errorf("firstLine() = %q, want %q", got, "single line")
	}
}
