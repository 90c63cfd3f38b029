package testers

import (
	"net/url"
	"testing"
)

func TestIsBotBlockedHost(t *testing.T) {
	cases := []struct {
		host string
		want bool
	}{
		{"linkedin.com", true},
		{"www.linkedin.com", true},
		{"twitter.com", true},
		{"x.com", true},
		{"example.com", false},
		{"notlinkedin.com", false},
	}
	for _, tc := range cases {
		if got := isBotBlockedHost(tc.host); got != tc.want {
			t.Errorf("isBotBlockedHost(%q) = %v, want %v", tc.host, got, tc.want)
		}
	}
}

func TestCollectLinkTargets(t *testing.T) {
	html := `<html><body>
		<a href="/a">A</a>
		<a href="/a#section">A again</a>
		<a href="https://linkedin.com/in/someone">LinkedIn</a>
		<a href="mailto:test@example.com">Mail</a>
		<a href="#">Empty</a>
		<a href="/b">B</a>
	</body></html>`

	base, err := url.Parse("https://example.com/")
	if err != nil {
		t.Fatal(err)
	}

	targets := collectLinkTargets(html, base)
	want := map[string]bool{
		"https://example.com/a": true,
		"https://example.com/b": true,
	}
	if len(targets) != len(want) {
		t.Fatalf("collectLinkTargets() = %v, want %d entries", targets, len(want))
	}
	for _, tgt := range targets {
		if !want[tgt] {
			t.Errorf("unexpected target %q", tgt)
		}
	}
}
