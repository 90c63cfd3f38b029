package testers

import "strings"

// consoleNoise filters out well-known third-party console/network chatter
// that isn't a defect in the site under test (spec §4.2.1/§4.2.2).
var consoleNoise = []string{
	"favicon",
	"/cdn-cgi/",
	"googletagmanager.com",
	"gtag/js",
	"google-analytics.com",
	"doubleclick.net",
	"clarity.ms",
	"failed to load resource",
}

// networkNoise extends consoleNoise with the additional third-party
// domains spec §4.2.2 excludes from the network-error tester.
var networkNoise = append(append([]string{}, consoleNoise...),
	"hotjar.com",
	"sentry.io",
	"googlesyndication.com",
)

// matchesNoise reports whether text contains any noise pattern,
// case-insensitively.
func matchesNoise(text string, patterns []string) bool {
	lower := strings.ToLower(text)
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// firstLine returns the portion of s up to the first newline.
func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

// truncate returns s capped at n runes, matching spec's "first N
// characters" phrasing used by the console-error tester.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
