package orchestrator

import "testing"

func TestScaleProgress(t *testing.T) {
	cases := []struct {
		inner, lo, hi, want int
	}{
		{0, 0, 30, 0},
		{100, 0, 30, 30},
		{50, 0, 30, 15},
		{90, 0, 30, 27},
	}
	for _, c := range cases {
		if got := scaleProgress(c.inner, c.lo, c.hi); got != c.want {
			t.Errorf("scaleProgress(%d, %d, %d) = %d, want %d", c.inner, c.lo, c.hi, got, c.want)
		}
	}
}

func TestProgressStep(t *testing.T) {
	cases := []struct {
		done, total, span, want int
	}{
		{1, 4, 50, 12},
		{4, 4, 50, 50},
		{0, 0, 50, 50},
	}
	for _, c := range cases {
		if got := progressStep(c.done, c.total, c.span); got != c.want {
			t.Errorf("progressStep(%d, %d, %d) = %d, want %d", c.done, c.total, c.span, got, c.want)
		}
	}
}

func TestDomainOf(t *testing.T) {
	cases := map[string]string{
		"https://example.com/foo": "example.com",
		"http://sub.example.com":  "sub.example.com",
		"not a url at all":        "not a url at all",
	}
	for in, want := range cases {
		if got := domainOf(in); got != want {
			t.Errorf("domainOf(%q) = %q, want %q", in, got, want)
		}
	}
}
