package scoutqa

import "testing"

func TestIsValidSeedURL(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"https://example.com", true},
		{"http://example.com/path", true},
		{"ftp://example.com", false},
		{"not a url", false},
		{"/relative/path", false},
		{"", false},
		{"http://localhost", false},
		{"http://localhost:8080", false},
		{"http://notld", false},
		{"http://a.b", false},
		{"http://a.co", true},
	}
	for _, c := range cases {
		if got := isValidSeedURL(c.url); got != c.want {
			t.Errorf("isValidSeedURL(%q) = %v, want %v", c.url, got, c.want)
		}
	}
}

func TestStartScan_RejectsInvalidSeedURL(t *testing.T) {
	e := &Engine{registry: newRegistry()}
	if _, err := e.StartScan("not a url"); err != ErrInvalidSeedURL {
		t.Errorf("err = %v, want ErrInvalidSeedURL", err)
	}
}

func TestSubscribeProgress_UnknownScan(t *testing.T) {
	e := &Engine{registry: newRegistry()}
	if _, err := e.SubscribeProgress("missing", func(ProgressEvent) {}); err != ErrScanNotFound {
		t.Errorf("err = %v, want ErrScanNotFound", err)
	}
}

func TestGetReport_UnknownScan(t *testing.T) {
	e := &Engine{registry: newRegistry()}
	if _, _, _, err := e.GetReport("missing"); err != ErrScanNotFound {
		t.Errorf("err = %v, want ErrScanNotFound", err)
	}
}
