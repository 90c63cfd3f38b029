package promptgen

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/scoutqa/scoutqa/internal/model"
	"github.com/scoutqa/scoutqa/internal/promptcache"
	"github.com/scoutqa/scoutqa/pkg/llm"
)

type fakeProvider struct {
	content string
	err     error
}

func (f *fakeProvider) Execute(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Response{Content: f.content}, nil
}

func (f *fakeProvider) Name() string  { return "fake" }
func (f *fakeProvider) Model() string { return "fake-model" }

func newTestCache(t *testing.T) *promptcache.Cache {
	t.Helper()
	return promptcache.New(filepath.Join(t.TempDir(), "cache.json"))
}

func TestGenerate_NoProviderUsesTemplates(t *testing.T) {
	defects := []model.Defect{
		{Type: model.DefectBrokenImage, Title: "Broken image: logo.png", Details: "Image failed to load: /logo.png", Page: "https://example.com/"},
	}
	out, result := Generate(context.Background(), nil, newTestCache(t), defects)

	if out[0].Hint == "" {
		t.Error("expected a non-empty fallback hint")
	}
	if !result.UsedFallback {
		t.Error("expected UsedFallback = true with no provider")
	}
	if result.FallbackReason == "" {
		t.Error("expected a fallback reason")
	}
}

func TestGenerate_ExternalSuccess(t *testing.T) {
	defects := []model.Defect{
		{Type: model.DefectConsoleError, Title: "Console error: boom", Details: "TypeError: x is undefined", Page: "https://example.com/"},
	}
	provider := &fakeProvider{content: `["Check the script for an undefined reference and guard against it."]`}
	out, result := Generate(context.Background(), provider, newTestCache(t), defects)

	if out[0].Hint != "Check the script for an undefined reference and guard against it." {
		t.Errorf("Hint = %q", out[0].Hint)
	}
	if result.UsedFallback {
		t.Error("expected UsedFallback = false on external success")
	}
}

func TestGenerate_ExternalFailureFallsBack(t *testing.T) {
	defects := []model.Defect{
		{Type: model.DefectNetworkError, Title: "Server error 500 on /api", Details: "GET https://example.com/api returned 500", Page: "https://example.com/"},
	}
	provider := &fakeProvider{err: errors.New("connection reset")}
	out, result := Generate(context.Background(), provider, newTestCache(t), defects)

	if out[0].Hint == "" {
		t.Error("expected fallback hint")
	}
	if !result.UsedFallback {
		t.Error("expected UsedFallback = true when the only batch fails")
	}
}

func TestGenerate_CacheHitSkipsProvider(t *testing.T) {
	cache := newTestCache(t)
	d := model.Defect{Type: model.DefectBrokenLink, Title: "Broken link: /old", Details: "Returned 404", Page: "https://example.com/"}
	key := promptcache.Key(d.Type, d.Title, d.Details)
	cache.Put(key, "Remove the stale link.")

	calls := 0
	provider := &fakeProvider{content: `["should not be used"]`}
	_ = calls

	out, result := Generate(context.Background(), provider, cache, []model.Defect{d})
	if out[0].Hint != "Remove the stale link." {
		t.Errorf("Hint = %q, want cached hint", out[0].Hint)
	}
	if result.CacheHits != 1 || result.CacheMisses != 0 {
		t.Errorf("result = %+v", result)
	}
}

func TestGenerate_MismatchedLengthFallsBack(t *testing.T) {
	defects := []model.Defect{
		{Type: model.DefectAccessibility, Title: "image-alt: x", Details: "d1", Page: "https://example.com/"},
		{Type: model.DefectAccessibility, Title: "label: y", Details: "d2", Page: "https://example.com/"},
	}
	provider := &fakeProvider{content: `["only one hint"]`}
	out, result := Generate(context.Background(), provider, newTestCache(t), defects)

	for _, d := range out {
		if d.Hint == "" {
			t.Error("expected every defect to get a fallback hint")
		}
	}
	if !result.UsedFallback {
		t.Error("expected UsedFallback = true on length mismatch")
	}
}
