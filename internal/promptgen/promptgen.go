// Package promptgen fills each defect's remediation hint using the
// tiered cache → external LLM → template strategy from spec §4.5.
package promptgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/scoutqa/scoutqa/internal/logger"
	"github.com/scoutqa/scoutqa/internal/model"
	"github.com/scoutqa/scoutqa/internal/promptcache"
	"github.com/scoutqa/scoutqa/pkg/llm"
)

// Result reports how a Generate call was satisfied.
type Result struct {
	CacheHits      int
	CacheMisses    int
	UsedFallback   bool
	FallbackReason string
}

const systemInstruction = "You are a web QA assistant. For each defect described below, " +
	"write a plain-language, 2-4 sentence, stack-agnostic remediation hint. " +
	"Respond with nothing but a JSON array of strings, one per defect, in the same order given."

// Generate fills Hint on every defect in defects and returns a new slice
// in the same order (spec §4.5's contract: "same-length list with
// fixPrompt populated"). provider may be nil, modeling the "missing
// credential" case from spec §6.
func Generate(ctx context.Context, provider llm.Provider, cache *promptcache.Cache, defects []model.Defect) ([]model.Defect, Result) {
	out := make([]model.Defect, len(defects))
	copy(out, defects)

	type pending struct{ indices []int }
	byPage := make(map[string]*pending)
	var pageOrder []string

	var result Result

	for i, d := range out {
		key := promptcache.Key(d.Type, d.Title, d.Details)
		if hint, ok := cache.Get(key); ok {
			out[i].Hint = hint
			result.CacheHits++
			continue
		}
		result.CacheMisses++
		p, ok := byPage[d.Page]
		if !ok {
			p = &pending{}
			byPage[d.Page] = p
			pageOrder = append(pageOrder, d.Page)
		}
		p.indices = append(p.indices, i)
	}

	var attempted, fellBack int
	var firstReason string

	for _, page := range pageOrder {
		indices := byPage[page].indices
		batch := make([]model.Defect, len(indices))
		for j, idx := range indices {
			batch[j] = out[idx]
		}

		attempted++
		hints, reason := generateBatch(ctx, provider, batch)
		if reason != "" {
			fellBack++
			if firstReason == "" {
				firstReason = reason
			}
		}

		for j, idx := range indices {
			out[idx].Hint = hints[j]
			key := promptcache.Key(out[idx].Type, out[idx].Title, out[idx].Details)
			cache.Put(key, hints[j])
		}
	}

	if attempted > 0 && fellBack == attempted {
		result.UsedFallback = true
		result.FallbackReason = firstReason
	}

	return out, result
}

// generateBatch returns one hint per defect in batch, in order. reason
// is non-empty when the batch fell back to templates, naming why.
func generateBatch(ctx context.Context, provider llm.Provider, batch []model.Defect) ([]string, string) {
	if provider == nil {
		return templateBatch(batch), "no external LLM credential configured"
	}

	req := llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemInstruction},
			{Role: llm.RoleUser, Content: describeBatch(batch)},
		},
		MaxTokens: 1024,
	}

	resp, err := provider.Execute(ctx, req)
	if err != nil {
		logger.Warn("prompt generator external call failed", "error", err)
		return templateBatch(batch), fmt.Sprintf("external generator error: %v", err)
	}

	hints, ok := extractJSONArray(resp.Content)
	if !ok || len(hints) != len(batch) {
		logger.Warn("prompt generator response unusable, using templates", "page", batch[0].Page)
		return templateBatch(batch), "could not parse external generator response"
	}

	return hints, ""
}

func templateBatch(batch []model.Defect) []string {
	hints := make([]string, len(batch))
	for i, d := range batch {
		hints[i] = templateHint(d)
	}
	return hints
}

func describeBatch(batch []model.Defect) string {
	var b strings.Builder
	for i, d := range batch {
		fmt.Fprintf(&b, "%d. [%s] %s\n%s\n\n", i+1, d.Type, d.Title, d.Details)
	}
	return b.String()
}
