// Package report builds the consolidated scan report from tested pages,
// deduplicating repeated defects and computing summary counts (spec
// §4.6).
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/scoutqa/scoutqa/internal/model"
)

// Build assembles a Report from the seed URL and the tested pages, in
// the order spec §4.6 describes: fingerprint-based cross-page dedup
// keeping the earliest occurrence, per-page severity sort, and a
// fully-initialized summary.
func Build(seedURL string, pages []model.PageRecord) model.Report {
	seen := make(map[string]bool)
	outPages := make([]model.PageRecord, 0, len(pages))
	summary := model.NewSummary()

	for _, page := range pages {
		kept := make([]model.Defect, 0, len(page.Defects))
		for _, d := range page.Defects {
			fp := d.Fingerprint()
			if seen[fp] {
				continue
			}
			seen[fp] = true

			d.ID = uuid.New().String()
			kept = append(kept, d)

			summary.TotalDefects++
			summary.BySeverity[d.Severity]++
			summary.ByType[d.Type]++
		}

		sort.SliceStable(kept, func(i, j int) bool {
			return kept[i].Severity.Less(kept[j].Severity)
		})

		outPages = append(outPages, model.PageRecord{
			URL:            page.URL,
			Title:          page.Title,
			LoadTimeMillis: page.LoadTimeMillis,
			Defects:        kept,
		})
	}

	return model.Report{
		SeedURL:    seedURL,
		Timestamp:  time.Now(),
		PagesFound: len(pages),
		Pages:      outPages,
		Summary:    summary,
	}
}
