package crawler

import (
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// excludedExtensions is the download/media extension set the follow
// predicate in spec §4.1 clause (d) excludes from crawling.
var excludedExtensions = map[string]bool{
	"pdf": true, "zip": true, "tar": true, "gz": true, "rar": true, "7z": true,
	"png": true, "jpg": true, "jpeg": true, "gif": true, "svg": true, "webp": true, "ico": true,
	"mp3": true, "mp4": true, "wav": true, "avi": true, "mov": true,
	"doc": true, "docx": true, "xls": true, "xlsx": true, "ppt": true, "pptx": true,
	"exe": true, "dmg": true, "apk": true,
}

// excludedSchemes is the scheme blacklist from spec §4.1 clause (e).
var excludedSchemes = map[string]bool{
	"mailto": true, "tel": true, "javascript": true, "data": true, "blob": true, "file": true,
}

// shouldFollow implements the six-clause predicate from spec §4.1. It
// does not check "not yet visited" (clause f); that's the queue's job.
func shouldFollow(candidate *url.URL, seedHost string) bool {
	if candidate == nil {
		return false
	}
	scheme := strings.ToLower(candidate.Scheme)
	if scheme != "http" && scheme != "https" {
		return false
	}
	if excludedSchemes[scheme] {
		return false
	}
	if !strings.EqualFold(candidate.Host, seedHost) {
		return false
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(candidate.Path), "."))
	if ext != "" && excludedExtensions[ext] {
		return false
	}
	return true
}

// extractLinks pulls every anchor href out of html, resolves each
// against base, and returns the ones the follow predicate accepts.
// Links are deduplicated within the page (not against the crawl-wide
// visited set; the queue handles cross-page dedup).
func extractLinks(html string, base *url.URL) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var links []string

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		if !shouldFollow(resolved, base.Host) {
			return
		}
		norm := normalizeURL(resolved.String())
		if norm == "" || seen[norm] {
			return
		}
		seen[norm] = true
		links = append(links, resolved.String())
	})

	return links
}
