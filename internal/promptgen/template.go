package promptgen

import (
	"fmt"
	"net/url"

	"github.com/scoutqa/scoutqa/internal/model"
)

const templateDetailTruncation = 160

// templateHint generates the deterministic per-DefectType fallback hint
// used when the external generator is unavailable or fails (spec §4.5
// step 3), substituting the page's path and a truncated detail/title.
func templateHint(d model.Defect) string {
	path := pagePath(d.Page)
	detail := truncateRunes(d.Details, templateDetailTruncation)
	title := truncateRunes(d.Title, templateDetailTruncation)

	switch d.Type {
	case model.DefectConsoleError:
		return fmt.Sprintf(
			"On %s, the browser console reported: %s. Check the relevant script for the error's root cause — an undefined reference, a failed assertion, or a thrown exception — and add handling or a fix so the error no longer fires.",
			path, detail)
	case model.DefectNetworkError:
		return fmt.Sprintf(
			"On %s, a network request failed: %s. Verify the resource's URL is correct, the server endpoint is reachable, and any required authentication or CORS headers are present.",
			path, detail)
	case model.DefectBrokenLink:
		return fmt.Sprintf(
			"On %s, a link is broken: %s. Update the href to a valid destination, or remove the link if the target page no longer exists.",
			path, title)
	case model.DefectBrokenImage:
		return fmt.Sprintf(
			"On %s, an image failed to load: %s. Confirm the image file exists at that path and the server serves it with a successful status code.",
			path, detail)
	case model.DefectAccessibility:
		return fmt.Sprintf(
			"On %s, an accessibility issue was found: %s. Review the affected elements and add the missing semantic attribute (alt text, a label, or a lang attribute) so assistive technology can interpret the content.",
			path, title)
	case model.DefectResponsive:
		return fmt.Sprintf(
			"On %s, the layout overflows horizontally at a narrower viewport: %s. Check for fixed-width elements or unwrapped content and replace them with responsive (relative or wrapping) styles.",
			path, detail)
	default:
		return fmt.Sprintf("On %s: %s", path, detail)
	}
}

func pagePath(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Path == "" {
		return pageURL
	}
	return u.Path
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
