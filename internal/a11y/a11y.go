// Package a11y is the accessibility audit the "audit integration" hook
// in spec §9 leaves abstract ("any driver exposing these hooks
// suffices"). It runs five deterministic rules over a page's rendered
// HTML rather than claiming axe-core parity, since no comparable audit
// engine is available in Go: missing document language, images without
// alt text, unlabeled form controls, links with no discernible text, and
// duplicate ids.
package a11y

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Impact is the severity band a rule's finding belongs to, mirroring
// axe-core's impact vocabulary (spec §4.2.5).
type Impact string

const (
	ImpactCritical Impact = "critical"
	ImpactSerious  Impact = "serious"
	ImpactModerate Impact = "moderate"
)

// Violation is one rule failure, shaped to map directly onto a defect:
// title = "<RuleID>: <Help>", details = "<Description>. Affected
// elements: <up to 3 node snippets>".
type Violation struct {
	RuleID      string
	Help        string
	Description string
	Nodes       []string
	Impact      Impact
}

// maxNodesPerViolation caps the affected-element snippets per violation,
// and maxViolations caps the findings per page (spec §4.2.5: "up to 10").
const (
	maxNodesPerViolation = 3
	maxViolations        = 10
)

// Audit runs every rule against html and returns up to maxViolations
// findings, in rule-declaration order.
func Audit(html string) ([]Violation, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var violations []Violation
	for _, rule := range rules {
		if v, ok := rule(doc); ok {
			violations = append(violations, v)
		}
		if len(violations) >= maxViolations {
			break
		}
	}
	if len(violations) > maxViolations {
		violations = violations[:maxViolations]
	}
	return violations, nil
}

type rule func(*goquery.Document) (Violation, bool)

var rules = []rule{
	ruleHTMLLang,
	ruleImageAlt,
	ruleFormLabels,
	ruleLinkText,
	ruleDuplicateIDs,
}

func outerHTML(s *goquery.Selection) string {
	html, err := goquery.OuterHtml(s)
	if err != nil {
		return ""
	}
	if len(html) > 120 {
		return html[:120] + "…"
	}
	return html
}

func nodeSnippets(sel *goquery.Selection, limit int) []string {
	var out []string
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		out = append(out, outerHTML(s))
		return len(out) < limit
	})
	return out
}

func ruleHTMLLang(doc *goquery.Document) (Violation, bool) {
	html := doc.Find("html").First()
	lang, _ := html.Attr("lang")
	if strings.TrimSpace(lang) != "" {
		return Violation{}, false
	}
	return Violation{
		RuleID:      "html-has-lang",
		Help:        "<html> element must have a lang attribute",
		Description: "The document's <html> element has no lang attribute, so assistive technology cannot announce its language",
		Nodes:       nodeSnippets(html, maxNodesPerViolation),
		Impact:      ImpactCritical,
	}, true
}

func ruleImageAlt(doc *goquery.Document) (Violation, bool) {
	missing := doc.Find("img").FilterFunction(func(_ int, s *goquery.Selection) bool {
		_, has := s.Attr("alt")
		return !has
	})
	if missing.Length() == 0 {
		return Violation{}, false
	}
	return Violation{
		RuleID:      "image-alt",
		Help:        "Images must have alternate text",
		Description: fmt.Sprintf("%d image(s) have no alt attribute", missing.Length()),
		Nodes:       nodeSnippets(missing, maxNodesPerViolation),
		Impact:      ImpactSerious,
	}, true
}

func ruleFormLabels(doc *goquery.Document) (Violation, bool) {
	labeledIDs := make(map[string]bool)
	doc.Find("label[for]").Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("for"); ok {
			labeledIDs[id] = true
		}
	})

	unlabeled := doc.Find("input, select, textarea").FilterFunction(func(_ int, s *goquery.Selection) bool {
		if t, _ := s.Attr("type"); t == "hidden" || t == "submit" || t == "button" {
			return false
		}
		if _, ok := s.Attr("aria-label"); ok {
			return false
		}
		if _, ok := s.Attr("aria-labelledby"); ok {
			return false
		}
		id, hasID := s.Attr("id")
		if hasID && labeledIDs[id] {
			return false
		}
		if s.Closest("label").Length() > 0 {
			return false
		}
		return true
	})
	if unlabeled.Length() == 0 {
		return Violation{}, false
	}
	return Violation{
		RuleID:      "label",
		Help:        "Form elements must have labels",
		Description: fmt.Sprintf("%d form control(s) have no associated label", unlabeled.Length()),
		Nodes:       nodeSnippets(unlabeled, maxNodesPerViolation),
		Impact:      ImpactSerious,
	}, true
}

func ruleLinkText(doc *goquery.Document) (Violation, bool) {
	empty := doc.Find("a[href]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		if strings.TrimSpace(s.Text()) != "" {
			return false
		}
		if _, ok := s.Attr("aria-label"); ok {
			return false
		}
		if s.Find("img[alt]").Length() > 0 {
			return false
		}
		return true
	})
	if empty.Length() == 0 {
		return Violation{}, false
	}
	return Violation{
		RuleID:      "link-name",
		Help:        "Links must have discernible text",
		Description: fmt.Sprintf("%d link(s) have no text content, aria-label, or labelled image", empty.Length()),
		Nodes:       nodeSnippets(empty, maxNodesPerViolation),
		Impact:      ImpactModerate,
	}, true
}

func ruleDuplicateIDs(doc *goquery.Document) (Violation, bool) {
	counts := make(map[string]int)
	doc.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("id"); ok && id != "" {
			counts[id]++
		}
	})

	var dupIDs []string
	for id, n := range counts {
		if n > 1 {
			dupIDs = append(dupIDs, id)
		}
	}
	if len(dupIDs) == 0 {
		return Violation{}, false
	}

	dup := doc.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		id, _ := s.Attr("id")
		return counts[id] > 1
	})
	return Violation{
		RuleID:      "duplicate-id",
		Help:        "IDs used on active descendants must be unique",
		Description: fmt.Sprintf("%d id value(s) are duplicated on this page", len(dupIDs)),
		Nodes:       nodeSnippets(dup, maxNodesPerViolation),
		Impact:      ImpactCritical,
	}, true
}
