package testers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/scoutqa/scoutqa/internal/browser"
	"github.com/scoutqa/scoutqa/internal/model"
)

// BrokenLinkTester implements spec §4.2.4: collects anchors, dismisses a
// cookie-consent overlay first, then HEAD-then-GET checks each unique
// target, reporting only the targets confirmed broken.
var BrokenLinkTester = Tester{
	Type: model.DefectBrokenLink,
	Run:  runBrokenLinkTester,
}

var linkExcludedSchemes = map[string]bool{
	"mailto": true, "tel": true, "javascript": true, "data": true, "blob": true,
}

var botBlockedHosts = map[string]bool{
	"linkedin.com": true, "facebook.com": true, "instagram.com": true,
	"twitter.com": true, "x.com": true, "tiktok.com": true,
	"pinterest.com": true, "reddit.com": true, "threads.net": true,
}

const linkCheckTimeout = 8 * time.Second
const maxLinksChecked = 50

func isBotBlockedHost(host string) bool {
	host = strings.ToLower(host)
	for blocked := range botBlockedHosts {
		if host == blocked || strings.HasSuffix(host, "."+blocked) {
			return true
		}
	}
	return false
}

func runBrokenLinkTester(ctx context.Context, pg *browser.Page, pageURL string) ([]model.Defect, error) {
	if err := pg.Navigate(ctx, pageURL); err != nil {
		return nil, err
	}
	pg.ClickFirst(ctx, browser.ConsentSelectors)

	html, err := pg.OuterHTML(ctx)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	targets := collectLinkTargets(html, base)
	if len(targets) > maxLinksChecked {
		targets = targets[:maxLinksChecked]
	}

	client := &http.Client{Timeout: linkCheckTimeout}
	var defects []model.Defect
	for _, target := range targets {
		verdict, detail := checkLink(ctx, client, target)
		if verdict != linkBroken {
			continue
		}
		defects = append(defects, model.Defect{
			Type:     model.DefectBrokenLink,
			Severity: model.SeverityWarning,
			Title:    "Broken link: " + pathOf(target),
			Details:  detail,
			Page:     pageURL,
		})
	}
	return defects, nil
}

// collectLinkTargets gathers unique, fragment-stripped anchor targets
// worth checking, per the filtering rules in spec §4.2.4.
func collectLinkTargets(html string, base *url.URL) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var targets []string

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || strings.TrimSpace(href) == "" || strings.HasPrefix(href, "#") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		if linkExcludedSchemes[strings.ToLower(ref.Scheme)] {
			return
		}
		resolved := base.ResolveReference(ref)
		stripped := *resolved
		stripped.Fragment = ""
		full := stripped.String()
		if full == "" || strings.HasPrefix(full, "#") {
			return
		}
		if isBotBlockedHost(resolved.Host) {
			return
		}
		if seen[full] {
			return
		}
		seen[full] = true
		targets = append(targets, full)
	})

	return targets
}

type linkVerdict int

const (
	linkOK linkVerdict = iota
	linkBroken
	linkUncertain
)

// checkLink runs the HEAD-then-GET algorithm from spec §4.2.4 step 1/2.
func checkLink(ctx context.Context, client *http.Client, target string) (linkVerdict, string) {
	if status, err := doRequest(ctx, client, http.MethodHead, target); err == nil {
		if status < 400 {
			return linkOK, ""
		}
		if status == 404 || status == 410 {
			return linkBroken, statusDetail(status)
		}
	}

	status, err := doRequest(ctx, client, http.MethodGet, target)
	if err != nil {
		msg := err.Error()
		if strings.Contains(msg, "no such host") || strings.Contains(msg, "connection refused") {
			return linkBroken, "Domain not found or connection refused"
		}
		return linkUncertain, ""
	}
	if status < 400 {
		return linkOK, ""
	}
	if status == 404 || status == 410 {
		return linkBroken, statusDetail(status)
	}
	return linkUncertain, "Returned " + strconv.Itoa(status) + " (may be access-restricted or temporarily unavailable)"
}

func doRequest(ctx context.Context, client *http.Client, method, target string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func statusDetail(status int) string {
	return "Returned " + strconv.Itoa(status)
}
