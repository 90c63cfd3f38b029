package browser

// ConsentSelectors is the fixed selector list the broken-link tester
// tries, in order, to dismiss a cookie-consent overlay before collecting
// anchors (spec §4.2.4). CSS has no text-content matcher, so the
// "Accept all" / "Accept" / "OK" / "Agree" / "Allow all" wording from the
// spec is approximated with the id/class/attribute patterns real consent
// managers (OneTrust, Cookiebot, Quantcast, Google's own CMP) actually
// ship, rather than literal text matches.
var ConsentSelectors = []string{
	"#onetrust-accept-btn-handler",
	"button#accept-all",
	"button.accept-all",
	"[id*='accept-all' i]",
	"[class*='accept-all' i]",
	"button[data-testid='uc-accept-all-button']",
	"button[mode='primary'][data-testid*='accept']",
	"[aria-label*='Accept' i][role='button']",
	"button[title*='Accept' i]",
	".fc-cta-consent",
	"#CybotCookiebotDialogBodyLevelButtonLevelOptinAllowAll",
	"button[aria-label='Agree']",
	"button[aria-label='OK']",
}
