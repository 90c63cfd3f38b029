package a11y

import "testing"

func findRule(violations []Violation, ruleID string) (Violation, bool) {
	for _, v := range violations {
		if v.RuleID == ruleID {
			return v, true
		}
	}
	return Violation{}, false
}

func TestAudit_MissingLang(t *testing.T) {
	violations, err := Audit(`<html><body></body></html>`)
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}
	v, ok := findRule(violations, "html-has-lang")
	if !ok {
		t.Fatal("expected html-has-lang violation")
	}
	if v.Impact != ImpactCritical {
		t.Errorf("impact = %q, want critical", v.Impact)
	}
}

func TestAudit_LangPresent(t *testing.T) {
	violations, err := Audit(`<html lang="en"><body></body></html>`)
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}
	if _, ok := findRule(violations, "html-has-lang"); ok {
		t.Error("did not expect html-has-lang violation when lang is set")
	}
}

func TestAudit_ImageAlt(t *testing.T) {
	html := `<html lang="en"><body><img src="a.png"><img src="b.png" alt="b"></body></html>`
	violations, err := Audit(html)
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}
	v, ok := findRule(violations, "image-alt")
	if !ok {
		t.Fatal("expected image-alt violation")
	}
	if v.Impact != ImpactSerious {
		t.Errorf("impact = %q, want serious", v.Impact)
	}
}

func TestAudit_FormLabels(t *testing.T) {
	html := `<html lang="en"><body>
		<input id="name">
		<label for="email">Email</label><input id="email">
		<input aria-label="search">
	</body></html>`
	violations, err := Audit(html)
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}
	v, ok := findRule(violations, "label")
	if !ok {
		t.Fatal("expected label violation")
	}
	if v.Description == "" {
		t.Error("expected description to be set")
	}
}

func TestAudit_LinkText(t *testing.T) {
	html := `<html lang="en"><body>
		<a href="/a"></a>
		<a href="/b">Click here</a>
		<a href="/c"><img src="x.png" alt="icon"></a>
	</body></html>`
	violations, err := Audit(html)
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}
	if _, ok := findRule(violations, "link-name"); !ok {
		t.Fatal("expected link-name violation")
	}
}

func TestAudit_DuplicateIDs(t *testing.T) {
	html := `<html lang="en"><body><div id="x"></div><div id="x"></div></body></html>`
	violations, err := Audit(html)
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}
	if _, ok := findRule(violations, "duplicate-id"); !ok {
		t.Fatal("expected duplicate-id violation")
	}
}

func TestAudit_CapsAtMaxViolations(t *testing.T) {
	violations, err := Audit(`<html><body><input><input><input></body></html>`)
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}
	if len(violations) > maxViolations {
		t.Errorf("len(violations) = %d, want <= %d", len(violations), maxViolations)
	}
}
