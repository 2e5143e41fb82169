package content

import (
	"strings"
	"testing"
)

func TestGenerateAdCopy(t *testing.T) {
	g := NewGenerator()
	out, err := g.Generate(Input{
		Kind:            KindAdCopy,
		CompanyName:     "MarketScout",
		Competitor:      "Acme Inc",
		Vulnerabilities: []string{"weak mobile experience"},
		Keywords:        []string{"crm for small business", "team collaboration"},
	})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if !strings.Contains(out, "Acme Inc") {
		t.Error("output missing competitor name")
	}
	if !strings.Contains(out, "weak mobile experience") {
		t.Error("output missing vulnerability")
	}
	if !strings.Contains(out, "crm for small business, team collaboration") {
		t.Error("output missing joined keywords")
	}
}

func TestGenerateDefaultsWhenIntelMissing(t *testing.T) {
	g := NewGenerator()
	out, err := g.Generate(Input{Kind: KindSocialPost, Competitor: "Acme Inc"})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if !strings.Contains(out, "the usual tradeoffs") {
		t.Errorf("expected default vulnerability text, got %q", out)
	}
	if !strings.Contains(out, "#acmeinc") {
		t.Errorf("expected hashtag, got %q", out)
	}
}

func TestGenerateUnknownKind(t *testing.T) {
	g := NewGenerator()
	if _, err := g.Generate(Input{Kind: "press_release", Competitor: "Acme"}); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestGenerateRequiresCompetitor(t *testing.T) {
	g := NewGenerator()
	if _, err := g.Generate(Input{Kind: KindBlogOutline}); err == nil {
		t.Fatal("expected error for missing competitor")
	}
}
