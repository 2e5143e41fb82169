// Package content renders marketing copy drafts from competitor
// intelligence using Liquid templates.
package content

import (
	"fmt"
	"strings"
	"sync"

	"github.com/osteele/liquid"
)

// Kind enumerates the supported content drafts.
type Kind string

const (
	KindAdCopy      Kind = "ad_copy"
	KindBlogOutline Kind = "blog_outline"
	KindSocialPost  Kind = "social_post"
)

// Valid reports whether the kind is one of the known variants.
func (k Kind) Valid() bool {
	switch k {
	case KindAdCopy, KindBlogOutline, KindSocialPost:
		return true
	}
	return false
}

// Input carries the intelligence facts a draft is built from.
type Input struct {
	Kind            Kind     `json:"kind"`
	CompanyName     string   `json:"company_name"`
	Competitor      string   `json:"competitor"`
	Vulnerabilities []string `json:"vulnerabilities"`
	Keywords        []string `json:"keywords"`
}

var templates = map[Kind]string{
	KindAdCopy: `{{ company | default: "Your brand" }} vs {{ competitor }}: {{ vulnerability | default: "see the difference" }}.
Switch today and get what {{ competitor }} can't deliver.
Target keywords: {{ keywords | join: ", " }}`,

	KindBlogOutline: `# Why teams are leaving {{ competitor }}
1. The problem: {{ vulnerability | default: "common frustrations" }}
2. What to look for instead
3. How {{ company | default: "we" }} solves it
4. Migration checklist
SEO focus: {{ keywords | join: ", " }}`,

	KindSocialPost: `Tired of {{ vulnerability | default: "the usual tradeoffs" }}? {{ company | default: "We" }} built the alternative to {{ competitor }}. #{{ tag }}`,
}

// Generator renders drafts with a shared Liquid engine. Parsed templates are
// cached after first use.
type Generator struct {
	engine *liquid.Engine
	cache  sync.Map // map[Kind]*liquid.Template
}

// NewGenerator creates a content generator with the dashboard's filters.
func NewGenerator() *Generator {
	engine := liquid.NewEngine()
	engine.RegisterFilter("default", func(value interface{}, defaultVal string) interface{} {
		if value == nil {
			return defaultVal
		}
		s := fmt.Sprintf("%v", value)
		if s == "" || s == "<nil>" {
			return defaultVal
		}
		return value
	})
	return &Generator{engine: engine}
}

// Generate renders one draft. Unknown kinds and missing competitors are
// rejected.
func (g *Generator) Generate(in Input) (string, error) {
	if !in.Kind.Valid() {
		return "", fmt.Errorf("unknown content kind %q", in.Kind)
	}
	if strings.TrimSpace(in.Competitor) == "" {
		return "", fmt.Errorf("competitor is required")
	}

	tpl, err := g.template(in.Kind)
	if err != nil {
		return "", err
	}

	var vulnerability string
	if len(in.Vulnerabilities) > 0 {
		vulnerability = in.Vulnerabilities[0]
	}

	bindings := map[string]interface{}{
		"company":       in.CompanyName,
		"competitor":    in.Competitor,
		"vulnerability": vulnerability,
		"keywords":      in.Keywords,
		"tag":           strings.ReplaceAll(strings.ToLower(in.Competitor), " ", ""),
	}

	out, err := tpl.RenderString(bindings)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", in.Kind, err)
	}
	return out, nil
}

func (g *Generator) template(kind Kind) (*liquid.Template, error) {
	if cached, ok := g.cache.Load(kind); ok {
		return cached.(*liquid.Template), nil
	}
	tpl, err := g.engine.ParseString(templates[kind])
	if err != nil {
		return nil, fmt.Errorf("parse %s template: %w", kind, err)
	}
	g.cache.Store(kind, tpl)
	return tpl, nil
}
