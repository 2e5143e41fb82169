package intelligence

import (
	"math/rand"
	"sync"
)

// Report is one synthesized intelligence snapshot for a competitor. Values
// are bounded: SEOScore 0-100, SentimentScore and NegativeShare 0.0-1.0,
// EstimatedSpend capped by the provider's configured maximum.
type Report struct {
	SEOScore        int
	SentimentScore  float64
	NegativeShare   float64
	MarketShare     float64
	EstimatedSpend  float64
	Vulnerabilities []string
	Keywords        []string
	AdPlatforms     []string
	ComplaintThemes []string
}

// Provider produces intelligence reports. Implementations must be safe for
// concurrent use.
type Provider interface {
	Generate(companyName string) Report
}

var vulnerabilityPool = []string{
	"weak mobile experience",
	"slow page load times",
	"no free tier",
	"poor customer support reviews",
	"outdated content strategy",
	"limited social presence",
	"high pricing vs. market",
	"thin long-tail keyword coverage",
}

var keywordPool = []string{
	"project management software",
	"team collaboration",
	"marketing automation",
	"crm for small business",
	"competitor analysis tool",
	"email campaign platform",
}

var adPlatformPool = []string{"google", "meta", "linkedin", "tiktok", "bing"}

var complaintThemePool = []string{
	"billing surprises",
	"support response time",
	"missing integrations",
	"steep learning curve",
	"mobile app crashes",
}

// RandomProvider generates plausible bounded metrics from a seeded source.
type RandomProvider struct {
	mu       sync.Mutex
	rng      *rand.Rand
	maxSpend float64
}

// NewRandomProvider creates a provider seeded with the given value. maxSpend
// caps the synthesized monthly ad spend.
func NewRandomProvider(seed int64, maxSpend float64) *RandomProvider {
	if maxSpend <= 0 {
		maxSpend = 50000
	}
	return &RandomProvider{rng: rand.New(rand.NewSource(seed)), maxSpend: maxSpend}
}

func (p *RandomProvider) Generate(companyName string) Report {
	p.mu.Lock()
	defer p.mu.Unlock()

	negative := 0.05 + p.rng.Float64()*0.45
	return Report{
		SEOScore:        20 + p.rng.Intn(81),
		SentimentScore:  round2(0.2 + p.rng.Float64()*0.7),
		NegativeShare:   round2(negative),
		MarketShare:     round2(p.rng.Float64() * 35),
		EstimatedSpend:  round2(p.rng.Float64() * p.maxSpend),
		Vulnerabilities: p.pick(vulnerabilityPool, 2+p.rng.Intn(3)),
		Keywords:        p.pick(keywordPool, 3),
		AdPlatforms:     p.pick(adPlatformPool, 1+p.rng.Intn(3)),
		ComplaintThemes: p.pick(complaintThemePool, 1+p.rng.Intn(2)),
	}
}

// pick returns n distinct entries from pool. Caller holds the lock.
func (p *RandomProvider) pick(pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	idx := p.rng.Perm(len(pool))[:n]
	out := make([]string, 0, n)
	for _, i := range idx {
		out = append(out, pool[i])
	}
	return out
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

// StaticProvider returns the same report for every company. Used by tests to
// drive deterministic refresh behavior.
type StaticProvider struct {
	Report Report
}

func (p *StaticProvider) Generate(string) Report { return p.Report }
