package offline

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/phrazzld/giftwise/internal/domain"
)

// DefaultCredentialPrefix marks a credential as a demo credential.
const DefaultCredentialPrefix = "test"

// MaxIdeas bounds the number of canned ideas per response.
const MaxIdeas = 5

// RNG is the random source used for sampling. Tests inject a deterministic one.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// SystemRNG draws from math/rand/v2's global source.
type SystemRNG struct{}

func (SystemRNG) Intn(n int) int { return rand.IntN(n) }

// Generator answers demo requests from a Catalog. It is safe for concurrent
// use when its RNG is.
type Generator struct {
	catalog *Catalog
	rng     RNG
	prefix  string
	now     func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator builds a Generator. A nil rng selects SystemRNG and an empty
// prefix selects DefaultCredentialPrefix.
func NewGenerator(catalog *Catalog, rng RNG, prefix string, opts ...Option) *Generator {
	if rng == nil {
		rng = SystemRNG{}
	}
	if prefix == "" {
		prefix = DefaultCredentialPrefix
	}
	g := &Generator{catalog: catalog, rng: rng, prefix: prefix, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Matches reports whether credential selects the offline branch.
func (g *Generator) Matches(credential string) bool {
	return strings.HasPrefix(credential, g.prefix)
}

// Label is the provider label of an offline result for provider.
func Label(provider domain.ProviderID) string {
	return fmt.Sprintf("%s (offline)", provider)
}

// Generate samples up to MaxIdeas distinct entries from the bucket for age.
func (g *Generator) Generate(provider domain.ProviderID, age int) (*domain.IdeaResult, error) {
	return g.generate(provider, BucketForAge(age))
}

func (g *Generator) generate(provider domain.ProviderID, bucket Bucket) (*domain.IdeaResult, error) {
	pool := g.catalog.Ideas(bucket)
	return domain.NewIdeaResult(sample(pool, MaxIdeas, g.rng), Label(provider), g.now())
}

// sample draws min(n, len(pool)) entries without replacement using a partial
// Fisher-Yates shuffle over an index slice; pool is left untouched.
func sample(pool []string, n int, rng RNG) []string {
	if n > len(pool) {
		n = len(pool)
	}

	indices := make([]int, len(pool))
	for i := range indices {
		indices[i] = i
	}

	out := make([]string, n)
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(indices)-i)
		indices[i], indices[j] = indices[j], indices[i]
		out[i] = pool[indices[i]]
	}
	return out
}
