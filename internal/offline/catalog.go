package offline

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Bucket is an age bracket key in the catalog.
type Bucket string

const (
	BucketChild   Bucket = "child"
	BucketTeen    Bucket = "teen"
	BucketAdult   Bucket = "adult"
	BucketElderly Bucket = "elderly"
)

// ErrInvalidCatalog is returned when catalog data cannot serve the fallback bucket.
var ErrInvalidCatalog = errors.New("invalid offline catalog")

//go:embed data/catalog.yaml
var embeddedCatalog []byte

// BucketForAge maps an age to its bucket: under 13 child, 13 to 17 teen,
// 18 to 65 adult, over 65 elderly.
func BucketForAge(age int) Bucket {
	switch {
	case age < 13:
		return BucketChild
	case age < 18:
		return BucketTeen
	case age > 65:
		return BucketElderly
	default:
		return BucketAdult
	}
}

// Catalog is an immutable set of idea lists keyed by bucket.
type Catalog struct {
	buckets map[Bucket][]string
}

// ParseCatalog decodes YAML of the form `bucket: [idea, ...]`. Blank and
// repeated entries are dropped. The adult bucket must be non-empty since it is the fallback.
func ParseCatalog(raw []byte) (*Catalog, error) {
	var decoded map[string][]string
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	c := &Catalog{buckets: make(map[Bucket][]string, len(decoded))}
	for key, ideas := range decoded {
		kept := make([]string, 0, len(ideas))
		seen := make(map[string]struct{}, len(ideas))
		for _, idea := range ideas {
			idea = strings.TrimSpace(idea)
			if idea == "" {
				continue
			}
			if _, dup := seen[idea]; dup {
				continue
			}
			seen[idea] = struct{}{}
			kept = append(kept, idea)
		}
		if len(kept) > 0 {
			c.buckets[Bucket(strings.ToLower(strings.TrimSpace(key)))] = kept
		}
	}

	if len(c.buckets[BucketAdult]) == 0 {
		return nil, fmt.Errorf("%w: %q bucket is empty", ErrInvalidCatalog, BucketAdult)
	}

	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// DefaultCatalog returns the embedded catalog, parsed once.
func DefaultCatalog() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = ParseCatalog(embeddedCatalog)
	})
	return defaultCatalog, defaultErr
}

// Ideas returns the list for b, falling back to the adult bucket for unknown
// or empty keys. The returned slice must not be modified.
func (c *Catalog) Ideas(b Bucket) []string {
	if ideas, ok := c.buckets[b]; ok {
		return ideas
	}
	return c.buckets[BucketAdult]
}
