package generation

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/phrazzld/giftwise/internal/domain"
)

// PromptFormat selects the structured shape a backend is asked to reply with.
type PromptFormat string

const (
	// FormatObject asks for {"ideas": [...]}.
	FormatObject PromptFormat = "object"
	// FormatArray asks for a bare JSON array of strings.
	FormatArray PromptFormat = "array"
)

//go:embed prompts/gift_ideas.tmpl
var defaultPromptTemplate string

// promptData is the data passed to the prompt template.
type promptData struct {
	Age       int
	Interests string
	Count     int
	Format    PromptFormat
}

// PromptBuilder renders the natural-language prompt shared by all adapters.
// It is immutable after construction and safe for concurrent use.
type PromptBuilder struct {
	tmpl *template.Template
}

// NewPromptBuilder parses text as a prompt template. Empty text selects the
// embedded default template.
func NewPromptBuilder(text string) (*PromptBuilder, error) {
	if strings.TrimSpace(text) == "" {
		text = defaultPromptTemplate
	}

	tmpl, err := template.New("gift_ideas").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v", ErrInvalidConfig, err)
	}

	return &PromptBuilder{tmpl: tmpl}, nil
}

// LoadPromptBuilder reads a prompt template from path. An empty path selects the
// embedded default template.
func LoadPromptBuilder(path string) (*PromptBuilder, error) {
	if path == "" {
		return NewPromptBuilder("")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v", ErrInvalidConfig, path, err)
	}

	return NewPromptBuilder(string(content))
}

// DefaultPromptBuilder returns a builder for the embedded template.
func DefaultPromptBuilder() *PromptBuilder {
	b, err := NewPromptBuilder("")
	if err != nil {
		panic(err)
	}
	return b
}

// Build renders a prompt asking for domain.RequestedIdeas ideas in the given format.
func (b *PromptBuilder) Build(age int, interests string, format PromptFormat) (string, error) {
	data := promptData{
		Age:       age,
		Interests: strings.TrimSpace(interests),
		Count:     domain.RequestedIdeas,
		Format:    format,
	}

	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	return strings.TrimSpace(buf.String()), nil
}
