// Package redact provides utilities for redacting sensitive information from strings
// before they are logged or returned in error responses. Upstream LLM providers
// routinely echo part of the caller's API key, request headers or help URLs in
// their error bodies; this package strips that material so provider messages can
// be logged and surfaced safely.
package redact

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Constants for redaction placeholders
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedTokenPlaceholder      = "[REDACTED_TOKEN]"
	RedactedURLPlaceholder        = "[REDACTED_URL]"
)

// rule pairs a precompiled pattern with its placeholder. Rules apply in order.
type rule struct {
	re          *regexp.Regexp
	placeholder string
}

var rules = []rule{
	// Authorization headers echoed back by proxies.
	{regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_\-.~+/*]+=*`), RedactedTokenPlaceholder},
	// OpenAI-style keys, including the masked form sk-proj-****abcd.
	{regexp.MustCompile(`\bsk-[A-Za-z0-9_\-*]{4,}`), RedactedKeyPlaceholder},
	// Google API keys.
	{regexp.MustCompile(`\bAIza[0-9A-Za-z_\-]{20,}`), RedactedKeyPlaceholder},
	// key=value style credentials.
	{regexp.MustCompile(
		`(?i)\b(api[_-]?key|x-api-key|access[_-]?token|token|secret|auth)\s*[:=]\s*['"]?[A-Za-z0-9_\-.~+/]{8,}['"]?`,
	), RedactedKeyPlaceholder},
	{regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[=:]\s*['"]?[^'"&\s]{3,}['"]?`), RedactedCredentialPlaceholder},
	{regexp.MustCompile(`(AKIA|AccessKey(Id)?)([^a-zA-Z0-9])?[A-Z0-9]{8,}`), RedactedKeyPlaceholder},
	// JWT: three base64url segments.
	{regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`), "[REDACTED_JWT]"},
	// URLs may carry keys in the query string.
	{regexp.MustCompile(`https?://[^\s"'<>]+`), RedactedURLPlaceholder},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "[REDACTED_EMAIL]"},
	{regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`), "[STACK_TRACE_REDACTED]"},
	{regexp.MustCompile(`[A-Za-z]:\\[^\\]+(\\[^\\]+)+`), RedactedPathPlaceholder},
	{regexp.MustCompile(`(/[\w.-]+){2,}`), RedactedPathPlaceholder},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.re.ReplaceAllString(result, r.placeholder)
	}

	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}

// Credential removes every literal occurrence of credential from input, then
// applies String. Credentials shorter than four characters are not searched for
// to avoid shredding ordinary words.
func Credential(input, credential string) string {
	credential = strings.TrimSpace(credential)
	if len(credential) >= 4 {
		input = strings.ReplaceAll(input, credential, RedactedCredentialPlaceholder)
	}
	return String(input)
}

// Truncate shortens s to at most maxRunes runes without splitting a rune.
// Redact before truncating so a secret cut at the boundary is still matched.
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i]
		}
		n++
	}
	return s
}
