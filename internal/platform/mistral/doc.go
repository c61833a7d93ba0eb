// Package mistral implements generation.Adapter against the Mistral chat
// completions API. Mistral answers in free text; the prompt asks for a bare
// JSON array and the adapter extracts the outermost [...] span from the reply.
package mistral
