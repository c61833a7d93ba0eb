// Package domain contains the core entities of the gift idea service: the
// recipient request, the canonical idea result, and the enumerated set of
// supported providers. It is independent of any transport or LLM backend.
package domain
