// Package generation defines the boundary between the application core and
// external LLM providers. It holds the Adapter interface every backend
// implements, the ProviderError taxonomy adapters report failures with, the
// shared prompt builder, and the Registry used to dispatch by provider id.
package generation
