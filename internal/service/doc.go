// Package service contains the application-specific use cases. Its single use
// case is the idea router: given a validated request it decides between the
// offline demo branch and a live provider adapter, and returns the adapter's
// result or error unchanged.
//
// The service sits between the delivery mechanisms (HTTP API, CLI) and the
// provider adapters registered in a generation.Registry. It performs no
// retries and applies no timeouts of its own; both belong to the adapters and
// the caller's context.
package service
