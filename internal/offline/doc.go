// Package offline serves canned gift ideas without any network call. It backs
// the demo branch of the idea router: a credential carrying the configured
// sentinel prefix is answered from an embedded, age-bucketed catalog.
package offline
