// Package gemini implements generation.Adapter on top of Google's Gemini API
// through the google.golang.org/genai client.
//
// The request credential is used as the client API key, so a client is built
// per call and never cached. Structured output is requested with a response
// schema describing an object with an "ideas" string array; the adapter reads
// the concatenated text parts of the first candidate and decodes that object.
//
// Failures surface as *generation.ProviderError. genai.APIError values are
// classified by HTTP code and, for 429, by whether the backend reports a
// quota exhaustion or a short-term rate limit.
package gemini
