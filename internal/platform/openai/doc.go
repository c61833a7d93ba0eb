// Package openai implements generation.Adapter against the OpenAI chat
// completions API through the official openai-go client. The backend is asked
// for a JSON object with an "ideas" array (response_format json_object); the
// adapter decodes the first choice's message content into that shape.
package openai
