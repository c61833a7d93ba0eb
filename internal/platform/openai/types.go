package openai

import "encoding/json"

// ideasEnvelope is the structured output the prompt asks for. Ideas stays raw
// so a missing key can be told apart from a non-array value.
type ideasEnvelope struct {
	Ideas json.RawMessage `json:"ideas"`
}

// errorBody is the OpenAI error envelope. Code is a string for most errors but
// null or numeric for some, hence any.
type errorBody struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}
