package gemini

import (
	"encoding/json"

	"google.golang.org/genai"
)

// ideasSchema constrains the model output to {"ideas": ["..."]}.
var ideasSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"ideas": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"ideas"},
}

type ideasEnvelope struct {
	Ideas json.RawMessage `json:"ideas"`
}

// errorBody is the Google API error envelope.
type errorBody struct {
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    int           `json:"code"`
	Message string        `json:"message"`
	Status  string        `json:"status"`
	Details []errorDetail `json:"details"`
}

// errorDetail covers the google.rpc detail types the classifier reads:
// ErrorInfo (reason) and QuotaFailure (violations).
type errorDetail struct {
	Type       string           `json:"@type"`
	Reason     string           `json:"reason"`
	Violations []quotaViolation `json:"violations"`
}

type quotaViolation struct {
	QuotaID     string `json:"quotaId"`
	QuotaMetric string `json:"quotaMetric"`
}
