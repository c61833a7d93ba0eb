package mistral

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// errorBody covers the shapes Mistral uses for errors: a flat
// {"message","type","code"} object and the {"detail": ...} form of its gateway.
type errorBody struct {
	Message any    `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
	Detail  any    `json:"detail"`
}
