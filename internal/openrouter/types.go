package openrouter

import "github.com/bytedance/sonic"

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ImageURL references an image by URL inside a content part.
type ImageURL struct {
	URL string `json:"url"`
}

// ContentPart is one block of a multimodal message.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// Message is a single chat turn. Content holds plain text; when Parts is
// set it takes precedence and the message is encoded with a content-part
// array, which is what vision requests require.
type Message struct {
	Role    string
	Content string
	Parts   []ContentPart
}

// MarshalJSON encodes Content as a string or as a part array depending on
// which field is populated.
func (m Message) MarshalJSON() ([]byte, error) {
	wire := struct {
		Role    string `json:"role"`
		Content any    `json:"content"`
	}{Role: m.Role}

	if len(m.Parts) > 0 {
		wire.Content = m.Parts
	} else {
		wire.Content = m.Content
	}

	return sonic.Marshal(wire)
}

// TextMessage builds a plain text message.
func TextMessage(role, text string) Message {
	return Message{Role: role, Content: text}
}

// ImageMessage builds a user message pairing a prompt with an image URL.
func ImageMessage(prompt, imageURL string) Message {
	return Message{
		Role: RoleUser,
		Parts: []ContentPart{
			{Type: "text", Text: prompt},
			{Type: "image_url", ImageURL: &ImageURL{URL: imageURL}},
		},
	}
}

// PromptText concatenates the human-readable text of a message list. It is
// the input side of length-based token estimation.
func PromptText(messages []Message) string {
	var text string
	for _, m := range messages {
		if len(m.Parts) > 0 {
			for _, p := range m.Parts {
				text += p.Text
			}
			continue
		}
		text += m.Content
	}
	return text
}

// ChatRequest is the JSON payload for the chat completions endpoint.
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream,omitempty"`
}

// Usage mirrors the provider's usage block. Cost carries OpenRouter's
// server-computed USD charge when the account has usage accounting
// enabled; it is zero otherwise.
type Usage struct {
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	Cost             float64 `json:"cost,omitempty"`
}

// ResponseMessage is the assistant message inside a completed choice.
type ResponseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Choice is one completion alternative.
type Choice struct {
	Index        int             `json:"index"`
	Message      ResponseMessage `json:"message"`
	FinishReason string          `json:"finish_reason,omitempty"`
}

// ChatResponse is a complete, non-streamed completion.
type ChatResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
}

// Text returns the content of the first choice, or "" when the provider
// returned no choices.
func (r *ChatResponse) Text() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// StreamDelta is the incremental payload of a streamed choice.
type StreamDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// StreamChoice is one alternative inside a streamed chunk.
type StreamChoice struct {
	Index        int         `json:"index"`
	Delta        StreamDelta `json:"delta"`
	FinishReason string      `json:"finish_reason,omitempty"`
}

// StreamChunk is a single SSE event of a streamed completion. The terminal
// chunk typically carries Usage and an empty choice list.
type StreamChunk struct {
	ID      string         `json:"id"`
	Model   string         `json:"model"`
	Choices []StreamChoice `json:"choices"`
	Usage   *Usage         `json:"usage,omitempty"`
}

// apiErrorBody is the provider's error envelope.
type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
