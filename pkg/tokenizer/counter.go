// Package tokenizer counts prompt tokens for chat models.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/tiktoken-go/tokenizer"
)

// encodingForModel maps chat model names to tiktoken encodings.
var encodingForModel = map[string]tokenizer.Encoding{
	"gpt-4o":        tokenizer.O200kBase,
	"gpt-4o-mini":   tokenizer.O200kBase,
	"o1":            tokenizer.O200kBase,
	"o1-mini":       tokenizer.O200kBase,
	"o3-mini":       tokenizer.O200kBase,
	"gpt-4-turbo":   tokenizer.Cl100kBase,
	"gpt-4":         tokenizer.Cl100kBase,
	"gpt-3.5-turbo": tokenizer.Cl100kBase,
}

// Per-message framing tokens in the chat format.
const (
	messageOverhead = 4
	replyPriming    = 2
)

// Message is one chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Counter counts tokens for one model. It is safe for concurrent use.
type Counter struct {
	codec tokenizer.Codec
}

// NewCounter loads the encoding for model. Unknown models use cl100k_base.
func NewCounter(model string) (*Counter, error) {
	enc, ok := encodingForModel[model]
	if !ok {
		enc = tokenizer.Cl100kBase
	}
	codec, err := tokenizer.Get(enc)
	if err != nil {
		return nil, fmt.Errorf("load encoding %s: %w", enc, err)
	}
	return &Counter{codec: codec}, nil
}

// Count returns the token count of text. A nil Counter estimates from length.
func (c *Counter) Count(text string) int {
	if c == nil || c.codec == nil {
		return Estimate(text)
	}
	ids, _, err := c.codec.Encode(text)
	if err != nil {
		return Estimate(text)
	}
	return len(ids)
}

// CountChat returns the prompt size of a chat request.
func (c *Counter) CountChat(messages []Message) int {
	total := replyPriming
	for _, m := range messages {
		total += messageOverhead + c.Count(m.Role) + c.Count(m.Content)
	}
	return total
}

// Estimate approximates tokens as one per four characters.
func Estimate(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	return (len(text) + 3) / 4
}
