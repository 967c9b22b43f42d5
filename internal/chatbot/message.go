package chatbot

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Message is one entry of a chat conversation as submitted by a client.
type Message struct {
	Role    string  `json:"role"`
	Content Content `json:"content"`
}

// Content is the message payload. Clients send it in several shapes — a plain
// string, a list of parts, or a structured object — which all collapse to
// text. Each shape has an explicit normalization path; unrecognized shapes
// fall back to their compact JSON serialization.
type Content struct {
	Text string
}

func (c Content) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Text)
}

func (c *Content) UnmarshalJSON(data []byte) error {
	c.Text = normalizeContent(data)
	return nil
}

// normalizeContent collapses a raw content value to plain text.
// Variants, in order: string | array of parts | single part.
func normalizeContent(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		parts := make([]string, 0, len(arr))
		for _, p := range arr {
			parts = append(parts, normalizePart(p))
		}
		return strings.Join(parts, " ")
	}

	return normalizePart(raw)
}

// normalizePart collapses one part to text: a string stays as is, an object
// prefers its "text" then "content" string field, everything else serializes.
func normalizePart(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj struct {
		Text    *string `json:"text"`
		Content *string `json:"content"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Text != nil {
			return *obj.Text
		}
		if obj.Content != nil {
			return *obj.Content
		}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err == nil {
		return buf.String()
	}
	return string(raw)
}
