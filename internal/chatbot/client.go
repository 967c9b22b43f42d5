package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// ProviderOllama marks replies produced by the Ollama server.
	ProviderOllama = "ollama"
	// ProviderLocalFallback marks replies produced locally when Ollama is
	// unreachable or returns an error.
	ProviderLocalFallback = "local-fallback"
)

// Meta describes how a reply was produced. Error is only populated when the
// client runs with debug enabled.
type Meta struct {
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
	Status   int    `json:"status,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Reply is the assistant response returned to the caller.
type Reply struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Meta    Meta   `json:"meta"`
}

// Client proxies chat conversations to an Ollama server. It never surfaces
// an error to its caller: every failure path degrades to a deterministic
// local reply marked with ProviderLocalFallback.
type Client struct {
	baseURL    string
	model      string
	debug      bool
	httpClient *http.Client
}

// NewClient creates a chat client for the Ollama server at baseURL.
func NewClient(baseURL, model string, debug bool) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      model,
		debug:      debug,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

// Chat forwards the conversation to Ollama and returns the assistant reply.
func (c *Client) Chat(ctx context.Context, messages []Message) Reply {
	payload := ollamaRequest{Model: c.model, Stream: false}
	for _, m := range messages {
		payload.Messages = append(payload.Messages, ollamaMessage{Role: m.Role, Content: m.Content.Text})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return c.fallback(messages, 0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return c.fallback(messages, 0, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("ollama request failed", "error", err)
		return c.fallback(messages, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errText, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		slog.Error("ollama returned non-success status",
			"status", resp.StatusCode, "body", string(errText))
		return c.fallback(messages, resp.StatusCode, fmt.Errorf("%s", strings.TrimSpace(string(errText))))
	}

	var out ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		slog.Error("ollama response decode failed", "error", err)
		return c.fallback(messages, resp.StatusCode, err)
	}

	content := out.Message.Content
	if content == "" {
		content = localReply(messages)
	}
	return Reply{
		Role:    "assistant",
		Content: content,
		Meta:    Meta{Provider: ProviderOllama, Model: c.model},
	}
}

func (c *Client) fallback(messages []Message, status int, cause error) Reply {
	meta := Meta{Provider: ProviderLocalFallback, Status: status}
	if c.debug && cause != nil {
		meta.Error = cause.Error()
	}
	return Reply{Role: "assistant", Content: localReply(messages), Meta: meta}
}

// localReply builds the deterministic reply from the last user message.
func localReply(messages []Message) string {
	last := ""
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			last = messages[i].Content.Text
			break
		}
	}

	const prefix = "Assistant (local minimal):"
	if strings.TrimSpace(last) == "" {
		return prefix + " Bonjour ! Comment puis-je vous aider ?"
	}
	return fmt.Sprintf("%s Voici une réponse simple à votre message: %q", prefix, last)
}
