package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/contacthub/backend/internal/chatbot"
)

// ChatClient is the chat-proxy interface consumed by ChatHandler.
type ChatClient interface {
	Chat(ctx context.Context, messages []chatbot.Message) chatbot.Reply
}

// ChatHandler handles POST /api/chat.
type ChatHandler struct {
	client ChatClient
}

// NewChatHandler creates a ChatHandler with the given chat client.
func NewChatHandler(client ChatClient) *ChatHandler {
	return &ChatHandler{client: client}
}

// chatRequest accepts either a full conversation or a bare prompt. Messages is
// a pointer so a supplied-but-empty array is distinguishable from an absent
// one; the prompt only stands in when messages is absent.
type chatRequest struct {
	Messages *[]chatbot.Message `json:"messages"`
	Prompt   string             `json:"prompt"`
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	var messages []chatbot.Message
	switch {
	case req.Messages != nil:
		messages = *req.Messages
	case req.Prompt != "":
		messages = []chatbot.Message{{Role: "user", Content: chatbot.Content{Text: req.Prompt}}}
	}
	if len(messages) == 0 {
		writeError(w, http.StatusBadRequest, "Provide messages[] or prompt")
		return
	}

	writeJSON(w, http.StatusOK, h.client.Chat(r.Context(), messages))
}
