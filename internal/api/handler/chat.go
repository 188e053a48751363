package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Rrens/campus-console/internal/api/middleware"
	"github.com/Rrens/campus-console/internal/api/response"
	"github.com/Rrens/campus-console/internal/chat"
	"github.com/Rrens/campus-console/internal/domain"
	"github.com/rs/zerolog/log"
)

// keepAliveInterval spaces SSE comments on an idle event stream
const keepAliveInterval = 15 * time.Second

// Replier produces one-shot replies
type Replier interface {
	Reply(ctx context.Context, turns []domain.ChatTurn) (string, error)
	GuestReply(ctx context.Context, userID string, turns []domain.ChatTurn) (string, error)
}

// ChatHandler serves the streaming conversation and one-shot replies
type ChatHandler struct {
	conversations *chat.Holder
	sessions      middleware.SessionSource
	replies       Replier
}

// NewChatHandler creates a new chat handler
func NewChatHandler(conversations *chat.Holder, sessions middleware.SessionSource, replies Replier) *ChatHandler {
	return &ChatHandler{conversations: conversations, sessions: sessions, replies: replies}
}

// Turns returns the current conversation snapshot
func (h *ChatHandler) Turns(w http.ResponseWriter, r *http.Request) {
	conv := h.conversations.Get(r.Context())
	response.OK(w, conv.Snapshot())
}

// Send submits a message. The reply streams in the background; clients
// follow it on the events endpoint.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	conv := h.conversations.Get(r.Context())
	if err := conv.Submit(input.Content); err != nil {
		response.BackendError(w, err)
		return
	}

	response.Accepted(w, conv.Snapshot())
}

// Events streams conversation snapshots as server-sent events. A slow
// client only sees the latest snapshot. The stream ends when its
// conversation is torn down; if that happened because the session was
// cleared, a final logout event carries the login redirect.
func (h *ChatHandler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalError(w, "streaming unsupported")
		return
	}

	conv := h.conversations.Get(r.Context())

	updates := make(chan chat.Snapshot, 1)
	unsubscribe := conv.Observe(func(s chat.Snapshot) {
		// observers run serialized, so drain-then-send cannot race
		select {
		case <-updates:
		default:
		}
		updates <- s
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return

		case snap := <-updates:
			if err := writeSSE(w, "snapshot", snap); err != nil {
				log.Debug().Err(err).Msg("chat event stream closed")
				return
			}
			flusher.Flush()

		case <-conv.Done():
			if h.sessions.Snapshot().Token == "" {
				err := writeSSE(w, "logout", response.Response{
					Success:  false,
					Error:    "session ended",
					Redirect: response.LoginPath,
				})
				if err == nil {
					flusher.Flush()
				}
			}
			return

		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}

// Reply returns a one-shot reply. With user_id set it is a guest reply on
// behalf of that id.
func (h *ChatHandler) Reply(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Messages []domain.ChatTurn `json:"messages"`
		UserID   string            `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if len(input.Messages) == 0 {
		response.BadRequest(w, "messages are required")
		return
	}

	var (
		reply string
		err   error
	)
	if input.UserID != "" {
		reply, err = h.replies.GuestReply(r.Context(), input.UserID, input.Messages)
	} else {
		reply, err = h.replies.Reply(r.Context(), input.Messages)
	}
	if err != nil {
		response.BackendError(w, err)
		return
	}

	response.OK(w, domain.ChatReply{Response: reply})
}
