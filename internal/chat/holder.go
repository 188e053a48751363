package chat

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Holder keeps one Conversation per session token. A token change (login,
// logout, forced logout) tears the old conversation down and starts a
// fresh one.
type Holder struct {
	streamer Streamer
	tokens   TokenSource
	history  HistorySource
	opts     Options

	mu    sync.Mutex
	token string
	conv  *Conversation
}

// NewHolder creates a holder. history may be nil to skip seeding.
func NewHolder(streamer Streamer, tokens TokenSource, history HistorySource, opts Options) *Holder {
	return &Holder{streamer: streamer, tokens: tokens, history: history, opts: opts}
}

// Get returns the conversation for the current token, seeding it from the
// stored history the first time an authenticated one is seen. Seeding
// failures are logged and retried on the next call.
func (h *Holder) Get(ctx context.Context) *Conversation {
	token := h.tokens.Token()

	h.mu.Lock()
	var stale *Conversation
	if h.conv == nil || h.token != token {
		stale = h.conv
		h.conv = NewConversation(h.streamer, h.tokens, h.opts)
		h.token = token
	}
	conv := h.conv
	h.mu.Unlock()

	if stale != nil {
		log.Debug().Msg("session changed, starting a new conversation")
		go stale.Close()
	}

	if token != "" && h.history != nil {
		if err := conv.SeedOnce(ctx, h.history); err != nil {
			log.Warn().Err(err).Msg("failed to seed conversation from history")
		}
	}
	return conv
}

// Release tears down the current conversation when the session token no
// longer matches it. The teardown runs in the background since Release may
// be called from inside that conversation's own feed.
func (h *Holder) Release() {
	token := h.tokens.Token()

	h.mu.Lock()
	conv := h.conv
	if conv == nil || h.token == token {
		h.mu.Unlock()
		return
	}
	h.conv = nil
	h.token = ""
	h.mu.Unlock()

	log.Debug().Msg("session changed, closing conversation")
	go conv.Close()
}

// Close tears down the current conversation
func (h *Holder) Close() {
	h.mu.Lock()
	conv := h.conv
	h.conv = nil
	h.token = ""
	h.mu.Unlock()

	if conv != nil {
		conv.Close()
	}
}
