package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Rrens/campus-console/internal/backend"
	"github.com/Rrens/campus-console/internal/domain"
	"github.com/rs/zerolog/log"
)

var (
	// ErrInFlight is returned by Submit while a reply is being fetched. The
	// conversation is left untouched.
	ErrInFlight = errors.New("a reply is already in progress")

	// ErrEmptyInput is returned for blank input
	ErrEmptyInput = errors.New("message is empty")

	// ErrInputTooLong is returned when input exceeds the configured limit
	ErrInputTooLong = errors.New("message is too long")

	// ErrClosed is returned after Close
	ErrClosed = errors.New("conversation is closed")
)

// FailureNotice is published when a feed fails before any content arrived
const FailureNotice = "Failed to get AI response. Please try again."

// DefaultWelcome is the first assistant turn of every conversation
const DefaultWelcome = "Hello! I'm your AI Campus Administration Assistant. I can help you with student management, analytics insights, administrative tasks, and answer questions about your campus data. How can I assist you today?"

// DefaultMaxInputLength caps a single message, in characters
const DefaultMaxInputLength = 2000

// State is the reply lifecycle of a conversation
type State int

const (
	StateIdle State = iota
	StateSending
	StateStreaming
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateStreaming:
		return "streaming"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Streamer opens reply feeds
type Streamer interface {
	Stream(ctx context.Context, turns []domain.ChatTurn, token string) (<-chan backend.StreamEvent, error)
}

// TokenSource yields the bearer token to stream with, or ""
type TokenSource interface {
	Token() string
}

// HistorySource returns the current user's stored exchanges, newest first
type HistorySource interface {
	MyHistory(ctx context.Context) (*domain.ChatHistoryResponse, error)
}

// Snapshot is an immutable view of the conversation. Every mutation
// publishes a new one with its own Turns slice.
type Snapshot struct {
	Turns  []domain.ChatTurn `json:"turns"`
	State  State             `json:"state"`
	Notice string            `json:"notice,omitempty"`
}

// Options tunes a conversation. Zero values select the defaults.
type Options struct {
	WelcomeMessage string
	MaxInputLength int
	Now            func() time.Time
}

// Conversation owns an ordered list of chat turns and merges streamed reply
// fragments into it. At most one feed is open at a time.
type Conversation struct {
	streamer Streamer
	tokens   TokenSource
	opts     Options

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	turns     []domain.ChatTurn
	state     State
	notice    string
	seeded    bool
	closed    bool
	done      chan struct{}
	observers map[int]func(Snapshot)
	nextObs   int
}

// NewConversation creates a conversation holding only the welcome turn.
// tokens may be nil for anonymous feeds.
func NewConversation(streamer Streamer, tokens TokenSource, opts Options) *Conversation {
	if opts.WelcomeMessage == "" {
		opts.WelcomeMessage = DefaultWelcome
	}
	if opts.MaxInputLength <= 0 {
		opts.MaxInputLength = DefaultMaxInputLength
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Conversation{
		streamer:  streamer,
		tokens:    tokens,
		opts:      opts,
		ctx:       ctx,
		cancel:    cancel,
		turns:     []domain.ChatTurn{welcomeTurn(opts)},
		observers: make(map[int]func(Snapshot)),
	}
}

func welcomeTurn(opts Options) domain.ChatTurn {
	return domain.ChatTurn{
		Role:      domain.RoleAssistant,
		Content:   opts.WelcomeMessage,
		Timestamp: opts.Now().UTC().Format(time.RFC3339Nano),
	}
}

// Snapshot returns the current view
func (c *Conversation) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Turns returns a copy of the turn list
func (c *Conversation) Turns() []domain.ChatTurn {
	return c.Snapshot().Turns
}

// State returns the reply lifecycle state
func (c *Conversation) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Observe registers fn to receive every published snapshot, starting with
// the current one. fn runs under the conversation lock: it must not block
// or call back into the conversation. The returned func unregisters it.
func (c *Conversation) Observe(fn func(Snapshot)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	fn(c.snapshotLocked())

	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

// Submit appends input as a user turn and opens a reply feed with the full
// turn history. It returns once the feed is scheduled; use Wait to block
// until the reply settles.
func (c *Conversation) Submit(input string) error {
	text := strings.TrimSpace(input)
	if text == "" {
		submitsTotal.WithLabelValues("empty").Inc()
		return ErrEmptyInput
	}
	if utf8.RuneCountInString(text) > c.opts.MaxInputLength {
		submitsTotal.WithLabelValues("too_long").Inc()
		return ErrInputTooLong
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state != StateIdle {
		c.mu.Unlock()
		submitsTotal.WithLabelValues("in_flight").Inc()
		return ErrInFlight
	}

	c.turns = append(c.turns, domain.ChatTurn{
		Role:      domain.RoleUser,
		Content:   text,
		Timestamp: c.opts.Now().UTC().Format(time.RFC3339Nano),
	})
	c.state = StateSending
	c.notice = ""
	history := append([]domain.ChatTurn(nil), c.turns...)
	done := make(chan struct{})
	c.done = done
	c.publishLocked()
	c.mu.Unlock()

	submitsTotal.WithLabelValues("accepted").Inc()

	var token string
	if c.tokens != nil {
		token = c.tokens.Token()
	}

	go c.run(history, token, done)
	return nil
}

// run drives one feed from connection to a terminal event
func (c *Conversation) run(history []domain.ChatTurn, token string, done chan struct{}) {
	defer close(done)

	events, err := c.streamer.Stream(c.ctx, history, token)
	if err != nil {
		c.mu.Lock()
		c.state = StateIdle
		if c.ctx.Err() == nil {
			c.notice = FailureNotice
			log.Error().Err(err).Msg("failed to open reply stream")
			feedsTotal.WithLabelValues("open_failed").Inc()
		} else {
			feedsTotal.WithLabelValues("cancelled").Inc()
		}
		c.publishLocked()
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	c.turns = append(c.turns, domain.ChatTurn{
		Role:      domain.RoleAssistant,
		Timestamp: c.opts.Now().UTC().Format(time.RFC3339Nano),
	})
	c.state = StateStreaming
	c.publishLocked()
	c.mu.Unlock()

	for ev := range events {
		switch ev.Kind {
		case backend.EventStart:
			log.Debug().Msg("reply stream started")

		case backend.EventContent:
			c.appendFragment(ev.Content)

		case backend.EventComplete:
			c.finish(nil)
			return

		case backend.EventError:
			c.finish(ev.Err)
			return
		}
	}

	// closed without a terminal event: torn down
	c.mu.Lock()
	c.state = StateIdle
	c.publishLocked()
	c.mu.Unlock()
	feedsTotal.WithLabelValues("cancelled").Inc()
}

// appendFragment replaces the last turn with one carrying the extra text
func (c *Conversation) appendFragment(fragment string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.turns)
	if n == 0 || c.state != StateStreaming {
		return
	}

	last := c.turns[n-1]
	last.Content += fragment

	next := make([]domain.ChatTurn, n)
	copy(next, c.turns[:n-1])
	next[n-1] = last
	c.turns = next

	fragmentsTotal.Inc()
	c.publishLocked()
}

// finish settles the feed. An error with an empty placeholder rolls the
// placeholder back and publishes FailureNotice; partial content is kept.
func (c *Conversation) finish(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = StateIdle

	if err == nil {
		feedsTotal.WithLabelValues("completed").Inc()
		c.publishLocked()
		return
	}

	n := len(c.turns)
	if n > 0 && c.turns[n-1].Role == domain.RoleAssistant && c.turns[n-1].Content == "" {
		c.turns = append([]domain.ChatTurn(nil), c.turns[:n-1]...)
		c.notice = FailureNotice
		feedsTotal.WithLabelValues("rolled_back").Inc()
		log.Warn().Err(err).Msg("reply stream failed before any content")
	} else {
		feedsTotal.WithLabelValues("partial").Inc()
		log.Warn().Err(err).Msg("reply stream failed, keeping partial reply")
	}
	c.publishLocked()
}

// Wait blocks until the current feed, if any, has settled
func (c *Conversation) Wait(ctx context.Context) error {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close tears the conversation down, closing any open feed
func (c *Conversation) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	done := c.done
	c.mu.Unlock()

	c.cancel()
	if done != nil {
		<-done
	}
}

// Done is closed once Close has been called
func (c *Conversation) Done() <-chan struct{} {
	return c.ctx.Done()
}

// SeedOnce replaces the leading welcome turn with
// [welcome] + the stored history oldest first, each exchange as a user turn
// followed by an assistant turn. Turns added since construction are kept
// after the seeded ones. Only the first successful call has any effect.
func (c *Conversation) SeedOnce(ctx context.Context, source HistorySource) error {
	c.mu.Lock()
	seeded := c.seeded
	c.mu.Unlock()
	if seeded {
		return nil
	}

	hist, err := source.MyHistory(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.seeded {
		return nil
	}
	if c.state != StateIdle {
		return ErrInFlight
	}

	seededTurns := make([]domain.ChatTurn, 0, 1+2*len(hist.Chats)+len(c.turns)-1)
	seededTurns = append(seededTurns, c.turns[0])
	seededTurns = append(seededTurns, FlattenHistory(hist.Chats)...)
	seededTurns = append(seededTurns, c.turns[1:]...)

	c.turns = seededTurns
	c.seeded = true
	c.publishLocked()

	log.Debug().Int("exchanges", len(hist.Chats)).Msg("conversation seeded from history")
	return nil
}

// FlattenHistory reverses newest-first entries and expands each into a
// user turn and an assistant turn
func FlattenHistory(entries []domain.ChatHistoryEntry) []domain.ChatTurn {
	turns := make([]domain.ChatTurn, 0, 2*len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		turns = append(turns,
			domain.ChatTurn{Role: domain.RoleUser, Content: e.UserMessage, Timestamp: e.Timestamp},
			domain.ChatTurn{Role: domain.RoleAssistant, Content: e.AIResponse, Timestamp: e.Timestamp},
		)
	}
	return turns
}

func (c *Conversation) snapshotLocked() Snapshot {
	return Snapshot{
		Turns:  append([]domain.ChatTurn(nil), c.turns...),
		State:  c.state,
		Notice: c.notice,
	}
}

func (c *Conversation) publishLocked() {
	if len(c.observers) == 0 {
		return
	}
	snap := c.snapshotLocked()
	for _, fn := range c.observers {
		fn(snap)
	}
}
