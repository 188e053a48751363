package backend

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Rrens/campus-console/internal/domain"
	"github.com/rs/zerolog/log"
)

// EventKind classifies one parsed feed event
type EventKind int

const (
	EventStart EventKind = iota
	EventContent
	EventComplete
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventContent:
		return "content"
	case EventComplete:
		return "complete"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// StreamEvent is one item of a reply feed. Content is set for EventContent,
// Err for EventError.
type StreamEvent struct {
	Kind    EventKind
	Content string
	Err     error
}

// ErrStreamEnded is reported when the feed closes without a completion event
var ErrStreamEnded = errors.New("stream ended without completion")

// maxFrameSize bounds a single SSE line
const maxFrameSize = 1 << 20

type streamPayload struct {
	Content string `json:"content"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Stream opens a reply feed for turns. It returns once the backend accepted
// the connection; events then arrive on the channel in order. The channel is
// closed after EventComplete, after EventError, or when ctx is cancelled.
// There is no overall timeout.
func (c *Client) Stream(ctx context.Context, turns []domain.ChatTurn, token string) (<-chan StreamEvent, error) {
	messages, err := json.Marshal(turns)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal messages: %w", err)
	}

	params := url.Values{}
	params.Set("messages", string(messages))
	if token != "" {
		params.Set("token", token)
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/stream?"+params.Encode(), nil, token)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.stream.Do(req)
	if err != nil {
		requestsTotal.WithLabelValues("/stream", statusLabel(0)).Inc()
		return nil, fmt.Errorf("failed to open stream: %w", err)
	}
	requestsTotal.WithLabelValues("/stream", statusLabel(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, c.failure(ctx, resp, token)
	}

	log.Debug().
		Int("turns", len(turns)).
		Str("request_id", req.Header.Get("X-Request-ID")).
		Msg("stream opened")

	events := make(chan StreamEvent)
	go func() {
		defer close(events)
		defer resp.Body.Close()
		readStream(ctx, resp.Body, events)
	}()
	return events, nil
}

// readStream parses SSE frames from r until a terminal event, EOF or ctx
// cancellation
func readStream(ctx context.Context, r io.Reader, events chan<- StreamEvent) {
	send := func(ev StreamEvent) bool {
		streamEventsTotal.WithLabelValues(ev.Kind.String()).Inc()
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64<<10), maxFrameSize)

	var (
		eventName string
		data      []string
	)

	for scanner.Scan() {
		line := scanner.Text()

		if line != "" {
			field, value, _ := strings.Cut(line, ":")
			value = strings.TrimPrefix(value, " ")
			switch field {
			case "event":
				eventName = value
			case "data":
				data = append(data, value)
			case "", "id", "retry":
				// comments and reconnection hints
			}
			continue
		}

		ev, ok := decodeFrame(eventName, strings.Join(data, "\n"))
		eventName, data = "", nil
		if !ok {
			continue
		}
		if !send(ev) {
			return
		}
		if ev.Kind == EventComplete || ev.Kind == EventError {
			return
		}
	}

	if ctx.Err() != nil {
		return
	}

	err := scanner.Err()
	if err == nil {
		err = ErrStreamEnded
	}
	send(StreamEvent{Kind: EventError, Err: err})
}

// decodeFrame turns one dispatched SSE frame into an event. ok is false
// for frames that carry nothing usable.
func decodeFrame(eventName, data string) (StreamEvent, bool) {
	switch eventName {
	case "close":
		return StreamEvent{Kind: EventComplete}, true
	case "error":
		msg := data
		if msg == "" {
			msg = "stream error"
		}
		return StreamEvent{Kind: EventError, Err: errors.New(msg)}, true
	}

	if strings.TrimSpace(data) == "" {
		return StreamEvent{}, false
	}

	var payload streamPayload
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		streamEventsTotal.WithLabelValues("skipped").Inc()
		log.Warn().Err(err).Str("data", data).Msg("skipping unparseable stream event")
		return StreamEvent{}, false
	}

	switch {
	case payload.Content != "":
		return StreamEvent{Kind: EventContent, Content: payload.Content}, true
	case payload.Type == "complete":
		return StreamEvent{Kind: EventComplete}, true
	case payload.Type == "start":
		return StreamEvent{Kind: EventStart}, true
	case payload.Type == "error":
		msg := payload.Message
		if msg == "" {
			msg = "stream error"
		}
		return StreamEvent{Kind: EventError, Err: errors.New(msg)}, true
	default:
		streamEventsTotal.WithLabelValues("skipped").Inc()
		log.Debug().Str("data", data).Msg("skipping stream event without content")
		return StreamEvent{}, false
	}
}
