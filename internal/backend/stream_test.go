package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/Rrens/campus-console/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sseHandler(t *testing.T, frames ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, f := range frames {
			fmt.Fprint(w, f)
			flusher.Flush()
		}
	}
}

func collect(t *testing.T, events <-chan StreamEvent) []StreamEvent {
	t.Helper()
	var out []StreamEvent
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatal("stream did not close")
			return out
		}
	}
}

func TestStream_FragmentsInOrder(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stream", r.URL.Path)
		assert.Equal(t, "T", r.URL.Query().Get("token"))
		assert.Equal(t, "Bearer T", r.Header.Get("Authorization"))
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))

		var turns []domain.ChatTurn
		assert.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("messages")), &turns))
		assert.Len(t, turns, 2)

		sseHandler(t,
			"data: {\"type\":\"start\"}\n\n",
			"data: {\"content\":\"There\"}\n\n",
			": keep-alive\n\n",
			"data: {\"content\":\" are\"}\n\n",
			"data: {\"content\":\" 12 CS students.\"}\n\n",
			"data: {\"type\":\"complete\"}\n\n",
			"data: {\"content\":\"ignored after complete\"}\n\n",
		)(w, r)
	}))

	turns := []domain.ChatTurn{
		{Role: domain.RoleAssistant, Content: "Hello!"},
		{Role: domain.RoleUser, Content: "List all CS students"},
	}
	events, err := c.Stream(context.Background(), turns, "T")
	require.NoError(t, err)

	got := collect(t, events)
	require.Len(t, got, 5)
	assert.Equal(t, EventStart, got[0].Kind)

	var content strings.Builder
	for _, ev := range got[1:4] {
		assert.Equal(t, EventContent, ev.Kind)
		content.WriteString(ev.Content)
	}
	assert.Equal(t, "There are 12 CS students.", content.String())
	assert.Equal(t, EventComplete, got[4].Kind)
}

func TestStream_SkipsUnparseable(t *testing.T) {
	c, _ := newTestClient(t, sseHandler(t,
		"data: not json\n\n",
		"data:\n\n",
		"data: {\"type\":\"heartbeat\"}\n\n",
		"data: {\"content\":\"ok\"}\n\n",
		"event: close\ndata: \n\n",
	))

	events, err := c.Stream(context.Background(), nil, "")
	require.NoError(t, err)

	got := collect(t, events)
	require.Len(t, got, 2)
	assert.Equal(t, StreamEvent{Kind: EventContent, Content: "ok"}, got[0])
	assert.Equal(t, EventComplete, got[1].Kind)
}

func TestStream_MultiLineData(t *testing.T) {
	c, _ := newTestClient(t, sseHandler(t,
		"data: {\"content\":\n",
		"data: \"split\"}\n\n",
		"data: {\"type\":\"complete\"}\n\n",
	))

	events, err := c.Stream(context.Background(), nil, "")
	require.NoError(t, err)

	got := collect(t, events)
	require.Len(t, got, 2)
	assert.Equal(t, "split", got[0].Content)
}

func TestStream_EndsWithoutCompletion(t *testing.T) {
	c, _ := newTestClient(t, sseHandler(t, "data: {\"content\":\"partial\"}\n\n"))

	events, err := c.Stream(context.Background(), nil, "")
	require.NoError(t, err)

	got := collect(t, events)
	require.Len(t, got, 2)
	assert.Equal(t, EventContent, got[0].Kind)
	assert.Equal(t, EventError, got[1].Kind)
	assert.ErrorIs(t, got[1].Err, ErrStreamEnded)
}

func TestStream_ErrorEvent(t *testing.T) {
	c, _ := newTestClient(t, sseHandler(t, "event: error\ndata: model unavailable\n\n"))

	events, err := c.Stream(context.Background(), nil, "")
	require.NoError(t, err)

	got := collect(t, events)
	require.Len(t, got, 1)
	assert.Equal(t, EventError, got[0].Kind)
	assert.EqualError(t, got[0].Err, "model unavailable")
}

func TestStream_Unauthorized(t *testing.T) {
	c, creds := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid token"})
	}))

	_, err := c.Stream(context.Background(), nil, "T")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, []string{"T"}, creds.expired)
}

func TestStream_CancelClosesChannel(t *testing.T) {
	release := make(chan struct{})
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"content\":\"first\"}\n\n")
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	events, err := c.Stream(ctx, nil, "")
	require.NoError(t, err)

	first := <-events
	assert.Equal(t, "first", first.Content)

	cancel()
	got := collect(t, events)
	assert.Empty(t, got)
}
