package service

import (
	"context"
	"testing"
	"time"

	"github.com/Rrens/campus-console/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	entries := []domain.ChatHistoryEntry{
		{ID: "1", UserMessage: "How many CS students?", AIResponse: "There are 12."},
		{ID: "2", UserMessage: "Show physics", AIResponse: "Marie Curie"},
	}

	assert.Len(t, Search(entries, ""), 2)
	assert.Len(t, Search(entries, "   "), 2)

	got := Search(entries, "curie")
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)

	got = Search(entries, "cs STUDENTS")
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	assert.Empty(t, Search(entries, "turing"))
}

func TestGroup(t *testing.T) {
	now := time.Date(2024, 6, 20, 15, 0, 0, 0, time.UTC)

	entries := []domain.ChatHistoryEntry{
		{ID: "today", Timestamp: "2024-06-20T09:00:00"},
		{ID: "yesterday", Timestamp: "2024-06-19T23:30:00Z"},
		{ID: "week", Timestamp: "2024-06-16T12:00:00"},
		{ID: "month", Timestamp: "2024-06-01T12:00:00"},
		{ID: "april", Timestamp: "2024-04-10T12:00:00"},
		{ID: "march", Timestamp: "2024-03-02T12:00:00"},
		{ID: "april-2", Timestamp: "2024-04-01T12:00:00"},
		{ID: "bad", Timestamp: "not a date"},
	}

	groups := Group(entries, now)

	labels := make([]string, len(groups))
	for i, g := range groups {
		labels[i] = g.Label
	}
	assert.Equal(t, []string{"Today", "Yesterday", "This Week", "This Month", "April 2024", "March 2024", "Undated"}, labels)

	assert.Equal(t, "today", groups[0].Entries[0].ID)
	require.Len(t, groups[4].Entries, 2)
	assert.Equal(t, "april", groups[4].Entries[0].ID)
	assert.Equal(t, "april-2", groups[4].Entries[1].ID)
	assert.Equal(t, "bad", groups[6].Entries[0].ID)
}

func TestGroup_Empty(t *testing.T) {
	assert.Empty(t, Group(nil, time.Now()))
}

func TestHistoryService_View(t *testing.T) {
	ctx := context.Background()
	api := new(MockHistoryAPI)
	api.On("MyHistory", ctx).Return(&domain.ChatHistoryResponse{
		TotalChats: 2,
		Chats: []domain.ChatHistoryEntry{
			{ID: "1", UserMessage: "hello", Timestamp: "2024-06-20T09:00:00"},
			{ID: "2", UserMessage: "bye", Timestamp: "2024-06-19T09:00:00"},
		},
	}, nil)

	svc := NewHistoryService(api)
	svc.now = func() time.Time { return time.Date(2024, 6, 20, 15, 0, 0, 0, time.UTC) }

	view, err := svc.View(ctx, "hel")
	require.NoError(t, err)
	assert.Equal(t, 2, view.Total)
	assert.Equal(t, 1, view.Matched)
	require.Len(t, view.Groups, 1)
	assert.Equal(t, GroupToday, view.Groups[0].Label)
}

func TestHistoryService_Clear(t *testing.T) {
	ctx := context.Background()
	api := new(MockHistoryAPI)
	api.On("ClearMyHistory", ctx).Return(&domain.HistoryDeleteResult{Message: "ok", DeletedCount: 7}, nil)

	n, err := NewHistoryService(api).Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}
