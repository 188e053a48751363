package service

import (
	"context"
	"strings"
	"time"

	"github.com/Rrens/campus-console/internal/domain"
	"github.com/rs/zerolog/log"
)

// Fixed group labels, in display order. Older entries fall into one
// "January 2006" group per calendar month after these.
const (
	GroupToday     = "Today"
	GroupYesterday = "Yesterday"
	GroupThisWeek  = "This Week"
	GroupThisMonth = "This Month"
	GroupUndated   = "Undated"
)

// HistoryAPI is the backend surface for stored exchanges
type HistoryAPI interface {
	MyHistory(ctx context.Context) (*domain.ChatHistoryResponse, error)
	SessionHistory(ctx context.Context, userID, sessionID string) ([]domain.ChatHistoryEntry, error)
	ClearMyHistory(ctx context.Context) (*domain.HistoryDeleteResult, error)
}

// HistoryGroup is one dated bucket of exchanges
type HistoryGroup struct {
	Label   string                    `json:"label"`
	Entries []domain.ChatHistoryEntry `json:"entries"`
}

// HistoryView is a searched, grouped history listing
type HistoryView struct {
	Total   int            `json:"total"`
	Matched int            `json:"matched"`
	Groups  []HistoryGroup `json:"groups"`
}

// HistoryService handles the chat history view
type HistoryService struct {
	api HistoryAPI
	now func() time.Time
}

// NewHistoryService creates a new history service
func NewHistoryService(api HistoryAPI) *HistoryService {
	return &HistoryService{api: api, now: time.Now}
}

// View fetches the current user's history, filters by query and groups
// the result by date
func (s *HistoryService) View(ctx context.Context, query string) (*HistoryView, error) {
	resp, err := s.api.MyHistory(ctx)
	if err != nil {
		return nil, err
	}

	matched := Search(resp.Chats, query)
	return &HistoryView{
		Total:   len(resp.Chats),
		Matched: len(matched),
		Groups:  Group(matched, s.now()),
	}, nil
}

// Session fetches one session's exchanges for userID
func (s *HistoryService) Session(ctx context.Context, userID, sessionID string) ([]domain.ChatHistoryEntry, error) {
	return s.api.SessionHistory(ctx, userID, sessionID)
}

// Clear deletes all of the current user's history and returns the count
func (s *HistoryService) Clear(ctx context.Context) (int, error) {
	res, err := s.api.ClearMyHistory(ctx)
	if err != nil {
		return 0, err
	}
	log.Info().Int("deleted", res.DeletedCount).Msg("chat history cleared")
	return res.DeletedCount, nil
}

// Search keeps entries whose message or reply contains query, ignoring
// case. A blank query keeps everything.
func Search(entries []domain.ChatHistoryEntry, query string) []domain.ChatHistoryEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return entries
	}

	out := make([]domain.ChatHistoryEntry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.UserMessage), q) ||
			strings.Contains(strings.ToLower(e.AIResponse), q) {
			out = append(out, e)
		}
	}
	return out
}

// Group buckets entries relative to now. Entry order is kept inside each
// group; empty groups are omitted.
func Group(entries []domain.ChatHistoryEntry, now time.Time) []HistoryGroup {
	loc := now.Location()
	today := dateOf(now)
	yesterday := today.AddDate(0, 0, -1)
	weekAgo := now.Add(-7 * 24 * time.Hour)
	monthAgo := now.Add(-30 * 24 * time.Hour)

	buckets := make(map[string][]domain.ChatHistoryEntry)
	var monthly []string

	for _, e := range entries {
		label := GroupUndated
		if ts, ok := domain.ParseTimestamp(e.Timestamp); ok {
			ts = ts.In(loc)
			day := dateOf(ts)
			switch {
			case day.Equal(today):
				label = GroupToday
			case day.Equal(yesterday):
				label = GroupYesterday
			case ts.After(weekAgo):
				label = GroupThisWeek
			case ts.After(monthAgo):
				label = GroupThisMonth
			default:
				label = ts.Format("January 2006")
				if _, seen := buckets[label]; !seen {
					monthly = append(monthly, label)
				}
			}
		}
		buckets[label] = append(buckets[label], e)
	}

	order := append([]string{GroupToday, GroupYesterday, GroupThisWeek, GroupThisMonth}, monthly...)
	order = append(order, GroupUndated)

	groups := make([]HistoryGroup, 0, len(buckets))
	for _, label := range order {
		if es, ok := buckets[label]; ok {
			groups = append(groups, HistoryGroup{Label: label, Entries: es})
		}
	}
	return groups
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
