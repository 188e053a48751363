package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Rrens/campus-console/internal/domain"
)

// MyHistory returns every stored exchange of the current user, newest first
func (c *Client) MyHistory(ctx context.Context) (*domain.ChatHistoryResponse, error) {
	var out domain.ChatHistoryResponse
	if err := c.do(ctx, request{method: http.MethodGet, route: "/history/me", path: "/history/me"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UserHistory returns another user's exchanges. limit <= 0 uses the
// backend default.
func (c *Client) UserHistory(ctx context.Context, userID string, limit int) (*domain.ChatHistoryResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	path := "/history/" + url.PathEscape(userID)
	if limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}

	var out domain.ChatHistoryResponse
	if err := c.do(ctx, request{method: http.MethodGet, route: "/history/{user_id}", path: path}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SessionHistory returns the exchanges of one chat session
func (c *Client) SessionHistory(ctx context.Context, userID, sessionID string) ([]domain.ChatHistoryEntry, error) {
	if userID == "" || sessionID == "" {
		return nil, fmt.Errorf("user id and session id are required")
	}

	path := fmt.Sprintf("/history/%s/session/%s", url.PathEscape(userID), url.PathEscape(sessionID))

	var out []domain.ChatHistoryEntry
	if err := c.do(ctx, request{method: http.MethodGet, route: "/history/{user_id}/session/{session_id}", path: path}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ClearMyHistory deletes every exchange of the current user
func (c *Client) ClearMyHistory(ctx context.Context) (*domain.HistoryDeleteResult, error) {
	var out domain.HistoryDeleteResult
	if err := c.do(ctx, request{method: http.MethodDelete, route: "/history/me", path: "/history/me"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
