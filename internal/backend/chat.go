package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Rrens/campus-console/internal/domain"
)

// Reply asks for a one-shot reply on behalf of the bound session
func (c *Client) Reply(ctx context.Context, turns []domain.ChatTurn) (string, error) {
	var out domain.ChatReply
	req := request{
		method: http.MethodPost,
		route:  "/chat/authenticated",
		path:   "/chat/authenticated",
		body:   domain.ChatRequest{Messages: turns},
	}
	if err := c.do(ctx, req, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

// GuestReply asks for a one-shot reply attributed to userID
func (c *Client) GuestReply(ctx context.Context, userID string, turns []domain.ChatTurn) (string, error) {
	body := domain.GuestChatRequest{Messages: turns, UserID: userID}
	if err := domain.Validate(body); err != nil {
		return "", fmt.Errorf("invalid guest request: %w", err)
	}

	var out domain.ChatReply
	if err := c.do(ctx, request{method: http.MethodPost, route: "/chat", path: "/chat", body: body}, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}
