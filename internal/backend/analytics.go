package backend

import (
	"context"
	"net/http"

	"github.com/Rrens/campus-console/internal/domain"
)

// AnalyticsSummary returns the dashboard aggregates
func (c *Client) AnalyticsSummary(ctx context.Context) (*domain.Analytics, error) {
	var out domain.Analytics
	if err := c.do(ctx, request{method: http.MethodGet, route: "/analytics/", path: "/analytics/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
