// Package client implements the browser-side half of the notification
// core for Go consumers: an API client for the poll endpoints, a
// reconciler that presents every notification at most once, and a push
// listener that supplements polling over the WebSocket channel.
package client

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"resty.dev/v3"

	"gestion-agents/internal/domain"
)

// Client wraps the notification REST API. All calls carry the bearer
// credential set at construction time.
type Client struct {
	http *resty.Client
}

func New(baseURL, token string) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(token)

	return &Client{http: httpClient}
}

func (c *Client) Close() error {
	return c.http.Close()
}

func (c *Client) List(ctx context.Context) ([]domain.Notification, error) {
	var notifications []domain.Notification
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&notifications).
		Get("/api/v1/notifications")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list notifications: %s", resp.Status())
	}
	return notifications, nil
}

func (c *Client) ListUnread(ctx context.Context) ([]domain.Notification, error) {
	var notifications []domain.Notification
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&notifications).
		Get("/api/v1/notifications/unread")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list unread notifications: %s", resp.Status())
	}
	return notifications, nil
}

func (c *Client) UnreadCount(ctx context.Context) (int64, error) {
	var result struct {
		Count int64 `json:"count"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/api/v1/notifications/unread-count")
	if err != nil {
		return 0, err
	}
	if resp.IsError() {
		return 0, fmt.Errorf("unread count: %s", resp.Status())
	}
	return result.Count, nil
}

func (c *Client) MarkRead(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	var notif domain.Notification
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&notif).
		Patch("/api/v1/notifications/" + id.String() + "/read")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("mark read: %s", resp.Status())
	}
	return &notif, nil
}

func (c *Client) MarkAllRead(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Post("/api/v1/notifications/mark-all-read")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("mark all read: %s", resp.Status())
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, id uuid.UUID) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/api/v1/notifications/" + id.String())
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("delete notification: %s", resp.Status())
	}
	return nil
}

func (c *Client) DeleteAllRead(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/api/v1/notifications/read")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("delete read notifications: %s", resp.Status())
	}
	return nil
}
