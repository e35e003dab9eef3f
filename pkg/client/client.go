// Package client is a typed HTTP client for the devhub API. Failed calls
// come back as the same sentinel errors the server maps from, so callers
// (including reconcile.Tracker) can use errors.Is on both sides of the wire.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/anonto42/devhub/backend/internal/models"
	"github.com/anonto42/devhub/backend/internal/services"
)

// Client talks to one devhub API server on behalf of one bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a Client. An empty token sends requests as a guest.
func New(baseURL, token string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger.With("adapter", "devhub-client"),
	}
}

// APIError is a failed response. It unwraps to the matching models sentinel.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  []models.FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("devhub: %d %s: %s", e.Status, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Code {
	case "unauthorized":
		return models.ErrUnauthorized
	case "validation_error":
		return models.ErrValidation
	case "already_posted_today":
		return models.ErrAlreadyPostedToday
	case "conflict":
		return models.ErrConflict
	case "not_found":
		return models.ErrNotFound
	case "invalid_operation":
		return models.ErrInvalidOperation
	case "transient_failure":
		return models.ErrTransient
	}
	if e.Status >= http.StatusInternalServerError {
		return models.ErrTransient
	}
	return nil
}

type envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Fields  []models.FieldError `json:"fields"`
}

// Toggle flips an interaction. It satisfies reconcile.Toggler.
func (c *Client) Toggle(ctx context.Context, kind models.InteractionKind, targetID string, observed bool) (models.ToggleResult, error) {
	var out models.ToggleResult
	path := fmt.Sprintf("/api/v1/interactions/%s/%s/toggle", kind, url.PathEscape(targetID))
	err := c.do(ctx, http.MethodPost, path, models.ToggleInteractionRequest{Observed: observed}, &out)
	return out, err
}

// Status reads the caller's state and the target counters.
func (c *Client) Status(ctx context.Context, kind models.InteractionKind, targetID string) (models.ToggleResult, error) {
	var out models.ToggleResult
	path := fmt.Sprintf("/api/v1/interactions/%s/%s", kind, url.PathEscape(targetID))
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// Engagement reads a post's engagement view.
func (c *Client) Engagement(ctx context.Context, postID string) (models.PostEngagement, error) {
	var out models.PostEngagement
	err := c.do(ctx, http.MethodGet, "/api/v1/posts/"+url.PathEscape(postID)+"/engagement", nil, &out)
	return out, err
}

// PostHighlight posts today's highlight.
func (c *Client) PostHighlight(ctx context.Context, content string) (models.DailyHighlight, error) {
	var out models.DailyHighlight
	err := c.do(ctx, http.MethodPost, "/api/v1/highlights", models.CreateHighlightRequest{Content: content}, &out)
	return out, err
}

// Highlights lists today's and yesterday's highlights.
func (c *Client) Highlights(ctx context.Context) ([]models.DailyHighlight, error) {
	var out struct {
		Highlights []models.DailyHighlight `json:"highlights"`
	}
	err := c.do(ctx, http.MethodGet, "/api/v1/highlights", nil, &out)
	return out.Highlights, err
}

// Notifications reads one page of the caller's inbox.
func (c *Client) Notifications(ctx context.Context, page, limit int) ([]services.EnrichedNotification, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	var out struct {
		Notifications []services.EnrichedNotification `json:"notifications"`
	}
	err := c.do(ctx, http.MethodGet, "/api/v1/notifications?"+q.Encode(), nil, &out)
	return out.Notifications, err
}

// MarkRead marks one notification as read.
func (c *Client) MarkRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/api/v1/notifications/"+url.PathEscape(id)+"/read", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("devhub: encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("devhub: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WarnContext(ctx, "devhub request failed", slog.String("path", path), slog.String("error", err.Error()))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("devhub: %s %s: %w", method, path, ctxErr)
		}
		return fmt.Errorf("devhub: %s %s: %w: %w", method, path, models.ErrTransient, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("devhub: read body: %w: %w", models.ErrTransient, err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 400 {
			return fmt.Errorf("devhub: decode json: %w", err)
		}
	}

	if resp.StatusCode >= 400 {
		return &APIError{
			Status:  resp.StatusCode,
			Code:    env.Error,
			Message: env.Message,
			Fields:  env.Fields,
		}
	}

	c.log.DebugContext(ctx, "devhub response", slog.String("path", path), slog.Int("status", resp.StatusCode))
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("devhub: decode data: %w", err)
	}
	return nil
}

// IsRetryable reports whether err is worth retrying later.
func IsRetryable(err error) bool {
	return errors.Is(err, models.ErrTransient)
}
