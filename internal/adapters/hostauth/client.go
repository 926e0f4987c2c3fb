// Package hostauth asks an external HTTP endpoint whether a static id may host a room.
package hostauth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dkeye/Multiplayer/internal/domain"
	"github.com/rs/zerolog/log"
)

var (
	ErrDenied        = errors.New("host request denied")
	ErrNotConfigured = errors.New("host authorization endpoint not configured")
)

const (
	HeaderUserID = "user-id"
	HeaderRoom   = "room"
)

// Client performs GET <URL> with the static id and room as headers.
// Any status below 400 approves.
type Client struct {
	URL  string
	HTTP *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		URL:  url,
		HTTP: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Authorize(ctx context.Context, staticID domain.StaticID, room domain.RoomID) error {
	if c.URL == "" {
		return ErrNotConfigured
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return fmt.Errorf("build host request: %w", err)
	}
	req.Header.Set(HeaderUserID, string(staticID))
	req.Header.Set(HeaderRoom, string(room))

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("host request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	log.Debug().Str("module", "hostauth").Str("static_id", string(staticID)).Str("room", string(room)).Int("status", resp.StatusCode).Msg("host check answered")
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: status %d", ErrDenied, resp.StatusCode)
	}
	return nil
}
