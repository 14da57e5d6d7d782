// Package mail dispatches verification emails through the mail microservice.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/telestash/node/internal/config"
	"github.com/telestash/node/internal/domain"
)

// Client posts verification requests to the mail service. Any non-2xx
// response is treated as a dispatch failure.
type Client struct {
	serviceURI string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client from MailConfig.
func NewClient(cfg config.MailConfig, logger *slog.Logger) *Client {
	return &Client{
		serviceURI: cfg.ServiceURI,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "mail"),
	}
}

// NewClientWithURI creates a Client with a custom endpoint (for testing).
func NewClientWithURI(uri string, logger *slog.Logger) *Client {
	return &Client{
		serviceURI: uri,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger.With("adapter", "mail"),
	}
}

// mailParams is the wire payload expected by the mail service.
type mailParams struct {
	ID      string `json:"id"`
	EmailTo string `json:"emailTo"`
}

// Dispatch asks the mail service to send a verification email carrying the
// token. Returns domain.ErrMailDispatch on any non-success status.
func (c *Client) Dispatch(ctx context.Context, token, emailTo string) error {
	body, err := json.Marshal(mailParams{ID: token, EmailTo: emailTo})
	if err != nil {
		return fmt.Errorf("mail: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serviceURI, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("mail: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.ErrorContext(ctx, "mail request failed", slog.String("error", err.Error()))
		return fmt.Errorf("mail: request failed: %w", domain.ErrMailDispatch)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.ErrorContext(ctx, "mail service rejected dispatch",
			slog.Int("status", resp.StatusCode))
		return fmt.Errorf("mail: status %d: %w", resp.StatusCode, domain.ErrMailDispatch)
	}

	c.log.DebugContext(ctx, "mail dispatched")
	return nil
}
