package webhook

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/biomax/dashboard/internal/config"
)

const (
	EventSourceFailed    = "source_failed"
	EventSourceRecovered = "source_recovered"
)

// Client posts source health events to an operator webhook.
type Client struct {
	httpClient *resty.Client
	url        string
	now        func() time.Time
}

// NewClient builds a webhook client. It returns nil when no URL is configured,
// and a nil *Client drops every event.
func NewClient(cfg config.AlertsConfig) *Client {
	if cfg.WebhookURL == "" {
		return nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &Client{
		httpClient: restyClient,
		url:        cfg.WebhookURL,
		now:        time.Now,
	}
}

// Event is the JSON body posted to the webhook.
type Event struct {
	Event      string    `json:"event"`
	Source     string    `json:"source"`
	Error      string    `json:"error,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (c *Client) SourceFailed(ctx context.Context, source string, err error) error {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return c.post(ctx, Event{Event: EventSourceFailed, Source: source, Error: msg})
}

func (c *Client) SourceRecovered(ctx context.Context, source string) error {
	return c.post(ctx, Event{Event: EventSourceRecovered, Source: source})
}

func (c *Client) post(ctx context.Context, ev Event) error {
	if c == nil {
		return nil
	}
	ev.OccurredAt = c.now().UTC()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(ev).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("post alert webhook: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("alert webhook error: status=%d, body=%s", resp.StatusCode(), resp.String())
	}
	return nil
}
