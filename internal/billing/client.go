// Package billing upgrades a freshly registered store to a paid plan.
//
// The JMX billing endpoint never exposes a readable result to this
// tool: the response body is discarded unread and the HTTP status is
// ignored, so "success" only means the request left the machine.
package billing

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client issues plan-upgrade requests against a sandbox's billing node.
type Client struct {
	HTTPClient *http.Client
	Domain     string
	// BaseURL, when set, replaces the https://{sandbox}-billing.{domain}
	// derivation.
	BaseURL string
	AuthKey string
	// Now is overridable for tests; nil means time.Now.
	Now func() time.Time
}

// Upgrade subscribes the owner to the given plan for one year. The
// caller decides whether an upgrade is wanted at all; this method
// always fires exactly one request.
func (c *Client) Upgrade(ctx context.Context, ownerID, sandbox, plan string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.subscribeURL(ownerID, sandbox, plan), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("upgrade request failed: %w", err)
	}
	// Body intentionally not read; see package comment.
	resp.Body.Close()
	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) subscribeURL(ownerID, sandbox, plan string) string {
	base := c.BaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s-billing.%s", sandbox, c.Domain)
	}
	return fmt.Sprintf(
		"%s/jmx/billing:name=BillingMBean/subscribe?ownerId=%s&expires=%s&product=%s&channelId=&reason=sloth&subscriptionPeriod=annual&superuser_auth_key=%s",
		strings.TrimRight(base, "/"), ownerID, c.expires(), plan, c.AuthKey,
	)
}

// expires renders midnight UTC exactly one calendar year ahead, with
// the spaces pre-encoded because the endpoint expects the raw query
// string verbatim. Month and day are kept as-is rather than
// date-normalized.
func (c *Client) expires() string {
	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}
	return fmt.Sprintf("%d.%02d.%02d%%2000:00:00%%20UTC", now.Year()+1, int(now.Month()), now.Day())
}
