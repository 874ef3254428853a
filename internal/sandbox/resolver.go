// Package sandbox derives the target QA sandbox from the operator's
// active browser tab.
package sandbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNoSandbox is returned whenever a sandbox name cannot be derived,
// whether the tab query failed or the URL carries no sandbox marker.
var ErrNoSandbox = errors.New("no sandbox context")

// TabInfo is a single DevTools target as reported by /json/list.
type TabInfo struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// Resolver finds the sandbox the operator is currently working on.
//
// By default it asks a locally running Chrome for its open targets via
// the DevTools HTTP endpoint and takes the first page target, which
// Chrome orders most-recently-focused first. Setting TabURL skips the
// browser query and uses the given URL directly.
type Resolver struct {
	DevToolsURL string
	TabURL      string
	HTTPClient  *http.Client
}

// SandboxName resolves the active tab and extracts the sandbox name
// from its URL. Any failure along the way reports ErrNoSandbox; the
// caller treats that as terminal for the operation.
func (r *Resolver) SandboxName(ctx context.Context) (string, error) {
	raw := r.TabURL
	if raw == "" {
		u, err := r.activeTabURL(ctx)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrNoSandbox, err)
		}
		raw = u
	}
	name, ok := ParseSandboxName(raw)
	if !ok {
		return "", fmt.Errorf("%w: no sandbox marker in %q", ErrNoSandbox, raw)
	}
	return name, nil
}

// ActiveTabURL exposes the resolved tab URL for diagnostics.
func (r *Resolver) ActiveTabURL(ctx context.Context) (string, error) {
	if r.TabURL != "" {
		return r.TabURL, nil
	}
	return r.activeTabURL(ctx)
}

func (r *Resolver) activeTabURL(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(r.DevToolsURL, "/")+"/json/list", nil)
	if err != nil {
		return "", err
	}
	resp, err := r.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("browser not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("devtools endpoint returned %s", resp.Status)
	}

	var tabs []TabInfo
	if err := json.NewDecoder(resp.Body).Decode(&tabs); err != nil {
		return "", fmt.Errorf("invalid devtools response: %w", err)
	}
	for _, tab := range tabs {
		if tab.Type == "page" {
			return tab.URL, nil
		}
	}
	return "", errors.New("no active tab found")
}

func (r *Resolver) httpClient() *http.Client {
	if r.HTTPClient != nil {
		return r.HTTPClient
	}
	return http.DefaultClient
}

// ParseSandboxName extracts the sandbox name from a tab URL: the text
// between the first literal "my" after the https:// prefix and the next
// dot. The match is case-sensitive and scans the whole remainder of the
// URL, host and path alike.
func ParseSandboxName(rawURL string) (string, bool) {
	parts := strings.SplitN(rawURL, "https://", 2)
	if len(parts) < 2 {
		return "", false
	}
	rest := parts[1]
	i := strings.Index(rest, "my")
	if i < 0 {
		return "", false
	}
	dot := strings.Index(rest[i:], ".")
	if dot < 0 {
		return "", false
	}
	name := rest[i+2 : i+dot]
	if name == "" {
		return "", false
	}
	return name, true
}
