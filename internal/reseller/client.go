// Package reseller creates test storefronts through the sandbox
// reseller API.
package reseller

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

const (
	// FreePlan is the tier every store is registered on. Paid tiers
	// are applied afterwards through the billing endpoint.
	FreePlan = "ECWID_SKINNY_FREE"

	// DefaultCountry and DefaultCurrency are the domestic defaults; any
	// other selection ships a patched store template with the upload.
	DefaultCountry  = "USA"
	DefaultCurrency = "USD"

	registerPath = "/resellerapi/v1/register?register=y"
)

// ErrTemplate reports that the bundled store template could not be
// prepared for upload.
var ErrTemplate = errors.New("store template not usable")

//go:embed template.xml
var storeTemplate string

// Client talks to a sandbox's reseller API.
type Client struct {
	HTTPClient *http.Client
	// Domain is the QA domain the sandbox hostnames live under.
	Domain string
	// BaseURL, when set, replaces the https://my{sandbox}.{domain}
	// derivation entirely.
	BaseURL string
	Key     string
	Name    string
}

type RegisterRequest struct {
	Sandbox  string
	Email    string
	Password string
	Country  string
	Currency string
}

// RegisterResult is the reported outcome of a registration attempt.
// OK is true only when the API returned an owner id; Message is always
// ready for the result sink.
type RegisterResult struct {
	OK      bool
	OwnerID string
	Message string
}

// Register submits the store-creation request. Transport-level
// failures surface as errors; every HTTP response, including failures,
// is turned into a RegisterResult.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	body, contentType, err := c.buildForm(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.registerURL(req.Sandbox), body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient().Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("registration request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading registration response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		h1, center := scrape404(data)
		return &RegisterResult{Message: h1 + " - " + center}, nil
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		msg, ok := xmlElementText(data, "message")
		if !ok {
			msg = "Unknown error"
		}
		return &RegisterResult{Message: "Registration failed: " + msg}, nil
	default:
		ownerID, ok := xmlElementText(data, "ownerid")
		if !ok || ownerID == "" {
			return &RegisterResult{Message: "Registration failed: Owner ID not found."}, nil
		}
		return &RegisterResult{
			OK:      true,
			OwnerID: ownerID,
			Message: "Store registered successfully! Owner ID: " + ownerID,
		}, nil
	}
}

func (c *Client) buildForm(req RegisterRequest) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	fields := []struct{ name, value string }{
		{"email", req.Email},
		{"password", req.Password},
		{"name", c.Name},
		{"key", c.Key},
		{"plan", FreePlan},
	}
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	if req.Country != DefaultCountry || req.Currency != DefaultCurrency {
		tpl, err := renderTemplate(req.Country, req.Currency)
		if err != nil {
			return nil, "", err
		}
		fw, err := mw.CreateFormFile("template", "template.xml")
		if err != nil {
			return nil, "", err
		}
		if _, err := fw.Write(tpl); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return body, mw.FormDataContentType(), nil
}

// renderTemplate fills the two empty elements of the bundled template.
// Only the first occurrence of each is replaced, by plain text
// substitution as the reseller API expects the template otherwise
// byte-identical.
func renderTemplate(country, currency string) ([]byte, error) {
	const (
		countryHole  = "<countryCode></countryCode>"
		currencyHole = "<currency></currency>"
	)
	if !strings.Contains(storeTemplate, countryHole) || !strings.Contains(storeTemplate, currencyHole) {
		return nil, fmt.Errorf("%w: placeholder elements missing", ErrTemplate)
	}
	out := strings.Replace(storeTemplate, countryHole, "<countryCode>"+country+"</countryCode>", 1)
	out = strings.Replace(out, currencyHole, "<currency>"+currency+"</currency>", 1)
	return []byte(out), nil
}

func (c *Client) registerURL(sandbox string) string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/") + registerPath
	}
	return fmt.Sprintf("https://my%s.%s%s", sandbox, c.Domain, registerPath)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}
