package reseller

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Domain:  "ecwid.qa",
		Key:     "ecwid___key",
		Name:    "Tester",
	}
}

func defaultRequest() RegisterRequest {
	return RegisterRequest{
		Sandbox:  "demo1",
		Email:    "a@example.com",
		Password: "12345678",
		Country:  DefaultCountry,
		Currency: DefaultCurrency,
	}
}

func TestRegister_SendsFixedMultipartFields(t *testing.T) {
	var form *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		form = r
		_, _ = w.Write([]byte(`<response><ownerid>42</ownerid></response>`))
	}))
	defer ts.Close()

	res, err := newTestClient(ts.URL).Register(context.Background(), defaultRequest())
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, "42", res.OwnerID)
	assert.Equal(t, "Store registered successfully! Owner ID: 42", res.Message)

	require.NotNil(t, form)
	assert.Equal(t, http.MethodPost, form.Method)
	assert.Equal(t, "/resellerapi/v1/register", form.URL.Path)
	assert.Equal(t, "y", form.URL.Query().Get("register"))
	assert.Equal(t, "a@example.com", form.FormValue("email"))
	assert.Equal(t, "12345678", form.FormValue("password"))
	assert.Equal(t, "Tester", form.FormValue("name"))
	assert.Equal(t, "ecwid___key", form.FormValue("key"))
	// The plan dropdown is not part of registration; the free tier
	// always goes out here.
	assert.Equal(t, FreePlan, form.FormValue("plan"))
}

func TestRegister_DomesticDefaultsSkipTemplate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		assert.Empty(t, r.MultipartForm.File["template"])
		_, _ = w.Write([]byte(`<response><ownerid>42</ownerid></response>`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).Register(context.Background(), defaultRequest())
	require.NoError(t, err)
}

func TestRegister_ForeignLocaleAttachesPatchedTemplate(t *testing.T) {
	var templateBody string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		files := r.MultipartForm.File["template"]
		require.Len(t, files, 1)
		assert.Equal(t, "template.xml", files[0].Filename)
		f, err := files[0].Open()
		require.NoError(t, err)
		defer f.Close()
		buf, err := io.ReadAll(f)
		require.NoError(t, err)
		templateBody = string(buf)
		_, _ = w.Write([]byte(`<response><ownerid>7</ownerid></response>`))
	}))
	defer ts.Close()

	req := defaultRequest()
	req.Country = "DEU"
	req.Currency = "EUR"
	_, err := newTestClient(ts.URL).Register(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(templateBody, "<countryCode>DEU</countryCode>"))
	assert.Equal(t, 1, strings.Count(templateBody, "<currency>EUR</currency>"))
	assert.NotContains(t, templateBody, "<countryCode></countryCode>")
	assert.NotContains(t, templateBody, "<currency></currency>")
}

func TestRegister_TemplateAttachedWhenOnlyCurrencyDiffers(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		assert.Len(t, r.MultipartForm.File["template"], 1)
		_, _ = w.Write([]byte(`<response><ownerid>7</ownerid></response>`))
	}))
	defer ts.Close()

	req := defaultRequest()
	req.Currency = "EUR"
	_, err := newTestClient(ts.URL).Register(context.Background(), req)
	require.NoError(t, err)
}

func TestRegister_404ScrapesNginxPage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`<html><h1>Not Found</h1><center>nginx/1.18</center></html>`))
	}))
	defer ts.Close()

	res, err := newTestClient(ts.URL).Register(context.Background(), defaultRequest())
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, "Not Found - nginx/1.18", res.Message)
}

func TestRegister_404FallbacksWhenPageEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	res, err := newTestClient(ts.URL).Register(context.Background(), defaultRequest())
	require.NoError(t, err)
	assert.Equal(t, "404 Not Found - nginx", res.Message)
}

func TestRegister_ErrorResponseUsesMessageElement(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`<response><message>Email already registered</message></response>`))
	}))
	defer ts.Close()

	res, err := newTestClient(ts.URL).Register(context.Background(), defaultRequest())
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, "Registration failed: Email already registered", res.Message)
}

func TestRegister_ErrorResponseWithoutMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`garbage`))
	}))
	defer ts.Close()

	res, err := newTestClient(ts.URL).Register(context.Background(), defaultRequest())
	require.NoError(t, err)
	assert.Equal(t, "Registration failed: Unknown error", res.Message)
}

func TestRegister_SuccessWithoutOwnerID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<response><status>ok</status></response>`))
	}))
	defer ts.Close()

	res, err := newTestClient(ts.URL).Register(context.Background(), defaultRequest())
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, "Registration failed: Owner ID not found.", res.Message)
}

func TestRegister_TransportErrorSurfacesAsError(t *testing.T) {
	_, err := newTestClient("http://127.0.0.1:1").Register(context.Background(), defaultRequest())
	assert.Error(t, err)
}

func TestRegisterURL_DerivedFromSandboxAndDomain(t *testing.T) {
	c := newTestClient("")
	assert.Equal(t,
		"https://mydemo1.ecwid.qa/resellerapi/v1/register?register=y",
		c.registerURL("demo1"))
}

func TestRenderTemplate_ReplacesFirstOccurrenceOnly(t *testing.T) {
	out, err := renderTemplate("FRA", "EUR")
	require.NoError(t, err)
	s := string(out)
	assert.Equal(t, 1, strings.Count(s, "<countryCode>FRA</countryCode>"))
	assert.Equal(t, 1, strings.Count(s, "<currency>EUR</currency>"))
}
