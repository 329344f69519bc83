package llm

import (
	"fmt"
	"net/http"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	defaultOpenRouterTitle   = "biilim"
)

// NewOpenRouterProvider creates a provider for the OpenRouter gateway. It
// speaks the OpenAI wire format, so the OpenAI provider is reused with
// strict schemas off and the app attribution headers set on every call.
// Model IDs are gateway IDs such as "google/gemini-2.5-flash" and are sent
// unchanged.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	title := cfg.AppTitle
	if title == "" {
		title = defaultOpenRouterTitle
	}
	httpClient := &http.Client{Transport: &attributionTransport{
		base:    http.DefaultTransport,
		referer: cfg.AppURL,
		title:   title,
	}}

	client, err := newOpenAIClient(cfg.APIKey, baseURL, httpClient)
	if err != nil {
		return nil, err
	}
	return &OpenAIProvider{client: client, model: cfg.Model}, nil
}

// attributionTransport adds the headers OpenRouter uses to credit calls to
// an app.
type attributionTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.referer != "" {
		req.Header.Set("HTTP-Referer", t.referer)
	}
	req.Header.Set("X-Title", t.title)
	return t.base.RoundTrip(req)
}
