package sparql

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rshade/wdresolve/internal/logging"
	"github.com/rshade/wdresolve/internal/records"
)

// Defaults for the Wikidata query service.
const (
	DefaultEndpoint  = "https://query.wikidata.org/sparql"
	DefaultTimeout   = 60 * time.Second
	DefaultUserAgent = "wdresolve/1.0 (https://github.com/rshade/wdresolve)"

	// Result variables selected by BuildQuery.
	VarItem  = "item"
	VarValue = "prop_value"

	acceptHeader = "application/sparql-results+json"

	// maxErrorBody bounds how much of an error response is kept in StatusError.
	maxErrorBody = 512
)

// ResolutionMap maps a canonical identifier token to the Q-code it resolved to.
type ResolutionMap map[string]string

// Doer is the subset of *http.Client used by Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOptions configures a Client. Zero values select the defaults.
type ClientOptions struct {
	Endpoint  string
	UserAgent string
	// Timeout bounds a whole request. Negative disables it.
	Timeout time.Duration
	// HTTPClient overrides the HTTP client; Timeout is ignored when set.
	HTTPClient Doer
}

// Client sends lookup queries to a SPARQL endpoint.
type Client struct {
	endpoint  string
	userAgent string
	hc        Doer
}

// NewClient creates a client for the given options.
func NewClient(opts ClientOptions) (*Client, error) {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid sparql endpoint %q", endpoint)
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		switch {
		case timeout == 0:
			timeout = DefaultTimeout
		case timeout < 0:
			timeout = 0
		}
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{endpoint: endpoint, userAgent: ua, hc: hc}, nil
}

// Endpoint returns the configured endpoint URL.
func (c *Client) Endpoint() string { return c.endpoint }

// response is the subset of the SPARQL 1.1 JSON results format we read.
type response struct {
	Results struct {
		Bindings []map[string]struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"bindings"`
	} `json:"results"`
}

// Resolve executes query and returns the mapping from canonical identifier
// token to Q-code. Non-2xx responses return a *StatusError; transport and
// decoding failures are returned wrapped. Nothing is retried.
func (c *Client) Resolve(ctx context.Context, query string) (ResolutionMap, error) {
	log := logging.FromContext(ctx)

	params := url.Values{}
	params.Set("query", query)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	log.Debug().Ctx(ctx).
		Str("component", "sparql").
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("query completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var decoded response
	if err = json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding sparql response: %w", err)
	}

	return buildResolutionMap(decoded), nil
}

func buildResolutionMap(r response) ResolutionMap {
	m := make(ResolutionMap, len(r.Results.Bindings))
	for _, b := range r.Results.Bindings {
		item, okItem := b[VarItem]
		value, okValue := b[VarValue]
		if !okItem || !okValue || item.Value == "" {
			continue
		}
		m[records.CanonicalToken(value.Value)] = records.ExtractID(item.Value)
	}
	return m
}
