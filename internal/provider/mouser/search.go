// Package mouser implements part search and result parsing against the
// Mouser keyword search API.
package mouser

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

	"github.com/starford/partsdb/internal/apperr"
	"github.com/starford/partsdb/internal/credentials"
)

const (
	// DefaultEndpoint is the Mouser keyword search endpoint.
	DefaultEndpoint = "https://api.mouser.com/api/v1/search/keyword"

	// PageSize is the number of records requested per search.
	PageSize = 25

	maxBodySize = 10 * 1024 * 1024
)

type keywordRequest struct {
	SearchByKeywordRequest keywordQuery `json:"SearchByKeywordRequest"`
}

type keywordQuery struct {
	Keyword        string `json:"keyword"`
	Records        int    `json:"records"`
	StartingRecord int    `json:"startingRecord"`
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithEndpoint overrides the keyword search URL.
func WithEndpoint(endpoint string) Option {
	return func(s *Searcher) {
		s.endpoint = endpoint
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Searcher) {
		s.client = c
	}
}

// Searcher queries the Mouser keyword search endpoint.
type Searcher struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewSearcher creates a Searcher. It fails when creds carry no Mouser key.
func NewSearcher(creds credentials.Credentials, opts ...Option) (*Searcher, error) {
	key, err := creds.MouserAPIKey()
	if err != nil {
		return nil, err
	}
	s := &Searcher{
		apiKey:   key,
		endpoint: DefaultEndpoint,
		client:   &http.Client{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Search posts one keyword query for the first page of results and returns
// the raw response body. The exact flag is accepted but the keyword endpoint
// has no exact mode, so it is not sent.
func (s *Searcher) Search(ctx context.Context, query string, exact bool) (json.RawMessage, error) {
	if exact {
		slog.Debug("mouser: exact match is not forwarded to keyword search", slog.String("query", query))
	}

	u, err := url.Parse(s.endpoint)
	if err != nil {
		return nil, fmt.Errorf("mouser: parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("apiKey", s.apiKey)
	u.RawQuery = q.Encode()

	body, err := json.Marshal(keywordRequest{
		SearchByKeywordRequest: keywordQuery{
			Keyword:        query,
			Records:        PageSize,
			StartingRecord: 0,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("mouser: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("mouser: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mouser: search %q: %w", query, redact(err, s.apiKey))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("mouser: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("mouser: search %q: unexpected status %s: %s", query, resp.Status, snippet(data))
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("mouser: search %q: response is not JSON: %w", query, apperr.ErrMalformedResponse)
	}

	slog.Debug("mouser: search done", slog.String("query", query), slog.Int("bytes", len(data)))
	return json.RawMessage(data), nil
}

// redact keeps the API key out of transport errors, which embed the request URL.
func redact(err error, key string) error {
	var ue *url.Error
	if key == "" || !errors.As(err, &ue) {
		return err
	}
	return &url.Error{Op: ue.Op, URL: stripQuery(ue.URL), Err: ue.Err}
}

func stripQuery(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<redacted>"
	}
	u.RawQuery = ""
	return u.String()
}

func snippet(data []byte) string {
	const max = 200
	if len(data) > max {
		return string(data[:max]) + "..."
	}
	return string(data)
}
