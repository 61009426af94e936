// Package provider defines the distributor search and parse capabilities and
// routes a provider name to its implementation.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/starford/partsdb/internal/apperr"
	"github.com/starford/partsdb/internal/credentials"
	"github.com/starford/partsdb/internal/models"
	"github.com/starford/partsdb/internal/provider/mouser"
)

// DefaultName is the provider used when none is requested.
const DefaultName = "mouser"

// Searcher issues a distributor search and returns the raw JSON response.
type Searcher interface {
	Search(ctx context.Context, query string, exact bool) (json.RawMessage, error)
}

// Parser maps a raw search response to parts, in response order.
type Parser interface {
	Parse(raw json.RawMessage) ([]*models.Part, error)
}

// Settings carries the non-credential knobs a provider may use.
// Zero values select the provider's defaults.
type Settings struct {
	Endpoint   string
	HTTPClient *http.Client
}

// Factory builds both capabilities of one provider.
type Factory struct {
	NewSearcher func(creds credentials.Credentials, s Settings) (Searcher, error)
	NewParser   func(creds credentials.Credentials) (Parser, error)
}

var registry = map[string]Factory{
	"mouser": {
		NewSearcher: func(creds credentials.Credentials, s Settings) (Searcher, error) {
			var opts []mouser.Option
			if s.Endpoint != "" {
				opts = append(opts, mouser.WithEndpoint(s.Endpoint))
			}
			if s.HTTPClient != nil {
				opts = append(opts, mouser.WithHTTPClient(s.HTTPClient))
			}
			return mouser.NewSearcher(creds, opts...)
		},
		NewParser: func(creds credentials.Credentials) (Parser, error) {
			return mouser.NewParser(creds)
		},
	},
}

func lookup(name string) (Factory, error) {
	f, ok := registry[strings.ToLower(name)]
	if !ok {
		return Factory{}, fmt.Errorf("provider: %w %s", apperr.ErrUnsupportedProvider, name)
	}
	return f, nil
}

// NewSearcher returns the Searcher registered under name (case-insensitive).
func NewSearcher(name string, creds credentials.Credentials, s Settings) (Searcher, error) {
	f, err := lookup(name)
	if err != nil {
		return nil, err
	}
	return f.NewSearcher(creds, s)
}

// NewParser returns the Parser registered under name (case-insensitive).
func NewParser(name string, creds credentials.Credentials) (Parser, error) {
	f, err := lookup(name)
	if err != nil {
		return nil, err
	}
	return f.NewParser(creds)
}

// Names lists the registered provider names.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
