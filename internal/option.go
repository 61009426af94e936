package internal

import (
	"io"
	"net/http"

	"github.com/starford/partsdb/internal/credentials"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config     *Config
	creds      *credentials.Credentials
	in         io.Reader
	out        io.Writer
	httpClient *http.Client
	version    string
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithCredentials replaces the credentials otherwise read from the environment.
func WithCredentials(c credentials.Credentials) Option {
	return func(a *application) {
		a.creds = &c
	}
}

// WithInput sets the stream operator input is read from.
func WithInput(r io.Reader) Option {
	return func(a *application) {
		a.in = r
	}
}

// WithOutput sets the stream operator output is written to.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.out = w
	}
}

// WithHTTPClient sets the client used for distributor requests.
func WithHTTPClient(c *http.Client) Option {
	return func(a *application) {
		a.httpClient = c
	}
}

// WithVersion sets the version reported by the MCP server.
func WithVersion(v string) Option {
	return func(a *application) {
		a.version = v
	}
}
