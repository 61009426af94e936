// Package credentials resolves distributor API credentials.
package credentials

import (
	"fmt"
	"os"

	"github.com/starford/partsdb/internal/apperr"
)

// MouserAPIKeyEnv is the environment variable holding the Mouser API key.
const MouserAPIKeyEnv = "MOUSER_API_KEY"

// Credentials carries the API keys of every supported provider. The zero
// value holds no keys.
type Credentials struct {
	mouserAPIKey string
	hasMouser    bool
}

// New returns Credentials with an explicit Mouser key.
func New(mouserAPIKey string) Credentials {
	return Credentials{mouserAPIKey: mouserAPIKey, hasMouser: true}
}

// FromEnv reads the credentials from the process environment.
func FromEnv() Credentials {
	return FromLookup(os.LookupEnv)
}

// FromLookup reads the credentials through lookup, which has the signature of os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) Credentials {
	var c Credentials
	c.mouserAPIKey, c.hasMouser = lookup(MouserAPIKeyEnv)
	return c
}

// MouserAPIKey returns the Mouser API key or ErrMissingCredential when none was provided.
func (c Credentials) MouserAPIKey() (string, error) {
	if !c.hasMouser {
		return "", fmt.Errorf("credentials: Mouser API key not provided (set %s): %w", MouserAPIKeyEnv, apperr.ErrMissingCredential)
	}
	return c.mouserAPIKey, nil
}
