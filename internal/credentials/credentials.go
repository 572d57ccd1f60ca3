// internal/credentials/credentials.go
//
// Read-only access to the operator's bearer token and restaurant id.
// Both come from the environment, optionally seeded from a .env file.
// Their absence is a valid state meaning "not authenticated" — callers
// treat it as a fetch precondition failure, never a crash.

package credentials

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvToken        = "TABLESIDE_TOKEN"
	EnvRestaurantID = "TABLESIDE_RESTAURANT_ID"
)

// ErrNotAuthenticated reports that no usable credentials are present.
var ErrNotAuthenticated = errors.New("credentials: not authenticated")

// Credentials holds the opaque bearer token and restaurant identifier.
type Credentials struct {
	Token        string
	RestaurantID string
}

// Present reports whether both fields are usable.
func (c Credentials) Present() bool {
	return c.Token != "" && c.RestaurantID != ""
}

// Load reads credentials from .env (if one exists in the working
// directory) and the environment. A missing .env is not an error; a
// missing token or restaurant id yields ErrNotAuthenticated alongside
// whatever was found.
func Load() (Credentials, error) {
	// godotenv never overrides variables already set in the environment.
	_ = godotenv.Load()

	creds := Credentials{
		Token:        strings.TrimSpace(os.Getenv(EnvToken)),
		RestaurantID: strings.TrimSpace(os.Getenv(EnvRestaurantID)),
	}
	if !creds.Present() {
		return creds, ErrNotAuthenticated
	}
	return creds, nil
}
