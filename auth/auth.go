// Package auth provides a high-level API for persisting and retrieving platform credentials from the system keyring.
//
// How tokens are obtained is the user's business; sources only read them back
// through this package and inject them into outbound request headers.
package auth

import (
	"fmt"

	"github.com/zalando/go-keyring"
)

const service = "waverip"

func user(sourceID string) string {
	return fmt.Sprintf("%s-token", sourceID)
}

// SetToken persists a platform's bearer token to the system keyring.
func SetToken(sourceID, token string) error {
	return keyring.Set(service, user(sourceID), token)
}

// GetToken retrieves a platform's bearer token from the system keyring.
// Returns keyring.ErrNotFound when no token was stored.
func GetToken(sourceID string) (string, error) {
	return keyring.Get(service, user(sourceID))
}

// DeleteToken removes a platform's bearer token from the system keyring.
func DeleteToken(sourceID string) error {
	return keyring.Delete(service, user(sourceID))
}
