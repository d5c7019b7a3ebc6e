// Package metadata stores small string settings of the local client state,
// such as the session token and the email it belongs to.
package metadata

import (
	"context"
)

// Well-known keys.
const (
	KeyToken  = "token"
	KeyEmail  = "email"
	KeyServer = "server"
)

// Repository is a string key/value table. Get returns "" for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
