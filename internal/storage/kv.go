package storage

import "context"

// Keys persisted by the session store. All three are written together on a
// successful authentication and deleted together on logout.
const (
	KeyAccessToken  = "access"
	KeyRefreshToken = "refresh"
	KeyUser         = "user"
)

// KV is the persistence port for client state. Values are plain strings;
// structured records are serialized before they reach this boundary.
type KV interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}
