package ports

import "context"

// APIClient calls the backing API. A nil body sends no payload; a nil out
// discards the response body.
type APIClient interface {
	Do(ctx context.Context, method, path string, body, out any) error
}
