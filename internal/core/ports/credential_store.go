package ports

import "context"

// CredentialStore is durable string-keyed storage that survives restarts.
// It holds the domain.SlotToken and domain.SlotUser slots.
type CredentialStore interface {
	// Get returns the slot value and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes all given slots in a single operation. Missing slots
	// are not an error.
	Delete(ctx context.Context, keys ...string) error
}
