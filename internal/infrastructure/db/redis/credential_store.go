package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// CredentialStore keeps credential slots as plain string keys under a
// namespace, e.g. learnhub:token and learnhub:user. Keys never expire; the
// session decides when a credential is stale.
type CredentialStore struct {
	client    *redis.Client
	namespace string
}

func NewCredentialStore(client *redis.Client, namespace string) *CredentialStore {
	return &CredentialStore{client: client, namespace: namespace}
}

func (s *CredentialStore) key(slot string) string {
	if s.namespace == "" {
		return slot
	}
	return s.namespace + ":" + slot
}

func (s *CredentialStore) Get(ctx context.Context, slot string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.key(slot)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", slot, err)
	}
	return val, true, nil
}

func (s *CredentialStore) Set(ctx context.Context, slot, value string) error {
	if err := s.client.Set(ctx, s.key(slot), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", slot, err)
	}
	return nil
}

// Delete removes all slots with a single DEL.
func (s *CredentialStore) Delete(ctx context.Context, slots ...string) error {
	if len(slots) == 0 {
		return nil
	}
	keys := make([]string, len(slots))
	for i, slot := range slots {
		keys[i] = s.key(slot)
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *CredentialStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
