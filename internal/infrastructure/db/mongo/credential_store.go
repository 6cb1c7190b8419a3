package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const credentialCollection = "credentials"

// CredentialStore keeps one document per credential slot in the credentials
// collection. The document id is "<namespace>:<slot>".
type CredentialStore struct {
	coll      *mongo.Collection
	namespace string
	now       func() time.Time
}

func NewCredentialStore(db *mongo.Database, namespace string) *CredentialStore {
	return &CredentialStore{
		coll:      db.Collection(credentialCollection),
		namespace: namespace,
		now:       time.Now,
	}
}

type credentialDoc struct {
	ID        string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (s *CredentialStore) id(slot string) string {
	return docID(s.namespace, slot)
}

func docID(namespace, slot string) string {
	if namespace == "" {
		return slot
	}
	return namespace + ":" + slot
}

func (s *CredentialStore) Get(ctx context.Context, slot string) (string, bool, error) {
	var doc credentialDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": s.id(slot)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find credential %s: %w", slot, err)
	}
	return doc.Value, true, nil
}

func (s *CredentialStore) Set(ctx context.Context, slot, value string) error {
	doc := credentialDoc{ID: s.id(slot), Value: value, UpdatedAt: s.now().UTC()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert credential %s: %w", slot, err)
	}
	return nil
}

// Delete removes every slot in one DeleteMany.
func (s *CredentialStore) Delete(ctx context.Context, slots ...string) error {
	if len(slots) == 0 {
		return nil
	}
	ids := make([]string, len(slots))
	for i, slot := range slots {
		ids[i] = s.id(slot)
	}
	if _, err := s.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return fmt.Errorf("delete credentials: %w", err)
	}
	return nil
}

func (s *CredentialStore) Ping(ctx context.Context) error {
	return s.coll.Database().RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}
