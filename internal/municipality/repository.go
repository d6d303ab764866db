package municipality

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// singletonID keys the one municipality record.
const singletonID = "mairie"

// Repository persists the single municipality metadata record.
type Repository interface {
	Get(ctx context.Context) (*Metadata, error)
	Upsert(ctx context.Context, m *Metadata) error
	SetLogoKey(ctx context.Context, key string) error
}

// MongoRepository implements Repository over the "municipality" collection.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{col: db.Collection("municipality")}
}

func (r *MongoRepository) Get(ctx context.Context) (*Metadata, error) {
	var m Metadata
	if err := r.col.FindOne(ctx, bson.M{"_id": singletonID}).Decode(&m); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *MongoRepository) Upsert(ctx context.Context, m *Metadata) error {
	m.UpdatedAt = time.Now().UTC()
	set := bson.M{
		"ville": m.Ville, "commune": m.Commune, "region": m.Region,
		"prefecture": m.Prefecture, "nomMaire": m.NomMaire,
		"prenomMaire": m.PrenomMaire, "updatedAt": m.UpdatedAt,
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": singletonID}, bson.M{"$set": set}, opts)
	return err
}

func (r *MongoRepository) SetLogoKey(ctx context.Context, key string) error {
	opts := options.Update().SetUpsert(true)
	set := bson.M{"logoKey": key, "updatedAt": time.Now().UTC()}
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": singletonID}, bson.M{"$set": set}, opts)
	return err
}

// MemoryRepository is the in-memory Repository used by unit tests and the
// standalone render worker.
type MemoryRepository struct {
	mu   sync.RWMutex
	meta *Metadata
}

func NewMemoryRepository() *MemoryRepository { return &MemoryRepository{} }

func (m *MemoryRepository) Get(context.Context) (*Metadata, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.meta == nil {
		return nil, nil
	}
	cp := *m.meta
	return &cp, nil
}

func (m *MemoryRepository) Upsert(_ context.Context, in *Metadata) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	in.UpdatedAt = time.Now().UTC()
	cp := *in
	if m.meta != nil {
		cp.LogoKey = m.meta.LogoKey
	}
	m.meta = &cp
	return nil
}

func (m *MemoryRepository) SetLogoKey(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.meta == nil {
		m.meta = &Metadata{}
	}
	m.meta.LogoKey = key
	m.meta.UpdatedAt = time.Now().UTC()
	return nil
}
