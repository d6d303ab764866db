package template

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mairiedoc/mairiedoc/internal/archive"
	"github.com/mairiedoc/mairiedoc/internal/database"
)

// Repository defines persistence operations for templates. It includes the
// archive.Store surface so the lifecycle controller can drive transitions
// through the same implementation.
type Repository interface {
	archive.Store
	Create(ctx context.Context, t *Template) (int64, error)
	GetByID(ctx context.Context, id int64) (*Template, error)
	GetByNom(ctx context.Context, nom string) (*Template, error)
	Update(ctx context.Context, id int64, nomDocument, body string) error
	List(ctx context.Context) ([]*Template, error)
	ListArchived(ctx context.Context) ([]*Template, error)
}

// MongoRepository implements Repository over the "templates" collection.
type MongoRepository struct {
	archive.MongoStore
	db *mongo.Database
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	col := db.Collection("templates")
	// unique label and id lookups
	col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "nomDocument", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return &MongoRepository{MongoStore: archive.MongoStore{Col: col}, db: db}
}

func (r *MongoRepository) Create(ctx context.Context, t *Template) (int64, error) {
	id, err := database.NextID(ctx, r.db, "templates")
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	t.ID = id
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := r.Col.InsertOne(ctx, t); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id int64) (*Template, error) {
	var t Template
	if err := r.Col.FindOne(ctx, bson.M{"id": id}).Decode(&t); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *MongoRepository) GetByNom(ctx context.Context, nom string) (*Template, error) {
	var t Template
	if err := r.Col.FindOne(ctx, bson.M{"nomDocument": nom}).Decode(&t); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *MongoRepository) Update(ctx context.Context, id int64, nomDocument, body string) error {
	set := bson.M{"nomDocument": nomDocument, "body": body, "updatedAt": time.Now().UTC()}
	res, err := r.Col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoRepository) List(ctx context.Context) ([]*Template, error) {
	return r.find(ctx, archive.ActiveFilter(), options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
}

func (r *MongoRepository) ListArchived(ctx context.Context) ([]*Template, error) {
	return r.find(ctx, bson.M{"archived": true}, archive.ArchivedFindOptions())
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*Template, error) {
	cur, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*Template{}
	for cur.Next(ctx) {
		var t Template
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, cur.Err()
}
