package users

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mairiedoc/mairiedoc/internal/archive"
	"github.com/mairiedoc/mairiedoc/internal/database"
)

// Repository defines persistence operations for users
type Repository interface {
	archive.Store
	Create(ctx context.Context, u *User) (int64, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	ListArchived(ctx context.Context) ([]*User, error)
}

// MongoRepository implements Repository using MongoDB
type MongoRepository struct {
	archive.MongoStore
	db *mongo.Database
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	col := db.Collection("users")
	col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return &MongoRepository{MongoStore: archive.MongoStore{Col: col}, db: db}
}

func (r *MongoRepository) Create(ctx context.Context, u *User) (int64, error) {
	id, err := database.NextID(ctx, r.db, "users")
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	u.ID = id
	u.CreatedAt = now
	u.UpdatedAt = now
	if _, err := r.Col.InsertOne(ctx, u); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	var u User
	if err := r.Col.FindOne(ctx, bson.M{"id": id}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *MongoRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := r.Col.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *MongoRepository) List(ctx context.Context) ([]*User, error) {
	return r.find(ctx, archive.ActiveFilter(), options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
}

func (r *MongoRepository) ListArchived(ctx context.Context) ([]*User, error) {
	return r.find(ctx, bson.M{"archived": true}, archive.ArchivedFindOptions())
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*User, error) {
	cur, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*User{}
	for cur.Next(ctx) {
		var u User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	return out, cur.Err()
}
