package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mairiedoc/mairiedoc/internal/archive"
	"github.com/mairiedoc/mairiedoc/internal/database"
	"github.com/mairiedoc/mairiedoc/internal/document"
)

// MongoRepo implements Repository over the "documents" collection.
type MongoRepo struct {
	archive.MongoStore
	db *mongo.Database
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	col := db.Collection("documents")
	col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "templateId", Value: 1}}},
	})
	return &MongoRepo{MongoStore: archive.MongoStore{Col: col}, db: db}
}

func (r *MongoRepo) Create(ctx context.Context, d *document.Document) (int64, error) {
	id, err := database.NextID(ctx, r.db, "documents")
	if err != nil {
		return 0, err
	}
	d.ID = id
	d.CreatedAt = time.Now().UTC()
	if _, err := r.Col.InsertOne(ctx, d); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *MongoRepo) GetByID(ctx context.Context, id int64) (*document.Document, error) {
	var d document.Document
	if err := r.Col.FindOne(ctx, bson.M{"id": id}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *MongoRepo) List(ctx context.Context) ([]*document.Document, error) {
	return r.find(ctx, archive.ActiveFilter(), options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
}

func (r *MongoRepo) ListArchived(ctx context.Context) ([]*document.Document, error) {
	return r.find(ctx, bson.M{"archived": true}, archive.ArchivedFindOptions())
}

func (r *MongoRepo) CountByTemplate(ctx context.Context, templateID int64) (int64, error) {
	return r.Col.CountDocuments(ctx, bson.M{"templateId": templateID})
}

func (r *MongoRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*document.Document, error) {
	cur, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*document.Document{}
	for cur.Next(ctx) {
		var d document.Document
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, cur.Err()
}

// MongoBindingRepo implements BindingRepository over the "bindings" collection.
type MongoBindingRepo struct {
	col *mongo.Collection
	db  *mongo.Database
}

func NewMongoBindingRepo(db *mongo.Database) *MongoBindingRepo {
	col := db.Collection("bindings")
	col.Indexes().CreateOne(context.Background(),
		mongo.IndexModel{Keys: bson.D{{Key: "documentId", Value: 1}, {Key: "id", Value: 1}}})
	return &MongoBindingRepo{col: col, db: db}
}

func (r *MongoBindingRepo) Add(ctx context.Context, b *document.RoleBinding) (int64, error) {
	id, err := database.NextID(ctx, r.db, "bindings")
	if err != nil {
		return 0, err
	}
	b.ID = id
	b.CreatedAt = time.Now().UTC()
	if _, err := r.col.InsertOne(ctx, b); err != nil {
		return 0, err
	}
	return id, nil
}

// ListByDocument returns bindings in creation order (ascending id) so
// duplicate fonctions resolve deterministically.
func (r *MongoBindingRepo) ListByDocument(ctx context.Context, docID int64) ([]*document.RoleBinding, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"documentId": docID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*document.RoleBinding{}
	for cur.Next(ctx) {
		var b document.RoleBinding
		if err := cur.Decode(&b); err != nil {
			return nil, err
		}
		out = append(out, &b)
	}
	return out, cur.Err()
}

func (r *MongoBindingRepo) DeleteByFonction(ctx context.Context, docID int64, fonction string) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"documentId": docID, "fonction": fonction})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *MongoBindingRepo) DeleteByDocument(ctx context.Context, docID int64) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"documentId": docID})
	return err
}
