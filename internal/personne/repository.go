package personne

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mairiedoc/mairiedoc/internal/archive"
	"github.com/mairiedoc/mairiedoc/internal/database"
)

// Repository defines persistence operations for persons.
type Repository interface {
	archive.Store
	Create(ctx context.Context, p *Personne) (int64, error)
	GetByID(ctx context.Context, id int64) (*Personne, error)
	Update(ctx context.Context, p *Personne) error
	List(ctx context.Context) ([]*Personne, error)
	ListArchived(ctx context.Context) ([]*Personne, error)
}

// MongoRepository implements Repository over the "persons" collection.
type MongoRepository struct {
	archive.MongoStore
	db *mongo.Database
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	col := db.Collection("persons")
	col.Indexes().CreateOne(context.Background(),
		mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)})
	return &MongoRepository{MongoStore: archive.MongoStore{Col: col}, db: db}
}

func (r *MongoRepository) Create(ctx context.Context, p *Personne) (int64, error) {
	id, err := database.NextID(ctx, r.db, "persons")
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := r.Col.InsertOne(ctx, p); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id int64) (*Personne, error) {
	var p Personne
	if err := r.Col.FindOne(ctx, bson.M{"id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *MongoRepository) Update(ctx context.Context, p *Personne) error {
	p.UpdatedAt = time.Now().UTC()
	set := bson.M{
		"nom": p.Nom, "prenom": p.Prenom, "sexe": p.Sexe,
		"dateNaissance": p.DateNaissance, "lieuNaissance": p.LieuNaissance,
		"nationalite": p.Nationalite, "profession": p.Profession,
		"adresse": p.Adresse, "telephone": p.Telephone, "numeroCni": p.NumeroCni,
		"updatedAt": p.UpdatedAt,
	}
	res, err := r.Col.UpdateOne(ctx, bson.M{"id": p.ID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoRepository) List(ctx context.Context) ([]*Personne, error) {
	return r.find(ctx, archive.ActiveFilter(), options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
}

func (r *MongoRepository) ListArchived(ctx context.Context) ([]*Personne, error) {
	return r.find(ctx, bson.M{"archived": true}, archive.ArchivedFindOptions())
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*Personne, error) {
	cur, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*Personne{}
	for cur.Next(ctx) {
		var p Personne
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, cur.Err()
}
