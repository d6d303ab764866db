package archive

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store over a collection whose records carry an int64
// "id" field and the Audit fields. Entity repositories embed it so every kind
// shares the same transition queries.
type MongoStore struct {
	Col *mongo.Collection
}

func (s *MongoStore) Exists(ctx context.Context, id int64) (bool, error) {
	n, err := s.Col.CountDocuments(ctx, bson.M{"id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *MongoStore) MarkArchived(ctx context.Context, id, actor int64, at time.Time) (bool, error) {
	res, err := s.Col.UpdateOne(ctx,
		bson.M{"id": id, "archived": false},
		bson.M{"$set": bson.M{"archived": true, "archivedAt": at, "archivedBy": actor}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (s *MongoStore) ClearArchived(ctx context.Context, id int64) (bool, error) {
	res, err := s.Col.UpdateOne(ctx,
		bson.M{"id": id, "archived": true},
		bson.M{
			"$set":   bson.M{"archived": false},
			"$unset": bson.M{"archivedAt": "", "archivedBy": ""},
		},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (s *MongoStore) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.Col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// ActiveFilter is the default listing filter excluding archived records.
func ActiveFilter() bson.M { return bson.M{"archived": false} }

// ArchivedFindOptions sorts an archived listing by archival time, most
// recent first.
func ArchivedFindOptions() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "archivedAt", Value: -1}})
}
