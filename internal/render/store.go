package render

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mairiedoc/mairiedoc/internal/database"
)

// PersistedRender is the Mongo representation of one render's metadata,
// kept for auditing which acts were produced and where their PDF copy lives.
type PersistedRender struct {
	RenderID   string    `bson:"renderId" json:"renderId"`
	DocumentID int64     `bson:"documentId" json:"documentId"`
	Status     string    `bson:"status" json:"status"` // ok|failed
	PDFKey     string    `bson:"pdfKey,omitempty" json:"pdfKey,omitempty"`
	SizeBytes  int64     `bson:"sizeBytes,omitempty" json:"sizeBytes,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

// Save persists (upsert) render metadata into the provided Mongo URI/db.
// If mongoURI is empty the function is a no-op.
func Save(ctx context.Context, mongoURI, databaseName string, pr *PersistedRender) error {
	if mongoURI == "" {
		return nil
	}
	client, err := database.ConnectMongo(ctx, mongoURI, 5*time.Second)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer client.Disconnect(ctx)

	col := client.Database(databaseName).Collection("renders")
	filter := bson.M{"renderId": pr.RenderID}
	opts := options.Update().SetUpsert(true)
	if _, err := col.UpdateOne(ctx, filter, bson.M{"$set": pr}, opts); err != nil {
		return fmt.Errorf("save render record: %w", err)
	}
	return nil
}

// Load fetches persisted render metadata by renderId. Returns nil when not found.
func Load(ctx context.Context, mongoURI, databaseName, renderID string) (*PersistedRender, error) {
	if mongoURI == "" {
		return nil, nil
	}
	client, err := database.ConnectMongo(ctx, mongoURI, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	defer client.Disconnect(ctx)
	col := client.Database(databaseName).Collection("renders")
	var pr PersistedRender
	if err := col.FindOne(ctx, bson.M{"renderId": renderID}).Decode(&pr); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &pr, nil
}
