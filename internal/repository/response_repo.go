package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"assessflow/internal/model"
)

type ResponseRepository interface {
	Create(ctx context.Context, record *model.ResponseRecord) error
	GetBySessionID(ctx context.Context, sessionID string) ([]model.ResponseRecord, error)
	CountBySessionID(ctx context.Context, sessionID string) (int64, error)
}

type responseRepository struct {
	collection *mongo.Collection
}

func NewResponseRepository(client *mongo.Client, dbName string) ResponseRepository {
	return &responseRepository{
		collection: client.Database(dbName).Collection("responses"),
	}
}

func (r *responseRepository) Create(ctx context.Context, record *model.ResponseRecord) error {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, record)
	return err
}

// GetBySessionID returns the session's answers in chronological order, which
// the analysis trend windows depend on.
func (r *responseRepository) GetBySessionID(ctx context.Context, sessionID string) ([]model.ResponseRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"sessionId": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []model.ResponseRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *responseRepository) CountBySessionID(ctx context.Context, sessionID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"sessionId": sessionID})
}
