package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"assessflow/internal/model"
)

type SessionRepository interface {
	Create(ctx context.Context, session *model.AssessmentSession) error
	GetByID(ctx context.Context, id string) (*model.AssessmentSession, error)
	Update(ctx context.Context, session *model.AssessmentSession) error
	List(ctx context.Context, status model.SessionStatus) ([]*model.AssessmentSession, error)
}

type sessionRepository struct {
	collection *mongo.Collection
}

// NewSessionRepository stores sessions in the "sessions" collection. Session
// ids are caller-assigned uuids, used directly as _id.
func NewSessionRepository(client *mongo.Client, dbName string) SessionRepository {
	return &sessionRepository{
		collection: client.Database(dbName).Collection("sessions"),
	}
}

func (r *sessionRepository) Create(ctx context.Context, session *model.AssessmentSession) error {
	if session.StartedAt.IsZero() {
		session.StartedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, session)
	return err
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*model.AssessmentSession, error) {
	var session model.AssessmentSession
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Update(ctx context.Context, session *model.AssessmentSession) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": session.ID}, session)
	return err
}

func (r *sessionRepository) List(ctx context.Context, status model.SessionStatus) ([]*model.AssessmentSession, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []*model.AssessmentSession
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}
