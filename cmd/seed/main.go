package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"assessflow/internal/config"
	"assessflow/internal/graph"
	"assessflow/internal/model"
	"assessflow/internal/repository"
)

// Seeds one demo session with a scripted answer history, so the analytics
// endpoints have something to show on a fresh database.
func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	store := graph.Default()
	sessionRepo := repository.NewSessionRepository(client, cfg.MongoDB)
	responseRepo := repository.NewResponseRepository(client, cfg.MongoDB)

	session := &model.AssessmentSession{
		ID:             uuid.New().String(),
		AssessmentType: "standard",
		Status:         model.SessionActive,
		Profile: model.UserProfile{
			Industry:  "retail",
			TeamSize:  "11-50",
			TechLevel: "intermediate",
		},
		CurrentStep: 5,
		TotalSteps:  store.Len(),
		Confidence:  1.0,
		StartedAt:   time.Now(),
	}
	if pending, ok := store.NodeAt(session.CurrentStep - 1); ok {
		session.LastQuestionID = pending.ID
	}

	answers := []struct {
		questionID string
		answer     interface{}
	}{
		{"business_goal", "Scale our online storefront to new regions"},
		{"team_size", "11-50"},
		{"industry", "retail"},
		{"tech_level", "intermediate"},
	}

	if err := sessionRepo.Create(ctx, session); err != nil {
		log.Fatalf("Failed to seed session: %v", err)
	}

	base := time.Now().Add(-time.Duration(len(answers)) * time.Minute)
	for i, a := range answers {
		record := &model.ResponseRecord{
			ID:         uuid.New().String(),
			SessionID:  session.ID,
			QuestionID: a.questionID,
			Answer:     a.answer,
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := responseRepo.Create(ctx, record); err != nil {
			log.Fatalf("Failed to seed response %s: %v", a.questionID, err)
		}
	}

	log.Printf("Seeded session %s with %d responses", session.ID, len(answers))
}
