package model

import "time"

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionAbandoned SessionStatus = "abandoned"
)

// AssessmentSession is the persistent shell around one conversation. The
// engine itself never reads or writes it; the service layer loads it, rebuilds
// the ConversationContext from the stored response records, and persists the
// outcome.
type AssessmentSession struct {
	ID             string        `json:"id" bson:"_id,omitempty"`
	AssessmentType string        `json:"assessmentType" bson:"assessmentType"`
	Status         SessionStatus `json:"status" bson:"status"`
	Profile        UserProfile   `json:"profile" bson:"profile"`
	CurrentStep    int           `json:"currentStep" bson:"currentStep"`
	TotalSteps     int           `json:"totalSteps" bson:"totalSteps"`
	Confidence     float64       `json:"confidence" bson:"confidence"`
	Intent         string        `json:"intent,omitempty" bson:"intent,omitempty"`
	LastQuestionID string        `json:"lastQuestionId,omitempty" bson:"lastQuestionId,omitempty"`
	StartedAt      time.Time     `json:"startedAt" bson:"startedAt"`
	CompletedAt    *time.Time    `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}
