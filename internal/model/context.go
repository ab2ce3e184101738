package model

import "time"

// ResponseRecord is one recorded answer. Immutable once written.
type ResponseRecord struct {
	ID         string      `json:"id" bson:"_id,omitempty"`
	SessionID  string      `json:"sessionId" bson:"sessionId"`
	QuestionID string      `json:"questionId" bson:"questionId"`
	Answer     interface{} `json:"answer" bson:"answer"`
	Timestamp  time.Time   `json:"timestamp" bson:"timestamp"`
}

// UserProfile is the respondent profile captured at session start
type UserProfile struct {
	Industry   string  `json:"industry,omitempty" bson:"industry,omitempty"`
	TeamSize   string  `json:"teamSize,omitempty" bson:"teamSize,omitempty"`
	TechLevel  string  `json:"techLevel,omitempty" bson:"techLevel,omitempty"`
	Engagement float64 `json:"engagement,omitempty" bson:"engagement,omitempty"` // 0-1
}

// ConversationContext is the accumulated view of one session's answers at a
// decision point. It is rebuilt fresh from the stored response records on
// every call and never mutated in place or shared across sessions.
type ConversationContext struct {
	SessionID   string                 `json:"sessionId"`
	CurrentStep int                    `json:"currentStep"`
	TotalSteps  int                    `json:"totalSteps"`
	Responses   map[string]interface{} `json:"responses"`
	Profile     UserProfile            `json:"profile"`
	Intent      string                 `json:"intent,omitempty"`
	Confidence  float64                `json:"confidence"` // 0-1
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}
