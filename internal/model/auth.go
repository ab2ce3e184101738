package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the JWT payload for a session-scoped token
type SessionClaims struct {
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// StartSessionRequest opens a new assessment session
type StartSessionRequest struct {
	AssessmentType string      `json:"assessmentType"`
	Profile        UserProfile `json:"profile"`
}

// StartSessionResponse carries the new session id, its bearer token and the
// first question of the flow.
type StartSessionResponse struct {
	SessionID     string        `json:"sessionId"`
	Token         string        `json:"token"`
	TotalSteps    int           `json:"totalSteps"`
	FirstQuestion *QuestionNode `json:"firstQuestion,omitempty"`
}

// SubmitResponseRequest records one answer
type SubmitResponseRequest struct {
	QuestionID string      `json:"questionId"`
	Answer     interface{} `json:"answer"`
}

// NextQuestionResponse is the decision-cycle output returned to the client
type NextQuestionResponse struct {
	Done      bool               `json:"done"`
	Question  *QuestionNode      `json:"question,omitempty"`
	Generated *GeneratedQuestion `json:"generated,omitempty"`
	Fallback  bool               `json:"fallback,omitempty"`
	Reason    string             `json:"reason,omitempty"`
}
