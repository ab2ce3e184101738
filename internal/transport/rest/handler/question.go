package handler

import (
	"encoding/json"
	"net/http"

	"assessflow/internal/service"
)

// QuestionHandler handles adaptive generation and analytics endpoints
type QuestionHandler struct {
	conversationSvc *service.ConversationService
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(conversationSvc *service.ConversationService) *QuestionHandler {
	return &QuestionHandler{conversationSvc: conversationSvc}
}

// GenerateRequest is the request body for generating a question
type GenerateRequest struct {
	Difficulty int    `json:"difficulty"`
	Category   string `json:"category,omitempty"`
}

// Generate handles POST /v1/sessions/{id}/questions/generate
func (h *QuestionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := authorizedSession(w, r)
	if !ok {
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	gen, err := h.conversationSvc.GenerateQuestion(r.Context(), sessionID, req.Difficulty, req.Category)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, gen)
}

// Analytics handles GET /v1/sessions/{id}/analytics
func (h *QuestionHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := authorizedSession(w, r)
	if !ok {
		return
	}

	snap, err := h.conversationSvc.Snapshot(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, snap)
}
