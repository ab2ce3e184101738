package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"assessflow/internal/model"
	"assessflow/internal/service"
	"assessflow/internal/transport/rest/middleware"
)

// ConversationHandler handles session lifecycle and answer endpoints
type ConversationHandler struct {
	conversationSvc *service.ConversationService
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(conversationSvc *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversationSvc: conversationSvc}
}

// Start handles POST /v1/sessions
func (h *ConversationHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req model.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.conversationSvc.StartSession(r.Context(), &req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Get handles GET /v1/sessions/{id}
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := authorizedSession(w, r)
	if !ok {
		return
	}

	session, err := h.conversationSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// List handles GET /v1/sessions
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	status := model.SessionStatus(r.URL.Query().Get("status"))

	sessions, err := h.conversationSvc.ListSessions(r.Context(), status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

// SubmitResponse handles POST /v1/sessions/{id}/responses
func (h *ConversationHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := authorizedSession(w, r)
	if !ok {
		return
	}

	var req model.SubmitResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.conversationSvc.SubmitResponse(r.Context(), sessionID, &req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Next handles GET /v1/sessions/{id}/next
func (h *ConversationHandler) Next(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := authorizedSession(w, r)
	if !ok {
		return
	}

	resp, err := h.conversationSvc.NextQuestion(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Abandon handles POST /v1/sessions/{id}/abandon
func (h *ConversationHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := authorizedSession(w, r)
	if !ok {
		return
	}

	if err := h.conversationSvc.Abandon(r.Context(), sessionID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "abandoned"})
}

// authorizedSession checks the path session against the token's claim
func authorizedSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := mux.Vars(r)["id"]
	if middleware.GetSessionID(r.Context()) != sessionID {
		writeError(w, http.StatusForbidden, "token not valid for this session")
		return "", false
	}
	return sessionID, true
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
