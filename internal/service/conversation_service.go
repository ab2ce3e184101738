package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"assessflow/internal/analysis"
	"assessflow/internal/cache"
	"assessflow/internal/config"
	"assessflow/internal/engine"
	"assessflow/internal/generator"
	"assessflow/internal/graph"
	"assessflow/internal/model"
	"assessflow/internal/repository"
)

// ConversationService drives assessment sessions end to end: it persists
// sessions and answers, rebuilds the conversation context on every call, and
// runs the decision cycle (analyze, branch, optionally synthesize).
type ConversationService struct {
	store         *graph.Store
	engine        *engine.Engine
	gen           *generator.Generator
	builder       *analysis.Builder
	sessionRepo   repository.SessionRepository
	responseRepo  repository.ResponseRepository
	sessionCache  cache.SessionCache
	snapshotCache cache.SnapshotCache
	auth          *AuthService
	broadcaster   Broadcaster
}

func NewConversationService(
	store *graph.Store,
	tuning *config.Tuning,
	sessionRepo repository.SessionRepository,
	responseRepo repository.ResponseRepository,
	sessionCache cache.SessionCache,
	snapshotCache cache.SnapshotCache,
	auth *AuthService,
) *ConversationService {
	return &ConversationService{
		store:         store,
		engine:        engine.New(store, tuning),
		gen:           generator.New(tuning),
		builder:       analysis.NewBuilder(tuning, store.Category),
		sessionRepo:   sessionRepo,
		responseRepo:  responseRepo,
		sessionCache:  sessionCache,
		snapshotCache: snapshotCache,
		auth:          auth,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *ConversationService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// StartSession opens a session and returns its token plus the first question
// of the flow.
func (s *ConversationService) StartSession(ctx context.Context, req *model.StartSessionRequest) (*model.StartSessionResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("missing request")
	}
	assessmentType := req.AssessmentType
	if assessmentType == "" {
		assessmentType = "standard"
	}

	session := &model.AssessmentSession{
		ID:             uuid.New().String(),
		AssessmentType: assessmentType,
		Status:         model.SessionActive,
		Profile:        req.Profile,
		CurrentStep:    1,
		TotalSteps:     s.store.Len(),
		Confidence:     1.0,
		StartedAt:      time.Now(),
	}

	first, ok := s.store.NodeAt(0)
	if ok {
		session.LastQuestionID = first.ID
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if err := s.sessionCache.Set(ctx, session); err != nil {
		log.Printf("session %s: cache set failed: %v", session.ID, err)
	}

	token, err := s.auth.IssueSessionToken(session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	resp := &model.StartSessionResponse{
		SessionID:  session.ID,
		Token:      token,
		TotalSteps: session.TotalSteps,
	}
	if ok {
		resp.FirstQuestion = &first
	}
	return resp, nil
}

// SubmitResponse records one answer and runs the decision cycle. The returned
// value is the next question (graph node or synthesized), a completion
// signal, or the fallback question; it never fails on bad engine input.
func (s *ConversationService) SubmitResponse(ctx context.Context, sessionID string, req *model.SubmitResponseRequest) (*model.NextQuestionResponse, error) {
	if req == nil || req.QuestionID == "" {
		return nil, fmt.Errorf("questionId is required")
	}

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionActive {
		return nil, fmt.Errorf("session is not active (status: %s)", session.Status)
	}

	record := &model.ResponseRecord{
		ID:         uuid.New().String(),
		SessionID:  sessionID,
		QuestionID: req.QuestionID,
		Answer:     req.Answer,
		Timestamp:  time.Now(),
	}
	if err := s.responseRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record response: %w", err)
	}
	if err := s.snapshotCache.Delete(ctx, sessionID); err != nil {
		log.Printf("session %s: snapshot invalidation failed: %v", sessionID, err)
	}

	records, err := s.responseRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load responses: %w", err)
	}

	cc := conversationContext(session, records)
	snap := s.builder.Snapshot(cc, records)
	decision := s.engine.DetermineNext(cc, snap)
	if decision.Fallback {
		log.Printf("session %s: decision fallback: %s", sessionID, decision.FallbackReason)
	}

	resp := s.applyDecision(ctx, session, records, snap, decision)

	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	if err := s.snapshotCache.Set(ctx, sessionID, snap); err != nil {
		log.Printf("session %s: snapshot cache failed: %v", sessionID, err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(sessionID, "next_question", resp)
		s.broadcaster.BroadcastToObservers("analytics_update", map[string]interface{}{
			"sessionId": sessionID,
			"snapshot":  snap,
		})
	}
	return resp, nil
}

// applyDecision mutates the session to reflect the engine's choice and shapes
// the client response. An adaptive branch swaps the graph target for a
// synthesized question; the graph position still advances so the flow resumes
// past it.
func (s *ConversationService) applyDecision(ctx context.Context, session *model.AssessmentSession, records []model.ResponseRecord, snap *model.AnalysisSnapshot, decision engine.Decision) *model.NextQuestionResponse {
	if decision.Done {
		now := time.Now()
		session.Status = model.SessionCompleted
		session.CompletedAt = &now
		session.CurrentStep = session.TotalSteps
		if s.broadcaster != nil {
			s.broadcaster.BroadcastToObservers("session_completed", map[string]interface{}{
				"sessionId": session.ID,
			})
		}
		return &model.NextQuestionResponse{Done: true}
	}

	if pos, ok := s.store.Position(decision.Node.ID); ok {
		session.CurrentStep = pos + 1
	} else {
		session.CurrentStep++
	}
	session.LastQuestionID = decision.Node.ID

	resp := &model.NextQuestionResponse{
		Question: decision.Node,
		Fallback: decision.Fallback,
		Reason:   decision.FallbackReason,
	}

	if decision.BranchType == model.BranchAdaptive && !decision.Fallback {
		gen := s.gen.Generate(generationRequest(session, records, decision.Node))
		if gen.Fallback {
			log.Printf("session %s: generation fallback: %s", session.ID, gen.Reason)
		}
		resp.Question = nil
		resp.Generated = &gen.Question
		resp.Fallback = gen.Fallback
		resp.Reason = gen.Reason
		session.LastQuestionID = gen.Question.ID
	}
	return resp
}

// NextQuestion re-serves the pending question without recording anything
func (s *ConversationService) NextQuestion(ctx context.Context, sessionID string) (*model.NextQuestionResponse, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionActive {
		return &model.NextQuestionResponse{Done: true}, nil
	}

	records, err := s.responseRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load responses: %w", err)
	}

	decision := s.engine.Current(conversationContext(session, records))
	if decision.Done {
		return &model.NextQuestionResponse{Done: true}, nil
	}
	return &model.NextQuestionResponse{
		Question: decision.Node,
		Fallback: decision.Fallback,
		Reason:   decision.FallbackReason,
	}, nil
}

// GenerateQuestion synthesizes an adaptive question from the session's
// current state at the requested difficulty.
func (s *ConversationService) GenerateQuestion(ctx context.Context, sessionID string, difficulty int, category string) (*model.Generation, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	records, err := s.responseRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load responses: %w", err)
	}

	req := generationRequest(session, records, nil)
	if difficulty > 0 {
		req.Difficulty = difficulty
	}
	req.Category = category

	gen := s.gen.Generate(req)
	if gen.Fallback {
		log.Printf("session %s: generation fallback: %s", sessionID, gen.Reason)
	}
	return &gen, nil
}

// Snapshot returns the session's analysis view, cached per answer
func (s *ConversationService) Snapshot(ctx context.Context, sessionID string) (*model.AnalysisSnapshot, error) {
	if snap, err := s.snapshotCache.Get(ctx, sessionID); err != nil {
		log.Printf("session %s: snapshot cache read failed: %v", sessionID, err)
	} else if snap != nil {
		return snap, nil
	}

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	records, err := s.responseRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load responses: %w", err)
	}

	snap := s.builder.Snapshot(conversationContext(session, records), records)
	if err := s.snapshotCache.Set(ctx, sessionID, snap); err != nil {
		log.Printf("session %s: snapshot cache failed: %v", sessionID, err)
	}
	return snap, nil
}

// GetSession returns the session shell
func (s *ConversationService) GetSession(ctx context.Context, sessionID string) (*model.AssessmentSession, error) {
	return s.loadSession(ctx, sessionID)
}

// ListSessions returns sessions, optionally filtered by status
func (s *ConversationService) ListSessions(ctx context.Context, status model.SessionStatus) ([]*model.AssessmentSession, error) {
	return s.sessionRepo.List(ctx, status)
}

// Abandon marks a session abandoned; its answers stay recorded
func (s *ConversationService) Abandon(ctx context.Context, sessionID string) error {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.Status != model.SessionActive {
		return fmt.Errorf("session is not active (status: %s)", session.Status)
	}
	session.Status = model.SessionAbandoned
	return s.saveSession(ctx, session)
}

func (s *ConversationService) loadSession(ctx context.Context, sessionID string) (*model.AssessmentSession, error) {
	if cached, err := s.sessionCache.Get(ctx, sessionID); err != nil {
		log.Printf("session %s: cache read failed: %v", sessionID, err)
	} else if cached != nil {
		return cached, nil
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	if err := s.sessionCache.Set(ctx, session); err != nil {
		log.Printf("session %s: cache set failed: %v", sessionID, err)
	}
	return session, nil
}

func (s *ConversationService) saveSession(ctx context.Context, session *model.AssessmentSession) error {
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if err := s.sessionCache.Set(ctx, session); err != nil {
		log.Printf("session %s: cache set failed: %v", session.ID, err)
	}
	return nil
}

// conversationContext rebuilds the engine's view of a session from the
// stored records. It is derived fresh on every call and never mutated.
func conversationContext(s *model.AssessmentSession, records []model.ResponseRecord) *model.ConversationContext {
	responses := make(map[string]interface{}, len(records))
	for _, r := range records {
		responses[r.QuestionID] = r.Answer
	}
	return &model.ConversationContext{
		SessionID:   s.ID,
		CurrentStep: s.CurrentStep,
		TotalSteps:  s.TotalSteps,
		Responses:   responses,
		Profile:     s.Profile,
		Intent:      s.Intent,
		Confidence:  s.Confidence,
	}
}

// generationRequest shapes the session state into a synthesis request. The
// anchor node, when present, seeds the category preference.
func generationRequest(s *model.AssessmentSession, records []model.ResponseRecord, anchor *model.QuestionNode) *model.QuestionGenerationRequest {
	responses := make(map[string]interface{}, len(records))
	history := make([]string, 0, len(records))
	for _, r := range records {
		responses[r.QuestionID] = r.Answer
		history = append(history, r.QuestionID)
	}

	req := &model.QuestionGenerationRequest{
		AssessmentType:   s.AssessmentType,
		CurrentResponses: responses,
		UserProfile:      s.Profile,
		QuestionHistory:  history,
		Difficulty:       3,
		Context: map[string]interface{}{
			"confidence": s.Confidence,
		},
	}
	if anchor != nil {
		req.Difficulty = anchor.BaseDifficulty
		req.Category = anchor.Category
	}
	return req
}
