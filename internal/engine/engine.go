// Package engine decides, turn by turn, which question node a conversation
// visits next. It is a pure state machine over the immutable question graph:
// no I/O, no clocks, no randomness, so a fixed answer history always produces
// the same sequence of decisions.
package engine

import (
	"strconv"
	"strings"

	"assessflow/internal/config"
	"assessflow/internal/graph"
	"assessflow/internal/model"
)

// Decision is the outcome of one branching step. Exactly one of Node/Done is
// meaningful; Fallback marks a decision that recovered from invalid input
// rather than propagating an error. Callers should log fallbacks as a quality
// signal, not report them as failures.
type Decision struct {
	Node            *model.QuestionNode
	Done            bool
	BranchType      model.BranchType
	SkipReason      string
	SkipProbability float64
	Fallback        bool
	FallbackReason  string
}

// Engine evaluates branching rules against a conversation context
type Engine struct {
	store  *graph.Store
	tuning *config.Tuning
}

func New(store *graph.Store, tuning *config.Tuning) *Engine {
	if tuning == nil {
		tuning = config.DefaultTuning()
	}
	return &Engine{store: store, tuning: tuning}
}

// DetermineNext returns the next node for the conversation, a completion
// signal when the flow is exhausted, or the fixed fallback node when the
// context or rule data is unusable. It never returns an error.
func (e *Engine) DetermineNext(cc *model.ConversationContext, snap *model.AnalysisSnapshot) Decision {
	if err := validateContext(cc); err != nil {
		return e.fallback(err)
	}

	if cc.CurrentStep >= cc.TotalSteps {
		return Decision{Done: true}
	}

	current, ok := e.store.NodeAt(cc.CurrentStep - 1)
	if !ok {
		return e.fallback(&model.UnknownNodeError{NodeID: stepLabel(cc.CurrentStep)})
	}

	matched, err := e.matchRule(current.ID, cc)
	if err != nil {
		return e.fallback(err)
	}

	var targetID string
	branch := model.BranchLinear
	skipReason := ""
	checkAnswered := true
	if matched != nil {
		if matched.NextNodeID == graph.Complete {
			return Decision{Done: true}
		}
		targetID = matched.NextNodeID
		branch = matched.BranchType
		skipReason = matched.SkipReason
		// A conditional or adaptive edge may deliberately revisit; only
		// linear and skip transitions are forbidden from doing so.
		checkAnswered = branch == model.BranchLinear || branch == model.BranchSkip
	} else {
		succ, ok := e.store.Successor(current.ID)
		if !ok {
			return Decision{Done: true}
		}
		targetID = succ
	}

	node, done, err := e.resolve(targetID, cc, checkAnswered)
	if err != nil {
		return e.fallback(err)
	}
	if done {
		return Decision{Done: true}
	}

	serveNode := applyHooks(node, cc.Responses)
	d := Decision{
		Node:       &serveNode,
		BranchType: branch,
		SkipReason: skipReason,
	}
	if snap != nil {
		d.SkipProbability = snap.SkipProbability
	}
	return d
}

// Current re-serves the node the conversation is standing on, adaptive hooks
// applied. It makes no branching decision and changes nothing, so it is safe
// to call repeatedly between answers.
func (e *Engine) Current(cc *model.ConversationContext) Decision {
	if err := validateContext(cc); err != nil {
		return e.fallback(err)
	}
	node, ok := e.store.NodeAt(cc.CurrentStep - 1)
	if !ok {
		return Decision{Done: true}
	}
	serve := applyHooks(node, cc.Responses)
	return Decision{Node: &serve, BranchType: model.BranchLinear}
}

// matchRule returns the first rule whose conditions all hold, in the store's
// priority-descending, declaration-stable order.
func (e *Engine) matchRule(nodeID string, cc *model.ConversationContext) (*model.BranchingRule, error) {
	for _, rule := range e.store.Rules(nodeID) {
		ok, err := EvaluateAll(rule.Conditions, cc.Responses)
		if err != nil {
			return nil, err
		}
		if ok {
			r := rule
			return &r, nil
		}
	}
	return nil, nil
}

// resolve walks the declared order starting at id until it finds a servable
// node: not already answered (where that applies) and not excluded by its
// static skip conditions. Running off the end of the graph completes the
// conversation.
func (e *Engine) resolve(id string, cc *model.ConversationContext, checkAnswered bool) (model.QuestionNode, bool, error) {
	first := true
	for {
		node, ok := e.store.Node(id)
		if !ok {
			return model.QuestionNode{}, false, &model.UnknownNodeError{NodeID: id}
		}

		skip := false
		if checkAnswered || !first {
			_, answered := cc.Responses[id]
			skip = answered
		}
		if !skip && len(node.SkipConditions) > 0 {
			m, err := EvaluateAll(node.SkipConditions, cc.Responses)
			if err != nil {
				return model.QuestionNode{}, false, err
			}
			skip = m
		}
		if !skip {
			return node, false, nil
		}

		id, ok = e.store.Successor(id)
		if !ok {
			return model.QuestionNode{}, true, nil
		}
		first = false
	}
}

// applyHooks substitutes the node's adaptive placeholders from earlier
// answers. The node value is a copy; the store is never mutated.
func applyHooks(node model.QuestionNode, responses map[string]interface{}) model.QuestionNode {
	if node.Hooks == nil {
		return node
	}
	for placeholder, field := range node.Hooks.TextPlaceholders {
		if v, ok := responses[field]; ok {
			node.Prompt = strings.ReplaceAll(node.Prompt, placeholder, stringify(v))
		}
	}
	return node
}

func (e *Engine) fallback(err error) Decision {
	node := FallbackNode()
	return Decision{
		Node:           &node,
		Fallback:       true,
		FallbackReason: err.Error(),
	}
}

// FallbackNode is the fixed, always-valid node served when a decision step
// cannot trust its inputs. Serving it keeps the conversation moving.
func FallbackNode() model.QuestionNode {
	return model.QuestionNode{
		ID:             "fallback",
		Prompt:         "Thanks for your responses so far. How would you like to continue?",
		Type:           model.AnswerMultipleChoice,
		Options:        []string{"Start Assessment", "View Dashboard", "Schedule Demo", "Learn More"},
		Category:       model.CategoryGeneral,
		BaseDifficulty: 3,
	}
}

func validateContext(cc *model.ConversationContext) error {
	if cc == nil {
		return &model.ValidationError{Field: "context", Reason: "missing"}
	}
	if cc.SessionID == "" {
		return &model.ValidationError{Field: "sessionId", Reason: "required"}
	}
	if cc.TotalSteps <= 0 {
		return &model.ValidationError{Field: "totalSteps", Reason: "must be positive"}
	}
	if cc.CurrentStep < 1 {
		return &model.ValidationError{Field: "currentStep", Reason: "must be at least 1"}
	}
	if cc.Confidence < 0 || cc.Confidence > 1 {
		return &model.ValidationError{Field: "confidence", Reason: "must be within [0,1]"}
	}
	return nil
}

func stepLabel(step int) string {
	return "step " + strconv.Itoa(step)
}
