// Package generator synthesizes adaptive assessment questions from the
// statistical snapshot of a session. Synthesis is deterministic end to end:
// the same request always yields the same question, id included, so repeated
// calls are safe and cacheable.
package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"assessflow/internal/analysis"
	"assessflow/internal/config"
	"assessflow/internal/model"
)

// idNamespace seeds the deterministic v5 question ids
var idNamespace = uuid.MustParse("3f2a6c58-9d14-4b7e-8a14-6c0df21b7a42")

// Option configures a Generator
type Option func(*Generator)

// WithRegistry swaps the template set
func WithRegistry(r *Registry) Option {
	return func(g *Generator) { g.registry = r }
}

// WithPicker replaces the candidate selector. The default always takes the
// first candidate, which keeps generation idempotent; callers that want
// variety can inject a seeded source.
func WithPicker(pick func(n int) int) Option {
	return func(g *Generator) { g.pick = pick }
}

// Generator builds questions tuned to the respondent's weak spots
type Generator struct {
	tuning   *config.Tuning
	registry *Registry
	builder  *analysis.Builder
	pick     func(n int) int
}

func New(tuning *config.Tuning, opts ...Option) *Generator {
	if tuning == nil {
		tuning = config.DefaultTuning()
	}
	g := &Generator{
		tuning:   tuning,
		registry: DefaultRegistry(),
		builder:  analysis.NewBuilder(tuning, nil),
		pick:     func(int) int { return 0 },
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate synthesizes one question for the request. It never fails: any
// invalid request or synthesis error lands on the fixed fallback question
// with the Fallback flag raised and the cause carried in Reason.
func (g *Generator) Generate(req *model.QuestionGenerationRequest) model.Generation {
	q, err := g.generate(req)
	if err != nil {
		return model.Generation{Question: Fallback(g.tuning), Fallback: true, Reason: err.Error()}
	}
	return model.Generation{Question: q}
}

func (g *Generator) generate(req *model.QuestionGenerationRequest) (model.GeneratedQuestion, error) {
	if err := validate(req); err != nil {
		return model.GeneratedQuestion{}, err
	}

	snap := g.builder.Snapshot(requestContext(req), nil)

	category := g.chooseCategory(req, snap)
	difficulty := g.calibrate(req.Difficulty, category, snap)
	qtype := g.chooseType(req, snap, category)

	candidates := g.registry.Find(category, qtype, difficulty)
	if len(candidates) == 0 {
		return model.GeneratedQuestion{}, &model.ValidationError{
			Field:  "category",
			Reason: fmt.Sprintf("no templates for %s/%s", category, qtype),
		}
	}
	tmpl := candidates[g.pick(len(candidates))%len(candidates)]

	confidence, reasoning := g.score(snap, category, difficulty)

	return model.GeneratedQuestion{
		ID:                g.questionID(req, category, difficulty, qtype),
		Question:          substitute(tmpl.Question, req.UserProfile),
		Type:              qtype,
		Options:           g.adaptOptions(optionsFor(tmpl, qtype), difficulty),
		Category:          category,
		Difficulty:        difficulty,
		Confidence:        confidence,
		Reasoning:         reasoning,
		FollowUpQuestions: followUps(category),
		SkipConditions:    g.skipRules(req, category),
	}, nil
}

func validate(req *model.QuestionGenerationRequest) error {
	if req == nil {
		return &model.ValidationError{Field: "request", Reason: "missing"}
	}
	if strings.TrimSpace(req.AssessmentType) == "" {
		return &model.ValidationError{Field: "assessmentType", Reason: "required"}
	}
	if req.Difficulty < 1 || req.Difficulty > 5 {
		return &model.ValidationError{Field: "difficulty", Reason: "must be between 1 and 5"}
	}
	return nil
}

// requestContext recasts a generation request as a conversation context so
// the analysis builder can run over it. TotalSteps is unknown at this point,
// which keeps the late-stage skip term switched off.
func requestContext(req *model.QuestionGenerationRequest) *model.ConversationContext {
	confidence := 1.0
	if c, ok := req.Context["confidence"]; ok {
		if f, ok := c.(float64); ok {
			confidence = f
		}
	}
	return &model.ConversationContext{
		SessionID:   "generation",
		CurrentStep: len(req.QuestionHistory),
		Responses:   req.CurrentResponses,
		Profile:     req.UserProfile,
		Confidence:  confidence,
	}
}

// chooseCategory targets the most severe knowledge gap first, then the
// weakest scored category, then the caller's preference, then strategy.
func (g *Generator) chooseCategory(req *model.QuestionGenerationRequest, snap *model.AnalysisSnapshot) string {
	if len(snap.KnowledgeGaps) > 0 {
		return snap.KnowledgeGaps[0].Category
	}

	if len(snap.CategoryPerformance) > 0 {
		cats := make([]string, 0, len(snap.CategoryPerformance))
		for c := range snap.CategoryPerformance {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		weakest := cats[0]
		for _, c := range cats[1:] {
			if snap.CategoryPerformance[c].Score < snap.CategoryPerformance[weakest].Score {
				weakest = c
			}
		}
		return weakest
	}

	if req.Category != "" {
		return req.Category
	}
	return model.CategoryStrategy
}

// calibrate nudges difficulty toward the respondent's demonstrated level in
// the chosen category. Without scored evidence the base holds steady.
func (g *Generator) calibrate(base int, category string, snap *model.AnalysisSnapshot) int {
	stats, ok := snap.CategoryPerformance[category]
	if !ok {
		return base
	}
	switch {
	case stats.Score >= g.tuning.HighScore && base < 5:
		return base + 1
	case stats.Score <= g.tuning.LowScore && base > 1:
		return base - 1
	}
	return base
}

// openEnded marks the categories that warrant free-text questions when the
// respondent is highly engaged
var openEnded = map[string]bool{
	model.CategoryStrategy: true,
}

func (g *Generator) chooseType(req *model.QuestionGenerationRequest, snap *model.AnalysisSnapshot, category string) model.AnswerType {
	switch {
	case snap.Engagement < g.tuning.LowEngagement:
		return model.AnswerMultipleChoice
	case req.AssessmentType == "comprehensive":
		return model.AnswerScale
	case snap.Engagement > g.tuning.HighEngagement && openEnded[category]:
		return model.AnswerText
	default:
		return model.AnswerMultipleChoice
	}
}

// substitute fills the profile placeholders a template may carry. The token
// set is fixed; anything else in the text passes through untouched.
func substitute(text string, p model.UserProfile) string {
	industry := p.Industry
	if industry == "" {
		industry = "your industry"
	}
	teamSize := p.TeamSize
	if teamSize == "" {
		teamSize = "your current size"
	}
	text = strings.ReplaceAll(text, "{{industry}}", industry)
	text = strings.ReplaceAll(text, "{{teamSize}}", teamSize)
	return text
}

var scaleOptions = []string{"1 - Very Poor", "2 - Poor", "3 - Average", "4 - Good", "5 - Excellent"}

func optionsFor(tmpl Template, qtype model.AnswerType) []string {
	switch qtype {
	case model.AnswerMultipleChoice:
		return append([]string(nil), tmpl.Options...)
	case model.AnswerScale:
		return append([]string(nil), scaleOptions...)
	default:
		return nil
	}
}

// adaptOptions trims choices for easy questions and widens the escape hatch
// for hard ones
func (g *Generator) adaptOptions(options []string, difficulty int) []string {
	if len(options) == 0 {
		return nil
	}
	if difficulty <= g.tuning.EasyDifficulty && len(options) > 4 {
		return options[:4]
	}
	if difficulty >= g.tuning.HardDifficulty {
		return append(options, "Not applicable", "Need more information")
	}
	return options
}

var followUpQuestions = map[string][]string{
	model.CategoryStrategy:   {"How do you plan to implement this strategy?", "What resources will you need?"},
	model.CategoryTechnology: {"What technology stack are you currently using?", "How do you handle technology decisions?"},
}

func followUps(category string) []string {
	return append([]string(nil), followUpQuestions[category]...)
}

// skipRules emits the conditions under which the caller should bypass the
// generated question. The engagement rule only fires for profiles that
// actually report engagement; an unset profile stays neutral.
func (g *Generator) skipRules(req *model.QuestionGenerationRequest, category string) []model.SkipRule {
	var rules []model.SkipRule
	if e := req.UserProfile.Engagement; e > 0 && e < g.tuning.MinProfileEngagement {
		rules = append(rules, model.SkipRule{
			Type:      "engagement",
			Threshold: g.tuning.MinProfileEngagement,
			Action:    "skip",
		})
	}

	covered := 0
	for id := range req.CurrentResponses {
		if model.CategoryOf(id) == category {
			covered++
		}
	}
	if covered > g.tuning.CategoryCoverageLimit {
		rules = append(rules, model.SkipRule{
			Type:      "category_coverage",
			Threshold: float64(g.tuning.CategoryCoverageLimit),
			Action:    "skip",
		})
	}
	return rules
}

// questionID derives a stable v5 uuid from the request shape, so the same
// session state always names the generated question identically
func (g *Generator) questionID(req *model.QuestionGenerationRequest, category string, difficulty int, qtype model.AnswerType) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%d|%s|", req.AssessmentType, category, difficulty, qtype)

	ids := make([]string, 0, len(req.CurrentResponses))
	for id := range req.CurrentResponses {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(&b, "%s=%v;", id, req.CurrentResponses[id])
	}
	b.WriteByte('|')
	b.WriteString(strings.Join(req.QuestionHistory, ","))

	return "generated_" + uuid.NewSHA1(idNamespace, []byte(b.String())).String()
}
