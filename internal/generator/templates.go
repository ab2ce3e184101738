package generator

import "assessflow/internal/model"

// Template is one candidate phrasing for a synthesized question. Options are
// only consulted for multiple choice; scale questions get the fixed rating
// labels and free text gets none.
type Template struct {
	Question string
	Options  []string
}

type templateKey struct {
	category string
	qtype    model.AnswerType
	bucket   int
}

// Registry maps (category, answer type, difficulty bucket) to candidate
// templates. Buckets are 1, 3 and 5; lookups snap the requested difficulty
// to the nearest bucket, rounding down on ties.
type Registry struct {
	templates map[templateKey][]Template
}

func NewRegistry() *Registry {
	return &Registry{templates: make(map[templateKey][]Template)}
}

// Add registers a template under an exact bucket. Registration order is the
// candidate order the picker sees.
func (r *Registry) Add(category string, qtype model.AnswerType, bucket int, tmpl Template) {
	k := templateKey{category: category, qtype: qtype, bucket: bucket}
	r.templates[k] = append(r.templates[k], tmpl)
}

// Find returns the candidate templates for a category, type and difficulty.
// When the exact slot is empty it widens the search: same category at the
// middle bucket, then multiple choice in the same category, then the general
// pool. A populated default registry guarantees the last step never misses.
func (r *Registry) Find(category string, qtype model.AnswerType, difficulty int) []Template {
	b := bucketFor(difficulty)
	keys := []templateKey{
		{category, qtype, b},
		{category, qtype, 3},
		{category, model.AnswerMultipleChoice, b},
		{category, model.AnswerMultipleChoice, 3},
		{model.CategoryGeneral, qtype, b},
		{model.CategoryGeneral, qtype, 3},
		{model.CategoryGeneral, model.AnswerMultipleChoice, 3},
	}
	for _, k := range keys {
		if ts := r.templates[k]; len(ts) > 0 {
			return ts
		}
	}
	return nil
}

// bucketFor maps a 1..5 difficulty onto the nearest template bucket, ties
// rounding down: 2 lands on 1 and 4 lands on 3.
func bucketFor(difficulty int) int {
	switch {
	case difficulty <= 2:
		return 1
	case difficulty <= 4:
		return 3
	default:
		return 5
	}
}

// DefaultRegistry builds the production template set
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Add(model.CategoryStrategy, model.AnswerMultipleChoice, 1, Template{
		Question: "Do you have a written business plan?",
		Options:  []string{"Yes", "No", "In progress", "Not sure"},
	})
	r.Add(model.CategoryStrategy, model.AnswerMultipleChoice, 3, Template{
		Question: "What is your primary strategic priority in {{industry}} right now?",
		Options:  []string{"Revenue growth", "Operational efficiency", "New market entry", "Product innovation"},
	})
	r.Add(model.CategoryStrategy, model.AnswerMultipleChoice, 3, Template{
		Question: "How do you set direction for the next twelve months?",
		Options:  []string{"Formal annual plan", "Quarterly objectives", "Ad hoc decisions", "No planning yet"},
	})
	r.Add(model.CategoryStrategy, model.AnswerMultipleChoice, 5, Template{
		Question: "How do you measure the return on your strategic initiatives?",
		Options:  []string{"Defined KPIs per initiative", "Revenue attribution", "Periodic reviews", "We don't measure"},
	})
	r.Add(model.CategoryStrategy, model.AnswerText, 3, Template{
		Question: "Describe the biggest strategic challenge facing your {{industry}} business.",
	})
	r.Add(model.CategoryStrategy, model.AnswerText, 5, Template{
		Question: "How would your strategy change if your team of {{teamSize}} doubled next quarter?",
	})
	r.Add(model.CategoryStrategy, model.AnswerScale, 3, Template{
		Question: "How confident are you in your current strategic direction?",
	})

	r.Add(model.CategoryTechnology, model.AnswerMultipleChoice, 1, Template{
		Question: "Does your team currently use any automation tools?",
		Options:  []string{"Yes, extensively", "Yes, a few", "No, but interested", "No"},
	})
	r.Add(model.CategoryTechnology, model.AnswerMultipleChoice, 3, Template{
		Question: "How would you describe your current technology stack?",
		Options:  []string{"Modern and integrated", "Modern but siloed", "Legacy with upgrades", "Mostly legacy"},
	})
	r.Add(model.CategoryTechnology, model.AnswerMultipleChoice, 5, Template{
		Question: "How do you evaluate new technology before adopting it?",
		Options:  []string{"Formal proof of concept", "Team recommendation", "Vendor comparison", "Gut feel"},
	})
	r.Add(model.CategoryTechnology, model.AnswerText, 3, Template{
		Question: "What technology gap slows your team down the most?",
	})
	r.Add(model.CategoryTechnology, model.AnswerScale, 3, Template{
		Question: "How well does your technology support day-to-day operations?",
	})

	r.Add(model.CategoryProcess, model.AnswerMultipleChoice, 3, Template{
		Question: "How are your core business processes documented?",
		Options:  []string{"Fully documented", "Partially documented", "Tribal knowledge", "Not documented"},
	})
	r.Add(model.CategoryProcess, model.AnswerScale, 3, Template{
		Question: "How repeatable are your key processes across a team of {{teamSize}}?",
	})

	r.Add(model.CategoryTeam, model.AnswerMultipleChoice, 3, Template{
		Question: "How does your team of {{teamSize}} coordinate day to day?",
		Options:  []string{"Daily standups", "Weekly syncs", "Async tools", "Informally"},
	})
	r.Add(model.CategoryTeam, model.AnswerScale, 3, Template{
		Question: "How would you rate your team's current capacity?",
	})

	r.Add(model.CategoryMarket, model.AnswerMultipleChoice, 3, Template{
		Question: "How do you track your position in the {{industry}} market?",
		Options:  []string{"Dedicated research", "Competitor monitoring", "Customer feedback", "We don't track it"},
	})

	r.Add(model.CategoryGeneral, model.AnswerMultipleChoice, 1, Template{
		Question: "Which area of your business needs the most attention?",
		Options:  []string{"Strategy", "Technology", "Process", "Team"},
	})
	r.Add(model.CategoryGeneral, model.AnswerMultipleChoice, 3, Template{
		Question: "What would have the biggest impact on your business right now?",
		Options:  []string{"Better planning", "Better tooling", "Better processes", "More people"},
	})
	r.Add(model.CategoryGeneral, model.AnswerMultipleChoice, 5, Template{
		Question: "Which tradeoff best describes your current constraints?",
		Options:  []string{"Speed vs quality", "Cost vs capability", "Focus vs breadth", "Growth vs stability"},
	})
	r.Add(model.CategoryGeneral, model.AnswerScale, 3, Template{
		Question: "How satisfied are you with your overall business performance?",
	})
	r.Add(model.CategoryGeneral, model.AnswerText, 3, Template{
		Question: "What is the single biggest obstacle between you and your goals?",
	})

	return r
}
