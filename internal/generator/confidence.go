package generator

import (
	"strings"

	"assessflow/internal/model"
)

// score rates how well-founded a synthesized question is and explains the
// choice. Confidence starts at the base and moves one step per signal:
// weak or strong category evidence, and difficulty at the extremes.
func (g *Generator) score(snap *model.AnalysisSnapshot, category string, difficulty int) (float64, string) {
	t := g.tuning

	c := t.ConfidenceBase
	stats, tracked := snap.CategoryPerformance[category]
	if tracked {
		if stats.Score < t.WeakCategory {
			c -= t.ConfidenceStep
		}
		if stats.Score > t.StrongCategory {
			c += t.ConfidenceStep
		}
	}
	if difficulty > t.HardDifficulty {
		c -= t.ConfidenceStep
	}
	if difficulty < t.EasyDifficulty {
		c += t.ConfidenceStep
	}
	if c < t.ConfidenceFloor {
		c = t.ConfidenceFloor
	}
	if c > 1 {
		c = 1
	}

	var clauses []string
	if _, ok := snap.Gap(category); ok {
		clauses = append(clauses, "Addressing identified knowledge gap")
	}
	if difficulty > t.Challenging {
		clauses = append(clauses, "Challenging question to assess depth of knowledge")
	}
	if tracked && stats.Score < t.Underperforming {
		clauses = append(clauses, "Focusing on underperforming category")
	}
	if len(clauses) == 0 {
		return c, "Standard assessment question"
	}
	return c, strings.Join(clauses, ". ")
}
