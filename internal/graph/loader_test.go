package graph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assessflow/internal/model"
)

const sampleGraphYAML = `
nodes:
  - id: intro
    prompt: "What brings you here?"
    type: multiple_choice
    options: ["Growth", "Efficiency"]
    category: strategy
    difficulty: 2
  - id: detail
    prompt: "Tell us more about {{industry}}."
    type: text
    dependencies: [intro]
    placeholders:
      "{{industry}}": intro
    skip_conditions:
      - field: intro
        operator: equals
        value: Efficiency
rules:
  intro:
    - next: detail
      branch: conditional
      priority: 4
      conditions:
        - field: intro
          operator: equals
          value: Growth
    - next: complete
      branch: skip
      priority: 2
      skip_reason: nothing further to ask
`

func writeGraph(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile_ParsesDefinition(t *testing.T) {
	s, err := LoadFile(writeGraph(t, sampleGraphYAML))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	intro, ok := s.Node("intro")
	require.True(t, ok)
	assert.Equal(t, model.AnswerMultipleChoice, intro.Type)
	assert.Equal(t, "strategy", intro.Category)
	assert.Equal(t, 2, intro.BaseDifficulty)

	detail, ok := s.Node("detail")
	require.True(t, ok)
	require.NotNil(t, detail.Hooks)
	assert.Equal(t, "intro", detail.Hooks.TextPlaceholders["{{industry}}"])
	require.Len(t, detail.SkipConditions, 1)
	assert.Equal(t, model.OpEquals, detail.SkipConditions[0].Operator)

	rules := s.Rules("intro")
	require.Len(t, rules, 2)
	assert.Equal(t, "detail", rules[0].NextNodeID)
	assert.Equal(t, Complete, rules[1].NextNodeID)
	assert.Equal(t, "nothing further to ask", rules[1].SkipReason)
}

func TestLoadFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := LoadFile(writeGraph(t, "nodes: [unclosed"))
		assert.Error(t, err)
	})

	t.Run("invalid graph", func(t *testing.T) {
		_, err := LoadFile(writeGraph(t, `
nodes:
  - id: only
    prompt: "Only?"
    type: text
rules:
  only:
    - next: ghost
      branch: linear
      priority: 5
`))
		assert.Error(t, err)
	})
}
