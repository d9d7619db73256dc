package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureRunner struct {
	cyphers []string
	params  []map[string]any
}

func (c *captureRunner) ReadRows(ctx context.Context, cypher string, params map[string]any) ([]map[string]any, error) {
	return nil, nil
}

func (c *captureRunner) WriteRows(ctx context.Context, cypher string, params map[string]any) error {
	c.cyphers = append(c.cyphers, cypher)
	c.params = append(c.params, params)
	return nil
}

func TestSkillsForTextMatchesKeywordsCaseInsensitively(t *testing.T) {
	skills := SkillsForText("Django REST Framework", "Build a Python API")
	assert.Contains(t, skills, "Django")
	assert.Contains(t, skills, "Python")
	assert.Contains(t, skills, "REST API")

	// Overlapping keywords do not duplicate a skill.
	counts := map[string]int{}
	for _, s := range skills {
		counts[s]++
	}
	for s, n := range counts {
		assert.Equal(t, 1, n, "skill %q appeared %d times", s, n)
	}
}

func TestSkillsForTextWithoutKeywords(t *testing.T) {
	assert.Empty(t, SkillsForText("Watercolor Painting", "Brushes and paper"))
}

func TestUpsertSkillCatalogSeedsEveryCategory(t *testing.T) {
	run := &captureRunner{}
	require.NoError(t, UpsertSkillCatalog(context.Background(), run))
	require.Len(t, run.cyphers, 1)
	assert.Contains(t, run.cyphers[0], "MERGE (s:Skill {key: row.key})")

	rows, ok := run.params[0]["rows"].([]map[string]any)
	require.True(t, ok)

	categories := map[string]bool{}
	keys := map[string]bool{}
	for _, row := range rows {
		categories[row["category"].(string)] = true
		keys[row["key"].(string)] = true
	}
	assert.True(t, keys["python"])
	assert.True(t, keys["machine learning"])
	assert.GreaterOrEqual(t, len(categories), 7)
}
