package sieve

import (
	"testing"

	"github.com/ppiankov/corefsieve/internal/model"
	"github.com/ppiankov/corefsieve/internal/testdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkipReason(t *testing.T) {
	b := testdoc.New("policy")
	b.Sentence("Ann/NNP/SBJ/1", "saw/VBD/ROOT/-1", "a/DT/NMOD/3", "dog/NN/OBJ/1", "dogs/NNS/OBJ/1",
		"someone/NN/OBJ/1", "there/RB/ADV/5", "Ann/NNP/OBJ/1")
	b.Mention(0, 0, 0, 0, model.MentionProper)                          // 0 Ann
	b.Mention(0, 2, 3, 3, model.MentionNominal)                         // 1 a dog
	b.Mention(0, 4, 4, 4, model.MentionNominal).Flags.Indefinite = true // 2 dogs
	b.Mention(0, 5, 6, 5, model.MentionNominal)                         // 3 someone there
	b.Mention(0, 7, 7, 7, model.MentionProper)                          // 4 Ann
	rc := prepare(t, b.Build(), defaultResolve())

	_, err := rc.Clusters.Union(4, 0, model.RuleExactMatch)
	require.NoError(t, err)

	tests := []struct {
		name    string
		mention int
		rule    model.Rule
		want    string
	}{
		{"exact ignores indefinite article", 1, model.RuleExactMatch, ""},
		{"apposition ignores indefinite article", 1, model.RuleApposition, ""},
		{"pronominal ignores indefinite article", 1, model.RulePronominal, ""},
		{"predicate nominative skips indefinite article", 1, model.RulePredicateNom, SkipIndefiniteArticle},
		{"relative pronoun skips indefinite article", 1, model.RuleRelativePron, SkipIndefiniteArticle},
		{"indefinite flag", 2, model.RulePredicateNom, SkipIndefiniteFlag},
		{"indefinite pronoun", 3, model.RuleRelativePron, SkipIndefinitePronoun},
		{"not first in cluster", 4, model.RulePronominal, SkipNotFirst},
		{"exact ignores cluster position", 4, model.RuleExactMatch, ""},
		{"relative pronoun ignores cluster position", 4, model.RuleRelativePron, ""},
		{"first in cluster", 0, model.RulePronominal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SkipReason(rc, tt.rule, mustMention(t, rc, tt.mention)))
		})
	}
}

func TestIndefiniteHelpers(t *testing.T) {
	assert.True(t, StartsWithIndefiniteArticle("An apple"))
	assert.False(t, StartsWithIndefiniteArticle("Anna"))
	assert.False(t, StartsWithIndefiniteArticle(""))

	assert.True(t, StartsWithIndefinitePronoun("No  one"))
	assert.True(t, StartsWithIndefinitePronoun("Everything else"))
	assert.False(t, StartsWithIndefinitePronoun("Someones"))

	m := &model.Mention{Text: "a result"}
	assert.True(t, IndefiniteWithoutRelations(m))
	m.Appositions = []int{3}
	assert.False(t, IndefiniteWithoutRelations(m))
}

func TestFirstInCluster(t *testing.T) {
	b := testdoc.New("first")
	b.Sentence("Ann/NNP/SBJ/1", "met/VBD/ROOT/-1", "Ann/NNP/OBJ/1")
	b.Mention(0, 0, 0, 0, model.MentionProper)
	b.Mention(0, 2, 2, 2, model.MentionProper)
	rc := prepare(t, b.Build(), defaultResolve())

	assert.True(t, rc.FirstInCluster(1))
	_, err := rc.Clusters.Union(1, 0, model.RuleExactMatch)
	require.NoError(t, err)
	assert.True(t, rc.FirstInCluster(0))
	assert.False(t, rc.FirstInCluster(1))
	assert.False(t, rc.FirstInCluster(42))
}
