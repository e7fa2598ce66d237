package sieve

import (
	"testing"

	"github.com/ppiankov/corefsieve/internal/model"
	"github.com/ppiankov/corefsieve/internal/testdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// weDoc: "Smith said we . Jones agreed . our results hold ."
// Pronominal links "we" to Smith and "our" to Jones before the post-pass.
func weDoc() *model.Document {
	b := testdoc.New("we")
	b.Sentence("Smith/NNP/SBJ/1", "said/VBD/ROOT/-1", "we/PRP/OBJ/1")
	b.Sentence("Jones/NNP/SBJ/1", "agreed/VBD/ROOT/-1")
	b.Sentence("our/PRP$/NMOD/1", "results/NNS/SBJ/2", "hold/VBP/ROOT/-1")
	b.Mention(0, 0, 0, 0, model.MentionProper)     // 0 Smith
	b.Mention(0, 2, 2, 2, model.MentionPronominal) // 1 we
	b.Mention(1, 0, 0, 0, model.MentionProper)     // 2 Jones
	b.Mention(2, 0, 0, 0, model.MentionPronominal) // 3 our
	b.Mention(2, 0, 1, 1, model.MentionNominal)    // 4 our results
	return b.Build()
}

func TestWeOverride_DetachesFromExistingChains(t *testing.T) {
	rc := prepare(t, weDoc(), defaultResolve())

	report := run(t, rc, Default(), NewWeOverride([]string{"we", "our"}))

	assert.True(t, rc.Clusters.Same(1, 3))
	assert.False(t, rc.Clusters.Same(1, 0))
	assert.False(t, rc.Clusters.Same(3, 2))
	assert.False(t, rc.Clusters.Same(3, 4))
	assert.Equal(t, 2, report.WeDetached)

	idx, ok := rc.Clusters.Find(1)
	require.True(t, ok)
	assert.Equal(t, rc.Clusters.Len()-1, idx, "we chain is a fresh cluster")

	trace := rc.Clusters.Trace()
	require.GreaterOrEqual(t, len(trace), 2)
	assert.Equal(t, []model.RuleRecord{
		{Rule: model.RuleWeOverride, Mention: 1, Antecedent: 1},
		{Rule: model.RuleWeOverride, Mention: 3, Antecedent: 1},
	}, trace[len(trace)-2:])
}

func TestWeOverride_WithoutPostPass(t *testing.T) {
	rc := prepare(t, weDoc(), defaultResolve())

	report := run(t, rc, Default(), nil)

	assert.True(t, rc.Clusters.Same(1, 0))
	assert.True(t, rc.Clusters.Same(3, 2))
	assert.Zero(t, report.WeDetached)
}

func TestWeOverride_Matches(t *testing.T) {
	w := NewWeOverride([]string{"We", " our "})

	assert.True(t, w.Matches("we"))
	assert.True(t, w.Matches(" OUR"))
	assert.False(t, w.Matches("our results"))
	assert.False(t, w.Matches("us"))
}

func TestWeOverride_NoMatches(t *testing.T) {
	rc := prepare(t, weDoc(), defaultResolve())
	before := rc.Clusters.Len()

	detached, err := NewWeOverride([]string{"us"}).Apply(rc)
	require.NoError(t, err)
	assert.Zero(t, detached)
	assert.Equal(t, before, rc.Clusters.Len())
}

func TestWeOverride_SingletonsCountNothing(t *testing.T) {
	rc := prepare(t, weDoc(), defaultResolve())

	detached, err := NewWeOverride([]string{"we", "our"}).Apply(rc)
	require.NoError(t, err)
	assert.Zero(t, detached)
	assert.True(t, rc.Clusters.Same(1, 3))
	require.NoError(t, rc.Clusters.Verify())
}
