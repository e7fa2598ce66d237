package sieve

import (
	"testing"

	"github.com/ppiankov/corefsieve/internal/chain"
	"github.com/ppiankov/corefsieve/internal/model"
	"github.com/ppiankov/corefsieve/internal/testdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// aliceDoc: "Alice introduced her new method . She claims it outperforms the baseline ."
func aliceDoc() *model.Document {
	b := testdoc.New("alice")
	b.Sentence("Alice/NNP/SBJ/1", "introduced/VBD/ROOT/-1", "her/PRP$/NMOD/4", "new/JJ/NMOD/4",
		"method/NN/OBJ/1", "././P/1")
	b.Sentence("She/PRP/SBJ/1", "claims/VBZ/ROOT/-1", "it/PRP/SBJ/3", "outperforms/VBZ/OBJ/1",
		"the/DT/NMOD/5", "baseline/NN/OBJ/3", "././P/1")
	b.Mention(0, 0, 0, 0, model.MentionProper).Features = third("female", "singular", "animate")
	b.Mention(0, 2, 2, 2, model.MentionPronominal).Features = third("female", "singular", "animate")
	b.Mention(1, 0, 0, 0, model.MentionPronominal).Features = third("female", "singular", "animate")
	b.Mention(0, 2, 4, 4, model.MentionNominal).Features = third("neuter", "singular", "inanimate")
	b.Mention(1, 2, 2, 2, model.MentionPronominal).Features = third("neuter", "singular", "inanimate")
	b.Mention(1, 4, 5, 5, model.MentionNominal).Features = third("neuter", "singular", "inanimate")
	return b.Build()
}

func TestPronominal_AliceHerShe(t *testing.T) {
	doc := aliceDoc()
	rc := prepare(t, doc, defaultResolve())

	report := run(t, rc, Default(), nil)

	assert.True(t, rc.Clusters.Same(0, 1), "her -> Alice")
	assert.True(t, rc.Clusters.Same(0, 2), "She -> Alice")
	assert.False(t, rc.Clusters.Same(0, 3))
	assert.True(t, rc.Clusters.Same(3, 4), "it -> her new method")
	assert.Equal(t, 3, report.Merges[model.RulePronominal])

	byID := make(map[int]*model.Mention)
	for _, m := range doc.Mentions {
		byID[m.ID] = m
	}
	chains := chain.NewEmitter(15).Emit(rc.Clusters, byID)
	require.Len(t, chains, 2)
	assert.Equal(t, []int{0, 1, 2}, chains[0].Mentions)
	assert.Equal(t, "Alice", chains[0].Name)
	assert.Equal(t, "P2", chains[0].Signature)
}

func TestPronominal_WindowLimitsSearch(t *testing.T) {
	b := testdoc.New("window")
	b.Sentence("Alice/NNP/SBJ/1", "left/VBD/ROOT/-1")
	b.Sentence("Rain/NN/SBJ/1", "fell/VBD/ROOT/-1")
	b.Sentence("She/PRP/SBJ/1", "returned/VBD/ROOT/-1")
	b.Mention(0, 0, 0, 0, model.MentionProper).Features = third("female", "singular", "animate")
	b.Mention(1, 0, 0, 0, model.MentionNominal).Features = third("neuter", "singular", "inanimate")
	b.Mention(2, 0, 0, 0, model.MentionPronominal).Features = third("female", "singular", "animate")

	cfg := defaultResolve()
	cfg.PronounWindow = 1
	rc := prepare(t, b.Build(), cfg)
	assert.Empty(t, Pronominal{}.Propose(rc))

	cfg.PronounWindow = 2
	rc = prepare(t, b.Build(), cfg)
	assert.Equal(t, []Merge{{Mention: 2, Antecedent: 0}}, Pronominal{}.Propose(rc))
}

func TestPronominal_IndefiniteNeverTarget(t *testing.T) {
	build := func() *model.Document {
		b := testdoc.New("a-result")
		b.Sentence("We/PRP/SBJ/1", "got/VBD/ROOT/-1", "a/DT/NMOD/3", "result/NN/OBJ/1")
		b.Sentence("It/PRP/SBJ/1", "helps/VBZ/ROOT/-1")
		b.Mention(0, 0, 0, 0, model.MentionPronominal).Features = model.Features{Person: "first", Number: "plural"}
		b.Mention(0, 2, 3, 3, model.MentionNominal).Features = third("neuter", "singular", "inanimate")
		b.Mention(1, 0, 0, 0, model.MentionPronominal).Features = third("neuter", "singular", "inanimate")
		return b.Build()
	}

	rc := prepare(t, build(), defaultResolve())
	assert.Empty(t, Pronominal{}.Propose(rc))

	// A relation makes the indefinite mention a valid target again
	doc := build()
	doc.Mentions[1].PredicateNominatives = []int{0}
	rc = prepare(t, doc, defaultResolve())
	assert.Equal(t, []Merge{{Mention: 2, Antecedent: 1}}, Pronominal{}.Propose(rc))
}

func TestPronominal_SkipsEnclosingMention(t *testing.T) {
	b := testdoc.New("nested")
	b.Sentence("his/PRP$/NMOD/1", "dog/NN/SBJ/2", "barked/VBD/ROOT/-1")
	b.Mention(0, 0, 1, 1, model.MentionNominal)
	b.Mention(0, 0, 0, 0, model.MentionPronominal)

	rc := prepare(t, b.Build(), defaultResolve())
	assert.Empty(t, Pronominal{}.Propose(rc))
}

func TestAgree(t *testing.T) {
	she := &model.Mention{Type: model.MentionPronominal, Features: third("female", "singular", "animate")}
	we := &model.Mention{Type: model.MentionPronominal, Features: model.Features{Person: "first", Number: "plural"}}
	alice := &model.Mention{Type: model.MentionProper, Features: model.Features{Gender: "female"}}
	table := &model.Mention{Type: model.MentionNominal, Features: model.Features{Animacy: "inanimate"}}
	unknown := &model.Mention{Type: model.MentionNominal}

	assert.True(t, Agree(she, alice))
	assert.False(t, Agree(she, table))
	assert.False(t, Agree(we, alice), "non-pronominal mentions are third person")
	assert.True(t, Agree(she, unknown))
	assert.True(t, Agree(she, &model.Mention{Type: model.MentionProper, Features: model.Features{Gender: "UNKNOWN"}}))
}
