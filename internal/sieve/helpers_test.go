package sieve

import (
	"context"
	"testing"

	"github.com/ppiankov/corefsieve/internal/model"
	"github.com/ppiankov/corefsieve/internal/order"
	"github.com/ppiankov/corefsieve/internal/relation"
	"github.com/ppiankov/corefsieve/internal/spanstore"
	"github.com/stretchr/testify/require"
)

// prepare orders the document's mentions and extracts relations, skipping
// the filter so mention ids stay as built
func prepare(t *testing.T, doc *model.Document, cfg model.ResolveConfig) *Context {
	t.Helper()
	store := spanstore.New(doc)

	o, err := order.NewOrderer(cfg.FallbackOrder, nil)
	require.NoError(t, err)
	ordered := o.Order(store, doc.Mentions)

	byID := make(map[int]*model.Mention, len(doc.Mentions))
	for _, m := range doc.Mentions {
		byID[m.ID] = m
	}
	require.NoError(t, relation.NewExtractor(false, 1, nil).Extract(context.Background(), store, ordered.Sentences, byID))

	return NewContext(store, doc.Mentions, ordered.Sentences, cfg, nil)
}

func defaultResolve() model.ResolveConfig {
	return model.DefaultConfig().Resolve
}

func run(t *testing.T, rc *Context, sieves []Sieve, we *WeOverride) *Report {
	t.Helper()
	report, err := NewEngine(sieves, we, nil).Run(rc)
	require.NoError(t, err)
	return report
}

func third(gender, number, animacy string) model.Features {
	return model.Features{Gender: gender, Number: number, Person: "third", Animacy: animacy}
}
