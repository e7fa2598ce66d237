// Package relation derives same-sentence syntactic relations between
// mentions: apposition, predicate nominative and relative pronoun.
package relation

import (
	"context"
	"sort"

	"github.com/ppiankov/corefsieve/internal/model"
	"github.com/ppiankov/corefsieve/internal/spanstore"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Extractor records relations on the mentions themselves
type Extractor struct {
	parallel bool
	workers  int
	logger   *zap.Logger
}

// NewExtractor creates a relation extractor. With parallel set, sentences
// are processed concurrently by up to workers goroutines.
func NewExtractor(parallel bool, workers int, logger *zap.Logger) *Extractor {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{parallel: parallel, workers: workers, logger: logger}
}

// Extract fills Appositions, PredicateNominatives and RelativeAntecedent.
// sentences holds the mention ids of each sentence; byID resolves them.
// Every sentence touches only its own mentions, so the result does not
// depend on scheduling.
func (e *Extractor) Extract(ctx context.Context, store *spanstore.Store, sentences [][]int, byID map[int]*model.Mention) error {
	if !e.parallel {
		for si, ids := range sentences {
			if err := ctx.Err(); err != nil {
				return err
			}
			e.extractSentence(store, si, ids, byID)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for si, ids := range sentences {
		si, ids := si, ids
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			e.extractSentence(store, si, ids, byID)
			return nil
		})
	}
	return g.Wait()
}

func (e *Extractor) extractSentence(store *spanstore.Store, sentence int, ids []int, byID map[int]*model.Mention) {
	// Pairs are visited in document order so relation lists are stable
	// regardless of the traversal order of ids.
	mentions := make([]*model.Mention, 0, len(ids))
	heads := make(map[int]*model.Token, len(ids))
	for _, id := range ids {
		m := byID[id]
		tok, err := store.HeadToken(m)
		if err != nil {
			continue
		}
		mentions = append(mentions, m)
		heads[m.ID] = tok
	}
	sortByOffset(mentions)

	for _, a := range mentions {
		ha := heads[a.ID]
		for _, b := range mentions {
			if a == b {
				continue
			}
			hb := heads[b.ID]

			if IsApposition(ha, hb) {
				a.Appositions = append(a.Appositions, b.ID)
				e.logRelation("apposition", sentence, a, b)
			}
			if IsPredicateNominative(ha, hb) {
				a.PredicateNominatives = append(a.PredicateNominatives, b.ID)
				e.logRelation("predicate_nominative", sentence, a, b)
			}
			if b.AntecedentHead != nil && *b.AntecedentHead == ha.ID {
				b.RelativeAntecedent = model.IntPtr(a.ID)
				e.logRelation("relative_pronoun", sentence, a, b)
			}
		}
	}
}

// IsApposition reports whether b's head is an appositive attached to a's head
func IsApposition(a, b *model.Token) bool {
	return b.DepLabel == model.DepApposition && b.Head != nil && *b.Head == a.ID
}

// IsPredicateNominative reports whether b's head is a predicate sharing a's governor
func IsPredicateNominative(a, b *model.Token) bool {
	if a.Head == nil || b.Head == nil || *a.Head != *b.Head {
		return false
	}
	return b.DepLabel == model.DepPredicate || b.DepLabel == model.DepObjPred
}

func (e *Extractor) logRelation(kind string, sentence int, a, b *model.Mention) {
	e.logger.Debug("Relation",
		zap.String("kind", kind),
		zap.Int("sentence", sentence),
		zap.Int("mention", a.ID),
		zap.Int("partner", b.ID))
}

func sortByOffset(ms []*model.Mention) {
	sort.Slice(ms, func(i, j int) bool {
		return before(ms[i], ms[j])
	})
}

func before(a, b *model.Mention) bool {
	if a.Span.Start != b.Span.Start {
		return a.Span.Start < b.Span.Start
	}
	if a.Span.End != b.Span.End {
		return a.Span.End < b.Span.End
	}
	return a.ID < b.ID
}
