// Package order computes the per-sentence mention order that seeds every
// sieve: a subject-first depth-first walk of the dependency tree.
package order

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/ppiankov/corefsieve/internal/model"
	"github.com/ppiankov/corefsieve/internal/spanstore"
	"go.uber.org/zap"
)

// Result holds the ordered mention ids per sentence index
type Result struct {
	Sentences   [][]int
	MissingRoot []int // Sentence indexes ordered by fallback
	MissingHead []int // Mention ids left out of every sentence
	HeadTies    int   // Mentions that shared a traversal position
}

// Orderer orders mentions by dependency traversal
type Orderer struct {
	fallback string
	logger   *zap.Logger
}

// NewOrderer creates an orderer. fallback is model.FallbackReverse or
// model.FallbackDocument.
func NewOrderer(fallback string, logger *zap.Logger) (*Orderer, error) {
	switch fallback {
	case "":
		fallback = model.FallbackReverse
	case model.FallbackReverse, model.FallbackDocument:
	default:
		return nil, fmt.Errorf("unknown fallback order %q", fallback)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orderer{fallback: fallback, logger: logger}, nil
}

// Order groups mentions by sentence and orders each group
func (o *Orderer) Order(store *spanstore.Store, mentions []*model.Mention) *Result {
	sentences := store.Sentences()
	res := &Result{Sentences: make([][]int, len(sentences))}

	grouped := make([][]*model.Mention, len(sentences))
	for _, m := range mentions {
		if _, err := store.HeadToken(m); err != nil {
			res.MissingHead = append(res.MissingHead, m.ID)
			o.logger.Debug("Mention excluded from ordering",
				zap.Int("mention", m.ID),
				zap.Error(err))
			continue
		}
		si, _ := store.SentenceOfToken(*m.Head)
		grouped[si] = append(grouped[si], m)
	}

	for si := range sentences {
		group := grouped[si]
		sort.SliceStable(group, func(i, j int) bool {
			return byOffset(group[i], group[j])
		})

		roots := store.Roots(si)
		if len(roots) != 1 {
			res.MissingRoot = append(res.MissingRoot, si)
			o.logger.Warn("Ordering sentence by fallback",
				zap.Int("sentence", sentences[si].ID),
				zap.Int("roots", len(roots)),
				zap.String("fallback", o.fallback),
				zap.Error(model.ErrMissingRoot))
			res.Sentences[si] = o.fallbackOrder(group)
			continue
		}

		ids, ties := o.treeOrder(store, roots[0], group, sentences[si].ID)
		res.Sentences[si] = ids
		res.HeadTies += ties
	}

	return res
}

func (o *Orderer) fallbackOrder(group []*model.Mention) []int {
	ids := make([]int, len(group))
	for i, m := range group {
		ids[i] = m.ID
	}
	if o.fallback == model.FallbackReverse {
		for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
			ids[i], ids[j] = ids[j], ids[i]
		}
	}
	return ids
}

// treeOrder sorts the group by traversal position of the head token.
// Equal positions order shortest first; heads the walk never reaches keep
// document order after everything else.
func (o *Orderer) treeOrder(store *spanstore.Store, root int, group []*model.Mention, sentenceID int) ([]int, int) {
	position := make(map[int]int)
	for i, tok := range Traverse(store, root) {
		position[tok] = i
	}

	pos := func(m *model.Mention) int {
		if p, ok := position[*m.Head]; ok {
			return p
		}
		return len(position)
	}

	sort.SliceStable(group, func(i, j int) bool {
		pi, pj := pos(group[i]), pos(group[j])
		if pi != pj {
			return pi < pj
		}
		li, lj := utf8.RuneCountInString(group[i].Text), utf8.RuneCountInString(group[j].Text)
		if li != lj {
			return li < lj
		}
		return byOffset(group[i], group[j])
	})

	ties := 0
	ids := make([]int, len(group))
	for i, m := range group {
		ids[i] = m.ID
		if i > 0 && pos(group[i-1]) == pos(m) && pos(m) < len(position) {
			ties++
			o.logger.Warn("Mentions share a head position",
				zap.Int("sentence", sentenceID),
				zap.Int("mention", m.ID),
				zap.Int("previous", group[i-1].ID))
		}
	}
	return ids, ties
}

// Traverse walks the dependency tree from root: the node, then its SBJ
// dependents, then all other dependents, each group in offset order.
func Traverse(store *spanstore.Store, root int) []int {
	var out []int
	visited := make(map[int]bool)

	var walk func(int)
	walk = func(id int) {
		if visited[id] {
			return
		}
		visited[id] = true
		out = append(out, id)

		children := store.Children(id)
		for _, c := range children {
			if tok, ok := store.Token(c); ok && tok.DepLabel == model.DepSubject {
				walk(c)
			}
		}
		for _, c := range children {
			if tok, ok := store.Token(c); ok && tok.DepLabel != model.DepSubject {
				walk(c)
			}
		}
	}

	walk(root)
	return out
}

func byOffset(a, b *model.Mention) bool {
	if a.Span.Start != b.Span.Start {
		return a.Span.Start < b.Span.Start
	}
	if a.Span.End != b.Span.End {
		return a.Span.End < b.Span.End
	}
	return a.ID < b.ID
}
