// Package sieve runs the ordered battery of coreference sieves over one
// document. All per-document state lives in a Context; nothing survives
// between documents.
package sieve

import (
	"sort"

	"github.com/ppiankov/corefsieve/internal/cluster"
	"github.com/ppiankov/corefsieve/internal/model"
	"github.com/ppiankov/corefsieve/internal/spanstore"
	"go.uber.org/zap"
)

// Context is the resolution state of a single document
type Context struct {
	Store    *spanstore.Store
	Clusters *cluster.Store
	Config   model.ResolveConfig
	Logger   *zap.Logger

	// Order holds the traversal-ordered mention ids of each sentence
	Order [][]int

	ids      []int // every surviving mention id in document order
	mentions map[int]*model.Mention
}

// NewContext builds the state for one document. mentions are the filtered
// survivors; order is the per-sentence traversal order. Every mention starts
// in its own cluster.
func NewContext(store *spanstore.Store, mentions []*model.Mention, order [][]int, cfg model.ResolveConfig, logger *zap.Logger) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}

	sorted := append([]*model.Mention(nil), mentions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return before(sorted[i], sorted[j])
	})

	rc := &Context{
		Store:    store,
		Config:   cfg,
		Logger:   logger,
		Order:    order,
		ids:      make([]int, len(sorted)),
		mentions: make(map[int]*model.Mention, len(sorted)),
	}
	for i, m := range sorted {
		rc.ids[i] = m.ID
		rc.mentions[m.ID] = m
	}
	rc.Clusters = cluster.NewStore(rc.ids)
	return rc
}

// Mention looks up a surviving mention
func (rc *Context) Mention(id int) (*model.Mention, bool) {
	m, ok := rc.mentions[id]
	return m, ok
}

// IDs returns every surviving mention id in document order
func (rc *Context) IDs() []int {
	return rc.ids
}

// Sequence returns the ordered mention ids of all sentences, sentence by
// sentence. This is the iteration order of every sieve.
func (rc *Context) Sequence() []int {
	var out []int
	for _, ids := range rc.Order {
		out = append(out, ids...)
	}
	return out
}

// FirstInCluster reports whether the mention is the earliest member of its
// current cluster
func (rc *Context) FirstInCluster(id int) bool {
	m, ok := rc.mentions[id]
	if !ok {
		return false
	}
	for _, other := range rc.Clusters.Members(id) {
		if o, ok := rc.mentions[other]; ok && before(o, m) {
			return false
		}
	}
	return true
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
