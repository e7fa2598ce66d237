// Package chain renders resolved clusters into output chain records.
package chain

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/corefsieve/internal/cluster"
	"github.com/ppiankov/corefsieve/internal/model"
)

const ellipsis = "..."

// Emitter turns multi-member clusters into chains
type Emitter struct {
	nameMax int
}

// NewEmitter creates an emitter that truncates names to nameMax runes
func NewEmitter(nameMax int) *Emitter {
	if nameMax <= 0 {
		nameMax = 15
	}
	return &Emitter{nameMax: nameMax}
}

// Emit returns one chain per cluster with more than one member, in arena
// order. Arena order is the document order of the first mention of each
// cluster except where the we post-pass moved mentions out.
func (e *Emitter) Emit(store *cluster.Store, mentions map[int]*model.Mention) []model.Chain {
	var chains []model.Chain
	for idx := 0; idx < store.Len(); idx++ {
		members := store.Cluster(idx)
		if len(members) < 2 {
			continue
		}

		sort.Slice(members, func(i, j int) bool {
			a, b := mentions[members[i]], mentions[members[j]]
			if a.Span.Start != b.Span.Start {
				return a.Span.Start < b.Span.Start
			}
			if a.Span.End != b.Span.End {
				return a.Span.End < b.Span.End
			}
			return a.ID < b.ID
		})

		var rules []model.RuleRecord
		for _, id := range members {
			rules = append(rules, store.Rules(id)...)
		}

		chains = append(chains, model.Chain{
			ID:        len(chains),
			Mentions:  members,
			Name:      e.DisplayName(mentions[members[0]].Text),
			Size:      len(members),
			Signature: Signature(rules),
		})
	}
	return chains
}

// DisplayName strips separators from text and truncates it
func (e *Emitter) DisplayName(text string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\n', '\r', '|', ';':
			return ' '
		}
		return r
	}, text)
	name = strings.Join(strings.Fields(name), " ")

	if utf8.RuneCountInString(name) <= e.nameMax {
		return name
	}
	runes := []rune(name)
	return string(runes[:e.nameMax]) + ellipsis
}

// Signature counts rule records per rule in canonical order, e.g. "E2P1"
func Signature(rules []model.RuleRecord) string {
	counts := make(map[model.Rule]int)
	for _, r := range rules {
		counts[r.Rule]++
	}

	var b strings.Builder
	for _, rule := range model.RuleOrder {
		if n := counts[rule]; n > 0 {
			fmt.Fprintf(&b, "%s%d", rule.Code(), n)
		}
	}
	return b.String()
}
