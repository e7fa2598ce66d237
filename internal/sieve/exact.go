package sieve

import (
	"strings"

	"github.com/ppiankov/corefsieve/internal/model"
)

// ExactMatch links mentions with identical normalized text to the first
// mention with that text
type ExactMatch struct{}

// Rule implements Sieve
func (ExactMatch) Rule() model.Rule { return model.RuleExactMatch }

// Propose implements Sieve
func (s ExactMatch) Propose(rc *Context) []Merge {
	var merges []Merge
	first := make(map[string]int)

	for _, id := range rc.Sequence() {
		if !rc.Eligible(s.Rule(), id) {
			continue
		}
		m, _ := rc.Mention(id)
		key := Normalize(m.Text)
		if key == "" {
			continue
		}
		if ante, ok := first[key]; ok {
			merges = append(merges, Merge{Mention: id, Antecedent: ante})
			continue
		}
		first[key] = id
	}
	return merges
}

// Normalize lowercases text and collapses whitespace
func Normalize(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}
