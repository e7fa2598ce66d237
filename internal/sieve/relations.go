package sieve

import "github.com/ppiankov/corefsieve/internal/model"

// Apposition links a mention to each of its appositives
type Apposition struct{}

// Rule implements Sieve
func (Apposition) Rule() model.Rule { return model.RuleApposition }

// Propose implements Sieve
func (s Apposition) Propose(rc *Context) []Merge {
	return proposeRelated(rc, s.Rule(), func(m *model.Mention) []int {
		return m.Appositions
	})
}

// PredicateNominative links a subject to its predicate nominatives
type PredicateNominative struct{}

// Rule implements Sieve
func (PredicateNominative) Rule() model.Rule { return model.RulePredicateNom }

// Propose implements Sieve
func (s PredicateNominative) Propose(rc *Context) []Merge {
	return proposeRelated(rc, s.Rule(), func(m *model.Mention) []int {
		return m.PredicateNominatives
	})
}

// RelativePronoun links a relative pronoun to the phrase it modifies
type RelativePronoun struct{}

// Rule implements Sieve
func (RelativePronoun) Rule() model.Rule { return model.RuleRelativePron }

// Propose implements Sieve
func (s RelativePronoun) Propose(rc *Context) []Merge {
	return proposeRelated(rc, s.Rule(), func(m *model.Mention) []int {
		if m.RelativeAntecedent == nil {
			return nil
		}
		return []int{*m.RelativeAntecedent}
	})
}

func proposeRelated(rc *Context, rule model.Rule, partners func(*model.Mention) []int) []Merge {
	var merges []Merge
	for _, id := range rc.Sequence() {
		m, _ := rc.Mention(id)
		related := partners(m)
		if len(related) == 0 || !rc.Eligible(rule, id) {
			continue
		}
		for _, p := range related {
			if _, ok := rc.Mention(p); ok {
				merges = append(merges, Merge{Mention: id, Antecedent: p})
			}
		}
	}
	return merges
}
