package sieve

import (
	"fmt"

	"github.com/ppiankov/corefsieve/internal/model"
)

// Merge is a proposed link from a mention to its antecedent
type Merge struct {
	Mention    int
	Antecedent int
}

// Sieve is one matching strategy. Propose must not change cluster
// membership; the engine applies the returned merges in order.
type Sieve interface {
	Rule() model.Rule
	Propose(rc *Context) []Merge
}

// Default returns every sieve in canonical order
func Default() []Sieve {
	return []Sieve{
		ExactMatch{},
		Pronominal{},
		Apposition{},
		PredicateNominative{},
		RelativePronoun{},
	}
}

// ByName returns the named sieves in canonical order, whatever order the
// names are listed in
func ByName(names []string) ([]Sieve, error) {
	enabled := make(map[model.Rule]bool, len(names))
	for _, name := range names {
		rule, ok := model.ParseRule(name)
		if !ok || rule == model.RuleWeOverride {
			return nil, fmt.Errorf("%q: %w", name, model.ErrUnknownSieve)
		}
		enabled[rule] = true
	}

	var out []Sieve
	for _, s := range Default() {
		if enabled[s.Rule()] {
			out = append(out, s)
		}
	}
	return out, nil
}
