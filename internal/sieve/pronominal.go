package sieve

import (
	"strings"

	"github.com/ppiankov/corefsieve/internal/model"
)

// Pronominal links a pronoun to the closest preceding mention that agrees
// with it in gender, number, person and animacy. The current sentence is
// searched in traversal order up to the pronoun, then earlier sentences,
// nearest first, within the configured window.
type Pronominal struct{}

// Rule implements Sieve
func (Pronominal) Rule() model.Rule { return model.RulePronominal }

// Propose implements Sieve
func (s Pronominal) Propose(rc *Context) []Merge {
	var merges []Merge
	for si, ids := range rc.Order {
		for pos, id := range ids {
			m, _ := rc.Mention(id)
			if m.Type != model.MentionPronominal || isRelativePronoun(rc, m) {
				continue
			}
			if !rc.Eligible(s.Rule(), id) {
				continue
			}
			if ante, ok := s.antecedent(rc, si, pos, m); ok {
				merges = append(merges, Merge{Mention: id, Antecedent: ante})
			}
		}
	}
	return merges
}

func (s Pronominal) antecedent(rc *Context, sentence, pos int, m *model.Mention) (int, bool) {
	if id, ok := s.scan(rc, rc.Order[sentence][:pos], m); ok {
		return id, true
	}
	window := rc.Config.PronounWindow
	for d := 1; d <= window && sentence-d >= 0; d++ {
		if id, ok := s.scan(rc, rc.Order[sentence-d], m); ok {
			return id, true
		}
	}
	return 0, false
}

func (Pronominal) scan(rc *Context, candidates []int, m *model.Mention) (int, bool) {
	for _, id := range candidates {
		c, ok := rc.Mention(id)
		if !ok || c.ID == m.ID {
			continue
		}
		// Indefinite mentions are never proposed as targets
		if IndefiniteWithoutRelations(c) || isRelativePronoun(rc, c) {
			continue
		}
		if c.Span.Contains(m.Span) || m.Span.Contains(c.Span) {
			continue
		}
		if Agree(m, c) {
			return id, true
		}
	}
	return 0, false
}

// Agree reports whether two mentions are compatible on every agreement
// feature. Unknown values agree with anything; non-pronominal mentions
// without a person are third person.
func Agree(a, b *model.Mention) bool {
	return agree(a.Features.Gender, b.Features.Gender) &&
		agree(a.Features.Number, b.Features.Number) &&
		agree(personOf(a), personOf(b)) &&
		agree(a.Features.Animacy, b.Features.Animacy)
}

func agree(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == "" || b == "" || a == "unknown" || b == "unknown" {
		return true
	}
	return a == b
}

func personOf(m *model.Mention) string {
	if m.Features.Person != "" {
		return m.Features.Person
	}
	if m.Type != model.MentionPronominal {
		return "third"
	}
	return ""
}

func isRelativePronoun(rc *Context, m *model.Mention) bool {
	if m.RelativeAntecedent != nil || m.AntecedentHead != nil {
		return true
	}
	tok, err := rc.Store.HeadToken(m)
	return err == nil && strings.HasPrefix(tok.POS, "W")
}
