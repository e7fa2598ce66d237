package sieve

import (
	"strings"

	"github.com/ppiankov/corefsieve/internal/model"
	"go.uber.org/zap"
)

// Skip reasons
const (
	SkipNotFirst          = "not_first_in_cluster"
	SkipIndefiniteArticle = "indefinite_article"
	SkipIndefiniteFlag    = "indefinite_flag"
	SkipIndefinitePronoun = "indefinite_pronoun"
)

var indefinitePronouns = []string{
	"anybody", "anyone", "anything", "anywhere",
	"everybody", "everyone", "everything", "everywhere",
	"nobody", "no one", "none", "nothing", "nowhere",
	"somebody", "someone", "something", "somewhere",
}

// SkipReason applies the shared skip policy to a mention attempted by the
// sieve producing rule. It returns "" when the mention is eligible.
func SkipReason(rc *Context, rule model.Rule, m *model.Mention) string {
	switch rule {
	case model.RuleExactMatch, model.RuleRelativePron, model.RulePredicateNom, model.RuleApposition:
	default:
		if !rc.FirstInCluster(m.ID) {
			return SkipNotFirst
		}
	}

	switch rule {
	case model.RuleExactMatch, model.RuleApposition, model.RulePronominal:
		return ""
	}

	if IndefiniteWithoutRelations(m) {
		return SkipIndefiniteArticle
	}
	if m.Flags.Indefinite {
		return SkipIndefiniteFlag
	}
	if StartsWithIndefinitePronoun(m.Text) {
		return SkipIndefinitePronoun
	}
	return ""
}

// Eligible applies the skip policy and logs skipped mentions
func (rc *Context) Eligible(rule model.Rule, id int) bool {
	m, ok := rc.Mention(id)
	if !ok {
		return false
	}
	if reason := SkipReason(rc, rule, m); reason != "" {
		rc.Logger.Debug("Skipped mention",
			zap.String("sieve", string(rule)),
			zap.Int("mention", id),
			zap.String("reason", reason))
		return false
	}
	return true
}

// IndefiniteWithoutRelations reports a mention opening with "a" or "an"
// that no apposition or predicate nominative ties to anything
func IndefiniteWithoutRelations(m *model.Mention) bool {
	return StartsWithIndefiniteArticle(m.Text) && len(m.Appositions) == 0 && len(m.PredicateNominatives) == 0
}

// StartsWithIndefiniteArticle reports whether the first word is "a" or "an"
func StartsWithIndefiniteArticle(text string) bool {
	first := firstWord(text)
	return first == "a" || first == "an"
}

// StartsWithIndefinitePronoun reports whether the text opens with an
// indefinite pronoun such as "someone" or "no one"
func StartsWithIndefinitePronoun(text string) bool {
	lower := strings.ToLower(strings.Join(strings.Fields(text), " "))
	for _, p := range indefinitePronouns {
		if lower == p || strings.HasPrefix(lower, p+" ") {
			return true
		}
	}
	return false
}

func firstWord(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}
