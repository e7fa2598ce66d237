package model

// Rule identifies the sieve (or post-pass) that produced a merge
type Rule string

const (
	RuleExactMatch   Rule = "exact_match"
	RulePronominal   Rule = "pronominal"
	RuleApposition   Rule = "apposition"
	RulePredicateNom Rule = "predicate_nominative"
	RuleRelativePron Rule = "relative_pronoun"
	RuleWeOverride   Rule = "we_override"
)

// RuleOrder is the canonical application order, post-pass last
var RuleOrder = []Rule{
	RuleExactMatch,
	RulePronominal,
	RuleApposition,
	RulePredicateNom,
	RuleRelativePron,
	RuleWeOverride,
}

// Code returns the one-letter code used in chain signatures
func (r Rule) Code() string {
	switch r {
	case RuleExactMatch:
		return "E"
	case RulePronominal:
		return "P"
	case RuleApposition:
		return "A"
	case RulePredicateNom:
		return "N"
	case RuleRelativePron:
		return "R"
	case RuleWeOverride:
		return "W"
	default:
		return "?"
	}
}

// ParseRule maps a configured sieve name to its rule
func ParseRule(name string) (Rule, bool) {
	for _, r := range RuleOrder {
		if string(r) == name {
			return r, true
		}
	}
	return "", false
}

// RuleRecord is the audit note for one successful merge
type RuleRecord struct {
	Rule       Rule `json:"rule" yaml:"rule"`
	Mention    int  `json:"mention" yaml:"mention"`
	Antecedent int  `json:"antecedent" yaml:"antecedent"`
}
