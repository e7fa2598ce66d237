package sieve

import (
	"fmt"
	"strings"

	"github.com/ppiankov/corefsieve/internal/model"
	"go.uber.org/zap"
)

// WeOverride collects every first-person-plural author mention into one
// designated cluster after all sieves ran. Mentions are detached from
// whatever cluster they were in, including multi-member chains.
type WeOverride struct {
	forms map[string]bool
}

// NewWeOverride creates the post-pass for the given exact lowercase texts
func NewWeOverride(forms []string) *WeOverride {
	w := &WeOverride{forms: make(map[string]bool, len(forms))}
	for _, f := range forms {
		w.forms[strings.ToLower(strings.TrimSpace(f))] = true
	}
	return w
}

// Matches reports whether the mention text is one of the collected forms
func (w *WeOverride) Matches(text string) bool {
	return w.forms[strings.ToLower(strings.TrimSpace(text))]
}

// Apply moves matching mentions into a fresh cluster in document order. The
// first of them anchors the chain and every move records a rule. It returns
// how many mentions were pulled out of a cluster that kept other members.
func (w *WeOverride) Apply(rc *Context) (int, error) {
	var members []int
	for _, id := range rc.IDs() {
		m, _ := rc.Mention(id)
		if w.Matches(m.Text) {
			members = append(members, id)
		}
	}
	if len(members) == 0 {
		return 0, nil
	}

	target := rc.Clusters.NewCluster()
	anchor := members[0]
	detached := 0
	for _, id := range members {
		record := model.RuleRecord{Rule: model.RuleWeOverride, Mention: id, Antecedent: anchor}
		left, err := rc.Clusters.Reassign(id, target, record)
		if err != nil {
			return detached, fmt.Errorf("we override: %w", err)
		}
		if left {
			detached++
			rc.Logger.Debug("Detached mention into we chain",
				zap.Int("mention", id),
				zap.Int("cluster", target))
		}
	}
	return detached, nil
}
