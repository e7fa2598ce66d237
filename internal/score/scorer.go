package score

import (
	"fmt"

	"github.com/ppiankov/corefsieve/internal/model"
)

// Scorer turns run statistics into degraded-quality signals
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate generates diagnostic signals for a resolution run
func (s *Scorer) Calculate(stats model.Stats) model.Diagnostics {
	var signals []model.Signal

	// 1. Sentences ordered without a unique root
	signals = append(signals, s.missingRoot(stats))

	// 2. Mentions without a head token
	if sig := s.missingHead(stats); sig.Type != "" {
		signals = append(signals, sig)
	}

	// 3. Candidates removed by filtering
	signals = append(signals, s.filterDrop(stats))

	// 4. Mentions sharing a traversal position
	if stats.SharedHeadTies > 0 {
		signals = append(signals, model.Signal{
			Type:        model.SignalHeadTies,
			Severity:    model.SeverityInfo,
			Description: fmt.Sprintf("%d mentions ordered by length tie-break", stats.SharedHeadTies),
			Data:        map[string]interface{}{"ties": stats.SharedHeadTies},
		})
	}

	// 5. We post-pass detachments
	if stats.WeDetached > 0 {
		signals = append(signals, model.Signal{
			Type:        model.SignalWeOverride,
			Severity:    model.SeverityInfo,
			Description: fmt.Sprintf("%d mentions detached into the we chain", stats.WeDetached),
			Data:        map[string]interface{}{"detached": stats.WeDetached},
		})
	}

	degraded := false
	for _, sig := range signals {
		if sig.Severity != model.SeverityInfo {
			degraded = true
			break
		}
	}

	return model.Diagnostics{Degraded: degraded, Signals: signals}
}

// missingRoot reports the share of sentences ordered by fallback
func (s *Scorer) missingRoot(stats model.Stats) model.Signal {
	if stats.Sentences == 0 {
		return model.Signal{
			Type:        model.SignalMissingRoot,
			Severity:    model.SeverityInfo,
			Description: "No sentences",
			Data:        map[string]interface{}{"sentences": 0},
		}
	}

	ratio := float64(stats.MissingRoot) / float64(stats.Sentences)

	severity := model.SeverityInfo
	if ratio > 0.5 {
		severity = model.SeverityCritical
	} else if stats.MissingRoot > 0 {
		severity = model.SeverityWarning
	}

	return model.Signal{
		Type:        model.SignalMissingRoot,
		Severity:    severity,
		Description: fmt.Sprintf("Fallback ordering: %d/%d sentences", stats.MissingRoot, stats.Sentences),
		Data: map[string]interface{}{
			"missing_root": stats.MissingRoot,
			"sentences":    stats.Sentences,
			"ratio":        ratio,
			"formula":      "missing_root / sentences",
		},
	}
}

// missingHead reports mentions left as unresolved singletons
func (s *Scorer) missingHead(stats model.Stats) model.Signal {
	if stats.MissingHead == 0 {
		return model.Signal{}
	}

	ratio := 0.0
	if stats.Surviving > 0 {
		ratio = float64(stats.MissingHead) / float64(stats.Surviving)
	}

	severity := model.SeverityWarning
	if ratio > 0.25 {
		severity = model.SeverityCritical
	}

	return model.Signal{
		Type:        model.SignalMissingHead,
		Severity:    severity,
		Description: fmt.Sprintf("%d mentions without a head token", stats.MissingHead),
		Data: map[string]interface{}{
			"missing_head": stats.MissingHead,
			"surviving":    stats.Surviving,
			"ratio":        ratio,
		},
	}
}

// filterDrop reports how much of the candidate set filtering removed
func (s *Scorer) filterDrop(stats model.Stats) model.Signal {
	dropped := stats.InputMentions - stats.Surviving
	if dropped < 0 {
		dropped = 0
	}

	ratio := 0.0
	if stats.InputMentions > 0 {
		ratio = float64(dropped) / float64(stats.InputMentions)
	}

	severity := model.SeverityInfo
	if ratio > 0.75 {
		severity = model.SeverityWarning
	}

	data := map[string]interface{}{
		"input":     stats.InputMentions,
		"surviving": stats.Surviving,
		"ratio":     ratio,
		"shrunk":    stats.Shrunk,
		"formula":   "(input - surviving) / input",
	}
	for reason, n := range stats.Dropped {
		data["dropped_"+reason] = n
	}

	return model.Signal{
		Type:        model.SignalFilterDrop,
		Severity:    severity,
		Description: fmt.Sprintf("Filtering kept %d/%d candidates", stats.Surviving, stats.InputMentions),
		Data:        data,
	}
}
