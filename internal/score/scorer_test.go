package score

import (
	"testing"

	"github.com/ppiankov/corefsieve/internal/model"
)

func TestScorer_Calculate_CleanRun(t *testing.T) {
	scorer := NewScorer()

	stats := model.Stats{
		Sentences:     4,
		InputMentions: 10,
		Surviving:     8,
		Dropped:       map[string]int{"blank": 2},
	}

	result := scorer.Calculate(stats)

	if result.Degraded {
		t.Error("Expected clean run not to be degraded")
	}

	// missing_root and filter_drop are always reported
	if len(result.Signals) != 2 {
		t.Errorf("Expected 2 signals, got %d", len(result.Signals))
	}

	for _, signal := range result.Signals {
		if signal.Type == model.SignalFilterDrop {
			if signal.Data["dropped_blank"] != 2 {
				t.Errorf("Expected dropped_blank=2, got %v", signal.Data["dropped_blank"])
			}
		}
	}
}

func TestScorer_Calculate_MissingRoot(t *testing.T) {
	scorer := NewScorer()

	result := scorer.Calculate(model.Stats{Sentences: 4, MissingRoot: 1})

	if !result.Degraded {
		t.Error("Expected run with a missing root to be degraded")
	}
	if result.Signals[0].Type != model.SignalMissingRoot {
		t.Fatalf("Expected first signal to be missing_root, got %s", result.Signals[0].Type)
	}
	if result.Signals[0].Severity != model.SeverityWarning {
		t.Errorf("Expected warning severity, got %s", result.Signals[0].Severity)
	}

	result = scorer.Calculate(model.Stats{Sentences: 4, MissingRoot: 3})
	if result.Signals[0].Severity != model.SeverityCritical {
		t.Errorf("Expected critical severity when most sentences lack a root, got %s", result.Signals[0].Severity)
	}
}

func TestScorer_Calculate_MissingHead(t *testing.T) {
	scorer := NewScorer()

	result := scorer.Calculate(model.Stats{Sentences: 1, InputMentions: 4, Surviving: 4, MissingHead: 2})

	found := false
	for _, signal := range result.Signals {
		if signal.Type == model.SignalMissingHead {
			found = true
			if signal.Severity != model.SeverityCritical {
				t.Errorf("Expected critical severity for 50%% missing heads, got %s", signal.Severity)
			}
		}
	}
	if !found {
		t.Error("Expected missing_head signal")
	}
}

func TestScorer_Calculate_Empty(t *testing.T) {
	scorer := NewScorer()

	// Should not panic on an empty document
	result := scorer.Calculate(model.Stats{})

	if result.Degraded {
		t.Error("Expected empty document not to be degraded")
	}
}

func TestScorer_Calculate_WeOverride(t *testing.T) {
	scorer := NewScorer()

	result := scorer.Calculate(model.Stats{Sentences: 2, WeDetached: 2, SharedHeadTies: 1})

	types := make(map[model.SignalType]bool)
	for _, signal := range result.Signals {
		types[signal.Type] = true
	}
	if !types[model.SignalWeOverride] {
		t.Error("Expected we_override signal")
	}
	if !types[model.SignalHeadTies] {
		t.Error("Expected head_ties signal")
	}
}
