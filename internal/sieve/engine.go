package sieve

import (
	"fmt"

	"github.com/ppiankov/corefsieve/internal/model"
	"go.uber.org/zap"
)

// Report summarizes one engine run
type Report struct {
	Merges     map[model.Rule]int
	WeDetached int
}

// Engine applies sieves in a fixed order, then the optional we post-pass
type Engine struct {
	sieves []Sieve
	we     *WeOverride
	logger *zap.Logger
}

// NewEngine creates an engine over the given sieves. Later sieves see the
// merges of earlier ones, so the slice order is the application order.
// we may be nil to disable the post-pass.
func NewEngine(sieves []Sieve, we *WeOverride, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{sieves: sieves, we: we, logger: logger}
}

// FromConfig builds the engine described by the resolve configuration
func FromConfig(cfg model.ResolveConfig, logger *zap.Logger) (*Engine, error) {
	sieves, err := ByName(cfg.Sieves)
	if err != nil {
		return nil, err
	}
	var we *WeOverride
	if cfg.WeOverride {
		we = NewWeOverride(cfg.WeForms)
	}
	return NewEngine(sieves, we, logger), nil
}

// Sieves returns the configured sieves in application order
func (e *Engine) Sieves() []Sieve {
	return e.sieves
}

// Run resolves the context in place. A partition violation aborts the run.
func (e *Engine) Run(rc *Context) (*Report, error) {
	report := &Report{Merges: make(map[model.Rule]int)}

	for _, s := range e.sieves {
		rule := s.Rule()
		for _, mg := range s.Propose(rc) {
			if mg.Mention == mg.Antecedent {
				continue
			}
			merged, err := rc.Clusters.Union(mg.Mention, mg.Antecedent, rule)
			if err != nil {
				return report, fmt.Errorf("sieve %s: %w", rule, err)
			}
			if !merged {
				continue
			}
			report.Merges[rule]++
			e.logger.Debug("Merged",
				zap.String("sieve", string(rule)),
				zap.Int("mention", mg.Mention),
				zap.Int("antecedent", mg.Antecedent))
		}

		if err := rc.Clusters.Verify(); err != nil {
			e.logger.Error("Cluster invariant broken", zap.String("sieve", string(rule)), zap.Error(err))
			return report, fmt.Errorf("sieve %s: %w", rule, err)
		}
	}

	if e.we == nil {
		return report, nil
	}

	detached, err := e.we.Apply(rc)
	if err != nil {
		return report, err
	}
	report.WeDetached = detached
	if err := rc.Clusters.Verify(); err != nil {
		e.logger.Error("Cluster invariant broken", zap.String("sieve", string(model.RuleWeOverride)), zap.Error(err))
		return report, fmt.Errorf("we override: %w", err)
	}
	return report, nil
}
