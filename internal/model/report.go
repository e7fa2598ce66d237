package model

import "time"

// Result is the complete output of resolving one document
type Result struct {
	DocumentID string    `json:"document_id"`
	RunID      string    `json:"run_id"`      // Unique per resolution, excluded from chain output
	ResolvedAt time.Time `json:"resolved_at"` // When the run finished

	Chains   []Chain      `json:"chains"`             // Multi-member clusters in emission order
	Trace    []RuleRecord `json:"trace"`              // Every merge in application order
	Consumed []Consumed   `json:"consumed,omitempty"` // Mention ids deleted or replaced by filtering

	Stats       Stats       `json:"stats"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// Chain is one output coreference chain
type Chain struct {
	ID        int    `json:"id"`
	Mentions  []int  `json:"mentions"` // Member mention ids in document order
	Name      string `json:"name"`     // Display name from the first member
	Size      int    `json:"size"`
	Signature string `json:"signature"` // Rule counts, e.g. "E2P1"
}

// Stats counts what happened during a resolution run
type Stats struct {
	Sentences      int            `json:"sentences"`
	InputMentions  int            `json:"input_mentions"`
	Surviving      int            `json:"surviving_mentions"`
	Dropped        map[string]int `json:"dropped,omitempty"` // Filter drops by reason
	Shrunk         int            `json:"shrunk"`
	MissingRoot    int            `json:"missing_root"`     // Sentences ordered by fallback
	MissingHead    int            `json:"missing_head"`     // Mentions left unordered
	SharedHeadTies int            `json:"shared_head_ties"` // Mentions ordered by length tie-break
	Merges         map[Rule]int   `json:"merges,omitempty"`
	WeDetached     int            `json:"we_detached"` // Mentions pulled out of another multi-member cluster
}

// Diagnostics contains degraded-quality signals for a run
type Diagnostics struct {
	Degraded bool     `json:"degraded"`
	Signals  []Signal `json:"signals"`
}

// Signal represents a diagnostic signal with transparent data
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// SignalType classifies the type of diagnostic signal
type SignalType string

const (
	SignalMissingRoot SignalType = "missing_root" // Sentences without a unique dependency root
	SignalMissingHead SignalType = "missing_head" // Mentions without a resolvable head token
	SignalFilterDrop  SignalType = "filter_drop"  // Share of candidates removed by filtering
	SignalWeOverride  SignalType = "we_override"  // Mentions detached by the we post-pass
	SignalHeadTies    SignalType = "head_ties"    // Mentions sharing a traversal position
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)
