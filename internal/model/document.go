package model

// Span is a half-open byte offset range into the document text
type Span struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Len returns the number of bytes covered by the span
func (s Span) Len() int {
	return s.End - s.Start
}

// Valid reports whether the span is non-empty and not inverted
func (s Span) Valid() bool {
	return s.Start >= 0 && s.End > s.Start
}

// Contains reports whether other lies fully inside s
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Token is one parsed token with its dependency arc
type Token struct {
	ID       int    `json:"id" yaml:"id"`
	Span     Span   `json:"span" yaml:"span"`
	Text     string `json:"text" yaml:"text"`
	Lemma    string `json:"lemma,omitempty" yaml:"lemma,omitempty"`
	POS      string `json:"pos" yaml:"pos"`
	DepLabel string `json:"dep" yaml:"dep"`
	Head     *int   `json:"head" yaml:"head"` // nil only for the sentence root
}

// Dependency labels consumed by ordering and relation extraction
const (
	DepRoot       = "ROOT"
	DepSubject    = "SBJ"
	DepApposition = "APPO"
	DepPredicate  = "PRD"
	DepObjPred    = "OPRD"
)

// Sentence is an ordered run of tokens
type Sentence struct {
	ID     int     `json:"id" yaml:"id"`
	Span   Span    `json:"span" yaml:"span"`
	Tokens []Token `json:"tokens" yaml:"tokens"`
}

// Document is the annotated input consumed by the resolver
type Document struct {
	ID        string     `json:"id" yaml:"id"`
	Text      string     `json:"text" yaml:"text"`
	Sentences []Sentence `json:"sentences" yaml:"sentences"`
	Mentions  []*Mention `json:"mentions" yaml:"mentions"`
	Citations []Span     `json:"citations,omitempty" yaml:"citations,omitempty"` // Inline citation spans to exclude
}

// Clone returns a copy whose mentions can be mutated without touching d.
// Sentences and tokens are immutable and shared.
func (d *Document) Clone() *Document {
	c := *d
	c.Mentions = make([]*Mention, len(d.Mentions))
	for i, m := range d.Mentions {
		c.Mentions[i] = m.Clone()
	}
	c.Citations = append([]Span(nil), d.Citations...)
	return &c
}
