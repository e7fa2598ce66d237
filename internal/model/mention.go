package model

// MentionType is the upstream spotter's coarse category for a mention
type MentionType string

const (
	MentionPronominal MentionType = "PRONOMINAL" // he, she, it, we, who
	MentionNominal    MentionType = "NOMINAL"    // common noun phrases
	MentionProper     MentionType = "PROPER"     // names
)

// Flags is the bag of boolean detector flags attached by the spotter
type Flags struct {
	Percent    bool `json:"percent,omitempty" yaml:"percent,omitempty"`
	Money      bool `json:"money,omitempty" yaml:"money,omitempty"`
	Demonym    bool `json:"demonym,omitempty" yaml:"demonym,omitempty"`
	Partitive  bool `json:"partitive,omitempty" yaml:"partitive,omitempty"`
	Pleonastic bool `json:"pleonastic,omitempty" yaml:"pleonastic,omitempty"`
	NonWord    bool `json:"nonword,omitempty" yaml:"nonword,omitempty"`
	Indefinite bool `json:"indefinite,omitempty" yaml:"indefinite,omitempty"` // indefinite pronoun or determiner start
}

// Merge ORs the other flag bag into f
func (f *Flags) Merge(other Flags) {
	f.Percent = f.Percent || other.Percent
	f.Money = f.Money || other.Money
	f.Demonym = f.Demonym || other.Demonym
	f.Partitive = f.Partitive || other.Partitive
	f.Pleonastic = f.Pleonastic || other.Pleonastic
	f.NonWord = f.NonWord || other.NonWord
	f.Indefinite = f.Indefinite || other.Indefinite
}

// Features are the agreement attributes used by pronoun resolution.
// An empty value means unknown and agrees with anything.
type Features struct {
	Gender  string `json:"gender,omitempty" yaml:"gender,omitempty"`   // male, female, neuter
	Number  string `json:"number,omitempty" yaml:"number,omitempty"`   // singular, plural
	Person  string `json:"person,omitempty" yaml:"person,omitempty"`   // first, second, third
	Animacy string `json:"animacy,omitempty" yaml:"animacy,omitempty"` // animate, inanimate
}

// Fill copies every attribute of other that is unknown in f
func (f *Features) Fill(other Features) {
	if f.Gender == "" {
		f.Gender = other.Gender
	}
	if f.Number == "" {
		f.Number = other.Number
	}
	if f.Person == "" {
		f.Person = other.Person
	}
	if f.Animacy == "" {
		f.Animacy = other.Animacy
	}
}

// Mention is a candidate coreference span produced upstream
type Mention struct {
	ID   int         `json:"id" yaml:"id"`
	Span Span        `json:"span" yaml:"span"`
	Text string      `json:"text" yaml:"text"`
	Type MentionType `json:"type" yaml:"type"`
	Head *int        `json:"head" yaml:"head"` // Head token id

	// AntecedentHead is the upstream pointer from a relative pronoun to the
	// head token of the phrase it modifies.
	AntecedentHead *int `json:"antecedent_head,omitempty" yaml:"antecedent_head,omitempty"`

	Flags    Flags    `json:"flags" yaml:"flags"`
	Features Features `json:"features" yaml:"features"`

	// Relations filled by the relation extractor
	Appositions          []int `json:"appositions,omitempty" yaml:"appositions,omitempty"`
	PredicateNominatives []int `json:"predicate_nominatives,omitempty" yaml:"predicate_nominatives,omitempty"`
	RelativeAntecedent   *int  `json:"relative_antecedent,omitempty" yaml:"relative_antecedent,omitempty"`
}

// HasHead reports whether the spotter assigned a head token
func (m *Mention) HasHead() bool {
	return m.Head != nil
}

// Clone returns a deep copy of the mention
func (m *Mention) Clone() *Mention {
	c := *m
	c.Head = cloneInt(m.Head)
	c.AntecedentHead = cloneInt(m.AntecedentHead)
	c.RelativeAntecedent = cloneInt(m.RelativeAntecedent)
	c.Appositions = append([]int(nil), m.Appositions...)
	c.PredicateNominatives = append([]int(nil), m.PredicateNominatives...)
	return &c
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int {
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Consumed marks a mention id removed by the filter
type Consumed struct {
	ID         int    `json:"id" yaml:"id"`
	Reason     string `json:"reason" yaml:"reason"`
	ReplacedBy *int   `json:"replaced_by,omitempty" yaml:"replaced_by,omitempty"` // Surviving mention when merged or shrunk
}
