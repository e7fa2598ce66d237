// Package filter prunes candidate mentions before resolution: heuristic
// rejection, longest-mention-per-head deduplication and span shrinking.
package filter

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/corefsieve/internal/model"
	"github.com/ppiankov/corefsieve/internal/spanstore"
	"go.uber.org/zap"
)

// Drop reasons reported in Result.Dropped and model.Consumed
const (
	ReasonBlank         = "blank"
	ReasonMalformed     = "malformed_span"
	ReasonShortPronoun  = "short_pronoun"
	ReasonTwoLowercase  = "two_lowercase"
	ReasonPercent       = "flag_percent"
	ReasonMoney         = "flag_money"
	ReasonDemonym       = "flag_demonym"
	ReasonPartitive     = "flag_partitive"
	ReasonPleonastic    = "flag_pleonastic"
	ReasonNonWord       = "flag_nonword"
	ReasonCitation      = "citation"
	ReasonDuplicateHead = "duplicate_head"
	ReasonShrunk        = "shrunk"
	ReasonShrunkMerged  = "shrunk_into_existing"
)

// maxRounds bounds the fixed-point loop; every extra round needs a shrink,
// and spans only get shorter.
const maxRounds = 64

// Result is the filtered mention set plus what was removed
type Result struct {
	Mentions []*model.Mention
	Consumed []model.Consumed
	Dropped  map[string]int
	Shrunk   int
}

// Filter removes mentions that should not take part in resolution
type Filter struct {
	logger *zap.Logger
}

// NewFilter creates a new mention filter
func NewFilter(logger *zap.Logger) *Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filter{logger: logger}
}

// Apply runs reject, dedup and shrink until nothing changes. Shrunk
// mentions are edited in place or replaced by fresh ids, so applying the
// filter to its own output is a no-op.
func (f *Filter) Apply(store *spanstore.Store, mentions []*model.Mention) *Result {
	r := &Result{Dropped: make(map[string]int)}

	nextID := 0
	for _, m := range mentions {
		if m.ID >= nextID {
			nextID = m.ID + 1
		}
	}

	current := append([]*model.Mention(nil), mentions...)
	for round := 0; round < maxRounds; round++ {
		current = f.reject(store, current, r)
		current = f.dedupHeads(current, r)

		var changed bool
		current, changed = f.shrink(store, current, &nextID, r)
		if !changed {
			break
		}
	}

	sort.SliceStable(current, func(i, j int) bool {
		return lessByOffset(current[i], current[j])
	})
	r.Mentions = current
	return r
}

func (f *Filter) reject(store *spanstore.Store, mentions []*model.Mention, r *Result) []*model.Mention {
	kept := mentions[:0]
	for _, m := range mentions {
		if m.Text == "" && m.Span.Valid() {
			m.Text = store.Text(m.Span)
		}
		if reason := rejectReason(store, m); reason != "" {
			f.drop(m, reason, nil, r)
			continue
		}
		kept = append(kept, m)
	}
	return kept
}

// rejectReason returns the first heuristic that rejects the mention
func rejectReason(store *spanstore.Store, m *model.Mention) string {
	if !m.Span.Valid() || !store.InBounds(m.Span) {
		return ReasonMalformed
	}

	text := strings.TrimSpace(m.Text)
	if text == "" {
		return ReasonBlank
	}

	length := utf8.RuneCountInString(text)
	if m.Type == model.MentionPronominal && length <= 1 {
		return ReasonShortPronoun
	}
	if m.Type != model.MentionPronominal && length == 2 && allLower(text) {
		return ReasonTwoLowercase
	}

	switch {
	case m.Flags.Percent:
		return ReasonPercent
	case m.Flags.Money:
		return ReasonMoney
	case m.Flags.Demonym:
		return ReasonDemonym
	case m.Flags.Partitive:
		return ReasonPartitive
	case m.Flags.Pleonastic:
		return ReasonPleonastic
	case m.Flags.NonWord:
		return ReasonNonWord
	}

	if store.InCitation(m.Span) {
		return ReasonCitation
	}
	return ""
}

func allLower(s string) bool {
	for _, r := range s {
		if !unicode.IsLower(r) {
			return false
		}
	}
	return true
}

// dedupHeads keeps the longest mention per head token
func (f *Filter) dedupHeads(mentions []*model.Mention, r *Result) []*model.Mention {
	best := make(map[int]*model.Mention)
	for _, m := range mentions {
		if m.Head == nil {
			continue
		}
		cur, ok := best[*m.Head]
		if !ok || longer(m, cur) {
			best[*m.Head] = m
		}
	}

	kept := mentions[:0]
	for _, m := range mentions {
		if m.Head != nil && best[*m.Head] != m {
			winner := best[*m.Head].ID
			f.drop(m, ReasonDuplicateHead, &winner, r)
			continue
		}
		kept = append(kept, m)
	}
	return kept
}

// longer orders by character length, then earliest start, then lowest id
func longer(a, b *model.Mention) bool {
	la, lb := utf8.RuneCountInString(a.Text), utf8.RuneCountInString(b.Text)
	if la != lb {
		return la > lb
	}
	if a.Span.Start != b.Span.Start {
		return a.Span.Start < b.Span.Start
	}
	return a.ID < b.ID
}

// shrink cuts trailing appositive and relative-clause material from nominal
// and proper mentions
func (f *Filter) shrink(store *spanstore.Store, mentions []*model.Mention, nextID *int, r *Result) ([]*model.Mention, bool) {
	changed := false
	removed := make(map[*model.Mention]bool)

	for i, m := range mentions {
		if removed[m] {
			continue
		}
		newSpan, ok := shrunkSpan(store, m)
		if !ok {
			continue
		}
		changed = true
		r.Shrunk++

		if existing := findNear(mentions, removed, m, newSpan); existing != nil {
			existing.Flags.Merge(m.Flags)
			existing.Features.Fill(m.Features)
			removed[m] = true
			id := existing.ID
			f.drop(m, ReasonShrunkMerged, &id, r)
			continue
		}

		replacement := m.Clone()
		replacement.ID = *nextID
		*nextID++
		replacement.Span = newSpan
		replacement.Text = store.Text(newSpan)
		mentions[i] = replacement

		id := replacement.ID
		f.drop(m, ReasonShrunk, &id, r)
		f.logger.Debug("Shrunk mention",
			zap.Int("mention", m.ID),
			zap.Int("replacement", replacement.ID),
			zap.String("text", replacement.Text))
	}

	if len(removed) == 0 {
		return mentions, changed
	}
	kept := mentions[:0]
	for _, m := range mentions {
		if !removed[m] {
			kept = append(kept, m)
		}
	}
	return kept, changed
}

// shrunkSpan returns the span without trailing comma or WH material
func shrunkSpan(store *spanstore.Store, m *model.Mention) (model.Span, bool) {
	if m.Type != model.MentionNominal && m.Type != model.MentionProper {
		return model.Span{}, false
	}
	head, err := store.HeadToken(m)
	if err != nil {
		return model.Span{}, false
	}
	sentence, ok := store.SentenceOfToken(head.ID)
	if !ok {
		return model.Span{}, false
	}

	tokens := store.TokensIn(sentence, m.Span)
	headIdx := -1
	for i, tok := range tokens {
		if tok.ID == head.ID {
			headIdx = i
			break
		}
	}
	if headIdx < 0 {
		return model.Span{}, false
	}

	cut := -1
	for i := 1; i < len(tokens); i++ {
		if i != headIdx && isCutToken(tokens[i]) {
			cut = i
			break
		}
	}
	if cut < 0 {
		return model.Span{}, false
	}

	var end int
	if cut > headIdx {
		end = tokens[cut-1].Span.End
	} else {
		if headIdx+1 >= len(tokens) {
			return model.Span{}, false
		}
		end = tokens[headIdx].Span.End
	}
	if end >= m.Span.End || end <= m.Span.Start {
		return model.Span{}, false
	}
	return model.Span{Start: m.Span.Start, End: end}, true
}

func isCutToken(tok model.Token) bool {
	return tok.Text == "," || strings.HasPrefix(tok.POS, "W")
}

// findNear returns another live mention with the same start and an end
// within one byte of span
func findNear(mentions []*model.Mention, removed map[*model.Mention]bool, self *model.Mention, span model.Span) *model.Mention {
	for _, other := range mentions {
		if other == self || removed[other] {
			continue
		}
		if other.Span.Start != span.Start {
			continue
		}
		if d := other.Span.End - span.End; d >= -1 && d <= 1 {
			return other
		}
	}
	return nil
}

func (f *Filter) drop(m *model.Mention, reason string, replacedBy *int, r *Result) {
	r.Dropped[reason]++
	r.Consumed = append(r.Consumed, model.Consumed{ID: m.ID, Reason: reason, ReplacedBy: replacedBy})
	f.logger.Debug("Dropped mention",
		zap.Int("mention", m.ID),
		zap.String("reason", reason),
		zap.String("text", m.Text))
}

func lessByOffset(a, b *model.Mention) bool {
	if a.Span.Start != b.Span.Start {
		return a.Span.Start < b.Span.Start
	}
	if a.Span.End != b.Span.End {
		return a.Span.End < b.Span.End
	}
	return a.ID < b.ID
}
