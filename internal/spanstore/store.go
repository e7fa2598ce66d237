// Package spanstore is a read-only index over a parsed document: sentences,
// tokens, dependency arcs and the text covered by a span.
package spanstore

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/corefsieve/internal/model"
)

// Store indexes a document for lookups by token id
type Store struct {
	doc           *model.Document
	tokens        map[int]*model.Token
	tokenSentence map[int]int   // token id -> sentence index
	children      map[int][]int // head token id -> dependents in offset order
}

// New builds the index. The document's sentences and tokens must not change
// afterwards; mentions may.
func New(doc *model.Document) *Store {
	s := &Store{
		doc:           doc,
		tokens:        make(map[int]*model.Token),
		tokenSentence: make(map[int]int),
		children:      make(map[int][]int),
	}

	for si := range doc.Sentences {
		sent := &doc.Sentences[si]
		for ti := range sent.Tokens {
			tok := &sent.Tokens[ti]
			s.tokens[tok.ID] = tok
			s.tokenSentence[tok.ID] = si
		}
	}

	for si := range doc.Sentences {
		for _, tok := range doc.Sentences[si].Tokens {
			if tok.Head == nil {
				continue
			}
			s.children[*tok.Head] = append(s.children[*tok.Head], tok.ID)
		}
	}
	for head, deps := range s.children {
		sort.Slice(deps, func(i, j int) bool {
			return s.tokens[deps[i]].Span.Start < s.tokens[deps[j]].Span.Start
		})
		s.children[head] = deps
	}

	return s
}

// Document returns the indexed document
func (s *Store) Document() *model.Document {
	return s.doc
}

// Sentences returns the ordered sentences
func (s *Store) Sentences() []model.Sentence {
	return s.doc.Sentences
}

// Token looks up a token by id
func (s *Store) Token(id int) (*model.Token, bool) {
	tok, ok := s.tokens[id]
	return tok, ok
}

// SentenceOfToken returns the index of the sentence holding the token
func (s *Store) SentenceOfToken(id int) (int, bool) {
	si, ok := s.tokenSentence[id]
	return si, ok
}

// Children returns the dependents of a token ordered by offset
func (s *Store) Children(id int) []int {
	return s.children[id]
}

// Roots returns the tokens of a sentence labelled ROOT without a head
func (s *Store) Roots(sentence int) []int {
	var roots []int
	for _, tok := range s.doc.Sentences[sentence].Tokens {
		if tok.Head == nil && tok.DepLabel == model.DepRoot {
			roots = append(roots, tok.ID)
		}
	}
	return roots
}

// HeadToken resolves a mention's head token
func (s *Store) HeadToken(m *model.Mention) (*model.Token, error) {
	if m.Head == nil {
		return nil, fmt.Errorf("mention %d: %w", m.ID, model.ErrMissingHead)
	}
	tok, ok := s.tokens[*m.Head]
	if !ok {
		return nil, fmt.Errorf("mention %d: head token %d: %w", m.ID, *m.Head, model.ErrMissingHead)
	}
	return tok, nil
}

// SentenceOf returns the sentence a mention belongs to: the sentence of its
// head token, or the sentence containing its start offset.
func (s *Store) SentenceOf(m *model.Mention) (int, bool) {
	if m.Head != nil {
		if si, ok := s.tokenSentence[*m.Head]; ok {
			return si, true
		}
	}
	for si, sent := range s.doc.Sentences {
		if sent.Span.Start <= m.Span.Start && m.Span.Start < sent.Span.End {
			return si, true
		}
	}
	return 0, false
}

// TokensIn returns the tokens of a sentence that lie inside the span
func (s *Store) TokensIn(sentence int, span model.Span) []model.Token {
	var out []model.Token
	for _, tok := range s.doc.Sentences[sentence].Tokens {
		if span.Contains(tok.Span) {
			out = append(out, tok)
		}
	}
	return out
}

// Text returns the document text covered by the span. Documents without raw
// text get the covered tokens joined by spaces.
func (s *Store) Text(span model.Span) string {
	if s.doc.Text != "" {
		if span.Start >= 0 && span.Start <= span.End && span.End <= len(s.doc.Text) {
			return s.doc.Text[span.Start:span.End]
		}
		return ""
	}

	var parts []string
	for _, sent := range s.doc.Sentences {
		for _, tok := range sent.Tokens {
			if span.Contains(tok.Span) {
				parts = append(parts, tok.Text)
			}
		}
	}
	return strings.Join(parts, " ")
}

// InCitation reports whether the span lies fully inside an inline citation
func (s *Store) InCitation(span model.Span) bool {
	for _, c := range s.doc.Citations {
		if c.Contains(span) {
			return true
		}
	}
	return false
}

// InBounds reports whether the span fits the document text, when there is one
func (s *Store) InBounds(span model.Span) bool {
	if s.doc.Text == "" {
		return true
	}
	return span.End <= len(s.doc.Text)
}
