// Package testdoc builds small parsed documents for tests.
//
// Tokens are written as "text/POS/label/head" where head is the
// sentence-local index of the governing token and -1 marks the root:
//
//	b := testdoc.New("d1")
//	b.Sentence("Alice/NNP/SBJ/1", "sleeps/VBZ/ROOT/-1", "./././1")
//	b.Mention(0, 0, 0, 0, model.MentionProper)
package testdoc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ppiankov/corefsieve/internal/model"
)

// Builder accumulates sentences and mentions
type Builder struct {
	id        string
	text      strings.Builder
	sentences []model.Sentence
	mentions  []*model.Mention
	citations []model.Span
	nextToken int
}

// New starts a document
func New(id string) *Builder {
	return &Builder{id: id}
}

// Sentence appends a sentence and returns its index
func (b *Builder) Sentence(tokens ...string) int {
	if b.text.Len() > 0 {
		b.text.WriteByte(' ')
	}
	start := b.text.Len()
	base := b.nextToken
	sent := model.Sentence{ID: len(b.sentences)}

	for i, raw := range tokens {
		parts := strings.Split(raw, "/")
		if len(parts) != 4 {
			panic(fmt.Sprintf("testdoc: token %q must be text/POS/label/head", raw))
		}
		head, err := strconv.Atoi(parts[3])
		if err != nil {
			panic(fmt.Sprintf("testdoc: token %q: %v", raw, err))
		}

		if i > 0 {
			b.text.WriteByte(' ')
		}
		tokStart := b.text.Len()
		b.text.WriteString(parts[0])

		tok := model.Token{
			ID:       base + i,
			Span:     model.Span{Start: tokStart, End: b.text.Len()},
			Text:     parts[0],
			Lemma:    strings.ToLower(parts[0]),
			POS:      parts[1],
			DepLabel: parts[2],
		}
		if head >= 0 {
			tok.Head = model.IntPtr(base + head)
		}
		sent.Tokens = append(sent.Tokens, tok)
	}

	b.nextToken += len(tokens)
	sent.Span = model.Span{Start: start, End: b.text.Len()}
	b.sentences = append(b.sentences, sent)
	return sent.ID
}

// Mention adds a mention over tokens [from, to] of a sentence with the given
// sentence-local head index (-1 for none). The returned pointer can be edited
// before Build.
func (b *Builder) Mention(sentence, from, to, head int, typ model.MentionType) *model.Mention {
	sent := b.sentences[sentence]
	m := &model.Mention{
		ID:   len(b.mentions),
		Span: model.Span{Start: sent.Tokens[from].Span.Start, End: sent.Tokens[to].Span.End},
		Type: typ,
	}
	if head >= 0 {
		m.Head = model.IntPtr(sent.Tokens[head].ID)
	}
	b.mentions = append(b.mentions, m)
	return m
}

// TokenID returns the document-wide id of a sentence-local token
func (b *Builder) TokenID(sentence, index int) int {
	return b.sentences[sentence].Tokens[index].ID
}

// Citation marks tokens [from, to] of a sentence as an inline citation
func (b *Builder) Citation(sentence, from, to int) {
	sent := b.sentences[sentence]
	b.citations = append(b.citations, model.Span{Start: sent.Tokens[from].Span.Start, End: sent.Tokens[to].Span.End})
}

// Build returns the document with mention texts filled in
func (b *Builder) Build() *model.Document {
	text := b.text.String()
	for _, m := range b.mentions {
		if m.Text == "" && m.Span.Valid() && m.Span.End <= len(text) {
			m.Text = text[m.Span.Start:m.Span.End]
		}
	}
	return &model.Document{
		ID:        b.id,
		Text:      text,
		Sentences: b.sentences,
		Mentions:  b.mentions,
		Citations: b.citations,
	}
}
