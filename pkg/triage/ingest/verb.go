package ingest

import "strings"

// RetweetMarker is treated like a leading verb.
const RetweetMarker = "RT"

const subjectPronoun = "you"

// StartingVerb decides whether a message opens with a verb.
type StartingVerb struct {
	tokenizer *Tokenizer
	sentences Splitter
	tagger    Tagger
}

// NewStartingVerb creates a detector. The tokenizer normalizes the first
// sentence before it is tagged.
func NewStartingVerb(tokenizer *Tokenizer, sentences Splitter, tagger Tagger) *StartingVerb {
	return &StartingVerb{tokenizer: tokenizer, sentences: sentences, tagger: tagger}
}

// StartsWithVerb reports whether the first sentence of text begins with a
// base-form (VB) or present-tense (VBP) verb, or with the retweet marker.
// Only the first sentence is examined.
func (s *StartingVerb) StartsWithVerb(text string) bool {
	sentences := s.sentences.Tokenize(text)
	if len(sentences) == 0 {
		return false
	}

	tokens := s.tokenizer.Tokenize(sentences[0])
	if len(tokens) == 0 {
		return false
	}

	// Tagged after a subject pronoun, a bare imperative reads as a verb
	// rather than a sentence-initial noun.
	tags := s.tagger.Tag(append([]string{subjectPronoun}, tokens...))
	if len(tags) < 2 {
		return false
	}

	first := tags[1]
	// Tokens are lowercased by the tokenizer, so the marker is matched without case.
	return first == "VB" || first == "VBP" || strings.EqualFold(tokens[0], RetweetMarker)
}
