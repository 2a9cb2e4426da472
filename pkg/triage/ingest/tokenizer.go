package ingest

import (
	"regexp"
	"strings"
)

// URLPlaceholder replaces every URL before word splitting.
const URLPlaceholder = "urlplaceholder"

var urlPattern = regexp.MustCompile(`http[s]?://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*\(\),]|(?:%[0-9a-fA-F][0-9a-fA-F]))+`)

// Tokenizer handles text tokenization and normalization
type Tokenizer struct {
	sentences Splitter
	words     Splitter
	lemmas    Lemmatizer
}

// NewTokenizer creates a tokenizer. Text is split into sentences first and
// each sentence into words; a nil sentence splitter treats the whole text
// as one sentence.
func NewTokenizer(sentences, words Splitter, lemmas Lemmatizer) *Tokenizer {
	return &Tokenizer{sentences: sentences, words: words, lemmas: lemmas}
}

// NewTokenizerFromResources creates a tokenizer from loaded NLP resources.
func NewTokenizerFromResources(res *Resources) *Tokenizer {
	return NewTokenizer(res.Sentences, res.Words, res.Lemmas)
}

// MaskURLs replaces each URL in text with URLPlaceholder.
func MaskURLs(text string) string {
	return urlPattern.ReplaceAllLiteralString(text, URLPlaceholder)
}

// Tokenize masks URLs, splits text into sentences and each sentence into
// Treebank word tokens, then lowercases, lemmatizes and trims each token.
// No state is kept between calls.
func (t *Tokenizer) Tokenize(text string) []string {
	text = MaskURLs(text)

	sentences := []string{text}
	if t.sentences != nil {
		sentences = t.sentences.Tokenize(text)
	}

	var tokens []string
	for _, sent := range sentences {
		for _, w := range t.words.Tokenize(sent) {
			tok := strings.TrimSpace(t.lemmas.Lemma(strings.ToLower(w)))
			if tok == "" {
				continue
			}
			tokens = append(tokens, tok)
		}
	}

	return tokens
}
