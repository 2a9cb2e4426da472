package ingest

import (
	"fmt"
	"sync"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/jdkato/prose/tag"
	"github.com/jdkato/prose/tokenize"
)

// Splitter breaks text into pieces (words or sentences).
type Splitter interface {
	Tokenize(text string) []string
}

// Lemmatizer maps a word to its base form.
type Lemmatizer interface {
	Lemma(word string) string
}

// Tagger assigns a Penn Treebank part-of-speech tag to each word.
type Tagger interface {
	Tag(words []string) []string
}

// Resources bundles the loaded NLP models. All members are safe for
// concurrent use once constructed.
type Resources struct {
	Words     Splitter
	Sentences Splitter
	Lemmas    Lemmatizer
	Tagger    Tagger
}

var (
	setupOnce sync.Once
	shared    *Resources
	setupErr  error
)

// Setup loads the English lemmatizer dictionary, the Punkt sentence model
// and the averaged-perceptron tagger weights. The work happens once per
// process; later calls return the same resources.
func Setup() (*Resources, error) {
	setupOnce.Do(func() {
		lemmas, err := golem.New(en.New())
		if err != nil {
			setupErr = fmt.Errorf("load lemmatizer: %w", err)
			return
		}
		shared = &Resources{
			Words:     tokenize.NewTreebankWordTokenizer(),
			Sentences: tokenize.NewPunktSentenceTokenizer(),
			Lemmas:    lemmas,
			Tagger:    perceptronTagger{tagger: tag.NewPerceptronTagger()},
		}
	})
	return shared, setupErr
}

// MustSetup is Setup for process start-up paths that cannot continue without NLP models.
func MustSetup() *Resources {
	res, err := Setup()
	if err != nil {
		panic(err)
	}
	return res
}

type perceptronTagger struct {
	tagger *tag.PerceptronTagger
}

func (p perceptronTagger) Tag(words []string) []string {
	tokens := p.tagger.Tag(words)
	tags := make([]string, len(tokens))
	for i, tok := range tokens {
		tags[i] = tok.Tag
	}
	return tags
}
