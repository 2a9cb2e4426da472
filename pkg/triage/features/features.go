// Package features turns raw messages into the sparse matrix consumed by
// the boosted classifiers: TF-IDF weighted token counts joined with the
// starting-verb flag.
package features

// Analyzer splits a message into normalized tokens.
type Analyzer interface {
	Tokenize(text string) []string
}

// VerbDetector reports whether a message opens with a verb.
type VerbDetector interface {
	StartsWithVerb(text string) bool
}

// Transformer is a fit/transform stage over raw messages.
type Transformer interface {
	Fit(texts []string) error
	Transform(texts []string) (*Matrix, error)
}
