package ingest

// Pipeline bundles the per-message text stages used by feature extraction:
// token normalization and the starting-verb heuristic.
type Pipeline struct {
	tokenizer *Tokenizer
	verb      *StartingVerb
}

// NewPipeline creates an ingestion pipeline with the given components
func NewPipeline(tokenizer *Tokenizer, verb *StartingVerb) *Pipeline {
	return &Pipeline{tokenizer: tokenizer, verb: verb}
}

// NewDefaultPipeline wires a pipeline from loaded NLP resources.
func NewDefaultPipeline(res *Resources) *Pipeline {
	tok := NewTokenizerFromResources(res)
	return NewPipeline(tok, NewStartingVerb(tok, res.Sentences, res.Tagger))
}

// ProcessedDoc represents a message after ingestion processing
type ProcessedDoc struct {
	Tokens         []string
	StartsWithVerb bool
}

// Process runs a message through every stage.
func (p *Pipeline) Process(text string) ProcessedDoc {
	return ProcessedDoc{
		Tokens:         p.tokenizer.Tokenize(text),
		StartsWithVerb: p.verb.StartsWithVerb(text),
	}
}

// Tokenize implements features.Analyzer.
func (p *Pipeline) Tokenize(text string) []string {
	return p.tokenizer.Tokenize(text)
}

// StartsWithVerb implements features.VerbDetector.
func (p *Pipeline) StartsWithVerb(text string) bool {
	return p.verb.StartsWithVerb(text)
}
