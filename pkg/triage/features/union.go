package features

// Union concatenates the TF-IDF columns with the starting-verb column,
// in that order.
type Union struct {
	Text *TextPipeline
	Verb *StartingVerbFeature
}

// NewUnion creates the feature union used by the classifier pipeline.
func NewUnion(analyzer Analyzer, detector VerbDetector, stopWords []string) *Union {
	return &Union{
		Text: NewTextPipeline(analyzer, stopWords),
		Verb: NewStartingVerbFeature(detector),
	}
}

// Bind re-attaches the NLP components after deserialization.
func (u *Union) Bind(analyzer Analyzer, detector VerbDetector) {
	u.Text.Vect.Bind(analyzer)
	u.Verb.Bind(detector)
}

// Fit implements Transformer.
func (u *Union) Fit(texts []string) error {
	_, err := u.FitTransform(texts)
	return err
}

// FitTransform fits every part and returns the combined training matrix.
func (u *Union) FitTransform(texts []string) (*Matrix, error) {
	text, err := u.Text.FitTransform(texts)
	if err != nil {
		return nil, err
	}
	if err := u.Verb.Fit(texts); err != nil {
		return nil, err
	}
	verb, err := u.Verb.Transform(texts)
	if err != nil {
		return nil, err
	}
	return HStack(text, verb), nil
}

// Transform implements Transformer.
func (u *Union) Transform(texts []string) (*Matrix, error) {
	parts := make([]*Matrix, 0, 2)
	for _, t := range []Transformer{u.Text, u.Verb} {
		m, err := t.Transform(texts)
		if err != nil {
			return nil, err
		}
		parts = append(parts, m)
	}
	return HStack(parts...), nil
}
