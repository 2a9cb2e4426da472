package analytics

import (
	"fmt"
	"sort"

	"github.com/cognicore/triage/pkg/triage/internalerr"
)

// Analyzer aggregates per-category label counts over a dataset.
type Analyzer struct {
	categories []string
	totalDocs  int64
	positives  []int64
	unlabeled  int64 // rows with no positive category
}

// NewAnalyzer creates an empty analyzer for the given ordered categories.
func NewAnalyzer(categories []string) *Analyzer {
	return &Analyzer{
		categories: append([]string(nil), categories...),
		positives:  make([]int64, len(categories)),
	}
}

// Process consumes one row of 0/1 labels.
func (a *Analyzer) Process(labels []uint8) error {
	if len(labels) != len(a.categories) {
		return fmt.Errorf("%w: row has %d labels, want %d", internalerr.ErrInvalidInput, len(labels), len(a.categories))
	}
	a.totalDocs++
	labeled := false
	for i, v := range labels {
		if v != 0 {
			a.positives[i]++
			labeled = true
		}
	}
	if !labeled {
		a.unlabeled++
	}
	return nil
}

// CategoryStats describes one category.
type CategoryStats struct {
	Name      string
	Positives int64
	Rate      float64
}

// Stats exposes the aggregated counts.
type Stats struct {
	TotalDocs  int64
	Unlabeled  int64
	Categories []CategoryStats
}

// Snapshot returns a copy of the accumulated statistics in category order.
func (a *Analyzer) Snapshot() Stats {
	s := Stats{
		TotalDocs:  a.totalDocs,
		Unlabeled:  a.unlabeled,
		Categories: make([]CategoryStats, len(a.categories)),
	}
	for i, name := range a.categories {
		cs := CategoryStats{Name: name, Positives: a.positives[i]}
		if a.totalDocs > 0 {
			cs.Rate = float64(a.positives[i]) / float64(a.totalDocs)
		}
		s.Categories[i] = cs
	}
	return s
}

// Empty returns the categories with no positive rows.
func (s Stats) Empty() []string {
	var out []string
	for _, c := range s.Categories {
		if c.Positives == 0 {
			out = append(out, c.Name)
		}
	}
	return out
}

// Rarest returns up to n categories with the lowest positive rate, ties in
// category order.
func (s Stats) Rarest(n int) []CategoryStats {
	sorted := append([]CategoryStats(nil), s.Categories...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Rate < sorted[j].Rate })
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
