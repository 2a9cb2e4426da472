// Package metrics computes and prints per-category classification reports.
package metrics

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// ClassReport holds precision, recall, F1 and support for one class value.
type ClassReport struct {
	Label     uint8
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Averages are the aggregate precision, recall and F1 across classes.
type Averages struct {
	Precision float64
	Recall    float64
	F1        float64
}

// Report is the classification report of one category.
type Report struct {
	Category    string
	Classes     []ClassReport
	Accuracy    float64
	MacroAvg    Averages
	WeightedAvg Averages
	Support     int
}

// Classification compares true and predicted labels of one category. Classes
// are the union of observed true and predicted values; any ratio with a zero
// denominator is 0.
func Classification(category string, truth, pred []uint8) Report {
	r := Report{Category: category, Support: len(truth)}
	if len(truth) == 0 {
		return r
	}

	present := make(map[uint8]struct{})
	for i := range truth {
		present[truth[i]] = struct{}{}
		present[pred[i]] = struct{}{}
	}
	labels := make([]uint8, 0, len(present))
	for l := range present {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(a, b int) bool { return labels[a] < labels[b] })

	hits := 0
	for i := range truth {
		if truth[i] == pred[i] {
			hits++
		}
	}
	r.Accuracy = float64(hits) / float64(len(truth))

	for _, l := range labels {
		var tp, predicted, actual int
		for i := range truth {
			if pred[i] == l {
				predicted++
			}
			if truth[i] == l {
				actual++
				if pred[i] == l {
					tp++
				}
			}
		}
		c := ClassReport{
			Label:     l,
			Precision: ratio(tp, predicted),
			Recall:    ratio(tp, actual),
			Support:   actual,
		}
		if c.Precision+c.Recall > 0 {
			c.F1 = 2 * c.Precision * c.Recall / (c.Precision + c.Recall)
		}
		r.Classes = append(r.Classes, c)

		r.MacroAvg.Precision += c.Precision
		r.MacroAvg.Recall += c.Recall
		r.MacroAvg.F1 += c.F1
		w := float64(c.Support)
		r.WeightedAvg.Precision += w * c.Precision
		r.WeightedAvg.Recall += w * c.Recall
		r.WeightedAvg.F1 += w * c.F1
	}

	k := float64(len(r.Classes))
	r.MacroAvg = Averages{r.MacroAvg.Precision / k, r.MacroAvg.Recall / k, r.MacroAvg.F1 / k}
	n := float64(r.Support)
	r.WeightedAvg = Averages{r.WeightedAvg.Precision / n, r.WeightedAvg.Recall / n, r.WeightedAvg.F1 / n}
	return r
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Render writes the report as an ASCII table.
func (r Report) Render(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"", "precision", "recall", "f1-score", "support"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetAutoFormatHeaders(false)

	support := strconv.Itoa(r.Support)
	for _, c := range r.Classes {
		table.Append([]string{strconv.Itoa(int(c.Label)), f2(c.Precision), f2(c.Recall), f2(c.F1), strconv.Itoa(c.Support)})
	}
	table.Append([]string{"accuracy", "", "", f2(r.Accuracy), support})
	table.Append([]string{"macro avg", f2(r.MacroAvg.Precision), f2(r.MacroAvg.Recall), f2(r.MacroAvg.F1), support})
	table.Append([]string{"weighted avg", f2(r.WeightedAvg.Precision), f2(r.WeightedAvg.Recall), f2(r.WeightedAvg.F1), support})
	table.Render()
}

func f2(v float64) string { return fmt.Sprintf("%.2f", v) }
