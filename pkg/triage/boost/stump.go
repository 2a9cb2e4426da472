package boost

import (
	"sort"

	"github.com/cognicore/triage/pkg/triage/features"
)

// Stump is a depth-1 decision tree. Rows whose feature value is <= Threshold
// get Left, the rest get Right. Feature -1 marks a leaf that always predicts Left.
type Stump struct {
	Feature   int
	Threshold float64
	Left      uint8
	Right     uint8
}

// Predict classifies one row.
func (s Stump) Predict(row features.Vector) uint8 {
	if s.Feature < 0 || row.At(s.Feature) <= s.Threshold {
		return s.Left
	}
	return s.Right
}

// Columns is a column-major view of a sparse matrix with each column's
// non-zero entries sorted by value. Rows missing from a column hold zero.
type Columns struct {
	NumRows int
	Cols    []Column
}

// Column holds the non-zero entries of one feature, ascending by value.
type Column struct {
	Rows   []int
	Values []float64
}

// NewColumns builds the sorted column view once so every boosting round
// (and every label sharing the matrix) can reuse it.
func NewColumns(m *features.Matrix) *Columns {
	cols := make([]Column, m.Cols)
	for i, row := range m.Rows {
		for k, j := range row.Indices {
			cols[j].Rows = append(cols[j].Rows, i)
			cols[j].Values = append(cols[j].Values, row.Values[k])
		}
	}
	for j := range cols {
		sort.Sort(byValue(cols[j]))
	}
	return &Columns{NumRows: m.NumRows(), Cols: cols}
}

type byValue Column

func (c byValue) Len() int           { return len(c.Rows) }
func (c byValue) Less(a, b int) bool { return c.Values[a] < c.Values[b] }
func (c byValue) Swap(a, b int) {
	c.Rows[a], c.Rows[b] = c.Rows[b], c.Rows[a]
	c.Values[a], c.Values[b] = c.Values[b], c.Values[a]
}

// segment is a run of rows sharing one feature value.
type segment struct {
	value float64
	w     [2]float64
}

// fitStump picks the split with the lowest weighted Gini impurity. Ties keep
// the lowest feature index and the lowest threshold.
func fitStump(cols *Columns, y []uint8, w []float64) Stump {
	var total [2]float64
	for i, label := range y {
		total[label] += w[i]
	}

	best := Stump{Feature: -1, Left: majority(total), Right: majority(total)}
	bestScore := purity(total)
	found := false

	segs := make([]segment, 0, 64)
	for j, col := range cols.Cols {
		segs = columnSegments(segs[:0], col, y, w, total, cols.NumRows)
		if len(segs) < 2 {
			continue
		}

		var left [2]float64
		for s := 0; s < len(segs)-1; s++ {
			left[0] += segs[s].w[0]
			left[1] += segs[s].w[1]
			right := [2]float64{total[0] - left[0], total[1] - left[1]}

			score := purity(left) + purity(right)
			if !found || score > bestScore+1e-12 {
				found = true
				bestScore = score
				best = Stump{
					Feature:   j,
					Threshold: (segs[s].value + segs[s+1].value) / 2,
					Left:      majority(left),
					Right:     majority(right),
				}
			}
		}
	}

	return best
}

// columnSegments groups a column's rows by distinct value, with the implicit
// zero rows placed between negative and positive entries.
func columnSegments(segs []segment, col Column, y []uint8, w []float64, total [2]float64, numRows int) []segment {
	var nz [2]float64
	for _, r := range col.Rows {
		nz[y[r]] += w[r]
	}
	zeros := numRows - len(col.Rows)
	zeroSeg := segment{value: 0, w: [2]float64{total[0] - nz[0], total[1] - nz[1]}}
	zeroPlaced := zeros == 0

	add := func(value float64, label uint8, weight float64) {
		if n := len(segs); n > 0 && segs[n-1].value == value {
			segs[n-1].w[label] += weight
			return
		}
		seg := segment{value: value}
		seg.w[label] = weight
		segs = append(segs, seg)
	}

	for k, r := range col.Rows {
		v := col.Values[k]
		if !zeroPlaced && v > 0 {
			segs = append(segs, zeroSeg)
			zeroPlaced = true
		}
		add(v, y[r], w[r])
	}
	if !zeroPlaced {
		segs = append(segs, zeroSeg)
	}
	return segs
}

// purity is the sum over classes of w_c^2 / W; maximizing it over both
// sides of a split minimizes weighted Gini impurity.
func purity(w [2]float64) float64 {
	sum := w[0] + w[1]
	if sum <= 0 {
		return 0
	}
	return (w[0]*w[0] + w[1]*w[1]) / sum
}

func majority(w [2]float64) uint8 {
	if w[1] > w[0] {
		return 1
	}
	return 0
}
