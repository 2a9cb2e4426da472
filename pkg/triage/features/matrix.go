package features

import "sort"

// Vector is a sparse row: Indices are strictly increasing and Values never hold zeros.
type Vector struct {
	Indices []int
	Values  []float64
}

// At returns the value stored at column j, or zero.
func (v Vector) At(j int) float64 {
	i := sort.SearchInts(v.Indices, j)
	if i < len(v.Indices) && v.Indices[i] == j {
		return v.Values[i]
	}
	return 0
}

// Matrix is a row-major sparse matrix.
type Matrix struct {
	Rows []Vector
	Cols int
}

// NumRows returns the number of rows.
func (m *Matrix) NumRows() int { return len(m.Rows) }

// Dense expands the matrix, mostly for tests and debugging.
func (m *Matrix) Dense() [][]float64 {
	out := make([][]float64, len(m.Rows))
	for i, r := range m.Rows {
		row := make([]float64, m.Cols)
		for k, j := range r.Indices {
			row[j] = r.Values[k]
		}
		out[i] = row
	}
	return out
}

// HStack concatenates matrices column-wise. All inputs must have the same row count.
func HStack(parts ...*Matrix) *Matrix {
	if len(parts) == 0 {
		return &Matrix{}
	}
	n := parts[0].NumRows()
	out := &Matrix{Rows: make([]Vector, n)}
	for _, p := range parts {
		for i := 0; i < n; i++ {
			row := &out.Rows[i]
			for k, j := range p.Rows[i].Indices {
				row.Indices = append(row.Indices, out.Cols+j)
				row.Values = append(row.Values, p.Rows[i].Values[k])
			}
		}
		out.Cols += p.Cols
	}
	return out
}
