package model

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cognicore/triage/pkg/triage/internalerr"
)

// Split shuffles row indices with seed and returns train and test indices;
// the test side gets ceil(testSize*n) rows.
func Split(n int, testSize float64, seed int64) (train, test []int, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("%w: test size %v", internalerr.ErrInvalidInput, testSize)
	}
	nTest := int(math.Ceil(testSize * float64(n)))
	if n < 2 || nTest >= n {
		return nil, nil, fmt.Errorf("%w: cannot split %d rows with test size %v", internalerr.ErrEmptyDataset, n, testSize)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return perm[nTest:], perm[:nTest], nil
}

// KFold returns contiguous validation folds over n rows. The first n%k folds
// hold one extra row.
func KFold(n, k int) [][]int {
	folds := make([][]int, k)
	start := 0
	for f := 0; f < k; f++ {
		size := n / k
		if f < n%k {
			size++
		}
		fold := make([]int, size)
		for i := range fold {
			fold[i] = start + i
		}
		folds[f] = fold
		start += size
	}
	return folds
}
