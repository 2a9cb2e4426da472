package store

import (
	"context"
	"fmt"

	"github.com/cognicore/triage/pkg/triage/internalerr"
)

// Source loads a labeled message dataset.
type Source interface {
	Load(ctx context.Context) (*Dataset, error)
	Close() error
}

// Record is one labeled message.
type Record struct {
	Message string
	Labels  []uint8 // 0/1 per category, positionally aligned with Dataset.Categories
}

// Dataset holds the feature texts, the label matrix and the ordered category names.
type Dataset struct {
	Messages   []string
	Labels     [][]uint8
	Categories []string
}

// Len returns the number of messages.
func (d *Dataset) Len() int { return len(d.Messages) }

// Append adds one record, checking that its width matches the categories.
func (d *Dataset) Append(r Record) error {
	if len(r.Labels) != len(d.Categories) {
		return fmt.Errorf("%w: record has %d labels, dataset has %d categories",
			internalerr.ErrInvalidInput, len(r.Labels), len(d.Categories))
	}
	labels := make([]uint8, len(r.Labels))
	for i, v := range r.Labels {
		if v != 0 {
			labels[i] = 1
		}
	}
	d.Messages = append(d.Messages, r.Message)
	d.Labels = append(d.Labels, labels)
	return nil
}

// Subset returns a dataset restricted to the given row indices, in order.
// Label rows are shared with the receiver.
func (d *Dataset) Subset(rows []int) *Dataset {
	out := &Dataset{
		Messages:   make([]string, len(rows)),
		Labels:     make([][]uint8, len(rows)),
		Categories: d.Categories,
	}
	for i, r := range rows {
		out.Messages[i] = d.Messages[r]
		out.Labels[i] = d.Labels[r]
	}
	return out
}

// Column returns the labels of one category across all rows.
func (d *Dataset) Column(cat int) []uint8 {
	col := make([]uint8, len(d.Labels))
	for i, row := range d.Labels {
		col[i] = row[cat]
	}
	return col
}
