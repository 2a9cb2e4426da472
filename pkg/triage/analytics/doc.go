// Package analytics computes label statistics over a loaded dataset so that
// skewed or empty categories are visible before training starts.
package analytics
