// Package report accumulates run statistics: the label distribution across
// processed records, per-source empty-field coverage, and the number of
// records that carried no usable signal at all.
package report
