package funnel

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingColumns  = errors.New("dataset is missing required columns")
	ErrMalformedNumber = errors.New("malformed numeric value")
	ErrEmptyDataset    = errors.New("dataset has no header row")
	ErrUnknownAxis     = errors.New("unknown grouping axis")
	ErrUnknownMetric   = errors.New("unknown metric")
)

// NewMissingColumnsError lists the absent headers.
func NewMissingColumnsError(columns []string) error {
	return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(columns, ", "))
}

// NewMalformedNumberError reports a metric cell that does not parse.
// Line numbers are 1-based and count the header row.
func NewMalformedNumberError(column string, line int, value string) error {
	return fmt.Errorf("%w: column %q line %d: %q", ErrMalformedNumber, column, line, value)
}
