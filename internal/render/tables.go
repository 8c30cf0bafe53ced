package render

import (
	"fmt"
	"strconv"

	"funnelboard/domain/funnel"
	"funnelboard/internal/pipeline"
)

// Placeholder is rendered for a percentage whose base is zero.
const Placeholder = "N/A"

// PercentageHeader is the first header cell of the percentage table.
const PercentageHeader = "Stages"

// Table is a rendering-agnostic grid: one header row and body rows of equal
// width.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// AbsoluteTable transposes the aggregate: one row per stage, one column per
// group, cells holding the raw sums. An empty aggregate has no body rows.
func AbsoluteTable(agg funnel.GroupedAggregate) Table {
	t := Table{Header: append([]string{string(agg.Axis)}, agg.Keys()...)}
	if agg.Empty() {
		return t
	}
	for _, stage := range funnel.Stages() {
		row := make([]string, 0, len(agg.Groups)+1)
		row = append(row, stage.String())
		for _, g := range agg.Groups {
			row = append(row, FormatNumber(g.Values.At(stage)))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// PercentageTable has the shape of AbsoluteTable but every cell is the stage
// sum as a whole percentage of the group's Qualification sum. Groups with a
// zero Qualification sum show Placeholder in every row.
func PercentageTable(agg funnel.GroupedAggregate) Table {
	t := Table{Header: append([]string{PercentageHeader}, agg.Keys()...)}
	if agg.Empty() {
		return t
	}

	cols := make([][]string, len(agg.Groups))
	for i, g := range agg.Groups {
		cols[i] = percentColumn(g.Values)
	}

	for _, stage := range funnel.Stages() {
		row := make([]string, 0, len(agg.Groups)+1)
		row = append(row, stage.String())
		for i := range agg.Groups {
			row = append(row, cols[i][stage])
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func percentColumn(values funnel.StageValues) []string {
	out := make([]string, funnel.StageCount)
	pct, ok := pipeline.Percentages(values)
	for i := range out {
		if !ok {
			out[i] = Placeholder
			continue
		}
		out[i] = FormatPercent(pct[i])
	}
	return out
}

// FormatNumber prints a sum without trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatPercent rounds to a whole percentage, e.g. "42%".
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.0f%%", p)
}
