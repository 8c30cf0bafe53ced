package render

import (
	"funnelboard/domain/funnel"
	"funnelboard/internal/pipeline"
)

// View is everything the dashboard shows for one selection.
type View struct {
	Chart       ChartSpec `json:"chart"`
	Absolute    Table     `json:"absolute"`
	Percentage  Table     `json:"percentage"`
	MatchedRows int       `json:"matched_rows"`
}

// Compose formats an aggregate into the chart and both tables.
func Compose(agg funnel.GroupedAggregate) View {
	return View{
		Chart:      FunnelChart(agg),
		Absolute:   AbsoluteTable(agg),
		Percentage: PercentageTable(agg),
	}
}

// Dashboard runs the whole filter, aggregate and format chain for a
// selection. It allocates a fresh View per call and never writes to ds.
func Dashboard(ds *funnel.Dataset, sel funnel.FilterSelection) View {
	result := pipeline.Run(ds, sel)
	view := Compose(result.Aggregate)
	view.MatchedRows = result.MatchedRows
	return view
}
