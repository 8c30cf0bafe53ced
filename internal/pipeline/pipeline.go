package pipeline

import "funnelboard/domain/funnel"

// Result is the outcome of one filter and aggregate pass.
type Result struct {
	Selection   funnel.FilterSelection
	MatchedRows int
	Aggregate   funnel.GroupedAggregate
}

// Run filters the dataset by the selection and aggregates the survivors on
// the selection's axis and metric. It only reads ds.
func Run(ds *funnel.Dataset, sel funnel.FilterSelection) Result {
	rows := Filter(ds, sel)
	return Result{
		Selection:   sel,
		MatchedRows: len(rows),
		Aggregate:   Aggregate(rows, sel.Axis, sel.Metric),
	}
}
