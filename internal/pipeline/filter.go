package pipeline

import "funnelboard/domain/funnel"

// Filter returns, in dataset order, the rows that satisfy every dimension of
// the selection. A dimension with nothing selected matches no row.
func Filter(ds *funnel.Dataset, sel funnel.FilterSelection) []funnel.Row {
	for _, dim := range funnel.Dimensions() {
		if len(sel.Selected[dim]) == 0 {
			return nil
		}
	}

	out := make([]funnel.Row, 0)
	for i := 0; i < ds.Len(); i++ {
		row := ds.Row(i)
		if matches(row, sel) {
			out = append(out, row)
		}
	}
	return out
}

func matches(row funnel.Row, sel funnel.FilterSelection) bool {
	for _, dim := range funnel.Dimensions() {
		if !sel.Allows(dim, row.Value(dim)) {
			return false
		}
	}
	return true
}
