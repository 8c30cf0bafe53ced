package pipeline

import (
	"sort"

	"funnelboard/domain/funnel"
)

// ExtractOptions computes the distinct values of every filter dimension,
// sorted ascending. Empty values are dropped, so Fiscal Year, Opportunity
// Type and Final Source never offer a missing-value option while the
// sentinel-normalized dimensions offer funnel.Sentinel.
func ExtractOptions(ds *funnel.Dataset) funnel.Options {
	var opts funnel.Options
	for _, dim := range funnel.Dimensions() {
		seen := make(map[string]struct{})
		values := make([]string, 0)
		for i := 0; i < ds.Len(); i++ {
			v := ds.Row(i).Value(dim)
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
		sort.Strings(values)
		opts[dim] = values
	}
	return opts
}
