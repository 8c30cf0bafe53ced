package ui

import (
	"net/url"

	"funnelboard/domain/funnel"
	"funnelboard/internal/errors"
)

// parseSelection reads a FilterSelection from query parameters. A dimension
// whose parameter is absent selects every option; a present parameter selects
// exactly its non-empty values, so "industry=" alone selects nothing.
func parseSelection(q url.Values, opts funnel.Options) (funnel.FilterSelection, error) {
	sel := funnel.DefaultSelection(opts)

	axis, err := funnel.ParseAxis(q.Get("axis"))
	if err != nil {
		return sel, errors.InvalidQuery(err)
	}
	metric, err := funnel.ParseMetric(q.Get("metric"))
	if err != nil {
		return sel, errors.InvalidQuery(err)
	}
	sel.Axis = axis
	sel.Metric = metric

	for _, dim := range funnel.Dimensions() {
		values, present := q[dim.Param()]
		if !present {
			continue
		}
		chosen := make([]string, 0, len(values))
		for _, v := range values {
			if v != "" {
				chosen = append(chosen, v)
			}
		}
		sel.Select(dim, chosen...)
	}
	return sel, nil
}
