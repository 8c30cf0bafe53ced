package pipeline

import (
	"sort"

	"funnelboard/domain/funnel"

	"gonum.org/v1/gonum/floats"
)

// Aggregate groups rows by the axis value and sums the metric's stage columns
// within each group. Groups come back sorted by key.
func Aggregate(rows []funnel.Row, axis funnel.Axis, metric funnel.Metric) funnel.GroupedAggregate {
	dim := axis.Dimension()
	sums := make(map[string][]float64)
	for _, row := range rows {
		key := row.Value(dim)
		acc, ok := sums[key]
		if !ok {
			acc = make([]float64, funnel.StageCount)
			sums[key] = acc
		}
		values := row.Metric(metric)
		floats.Add(acc, values[:])
	}

	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	agg := funnel.GroupedAggregate{
		Axis:   axis,
		Metric: metric,
		Groups: make([]funnel.GroupTotals, len(keys)),
	}
	for i, k := range keys {
		agg.Groups[i].Key = k
		copy(agg.Groups[i].Values[:], sums[k])
	}
	return agg
}

// Percentages expresses every stage relative to the Qualification stage,
// times 100. ok is false when the Qualification value is zero and the ratio
// is undefined.
func Percentages(values funnel.StageValues) (pct funnel.StageValues, ok bool) {
	base := values.First()
	if base == 0 {
		return funnel.StageValues{}, false
	}
	for i, v := range values {
		pct[i] = v / base * 100
	}
	return pct, true
}
