package render

import (
	"fmt"

	"funnelboard/domain/funnel"
	"funnelboard/internal/pipeline"
)

// ChartPoint is one stage of a funnel series.
type ChartPoint struct {
	Stage   string  `json:"stage"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent_initial"`
	// Defined is false when the series starts at zero and Percent is meaningless.
	Defined    bool   `json:"defined"`
	Annotation string `json:"annotation"`
}

// ChartSeries is the funnel of one group.
type ChartSeries struct {
	Name   string       `json:"name"`
	Points []ChartPoint `json:"points"`
}

// ChartSpec describes the layered funnel chart independent of the charting
// library.
type ChartSpec struct {
	Title      string        `json:"title"`
	XAxisTitle string        `json:"xaxis_title"`
	YAxisTitle string        `json:"yaxis_title"`
	Stages     []string      `json:"stages"`
	Series     []ChartSeries `json:"series"`
}

// ChartTitle names the active metric and grouping axis.
func ChartTitle(metric funnel.Metric, axis funnel.Axis) string {
	return fmt.Sprintf("Funnel Chart (%s) Grouped by %s", metric.Label(), axis)
}

// FunnelChart builds one series per group, stages on the y axis in funnel
// order, each point annotated with its value and percent of the first stage.
func FunnelChart(agg funnel.GroupedAggregate) ChartSpec {
	chart := ChartSpec{
		Title:      ChartTitle(agg.Metric, agg.Axis),
		XAxisTitle: "Value",
		YAxisTitle: "Stages",
		Stages:     funnel.StageLabels(),
		Series:     make([]ChartSeries, 0, len(agg.Groups)),
	}

	for _, g := range agg.Groups {
		pct, ok := pipeline.Percentages(g.Values)
		series := ChartSeries{Name: g.Key, Points: make([]ChartPoint, funnel.StageCount)}
		for _, stage := range funnel.Stages() {
			p := ChartPoint{
				Stage:   stage.String(),
				Value:   g.Values.At(stage),
				Percent: pct.At(stage),
				Defined: ok,
			}
			if ok {
				p.Annotation = FormatNumber(p.Value) + " (" + FormatPercent(p.Percent) + ")"
			} else {
				p.Annotation = FormatNumber(p.Value) + " (" + Placeholder + ")"
			}
			series.Points[stage] = p
		}
		chart.Series = append(chart.Series, series)
	}
	return chart
}
