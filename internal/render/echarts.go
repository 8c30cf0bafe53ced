package render

import (
	"html/template"
	"math"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ChartID is the DOM id of the rendered funnel.
const ChartID = "funnel-chart"

// jsUnsafe drops characters that cannot appear in a single-quoted literal
// inside the function source. The option encoder escapes backslashes and
// double quotes itself, so they cannot be escaped here either.
var jsUnsafe = strings.NewReplacer(`\`, "", `'`, "", `"`, "", "<", "", "\n", "")

// labelFormatter returns the server-computed annotation of each point, so
// chart labels and table cells are formatted by the same code.
func labelFormatter(points []ChartPoint) string {
	labels := make([]string, len(points))
	for i, p := range points {
		labels[i] = "'" + jsUnsafe.Replace(p.Annotation) + "'"
	}
	return "function (params) { var labels = [" + strings.Join(labels, ", ") + "]; " +
		"return labels[params.dataIndex] !== undefined ? labels[params.dataIndex] : params.value; }"
}

// maxValue is the largest stage value of any series, the width of a full
// funnel slice.
func (c ChartSpec) maxValue() int {
	largest := 0.0
	for _, s := range c.Series {
		for _, p := range s.Points {
			largest = math.Max(largest, p.Value)
		}
	}
	return int(math.Ceil(largest))
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}

// Echarts converts the chart into a go-echarts funnel. Each group gets its
// own column of the canvas, all funnels share one scale, and stages keep
// their funnel order instead of being sorted by value.
func (c ChartSpec) Echarts() *charts.Funnel {
	chart := charts.NewFunnel()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{ChartID: ChartID, Width: "100%", Height: "520px"}),
		charts.WithTitleOpts(opts.Title{Title: c.Title}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "30px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
	)

	scale := c.maxValue()
	slot := 100.0 / float64(len(c.Series))
	for i, s := range c.Series {
		data := make([]opts.FunnelData, len(s.Points))
		for j, p := range s.Points {
			data[j] = opts.FunnelData{Name: p.Stage, Value: p.Value}
		}
		left := percent(float64(i) * slot)
		right := percent(float64(len(c.Series)-i-1) * slot)

		chart.AddSeries(s.Name, data,
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Position:  "inside",
				Formatter: opts.FuncOpts(labelFormatter(s.Points)),
			}),
			charts.WithSeriesOpts(func(ss *charts.SingleSeries) {
				ss.Sort = "none"
				ss.Max = scale
				ss.Left = left
				ss.Right = right
				ss.Top = "70px"
				ss.Bottom = "10px"
			}),
		)
	}
	return chart
}

// Snippet renders the chart's element and script for embedding in a page.
func (c ChartSpec) Snippet() template.HTML {
	s := c.Echarts().RenderSnippet()
	return template.HTML(s.Element + "\n" + s.Script)
}
