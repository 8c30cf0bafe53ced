package pipeline

import (
	"testing"

	"funnelboard/domain/funnel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() *funnel.Dataset {
	rows := []funnel.Row{
		{Industry: "Tech", Theatre: "AMER", Region: "West", FiscalYear: "FY24", OpportunityType: "New", FinalSource: "Web",
			Counts: funnel.StageValues{10, 8, 6, 4, 3, 2, 2}, Dollars: funnel.StageValues{1000, 800, 600, 400, 300, 200, 100}},
		{Industry: "Retail", Theatre: "EMEA", Region: "North", FiscalYear: "FY23", OpportunityType: "Renewal", FinalSource: "Partner",
			Counts: funnel.StageValues{5, 4, 3, 2, 1, 1, 1}, Dollars: funnel.StageValues{500, 400, 300, 200, 100, 100, 50}},
		{Industry: funnel.Sentinel, Theatre: funnel.Sentinel, Region: funnel.Sentinel, FiscalYear: "FY24", OpportunityType: "New", FinalSource: "Web",
			Counts: funnel.StageValues{3, 2, 1, 0, 0, 0, 0}, Dollars: funnel.StageValues{30, 20, 10}},
		{Industry: "Tech", Theatre: "APAC", Region: "South", FiscalYear: "FY24", OpportunityType: "Upsell", FinalSource: "Event",
			Counts: funnel.StageValues{2, 2, 2, 2, 2, 2, 1}, Dollars: funnel.StageValues{200, 200, 200, 200, 200, 200, 90}},
		{Industry: "Retail", Theatre: "AMER", Region: "West", FiscalYear: "", OpportunityType: "New", FinalSource: "",
			Counts: funnel.StageValues{7}, Dollars: funnel.StageValues{70}},
	}
	return funnel.NewDataset("memory", funnel.RequiredColumns(), rows)
}

func TestExtractOptions(t *testing.T) {
	opts := ExtractOptions(sampleDataset())

	assert.Equal(t, []string{funnel.Sentinel, "Retail", "Tech"}, opts.For(funnel.DimIndustry))
	assert.Equal(t, []string{"AMER", "APAC", "EMEA", funnel.Sentinel}, opts.For(funnel.DimTheatre))
	assert.Equal(t, []string{"FY23", "FY24"}, opts.For(funnel.DimFiscalYear))
	assert.Equal(t, []string{"Event", "Partner", "Web"}, opts.For(funnel.DimFinalSource))
	assert.Equal(t, []string{"New", "Renewal", "Upsell"}, opts.For(funnel.DimOpportunityType))
}

func TestFilterIsConjunctive(t *testing.T) {
	ds := sampleDataset()
	sel := funnel.DefaultSelection(ExtractOptions(ds))
	sel.Select(funnel.DimTheatre, "AMER", "EMEA")
	sel.Select(funnel.DimFiscalYear, "FY24")

	rows := Filter(ds, sel)
	require.Len(t, rows, 1)
	assert.Equal(t, "Tech", rows[0].Industry)
	assert.Equal(t, "AMER", rows[0].Theatre)

	for _, row := range rows {
		for _, dim := range funnel.Dimensions() {
			assert.True(t, sel.Allows(dim, row.Value(dim)), "dimension %s", dim)
		}
	}
}

func TestFilterDefaultSelectionExcludesMissingRequiredValues(t *testing.T) {
	ds := sampleDataset()
	rows := Filter(ds, funnel.DefaultSelection(ExtractOptions(ds)))

	// the last row has no Fiscal Year and no Final Source
	assert.Len(t, rows, ds.Len()-1)
	assert.Equal(t, ds.Row(0), rows[0])
	assert.Equal(t, ds.Row(3), rows[3])
}

func TestFilterEmptyDimensionYieldsNothing(t *testing.T) {
	ds := sampleDataset()
	for _, dim := range funnel.Dimensions() {
		t.Run(dim.String(), func(t *testing.T) {
			sel := funnel.DefaultSelection(ExtractOptions(ds))
			sel.Select(dim)

			result := Run(ds, sel)
			assert.Equal(t, 0, result.MatchedRows)
			assert.True(t, result.Aggregate.Empty())
		})
	}
}

func TestFilterDoesNotMutateDataset(t *testing.T) {
	ds := sampleDataset()
	before := make([]funnel.Row, ds.Len())
	for i := range before {
		before[i] = ds.Row(i)
	}

	rows := Filter(ds, funnel.DefaultSelection(ExtractOptions(ds)))
	rows[0].Industry = "Changed"
	rows[0].Counts[0] = -1

	for i := range before {
		assert.Equal(t, before[i], ds.Row(i))
	}
}

func TestAggregateTotalsReconcile(t *testing.T) {
	ds := sampleDataset()
	sel := funnel.DefaultSelection(ExtractOptions(ds))
	rows := Filter(ds, sel)

	for _, axis := range []funnel.Axis{funnel.AxisIndustry, funnel.AxisFinalSource} {
		for _, metric := range []funnel.Metric{funnel.MetricCounts, funnel.MetricDollars} {
			agg := Aggregate(rows, axis, metric)

			var fromGroups, fromRows funnel.StageValues
			for _, g := range agg.Groups {
				for s := range g.Values {
					fromGroups[s] += g.Values[s]
				}
			}
			for _, row := range rows {
				v := row.Metric(metric)
				for s := range v {
					fromRows[s] += v[s]
				}
			}
			assert.Equal(t, fromRows, fromGroups, "axis=%s metric=%s", axis, metric)
		}
	}
}

func TestAggregateGroupsSortedWithSentinel(t *testing.T) {
	ds := sampleDataset()
	result := Run(ds, funnel.DefaultSelection(ExtractOptions(ds)))

	assert.Equal(t, []string{funnel.Sentinel, "Retail", "Tech"}, result.Aggregate.Keys())
	tech, ok := result.Aggregate.Lookup("Tech")
	require.True(t, ok)
	assert.Equal(t, funnel.StageValues{12, 10, 8, 6, 5, 4, 3}, tech)
	na, ok := result.Aggregate.Lookup(funnel.Sentinel)
	require.True(t, ok)
	assert.Equal(t, funnel.StageValues{3, 2, 1, 0, 0, 0, 0}, na)
}

func TestAggregateByFinalSource(t *testing.T) {
	ds := sampleDataset()
	sel := funnel.DefaultSelection(ExtractOptions(ds))
	sel.Axis = funnel.AxisFinalSource
	sel.Metric = funnel.MetricDollars

	agg := Run(ds, sel).Aggregate
	assert.Equal(t, []string{"Event", "Partner", "Web"}, agg.Keys())
	assert.Equal(t, funnel.AxisFinalSource, agg.Axis)
	web, _ := agg.Lookup("Web")
	assert.Equal(t, 1030.0, web.First())
}

func TestTwoRowScenario(t *testing.T) {
	ds := funnel.NewDataset("memory", funnel.RequiredColumns(), []funnel.Row{
		{Industry: "Tech", Theatre: "AMER", Region: "West", FiscalYear: "FY24", OpportunityType: "New", FinalSource: "Web",
			Counts: funnel.StageValues{10, 0, 0, 0, 0, 0, 2}, Dollars: funnel.StageValues{1000, 0, 0, 0, 0, 0, 100}},
		{Industry: "Retail", Theatre: "AMER", Region: "West", FiscalYear: "FY24", OpportunityType: "New", FinalSource: "Web",
			Counts: funnel.StageValues{5, 0, 0, 0, 0, 0, 1}},
	})
	sel := funnel.DefaultSelection(ExtractOptions(ds))

	agg := Run(ds, sel).Aggregate
	tech, _ := agg.Lookup("Tech")
	retail, _ := agg.Lookup("Retail")
	assert.Equal(t, funnel.StageValues{10, 0, 0, 0, 0, 0, 2}, tech)
	assert.Equal(t, funnel.StageValues{5, 0, 0, 0, 0, 0, 1}, retail)

	pct, ok := Percentages(tech)
	require.True(t, ok)
	assert.InDelta(t, 20.0, pct.At(funnel.StageClosedWon), 1e-9)
	pct, ok = Percentages(retail)
	require.True(t, ok)
	assert.InDelta(t, 20.0, pct.At(funnel.StageClosedWon), 1e-9)

	sel.Metric = funnel.MetricDollars
	tech, _ = Run(ds, sel).Aggregate.Lookup("Tech")
	pct, ok = Percentages(tech)
	require.True(t, ok)
	assert.InDelta(t, 10.0, pct.At(funnel.StageClosedWon), 1e-9)
}

func TestPercentagesZeroBase(t *testing.T) {
	pct, ok := Percentages(funnel.StageValues{0, 3, 1})
	assert.False(t, ok)
	assert.Equal(t, funnel.StageValues{}, pct)

	first, ok1 := Percentages(funnel.StageValues{8, 4, 2, 1})
	second, ok2 := Percentages(funnel.StageValues{8, 4, 2, 1})
	assert.True(t, ok1 && ok2)
	assert.Equal(t, first, second)
	assert.Equal(t, 100.0, first.First())
	assert.Equal(t, 12.5, first.At(funnel.StageLegalReview))
}
