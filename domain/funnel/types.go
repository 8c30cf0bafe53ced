package funnel

import (
	"fmt"
	"sort"
	"strings"
)

// Sentinel replaces missing Industry, S2 Theatre and S2 Region values so they
// form their own group instead of disappearing.
const Sentinel = "N/A"

// Dimension is one of the six filterable columns.
type Dimension int

const (
	DimIndustry Dimension = iota
	DimTheatre
	DimRegion
	DimFiscalYear
	DimOpportunityType
	DimFinalSource
)

// DimensionCount is the number of filterable columns.
const DimensionCount = 6

type dimensionInfo struct {
	column     string
	param      string
	normalizes bool
}

var dimensions = [DimensionCount]dimensionInfo{
	DimIndustry:        {column: "Industry", param: "industry", normalizes: true},
	DimTheatre:         {column: "S2 Theatre", param: "theatre", normalizes: true},
	DimRegion:          {column: "S2 Region", param: "region", normalizes: true},
	DimFiscalYear:      {column: "Fiscal Year", param: "fiscal_year"},
	DimOpportunityType: {column: "Opportunity Type", param: "opportunity_type"},
	DimFinalSource:     {column: "Final Source", param: "final_source"},
}

// Dimensions returns the filter dimensions in selector display order.
func Dimensions() []Dimension {
	out := make([]Dimension, DimensionCount)
	for i := range out {
		out[i] = Dimension(i)
	}
	return out
}

// Column is the dataset header of the dimension.
func (d Dimension) Column() string { return dimensions[d].column }

// Param is the query-string key used by the HTTP layer.
func (d Dimension) Param() string { return dimensions[d].param }

// UsesSentinel reports whether missing values become Sentinel. Dimensions that
// don't use it keep missing values empty, and an empty value never matches a
// filter.
func (d Dimension) UsesSentinel() bool { return dimensions[d].normalizes }

func (d Dimension) String() string { return d.Column() }

// Normalize applies the dimension's missing-value rule to a raw cell.
func (d Dimension) Normalize(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" && d.UsesSentinel() {
		return Sentinel
	}
	return v
}

// Axis is the column results are grouped by.
type Axis string

const (
	AxisIndustry    Axis = "Industry"
	AxisFinalSource Axis = "Final Source"
)

// ParseAxis accepts the column label or the query key of a grouping column.
func ParseAxis(s string) (Axis, error) {
	switch strings.TrimSpace(s) {
	case "", string(AxisIndustry), DimIndustry.Param():
		return AxisIndustry, nil
	case string(AxisFinalSource), DimFinalSource.Param():
		return AxisFinalSource, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAxis, s)
}

// Dimension returns the filter dimension backing the axis.
func (a Axis) Dimension() Dimension {
	if a == AxisFinalSource {
		return DimFinalSource
	}
	return DimIndustry
}

// Metric selects which of the two per-stage columns is summed.
type Metric string

const (
	MetricCounts  Metric = "counts"
	MetricDollars Metric = "dollars"
)

// ParseMetric accepts "counts" or "dollars"; empty means counts.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(MetricCounts):
		return MetricCounts, nil
	case string(MetricDollars):
		return MetricDollars, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

// Label is the human form used in chart titles.
func (m Metric) Label() string {
	if m == MetricDollars {
		return "Dollar Amounts"
	}
	return "Counts"
}

// Row is one opportunity record. Categorical fields hold normalized values.
type Row struct {
	Industry        string
	Theatre         string
	Region          string
	FiscalYear      string
	OpportunityType string
	FinalSource     string
	Counts          StageValues
	Dollars         StageValues
}

// Value returns the row's value for a filter dimension.
func (r Row) Value(d Dimension) string {
	switch d {
	case DimIndustry:
		return r.Industry
	case DimTheatre:
		return r.Theatre
	case DimRegion:
		return r.Region
	case DimFiscalYear:
		return r.FiscalYear
	case DimOpportunityType:
		return r.OpportunityType
	case DimFinalSource:
		return r.FinalSource
	}
	return ""
}

// Metric returns the stage values summed under m.
func (r Row) Metric(m Metric) StageValues {
	if m == MetricDollars {
		return r.Dollars
	}
	return r.Counts
}

// Dataset is the immutable table loaded at startup.
type Dataset struct {
	headers []string
	rows    []Row
	source  string
}

// NewDataset copies headers and rows so later changes by the caller are not
// visible through the dataset.
func NewDataset(source string, headers []string, rows []Row) *Dataset {
	h := make([]string, len(headers))
	copy(h, headers)
	r := make([]Row, len(rows))
	copy(r, rows)
	return &Dataset{headers: h, rows: r, source: source}
}

// Source is the file the dataset was read from.
func (d *Dataset) Source() string { return d.source }

// Headers returns a copy of the column schema.
func (d *Dataset) Headers() []string {
	out := make([]string, len(d.headers))
	copy(out, d.headers)
	return out
}

// Len is the number of rows.
func (d *Dataset) Len() int { return len(d.rows) }

// Row returns the i-th row by value.
func (d *Dataset) Row(i int) Row { return d.rows[i] }

// RequiredColumns lists every header the loader insists on: the six filter
// columns followed by the count and dollar column of each stage.
func RequiredColumns() []string {
	cols := make([]string, 0, DimensionCount+2*StageCount)
	for _, d := range Dimensions() {
		cols = append(cols, d.Column())
	}
	for _, s := range Stages() {
		cols = append(cols, s.CountColumn())
	}
	for _, s := range Stages() {
		cols = append(cols, s.DollarColumn())
	}
	return cols
}

// ValueSet is a set of selected option values.
type ValueSet map[string]struct{}

// NewValueSet builds a set from values.
func NewValueSet(values ...string) ValueSet {
	s := make(ValueSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Contains reports membership.
func (s ValueSet) Contains(v string) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the members in ascending order.
func (s ValueSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Options holds the selectable values of each dimension.
type Options [DimensionCount][]string

// For returns a copy of the options of one dimension.
func (o Options) For(d Dimension) []string {
	out := make([]string, len(o[d]))
	copy(out, o[d])
	return out
}

// FilterSelection is the transient UI state of one request.
type FilterSelection struct {
	Axis     Axis
	Metric   Metric
	Selected [DimensionCount]ValueSet
}

// DefaultSelection selects every option of every dimension, groups by
// Industry and sums counts.
func DefaultSelection(opts Options) FilterSelection {
	sel := FilterSelection{Axis: AxisIndustry, Metric: MetricCounts}
	for _, d := range Dimensions() {
		sel.Selected[d] = NewValueSet(opts[d]...)
	}
	return sel
}

// Select replaces the selected values of one dimension.
func (s *FilterSelection) Select(d Dimension, values ...string) {
	s.Selected[d] = NewValueSet(values...)
}

// Allows reports whether value passes the dimension's selection. A nil or
// empty set allows nothing.
func (s FilterSelection) Allows(d Dimension, value string) bool {
	return s.Selected[d].Contains(value)
}

// GroupTotals is the per-stage sum of one group.
type GroupTotals struct {
	Key    string
	Values StageValues
}

// GroupedAggregate is the grouped result feeding the chart and both tables.
// Groups are ordered by key.
type GroupedAggregate struct {
	Axis   Axis
	Metric Metric
	Groups []GroupTotals
}

// Keys returns the group keys in output order.
func (g GroupedAggregate) Keys() []string {
	keys := make([]string, len(g.Groups))
	for i, grp := range g.Groups {
		keys[i] = grp.Key
	}
	return keys
}

// Lookup returns the totals of one group.
func (g GroupedAggregate) Lookup(key string) (StageValues, bool) {
	for _, grp := range g.Groups {
		if grp.Key == key {
			return grp.Values, true
		}
	}
	return StageValues{}, false
}

// Empty reports whether no rows survived filtering.
func (g GroupedAggregate) Empty() bool {
	return len(g.Groups) == 0
}
