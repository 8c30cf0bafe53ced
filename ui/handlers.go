package ui

import (
	"bytes"
	"html/template"
	"net/http"

	"funnelboard/adapters/excel"
	"funnelboard/domain/funnel"
	"funnelboard/internal/errors"
	"funnelboard/internal/render"
	"funnelboard/ui/templates/fragments"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type toggleView struct {
	Name    string
	Value   string
	Label   string
	Checked bool
}

type optionView struct {
	Value    string
	Selected bool
}

type selectorView struct {
	Param   string
	Label   string
	Options []optionView
}

type dashboardView struct {
	Chart       template.HTML
	Title       string
	Absolute    render.Table
	Percentage  render.Table
	MatchedRows int
	TotalRows   int
}

type pageView struct {
	Source    string
	Toggles   [][]toggleView
	Selectors []selectorView
	Dashboard dashboardView
}

// selection parses the request or answers 400 and returns false
func (s *Server) selection(c *gin.Context) (funnel.FilterSelection, bool) {
	sel, err := parseSelection(c.Request.URL.Query(), s.options)
	if err != nil {
		s.log.Debug("rejecting query %q: %v", c.Request.URL.RawQuery, err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
		return sel, false
	}
	return sel, true
}

func (s *Server) dashboardView(sel funnel.FilterSelection) dashboardView {
	view := render.Dashboard(s.dataset, sel)
	return dashboardView{
		Chart:       view.Chart.Snippet(),
		Title:       view.Chart.Title,
		Absolute:    view.Absolute,
		Percentage:  view.Percentage,
		MatchedRows: view.MatchedRows,
		TotalRows:   s.dataset.Len(),
	}
}

// handleIndex serves the full page with selectors reflecting the query
func (s *Server) handleIndex(c *gin.Context) {
	sel, ok := s.selection(c)
	if !ok {
		return
	}

	page := pageView{
		Source: s.dataset.Source(),
		Toggles: [][]toggleView{
			{
				{Name: "axis", Value: string(funnel.AxisIndustry), Label: "Industry", Checked: sel.Axis == funnel.AxisIndustry},
				{Name: "axis", Value: string(funnel.AxisFinalSource), Label: "Final Source", Checked: sel.Axis == funnel.AxisFinalSource},
			},
			{
				{Name: "metric", Value: string(funnel.MetricCounts), Label: "Counts", Checked: sel.Metric == funnel.MetricCounts},
				{Name: "metric", Value: string(funnel.MetricDollars), Label: "Dollar Amounts", Checked: sel.Metric == funnel.MetricDollars},
			},
		},
		Dashboard: s.dashboardView(sel),
	}
	for _, dim := range funnel.Dimensions() {
		selector := selectorView{Param: dim.Param(), Label: dim.Column()}
		for _, v := range s.options[dim] {
			selector.Options = append(selector.Options, optionView{Value: v, Selected: sel.Allows(dim, v)})
		}
		page.Selectors = append(page.Selectors, selector)
	}

	s.renderTemplate(c, fragments.Index, page)
}

// handleDashboardFragment re-renders the chart and tables for htmx swaps.
// Plain navigation to the same URL gets the full page for that selection.
func (s *Server) handleDashboardFragment(c *gin.Context) {
	if !isHTMX(c) {
		s.handleIndex(c)
		return
	}
	sel, ok := s.selection(c)
	if !ok {
		return
	}
	s.renderTemplate(c, fragments.Dashboard, s.dashboardView(sel))
}

// handleFunnelJSON returns the chart series and both tables as JSON
func (s *Server) handleFunnelJSON(c *gin.Context) {
	sel, ok := s.selection(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, render.Dashboard(s.dataset, sel))
}

// handleOptions lists the selectable values of every filter
func (s *Server) handleOptions(c *gin.Context) {
	out := make(map[string][]string, funnel.DimensionCount)
	for _, dim := range funnel.Dimensions() {
		out[dim.Param()] = s.options.For(dim)
	}
	c.JSON(http.StatusOK, gin.H{
		"options": out,
		"axes":    []funnel.Axis{funnel.AxisIndustry, funnel.AxisFinalSource},
		"metrics": []funnel.Metric{funnel.MetricCounts, funnel.MetricDollars},
		"stages":  funnel.StageLabels(),
	})
}

// handleExport downloads both tables of the current selection as a workbook
func (s *Server) handleExport(c *gin.Context) {
	sel, ok := s.selection(c)
	if !ok {
		return
	}
	view := render.Dashboard(s.dataset, sel)

	var buf bytes.Buffer
	err := excel.WriteWorkbook(&buf,
		excel.Sheet{Name: "Absolute", Header: view.Absolute.Header, Rows: view.Absolute.Rows},
		excel.Sheet{Name: "Percentage", Header: view.Percentage.Header, Rows: view.Percentage.Rows},
	)
	if err != nil {
		s.log.Error("export failed: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "code": errors.CodeInternalError})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="funnel.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// handleHealth reports liveness and the size of the loaded dataset
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"rows":   s.dataset.Len(),
		"source": s.dataset.Source(),
	})
}
