// Package fragments names the templates embedded by the ui package
package fragments

const (
	// Index is the full dashboard page
	Index = "index.html"
	// Dashboard is the chart plus both tables, swapped in on every selector change
	Dashboard = "dashboard.html"
)
