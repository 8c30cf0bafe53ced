package excel

import (
	"math"
	"strconv"
	"strings"

	"funnelboard/domain/funnel"
	"funnelboard/internal/errors"
)

// LoadDataset reads the configured file and converts it into the immutable
// funnel dataset. Every failure is a LoadError.
func LoadDataset(cfg ExcelConfig) (*funnel.Dataset, error) {
	data, err := NewDataReader(cfg.FilePath, cfg.Sheet).ReadData()
	if err != nil {
		return nil, errors.LoadError(cfg.FilePath, err)
	}

	ds, err := BuildDataset(cfg.FilePath, data)
	if err != nil {
		return nil, errors.LoadError(cfg.FilePath, err)
	}
	return ds, nil
}

// BuildDataset validates the schema of raw sheet data and parses every row.
func BuildDataset(source string, data *ExcelData) (*funnel.Dataset, error) {
	var missing []string
	for _, col := range funnel.RequiredColumns() {
		if !data.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, funnel.NewMissingColumnsError(missing)
	}

	rows := make([]funnel.Row, 0, len(data.Rows))
	for i, raw := range data.Rows {
		line := i + 2
		if i < len(data.Lines) {
			line = data.Lines[i]
		}
		row, err := parseRow(raw, line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return funnel.NewDataset(source, data.Headers, rows), nil
}

func parseRow(raw RawRowData, line int) (funnel.Row, error) {
	row := funnel.Row{
		Industry:        funnel.DimIndustry.Normalize(raw[funnel.DimIndustry.Column()]),
		Theatre:         funnel.DimTheatre.Normalize(raw[funnel.DimTheatre.Column()]),
		Region:          funnel.DimRegion.Normalize(raw[funnel.DimRegion.Column()]),
		FiscalYear:      funnel.DimFiscalYear.Normalize(raw[funnel.DimFiscalYear.Column()]),
		OpportunityType: funnel.DimOpportunityType.Normalize(raw[funnel.DimOpportunityType.Column()]),
		FinalSource:     funnel.DimFinalSource.Normalize(raw[funnel.DimFinalSource.Column()]),
	}

	for _, stage := range funnel.Stages() {
		count, err := parseNumber(raw[stage.CountColumn()])
		if err != nil {
			return row, funnel.NewMalformedNumberError(stage.CountColumn(), line, raw[stage.CountColumn()])
		}
		dollars, err := parseNumber(raw[stage.DollarColumn()])
		if err != nil {
			return row, funnel.NewMalformedNumberError(stage.DollarColumn(), line, raw[stage.DollarColumn()])
		}
		row.Counts[stage] = count
		row.Dollars[stage] = dollars
	}
	return row, nil
}

// parseNumber accepts plain numbers plus "$" prefixes and thousands
// separators. Blank cells are zero; NaN and infinities are rejected.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimSpace(s[1:])
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	if negative {
		v = -v
	}
	return v, nil
}
