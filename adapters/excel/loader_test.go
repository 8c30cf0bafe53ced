package excel

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"funnelboard/domain/funnel"
	"funnelboard/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// fixtureRow builds one data row in RequiredColumns order.
func fixtureRow(industry, theatre, region, year, oppType, source string, counts, dollars funnel.StageValues) []interface{} {
	row := []interface{}{industry, theatre, region, year, oppType, source}
	for _, v := range counts {
		row = append(row, v)
	}
	for _, v := range dollars {
		row = append(row, v)
	}
	return row
}

func writeXLSX(t *testing.T, sheet string, header []string, rows ...[]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	}

	hdr := make([]interface{}, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &hdr))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	path := filepath.Join(t.TempDir(), "pipeline.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadDatasetFromWorkbook(t *testing.T) {
	path := writeXLSX(t, "Pipeline", funnel.RequiredColumns(),
		fixtureRow("Tech", "AMER", "West", "FY24", "New", "Web",
			funnel.StageValues{10, 0, 0, 0, 0, 0, 2}, funnel.StageValues{1000, 0, 0, 0, 0, 0, 100}),
		fixtureRow("", "", "", "FY24", "New", "Partner",
			funnel.StageValues{5, 4, 3, 2, 1, 1, 1}, funnel.StageValues{}),
	)

	ds, err := LoadDataset(ExcelConfig{FilePath: path})
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	first := ds.Row(0)
	assert.Equal(t, "Tech", first.Industry)
	assert.Equal(t, funnel.StageValues{10, 0, 0, 0, 0, 0, 2}, first.Counts)
	assert.Equal(t, 1000.0, first.Dollars.At(funnel.StageQualification))
	assert.Equal(t, 100.0, first.Dollars.At(funnel.StageClosedWon))

	second := ds.Row(1)
	assert.Equal(t, funnel.Sentinel, second.Industry)
	assert.Equal(t, funnel.Sentinel, second.Theatre)
	assert.Equal(t, funnel.Sentinel, second.Region)
	assert.Equal(t, "Partner", second.FinalSource)
	assert.Equal(t, path, ds.Source())
}

func TestLoadDatasetNamedSheet(t *testing.T) {
	path := writeXLSX(t, "Data", funnel.RequiredColumns(),
		fixtureRow("Retail", "EMEA", "North", "FY23", "Renewal", "Event",
			funnel.StageValues{5}, funnel.StageValues{}),
	)

	ds, err := LoadDataset(ExcelConfig{FilePath: path, Sheet: "Data"})
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())

	_, err = LoadDataset(ExcelConfig{FilePath: path, Sheet: "Missing"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeLoadError, errors.GetCode(err))
}

func TestLoadDatasetFromCSV(t *testing.T) {
	header := strings.Join(funnel.RequiredColumns(), ",")
	body := "Tech,AMER,West,FY24,New,Web,10,0,0,0,0,0,2,\"$1,000\",0,0,0,0,0,100\n" +
		",,,FY24,New,Web,1,,,,,,,,,,,,,\n"
	path := filepath.Join(t.TempDir(), "pipeline.csv")
	require.NoError(t, os.WriteFile(path, []byte(header+"\n"+body), 0o644))

	ds, err := LoadDataset(ExcelConfig{FilePath: path})
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, 1000.0, ds.Row(0).Dollars.First())
	assert.Equal(t, funnel.Sentinel, ds.Row(1).Industry)
	assert.Equal(t, 0.0, ds.Row(1).Counts.At(funnel.StageClosedWon))
}

func TestLoadDatasetErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadDataset(ExcelConfig{FilePath: filepath.Join(t.TempDir(), "nope.xlsx")})
		require.Error(t, err)
		assert.Equal(t, errors.CodeLoadError, errors.GetCode(err))
	})

	t.Run("corrupt workbook", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "corrupt.xlsx")
		require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))
		_, err := LoadDataset(ExcelConfig{FilePath: path})
		require.Error(t, err)
		assert.Equal(t, errors.CodeLoadError, errors.GetCode(err))
	})

	t.Run("missing columns", func(t *testing.T) {
		cols := funnel.RequiredColumns()
		path := writeXLSX(t, "Sheet1", cols[:len(cols)-1])
		_, err := LoadDataset(ExcelConfig{FilePath: path})
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, funnel.ErrMissingColumns))
		assert.Contains(t, err.Error(), "Closed Won $")
	})

	t.Run("malformed number", func(t *testing.T) {
		row := fixtureRow("Tech", "AMER", "West", "FY24", "New", "Web", funnel.StageValues{}, funnel.StageValues{})
		row[6] = "ten"
		path := writeXLSX(t, "Sheet1", funnel.RequiredColumns(), row)
		_, err := LoadDataset(ExcelConfig{FilePath: path})
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, funnel.ErrMalformedNumber))
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("empty csv", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.csv")
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		_, err := LoadDataset(ExcelConfig{FilePath: path})
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, funnel.ErrEmptyDataset))
	})
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"", 0, false},
		{"12", 12, false},
		{"1,250.5", 1250.5, false},
		{"$3,000", 3000, false},
		{"-$40", -40, false},
		{"abc", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
	}

	for _, tt := range tests {
		got, err := parseNumber(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	err := WriteWorkbook(&buf,
		Sheet{Name: "Absolute", Header: []string{"Industry", "Tech"}, Rows: [][]string{{"Qualification", "10"}}},
		Sheet{Name: "Percentage", Header: []string{"Stages", "Tech"}, Rows: [][]string{{"Qualification", "100%"}}},
	)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Absolute", "Percentage"}, f.GetSheetList())
	v, err := f.GetCellValue("Absolute", "B2")
	require.NoError(t, err)
	assert.Equal(t, "10", v)
	v, err = f.GetCellValue("Percentage", "B2")
	require.NoError(t, err)
	assert.Equal(t, "100%", v)

	assert.Error(t, WriteWorkbook(&buf))
}
