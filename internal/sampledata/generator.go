package sampledata

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"

	"funnelboard/adapters/excel"
	"funnelboard/domain/funnel"
)

// Dataset is a synthetic opportunity export laid out like the real one: the
// six filter columns, then the count and dollar column of every stage.
type Dataset struct {
	Headers []string
	Rows    [][]string // already formatted strings
}

type Config struct {
	Rows int
	Seed int64

	FiscalYears      []string
	Industries       []string
	Theatres         map[string][]string // theatre -> regions
	OpportunityTypes []string
	FinalSources     []string

	// MissingRate is the chance that Industry, S2 Theatre or S2 Region is left
	// blank on a row.
	MissingRate float64
	// AdvanceRate is the chance an opportunity moves on to the next stage.
	AdvanceRate float64
}

func DefaultConfig() Config {
	return Config{
		Rows:        500,
		Seed:        42,
		FiscalYears: []string{"FY23", "FY24"},
		Industries:  []string{"Financial Services", "Healthcare", "Manufacturing", "Public Sector", "Retail", "Technology"},
		Theatres: map[string][]string{
			"AMER": {"Canada", "LATAM", "US East", "US West"},
			"APAC": {"ANZ", "Japan", "SEA"},
			"EMEA": {"DACH", "Nordics", "UK&I"},
		},
		OpportunityTypes: []string{"Expansion", "New Business", "Renewal"},
		FinalSources:     []string{"Event", "Inbound", "Outbound", "Partner"},
		MissingRate:      0.05,
		AdvanceRate:      0.7,
	}
}

func (c Config) validate() error {
	if c.Rows <= 0 {
		return fmt.Errorf("rows must be > 0")
	}
	if c.AdvanceRate < 0 || c.AdvanceRate > 1 {
		return fmt.Errorf("advance rate must be within [0,1], got %v", c.AdvanceRate)
	}
	if c.MissingRate < 0 || c.MissingRate > 1 {
		return fmt.Errorf("missing rate must be within [0,1], got %v", c.MissingRate)
	}
	if len(c.FiscalYears) == 0 || len(c.Industries) == 0 || len(c.Theatres) == 0 ||
		len(c.OpportunityTypes) == 0 || len(c.FinalSources) == 0 {
		return fmt.Errorf("every categorical column needs at least one value")
	}
	return nil
}

// Generate builds a deterministic dataset for cfg.Seed. Each row is a single
// opportunity: it counts 1 in every stage it reached and carries its deal size
// in the matching dollar columns.
func Generate(cfg Config) (*Dataset, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	theatres := make([]string, 0, len(cfg.Theatres))
	for t := range cfg.Theatres {
		theatres = append(theatres, t)
	}
	// map order is random; sort so the seed alone fixes the output
	sort.Strings(theatres)

	ds := &Dataset{
		Headers: funnel.RequiredColumns(),
		Rows:    make([][]string, 0, cfg.Rows),
	}

	pick := func(values []string) string { return values[rng.Intn(len(values))] }
	maybeMissing := func(v string) string {
		if rng.Float64() < cfg.MissingRate {
			return ""
		}
		return v
	}

	for i := 0; i < cfg.Rows; i++ {
		theatre := pick(theatres)
		region := pick(cfg.Theatres[theatre])

		// columns follow funnel.Dimensions() order
		row := []string{
			maybeMissing(pick(cfg.Industries)),
			maybeMissing(theatre),
			maybeMissing(region),
			pick(cfg.FiscalYears),
			pick(cfg.OpportunityTypes),
			pick(cfg.FinalSources),
		}

		reached := 0
		for reached < funnel.StageCount-1 && rng.Float64() < cfg.AdvanceRate {
			reached++
		}
		// log-normal deal sizes, rounded to whole dollars
		amount := math.Round(math.Exp(10 + rng.NormFloat64()*0.8))

		counts := make([]string, funnel.StageCount)
		dollars := make([]string, funnel.StageCount)
		for s := range counts {
			if s <= reached {
				counts[s] = "1"
				dollars[s] = strconv.FormatFloat(amount, 'f', 0, 64)
			} else {
				counts[s] = "0"
				dollars[s] = "0"
			}
		}

		row = append(row, counts...)
		row = append(row, dollars...)
		ds.Rows = append(ds.Rows, row)
	}

	return ds, nil
}

func WriteCSV(path string, ds *Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(ds.Headers); err != nil {
		return err
	}
	if err := w.WriteAll(ds.Rows); err != nil {
		return err
	}
	return w.Error()
}

func WriteXLSX(path string, ds *Dataset) error {
	var buf bytes.Buffer
	if err := excel.WriteWorkbook(&buf, excel.Sheet{Name: "Sheet1", Header: ds.Headers, Rows: ds.Rows}); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
