package excel

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	usage "dominion-bridge/internal/usage/domain"
)

const (
	// DefaultPowerSheet and DefaultEnergySheet are the sheet names carried
	// by the utility's interval export.
	DefaultPowerSheet  = "kW Usage Data"
	DefaultEnergySheet = "kWH Usage Data"

	dateColumn = "Date"
	dateLayout = "01/02/2006"
)

// Loader reads the raw XLSX export into a typed RawUsage pair. Missing
// sheets or unparseable cells fail fast with usage.ErrDataSource; no
// partially populated table is ever returned.
type Loader struct {
	powerSheet  string
	energySheet string
}

// LoaderOption configures the loader.
type LoaderOption func(*Loader)

// WithSheetNames overrides the default power and energy sheet names.
func WithSheetNames(power, energy string) LoaderOption {
	return func(l *Loader) {
		if power != "" {
			l.powerSheet = power
		}
		if energy != "" {
			l.energySheet = energy
		}
	}
}

// NewLoader constructs a Loader with the export's default sheet names.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		powerSheet:  DefaultPowerSheet,
		energySheet: DefaultEnergySheet,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load opens the workbook at path and reads both usage sheets.
func (l *Loader) Load(path string) (usage.RawUsage, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return usage.RawUsage{}, fmt.Errorf("%w: open %s: %v", usage.ErrDataSource, path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) < 2 {
		return usage.RawUsage{}, fmt.Errorf("%w: expected at least two sheets, found %v", usage.ErrDataSource, sheets)
	}

	power, err := l.readSheet(f, l.powerSheet)
	if err != nil {
		return usage.RawUsage{}, err
	}
	energy, err := l.readSheet(f, l.energySheet)
	if err != nil {
		return usage.RawUsage{}, err
	}
	return usage.RawUsage{Power: power, Energy: energy}, nil
}

func (l *Loader) readSheet(f *excelize.File, name string) (usage.WideTable, error) {
	rows, err := f.GetRows(name)
	if err != nil {
		return usage.WideTable{}, fmt.Errorf("%w: sheet %q: %v", usage.ErrDataSource, name, err)
	}
	if len(rows) == 0 {
		return usage.WideTable{}, fmt.Errorf("%w: sheet %q is empty", usage.ErrDataSource, name)
	}

	dateIdx := -1
	var valueIdx []int
	var columns []string
	for i, col := range rows[0] {
		label := strings.TrimSpace(col)
		switch {
		case label == dateColumn:
			dateIdx = i
		case strings.Contains(label, "AM") || strings.Contains(label, "PM"):
			valueIdx = append(valueIdx, i)
			columns = append(columns, label)
		}
	}
	if dateIdx < 0 {
		return usage.WideTable{}, fmt.Errorf("%w: sheet %q has no %q column", usage.ErrDataSource, name, dateColumn)
	}
	if len(valueIdx) == 0 {
		return usage.WideTable{}, fmt.Errorf("%w: sheet %q has no time-of-day columns", usage.ErrDataSource, name)
	}

	table := usage.WideTable{Columns: columns}
	for _, row := range rows[1:] {
		if dateIdx >= len(row) || strings.TrimSpace(row[dateIdx]) == "" {
			continue
		}
		date, err := time.Parse(dateLayout, strings.TrimSpace(row[dateIdx]))
		if err != nil {
			return usage.WideTable{}, fmt.Errorf("%w: sheet %q: date %q: %v", usage.ErrDataSource, name, row[dateIdx], err)
		}

		values := make([]float64, len(valueIdx))
		var total float64
		for j, idx := range valueIdx {
			if idx >= len(row) {
				break
			}
			cell := strings.TrimSpace(row[idx])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return usage.WideTable{}, fmt.Errorf("%w: sheet %q: cell %q in column %q: %v",
					usage.ErrDataSource, name, cell, columns[j], err)
			}
			values[j] = v
			total += v
		}
		table.Rows = append(table.Rows, usage.WideRow{Date: date, Values: values, Total: total})
	}
	return table, nil
}
