package timeseries

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	DateColumn  string // Column name for dates (default: first date-like header)
	ValueColumn string // Column name for values; empty means one row per event
	DateFormat  string // Date format (default: "2006-01-02")
	HasHeader   bool   // Whether CSV has a header row (default: true)
	Delimiter   rune   // Field delimiter (default: ',')
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		DateFormat: "2006-01-02",
		HasHeader:  true,
		Delimiter:  ',',
	}
}

// LoadCSV loads a time series from a CSV file. When ValueColumn is set, each
// row contributes one (date, value) pair; otherwise each row counts as one
// event and the caller is expected to bin the dates with FillMonthly.
func LoadCSV(filename string, opts *CSVOptions) (*Series, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadCSVFromReader(file, opts)
}

// LoadCSVFromReader loads a time series from an io.Reader.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true

	dateIdx, valueIdx := 0, -1
	if opts.HasHeader {
		header, err := reader.Read()
		if err != nil {
			return nil, err
		}
		for i, h := range header {
			h = strings.TrimSpace(strings.Trim(h, "\""))
			switch {
			case opts.DateColumn != "" && h == opts.DateColumn:
				dateIdx = i
			case opts.DateColumn == "" && (h == "date" || h == "Date" || h == "ds" || h == "Month"):
				dateIdx = i
			case opts.ValueColumn != "" && h == opts.ValueColumn:
				valueIdx = i
			}
		}
		if opts.ValueColumn != "" && valueIdx == -1 {
			return nil, errors.New("value column not found: " + opts.ValueColumn)
		}
	} else if opts.ValueColumn != "" {
		valueIdx = 1
	}

	var timestamps []time.Time
	var values []float64

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if dateIdx >= len(record) {
			continue
		}

		ts, err := parseDate(record[dateIdx], opts.DateFormat)
		if err != nil {
			continue // skip malformed rows
		}

		v := 1.0
		if valueIdx >= 0 {
			if valueIdx >= len(record) {
				continue
			}
			valStr := strings.TrimSpace(strings.Trim(record[valueIdx], "\""))
			if valStr == "" || valStr == "NA" || valStr == "NaN" {
				continue
			}
			v, err = strconv.ParseFloat(valStr, 64)
			if err != nil {
				continue
			}
		}

		timestamps = append(timestamps, ts)
		values = append(values, v)
	}

	if len(values) == 0 {
		return nil, errors.New("no valid data found in CSV")
	}

	return &Series{Timestamps: timestamps, Values: values}, nil
}

func parseDate(s, preferred string) (time.Time, error) {
	s = strings.TrimSpace(strings.Trim(s, "\""))
	formats := []string{
		preferred,
		"2006-01-02",
		"2006/01/02",
		"01/02/2006",
		"1/2/2006",
		"2006-01",
	}
	var err error
	var ts time.Time
	for _, f := range formats {
		ts, err = time.Parse(f, s)
		if err == nil {
			return ts, nil
		}
	}
	return time.Time{}, err
}
