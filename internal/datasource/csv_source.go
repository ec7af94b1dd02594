package datasource

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lumenworksco/trading-algorithm/internal/errs"
	"github.com/lumenworksco/trading-algorithm/internal/marketdata"
)

// dateLayouts is the ordered fallback chain tried against the timestamp
// column before falling back to numeric epoch parsing.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
}

var headerAliases = map[string][]string{
	"timestamp": {"Date", "date", "timestamp", "Timestamp"},
	"open":      {"Open", "open"},
	"high":      {"High", "high"},
	"low":       {"Low", "low"},
	"close":     {"Close", "close", "Adj Close"},
	"volume":    {"Volume", "volume"},
}

// CSVSource reads bars from an on-disk CSV file whose header uses any of the
// common aliases for each column.
type CSVSource struct {
	path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (c *CSVSource) Name() string { return "csv: " + c.path }

// GetBars parses the whole file (CSV sources are assumed small enough to
// hold in memory), filters to [start, end], and returns bars sorted by
// timestamp. symbol and timeframe are accepted for contract compatibility
// with DataSource but do not affect parsing: one CSV file holds one symbol.
func (c *CSVSource) GetBars(ctx context.Context, symbol string, timeframe marketdata.Timeframe, start, end int64) ([]marketdata.Bar, error) {
	file, err := os.Open(c.path)
	if err != nil {
		return nil, &errs.DataError{Kind: "connection", Reason: err.Error()}
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, &errs.DataError{Kind: "parse", Reason: "empty or unreadable header: " + err.Error()}
	}
	columns, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var bars []marketdata.Bar
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &errs.DataError{Kind: "parse", Reason: err.Error()}
		}

		bar, err := parseRecord(record, columns)
		if err != nil {
			return nil, err
		}
		if bar.Timestamp < start || bar.Timestamp > end {
			continue
		}
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp < bars[j].Timestamp })
	return bars, nil
}

type columnIndex struct {
	timestamp int
	open      int
	high      int
	low       int
	close     int
	volume    int // -1 if absent
}

func resolveColumns(header []string) (columnIndex, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	find := func(field string) (int, bool) {
		for _, alias := range headerAliases[field] {
			if i, ok := index[alias]; ok {
				return i, true
			}
		}
		return 0, false
	}

	var cols columnIndex
	var ok bool
	if cols.timestamp, ok = find("timestamp"); !ok {
		return cols, &errs.DataError{Kind: "parse", Reason: "missing timestamp/date column"}
	}
	if cols.open, ok = find("open"); !ok {
		return cols, &errs.DataError{Kind: "parse", Reason: "missing open column"}
	}
	if cols.high, ok = find("high"); !ok {
		return cols, &errs.DataError{Kind: "parse", Reason: "missing high column"}
	}
	if cols.low, ok = find("low"); !ok {
		return cols, &errs.DataError{Kind: "parse", Reason: "missing low column"}
	}
	if cols.close, ok = find("close"); !ok {
		return cols, &errs.DataError{Kind: "parse", Reason: "missing close column"}
	}
	if v, ok := find("volume"); ok {
		cols.volume = v
	} else {
		cols.volume = -1
	}
	return cols, nil
}

func parseRecord(record []string, cols columnIndex) (marketdata.Bar, error) {
	timestamp, err := parseTimestamp(record[cols.timestamp])
	if err != nil {
		return marketdata.Bar{}, err
	}
	open, err := parseFloat(record[cols.open])
	if err != nil {
		return marketdata.Bar{}, err
	}
	high, err := parseFloat(record[cols.high])
	if err != nil {
		return marketdata.Bar{}, err
	}
	low, err := parseFloat(record[cols.low])
	if err != nil {
		return marketdata.Bar{}, err
	}
	closeVal, err := parseFloat(record[cols.close])
	if err != nil {
		return marketdata.Bar{}, err
	}
	volume := 0.0
	if cols.volume >= 0 {
		volume, err = parseFloat(record[cols.volume])
		if err != nil {
			return marketdata.Bar{}, err
		}
	}
	return marketdata.NewBar(timestamp, open, high, low, closeVal, volume), nil
}

func parseFloat(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &errs.DataError{Kind: "parse", Reason: "invalid numeric field: " + raw}
	}
	return v, nil
}

// parseTimestamp tries each date layout in order, then falls back to a
// numeric epoch: values of 10 digits or fewer are seconds, longer values are
// milliseconds.
func parseTimestamp(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t.UnixMilli(), nil
		}
	}

	digits := strings.TrimPrefix(raw, "-")
	if digits != "" && isAllDigits(digits) {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err == nil {
			if len(digits) <= 10 {
				return value * 1000, nil
			}
			return value, nil
		}
	}

	return 0, &errs.DataError{Kind: "parse", Reason: "unrecognized timestamp format: " + raw}
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
