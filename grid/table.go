// Package grid shapes bot row and series payloads for display
package grid

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"sichat/model"
)

const (
	bytesSuffix = "_bytes"
	gib         = 1024 * 1024 * 1024

	// DataTimeLayout is how epoch columns are shown in tables
	DataTimeLayout = "Jan 02, 2006, 03:04:05 PM"
)

// timeColumns hold epoch milliseconds
var timeColumns = map[string]bool{
	"last_data_collection": true,
	"occurenceTime":        true,
	"time":                 true,
}

const conditionColumn = "condition"

// Header is a column key with its display label
type Header struct {
	Key   string
	Label string
}

// Table is a formatted grid ready for rendering or export
type Table struct {
	Headers []Header
	Rows    [][]string
}

// Empty reports whether the table has no rows
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Build formats a grid payload using the intent's column layout
func Build(intent string, data json.RawMessage, loc *time.Location) Table {
	rows := Rows(data)
	headers := FormatHeaders(Columns(intent, rows))
	return Table{
		Headers: headers,
		Rows:    FormatRows(rows, headers, loc),
	}
}

// Rows returns the objects of a row array. Anything else has no rows.
func Rows(data json.RawMessage) []gjson.Result {
	if len(data) == 0 {
		return nil
	}
	res := gjson.ParseBytes(data)
	if !res.IsArray() {
		return nil
	}
	var rows []gjson.Result
	for _, r := range res.Array() {
		if r.IsObject() {
			rows = append(rows, r)
		}
	}
	return rows
}

// Columns returns the intent's fixed layout, or the keys of the first row
func Columns(intent string, rows []gjson.Result) []string {
	if cols, ok := model.IntentColumns(intent); ok {
		return cols
	}
	if len(rows) == 0 {
		return nil
	}
	var keys []string
	rows[0].ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	return keys
}

// FormatHeaders turns column keys into labels: first letter upper-cased,
// underscores as spaces, byte columns suffixed with their GiB unit.
func FormatHeaders(keys []string) []Header {
	headers := make([]Header, 0, len(keys))
	for _, key := range keys {
		label := headerLabel(key)
		if strings.HasSuffix(key, bytesSuffix) {
			label += " (GIB)"
		}
		headers = append(headers, Header{Key: key, Label: label})
	}
	return headers
}

func headerLabel(key string) string {
	if key == "" {
		return ""
	}
	first, rest := key[:1], key[1:]
	return strings.ToUpper(first) + strings.ReplaceAll(rest, "_", " ")
}

// FormatRows renders each row's cells in header order
func FormatRows(rows []gjson.Result, headers []Header, loc *time.Location) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(headers))
		for i, h := range headers {
			cells[i] = FormatCell(h.Key, row.Get(gjson.Escape(h.Key)), loc)
		}
		out = append(out, cells)
	}
	return out
}

// FormatCell formats one value according to its column
func FormatCell(key string, v gjson.Result, loc *time.Location) string {
	if !v.Exists() || v.Type == gjson.Null {
		return ""
	}
	switch {
	case strings.HasSuffix(key, bytesSuffix):
		return strconv.FormatFloat(v.Float()/gib, 'f', 2, 64)
	case timeColumns[key]:
		return formatDataTime(v, loc)
	case key == conditionColumn:
		return model.ConditionLabel(v.String())
	default:
		return v.String()
	}
}

func formatDataTime(v gjson.Result, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	if v.Type == gjson.Number {
		return time.UnixMilli(v.Int()).In(loc).Format(DataTimeLayout)
	}
	if ms, err := strconv.ParseInt(v.String(), 10, 64); err == nil {
		return time.UnixMilli(ms).In(loc).Format(DataTimeLayout)
	}
	if t, err := time.Parse(time.RFC3339Nano, v.String()); err == nil {
		return t.In(loc).Format(DataTimeLayout)
	}
	return v.String()
}
