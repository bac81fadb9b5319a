// Package export serializes classified query-result payloads to CSV.
package export

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dashspectre/dashspectre/internal/models"
)

// msThreshold separates second from millisecond timestamps: anything above
// it is treated as already being in milliseconds.
const msThreshold = 1e10

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// ToCSV renders a classification as CSV text with \n terminators. It returns
// "" when the shape's required fields are missing or empty, which callers
// treat as "nothing to export", not as an error. Traces are never exported.
func ToCSV(c models.Classification) string {
	switch c.Shape {
	case models.ShapeTimeSeries:
		return timeSeriesCSV(c.TimeSeries)
	case models.ShapeTable:
		return tableCSV(c.Table)
	case models.ShapeBarChart:
		return barChartCSV(c.BarChart)
	case models.ShapeGeneric:
		return genericCSV(c.Generic)
	default:
		return ""
	}
}

// HasData reports whether a classification would produce non-empty CSV.
// The export action only renders when this is true.
func HasData(c models.Classification) bool {
	switch c.Shape {
	case models.ShapeTimeSeries:
		if c.TimeSeries == nil {
			return false
		}
		for _, s := range c.TimeSeries.Series {
			if len(s.Values) > 0 {
				return true
			}
		}
		return false
	case models.ShapeTable:
		return c.Table != nil && len(c.Table.Columns) > 0 && len(c.Table.Rows) > 0
	case models.ShapeBarChart:
		return c.BarChart != nil && len(c.BarChart.Categories) > 0 && len(c.BarChart.Series) > 0
	case models.ShapeGeneric:
		return c.Generic != nil && genericCSV(c.Generic) != ""
	default:
		return false
	}
}

// Filename derives the download name for an export: {title}_{shape}_data.csv.
func Filename(title string, shape models.Shape) string {
	name := strings.TrimSpace(title)
	if name == "" {
		name = "panel"
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		default:
			return r
		}
	}, name)
	return fmt.Sprintf("%s_%s_data.csv", name, shape)
}

// timeSeriesCSV aligns all series on a shared DateTime column. Rows are
// chronological; a series without a point at a timestamp gets an empty cell.
func timeSeriesCSV(p *models.TimeSeriesPayload) string {
	if p == nil || len(p.Series) == 0 {
		return ""
	}

	// timestamp -> series name -> formatted value
	cells := map[string]map[string]string{}
	var names []string
	seen := map[string]bool{}

	for i, s := range p.Series {
		name := legendName(s, i)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		for _, point := range s.Values {
			ts := formatTimestamp(point.T)
			row, ok := cells[ts]
			if !ok {
				row = map[string]string{}
				cells[ts] = row
			}
			// Colliding series names keep the later write.
			row[name] = formatValue(point.V)
		}
	}

	if len(cells) == 0 {
		return ""
	}

	timestamps := make([]string, 0, len(cells))
	for ts := range cells {
		timestamps = append(timestamps, ts)
	}
	// Lexicographic equals chronological for ISO-8601.
	sort.Strings(timestamps)

	var b strings.Builder
	b.WriteString("DateTime")
	for _, name := range names {
		b.WriteByte(',')
		b.WriteString(escapeCell(name))
	}
	b.WriteByte('\n')

	for _, ts := range timestamps {
		b.WriteString(ts)
		for _, name := range names {
			b.WriteByte(',')
			b.WriteString(escapeCell(cells[ts][name]))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// legendName resolves a series's display name through the priority chain
// used by plugin renderers, falling back to "Series N".
func legendName(s models.Series, index int) string {
	for _, candidate := range []string{s.FormattedName, s.LegendName, s.DisplayName, s.Legend, s.Name} {
		if candidate != "" {
			return candidate
		}
	}
	return fmt.Sprintf("Series %d", index+1)
}

// formatTimestamp renders a numeric timestamp as ISO-8601 UTC with
// millisecond precision, multiplying seconds into milliseconds first.
func formatTimestamp(t float64) string {
	if t <= msThreshold {
		t *= 1000
	}
	return time.UnixMilli(int64(t)).UTC().Format(isoMillis)
}

func tableCSV(p *models.TablePayload) string {
	if p == nil || len(p.Columns) == 0 || len(p.Rows) == 0 {
		return ""
	}

	var b strings.Builder
	for i, col := range p.Columns {
		if i > 0 {
			b.WriteByte(',')
		}
		header := col.DisplayName
		if header == "" {
			header = col.Name
		}
		b.WriteString(escapeCell(header))
	}
	b.WriteByte('\n')

	for _, row := range p.Rows {
		for i, col := range p.Columns {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escapeCell(cellString(row[col.Name])))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func barChartCSV(p *models.BarChartPayload) string {
	if p == nil || len(p.Categories) == 0 || len(p.Series) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Category")
	for i, s := range p.Series {
		b.WriteByte(',')
		name := s.DisplayName
		if name == "" {
			name = s.Name
		}
		if name == "" {
			name = fmt.Sprintf("Series %d", i+1)
		}
		b.WriteString(escapeCell(name))
	}
	b.WriteByte('\n')

	for i, category := range p.Categories {
		b.WriteString(escapeCell(category))
		for _, s := range p.Series {
			b.WriteByte(',')
			if i < len(s.Data) {
				b.WriteString(escapeCell(formatValue(s.Data[i])))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// genericCSV makes a best effort at anything that matched no concrete shape:
// an array of objects becomes a table keyed on the union of item keys, an
// object holding such an array is unwrapped, and any other object becomes a
// Property,Value dump.
func genericCSV(p *models.GenericPayload) string {
	if p == nil {
		return ""
	}
	return genericValueCSV(p.Value)
}

func genericValueCSV(value any) string {
	if items, ok := objectSlice(value); ok {
		return objectsCSV(items)
	}

	m, ok := value.(map[string]any)
	if !ok || len(m) == 0 {
		return ""
	}

	for _, key := range sortedKeys(m) {
		if items, ok := objectSlice(m[key]); ok {
			return objectsCSV(items)
		}
	}

	var b strings.Builder
	b.WriteString("Property,Value\n")
	for _, key := range sortedKeys(m) {
		b.WriteString(escapeCell(key))
		b.WriteByte(',')
		b.WriteString(escapeCell(cellString(m[key])))
		b.WriteByte('\n')
	}
	return b.String()
}

func objectsCSV(items []map[string]any) string {
	if len(items) == 0 {
		return ""
	}

	keys := sortedKeys(items[0])
	if len(keys) == 0 {
		return ""
	}

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escapeCell(key))
	}
	b.WriteByte('\n')

	for _, item := range items {
		for i, key := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escapeCell(cellString(item[key])))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// escapeCell applies standard CSV quoting: cells containing a comma, quote,
// or newline are wrapped in double quotes with inner quotes doubled.
func escapeCell(cell string) string {
	if !strings.ContainsAny(cell, ",\"\n\r") {
		return cell
	}
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}

func formatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// cellString renders an arbitrary scalar for a CSV cell; null stays empty.
func cellString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case uint64:
		return strconv.FormatUint(s, 10)
	case time.Time:
		return s.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(s)
	}
}

func objectSlice(v any) ([]map[string]any, bool) {
	raw, ok := v.([]any)
	if !ok || len(raw) == 0 {
		return nil, false
	}
	items := make([]map[string]any, 0, len(raw))
	for _, elem := range raw {
		m, ok := elem.(map[string]any)
		if !ok {
			return nil, false
		}
		items = append(items, m)
	}
	return items, true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
