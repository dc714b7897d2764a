package paste

import (
	"encoding/csv"
	"regexp"
	"strings"
)

var spaceRunRegex = regexp.MustCompile(` {2,}`)

// splitDelimited splits one line into trimmed fields using the delimiter of f.
// Detection and normalisation share it so they always agree on field counts.
func splitDelimited(line string, f Format) []string {
	var fields []string
	switch f {
	case TSV:
		fields = strings.Split(line, "\t")
	case CSV:
		fields = splitCSVLine(line)
	case SpaceSeparated:
		fields = spaceRunRegex.Split(strings.TrimSpace(line), -1)
	case DashSeparated:
		fields = strings.Split(line, " - ")
	default:
		return []string{strings.TrimSpace(line)}
	}

	for i, v := range fields {
		fields[i] = strings.TrimSpace(v)
	}
	return fields
}

// splitCSVLine honours double quotes around fields that contain commas.
// Lines that are not valid CSV fall back to a plain split on commas.
func splitCSVLine(line string) []string {
	r := csv.NewReader(strings.NewReader(line))
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	rec, err := r.Read()
	if err != nil {
		return strings.Split(line, ",")
	}
	// A quoted field spanning the rest of the line would swallow later records.
	if _, err := r.Read(); err == nil {
		return strings.Split(line, ",")
	}
	return rec
}

// splitMarkdownRow splits a pipe row into trimmed cells. The empty fields
// produced by a leading or trailing pipe are dropped; "\|" is a literal pipe.
func splitMarkdownRow(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	var (
		cells []string
		cur   strings.Builder
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '\\' && i+1 < len(line) && line[i+1] == '|' {
			cur.WriteByte('|')
			i++
			continue
		}
		if c == '|' {
			cells = append(cells, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteByte(c)
	}
	cells = append(cells, cur.String())

	if strings.HasPrefix(line, "|") && len(cells) > 0 {
		cells = cells[1:]
	}
	if strings.HasSuffix(line, "|") && !strings.HasSuffix(line, `\|`) && len(cells) > 0 {
		cells = cells[:len(cells)-1]
	}

	for i, v := range cells {
		cells[i] = strings.TrimSpace(v)
	}
	return cells
}
