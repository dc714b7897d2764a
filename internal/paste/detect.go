package paste

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// Format represents a recognised encoding of pasted tabular content.
type Format int

const (
	// None indicates the paste is not tabular.
	None Format = iota
	// Markdown indicates a pipe table.
	Markdown
	// TSV indicates tab-separated lines, as copied from spreadsheets.
	TSV
	// CSV indicates comma-separated lines.
	CSV
	// SpaceSeparated indicates columns separated by runs of two or more spaces.
	SpaceSeparated
	// DashSeparated indicates columns separated by " - ".
	DashSeparated
	// HTML indicates a <table> in the clipboard HTML.
	HTML
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case Markdown:
		return "markdown"
	case TSV:
		return "tsv"
	case CSV:
		return "csv"
	case SpaceSeparated:
		return "space"
	case DashSeparated:
		return "dash"
	case HTML:
		return "html"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// ParseFormat is the inverse of Format.String. Unknown names map to None.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md":
		return Markdown
	case "tsv":
		return TSV
	case "csv":
		return CSV
	case "space":
		return SpaceSeparated
	case "dash":
		return DashSeparated
	case "html":
		return HTML
	default:
		return None
	}
}

// Delimited reports whether the format is one of the line/delimiter formats.
func (f Format) Delimited() bool {
	switch f {
	case TSV, CSV, SpaceSeparated, DashSeparated:
		return true
	}
	return false
}

// separatorRegex matches a Markdown header separator row such as
// "|---|:---:|", "--- | ---" or "|----|". A single unbounded "---" is not a
// separator (it is a horizontal rule).
var separatorRegex = regexp.MustCompile(`^(?:\|\s*:?-{2,}:?\s*(?:\|\s*:?-{2,}:?\s*)*\|?|\s*:?-{2,}:?\s*(?:\|\s*:?-{2,}:?\s*)+\|?)$`)

// textDetectors is the fixed precedence for plain-text detection.
var textDetectors = []struct {
	format Format
	match  func(lines []string) bool
}{
	{Markdown, isMarkdown},
	{TSV, func(lines []string) bool { return isDelimited(lines, TSV) }},
	{CSV, func(lines []string) bool { return isDelimited(lines, CSV) }},
	{SpaceSeparated, func(lines []string) bool { return isDelimited(lines, SpaceSeparated) }},
	{DashSeparated, func(lines []string) bool { return isDelimited(lines, DashSeparated) }},
}

// Detect decides which tabular encoding, if any, the paste uses. Clipboard
// HTML containing a table always wins; otherwise the plain-text detectors
// run in order Markdown, TSV, CSV, SpaceSeparated, DashSeparated.
func Detect(plainText, htmlFragment string) Format {
	if htmlFragment != "" && hasHTMLTable(htmlFragment) {
		return HTML
	}

	lines := contentLines(plainText)
	for _, d := range textDetectors {
		if d.match(lines) {
			return d.format
		}
	}
	return None
}

// contentLines splits text into trimmed, non-blank lines. Tabs are kept at
// the line edges so empty leading or trailing TSV cells survive.
func contentLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, strings.TrimFunc(l, isTrimmable))
	}
	return lines
}

func isTrimmable(r rune) bool {
	return r != '\t' && unicode.IsSpace(r)
}

func isSeparatorRow(line string) bool {
	return separatorRegex.MatchString(strings.TrimSpace(line))
}

func isMarkdown(lines []string) bool {
	if len(lines) < 3 {
		return false
	}

	hasSeparator := false
	hasPipeRow := false
	for _, l := range lines {
		t := strings.TrimSpace(l)
		if isSeparatorRow(t) {
			hasSeparator = true
			continue
		}
		if strings.HasPrefix(t, "|") && strings.HasSuffix(t, "|") && len(t) > 1 {
			hasPipeRow = true
		} else if len(splitMarkdownRow(t)) >= 2 {
			hasPipeRow = true
		}
	}
	return hasSeparator && hasPipeRow
}

func isDelimited(lines []string, f Format) bool {
	if len(lines) < 2 {
		return false
	}

	want := len(splitDelimited(lines[0], f))
	hasDelimiter := false
	for _, l := range lines {
		fields := splitDelimited(l, f)
		if len(fields) != want {
			return false
		}
		if containsDelimiter(l, f) && len(fields) >= 2 {
			hasDelimiter = true
		}
	}
	return hasDelimiter
}

func containsDelimiter(line string, f Format) bool {
	switch f {
	case TSV:
		return strings.Contains(line, "\t")
	case CSV:
		return strings.Contains(line, ",")
	case SpaceSeparated:
		return strings.Contains(line, "  ")
	case DashSeparated:
		return strings.Contains(line, " - ")
	}
	return false
}

// hasHTMLTable reports whether the fragment has a <table> with at least one
// <tr> holding a <td> or <th>.
func hasHTMLTable(fragment string) bool {
	lower := strings.ToLower(fragment)
	if !strings.Contains(lower, "<table") {
		return false
	}

	doc, err := parseFragment(fragment)
	if err != nil {
		return false
	}
	return findDataTable(doc) != nil
}

// parseFragment parses clipboard HTML. html.Parse wraps it in html/head/body
// as a browser would, so callers can walk it without special cases.
func parseFragment(fragment string) (*html.Node, error) {
	return html.Parse(strings.NewReader(fragment))
}
