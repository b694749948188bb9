package planner

import (
	"encoding/csv"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ImportRow is one template item parsed from user supplied data.
type ImportRow struct {
	Order   int     `json:"order_no"`
	Title   string  `json:"title"`
	LinkURL *string `json:"link_url"`
}

var pasteSeparator = regexp.MustCompile(`\t|,`)

// ParsePaste reads one row per non blank line: title, then an optional link, separated by a
// comma or a tab. Input that is not text yields no rows.
func ParsePaste(text string) []ImportRow {
	if !isText(text) {
		return nil
	}
	var rows []ImportRow
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := pasteSeparator.Split(line, -1)
		var link string
		if len(parts) > 1 {
			link = parts[1]
		}
		rows = append(rows, ImportRow{Title: parts[0], LinkURL: optional(link)})
	}
	return ParseRows(rows)
}

// ParseCSV reads CSV with a header naming the title and link_url columns (any case, link is
// accepted for link_url). Without a title header the first record is data: title in the first
// column, link in the second. Malformed or binary input yields no rows.
func ParseCSV(r io.Reader) []ImportRow {
	data, err := io.ReadAll(r)
	if err != nil || !isText(string(data)) {
		return nil
	}
	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), "\ufeff")))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil || len(records) == 0 {
		return nil
	}

	titleCol, linkCol := -1, -1
	for i, h := range records[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "title":
			titleCol = i
		case "link_url", "link":
			if linkCol < 0 {
				linkCol = i
			}
		}
	}
	if titleCol < 0 {
		titleCol, linkCol = 0, 1
	} else {
		records = records[1:]
	}

	rows := make([]ImportRow, 0, len(records))
	for _, rec := range records {
		row := ImportRow{Title: field(rec, titleCol)}
		if linkCol >= 0 {
			row.LinkURL = optional(field(rec, linkCol))
		}
		rows = append(rows, row)
	}
	return ParseRows(rows)
}

// ParseRows trims titles, drops rows without one and numbers the rest from 1.
func ParseRows(rows []ImportRow) []ImportRow {
	kept := make([]ImportRow, 0, len(rows))
	for _, row := range rows {
		title := strings.TrimSpace(row.Title)
		if title == "" {
			continue
		}
		var link *string
		if row.LinkURL != nil {
			link = optional(*row.LinkURL)
		}
		kept = append(kept, ImportRow{Order: len(kept) + 1, Title: title, LinkURL: link})
	}
	return kept
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func isText(s string) bool {
	return utf8.ValidString(s) && !strings.ContainsRune(s, 0)
}
