package importer

// reader.go decodes an uploaded byte stream into header-keyed rows.
//
// The parser is a pure transform: it validates encoding and shape but never
// judges field content. Required-field and type validation belong to the
// coercion layer so that a short row is padded, not rejected, here.

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Row maps header column names to raw cell values for one CSV line.
type Row map[string]string

// utf8BOM is the byte-order mark some spreadsheet exports prepend.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadRows consumes the entire stream and returns the header and one Row per
// data line. Rows shorter than the header are padded with empty strings;
// fully empty lines are dropped. Returns *MalformedInputError if the stream
// is not valid UTF-8 or cannot be parsed as CSV at all.
func ReadRows(r io.Reader) ([]string, []Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, &MalformedInputError{Reason: fmt.Sprintf("read upload: %v", err)}
	}

	data = stripBOM(data)
	if !utf8.Valid(data) {
		return nil, nil, &MalformedInputError{Reason: "upload is not valid UTF-8 text"}
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, &MalformedInputError{Reason: fmt.Sprintf("parse csv: %v", err)}
	}
	if len(records) == 0 {
		return nil, nil, &MalformedInputError{Reason: "upload is empty"}
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = cleanCell(h)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if isEmptyRow(rec) {
			continue
		}
		row := make(Row, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[name] = cleanCell(rec[i])
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}

	return header, rows, nil
}

func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

// cleanCell trims whitespace and the Excel formula prefix (="value") that
// spreadsheet exports wrap around cells.
func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) {
		s = s[2 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

func isEmptyRow(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
