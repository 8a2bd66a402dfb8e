package blm

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"blmfeed/internal/property"
)

const (
	sectionHeader     = "#HEADER#"
	sectionDefinition = "#DEFINITION#"
	sectionData       = "#DATA#"
	sectionEnd        = "#END#"
)

var (
	ErrMissingSection = errors.New("blm: missing section")
	ErrColumnMismatch = errors.New("blm: column count mismatch")
	ErrCountMismatch  = errors.New("blm: property count mismatch")
)

// Header is the #HEADER# block of a BLM file.
type Header struct {
	Version       string
	EOF           string
	EOR           string
	PropertyCount int // -1 when the header does not say
	GeneratedDate string
	Raw           map[string]string
}

// Document is a decoded BLM file.
type Document struct {
	Header  Header
	Columns []string // camelCase keys, in file order
	Records []*property.Record
}

// Decode reads a whole BLM file and builds one record per data row.
func Decode(r io.Reader, opts ...property.Option) (*Document, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read blm: %w", err)
	}
	text := string(b)

	headerText, err := section(text, sectionHeader, sectionDefinition)
	if err != nil {
		return nil, err
	}
	defText, err := section(text, sectionDefinition, sectionData)
	if err != nil {
		return nil, err
	}
	dataText, err := section(text, sectionData, sectionEnd)
	if err != nil {
		return nil, err
	}

	doc := &Document{Header: parseHeader(headerText)}
	eof, eor := doc.Header.EOF, doc.Header.EOR

	def := strings.TrimSpace(defText)
	if i := strings.Index(def, eor); i >= 0 {
		def = def[:i]
	}
	for _, name := range splitFields(def, eof) {
		doc.Columns = append(doc.Columns, CamelKey(strings.TrimSpace(name)))
	}

	row := 0
	for _, chunk := range strings.Split(dataText, eor) {
		chunk = strings.TrimLeft(chunk, "\r\n")
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		row++
		values := splitFields(chunk, eof)
		if len(values) != len(doc.Columns) {
			return nil, fmt.Errorf("row %d has %d values for %d columns: %w",
				row, len(values), len(doc.Columns), ErrColumnMismatch)
		}
		attrs := make(map[string]string, len(values))
		for i, v := range values {
			attrs[doc.Columns[i]] = v
		}
		doc.Records = append(doc.Records, property.New(attrs, opts...))
	}

	if n := doc.Header.PropertyCount; n >= 0 && n != len(doc.Records) {
		return nil, fmt.Errorf("header says %d, found %d: %w", n, len(doc.Records), ErrCountMismatch)
	}
	return doc, nil
}

func section(text, start, end string) (string, error) {
	i := strings.Index(text, start)
	if i < 0 {
		return "", fmt.Errorf("%s: %w", start, ErrMissingSection)
	}
	rest := text[i+len(start):]
	j := strings.Index(rest, end)
	if j < 0 {
		return "", fmt.Errorf("%s: %w", end, ErrMissingSection)
	}
	return rest[:j], nil
}

func parseHeader(text string) Header {
	h := Header{EOF: "^", EOR: "~", PropertyCount: -1, Raw: map[string]string{}}
	for _, line := range strings.Split(text, "\n") {
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		v = strings.Trim(strings.TrimSpace(v), "'")
		h.Raw[k] = v

		switch strings.ToUpper(k) {
		case "VERSION":
			h.Version = v
		case "EOF":
			if v != "" {
				h.EOF = v
			}
		case "EOR":
			if v != "" {
				h.EOR = v
			}
		case "PROPERTY COUNT":
			if n, err := strconv.Atoi(v); err == nil {
				h.PropertyCount = n
			}
		case "GENERATED DATE":
			h.GeneratedDate = v
		}
	}
	return h
}

// splitFields splits on sep. Lines written by most exporters end with a
// separator before the record terminator, which leaves one empty tail.
func splitFields(s, sep string) []string {
	parts := strings.Split(s, sep)
	if len(parts) > 1 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// CamelKey turns a BLM column name such as MEDIA_IMAGE_00 into mediaImage00.
func CamelKey(column string) string {
	var sb strings.Builder
	for i, part := range strings.Split(strings.ToLower(column), "_") {
		if part == "" {
			continue
		}
		if i == 0 || sb.Len() == 0 {
			sb.WriteString(part)
			continue
		}
		r := []rune(part)
		r[0] = unicode.ToUpper(r[0])
		sb.WriteString(string(r))
	}
	return sb.String()
}
