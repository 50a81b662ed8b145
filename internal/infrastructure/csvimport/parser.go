// Package csvimport parses and validates spreadsheet exports for bulk
// description imports.
package csvimport

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Parser reads a header row followed by data rows. Header names are
// matched case-insensitively.
type Parser struct {
	delimiter  rune
	headers    []string
	headerMap  map[string]int
	currentRow int
	reader     *csv.Reader
}

// ParserOption configures a Parser
type ParserOption func(*Parser)

// WithDelimiter sets the field delimiter. Spreadsheets saved with a
// European locale use ';'.
func WithDelimiter(d rune) ParserOption {
	return func(p *Parser) {
		p.delimiter = d
	}
}

// NewParser strips a UTF-8 byte order mark and rejects input that is not
// UTF-8
func NewParser(r io.Reader, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		delimiter: ',',
		headerMap: make(map[string]int),
	}
	for _, opt := range opts {
		opt(p)
	}

	br := bufio.NewReader(r)
	bom, err := br.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(bom) == 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = br.Discard(3)
	}

	head, err := br.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("failed to read file for encoding validation: %w", err)
	}
	if len(head) == 0 {
		return nil, ErrEmptyFile
	}
	if !utf8.Valid(trimPartialRune(head)) {
		return nil, ErrInvalidEncoding
	}

	p.reader = csv.NewReader(br)
	p.reader.Comma = p.delimiter
	p.reader.LazyQuotes = true
	p.reader.TrimLeadingSpace = true
	p.reader.FieldsPerRecord = -1
	return p, nil
}

// trimPartialRune drops a multi-byte sequence cut off by the peek window
func trimPartialRune(b []byte) []byte {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if r, _ := utf8.DecodeLastRune(b); r != utf8.RuneError {
			return b
		}
		b = b[:len(b)-1]
	}
	return b
}

// ParseHeader reads the header row
func (p *Parser) ParseHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	p.headers = make([]string, len(record))
	for i, h := range record {
		name := strings.ToLower(strings.TrimSpace(h))
		p.headers[i] = name
		if name != "" {
			p.headerMap[name] = i
		}
	}
	if len(p.headerMap) == 0 {
		return ErrMissingHeader
	}
	p.currentRow = 1
	return nil
}

// Headers returns the normalized header names
func (p *Parser) Headers() []string {
	return p.headers
}

// HasHeader reports whether a column is present
func (p *Parser) HasHeader(name string) bool {
	_, ok := p.headerMap[strings.ToLower(name)]
	return ok
}

// MissingHeaders returns the required columns that are absent
func (p *Parser) MissingHeaders(required []string) []string {
	var missing []string
	for _, h := range required {
		if !p.HasHeader(h) {
			missing = append(missing, h)
		}
	}
	return missing
}

// Row is one data row. LineNumber counts the header as line 1.
type Row struct {
	LineNumber int
	Data       map[string]string
}

// Get returns a trimmed cell value, "" for absent columns
func (r *Row) Get(column string) string {
	return r.Data[strings.ToLower(column)]
}

// IsEmpty reports whether every cell is blank
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadRow returns the next row or io.EOF
func (p *Parser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	p.currentRow++
	if err != nil {
		return nil, fmt.Errorf("error reading row %d: %w", p.currentRow, err)
	}

	row := &Row{LineNumber: p.currentRow, Data: make(map[string]string, len(p.headers))}
	for i, h := range p.headers {
		if h == "" {
			continue
		}
		if i < len(record) {
			row.Data[h] = strings.TrimSpace(record[i])
		} else {
			row.Data[h] = ""
		}
	}
	return row, nil
}

// ReadAll reads the remaining rows, skipping blank ones. At most maxRows
// rows are returned; one more yields ErrTooManyRows.
func (p *Parser) ReadAll(maxRows int) ([]*Row, error) {
	var rows []*Row
	for {
		row, err := p.ReadRow()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		if row.IsEmpty() {
			continue
		}
		if maxRows > 0 && len(rows) == maxRows {
			return rows, ErrTooManyRows
		}
		rows = append(rows, row)
	}
}
