// Package vfeat provides streaming parsing of variant feature tables.
//
// A variant feature file is tab-delimited with seven columns:
//
//	name  region  start  end  strand  allele_string  source
//
// Lines starting with '#' are comments. Strand is "1"/"+1"/"+" or
// "-1"/"-". A pure insertion is written with end = start - 1.
package vfeat

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/variomics/varannot/internal/variant"
)

// Parser reads variants from a variant feature file.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
}

// NewParser creates a parser for the given file. Supports plain and gzipped
// files; "-" reads from stdin.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open variant file: %w", err)
	}

	p := &Parser{file: file}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	_, err = file.Read(buf)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("read variant file: %w", err)
	}

	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek variant file: %w", err)
	}

	if buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}

	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
func NewParserFromReader(r io.Reader) *Parser {
	return &Parser{reader: bufio.NewReader(r)}
}

// Next reads the next variant. Returns nil, nil when there are no more.
func (p *Parser) Next() (*variant.Variant, error) {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read variant line: %w", err)
		}
		atEOF := err == io.EOF
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			if atEOF {
				return nil, nil
			}
			continue
		}

		return p.parseLine(line)
	}
}

// parseLine parses a single data line into a Variant.
func (p *Parser) parseLine(line string) (*variant.Variant, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 6 {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected at least 6 columns, found %d", len(fields)),
		}
	}

	start, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid start: %s", fields[2]),
		}
	}

	end, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid end: %s", fields[3]),
		}
	}
	if end < start-1 {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("end %d before start %d", end, start),
		}
	}

	strand, err := parseStrand(fields[4])
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid strand: %s", fields[4]),
		}
	}

	v := &variant.Variant{
		Name:         fields[0],
		Region:       fields[1],
		Start:        start,
		End:          end,
		Strand:       strand,
		AlleleString: fields[5],
	}
	if len(fields) > 6 {
		v.Source = fields[6]
	}

	return v, nil
}

// parseStrand accepts "1", "+1", "+", "-1", and "-".
func parseStrand(s string) (int8, error) {
	switch s {
	case "1", "+1", "+":
		return 1, nil
	case "-1", "-":
		return -1, nil
	}
	return 0, fmt.Errorf("unrecognized strand %q", s)
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ParseError represents an error during parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("variant feature parse error at line %d: %s", e.Line, e.Message)
}
