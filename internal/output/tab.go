// Package output provides annotation output formatters.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/variomics/varannot/internal/annotate"
	"github.com/variomics/varannot/internal/hgvs"
)

// TabWriter writes annotations in tab-delimited format.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Name",
			"Location",
			"Strand",
			"Alleles",
			"QC_codes",
			"HGVS_genomic",
			"HGVS_cdna",
			"Consequences",
			"Source",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single annotation.
func (tw *TabWriter) Write(ann *annotate.Annotation) error {
	location := fmt.Sprintf("%s:%d-%d", ann.Region, ann.Start, ann.End)

	strand := "1"
	if ann.Strand < 0 {
		strand = "-1"
	}

	qc := "-"
	if len(ann.QcCodes) > 0 {
		parts := make([]string, len(ann.QcCodes))
		for i, c := range ann.QcCodes {
			parts[i] = strconv.Itoa(c)
		}
		qc = strings.Join(parts, ",")
	}

	consequences := make([]string, len(ann.Consequences))
	for i, c := range ann.Consequences {
		consequences[i] = string(c)
	}

	fields := []string{
		ann.Name,
		location,
		strand,
		ann.AlleleString,
		qc,
		joinRendered(ann.Genomic),
		joinRendered(ann.CDNA),
		strings.Join(consequences, ","),
		orDash(ann.Source),
	}

	_, err := tw.w.WriteString(strings.Join(fields, "\t") + "\n")
	return err
}

// Flush flushes buffered output.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

func joinRendered(notations []hgvs.Notation) string {
	if len(notations) == 0 {
		return "-"
	}
	parts := make([]string, len(notations))
	for i := range notations {
		parts[i] = notations[i].Rendered
	}
	return strings.Join(parts, ",")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
