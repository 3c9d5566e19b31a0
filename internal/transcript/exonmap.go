// Package transcript provides the exon/intron model and genomic-to-cDNA
// coordinate mapping.
package transcript

import (
	"errors"
	"strconv"
	"strings"
)

// ErrOutOfTranscriptBounds reports a position upstream or downstream of every
// exon and intron the exon map covers. Callers must surface it, never clamp.
var ErrOutOfTranscriptBounds = errors.New("position outside transcript bounds")

// Exon is a single exon interval in genomic coordinates.
type Exon struct {
	Start int64 // Genomic start (1-based)
	End   int64 // Genomic end (1-based, inclusive)
}

// ExonMap is the read-only transcript model consumed by the coordinate
// mapper: ordered exon intervals plus optional coding-region boundaries.
// Exons must be supplied sorted ascending by genomic start regardless of
// strand. CodingStart/CodingEnd are in transcript cDNA numbering; zero
// CodingStart means a non-coding transcript.
type ExonMap struct {
	Exons       []Exon
	Strand      int8
	CodingStart int64
	CodingEnd   int64

	// cdnaStarts[i] is the transcript-relative position of exon i's
	// transcript-first base (genomic Start on forward strand, genomic End
	// on reverse strand).
	cdnaStarts []int64
}

// NewExonMap builds an exon map from genomically sorted exons.
func NewExonMap(exons []Exon, strand int8, codingStart, codingEnd int64) *ExonMap {
	m := &ExonMap{
		Exons:       exons,
		Strand:      strand,
		CodingStart: codingStart,
		CodingEnd:   codingEnd,
		cdnaStarts:  make([]int64, len(exons)),
	}

	pos := int64(1)
	if strand >= 0 {
		for i := range exons {
			m.cdnaStarts[i] = pos
			pos += exons[i].End - exons[i].Start + 1
		}
	} else {
		for i := len(exons) - 1; i >= 0; i-- {
			m.cdnaStarts[i] = pos
			pos += exons[i].End - exons[i].Start + 1
		}
	}

	return m
}

// Length returns the total exonic (spliced) length.
func (m *ExonMap) Length() int64 {
	var n int64
	for _, e := range m.Exons {
		n += e.End - e.Start + 1
	}
	return n
}

// IsCoding reports whether the transcript has a coding region.
func (m *ExonMap) IsCoding() bool {
	return m.CodingStart > 0
}

// CdnaPosition is a transcript-relative coordinate. Pos is the rebased
// position: positive for coding positions (first coding base is 1), negative
// for 5' UTR, and 3' UTR positions carry the UTR3 flag (rendered with a "*"
// prefix). Offset is the signed intronic offset from the anchoring exon
// boundary, zero for exonic positions. Non-coding transcripts report raw
// transcript numbering with Coding false.
type CdnaPosition struct {
	Pos    int64
	Offset int64
	UTR3   bool
	Coding bool
}

// String renders the position in cDNA notation form: "76", "-14", "*6",
// "88+1", "89-2".
func (p CdnaPosition) String() string {
	var b strings.Builder
	if p.UTR3 {
		b.WriteByte('*')
	}
	b.WriteString(strconv.FormatInt(p.Pos, 10))
	if p.Offset > 0 {
		b.WriteByte('+')
		b.WriteString(strconv.FormatInt(p.Offset, 10))
	} else if p.Offset < 0 {
		b.WriteByte('-')
		b.WriteString(strconv.FormatInt(-p.Offset, 10))
	}
	return b.String()
}

// ToCDNA converts a genomic position to its transcript-relative coordinate.
// Exonic positions map directly; intronic positions anchor to the nearer
// flanking exon boundary with a signed offset. Equal flanking distances
// resolve to the genomically upstream exon only on forward-strand
// transcripts; this asymmetry is preserved for reproducibility.
// Positions outside the transcript fail with ErrOutOfTranscriptBounds.
func (m *ExonMap) ToCDNA(pos int64) (CdnaPosition, error) {
	for i := range m.Exons {
		e := &m.Exons[i]
		if e.End < pos {
			continue
		}

		// First exon whose end is at or past the position.
		if pos >= e.Start {
			var raw int64
			if m.Strand >= 0 {
				raw = m.cdnaStarts[i] + (pos - e.Start)
			} else {
				raw = m.cdnaStarts[i] + (e.End - pos)
			}
			return m.rebase(raw, 0), nil
		}

		if i == 0 {
			// Upstream of the whole transcript.
			return CdnaPosition{}, ErrOutOfTranscriptBounds
		}

		// Intronic: pick the nearer flanking exon boundary.
		up := &m.Exons[i-1]
		distUp := pos - up.End
		distDown := e.Start - pos
		useUpstream := distUp < distDown || (distUp == distDown && m.Strand >= 0)

		if m.Strand >= 0 {
			if useUpstream {
				raw := m.cdnaStarts[i-1] + (up.End - up.Start)
				return m.rebase(raw, distUp), nil
			}
			return m.rebase(m.cdnaStarts[i], -distDown), nil
		}

		// Reverse strand: the genomically upstream exon is downstream in
		// transcript order, so offset signs flip.
		if useUpstream {
			return m.rebase(m.cdnaStarts[i-1], -distUp), nil
		}
		raw := m.cdnaStarts[i] + (e.End - e.Start)
		return m.rebase(raw, distDown), nil
	}

	// Downstream of the whole transcript.
	return CdnaPosition{}, ErrOutOfTranscriptBounds
}

// rebase shifts a raw transcript position into coding-relative numbering.
// There is no position 0: the base before the start codon is -1, the first
// coding base is 1. Positions past CodingEnd become 3' UTR. Non-coding
// transcripts keep raw numbering.
func (m *ExonMap) rebase(raw, offset int64) CdnaPosition {
	if !m.IsCoding() {
		return CdnaPosition{Pos: raw, Offset: offset}
	}

	p := CdnaPosition{Offset: offset, Coding: true}
	switch {
	case m.CodingEnd > 0 && raw > m.CodingEnd:
		p.Pos = raw - m.CodingEnd
		p.UTR3 = true
	case raw >= m.CodingStart:
		p.Pos = raw - m.CodingStart + 1
	default:
		p.Pos = raw - m.CodingStart
	}
	return p
}
