// Package hgvs builds HGVS-style notation strings for variants in genomic
// and cDNA reference frames.
package hgvs

import (
	"errors"
	"strconv"
	"strings"

	"github.com/variomics/varannot/internal/seq"
	"github.com/variomics/varannot/internal/transcript"
	"github.com/variomics/varannot/internal/variant"
)

// Frame selects the coordinate space a notation is expressed in.
type Frame int

const (
	FrameGenomic Frame = iota
	FrameCDNA
	FrameProtein
)

// ErrUnsupportedFrame is returned when protein-frame notation is requested.
// Protein numbering is explicitly rejected, never silently approximated.
var ErrUnsupportedFrame = errors.New("protein frame is not supported")

// Type classifies the sequence change a notation describes.
type Type string

const (
	TypeSubstitution Type = "substitution"
	TypeInsertion    Type = "insertion"
	TypeDeletion     Type = "deletion"
	TypeDelIns       Type = "deletion-insertion"
	TypeDuplication  Type = "duplication"
)

// Notation is one frame-specific description of one alternate allele.
type Notation struct {
	ReferenceName string
	Scheme        string // "g", "c", or "" for non-coding transcripts
	Start         string // frame-specific position text
	End           string
	Type          Type
	RefSeq        string
	AltSeq        string
	Rendered      string
}

// render produces the wire-visible notation string. The end position is
// omitted when it equals the start position.
func (n *Notation) render() string {
	var b strings.Builder
	b.WriteString(n.ReferenceName)
	b.WriteByte(':')
	if n.Scheme != "" {
		b.WriteString(n.Scheme)
		b.WriteByte('.')
	}
	b.WriteString(n.Start)
	if n.End != n.Start {
		b.WriteByte('_')
		b.WriteString(n.End)
	}
	switch n.Type {
	case TypeSubstitution:
		b.WriteString(n.RefSeq)
		b.WriteByte('>')
		b.WriteString(n.AltSeq)
	case TypeDeletion:
		b.WriteString("del")
		b.WriteString(n.RefSeq)
	case TypeInsertion:
		b.WriteString("ins")
		b.WriteString(n.AltSeq)
	case TypeDelIns:
		b.WriteString("del")
		b.WriteString(n.RefSeq)
		b.WriteString("ins")
		b.WriteString(n.AltSeq)
	case TypeDuplication:
		b.WriteString("dup")
	}
	return b.String()
}

// Diff classifies the change between a reference and alternate allele and
// returns the type with the sequences to render. preceding is the reference
// sequence immediately upstream of an insertion point, used for duplication
// detection; pass "" to skip the check.
func Diff(ref, alt, preceding string) (Type, string, string) {
	refGap := variant.IsGap(ref)
	altGap := variant.IsGap(alt)

	switch {
	case refGap:
		if preceding != "" && len(preceding) >= len(alt) &&
			strings.EqualFold(preceding[len(preceding)-len(alt):], alt) {
			return TypeDuplication, "", alt
		}
		return TypeInsertion, "", alt
	case altGap:
		return TypeDeletion, ref, ""
	case len(ref) == 1 && len(alt) == 1:
		return TypeSubstitution, ref, alt
	default:
		return TypeDelIns, ref, alt
	}
}

// Build produces the notation for every distinct alternate allele of a
// variant in the requested frame. Alleles containing anything other than
// A/C/G/T or the gap form are skipped. An empty result with a nil error
// means the variant is not describable in this frame (e.g. outside the
// transcript), not a failure. The provider is optional and only consulted
// for duplication detection of genomic-frame insertions.
func Build(v *variant.Variant, frame Frame, refName string, em *transcript.ExonMap, provider seq.Provider) ([]Notation, error) {
	if frame == FrameProtein {
		return nil, ErrUnsupportedFrame
	}
	if frame == FrameCDNA && em == nil {
		return nil, errors.New("cDNA frame requires an exon map")
	}

	alleles := v.Alleles()
	if len(alleles) < 2 {
		return nil, nil
	}

	// Orientation of the stored alleles relative to the chosen frame.
	relStrand := v.Strand
	if frame == FrameCDNA {
		relStrand *= em.Strand
	}

	ref := alleles[0]
	if !variant.IsGap(ref) {
		if !isNucleotide(ref) {
			return nil, nil
		}
		if relStrand < 0 {
			ref = variant.ReverseComplement(ref)
		}
	} else {
		ref = ""
	}

	start, end, scheme, ok := framePositions(v, frame, em)
	if !ok {
		return nil, nil
	}

	var notations []Notation
	seen := make(map[string]bool)

	for _, alt := range alleles[1:] {
		if !variant.IsGap(alt) && !isNucleotide(alt) {
			continue
		}
		oriented := alt
		if variant.IsGap(oriented) {
			oriented = ""
		} else if relStrand < 0 {
			oriented = variant.ReverseComplement(oriented)
		}
		if oriented == ref || seen[oriented] {
			continue
		}
		seen[oriented] = true

		// In the genomic frame the oriented allele is forward-strand text,
		// so it can be compared against the bases immediately before the
		// insertion point.
		preceding := ""
		if frame == FrameGenomic && ref == "" && oriented != "" && provider != nil {
			if s, err := provider.Fetch(v.Region, v.Start-int64(len(oriented)), v.Start-1); err == nil {
				preceding = s
			}
		}

		typ, refSeq, altSeq := Diff(ref, oriented, preceding)
		n := Notation{
			ReferenceName: refName,
			Scheme:        scheme,
			Start:         start,
			End:           end,
			Type:          typ,
			RefSeq:        refSeq,
			AltSeq:        altSeq,
		}
		n.Rendered = n.render()
		notations = append(notations, n)
	}

	return notations, nil
}

// framePositions maps the variant span into frame-specific position strings.
// Returns ok=false when the span is not describable in the frame.
func framePositions(v *variant.Variant, frame Frame, em *transcript.ExonMap) (start, end, scheme string, ok bool) {
	if frame == FrameGenomic {
		if v.IsInsertion() {
			// Degenerate single-position insertion: no end suffix.
			s := strconv.FormatInt(v.Start, 10)
			return s, s, "g", true
		}
		return strconv.FormatInt(v.Start, 10), strconv.FormatInt(v.End, 10), "g", true
	}

	scheme = ""
	if em.IsCoding() {
		scheme = "c"
	}

	if v.IsInsertion() {
		p, err := em.ToCDNA(v.Start)
		if err != nil {
			return "", "", "", false
		}
		s := p.String()
		return s, s, scheme, true
	}

	// Transcript-relative ordering: on reverse-strand transcripts the
	// genomic end maps to the smaller transcript coordinate.
	gStart, gEnd := v.Start, v.End
	if em.Strand < 0 {
		gStart, gEnd = gEnd, gStart
	}

	ps, err := em.ToCDNA(gStart)
	if err != nil {
		return "", "", "", false
	}
	pe, err := em.ToCDNA(gEnd)
	if err != nil {
		return "", "", "", false
	}
	return ps.String(), pe.String(), scheme, true
}

func isNucleotide(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'A', 'C', 'G', 'T', 'a', 'c', 'g', 't':
		default:
			return false
		}
	}
	return len(s) > 0
}
