// Package variant provides the variant data model, allele normalization,
// and QC classification.
package variant

import "strings"

// Variant represents a single sequence change on a named region.
type Variant struct {
	Name         string // Variant identifier (e.g., rs ID)
	Region       string // Sequence region name (e.g., "12", "chr12")
	Start        int64  // 1-based genomic start
	End          int64  // 1-based genomic end, inclusive; End == Start-1 for pure insertions
	Strand       int8   // +1 or -1
	AlleleString string // Slash-separated alleles, reference orientation first (e.g., "A/T")
	Source       string // Provenance tag (e.g., "dbSNP")
}

// Alleles returns the individual alleles of the allele string.
func (v *Variant) Alleles() []string {
	return strings.Split(v.AlleleString, "/")
}

// ReferenceAllele returns the declared reference allele (first in the string).
func (v *Variant) ReferenceAllele() string {
	s := v.AlleleString
	if i := strings.IndexByte(s, '/'); i >= 0 {
		return s[:i]
	}
	return s
}

// IsInsertion returns true if the variant uses the pure-insertion coordinate
// convention (End == Start-1, zero reference bases).
func (v *Variant) IsInsertion() bool {
	return v.End == v.Start-1
}

// ReferenceSpan returns the number of reference bases the variant covers.
// Pure insertions cover zero bases.
func (v *Variant) ReferenceSpan() int64 {
	return v.End - v.Start + 1
}

// NormalizeRegion returns the region name without "chr" prefix.
func (v *Variant) NormalizeRegion() string {
	if len(v.Region) > 3 && v.Region[:3] == "chr" {
		return v.Region[3:]
	}
	return v.Region
}
