package variant

import (
	"fmt"
	"sort"
	"strings"

	"github.com/variomics/varannot/internal/seq"
)

// QC failure codes. The codes are stable identifiers carried through to
// storage; they are not ordered by severity.
const (
	QcRefMismatch     = 2  // retrieved reference does not match the declared reference allele
	QcFourBaseAllele  = 3  // allele string denotes any of the four bases
	QcAmbiguousAllele = 14 // allele string contains an IUPAC ambiguity symbol
	QcCoordinateError = 15 // reference unavailable, or coordinates inconsistent with allele length
)

// FailureSet is a small ordered set of QC failure codes. The zero value is
// an empty set meaning "passed all checks performed".
type FailureSet struct {
	codes []int
}

// Add inserts a code, keeping the set sorted and duplicate-free.
func (s *FailureSet) Add(code int) {
	i := sort.SearchInts(s.codes, code)
	if i < len(s.codes) && s.codes[i] == code {
		return
	}
	s.codes = append(s.codes, 0)
	copy(s.codes[i+1:], s.codes[i:])
	s.codes[i] = code
}

// Has reports whether the set contains the code.
func (s *FailureSet) Has(code int) bool {
	i := sort.SearchInts(s.codes, code)
	return i < len(s.codes) && s.codes[i] == code
}

// Empty reports whether no check failed.
func (s *FailureSet) Empty() bool {
	return len(s.codes) == 0
}

// Codes returns the failure codes in ascending order.
func (s *FailureSet) Codes() []int {
	return s.codes
}

// CoordinateError reports that reference sequence could not be retrieved for
// a variant's declared span. It is recoverable per-variant: callers record it
// as a QC code, never abort the batch.
type CoordinateError struct {
	Region     string
	Start, End int64
	Err        error
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("no reference sequence for %s:%d-%d: %v", e.Region, e.Start, e.End, e.Err)
}

func (e *CoordinateError) Unwrap() error {
	return e.Err
}

// CheckReference compares the variant's declared reference allele against the
// reference assembly, case-insensitively. Returns false on mismatch; the
// declared allele is reported, not corrected. Fails with *CoordinateError
// when the provider cannot return sequence for the span.
func CheckReference(v *Variant, provider seq.Provider) (bool, error) {
	declared := v.ReferenceAllele()

	// A pure insertion spans zero reference bases; the declared reference
	// allele must be the gap form.
	if v.IsInsertion() {
		return IsGap(declared), nil
	}

	retrieved, err := provider.Fetch(v.Region, v.Start, v.End)
	if err != nil {
		return false, &CoordinateError{Region: v.Region, Start: v.Start, End: v.End, Err: err}
	}

	if IsSymbolic(declared) {
		// Symbolic alleles never participate in base-identity comparison.
		return true, nil
	}

	return strings.EqualFold(declared, retrieved), nil
}

// CheckVariantSize verifies that the declared reference allele's length is
// consistent with the coordinate span. Symbolic alleles participate using
// their recorded length; the insertion convention (End == Start-1) means a
// zero-length reference.
func CheckVariantSize(v *Variant) bool {
	return AlleleLength(v.ReferenceAllele()) == v.ReferenceSpan()
}

// Classify runs the QC checks for a variant and returns the set of failure
// codes. Sequence retrieval is attempted first: if it fails, only
// QcCoordinateError is reported and no further reference-dependent checks
// run. Otherwise the remaining checks are evaluated independently and their
// codes unioned.
func Classify(v *Variant, provider seq.Provider) FailureSet {
	var failures FailureSet

	match, err := CheckReference(v, provider)
	if err != nil {
		failures.Add(QcCoordinateError)
		return failures
	}

	if !match {
		failures.Add(QcRefMismatch)
	}
	if !CheckVariantSize(v) {
		failures.Add(QcCoordinateError)
	}
	if CheckFourBases(v.AlleleString) {
		failures.Add(QcFourBaseAllele)
	}
	if CheckAmbiguousAlleles(v.AlleleString) {
		failures.Add(QcAmbiguousAllele)
	}

	return failures
}
