package variant

import (
	"strconv"
	"strings"
)

// MaxAlleleLength is the longest raw allele stored verbatim. Alleles above
// this length are collapsed to the symbolic "<N>_base_deletion" form.
const MaxAlleleLength = 4000

const symbolicSuffix = "_base_deletion"

// Normalize canonicalizes an allele string for the given strand.
// Negative-strand nucleotide alleles are reverse complemented so every allele
// is expressed on the forward strand; allele order is preserved. Alleles
// longer than MaxAlleleLength are replaced with their symbolic form.
func Normalize(alleleString string, strand int8) string {
	alleles := strings.Split(alleleString, "/")
	for i, a := range alleles {
		if strand < 0 && isNucleotide(a) {
			a = ReverseComplement(a)
		}
		if len(a) > MaxAlleleLength {
			a = SymbolicDeletion(len(a))
		}
		alleles[i] = a
	}
	return strings.Join(alleles, "/")
}

// SymbolicDeletion returns the symbolic allele form for n deleted bases.
func SymbolicDeletion(n int) string {
	return strconv.Itoa(n) + symbolicSuffix
}

// IsSymbolic returns true for size-tagged symbolic alleles like
// "1200_base_deletion".
func IsSymbolic(allele string) bool {
	return strings.HasSuffix(allele, symbolicSuffix)
}

// SymbolicLength returns the base count recorded in a symbolic allele.
// Returns false if the allele is not symbolic.
func SymbolicLength(allele string) (int64, bool) {
	if !IsSymbolic(allele) {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSuffix(allele, symbolicSuffix), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsGap returns true for the absent-sequence allele forms.
func IsGap(allele string) bool {
	return allele == "" || allele == "-"
}

// AlleleLength returns the effective length of an allele: zero for gaps, the
// recorded size for symbolic alleles, the literal length otherwise.
func AlleleLength(allele string) int64 {
	if IsGap(allele) {
		return 0
	}
	if n, ok := SymbolicLength(allele); ok {
		return n
	}
	return int64(len(allele))
}

// isNucleotide reports whether the allele is pure A/C/G/T sequence.
func isNucleotide(allele string) bool {
	if len(allele) == 0 {
		return false
	}
	for i := 0; i < len(allele); i++ {
		switch allele[i] {
		case 'A', 'C', 'G', 'T', 'a', 'c', 'g', 't':
		default:
			return false
		}
	}
	return true
}

// Complement returns the complementary base, preserving case.
func Complement(base byte) byte {
	switch base {
	case 'A':
		return 'T'
	case 'T':
		return 'A'
	case 'C':
		return 'G'
	case 'G':
		return 'C'
	case 'a':
		return 't'
	case 't':
		return 'a'
	case 'c':
		return 'g'
	case 'g':
		return 'c'
	default:
		return base
	}
}

// ReverseComplement returns the reverse complement of a DNA sequence.
func ReverseComplement(seq string) string {
	n := len(seq)
	// Stack-allocate for typical allele lengths.
	var buf [64]byte
	var result []byte
	if n <= len(buf) {
		result = buf[:n]
	} else {
		result = make([]byte, n)
	}
	for i := 0; i < n; i++ {
		result[n-1-i] = Complement(seq[i])
	}
	return string(result)
}

// CheckFourBases reports whether the allele string is an ambiguous "any base"
// call: every allele a single nucleotide, with all four bases represented.
func CheckFourBases(alleleString string) bool {
	var seen [4]bool
	for _, a := range strings.Split(alleleString, "/") {
		if len(a) != 1 {
			return false
		}
		switch a[0] {
		case 'A', 'a':
			seen[0] = true
		case 'C', 'c':
			seen[1] = true
		case 'G', 'g':
			seen[2] = true
		case 'T', 't':
			seen[3] = true
		default:
			return false
		}
	}
	return seen[0] && seen[1] && seen[2] && seen[3]
}

// isAmbiguous reports whether the allele contains an IUPAC ambiguity symbol.
// Gap and symbolic alleles are never ambiguous.
func isAmbiguous(allele string) bool {
	if IsGap(allele) || IsSymbolic(allele) {
		return false
	}
	for i := 0; i < len(allele); i++ {
		switch allele[i] {
		case 'A', 'C', 'G', 'T', 'a', 'c', 'g', 't':
		case 'R', 'Y', 'S', 'W', 'K', 'M', 'B', 'D', 'H', 'V', 'N',
			'r', 'y', 's', 'w', 'k', 'm', 'b', 'd', 'h', 'v', 'n':
			return true
		}
	}
	return false
}

// CheckAmbiguousAlleles reports whether any allele in the string contains an
// IUPAC ambiguity symbol.
func CheckAmbiguousAlleles(alleleString string) bool {
	for _, a := range strings.Split(alleleString, "/") {
		if isAmbiguous(a) {
			return true
		}
	}
	return false
}

// FindAmbiguousAlleles returns the alleles that contain ambiguity symbols.
func FindAmbiguousAlleles(alleleString string) []string {
	var found []string
	for _, a := range strings.Split(alleleString, "/") {
		if isAmbiguous(a) {
			found = append(found, a)
		}
	}
	return found
}

// RemoveAmbiguousAlleles returns the allele string with ambiguous alleles
// stripped. Resolution policy (strip vs. fail) is the caller's choice; this
// only performs the stripping.
func RemoveAmbiguousAlleles(alleleString string) string {
	alleles := strings.Split(alleleString, "/")
	kept := alleles[:0]
	for _, a := range alleles {
		if !isAmbiguous(a) {
			kept = append(kept, a)
		}
	}
	return strings.Join(kept, "/")
}
