// Package consequence provides the closed consequence vocabulary and the
// severity-ordered resolver folding per-transcript annotations into a single
// result.
package consequence

// Type is a consequence tag from the closed vocabulary.
type Type string

// The closed consequence vocabulary.
const (
	EssentialSpliceSite Type = "ESSENTIAL_SPLICE_SITE"
	StopGained          Type = "STOP_GAINED"
	StopLost            Type = "STOP_LOST"
	FrameshiftCoding    Type = "FRAMESHIFT_CODING"
	NonSynonymousCoding Type = "NON_SYNONYMOUS_CODING"
	SpliceSite          Type = "SPLICE_SITE"
	SynonymousCoding    Type = "SYNONYMOUS_CODING"
	RegulatoryRegion    Type = "REGULATORY_REGION"
	FivePrimeUTR        Type = "5PRIME_UTR"
	ThreePrimeUTR       Type = "3PRIME_UTR"
	Intronic            Type = "INTRONIC"
	Upstream            Type = "UPSTREAM"
	Downstream          Type = "DOWNSTREAM"
	Intergenic          Type = "INTERGENIC"
)

// ranked is the severity order of the vocabulary: lower index = more severe.
// The order is fixed compatibility data, not derived from biology at runtime.
var ranked = []Type{
	EssentialSpliceSite,
	StopGained,
	StopLost,
	FrameshiftCoding,
	NonSynonymousCoding,
	SpliceSite,
	SynonymousCoding,
	RegulatoryRegion,
	FivePrimeUTR,
	ThreePrimeUTR,
	Intronic,
	Upstream,
	Downstream,
	Intergenic,
}

var rankOf = func() map[Type]int {
	m := make(map[Type]int, len(ranked))
	for i, t := range ranked {
		m[t] = i + 1
	}
	return m
}()

// Ranked returns the vocabulary in severity order. The slice is a copy; the
// table itself is immutable.
func Ranked() []Type {
	out := make([]Type, len(ranked))
	copy(out, ranked)
	return out
}

// Rank returns the severity rank of a tag (1 = most severe) and whether the
// tag belongs to the vocabulary.
func Rank(t Type) (int, bool) {
	r, ok := rankOf[t]
	return r, ok
}

// Set is an ordered list of consequence tags. In resolver output the order
// is fixed: regulatory tag, splice tag, then the ranked type tag, at most
// one per bucket.
type Set []Type

// Splice bucket ranks: essential splice site outranks splice site.
const (
	spliceUnset     = 0
	spliceEssential = 1
	splicePlain     = 2
)

// Resolve folds per-transcript consequence annotations into a single set.
// Three running bests are kept: regulatory presence, the stronger splice
// tag, and the most severe type tag (lower rank wins, defaulting to
// INTERGENIC). The fold is order-independent, so resolving incrementally
// or in one pass yields the same result. Empty input yields [INTERGENIC].
func Resolve(annotations []Set) Set {
	regulatory := false
	splice := spliceUnset
	best := Intergenic

	for _, ann := range annotations {
		for _, tag := range ann {
			switch tag {
			case RegulatoryRegion:
				regulatory = true
			case EssentialSpliceSite:
				splice = spliceEssential
			case SpliceSite:
				if splice == spliceUnset {
					splice = splicePlain
				}
			default:
				if r, ok := rankOf[tag]; ok && r < rankOf[best] {
					best = tag
				}
			}
		}
	}

	result := make(Set, 0, 3)
	if regulatory {
		result = append(result, RegulatoryRegion)
	}
	switch splice {
	case spliceEssential:
		result = append(result, EssentialSpliceSite)
	case splicePlain:
		result = append(result, SpliceSite)
	}
	return append(result, best)
}
