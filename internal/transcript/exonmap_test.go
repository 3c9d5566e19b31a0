package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// forwardCodingMap builds a two-exon forward-strand transcript:
//
//	Exon 1: 990-1020  (transcript 1-31, coding starts at transcript 11 = genomic 1000)
//	Intron: 1021-1099
//	Exon 2: 1100-1200 (transcript 32-132, coding ends at transcript 112 = genomic 1180)
func forwardCodingMap() *ExonMap {
	return NewExonMap([]Exon{
		{Start: 990, End: 1020},
		{Start: 1100, End: 1200},
	}, 1, 11, 112)
}

// reverseNonCodingMap uses the same exons on the reverse strand with no
// coding region.
func reverseNonCodingMap() *ExonMap {
	return NewExonMap([]Exon{
		{Start: 990, End: 1020},
		{Start: 1100, End: 1200},
	}, -1, 0, 0)
}

func TestToCDNA_FirstCodingBaseIsOne(t *testing.T) {
	m := forwardCodingMap()

	p, err := m.ToCDNA(1000)
	require.NoError(t, err)
	assert.Equal(t, "1", p.String())
}

func TestToCDNA_NoPositionZero(t *testing.T) {
	m := forwardCodingMap()

	// The base immediately before the start codon is -1, never 0.
	p, err := m.ToCDNA(999)
	require.NoError(t, err)
	assert.Equal(t, "-1", p.String())
}

func TestToCDNA_FivePrimeUTR(t *testing.T) {
	m := forwardCodingMap()

	p, err := m.ToCDNA(990)
	require.NoError(t, err)
	assert.Equal(t, "-10", p.String())
}

func TestToCDNA_CodingExonic(t *testing.T) {
	m := forwardCodingMap()

	p, err := m.ToCDNA(1005)
	require.NoError(t, err)
	assert.Equal(t, "6", p.String())
	assert.Equal(t, int64(0), p.Offset)
}

func TestToCDNA_ThreePrimeUTR(t *testing.T) {
	m := forwardCodingMap()

	p, err := m.ToCDNA(1181)
	require.NoError(t, err)
	assert.True(t, p.UTR3)
	assert.Equal(t, "*1", p.String())

	p, err = m.ToCDNA(1186)
	require.NoError(t, err)
	assert.Equal(t, "*6", p.String())
}

func TestToCDNA_ExonFirstBaseIsExonic(t *testing.T) {
	m := forwardCodingMap()

	// A position exactly at an exon's first base maps to the exon with
	// zero offset, not to the preceding intron.
	p, err := m.ToCDNA(1100)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.Offset)
	assert.Equal(t, "22", p.String())
}

func TestToCDNA_IntronicUpstream(t *testing.T) {
	m := forwardCodingMap()

	// 3 bases past the exon 1 boundary: closer to the upstream exon.
	p, err := m.ToCDNA(1023)
	require.NoError(t, err)
	assert.Equal(t, "21+3", p.String())
}

func TestToCDNA_IntronicDownstream(t *testing.T) {
	m := forwardCodingMap()

	// 2 bases before exon 2: closer to the downstream exon.
	p, err := m.ToCDNA(1098)
	require.NoError(t, err)
	assert.Equal(t, "22-2", p.String())
}

func TestToCDNA_IntronicTieBreak(t *testing.T) {
	// Position 1060 is exactly 40 bases from each flanking exon boundary.
	// Forward strand resolves the tie upstream; reverse strand resolves
	// downstream. This asymmetry is load-bearing for reproducibility.
	fwd := forwardCodingMap()
	p, err := fwd.ToCDNA(1060)
	require.NoError(t, err)
	assert.Equal(t, "21+40", p.String())

	rev := reverseNonCodingMap()
	p, err = rev.ToCDNA(1060)
	require.NoError(t, err)
	assert.Equal(t, "101+40", p.String())
}

func TestToCDNA_ReverseStrandExonic(t *testing.T) {
	m := reverseNonCodingMap()

	// Transcript numbering runs opposite to genomic: the last genomic base
	// is transcript position 1.
	p, err := m.ToCDNA(1200)
	require.NoError(t, err)
	assert.Equal(t, "1", p.String())

	p, err = m.ToCDNA(990)
	require.NoError(t, err)
	assert.Equal(t, "132", p.String())
}

func TestToCDNA_NonCodingSkipsRebasing(t *testing.T) {
	m := NewExonMap([]Exon{{Start: 100, End: 200}}, 1, 0, 0)

	p, err := m.ToCDNA(150)
	require.NoError(t, err)
	assert.False(t, p.Coding)
	assert.Equal(t, "51", p.String())
}

func TestToCDNA_OutOfBounds(t *testing.T) {
	m := forwardCodingMap()

	_, err := m.ToCDNA(989)
	assert.ErrorIs(t, err, ErrOutOfTranscriptBounds)

	_, err = m.ToCDNA(1201)
	assert.ErrorIs(t, err, ErrOutOfTranscriptBounds)
}

func TestCdnaPositionString(t *testing.T) {
	tests := []struct {
		pos  CdnaPosition
		want string
	}{
		{CdnaPosition{Pos: 76}, "76"},
		{CdnaPosition{Pos: -14}, "-14"},
		{CdnaPosition{Pos: 6, UTR3: true}, "*6"},
		{CdnaPosition{Pos: 88, Offset: 1}, "88+1"},
		{CdnaPosition{Pos: 89, Offset: -2}, "89-2"},
		{CdnaPosition{Pos: 3, UTR3: true, Offset: 4}, "*3+4"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.pos.String())
	}
}

func TestExonMapLength(t *testing.T) {
	assert.Equal(t, int64(132), forwardCodingMap().Length())
}
