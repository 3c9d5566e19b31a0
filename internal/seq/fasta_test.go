package seq

import (
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFasta = `>12 dna:chromosome chromosome:GRCh38:12
ACGTACGTAC
GTACGTACGT
>X
TTTTGGGG
`

func TestFastaProvider_LoadFrom(t *testing.T) {
	p := NewFastaProvider("")
	require.NoError(t, p.LoadFrom(strings.NewReader(sampleFasta)))

	assert.Equal(t, 2, p.RegionCount())
	assert.True(t, p.HasRegion("12"))
	assert.True(t, p.HasRegion("X"))
	assert.False(t, p.HasRegion("Y"))
}

func TestFastaProvider_Fetch(t *testing.T) {
	p := NewFastaProvider("")
	require.NoError(t, p.LoadFrom(strings.NewReader(sampleFasta)))

	s, err := p.Fetch("12", 1, 4)
	require.NoError(t, err)
	assert.Equal(t, "ACGT", s)

	// Span crossing the original line break.
	s, err = p.Fetch("12", 9, 12)
	require.NoError(t, err)
	assert.Equal(t, "ACGT", s)

	s, err = p.Fetch("X", 5, 8)
	require.NoError(t, err)
	assert.Equal(t, "GGGG", s)
}

func TestFastaProvider_FetchChrPrefix(t *testing.T) {
	p := NewFastaProvider("")
	require.NoError(t, p.LoadFrom(strings.NewReader(sampleFasta)))

	s, err := p.Fetch("chr12", 1, 4)
	require.NoError(t, err)
	assert.Equal(t, "ACGT", s)
}

func TestFastaProvider_FetchErrors(t *testing.T) {
	p := NewFastaProvider("")
	require.NoError(t, p.LoadFrom(strings.NewReader(sampleFasta)))

	_, err := p.Fetch("7", 1, 4)
	var unknown *UnknownRegionError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "7", unknown.Region)

	tests := []struct {
		name       string
		start, end int64
	}{
		{"zero start", 0, 4},
		{"end before start", 5, 3},
		{"end past sequence", 1, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Fetch("12", tt.start, tt.end)
			var rangeErr *RangeError
			require.True(t, errors.As(err, &rangeErr))
			assert.Equal(t, int64(20), rangeErr.Length)
		})
	}
}

func TestFastaProvider_LoadPlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.fa")
	require.NoError(t, os.WriteFile(path, []byte(sampleFasta), 0o644))

	p := NewFastaProvider(path)
	require.NoError(t, p.Load())
	assert.Equal(t, 2, p.RegionCount())
}

func TestFastaProvider_LoadGzipFile(t *testing.T) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write([]byte(sampleFasta))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	path := filepath.Join(t.TempDir(), "ref.fa.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	p := NewFastaProvider(path)
	require.NoError(t, p.Load())

	s, err := p.Fetch("X", 1, 4)
	require.NoError(t, err)
	assert.Equal(t, "TTTT", s)
}

func TestFastaProvider_LoadMissingFile(t *testing.T) {
	p := NewFastaProvider(filepath.Join(t.TempDir(), "nope.fa"))
	assert.Error(t, p.Load())
}
