package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/variomics/varannot/internal/annotate"
	"github.com/variomics/varannot/internal/consequence"
	"github.com/variomics/varannot/internal/hgvs"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleAnnotation(name string, start int64) *annotate.Annotation {
	return &annotate.Annotation{
		Name:         name,
		Region:       "12",
		Start:        start,
		End:          start,
		Strand:       1,
		AlleleString: "A/G",
		Source:       "dbSNP",
		QcCodes:      []int{2},
		Genomic:      []hgvs.Notation{{Rendered: "12:g.1005A>G"}},
		CDNA:         []hgvs.Notation{{Rendered: "TR1:c.6A>G"}},
		Consequences: consequence.Set{consequence.NonSynonymousCoding},
	}
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
}

func TestWriteAnnotations(t *testing.T) {
	s := openInMemory(t)

	anns := []*annotate.Annotation{
		sampleAnnotation("rs1", 1005),
		sampleAnnotation("rs2", 1010),
	}
	require.NoError(t, s.WriteAnnotations(anns))

	n, err := s.AnnotationCount()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var rendered string
	err = s.DB().QueryRow(
		`SELECT hgvs_genomic FROM annotations WHERE name = ?`, "rs1").Scan(&rendered)
	require.NoError(t, err)
	assert.Equal(t, "12:g.1005A>G", rendered)
}

func TestWriteAnnotationsDeduplicates(t *testing.T) {
	s := openInMemory(t)

	anns := []*annotate.Annotation{
		sampleAnnotation("rs1", 1005),
		sampleAnnotation("rs1", 1005),
		sampleAnnotation("rs1", 1010),
	}
	require.NoError(t, s.WriteAnnotations(anns))

	n, err := s.AnnotationCount()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestWriteAnnotationsEmpty(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteAnnotations(nil))

	n, err := s.AnnotationCount()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpenFileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "annotations.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.WriteAnnotations([]*annotate.Annotation{sampleAnnotation("rs1", 1005)}))
	require.NoError(t, s.Close())

	// Reopen and confirm persistence.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	n, err := s.AnnotationCount()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
