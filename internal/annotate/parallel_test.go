package annotate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/variomics/varannot/internal/variant"
)

func TestOrderedCollect_ReordersResults(t *testing.T) {
	results := make(chan WorkResult, 8)
	for _, seq := range []int{3, 0, 2, 1, 5, 4} {
		results <- WorkResult{Seq: seq}
	}
	close(results)

	var got []int
	err := OrderedCollect(results, func(r WorkResult) error {
		got = append(got, r.Seq)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, got)
}

func TestOrderedCollect_StopsOnError(t *testing.T) {
	results := make(chan WorkResult, 4)
	for seq := 0; seq < 4; seq++ {
		results <- WorkResult{Seq: seq}
	}
	close(results)

	sentinel := errors.New("writer failed")
	calls := 0
	err := OrderedCollect(results, func(r WorkResult) error {
		calls++
		if r.Seq == 1 {
			return sentinel
		}
		return nil
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 2, calls)
}

func TestParallelAnnotate_AnnotatesEveryItem(t *testing.T) {
	p := mapProvider{"12": refWithBase(nil)}
	a := NewAnnotator(p)

	items := make(chan WorkItem)
	go func() {
		defer close(items)
		for i := 0; i < 50; i++ {
			items <- WorkItem{
				Seq: i,
				Variant: &variant.Variant{
					Name: "v", Region: "12", Start: 1000 + int64(i), End: 1000 + int64(i),
					Strand: 1, AlleleString: "A/T",
				},
			}
		}
	}()

	seen := make(map[int]bool)
	err := OrderedCollect(a.ParallelAnnotate(items, 4), func(r WorkResult) error {
		require.NoError(t, r.Err)
		require.NotNil(t, r.Ann)
		seen[r.Seq] = true
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, seen, 50)
}
