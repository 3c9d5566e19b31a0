// Package annotate composes QC classification, notation building, and
// consequence resolution for variants.
package annotate

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/variomics/varannot/internal/consequence"
	"github.com/variomics/varannot/internal/hgvs"
	"github.com/variomics/varannot/internal/seq"
	"github.com/variomics/varannot/internal/transcript"
	"github.com/variomics/varannot/internal/variant"
)

// TranscriptContext supplies one overlapping transcript for a variant: the
// reference feature name used in cDNA notation, its exon map, and the
// per-transcript consequence tags. Contexts are assembled by the caller; the
// annotator never fetches them itself.
type TranscriptContext struct {
	Name         string
	ExonMap      *transcript.ExonMap
	Consequences consequence.Set
}

// Annotation is the plain data record the core emits for one variant.
type Annotation struct {
	Name         string
	Region       string
	Start        int64
	End          int64
	Strand       int8
	AlleleString string // normalized, forward strand
	Source       string
	QcCodes      []int
	Genomic      []hgvs.Notation
	CDNA         []hgvs.Notation
	Consequences consequence.Set
}

// Annotator annotates variants against a reference sequence provider.
type Annotator struct {
	provider seq.Provider
	logger   *zap.Logger
	workers  int
}

// NewAnnotator creates an annotator backed by the given sequence provider.
func NewAnnotator(provider seq.Provider) *Annotator {
	return &Annotator{
		provider: provider,
		logger:   zap.NewNop(),
	}
}

// SetLogger sets the logger for warning and info messages.
func (a *Annotator) SetLogger(l *zap.Logger) {
	a.logger = l
}

// SetWorkers sets the worker count for batch annotation. Zero means
// runtime.NumCPU().
func (a *Annotator) SetWorkers(n int) {
	a.workers = n
}

// Annotate runs QC, notation building, and consequence resolution for a
// single variant. Per-transcript failures are logged and skipped; the
// remaining results are still returned.
func (a *Annotator) Annotate(v *variant.Variant, contexts []TranscriptContext) (*Annotation, error) {
	// Canonicalize alleles onto the forward strand once, up front.
	nv := *v
	nv.AlleleString = variant.Normalize(v.AlleleString, v.Strand)
	if nv.Strand < 0 {
		nv.Strand = 1
	}

	failures := variant.Classify(&nv, a.provider)

	ann := &Annotation{
		Name:         v.Name,
		Region:       v.Region,
		Start:        v.Start,
		End:          v.End,
		Strand:       v.Strand,
		AlleleString: nv.AlleleString,
		Source:       v.Source,
		QcCodes:      failures.Codes(),
	}

	genomic, err := hgvs.Build(&nv, hgvs.FrameGenomic, v.Region, nil, a.provider)
	if err != nil {
		return nil, fmt.Errorf("genomic notation for %s: %w", v.Name, err)
	}
	ann.Genomic = genomic

	sets := make([]consequence.Set, 0, len(contexts))
	for _, tc := range contexts {
		cdna, err := hgvs.Build(&nv, hgvs.FrameCDNA, tc.Name, tc.ExonMap, a.provider)
		if err != nil {
			a.logger.Warn("failed to build cDNA notation",
				zap.String("variant", v.Name),
				zap.String("transcript", tc.Name),
				zap.Error(err))
		} else {
			ann.CDNA = append(ann.CDNA, cdna...)
		}
		sets = append(sets, tc.Consequences)
	}
	ann.Consequences = consequence.Resolve(sets)

	return ann, nil
}

// VariantSource yields variants one at a time. Next returns nil, nil when
// the source is exhausted.
type VariantSource interface {
	Next() (*variant.Variant, error)
	Close() error
}

// ContextLookup resolves the transcript contexts overlapping a variant.
// May be nil when no transcript model is available.
type ContextLookup interface {
	FindContexts(region string, start, end int64) []TranscriptContext
}

// AnnotationWriter defines the interface for writing annotations.
type AnnotationWriter interface {
	WriteHeader() error
	Write(ann *Annotation) error
	Flush() error
}

// AnnotateAll annotates every variant from the source and writes the results
// in input order. Per-variant failures are logged and skipped; the batch
// never aborts for a single bad record.
func (a *Annotator) AnnotateAll(src VariantSource, lookup ContextLookup, writer AnnotationWriter) error {
	items := make(chan WorkItem, 2*runtime.NumCPU())
	var readErr error

	go func() {
		defer close(items)
		seq := 0
		for {
			v, err := src.Next()
			if err != nil {
				readErr = fmt.Errorf("read variant: %w", err)
				return
			}
			if v == nil {
				return
			}
			var contexts []TranscriptContext
			if lookup != nil {
				contexts = lookup.FindContexts(v.Region, v.Start, v.End)
			}
			items <- WorkItem{Seq: seq, Variant: v, Contexts: contexts}
			seq++
		}
	}()

	results := a.ParallelAnnotate(items, a.workers)

	if err := OrderedCollect(results, func(r WorkResult) error {
		if r.Err != nil {
			a.logger.Warn("failed to annotate variant",
				zap.String("name", r.Variant.Name),
				zap.String("region", r.Variant.Region),
				zap.Int64("start", r.Variant.Start),
				zap.Error(r.Err))
			return nil
		}
		if err := writer.Write(r.Ann); err != nil {
			return fmt.Errorf("write annotation: %w", err)
		}
		return nil
	}); err != nil {
		return err
	}

	if readErr != nil {
		return readErr
	}

	return writer.Flush()
}
