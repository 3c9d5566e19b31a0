package annotate

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/variomics/varannot/internal/consequence"
	"github.com/variomics/varannot/internal/transcript"
)

// ContextSet is a region-indexed collection of transcript contexts with
// overlap lookup. It implements ContextLookup.
type ContextSet struct {
	// byRegion stores transcripts indexed by region name.
	byRegion map[string][]placedContext
}

// placedContext is a transcript context with its genomic span for overlap
// checks.
type placedContext struct {
	start, end int64
	ctx        TranscriptContext
}

// NewContextSet creates an empty context set.
func NewContextSet() *ContextSet {
	return &ContextSet{byRegion: make(map[string][]placedContext)}
}

// Add places a transcript context on a region. The genomic span is derived
// from the exon map's outermost exon boundaries.
func (s *ContextSet) Add(region string, ctx TranscriptContext) {
	exons := ctx.ExonMap.Exons
	s.byRegion[region] = append(s.byRegion[region], placedContext{
		start: exons[0].Start,
		end:   exons[len(exons)-1].End,
		ctx:   ctx,
	})
}

// FindContexts returns the transcript contexts whose genomic span overlaps
// [start, end] on the region.
func (s *ContextSet) FindContexts(region string, start, end int64) []TranscriptContext {
	var result []TranscriptContext
	for _, p := range s.byRegion[region] {
		if p.start <= end && start <= p.end {
			result = append(result, p.ctx)
		}
	}
	return result
}

// Count returns the total number of transcript contexts.
func (s *ContextSet) Count() int {
	n := 0
	for _, placed := range s.byRegion {
		n += len(placed)
	}
	return n
}

// transcriptFile is the YAML schema for transcript definitions.
type transcriptFile struct {
	Transcripts []transcriptEntry `yaml:"transcripts"`
}

type transcriptEntry struct {
	Name         string      `yaml:"name"`
	Region       string      `yaml:"region"`
	Strand       int8        `yaml:"strand"`
	CodingStart  int64       `yaml:"coding_start"`
	CodingEnd    int64       `yaml:"coding_end"`
	Exons        []exonEntry `yaml:"exons"`
	Consequences []string    `yaml:"consequences"`
}

type exonEntry struct {
	Start int64 `yaml:"start"`
	End   int64 `yaml:"end"`
}

// LoadContexts reads fully formed transcript definitions from a YAML file.
// Definitions carry exon intervals in genomic order, strand, optional coding
// boundaries in transcript numbering, and per-transcript consequence tags
// from the closed vocabulary.
func LoadContexts(path string) (*ContextSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript file: %w", err)
	}
	defer f.Close()

	return LoadContextsFrom(f)
}

// LoadContextsFrom reads transcript definitions from a reader.
func LoadContextsFrom(r io.Reader) (*ContextSet, error) {
	var file transcriptFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode transcript file: %w", err)
	}

	set := NewContextSet()
	for i, e := range file.Transcripts {
		if err := e.validate(); err != nil {
			return nil, fmt.Errorf("transcript %d (%s): %w", i+1, e.Name, err)
		}

		exons := make([]transcript.Exon, len(e.Exons))
		for j, ex := range e.Exons {
			exons[j] = transcript.Exon{Start: ex.Start, End: ex.End}
		}

		tags := make(consequence.Set, len(e.Consequences))
		for j, tag := range e.Consequences {
			tags[j] = consequence.Type(tag)
		}

		set.Add(e.Region, TranscriptContext{
			Name:         e.Name,
			ExonMap:      transcript.NewExonMap(exons, e.Strand, e.CodingStart, e.CodingEnd),
			Consequences: tags,
		})
	}

	return set, nil
}

func (e *transcriptEntry) validate() error {
	if e.Name == "" {
		return fmt.Errorf("missing name")
	}
	if e.Region == "" {
		return fmt.Errorf("missing region")
	}
	if e.Strand != 1 && e.Strand != -1 {
		return fmt.Errorf("strand must be 1 or -1, got %d", e.Strand)
	}
	if len(e.Exons) == 0 {
		return fmt.Errorf("no exons")
	}
	prev := int64(0)
	for _, ex := range e.Exons {
		if ex.Start < 1 || ex.End < ex.Start {
			return fmt.Errorf("invalid exon interval %d-%d", ex.Start, ex.End)
		}
		if ex.Start <= prev {
			return fmt.Errorf("exons must be sorted ascending and non-overlapping")
		}
		prev = ex.End
	}
	if e.CodingStart < 0 || e.CodingEnd < e.CodingStart {
		return fmt.Errorf("invalid coding span %d-%d", e.CodingStart, e.CodingEnd)
	}
	for _, tag := range e.Consequences {
		if _, ok := consequence.Rank(consequence.Type(tag)); !ok {
			return fmt.Errorf("unknown consequence tag %q", tag)
		}
	}
	return nil
}
