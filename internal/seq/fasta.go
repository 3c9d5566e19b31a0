package seq

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// FastaProvider serves reference sequence from an in-memory FASTA file.
// Sequences are keyed by the first whitespace-delimited token of the header.
type FastaProvider struct {
	path      string
	sequences map[string]string // region name -> sequence
}

// NewFastaProvider creates a provider for the given FASTA file.
func NewFastaProvider(path string) *FastaProvider {
	return &FastaProvider{
		path:      path,
		sequences: make(map[string]string),
	}
}

// Load parses the FASTA file and stores sequences indexed by region name.
// Supports plain and gzipped (.gz) files.
func (p *FastaProvider) Load() error {
	f, err := os.Open(p.path)
	if err != nil {
		return fmt.Errorf("open FASTA file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f

	if strings.HasSuffix(p.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return p.LoadFrom(reader)
}

// LoadFrom parses FASTA content from a reader.
func (p *FastaProvider) LoadFrom(reader io.Reader) error {
	scanner := bufio.NewScanner(reader)
	// Increase buffer size for long sequence lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024) // 10MB max line

	var currentRegion string
	var currentSeq strings.Builder

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, ">") {
			if currentRegion != "" && currentSeq.Len() > 0 {
				p.sequences[currentRegion] = currentSeq.String()
			}
			currentRegion = parseRegionName(line)
			currentSeq.Reset()
		} else {
			currentSeq.WriteString(strings.TrimSpace(line))
		}
	}

	if currentRegion != "" && currentSeq.Len() > 0 {
		p.sequences[currentRegion] = currentSeq.String()
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan FASTA: %w", err)
	}

	return nil
}

// parseRegionName extracts the region name from a FASTA header line.
// ">12 dna:chromosome ..." yields "12".
func parseRegionName(header string) string {
	header = strings.TrimPrefix(header, ">")
	if idx := strings.IndexByte(header, ' '); idx != -1 {
		return header[:idx]
	}
	return header
}

// Fetch returns the forward-strand subsequence of region spanning
// [start, end], 1-based inclusive.
func (p *FastaProvider) Fetch(region string, start, end int64) (string, error) {
	sequence, ok := p.sequences[region]
	if !ok {
		// Retry without "chr" prefix, matching common assembly naming drift.
		if strings.HasPrefix(region, "chr") {
			sequence, ok = p.sequences[region[3:]]
		}
		if !ok {
			return "", &UnknownRegionError{Region: region}
		}
	}

	if start < 1 || end < start || end > int64(len(sequence)) {
		return "", &RangeError{Region: region, Start: start, End: end, Length: int64(len(sequence))}
	}

	return sequence[start-1 : end], nil
}

// RegionCount returns the number of loaded regions.
func (p *FastaProvider) RegionCount() int {
	return len(p.sequences)
}

// HasRegion checks whether a sequence exists for the given region.
func (p *FastaProvider) HasRegion(region string) bool {
	_, ok := p.sequences[region]
	return ok
}
