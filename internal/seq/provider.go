// Package seq provides reference sequence access for variant QC and
// notation building.
package seq

import "fmt"

// Provider fetches forward-strand reference sequence for a named region.
// Implementations must be safe for concurrent reads.
type Provider interface {
	// Fetch returns the forward-strand subsequence of region spanning
	// [start, end], both 1-based inclusive. It fails when the region is
	// unknown or the span is out of range.
	Fetch(region string, start, end int64) (string, error)
}

// RangeError reports an invalid fetch span on a known region.
type RangeError struct {
	Region     string
	Start, End int64
	Length     int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("span %d-%d out of range for region %s (length %d)",
		e.Start, e.End, e.Region, e.Length)
}

// UnknownRegionError reports a fetch on a region the provider does not have.
type UnknownRegionError struct {
	Region string
}

func (e *UnknownRegionError) Error() string {
	return fmt.Sprintf("unknown region %s", e.Region)
}
