package chain

import (
	"fmt"

	"github.com/biogo/store/interval"
	"github.com/brentp/irelate/interfaces"
)

// Block is the extent of one chain header: a source interval and the target
// position it maps onto. Coordinates are 0-based and half-open.
//
// Only TargetStart is used for lifting. A position at offset k into the source
// interval lifts to TargetStart+k. Strand and the gapped alignment lines that
// follow a header are not interpreted, and TargetEnd is not enforced.
type Block struct {
	SourceChrom string
	SourceStart int
	SourceEnd   int
	TargetChrom string
	TargetStart int
	TargetEnd   int
	Score       int64

	// ChainID is the optional 13th header token. Diagnostic only.
	ChainID string

	// seq is the insertion order within the index. It orders blocks in the
	// interval tree and breaks score ties.
	seq uintptr
}

var _ interfaces.IPosition = (*Block)(nil)

func (b *Block) Chrom() string { return b.SourceChrom }
func (b *Block) Start() uint32 { return uint32(b.SourceStart) }
func (b *Block) End() uint32   { return uint32(b.SourceEnd) }

// Contains reports whether pos falls within [SourceStart, SourceEnd).
func (b *Block) Contains(pos int) bool {
	return b.SourceStart <= pos && pos < b.SourceEnd
}

// Seq is the order in which the block was added to its index.
func (b *Block) Seq() int { return int(b.seq) }

func (b *Block) String() string {
	return fmt.Sprintf("%s:%d-%d -> %s:%d-%d (score %d)", b.SourceChrom, b.SourceStart, b.SourceEnd, b.TargetChrom, b.TargetStart, b.TargetEnd, b.Score)
}

// Overlap, ID and Range satisfy interval.IntInterface.
func (b *Block) Overlap(r interval.IntRange) bool {
	return b.SourceStart < r.End && r.Start < b.SourceEnd
}
func (b *Block) ID() uintptr { return b.seq }
func (b *Block) Range() interval.IntRange {
	return interval.IntRange{Start: b.SourceStart, End: b.SourceEnd}
}

// query is a half-open search range used against the interval tree.
type query struct {
	start, end int
}

func (q query) Overlap(r interval.IntRange) bool {
	return q.start < r.End && r.Start < q.end
}
func (q query) ID() uintptr { return 0 }
func (q query) Range() interval.IntRange {
	return interval.IntRange{Start: q.start, End: q.end}
}
