// Package lift converts single coordinates, coordinate pairs and tables of
// pairs between assemblies using a chain.Index.
package lift

import (
	"fmt"

	"github.com/heilcheng/liftover-2d/chain"
)

// Coordinate is a position on a named chromosome.
type Coordinate struct {
	Chrom string
	Pos   int
}

func (c Coordinate) String() string { return fmt.Sprintf("%s:%d", c.Chrom, c.Pos) }

// Pair is the two loci of a chromatin contact.
type Pair struct {
	Chrom1 string
	Pos1   int
	Chrom2 string
	Pos2   int
}

func (p Pair) First() Coordinate  { return Coordinate{p.Chrom1, p.Pos1} }
func (p Pair) Second() Coordinate { return Coordinate{p.Chrom2, p.Pos2} }

// Lifter holds no state beyond its index and is safe for concurrent use.
type Lifter struct {
	index *chain.Index
}

func New(index *chain.Index) *Lifter {
	return &Lifter{index: index}
}

func (l *Lifter) Index() *chain.Index { return l.index }

// Best picks the highest scoring block. Equal scores go to the block that was
// added to the index first, so the choice is stable across reloads of the same
// chain file.
func Best(blocks []*chain.Block) *chain.Block {
	var best *chain.Block
	for _, b := range blocks {
		if best == nil || b.Score > best.Score || (b.Score == best.Score && b.Seq() < best.Seq()) {
			best = b
		}
	}
	return best
}

// Lift maps pos on chrom to the target assembly. ok is false when no block
// covers the position. The offset into the chosen block is added to its
// TargetStart without checking it against TargetEnd, and strand is ignored.
func (l *Lifter) Lift(chrom string, pos int) (out Coordinate, ok bool) {
	best := Best(l.index.Overlapping(chrom, pos))
	if best == nil {
		return Coordinate{}, false
	}

	return Coordinate{
		Chrom: best.TargetChrom,
		Pos:   best.TargetStart + (pos - best.SourceStart),
	}, true
}

// LiftPair lifts both ends of a contact. The pair is unmapped if either end
// is.
func (l *Lifter) LiftPair(chrom1 string, pos1 int, chrom2 string, pos2 int) (Pair, bool) {
	c1, ok := l.Lift(chrom1, pos1)
	if !ok {
		return Pair{}, false
	}
	c2, ok := l.Lift(chrom2, pos2)
	if !ok {
		return Pair{}, false
	}

	return Pair{Chrom1: c1.Chrom, Pos1: c1.Pos, Chrom2: c2.Chrom, Pos2: c2.Pos}, true
}
