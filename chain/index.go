package chain

import (
	"fmt"
	"sort"

	"github.com/biogo/store/interval"
	"github.com/brentp/irelate/interfaces"
)

// Index holds one interval tree of Blocks per source chromosome. It is filled
// once by a constructor and never modified afterwards, so any number of
// goroutines may query it concurrently.
type Index struct {
	trees map[string]*interval.IntTree
	n     int
}

func newIndex() *Index {
	return &Index{trees: make(map[string]*interval.IntTree)}
}

func (ix *Index) insert(b *Block) error {
	if b.SourceStart < 0 || b.SourceStart >= b.SourceEnd {
		return fmt.Errorf("source interval [%d, %d) is empty or inverted", b.SourceStart, b.SourceEnd)
	}

	tree, exists := ix.trees[b.SourceChrom]
	if !exists {
		tree = &interval.IntTree{}
		ix.trees[b.SourceChrom] = tree
	}

	b.seq = uintptr(ix.n)
	if err := tree.Insert(b, true); err != nil {
		return err
	}
	ix.n++

	return nil
}

// seal recomputes the augmented ranges after fast insertion. It must run
// before the index is handed out.
func (ix *Index) seal() *Index {
	for _, tree := range ix.trees {
		tree.AdjustRanges()
	}
	return ix
}

// Overlapping returns every block on chrom whose source interval contains pos,
// ordered by source start and then insertion order. An unknown chromosome or
// an uncovered position yields an empty result.
func (ix *Index) Overlapping(chrom string, pos int) []*Block {
	if pos < 0 {
		return nil
	}
	return ix.get(chrom, pos, pos+1)
}

// Query returns every block overlapping the half-open region p.
func (ix *Index) Query(p interfaces.IPosition) []*Block {
	return ix.get(p.Chrom(), int(p.Start()), int(p.End()))
}

func (ix *Index) get(chrom string, start, end int) []*Block {
	if ix == nil || start >= end {
		return nil
	}
	tree, exists := ix.trees[chrom]
	if !exists {
		return nil
	}

	hits := tree.Get(query{start: start, end: end})
	if len(hits) == 0 {
		return nil
	}

	out := make([]*Block, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(*Block))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SourceStart != out[j].SourceStart {
			return out[i].SourceStart < out[j].SourceStart
		}
		return out[i].seq < out[j].seq
	})

	return out
}

// Chromosomes lists the indexed source chromosomes in lexical order.
func (ix *Index) Chromosomes() []string {
	if ix == nil {
		return nil
	}
	out := make([]string, 0, len(ix.trees))
	for chrom := range ix.trees {
		out = append(out, chrom)
	}
	sort.Strings(out)
	return out
}

// Len is the total number of blocks across all chromosomes.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return ix.n
}

// Blocks returns the blocks on chrom in source order.
func (ix *Index) Blocks(chrom string) []*Block {
	if ix == nil {
		return nil
	}
	tree, exists := ix.trees[chrom]
	if !exists {
		return nil
	}
	out := make([]*Block, 0, tree.Len())
	tree.Do(func(e interval.IntInterface) bool {
		out = append(out, e.(*Block))
		return false
	})
	return out
}
