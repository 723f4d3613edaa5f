package chain

// SyntheticChromosome tiles [0, Span) with blocks of width Tile. Each block
// maps to the same interval on TargetChrom shifted by Offset.
type SyntheticChromosome struct {
	Name        string
	TargetChrom string // defaults to Name
	Span        int
	Tile        int
	Offset      int
	Score       int64
}

type SyntheticSpec struct {
	Chromosomes []SyntheticChromosome
}

// DefaultSyntheticSpec is the demonstration index: chr1 shifted by +10kb at
// score 1000 and chr2 shifted by -5kb at score 800, each tiled in 100kb blocks
// over 100Mb.
func DefaultSyntheticSpec() SyntheticSpec {
	return SyntheticSpec{
		Chromosomes: []SyntheticChromosome{
			{Name: "chr1", Span: 100000000, Tile: 100000, Offset: 10000, Score: 1000},
			{Name: "chr2", Span: 100000000, Tile: 100000, Offset: -5000, Score: 800},
		},
	}
}

// BuildSynthetic builds an Index from spec without touching the filesystem.
// The result depends only on spec. Chromosomes with a non-positive Span or
// Tile contribute no blocks, and the last tile is clipped to Span.
func BuildSynthetic(spec SyntheticSpec) *Index {
	ix := newIndex()

	for _, c := range spec.Chromosomes {
		if c.Span <= 0 || c.Tile <= 0 {
			continue
		}
		target := c.TargetChrom
		if target == "" {
			target = c.Name
		}

		for start := 0; start < c.Span; start += c.Tile {
			end := start + c.Tile
			if end > c.Span {
				end = c.Span
			}
			// Ranges are valid by construction.
			_ = ix.insert(&Block{
				SourceChrom: c.Name,
				SourceStart: start,
				SourceEnd:   end,
				TargetChrom: target,
				TargetStart: start + c.Offset,
				TargetEnd:   end + c.Offset,
				Score:       c.Score,
			})
		}
	}

	return ix.seal()
}

// BuildDefaultSynthetic is BuildSynthetic(DefaultSyntheticSpec()).
func BuildDefaultSynthetic() *Index {
	return BuildSynthetic(DefaultSyntheticSpec())
}
