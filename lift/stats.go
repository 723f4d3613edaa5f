package lift

import "time"

// Stats summarizes a lifted table.
type Stats struct {
	Total   int           `csv:"total_pairs"`
	Mapped  int           `csv:"mapped_pairs"`
	Percent float64       `csv:"mapped_percent"`
	Elapsed time.Duration `csv:"-"`
	Seconds float64       `csv:"seconds"`
	PerSec  float64       `csv:"pairs_per_second"`
}

// Count accumulates one batch of records and the results LiftTable returned
// for it. records is given separately because results may have had
// unmappable rows dropped.
func (s *Stats) Count(records int, results []Result) {
	s.Total += records
	for _, r := range results {
		if r.Mappable {
			s.Mapped++
		}
	}
}

// Finish fills the derived fields from the running counts and elapsed time.
func (s *Stats) Finish(elapsed time.Duration) {
	s.Elapsed = elapsed
	s.Seconds = elapsed.Seconds()
	if s.Total > 0 {
		s.Percent = 100 * float64(s.Mapped) / float64(s.Total)
	}
	if s.Seconds > 0 {
		s.PerSec = float64(s.Total) / s.Seconds
	}
}
