package main

import (
	"encoding/csv"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
	"github.com/heilcheng/liftover-2d/lift"
)

// writeStats saves the summary as a one-row tab-delimited table.
func writeStats(path string, stats lift.Stats) error {
	f, err := openOutput(path)
	if err != nil {
		return pfx.Err(err)
	}

	w := csv.NewWriter(f)
	w.Comma = '\t'
	if err := gocsv.MarshalCSV([]lift.Stats{stats}, gocsv.NewSafeCSVWriter(w)); err != nil {
		f.Close()
		return pfx.Err(err)
	}

	return f.Close()
}
