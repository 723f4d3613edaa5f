// Package pairs reads and writes delimited tables of chromatin contacts. Both
// plain tables with a header row and 4DN .pairs files, whose header is given
// by a "#columns:" line, are understood.
package pairs

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/heilcheng/liftover-2d/lift"
)

const columnsPrefix = "#columns:"

// Column names that must be present in the header.
const (
	Chrom1 = "chrom1"
	Pos1   = "pos1"
	Chrom2 = "chrom2"
	Pos2   = "pos2"
)

// Columns holds the 0-based positions of the coordinate columns.
type Columns struct {
	Chrom1, Pos1, Chrom2, Pos2 int
}

func (c Columns) max() int {
	m := c.Chrom1
	for _, v := range []int{c.Pos1, c.Chrom2, c.Pos2} {
		if v > m {
			m = v
		}
	}
	return m
}

type Reader struct {
	// Preamble holds the comment lines seen before the first record,
	// including any #columns: line, without their line endings.
	Preamble []string

	// Header is the list of column names. HeaderInPreamble reports whether it
	// came from a #columns: line rather than a header row.
	Header           []string
	HeaderInPreamble bool

	comma rune
	cols  Columns
	csv   *csv.Reader
	line  int
}

// NewReader consumes the preamble and header of r. comma is the field
// delimiter. When it is a space, runs of spaces separate fields.
func NewReader(r io.Reader, comma rune) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = comma == ' '

	rdr := &Reader{comma: comma, csv: cr}

	for rdr.Header == nil {
		row, err := cr.Read()
		if err == io.EOF {
			return nil, fmt.Errorf("pairs: no header found")
		} else if err != nil {
			return nil, pfx.Err(err)
		}
		rdr.line++

		if len(row) > 0 && strings.HasPrefix(row[0], "#") {
			raw := strings.Join(row, string(comma))
			rdr.Preamble = append(rdr.Preamble, raw)
			if strings.HasPrefix(raw, columnsPrefix) {
				rdr.Header = strings.Fields(strings.TrimPrefix(raw, columnsPrefix))
				rdr.HeaderInPreamble = true
			}
			continue
		}

		rdr.Header = row
	}

	// Comment lines are only meaningful in the preamble.
	cr.Comment = '#'

	cols, err := findColumns(rdr.Header)
	if err != nil {
		return nil, err
	}
	rdr.cols = cols

	return rdr, nil
}

func findColumns(header []string) (Columns, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		if _, exists := positions[name]; !exists {
			positions[name] = i
		}
	}

	var cols Columns
	for _, c := range []struct {
		name string
		dst  *int
	}{
		{Chrom1, &cols.Chrom1},
		{Pos1, &cols.Pos1},
		{Chrom2, &cols.Chrom2},
		{Pos2, &cols.Pos2},
	} {
		i, exists := positions[c.name]
		if !exists {
			return cols, fmt.Errorf("pairs: header %v is missing column %q", header, c.name)
		}
		*c.dst = i
	}

	return cols, nil
}

func (r *Reader) Columns() Columns { return r.cols }
func (r *Reader) Comma() rune      { return r.comma }

// Read returns the next record, or io.EOF once the table is exhausted. The
// record's Fields hold the whole row, coordinate columns included.
func (r *Reader) Read() (lift.Record, error) {
	row, err := r.csv.Read()
	if err == io.EOF {
		return lift.Record{}, err
	} else if err != nil {
		return lift.Record{}, pfx.Err(err)
	}
	r.line, _ = r.csv.FieldPos(0)

	if len(row) <= r.cols.max() {
		return lift.Record{}, fmt.Errorf("pairs: line %d has %d fields, expected at least %d", r.line, len(row), r.cols.max()+1)
	}

	pos1, err := strconv.Atoi(row[r.cols.Pos1])
	if err != nil {
		return lift.Record{}, fmt.Errorf("pairs: line %d: %s: %w", r.line, Pos1, err)
	}
	pos2, err := strconv.Atoi(row[r.cols.Pos2])
	if err != nil {
		return lift.Record{}, fmt.Errorf("pairs: line %d: %s: %w", r.line, Pos2, err)
	}

	return lift.Record{
		Pair: lift.Pair{
			Chrom1: row[r.cols.Chrom1],
			Pos1:   pos1,
			Chrom2: row[r.cols.Chrom2],
			Pos2:   pos2,
		},
		Fields: row,
	}, nil
}

// ReadChunk reads up to n records. It returns io.EOF only when no records
// remain.
func (r *Reader) ReadChunk(n int) ([]lift.Record, error) {
	out := make([]lift.Record, 0, n)
	for len(out) < n {
		rec, err := r.Read()
		if err == io.EOF {
			if len(out) == 0 {
				return nil, io.EOF
			}
			break
		} else if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, nil
}
