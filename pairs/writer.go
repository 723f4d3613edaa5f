package pairs

import (
	"bufio"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/heilcheng/liftover-2d/lift"
)

// Writer emits rows with the reader's delimiter. Fields are quoted only where
// needed, so a written row reads back as the same fields.
type Writer struct {
	bw   *bufio.Writer
	csv  *csv.Writer
	cols Columns
	row  []string
}

func NewWriter(w io.Writer, comma rune, cols Columns) *Writer {
	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)
	cw.Comma = comma

	return &Writer{
		bw:   bw,
		csv:  cw,
		cols: cols,
	}
}

// WriteHeader reproduces the preamble and header read by r.
func (w *Writer) WriteHeader(r *Reader) error {
	for _, line := range r.Preamble {
		if _, err := w.bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	if r.HeaderInPreamble {
		return nil
	}
	return w.writeRow(r.Header)
}

// Write emits the result's row with lifted coordinates when it is mappable and
// with its original coordinates otherwise.
func (w *Writer) Write(res lift.Result) error {
	if !res.Mappable {
		return w.writeRow(res.Fields)
	}

	w.row = append(w.row[:0], res.Fields...)
	w.row[w.cols.Chrom1] = res.Lifted.Chrom1
	w.row[w.cols.Pos1] = strconv.Itoa(res.Lifted.Pos1)
	w.row[w.cols.Chrom2] = res.Lifted.Chrom2
	w.row[w.cols.Pos2] = strconv.Itoa(res.Lifted.Pos2)

	return w.writeRow(w.row)
}

// writeRow passes fields through the csv writer, which buffers into bw.
// Preamble lines bypass it, so it is flushed after every row to keep the two
// in order.
func (w *Writer) writeRow(fields []string) error {
	if err := w.csv.Write(fields); err != nil {
		return err
	}
	w.csv.Flush()
	return w.csv.Error()
}

func (w *Writer) Flush() error { return w.bw.Flush() }
