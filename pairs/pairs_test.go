package pairs

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/heilcheng/liftover-2d/chain"
	"github.com/heilcheng/liftover-2d/lift"
)

const plainTable = "readID\tchrom1\tpos1\tchrom2\tpos2\tstrand1\n" +
	"r1\tchr1\t12345678\tchr2\t5000\t+\n" +
	"r2\tchr1\t100000000\tchr2\t5000\t-\n" +
	"r3\tchr2\t10\tchr1\t0\t+\n"

const fourDN = "## pairs format v1.0\n" +
	"#sorted: chr1-chr2-pos1-pos2\n" +
	"#columns: readID chrom1 pos1 chrom2 pos2 strand1 strand2\n" +
	"r1\tchr1\t12345678\tchr2\t5000\t+\t-\n" +
	"r2\tchr99\t1\tchr2\t5000\t-\t-\n"

func TestReadPlain(t *testing.T) {
	r, err := NewReader(strings.NewReader(plainTable), '\t')
	if err != nil {
		t.Fatal(err)
	}
	if r.HeaderInPreamble || len(r.Preamble) != 0 {
		t.Errorf("unexpected preamble %v", r.Preamble)
	}
	if r.Columns() != (Columns{1, 2, 3, 4}) {
		t.Errorf("unexpected columns %+v", r.Columns())
	}

	records, err := r.ReadChunk(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].Pair != (lift.Pair{Chrom1: "chr1", Pos1: 12345678, Chrom2: "chr2", Pos2: 5000}) {
		t.Errorf("unexpected pair %+v", records[0].Pair)
	}
	if records[2].Fields[0] != "r3" || records[2].Fields[5] != "+" {
		t.Errorf("passthrough fields lost: %v", records[2].Fields)
	}

	if _, err := r.ReadChunk(10); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestReadFourDN(t *testing.T) {
	r, err := NewReader(strings.NewReader(fourDN), '\t')
	if err != nil {
		t.Fatal(err)
	}
	if !r.HeaderInPreamble || len(r.Preamble) != 3 || len(r.Header) != 7 {
		t.Fatalf("unexpected header %v / preamble %v", r.Header, r.Preamble)
	}

	first, err := r.Read()
	if err != nil {
		t.Fatal(err)
	}
	if first.Chrom2 != "chr2" || first.Pos2 != 5000 {
		t.Errorf("unexpected record %+v", first)
	}
}

func TestReadChunking(t *testing.T) {
	r, err := NewReader(strings.NewReader(plainTable), '\t')
	if err != nil {
		t.Fatal(err)
	}
	var sizes []int
	for {
		chunk, err := r.ReadChunk(2)
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatal(err)
		}
		sizes = append(sizes, len(chunk))
	}
	if len(sizes) != 2 || sizes[0] != 2 || sizes[1] != 1 {
		t.Errorf("unexpected chunk sizes %v", sizes)
	}
}

func TestReadErrors(t *testing.T) {
	for _, body := range []string{
		"",
		"#only a comment\n",
		"chrom1\tpos1\tchrom2\n",
	} {
		if _, err := NewReader(strings.NewReader(body), '\t'); err == nil {
			t.Errorf("expected a header error for %q", body)
		}
	}

	for _, body := range []string{
		"chrom1,pos1,chrom2,pos2\nchr1,x,chr2,5\n",
		"chrom1,pos1,chrom2,pos2\nchr1,1,chr2,5.5\n",
		"chrom1,pos1,chrom2,pos2\nchr1,1,chr2\n",
	} {
		r, err := NewReader(strings.NewReader(body), ',')
		if err != nil {
			t.Fatal(err)
		}
		if _, err := r.Read(); err == nil || err == io.EOF {
			t.Errorf("expected a row error for %q, got %v", body, err)
		} else if !strings.Contains(err.Error(), "line 2") {
			t.Errorf("expected the line number in %v", err)
		}
	}
}

func TestRoundTripLifted(t *testing.T) {
	for _, input := range []string{plainTable, fourDN} {
		r, err := NewReader(strings.NewReader(input), '\t')
		if err != nil {
			t.Fatal(err)
		}
		records, err := r.ReadChunk(100)
		if err != nil {
			t.Fatal(err)
		}

		lifter := lift.New(chain.BuildDefaultSynthetic())
		results, err := lifter.LiftTable(context.Background(), records, lift.TableOptions{})
		if err != nil {
			t.Fatal(err)
		}

		var buf bytes.Buffer
		w := NewWriter(&buf, r.Comma(), r.Columns())
		if err := w.WriteHeader(r); err != nil {
			t.Fatal(err)
		}
		for _, res := range results {
			if err := w.Write(res); err != nil {
				t.Fatal(err)
			}
		}
		if err := w.Flush(); err != nil {
			t.Fatal(err)
		}

		lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		inLines := strings.Split(strings.TrimSuffix(input, "\n"), "\n")
		if len(lines) != len(inLines) {
			t.Fatalf("expected %d lines, got %d:\n%s", len(inLines), len(lines), buf.String())
		}
		headerLines := len(inLines) - len(records)
		for i := 0; i < headerLines; i++ {
			if lines[i] != inLines[i] {
				t.Errorf("header line %d changed: %q", i, lines[i])
			}
		}

		// The first record is mappable in both inputs; the second is not.
		if !strings.HasPrefix(lines[headerLines], "r1\tchr1\t12355678\tchr2\t0\t") {
			t.Errorf("unexpected lifted row %q", lines[headerLines])
		}
		if lines[headerLines+1] != inLines[headerLines+1] {
			t.Errorf("unmappable row changed: %q", lines[headerLines+1])
		}
	}
}

func TestRoundTripQuotedField(t *testing.T) {
	input := "chrom1,pos1,chrom2,pos2,note\n" +
		"chr1,100,chr2,200,\"a,b\"\n" +
		"chr9,1,chr2,200,\"c,d\"\n"

	r, err := NewReader(strings.NewReader(input), ',')
	if err != nil {
		t.Fatal(err)
	}
	records, err := r.ReadChunk(10)
	if err != nil {
		t.Fatal(err)
	}

	lifter := lift.New(chain.BuildDefaultSynthetic())
	results, err := lifter.LiftTable(context.Background(), records, lift.TableOptions{})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	w := NewWriter(&buf, r.Comma(), r.Columns())
	if err := w.WriteHeader(r); err != nil {
		t.Fatal(err)
	}
	for _, res := range results {
		if err := w.Write(res); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	expected := "chrom1,pos1,chrom2,pos2,note\n" +
		"chr1,10100,chr2,-4800,\"a,b\"\n" +
		"chr9,1,chr2,200,\"c,d\"\n"
	if buf.String() != expected {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}

	back, err := NewReader(strings.NewReader(buf.String()), ',')
	if err != nil {
		t.Fatal(err)
	}
	for i := range records {
		rec, err := back.Read()
		if err != nil {
			t.Fatal(err)
		}
		if len(rec.Fields) != 5 || rec.Fields[4] != records[i].Fields[4] {
			t.Errorf("row %d: expected 5 fields ending in %q, got %q", i, records[i].Fields[4], rec.Fields)
		}
	}
}

func TestReadSpaceRuns(t *testing.T) {
	input := "chrom1 pos1  chrom2 pos2\n" +
		"chr1  100 chr2   200\n"

	r, err := NewReader(strings.NewReader(input), ' ')
	if err != nil {
		t.Fatal(err)
	}
	if r.Columns() != (Columns{Chrom1: 0, Pos1: 1, Chrom2: 2, Pos2: 3}) {
		t.Errorf("unexpected columns %+v", r.Columns())
	}

	rec, err := r.Read()
	if err != nil {
		t.Fatal(err)
	}
	if rec.Pair != (lift.Pair{Chrom1: "chr1", Pos1: 100, Chrom2: "chr2", Pos2: 200}) {
		t.Errorf("unexpected pair %+v", rec.Pair)
	}
}
