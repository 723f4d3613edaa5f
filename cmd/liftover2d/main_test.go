package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/heilcheng/liftover-2d/chain"
	"github.com/heilcheng/liftover-2d/lift"
)

const table = "readID\tchrom1\tpos1\tchrom2\tpos2\n" +
	"r1\tchr1\t12345678\tchr2\t5000\n" +
	"r2\tchr99\t1\tchr2\t5000\n" +
	"r3\tchr2\t10000\tchr1\t0\n"

func writeInput(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
}

func TestLiftPairsRoutesUnmappable(t *testing.T) {
	for _, v := range []struct {
		name           string
		keep, drop     bool
		expectOut      []string
		expectUnmapped []string
	}{
		{
			name:           "default",
			expectOut:      []string{"readID\tchrom1\tpos1\tchrom2\tpos2", "r1\tchr1\t12355678\tchr2\t0", "r3\tchr2\t5000\tchr1\t10000"},
			expectUnmapped: []string{"readID\tchrom1\tpos1\tchrom2\tpos2", "r2\tchr99\t1\tchr2\t5000"},
		},
		{
			name:      "keep",
			keep:      true,
			expectOut: []string{"readID\tchrom1\tpos1\tchrom2\tpos2", "r1\tchr1\t12355678\tchr2\t0", "r2\tchr99\t1\tchr2\t5000", "r3\tchr2\t5000\tchr1\t10000"},
		},
		{
			name:      "drop",
			drop:      true,
			expectOut: []string{"readID\tchrom1\tpos1\tchrom2\tpos2", "r1\tchr1\t12355678\tchr2\t0", "r3\tchr2\t5000\tchr1\t10000"},
		},
	} {
		input := writeInput(t, "contacts.tsv", table)
		cfg := pairsConfig{
			inputFile:      input,
			outputFile:     filepath.Join(t.TempDir(), "lifted.tsv"),
			keepUnmappable: v.keep,
			dropUnmappable: v.drop,
			threads:        2,
			chunkSize:      2,
		}

		rdr, clsr, err := initInputFile(input, "tab")
		if err != nil {
			t.Fatal(err)
		}

		stats, err := liftPairs(context.Background(), cfg, lift.New(chain.BuildDefaultSynthetic()), rdr)
		clsr.Close()
		if err != nil {
			t.Fatalf("%s: %v", v.name, err)
		}
		if stats.Total != 3 || stats.Mapped != 2 {
			t.Errorf("%s: expected 2/3 mapped, got %d/%d", v.name, stats.Mapped, stats.Total)
		}

		if got := readLines(t, cfg.outputFile); strings.Join(got, "\n") != strings.Join(v.expectOut, "\n") {
			t.Errorf("%s: unexpected output\n%s", v.name, strings.Join(got, "\n"))
		}

		_, statErr := os.Stat(cfg.outputFile + ".unmapped")
		if v.expectUnmapped == nil {
			if !os.IsNotExist(statErr) {
				t.Errorf("%s: expected no .unmapped file", v.name)
			}
			continue
		}
		if got := readLines(t, cfg.outputFile+".unmapped"); strings.Join(got, "\n") != strings.Join(v.expectUnmapped, "\n") {
			t.Errorf("%s: unexpected unmapped output\n%s", v.name, strings.Join(got, "\n"))
		}
	}
}

func TestLiftPairsCancelled(t *testing.T) {
	input := writeInput(t, "contacts.tsv", table)
	rdr, clsr, err := initInputFile(input, "tab")
	if err != nil {
		t.Fatal(err)
	}
	defer clsr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := pairsConfig{outputFile: filepath.Join(t.TempDir(), "out.tsv"), chunkSize: 10, threads: 1}
	stats, err := liftPairs(ctx, cfg, lift.New(chain.BuildDefaultSynthetic()), rdr)
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if stats.Total != 0 {
		t.Errorf("expected nothing lifted, got %d", stats.Total)
	}
	if got := readLines(t, cfg.outputFile); len(got) != 1 {
		t.Errorf("expected only the header, got %v", got)
	}
}

func TestInitInputFilePairsIsTab(t *testing.T) {
	body := "## pairs format v1.0\n#columns: readID chrom1 pos1 chrom2 pos2\nr1\tchr1\t5\tchr2\t6\n"
	rdr, clsr, err := initInputFile(writeInput(t, "sample.pairs", body), "auto")
	if err != nil {
		t.Fatal(err)
	}
	defer clsr.Close()

	if rdr.Comma() != '\t' {
		t.Errorf("expected a tab delimiter, got %q", rdr.Comma())
	}
	rec, err := rdr.Read()
	if err != nil || rec.Pos2 != 6 {
		t.Errorf("unexpected record %+v (%v)", rec, err)
	}
}

func TestParseDelimiter(t *testing.T) {
	for in, expected := range map[string]rune{"tab": '\t', `\t`: '\t', "comma": ',', ",": ',', "space": ' ', "|": '|'} {
		got, detect, err := parseDelimiter(in)
		if err != nil || detect || got != expected {
			t.Errorf("%q: got %q detect=%v err=%v", in, got, detect, err)
		}
	}
	if _, detect, err := parseDelimiter("auto"); err != nil || !detect {
		t.Errorf("auto should request detection")
	}
	if _, _, err := parseDelimiter("semicolons"); err == nil {
		t.Errorf("expected an error for a multi-character delimiter")
	}
}

func TestRefsFromChainName(t *testing.T) {
	from, to, err := refsFromChainName("gs://bucket/chains/hg19ToHg38.over.chain.gz")
	if err != nil || from != "hg19" || to != "hg38" {
		t.Errorf("got %q %q %v", from, to, err)
	}
	if _, _, err := refsFromChainName("liftover.chain"); err == nil {
		t.Error("expected an error for a name without 'To'")
	}
}

func TestVerifyTally(t *testing.T) {
	var tally verifyTally
	tally.record(true, true, true)
	tally.record(false, false, false)
	tally.record(true, false, false)
	tally.record(false, true, false)
	tally.record(true, true, false)

	if tally != (verifyTally{Endpoints: 5, Agree: 1, BothUnmapped: 1, OnlyOurs: 1, OnlyReference: 1, Disagree: 1}) {
		t.Errorf("unexpected tally %+v", tally)
	}
}

// A single ungapped chain shifting the first 100kb of chr1 by 10kb.
const shiftChain = "chain 1000 chr1 1000000 + 0 100000 chr1 1000000 + 10000 110000 1\n" +
	"100000\n\n"

const verifyTable = "chrom1\tpos1\tchrom2\tpos2\n" +
	"chr1\t50000\tchr5\t1\n" +
	"chr5\t2\tchr6\t3\n" +
	"chr7\t4\tchr8\t5\n"

func TestComparePairs(t *testing.T) {
	chainFile := writeInput(t, "hg19ToHg38.over.chain", shiftChain)
	input := writeInput(t, "contacts.tsv", verifyTable)

	index, err := initIndex(chainFile)
	if err != nil {
		t.Fatal(err)
	}
	reference, err := initReferenceLiftover(chainFile, "hg19", "hg38")
	if err != nil {
		t.Fatal(err)
	}

	for _, v := range []struct {
		limit    int
		expected verifyTally
	}{
		{limit: 0, expected: verifyTally{Endpoints: 6, Agree: 1, BothUnmapped: 5}},
		{limit: 1, expected: verifyTally{Endpoints: 2, Agree: 1, BothUnmapped: 1}},
	} {
		rdr, clsr, err := initInputFile(input, "tab")
		if err != nil {
			t.Fatal(err)
		}

		tally, err := comparePairs(lift.New(index), reference, "hg19", "hg38", rdr, v.limit)
		clsr.Close()
		if err != nil {
			t.Fatal(err)
		}
		if tally != v.expected {
			t.Errorf("limit %d: expected %+v, got %+v", v.limit, v.expected, tally)
		}
	}
}

func TestRunVerify(t *testing.T) {
	chainFile := writeInput(t, "hg19ToHg38.over.chain", shiftChain)
	input := writeInput(t, "contacts.tsv", verifyTable)

	if err := runVerify([]string{"-chain", chainFile, "-input", input, "-delimiter", "tab"}); err != nil {
		t.Fatal(err)
	}

	renamed := writeInput(t, "shift.chain", shiftChain)
	if err := runVerify([]string{"-chain", renamed, "-input", input}); err == nil {
		t.Error("expected an error when assemblies cannot be read from the chain file name")
	}
}

func TestWriteStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.tsv")
	stats := lift.Stats{Total: 4, Mapped: 2, Percent: 50, Seconds: 2, PerSec: 2}

	if err := writeStats(path, stats); err != nil {
		t.Fatal(err)
	}

	got := readLines(t, path)
	expected := []string{
		"total_pairs\tmapped_pairs\tmapped_percent\tseconds\tpairs_per_second",
		"4\t2\t50\t2\t2",
	}
	if strings.Join(got, "\n") != strings.Join(expected, "\n") {
		t.Errorf("unexpected stats table\n%s", strings.Join(got, "\n"))
	}
}
