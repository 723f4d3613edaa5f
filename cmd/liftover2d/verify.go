package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	glo "github.com/carbocation/GLO"
	liftover2d "github.com/heilcheng/liftover-2d"
	"github.com/heilcheng/liftover-2d/lift"
	"github.com/heilcheng/liftover-2d/pairs"
)

// verifyTally compares each endpoint lifted by this engine with the reference
// implementation, which interprets gaps and strand.
type verifyTally struct {
	Endpoints     int
	Agree         int
	BothUnmapped  int
	OnlyOurs      int
	OnlyReference int
	Disagree      int
}

func (t *verifyTally) record(ours, reference, agree bool) {
	t.Endpoints++
	switch {
	case ours && agree:
		t.Agree++
	case !ours && !reference:
		t.BothUnmapped++
	case ours && !reference:
		t.OnlyOurs++
	case !ours && reference:
		t.OnlyReference++
	default:
		t.Disagree++
	}
}

func runVerify(args []string) error {
	var chainFile, inputFile, delimiter, fromRef, toRef string
	var limit int
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	fs.StringVar(&chainFile, "chain", "", "Path to the chain file from UCSC. May be a google storage URL (gs://)")
	fs.StringVar(&inputFile, "input", "", "Path to a pair table whose endpoints are used as test coordinates")
	fs.StringVar(&delimiter, "delimiter", "auto", "Field delimiter of the input (see the pairs command)")
	fs.StringVar(&fromRef, "from", "", "Name of the source assembly. Defaults to the part of the chain file name before 'To'")
	fs.StringVar(&toRef, "to", "", "Name of the target assembly. Defaults to the part of the chain file name after 'To'")
	fs.IntVar(&limit, "limit", 100000, "Maximum number of pairs to compare. 0 means all")
	fs.Parse(args)

	if chainFile == "" || inputFile == "" {
		fs.Usage()
		return fmt.Errorf("Must specify a --chain file and an --input file")
	}

	if fromRef == "" || toRef == "" {
		var err error
		if fromRef, toRef, err = refsFromChainName(chainFile); err != nil {
			return err
		}
	}

	if err := initStorageClient(chainFile, inputFile); err != nil {
		return err
	}

	index, err := initIndex(chainFile)
	if err != nil {
		return err
	}
	lifter := lift.New(index)

	reference, err := initReferenceLiftover(chainFile, fromRef, toRef)
	if err != nil {
		return err
	}

	rdr, clsr, err := initInputFile(inputFile, delimiter)
	if err != nil {
		return err
	}
	defer clsr.Close()

	tally, err := comparePairs(lifter, reference, fromRef, toRef, rdr, limit)
	if err != nil {
		return err
	}

	log.Printf("Compared %d endpoints lifted from %s to %s\n", tally.Endpoints, fromRef, toRef)
	log.Printf("- Same position: %d\n", tally.Agree)
	log.Printf("- Unmapped by both: %d\n", tally.BothUnmapped)
	log.Printf("- Mapped only by liftover2d: %d\n", tally.OnlyOurs)
	log.Printf("- Mapped only by the reference: %d\n", tally.OnlyReference)
	log.Printf("- Mapped to different positions: %d\n", tally.Disagree)

	return nil
}

// comparePairs lifts both endpoints of up to limit pairs from rdr with each
// engine. A limit of 0 or less reads the whole table.
func comparePairs(lifter *lift.Lifter, reference *glo.LiftOver, fromRef, toRef string, rdr *pairs.Reader, limit int) (verifyTally, error) {
	var tally verifyTally
	for n := 0; limit <= 0 || n < limit; n++ {
		rec, err := rdr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return tally, err
		}

		for _, c := range []lift.Coordinate{rec.First(), rec.Second()} {
			ours, ok := lifter.Lift(c.Chrom, c.Pos)
			theirs := reference.Lift(fromRef, toRef, glo.NewChainInterval(c.Chrom, int64(c.Pos), int64(c.Pos+1)))

			agree := false
			for _, x := range theirs {
				if ok && x.Contig == ours.Chrom && x.Start == int64(ours.Pos) {
					agree = true
				}
			}
			tally.record(ok, len(theirs) > 0, agree)
		}
	}

	return tally, nil
}

// refsFromChainName reads the assemblies from a UCSC-style chain file name
// such as hg19ToHg38.over.chain.gz.
func refsFromChainName(chainFile string) (fromRef, toRef string, err error) {
	chunks := strings.Split(strings.Split(filepath.Base(chainFile), ".")[0], "To")
	if len(chunks) != 2 || chunks[0] == "" || chunks[1] == "" {
		return "", "", fmt.Errorf("Expected chain file name format to be oldToNew.over.chain.*, but found: %s", chainFile)
	}

	return strings.ToLower(chunks[0]), strings.ToLower(chunks[1]), nil
}

func initReferenceLiftover(chainFile, fromRef, toRef string) (*glo.LiftOver, error) {
	r, _, err := liftover2d.OpenMaybeCompressed(chainFile, client)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	liftover := new(glo.LiftOver)
	liftover.Init()
	liftover.Load(fromRef, toRef, bufio.NewReader(r))

	return liftover, nil
}
