package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/heilcheng/liftover-2d/compileinfo"
	"github.com/heilcheng/liftover-2d/lift"
	"github.com/heilcheng/liftover-2d/pairs"
)

type pairsConfig struct {
	chainFile, inputFile, outputFile, statsFile string
	delimiter                                   string
	dropUnmappable, keepUnmappable, progress    bool
	threads, chunkSize                          int
}

func runPairs(args []string) error {
	var cfg pairsConfig
	fs := flag.NewFlagSet("pairs", flag.ExitOnError)
	fs.StringVar(&cfg.chainFile, "chain", "", "Path to the chain file from UCSC, optionally compressed. May be a google storage URL (gs://). If omitted, a synthetic demonstration index is used.")
	fs.StringVar(&cfg.inputFile, "input", "", "Path to the pair table to lift, with chrom1, pos1, chrom2 and pos2 columns. May be a google storage URL (gs://).")
	fs.StringVar(&cfg.outputFile, "output", "", "Path to the output file. Defaults to stdout.")
	fs.StringVar(&cfg.statsFile, "stats", "", "Optional path for a tab-delimited summary of the mapping statistics.")
	fs.StringVar(&cfg.delimiter, "delimiter", "auto", "Field delimiter of the input: auto, tab, comma, space, or a single character. With auto, .pairs files are tab-delimited and other files are sniffed.")
	fs.BoolVar(&cfg.dropUnmappable, "drop-unmappable", false, "Discard unmappable pairs entirely instead of writing them to <output>.unmapped")
	fs.BoolVar(&cfg.keepUnmappable, "keep-unmappable", false, "Keep unmappable pairs in the output with their original coordinates")
	fs.BoolVar(&cfg.progress, "progress", true, "Whether to show a progress bar on stderr")
	fs.IntVar(&cfg.threads, "threads", runtime.NumCPU(), "Number of goroutines lifting each chunk")
	fs.IntVar(&cfg.chunkSize, "chunk-size", 1000000, "Number of pairs read and lifted at a time")
	fs.Parse(args)

	if cfg.inputFile == "" {
		fs.Usage()
		return fmt.Errorf("Must specify an --input file")
	}
	if cfg.dropUnmappable && cfg.keepUnmappable {
		return fmt.Errorf("--drop-unmappable and --keep-unmappable are mutually exclusive")
	}
	if cfg.chunkSize < 1 {
		return fmt.Errorf("--chunk-size must be positive, got %d", cfg.chunkSize)
	}

	log.Println(compileinfo.Get())

	if err := initStorageClient(cfg.chainFile, cfg.inputFile); err != nil {
		return err
	}

	index, err := initIndex(cfg.chainFile)
	if err != nil {
		return err
	}

	log.Println("Reading input file:", cfg.inputFile)
	rdr, clsr, err := initInputFile(cfg.inputFile, cfg.delimiter)
	if err != nil {
		return err
	}
	defer clsr.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stats, err := liftPairs(ctx, cfg, lift.New(index), rdr)
	if err != nil {
		return err
	}

	log.Println("Mapping statistics:")
	log.Printf("- Total pairs: %d\n", stats.Total)
	log.Printf("- Successfully mapped pairs: %d (%.1f%%)\n", stats.Mapped, stats.Percent)
	log.Printf("- Processing time: %.2f seconds\n", stats.Seconds)
	log.Printf("- Throughput: %.2f pairs/second\n", stats.PerSec)

	if cfg.statsFile != "" {
		if err := writeStats(cfg.statsFile, stats); err != nil {
			return err
		}
	}

	return nil
}

// liftPairs streams rdr through the lifter one chunk at a time, writing
// mappable rows to the output and unmappable rows wherever cfg sends them.
func liftPairs(ctx context.Context, cfg pairsConfig, lifter *lift.Lifter, rdr *pairs.Reader) (lift.Stats, error) {
	var stats lift.Stats

	out, err := openOutput(cfg.outputFile)
	if err != nil {
		return stats, err
	}
	defer out.Close()
	w := pairs.NewWriter(out, rdr.Comma(), rdr.Columns())
	if err := w.WriteHeader(rdr); err != nil {
		return stats, err
	}

	var unmapped *pairs.Writer
	if cfg.outputFile != "" && !cfg.keepUnmappable && !cfg.dropUnmappable {
		uf, err := openOutput(cfg.outputFile + ".unmapped")
		if err != nil {
			return stats, err
		}
		defer uf.Close()
		unmapped = pairs.NewWriter(uf, rdr.Comma(), rdr.Columns())
		if err := unmapped.WriteHeader(rdr); err != nil {
			return stats, err
		}
	}

	bar := newProgressBar(cfg.progress)

	log.Println("Lifting coordinates...")
	started := time.Now()
	read := 0
	for {
		records, err := rdr.ReadChunk(cfg.chunkSize)
		if err == io.EOF {
			break
		} else if err != nil {
			bar.Abort()
			return stats, err
		}
		read += len(records)
		bar.SetTotal(read)

		// Unmappable rows are routed here rather than dropped by LiftTable so
		// that they are still counted.
		results, liftErr := lifter.LiftTable(ctx, records, lift.TableOptions{
			Threads:    cfg.threads,
			OnProgress: bar.Progress(),
		})
		stats.Count(len(results), results)

		for _, res := range results {
			var werr error
			switch {
			case res.Mappable || cfg.keepUnmappable:
				werr = w.Write(res)
			case unmapped != nil:
				werr = unmapped.Write(res)
			}
			if werr != nil {
				bar.Abort()
				return stats, werr
			}
		}

		if liftErr != nil {
			bar.Abort()
			stats.Finish(time.Since(started))
			if err := flushAll(w, unmapped); err != nil {
				return stats, err
			}
			if errors.Is(liftErr, context.Canceled) {
				log.Printf("Interrupted after %d pairs; the output holds the pairs lifted so far\n", stats.Total)
			}
			return stats, liftErr
		}
	}

	bar.Done()
	stats.Finish(time.Since(started))

	if err := flushAll(w, unmapped); err != nil {
		return stats, err
	}
	if unmapped != nil {
		log.Println("Unmappable pairs written to", cfg.outputFile+".unmapped")
	}
	if cfg.outputFile != "" {
		log.Println("Saved output file:", cfg.outputFile)
	}

	return stats, nil
}

func flushAll(writers ...*pairs.Writer) error {
	for _, w := range writers {
		if w == nil {
			continue
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}
