package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
	liftover2d "github.com/heilcheng/liftover-2d"
	"github.com/heilcheng/liftover-2d/chain"
	"github.com/heilcheng/liftover-2d/pairs"
)

func initIndex(chainFile string) (*chain.Index, error) {
	if chainFile == "" {
		log.Println("No chain file given; using the synthetic demonstration index")
		return chain.BuildDefaultSynthetic(), nil
	}

	log.Println("Loading chain file:", chainFile)
	ix, err := chain.Open(chainFile, client)
	if err != nil {
		return nil, err
	}
	log.Printf("Indexed %d chain blocks across %d chromosomes\n", ix.Len(), len(ix.Chromosomes()))

	return ix, nil
}

func parseDelimiter(delimiter string) (rune, bool, error) {
	switch strings.ToLower(delimiter) {
	case "auto", "":
		return 0, true, nil
	case "tab", `\t`:
		return '\t', false, nil
	case "comma", ",":
		return ',', false, nil
	case "space", " ":
		return ' ', false, nil
	}
	if r := []rune(delimiter); len(r) == 1 {
		return r[0], false, nil
	}
	return 0, false, fmt.Errorf("Unrecognized delimiter %q", delimiter)
}

// initInputFile opens a pair table. With delimiter "auto", 4DN .pairs files
// are taken to be tab-delimited and anything else is sniffed.
func initInputFile(inputFile, delimiter string) (*pairs.Reader, io.Closer, error) {
	comma, detect, err := parseDelimiter(delimiter)
	if err != nil {
		return nil, nil, err
	}

	if detect && strings.Contains(filepath.Base(inputFile), ".pairs") {
		comma, detect = '\t', false
	}

	if detect {
		r, _, err := liftover2d.OpenMaybeCompressed(inputFile, client)
		if err != nil {
			return nil, nil, err
		}
		comma = liftover2d.DetermineDelimiter(r)
		r.Close()
	}

	// The decompressed stream cannot seek, so sniffing costs a second open.
	r, _, err := liftover2d.OpenMaybeCompressed(inputFile, client)
	if err != nil {
		return nil, nil, err
	}

	rdr, err := pairs.NewReader(bufio.NewReader(r), comma)
	if err != nil {
		r.Close()
		return nil, nil, pfx.Err(fmt.Errorf("%s: %w", inputFile, err))
	}

	return rdr, r, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// openOutput opens path for writing, or stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.OpenFile(liftover2d.ExpandHome(path), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
}
