package chain

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	liftover2d "github.com/heilcheng/liftover-2d"
)

// A header is
//
//	chain score tName tSize tStrand tStart tEnd qName qSize qStrand qStart qEnd [id]
//
// where the first coordinate group is the source assembly and the second the
// target.
const (
	colKeyword = iota
	colScore
	colSourceChrom
	colSourceSize
	colSourceStrand
	colSourceStart
	colSourceEnd
	colTargetChrom
	colTargetSize
	colTargetStrand
	colTargetStart
	colTargetEnd
	colChainID

	minHeaderFields = colChainID
)

// FromFile builds an Index from a local chain file, which may be compressed.
func FromFile(path string) (*Index, error) {
	return Open(path, nil)
}

// Open builds an Index from a local path, or from a gs:// object when client
// is non-nil. Compression is detected from the content.
func Open(path string, client *storage.Client) (*Index, error) {
	r, _, err := liftover2d.OpenMaybeCompressed(path, client)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrChainFileNotFound, path)
	} else if err != nil {
		return nil, pfx.Err(err)
	}
	defer r.Close()

	ix, err := Read(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return ix, nil
}

// Read parses chain data from r. Only header lines are used; alignment lines
// and anything else not starting with the "chain" token are skipped. Any
// malformed header aborts the load and no index is returned.
func Read(r io.Reader) (*Index, error) {
	ix := newIndex()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		// Headers start at the first column; indented lines are not headers.
		if !strings.HasPrefix(line, "chain") {
			continue
		}
		fields := strings.Fields(line)
		if fields[colKeyword] != "chain" {
			continue
		}

		b, err := parseHeader(fields)
		if err == nil {
			err = ix.insert(b)
		}
		if err != nil {
			return nil, &MalformedRecordError{Line: lineNo, Text: line, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, pfx.Err(err)
	}

	return ix.seal(), nil
}

func parseHeader(fields []string) (*Block, error) {
	if len(fields) < minHeaderFields {
		return nil, fmt.Errorf("expected at least %d fields, found %d", minHeaderFields, len(fields))
	}

	score, err := strconv.ParseInt(fields[colScore], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("score: %w", err)
	}

	b := &Block{
		SourceChrom: fields[colSourceChrom],
		TargetChrom: fields[colTargetChrom],
		Score:       score,
	}

	// Sizes are validated but not kept.
	var sourceSize, targetSize int
	for _, f := range []struct {
		col int
		dst *int
	}{
		{colSourceSize, &sourceSize},
		{colSourceStart, &b.SourceStart},
		{colSourceEnd, &b.SourceEnd},
		{colTargetSize, &targetSize},
		{colTargetStart, &b.TargetStart},
		{colTargetEnd, &b.TargetEnd},
	} {
		v, err := strconv.Atoi(fields[f.col])
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", f.col+1, err)
		}
		*f.dst = v
	}

	if len(fields) > colChainID {
		b.ChainID = fields[colChainID]
	}

	return b, nil
}
