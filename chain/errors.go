package chain

import (
	"errors"
	"fmt"
)

var (
	ErrChainFileNotFound    = errors.New("chain file not found")
	ErrMalformedChainRecord = errors.New("malformed chain record")
)

// MalformedRecordError identifies a chain header line that could not be
// parsed. It matches ErrMalformedChainRecord under errors.Is.
type MalformedRecordError struct {
	Line int // 1-based
	Text string
	Err  error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s at line %d (%q): %v", ErrMalformedChainRecord, e.Line, e.Text, e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedChainRecord
}
