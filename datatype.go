package liftover2d

import (
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"

	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZ
	DataTypeBZip2
)

func (dt DataType) String() string {
	switch dt {
	case DataTypeNoCompression:
		return "plain"
	case DataTypeGzip:
		return "gzip"
	case DataTypeZip:
		return "zip"
	case DataTypeXZ:
		return "xz"
	case DataTypeZ:
		return "compress"
	case DataTypeBZip2:
		return "bzip2"
	}
	return "invalid"
}

var byteCodeSigs = map[DataType][]byte{
	DataTypeGzip:  {0x1f, 0x8b, 0x08},
	DataTypeZip:   {0x50, 0x4b, 0x03, 0x04},
	DataTypeXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	DataTypeZ:     {0x1f, 0x9d},
	DataTypeBZip2: {0x42, 0x5a, 0x68},
}

// DetectDataType sniffs the leading bytes of r for a known compression
// signature. Byte code signatures from
// https://stackoverflow.com/a/19127748/199475
//
// Streams shorter than the longest signature are matched against what is
// available, and an empty stream is reported as uncompressed.
func DetectDataType(r io.Reader) (DataType, error) {
	buff := make([]byte, 6)
	n, err := io.ReadFull(r, buff)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return DataTypeInvalid, err
	}
	buff = buff[:n]

Outer:
	for dt, sig := range byteCodeSigs {
		if len(buff) < len(sig) {
			continue
		}
		for position := range sig {
			if buff[position] != sig[position] {
				continue Outer
			}
		}
		return dt, nil
	}

	return DataTypeNoCompression, nil
}

// MaybeDecompressReadCloser detects the compression of rs and returns a reader
// over the decompressed bytes. rs is rewound before the decompressor is
// attached. Closing the returned reader also closes rs.
func MaybeDecompressReadCloser(rs ReadSeekCloser) (io.ReadCloser, DataType, error) {
	dt, err := DetectDataType(rs)
	if err != nil {
		return nil, dt, err
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, dt, err
	}

	var r io.Reader
	switch dt {
	case DataTypeGzip:
		gz, err := gzip.NewReader(rs)
		if err != nil {
			return nil, dt, err
		}
		return &stackedCloser{Reader: gz, closers: []io.Closer{gz, rs}}, dt, nil
	case DataTypeZ:
		return nil, dt, fmt.Errorf("unix compress (.Z) streams are not supported; recompress with gzip")
	case DataTypeZip:
		// Only the first member of an archive is read.
		zr := zipstream.NewReader(rs)
		if _, err := zr.Next(); err != nil {
			return nil, dt, err
		}
		r = zr
	case DataTypeBZip2:
		r = bzip2.NewReader(rs)
	case DataTypeXZ:
		r, err = xz.NewReader(rs, 0)
		if err != nil {
			return nil, dt, err
		}
	default:
		// No data type detected. For now, we assume this is uncompressed.
		return rs, dt, nil
	}

	return &stackedCloser{Reader: r, closers: []io.Closer{rs}}, dt, nil
}

// stackedCloser closes the decompressor before the source it reads from.
type stackedCloser struct {
	io.Reader
	closers []io.Closer
}

func (c *stackedCloser) Close() error {
	var first error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
