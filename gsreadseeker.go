package liftover2d

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

type ReadSeekCloser interface {
	io.Reader
	io.Seeker
	io.Closer
}

// Decorates a Google Storage object handle with io.Reader, io.Seeker and
// io.Closer. Derived from
// https://github.com/googleapis/google-cloud-go/issues/1124#issuecomment-419070541
type GSReadSeekCloser struct {
	*storage.ObjectHandle
	Context context.Context
	r       *storage.Reader
	offset  int64
}

func (s *GSReadSeekCloser) Read(buf []byte) (int, error) {
	if s.r == nil {
		var err error
		s.r, err = s.NewRangeReader(s.Context, s.offset, -1)
		if err != nil {
			return 0, err
		}
	}
	n, err := s.r.Read(buf)
	s.offset += int64(n)
	return n, err
}

// Seek only supports rewinding or reporting the current offset. Seeking is
// emulated by dropping the open range reader; the next Read opens a new one.
func (s *GSReadSeekCloser) Seek(offset int64, whence int) (int64, error) {
	var newOffset int64

	switch whence {
	case io.SeekStart:
		newOffset = offset
	case io.SeekCurrent:
		newOffset = s.offset + offset
	default:
		return 0, fmt.Errorf("io.Seeker 'whence' value %d is not implemented", whence)
	}

	if newOffset == s.offset && s.r != nil {
		return s.offset, nil
	}

	if s.r != nil {
		s.r.Close()
		s.r = nil
	}
	s.offset = newOffset

	return s.offset, nil
}

func (s *GSReadSeekCloser) Close() error {
	if s.r == nil {
		return nil
	}
	err := s.r.Close()
	s.r = nil
	return err
}

// IsGoogleStoragePath reports whether path names an object in a bucket.
func IsGoogleStoragePath(path string) bool {
	return strings.HasPrefix(path, "gs://")
}

// MaybeOpenSeekerFromGoogleStorage opens path either from Google Storage (when
// it begins with gs:// and client is non-nil) or from the local filesystem.
// Local open errors are returned unwrapped so callers can test them with
// os.IsNotExist.
func MaybeOpenSeekerFromGoogleStorage(path string, client *storage.Client) (ReadSeekCloser, int64, error) {
	if client != nil && IsGoogleStoragePath(path) {
		pathParts := strings.SplitN(strings.TrimPrefix(path, "gs://"), "/", 2)
		if len(pathParts) != 2 {
			return nil, 0, fmt.Errorf("Tried to split your google storage path into 2 parts, but got %d: %v", len(pathParts), pathParts)
		}
		bucketName := pathParts[0]
		pathName := pathParts[1]

		handle := client.Bucket(bucketName).Object(pathName)

		wrappedHandle := &GSReadSeekCloser{
			ObjectHandle: handle,
			Context:      context.Background(),
		}

		attrs, err := wrappedHandle.ObjectHandle.Attrs(wrappedHandle.Context)
		if err == storage.ErrObjectNotExist {
			return nil, 0, os.ErrNotExist
		} else if err != nil {
			return nil, 0, pfx.Err(fmt.Errorf("%s: %s", path, err))
		}

		return wrappedHandle, attrs.Size, nil
	}

	f, err := os.Open(ExpandHome(path))
	if err != nil {
		return nil, 0, err
	}
	fstat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, fstat.Size(), nil
}

// OpenMaybeCompressed opens a local or gs:// path and transparently
// decompresses it. The returned DataType reports what was detected.
func OpenMaybeCompressed(path string, client *storage.Client) (io.ReadCloser, DataType, error) {
	f, _, err := MaybeOpenSeekerFromGoogleStorage(path, client)
	if err != nil {
		return nil, DataTypeInvalid, err
	}

	r, dt, err := MaybeDecompressReadCloser(f)
	if err != nil {
		f.Close()
		return nil, dt, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return r, dt, nil
}
