package reconcile

import (
	"bytes"
	stderrors "errors"
	"io"

	"github.com/arthur-debert/dirlink/pkg/errors"
	"github.com/arthur-debert/dirlink/pkg/types"
)

const compareChunkSize = 64 * 1024

// ErrCompareLimit is returned by SameContent when both files exceed the
// configured comparison cap and were not read.
var ErrCompareLimit = stderrors.New("file exceeds comparison limit")

// SameContent reports whether the files at a and b hold identical bytes.
// Files of different size are never read. maxBytes > 0 caps the size that
// will be compared; larger files report false with a COMPARE_LIMIT error
// wrapping ErrCompareLimit.
//
// A non-nil error always comes with false: callers treat any failure to
// compare as "not identical".
func SameContent(fsys types.FS, a, b string, maxBytes int64) (bool, error) {
	infoA, err := fsys.Stat(a)
	if err != nil {
		return false, compareErr(err, a)
	}
	infoB, err := fsys.Stat(b)
	if err != nil {
		return false, compareErr(err, b)
	}
	if infoA.Size() != infoB.Size() {
		return false, nil
	}
	if maxBytes > 0 && infoA.Size() > maxBytes {
		return false, errors.Wrapf(ErrCompareLimit, errors.ErrCompareLimit, "%s is %d bytes, over the %d byte limit", a, infoA.Size(), maxBytes).
			WithDetail("path", a).
			WithDetail("size", infoA.Size())
	}

	ra, err := fsys.Open(a)
	if err != nil {
		return false, compareErr(err, a)
	}
	defer func() {
		_ = ra.Close()
	}()

	rb, err := fsys.Open(b)
	if err != nil {
		return false, compareErr(err, b)
	}
	defer func() {
		_ = rb.Close()
	}()

	bufA := make([]byte, compareChunkSize)
	bufB := make([]byte, compareChunkSize)
	for {
		na, errA := io.ReadFull(ra, bufA)
		nb, errB := io.ReadFull(rb, bufB)

		endA := errA == io.EOF || errA == io.ErrUnexpectedEOF
		endB := errB == io.EOF || errB == io.ErrUnexpectedEOF
		if errA != nil && !endA {
			return false, compareErr(errA, a)
		}
		if errB != nil && !endB {
			return false, compareErr(errB, b)
		}

		if na != nb || !bytes.Equal(bufA[:na], bufB[:nb]) {
			return false, nil
		}
		if endA || endB {
			return endA && endB, nil
		}
	}
}

func compareErr(err error, path string) error {
	return errors.Wrapf(err, errors.ErrFileAccess, "failed to compare %s", path).
		WithDetail("path", path)
}
