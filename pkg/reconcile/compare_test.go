package reconcile_test

import (
	"bytes"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dirlink/pkg/errors"
	"github.com/arthur-debert/dirlink/pkg/reconcile"
	"github.com/arthur-debert/dirlink/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameContent(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	// Larger than one read chunk, differing only in the last byte
	big := bytes.Repeat([]byte("m"), 200*1024)
	bigOther := append(bytes.Repeat([]byte("m"), 200*1024-1), 'n')

	tests := []struct {
		name     string
		a, b     []byte
		maxBytes int64
		want     bool
		limitErr bool
	}{
		{name: "identical", a: []byte("X"), b: []byte("X"), want: true},
		{name: "different content same size", a: []byte("X"), b: []byte("Y"), want: false},
		{name: "different size", a: []byte("X"), b: []byte("XX"), want: false},
		{name: "both empty", a: []byte{}, b: []byte{}, want: true},
		{name: "identical across chunks", a: big, b: big, want: true},
		{name: "differs in last chunk", a: big, b: bigOther, want: false},
		{name: "over the cap", a: []byte("12345"), b: []byte("12345"), maxBytes: 4, want: false, limitErr: true},
		{name: "at the cap", a: []byte("1234"), b: []byte("1234"), maxBytes: 4, want: true},
		{name: "cap ignored for different sizes", a: []byte("12345"), b: []byte("123456"), maxBytes: 4, want: false},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(env.Root, "cmp", string(rune('a'+i)))
			env.Mkdir(dir)
			a := filepath.Join(dir, "a")
			b := filepath.Join(dir, "b")
			require.NoError(t, env.FS.WriteFile(a, tt.a, 0644))
			require.NoError(t, env.FS.WriteFile(b, tt.b, 0644))

			same, err := reconcile.SameContent(env.FS, a, b, tt.maxBytes)
			assert.Equal(t, tt.want, same)
			if tt.limitErr {
				assert.ErrorIs(t, err, reconcile.ErrCompareLimit)
				assert.True(t, errors.IsErrorCode(err, errors.ErrCompareLimit))
				assert.Equal(t, a, errors.GetErrorDetails(err)["path"])
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSameContent_ErrorsReportNotIdentical(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	a := filepath.Join(env.Root, "a")
	b := filepath.Join(env.Root, "b")
	env.WriteFile(a, "same")
	env.WriteFile(b, "same")

	same, err := reconcile.SameContent(env.FS, a, filepath.Join(env.Root, "missing"), 0)
	assert.Error(t, err)
	assert.False(t, same)

	failing := testutil.NewFailingFS(env.FS).WithError("Open", b, fs.ErrPermission)
	same, err = reconcile.SameContent(failing, a, b, 0)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileAccess))
	assert.Equal(t, b, errors.GetErrorDetails(err)["path"])
	assert.False(t, same)
}
