package storage

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanKey(t *testing.T) {
	for in, want := range map[string]string{
		"images/alu.png":      "images/alu.png",
		"/pdfs/notes.pdf":     "pdfs/notes.pdf",
		"images/./x/../a.png": "images/a.png",
	} {
		got, err := CleanKey(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got)
	}
	for _, bad := range []string{"", "..", "../etc/passwd", "images/../../x", `a\b`, "."} {
		_, err := CleanKey(bad)
		require.ErrorIs(t, err, ErrBadKey, bad)
	}
}

func TestFSStorePutGetStat(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	k, err := s.Put("/images/alu.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.Equal(t, "images/alu.png", k)

	info, err := s.Stat("images/alu.png")
	require.NoError(t, err)
	require.EqualValues(t, 9, info.Size)

	rc, err := s.Get("images/alu.png")
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	rc.Close()
	require.Equal(t, "png-bytes", string(b))

	_, err = s.Stat("images")
	require.True(t, errors.Is(err, ErrNotFound))
	_, err = s.Stat("images/missing.png")
	require.True(t, errors.Is(err, ErrNotFound))
	_, err = s.Get("../outside")
	require.ErrorIs(t, err, ErrBadKey)
}
