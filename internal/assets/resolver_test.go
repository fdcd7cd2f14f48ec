package assets_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mind-engage/archquiz/internal/assets"
	"github.com/mind-engage/archquiz/internal/storage"
)

func newResolver(t *testing.T) (*assets.Resolver, *bytes.Buffer) {
	t.Helper()
	fs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)
	_, err = fs.Put("images/pipeline.png", strings.NewReader("img"))
	require.NoError(t, err)
	_, err = fs.Put("pdfs/lab guide.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)

	var logs bytes.Buffer
	return &assets.Resolver{
		Store:   fs,
		BaseURL: "/assets/",
		Logger:  slog.New(slog.NewTextHandler(&logs, nil)),
	}, &logs
}

func TestImage(t *testing.T) {
	r, logs := newResolver(t)
	ctx := context.Background()

	h, ok := r.Image(ctx, "pipeline")
	require.True(t, ok)
	require.Equal(t, "images/pipeline.png", h.Key)
	require.Equal(t, "/assets/images/pipeline.png", h.URL)
	require.EqualValues(t, 3, h.Size)

	_, ok = r.Image(ctx, "cache")
	require.False(t, ok)
	require.Contains(t, logs.String(), "asset unavailable")

	_, ok = r.Image(ctx, "")
	require.False(t, ok)
}

func TestImagesKeepsFound(t *testing.T) {
	r, _ := newResolver(t)
	hs := r.Images(context.Background(), []string{"missing", "pipeline"})
	require.Len(t, hs, 1)
	require.Equal(t, "images/pipeline.png", hs[0].Key)
}

func TestDocumentEscapesURL(t *testing.T) {
	r, _ := newResolver(t)
	h, ok := r.Document(context.Background(), "pdfs/lab guide.pdf")
	require.True(t, ok)
	require.Equal(t, "/assets/pdfs/lab%20guide.pdf", h.URL)
	require.True(t, r.DocumentExists("pdfs/lab guide.pdf"))
	require.False(t, r.ImageExists("nope"))
}

func TestNilStore(t *testing.T) {
	var r *assets.Resolver
	_, ok := r.Image(context.Background(), "x")
	require.False(t, ok)
}
