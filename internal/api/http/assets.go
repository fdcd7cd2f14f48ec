// internal/api/http/assets.go
package http

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/archquiz/internal/storage"
)

const (
	maxUpload = 32 << 20
	sniffLen  = 3072
)

var uploadTypes = []string{"image/png", "image/jpeg", "image/svg+xml", "application/pdf"}

// MountAssets serves blobs read-only: GET /assets/* returns whatever follows
// /assets/.
func MountAssets(r chi.Router, bs storage.BlobStore) {
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		rc, err := bs.Get(key)
		if err != nil {
			status := http.StatusNotFound
			if errors.Is(err, storage.ErrBadKey) {
				status = http.StatusBadRequest
			}
			http.Error(w, "not found", status)
			return
		}
		defer rc.Close()
		if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
			w.Header().Set("Content-Type", ct)
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		if rs, ok := rc.(io.ReadSeeker); ok {
			// range requests let PDF viewers page lazily
			http.ServeContent(w, r, path.Base(key), time.Time{}, rs)
			return
		}
		_, _ = io.Copy(w, rc)
	})
}

// PUT /admin/assets/*  (raw body)
func UploadAssetHandler(bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, err := storage.CleanKey(chi.URLParam(r, "*"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		body := http.MaxBytesReader(w, r.Body, maxUpload)
		head := make([]byte, sniffLen)
		n, err := io.ReadFull(body, head)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if n == 0 {
			http.Error(w, "empty body", http.StatusBadRequest)
			return
		}
		head = head[:n]
		mt := mimetype.Detect(head)
		if !mimetype.EqualsAny(mt.String(), uploadTypes...) {
			http.Error(w, "unsupported type "+mt.String(), http.StatusUnsupportedMediaType)
			return
		}
		k, err := bs.Put(key, io.MultiReader(bytes.NewReader(head), body))
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				http.Error(w, "too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "store error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"key": k, "type": mt.String()})
	}
}
