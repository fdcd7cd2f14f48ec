// Package assets turns the symbolic image and document keys used by the
// question bank into handles the browser can fetch.
package assets

import (
	"context"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/mind-engage/archquiz/internal/storage"
)

const (
	ImagePrefix = "images/"
	ImageExt    = ".png"
)

type Handle struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// Resolver looks keys up in a blob store. Lookups that fail are logged and
// reported as absent; callers render nothing in that case.
type Resolver struct {
	Store   storage.BlobStore
	BaseURL string // public prefix the blobs are served under, e.g. "/assets"
	Logger  *slog.Logger
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// ImageKey maps a bank image key to its blob key.
func ImageKey(key string) string {
	key = strings.TrimSpace(key)
	if path.Ext(key) == "" {
		key += ImageExt
	}
	return ImagePrefix + key
}

func (r *Resolver) Image(ctx context.Context, key string) (Handle, bool) {
	if key == "" {
		return Handle{}, false
	}
	return r.resolve(ctx, ImageKey(key))
}

// Images resolves every key and keeps the ones found, in order.
func (r *Resolver) Images(ctx context.Context, keys []string) []Handle {
	out := make([]Handle, 0, len(keys))
	for _, k := range keys {
		if h, ok := r.Image(ctx, k); ok {
			out = append(out, h)
		}
	}
	return out
}

// Document resolves a PDF by its blob key.
func (r *Resolver) Document(ctx context.Context, file string) (Handle, bool) {
	return r.resolve(ctx, file)
}

// ImageExists and DocumentExists suit bank.Validate.
func (r *Resolver) ImageExists(key string) bool {
	_, ok := r.Image(context.Background(), key)
	return ok
}

func (r *Resolver) DocumentExists(file string) bool {
	_, ok := r.Document(context.Background(), file)
	return ok
}

func (r *Resolver) resolve(ctx context.Context, blobKey string) (Handle, bool) {
	if r == nil || r.Store == nil {
		return Handle{}, false
	}
	if err := ctx.Err(); err != nil {
		return Handle{}, false
	}
	info, err := r.Store.Stat(blobKey)
	if err != nil {
		r.logger().Warn("asset unavailable", "key", blobKey, "err", err)
		return Handle{}, false
	}
	return Handle{Key: info.Key, URL: r.url(info.Key), Size: info.Size}, true
}

func (r *Resolver) url(key string) string {
	base := strings.TrimSuffix(r.BaseURL, "/")
	if base == "" {
		base = "/assets"
	}
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return base + "/" + strings.Join(parts, "/")
}
