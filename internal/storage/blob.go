package storage

import (
	"errors"
	"io"
	"io/fs"
)

var (
	ErrBadKey   = errors.New("invalid blob key")
	ErrNotFound = fs.ErrNotExist
)

type Info struct {
	Key  string
	Size int64
}

type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	Stat(key string) (Info, error)
}
