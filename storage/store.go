package storage

import "context"

// InfoCentresKey names the combined document holding every region snapshot.
const InfoCentresKey = "info_centres"

// Document is one encoded snapshot ready to be published under Key.
type Document struct {
	Key  string
	Body []byte
}

// Store publishes documents. Each document fully replaces the previous
// version stored under the same key.
type Store interface {
	Name() string
	Write(ctx context.Context, docs []Document) error
}
