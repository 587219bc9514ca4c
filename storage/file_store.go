package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"vaccine-slot-scraper/utils"

	"github.com/cockroachdb/errors"
)

// FileStore writes one JSON file per document. pathFormat holds a single
// placeholder replaced by the document key, e.g. "data/output/{}.json".
type FileStore struct {
	pathFormat  string
	placeholder string
}

func NewFileStore(pathFormat, placeholder string) *FileStore {
	return &FileStore{pathFormat: pathFormat, placeholder: placeholder}
}

func (s *FileStore) Name() string { return "file" }

func (s *FileStore) Path(key string) string {
	return strings.Replace(s.pathFormat, s.placeholder, key, 1)
}

// Write replaces each file atomically. Files are independent: a failure part
// way leaves the earlier documents of this run next to older ones.
func (s *FileStore) Write(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		utils.Warn("No documents to write")
		return nil
	}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeAtomic(s.Path(doc.Key), doc.Body); err != nil {
			return errors.Wrapf(err, "write %s", doc.Key)
		}
	}

	utils.Success("Saved %d documents → %s", len(docs), filepath.Dir(s.Path("")))
	return nil
}

func writeAtomic(path string, body []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "could not create output dir")
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "could not create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.Wrap(err, "chmod temp file")
	}
	return errors.Wrap(os.Rename(tmp.Name(), path), "rename into place")
}
