package services

import (
	"context"
	"log/slog"

	"vaccine-slot-scraper/storage"

	"github.com/cockroachdb/errors"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"golang.org/x/sync/errgroup"
)

// Exporter encodes a report and publishes it to every configured store.
type Exporter struct {
	stores []storage.Store
	logger *slog.Logger
}

func NewExporter(logger *slog.Logger, stores ...storage.Store) *Exporter {
	return &Exporter{stores: stores, logger: logger}
}

// EncodeSnapshot renders a snapshot as indented JSON with sorted map keys.
func EncodeSnapshot(v any) ([]byte, error) {
	return json.Marshal(v, json.Deterministic(true), jsontext.WithIndent("  "))
}

// Documents returns one document per region, in table order, followed by
// the combined info_centres document.
func Documents(ctx context.Context, r Report) ([]storage.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	docs := make([]storage.Document, len(r.Codes)+1)

	var g errgroup.Group
	for i, code := range r.Codes {
		g.Go(func() error {
			body, err := EncodeSnapshot(r.Snapshots[code])
			if err != nil {
				return errors.Wrapf(err, "encode region %s", code)
			}
			docs[i] = storage.Document{Key: code, Body: body}
			return nil
		})
	}
	g.Go(func() error {
		body, err := EncodeSnapshot(r.Snapshots)
		if err != nil {
			return errors.Wrap(err, "encode info_centres")
		}
		docs[len(docs)-1] = storage.Document{Key: storage.InfoCentresKey, Body: body}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Export writes the report to all stores concurrently. The first store
// error is returned once every store has finished.
func (e *Exporter) Export(ctx context.Context, r Report) error {
	docs, err := Documents(ctx, r)
	if err != nil {
		return err
	}

	var g errgroup.Group
	for _, s := range e.stores {
		g.Go(func() error {
			if err := s.Write(ctx, docs); err != nil {
				return errors.Wrapf(err, "store %s", s.Name())
			}
			e.logger.Info("snapshots published", "store", s.Name(), "documents", len(docs))
			return nil
		})
	}
	return g.Wait()
}
