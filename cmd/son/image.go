package main

import (
	"context"
	"fmt"

	"github.com/kristofer/son/internal/config"
	"github.com/kristofer/son/internal/store/memstore"
	"github.com/kristofer/son/internal/store/sqlite3"
	"github.com/kristofer/son/pkg/image"
)

// openImage builds a store from cfg (SQLite if a datasource is
// configured, otherwise the in-memory store) and loads an Image from
// it. The returned closer releases any store resources and should be
// deferred by the caller.
func openImage(ctx context.Context, cfg config.Config) (*image.Image, func(), error) {
	var store image.Store
	closer := func() {}

	if cfg.Datasource != "" {
		sqliteStore, err := sqlite3.New(ctx, cfg.Datasource)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		store = sqliteStore
		closer = sqliteStore.Close
	} else {
		store = memstore.New(nil)
	}

	img, err := image.Load(ctx, store)
	if err != nil {
		closer()
		return nil, nil, fmt.Errorf("load image: %w", err)
	}
	return img, closer, nil
}
