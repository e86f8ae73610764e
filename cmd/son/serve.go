package main

import (
	"context"
	"fmt"

	"github.com/kristofer/son/internal/config"
	"github.com/kristofer/son/internal/httpapi"
	"github.com/kristofer/son/internal/logging"
)

// runServe loads an Image from the configured store and serves the HTTP
// surface against that Image's Store — the HTTP handlers operate on
// image.Store, not on the loaded Image's root environment, since each
// request reads or writes the store directly rather than the process's
// in-memory class tables. An Image is not live-updated once loaded.
func runServe(ctx context.Context, cfg config.Config) error {
	img, closer, err := openImage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closer()

	logger := logging.New(logging.ParseLevel(cfg.LogLevel))
	server := httpapi.New(img.Store, logger)

	logger.Info("son: serving", "addr", cfg.Addr)
	fmt.Printf("listening on %s\n", cfg.Addr)
	return server.ListenAndServe(ctx, cfg.Addr)
}
