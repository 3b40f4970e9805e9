// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

// Package main is the entry point for the Wayfinder server.
//
// Wayfinder is an embedded travel recommendation learner: it maintains
// per-user preference profiles, trains a shared weight model from trip
// satisfaction, and composes personalized destination, activity, budget and
// timing recommendations.
//
// The server initializes components in the following order:
//
//  1. Configuration: layered defaults, YAML file, environment (koanf v2)
//  2. Storage: BadgerDB profile store, or in-memory when no path is set
//  3. Learner: feature extractor, weight model, similarity index, composer
//  4. Ingestion: in-process Pub/Sub with per-user training batches
//  5. HTTP server: REST API, health and Prometheus metrics endpoints
//
// Components run under a suture supervisor tree and shut down gracefully on
// SIGINT and SIGTERM: the listener drains in-flight requests, and buffered
// behavior events flush through one final training pass.
//
// Configuration example:
//
//	export WAYFINDER_SERVER_PORT=8080
//	export WAYFINDER_STORAGE_PATH=/var/lib/wayfinder
//	export WAYFINDER_WEATHER_BASE_URL=https://weather.example.com
//	./wayfinder
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/wayfinder/internal/api"
	"github.com/tomtom215/wayfinder/internal/catalog"
	"github.com/tomtom215/wayfinder/internal/config"
	"github.com/tomtom215/wayfinder/internal/ingest"
	"github.com/tomtom215/wayfinder/internal/learner"
	"github.com/tomtom215/wayfinder/internal/logging"
	"github.com/tomtom215/wayfinder/internal/profilestore"
	"github.com/tomtom215/wayfinder/internal/supervisor"
	"github.com/tomtom215/wayfinder/internal/weather"
)

// version is stamped by the build via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Logger().Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	log := logging.Logger()
	log.Info().Str("version", version).Msg("wayfinder starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if path := config.FindConfigFile(); path != "" {
		if werr := config.Watch(path, func() {
			logging.Logger().Info().Str("path", path).Msg("config file changed, restart to apply")
		}); werr != nil {
			log.Warn().Err(werr).Str("path", path).Msg("config watch unavailable")
		}
	}

	store, closeStore, err := openStore(cfg.Storage)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.Storage.SnapshotPath != "" {
		if err := importSnapshot(ctx, store, cfg.Storage.SnapshotPath); err != nil {
			return err
		}
	}

	extractor := learner.NewExtractor(cfg.Learner)
	model := learner.NewWeightModel(cfg.Learner)
	index := learner.NewSimilarityIndex(store, cfg.Learner)
	weatherClient := weather.NewClient(cfg.Weather, *log)
	composer := learner.NewComposer(model, index, catalog.NewStatic(), weatherClient, cfg.Learner, *log)

	svc, err := learner.NewService(ctx, store, extractor, model, composer, *log)
	if err != nil {
		return fmt.Errorf("building learner service: %w", err)
	}

	ingestor := ingest.New(cfg.Ingest, svc, *log)
	defer ingestor.Close() //nolint:errcheck

	handlers := api.NewHandlers(svc, ingestor, version, *log)
	router := api.NewRouter(handlers, api.RouterConfig{
		CORSOrigins: cfg.Server.CORSOrigins,
		RateLimit:   cfg.Server.RateLimit,
	})
	server := api.NewServer(api.ServerConfig{
		Addr:            fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router, *log)

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeCfg)
	tree.AddIngestService(ingestor)
	tree.AddAPIService(server)

	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}

	if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
		for _, us := range report {
			log.Warn().Str("service", us.Name).Msg("service did not stop in time")
		}
	}

	log.Info().Msg("wayfinder stopped")
	return nil
}

// openStore opens the configured profile store. An empty path selects the
// in-memory store, used for tests and ephemeral deployments.
func openStore(cfg config.StorageConfig) (learner.ProfileStore, func(), error) {
	if cfg.Path == "" {
		logging.Logger().Warn().Msg("no storage path configured, profiles will not survive restarts")
		return profilestore.NewMemoryStore(), func() {}, nil
	}

	opts := badger.DefaultOptions(cfg.Path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("opening badger at %s: %w", cfg.Path, err)
	}

	store, err := profilestore.NewBadgerStore(db)
	if err != nil {
		db.Close() //nolint:errcheck
		return nil, nil, fmt.Errorf("initializing profile store: %w", err)
	}

	closeStore := func() {
		if cerr := db.Close(); cerr != nil {
			logging.Logger().Error().Err(cerr).Msg("closing badger")
		}
	}
	return store, closeStore, nil
}

// importSnapshot seeds an empty store from an exported snapshot file.
func importSnapshot(ctx context.Context, store learner.ProfileStore, path string) error {
	profiles, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("checking store before import: %w", err)
	}
	if len(profiles) > 0 {
		logging.Logger().Debug().Int("profiles", len(profiles)).Msg("store not empty, skipping snapshot import")
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening snapshot %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	if err := profilestore.Import(ctx, store, f); err != nil {
		return fmt.Errorf("importing snapshot %s: %w", path, err)
	}
	logging.Logger().Info().Str("path", path).Msg("snapshot imported")
	return nil
}
