package main

import (
	"context"
	"fmt"

	"github.com/sora-grayscale/spliit-sub000/internal/config"
	"github.com/sora-grayscale/spliit-sub000/internal/crypto"
	handler "github.com/sora-grayscale/spliit-sub000/internal/handler/http"
	"github.com/sora-grayscale/spliit-sub000/internal/localstore"
	"github.com/sora-grayscale/spliit-sub000/internal/logger"
	"github.com/sora-grayscale/spliit-sub000/internal/server"
	"github.com/sora-grayscale/spliit-sub000/internal/service"
	"github.com/sora-grayscale/spliit-sub000/internal/store"
	"github.com/sora-grayscale/spliit-sub000/internal/workers"
	"github.com/sora-grayscale/spliit-sub000/migrations"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("spliit-crypto-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err := migrations.Migrate(db.DB); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	repo := store.NewGroupKeyRepository(db)

	remember, err := newRememberStore(ctx, cfg.Storage.Local, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error opening local store")
	}

	services := service.NewServices(repo, remember, cfg, log)

	sweepers := workers.NewWorkers(
		workers.NewSweeper("verify-limiter", services.VerifyLimiter, cfg.Workers.SweepInterval, log),
		workers.NewSweeper("decrypt-limiter", services.DecryptLimiter, cfg.Workers.SweepInterval, log),
		workers.NewSweeper("decrypt-cache", services.Cache, cfg.Workers.SweepInterval, log),
	)
	sweepers.Start(ctx)
	defer sweepers.Stop()

	handlers := handler.NewHandler(services, log)

	// Key material must not outlive the process: wipe every session as part
	// of graceful shutdown.
	srv, err := server.NewServer(handlers.Init(), cfg.Server, log, services.Sessions.ClearAll)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

// newRememberStore opens the encrypted local store the service uses for
// remembered passwords: SQLite-backed when a path is configured, in-memory
// otherwise.
func newRememberStore(ctx context.Context, cfg config.Local, log *logger.Logger) (*localstore.Store, error) {
	kv := localstore.NewMemoryKV()
	if cfg.Path != "" {
		var err error
		kv, err = localstore.NewSQLiteKV(ctx, cfg.Path, log)
		if err != nil {
			return nil, err
		}
	}

	return localstore.New(kv, crypto.NewCipherService(), log)
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
