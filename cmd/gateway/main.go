package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cubic-js/cubic-api/internal/config"
	"github.com/cubic-js/cubic-api/internal/handler"
	"github.com/cubic-js/cubic-api/internal/logger"
	"github.com/cubic-js/cubic-api/internal/worker"
	"github.com/cubic-js/cubic-api/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(buildInfo)

	log := logger.NewLogger("cubic-api")

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	cfg, err := config.GetConfig(os.Args[1:])
	if err != nil && !cfg.BootstrapFromStdin {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	catalog := handler.NewCatalog(handler.NewHandler(buildInfo, log))
	bootstrapper := worker.NewBootstrapper(catalog, log)

	var w *worker.Worker
	if cfg.BootstrapFromStdin {
		log.Info().Int("pid", os.Getpid()).Msg("waiting for configuration on stdin")
		w, err = bootstrapper.Listen(ctx, os.Stdin)
	} else {
		log.Debug().Int("port", cfg.Port).Str("routes", cfg.Routes).Str("events", cfg.Events).Msg("received configs")
		w, err = bootstrapper.Configure(ctx, cfg)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("error bootstrapping worker")
	}

	if err := w.Run(ctx); err != nil {
		log.Error().Err(err).Msg("worker stopped with error")
		os.Exit(1)
	}
}

// printBuildInfo goes to stderr so stdout stays JSON log lines only.
func printBuildInfo(info models.AppBuildInfo) {
	fmt.Fprintf(os.Stderr, "cubic-api %s\n", info)
}
