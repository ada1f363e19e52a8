package main

import (
	"fmt"

	"github.com/aromero/farmagestor/internal/config"
	handlerhttp "github.com/aromero/farmagestor/internal/handler/http"
	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/notify"
	"github.com/aromero/farmagestor/internal/repository"
	"github.com/aromero/farmagestor/internal/server"
	"github.com/aromero/farmagestor/internal/service"
	"github.com/aromero/farmagestor/internal/store"
	"github.com/aromero/farmagestor/internal/utils"
	"github.com/aromero/farmagestor/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("farmagestor")
	cfg, err := config.GetConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	storages, err := store.NewStorages(cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	repos := repository.NewRepositories(storages, log)

	clock := utils.NewSystemClock()
	notifier := notify.NewLogNotifier(logger.NewLogger("delivery-worker"))

	worker := notify.NewWorker(
		repos.Notifications,
		repos.Config,
		notifier,
		clock,
		cfg.Workers,
		cfg.App.Version,
		logger.NewLogger("delivery-worker"),
	)

	services := service.NewServices(service.Deps{
		Repos:         repos,
		Config:        cfg,
		Permissions:   notify.StaticPermissions{Decision: notify.PermissionGranted},
		Notifier:      notifier,
		WorkerControl: worker.Control(),
		Clock:         clock,
		Logger:        log,
	})

	backupMonitor := workers.NewBackupMonitor(services.Backup, cfg.Workers, logger.NewLogger("backup-worker"))

	handler := handlerhttp.NewHandler(services, repos, cfg.App, clock, log)

	srv, err := server.NewServer(handler.Init(), workers.NewWorkers(worker, backupMonitor), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
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
