package http

import (
	"github.com/aromero/farmagestor/internal/config"
	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/repository"
	"github.com/aromero/farmagestor/internal/service"
	"github.com/aromero/farmagestor/internal/utils"
)

type Handler struct {
	services *service.Services
	repos    *repository.Repositories
	app      config.App
	ids      *utils.IDGenerator
	clock    utils.Clock

	logger *logger.Logger
}

func NewHandler(services *service.Services, repos *repository.Repositories, app config.App, clock utils.Clock, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		repos:    repos,
		app:      app,
		ids:      utils.NewIDGenerator(),
		clock:    clock,
		logger:   logger,
	}
}
