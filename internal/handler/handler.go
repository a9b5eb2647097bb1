package handler

import (
	"github.com/cubic-js/cubic-api/internal/logger"
	"github.com/cubic-js/cubic-api/internal/validators"
	"github.com/cubic-js/cubic-api/models"
)

// Handler serves the built-in routes and events.
type Handler struct {
	buildInfo     models.AppBuildInfo
	pushValidator validators.Validator

	logger *logger.Logger
}

func NewHandler(buildInfo models.AppBuildInfo, logger *logger.Logger) *Handler {
	logger.Info().Msg("handler created")
	return &Handler{
		buildInfo:     buildInfo,
		pushValidator: validators.NewPushValidator(),
		logger:        logger,
	}
}
