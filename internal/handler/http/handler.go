package http

import (
	"github.com/sora-grayscale/spliit-sub000/internal/logger"
	"github.com/sora-grayscale/spliit-sub000/internal/service"
)

type Handler struct {
	services *service.Services

	logger *logger.Logger
}

func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		logger:   logger,
	}
}
