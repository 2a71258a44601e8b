package http

import (
	"semaforo-srv/internal/status"
	pkgLog "semaforo-srv/pkg/log"
)

type Handler struct {
	l  pkgLog.Logger
	uc status.UseCase
}

func New(l pkgLog.Logger, uc status.UseCase) *Handler {
	return &Handler{
		l:  l,
		uc: uc,
	}
}
