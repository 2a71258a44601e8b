package http

import (
	"semaforo-srv/internal/alert"
	pkgLog "semaforo-srv/pkg/log"
)

type Handler struct {
	l  pkgLog.Logger
	uc alert.UseCase
}

func New(l pkgLog.Logger, uc alert.UseCase) *Handler {
	return &Handler{
		l:  l,
		uc: uc,
	}
}
