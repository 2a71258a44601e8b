package usecase

import (
	"time"

	"semaforo-srv/internal/alert"
	"semaforo-srv/internal/alert/repository"
	pkgLog "semaforo-srv/pkg/log"
)

// claimLease is how long a claimed due alert stays invisible to other
// dispatch workers before it can be picked up again.
const claimLease = 2 * time.Minute

type usecase struct {
	l    pkgLog.Logger
	repo repository.Repository
	now  func() time.Time
}

func New(l pkgLog.Logger, repo repository.Repository) alert.UseCase {
	return &usecase{
		l:    l,
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}
