package usecase

import (
	"time"

	"semaforo-srv/internal/alert"
	"semaforo-srv/internal/status"
	"semaforo-srv/internal/status/repository"
	"semaforo-srv/pkg/locker"
	pkgLog "semaforo-srv/pkg/log"
)

// defaultBatchWorkers bounds the recalculation fan-out of one bulk run.
const defaultBatchWorkers = 8

type usecase struct {
	l          pkgLog.Logger
	repo       repository.Repository
	snapshots  status.SnapshotProvider
	configs    status.ConfigProvider
	alertUC    alert.UseCase
	recipients alert.RecipientResolver
	locks      locker.Locker
	workers    int
	now        func() time.Time
}

func New(
	l pkgLog.Logger,
	repo repository.Repository,
	snapshots status.SnapshotProvider,
	configs status.ConfigProvider,
	alertUC alert.UseCase,
	recipients alert.RecipientResolver,
	locks locker.Locker,
	batchWorkers int,
) status.UseCase {
	if batchWorkers <= 0 {
		batchWorkers = defaultBatchWorkers
	}
	return &usecase{
		l:          l,
		repo:       repo,
		snapshots:  snapshots,
		configs:    configs,
		alertUC:    alertUC,
		recipients: recipients,
		locks:      locks,
		workers:    batchWorkers,
		now:        func() time.Time { return time.Now().UTC() },
	}
}
