package usecase

import (
	"context"
	"sync"

	"semaforo-srv/internal/model"
	"semaforo-srv/internal/status"
)

func (uc *usecase) RecalculateBatch(ctx context.Context, filter status.BatchFilter) (status.BatchStats, error) {
	snaps, err := uc.snapshots.ListCampaignSnapshots(ctx)
	if err != nil {
		uc.l.Errorf(ctx, "internal.status.usecase.RecalculateBatch.ListCampaignSnapshots: %v", err)
		return status.BatchStats{}, err
	}

	var matched []model.CampaignSnapshot
	for _, snap := range snaps {
		if filter.Matches(snap) {
			matched = append(matched, snap)
		}
	}

	var (
		mu    sync.Mutex
		stats status.BatchStats
		wg    sync.WaitGroup
	)
	ids := make(chan string)

	// Items a worker already picked up run to completion even when ctx is
	// cancelled mid-flight; only the feed loop observes cancellation.
	itemCtx := context.WithoutCancel(ctx)

	for i := 0; i < uc.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range ids {
				outcome, err := uc.recalculate(itemCtx, id, strPtr("batch_run"))

				mu.Lock()
				stats.Processed++
				if err != nil {
					stats.Errors++
					mu.Unlock()
					continue
				}
				if outcome.Created {
					stats.Created++
				} else {
					stats.Updated++
				}
				if outcome.Transitioned {
					stats.ColorChanged++
				}
				if outcome.AlertGenerated {
					stats.AlertsGenerated++
				}
				mu.Unlock()
			}
		}()
	}

	// Cancellation stops feeding new ids; items already picked up finish.
feed:
	for _, snap := range matched {
		select {
		case ids <- snap.ID:
		case <-ctx.Done():
			break feed
		}
	}
	close(ids)
	wg.Wait()

	uc.l.Infof(ctx, "internal.status.usecase.RecalculateBatch: processed=%d created=%d updated=%d colorChanged=%d alerts=%d errors=%d",
		stats.Processed, stats.Created, stats.Updated, stats.ColorChanged, stats.AlertsGenerated, stats.Errors)

	return stats, ctx.Err()
}

func strPtr(s string) *string {
	return &s
}
