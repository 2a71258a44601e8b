package dispatch

import (
	"context"
	"sync"
	"time"

	"semaforo-srv/internal/alert"
	"semaforo-srv/internal/model"
	pkgLog "semaforo-srv/pkg/log"
)

// Options tunes one dispatch pool.
type Options struct {
	Workers          int
	PollInterval     time.Duration
	SendTimeout      time.Duration
	DueBatchLimit    int
	RetryBackoffBase time.Duration
}

func (o *Options) defaults() {
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.PollInterval <= 0 {
		o.PollInterval = 30 * time.Second
	}
	if o.SendTimeout <= 0 {
		o.SendTimeout = 10 * time.Second
	}
	if o.DueBatchLimit <= 0 {
		o.DueBatchLimit = 50
	}
	if o.RetryBackoffBase <= 0 {
		o.RetryBackoffBase = time.Minute
	}
}

// Pool polls the scheduler for due alerts and fans them out to transport
// workers. Every outcome is recorded; failed sends with retries left are
// rescheduled with exponential backoff.
type Pool struct {
	l         pkgLog.Logger
	alerts    alert.UseCase
	transport Transport
	opts      Options
}

func NewPool(l pkgLog.Logger, alerts alert.UseCase, transport Transport, opts Options) *Pool {
	opts.defaults()
	return &Pool{
		l:         l,
		alerts:    alerts,
		transport: transport,
		opts:      opts,
	}
}

// Run blocks until ctx is cancelled. In-flight sends finish before return.
func (p *Pool) Run(ctx context.Context) {
	ticker := time.NewTicker(p.opts.PollInterval)
	defer ticker.Stop()

	p.l.Infof(ctx, "internal.dispatch.Pool.Run: started workers=%d poll=%s", p.opts.Workers, p.opts.PollInterval)

	for {
		p.drain(ctx)

		select {
		case <-ticker.C:
		case <-ctx.Done():
			p.l.Infof(ctx, "internal.dispatch.Pool.Run: stopping")
			return
		}
	}
}

// drain claims and delivers one batch of due alerts.
func (p *Pool) drain(ctx context.Context) {
	due, err := p.alerts.DueAlerts(ctx, p.opts.DueBatchLimit)
	if err != nil {
		p.l.Errorf(ctx, "internal.dispatch.Pool.drain: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}

	jobs := make(chan model.Alert)
	var wg sync.WaitGroup
	for i := 0; i < p.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for a := range jobs {
				p.deliver(ctx, a)
			}
		}()
	}

	for _, a := range due {
		select {
		case jobs <- a:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		}
	}
	close(jobs)
	wg.Wait()
}

func (p *Pool) deliver(ctx context.Context, a model.Alert) {
	sendCtx, cancel := context.WithTimeout(ctx, p.opts.SendTimeout)
	err := p.transport.Send(sendCtx, a)
	cancel()

	if err == nil {
		if _, err := p.alerts.RecordOutcome(ctx, a.ID, true, ""); err != nil {
			p.l.Errorf(ctx, "internal.dispatch.Pool.deliver.RecordOutcome: %v", err)
		}
		return
	}

	p.l.Warnf(ctx, "internal.dispatch.Pool.deliver: alert %s failed: %v", a.ID, err)
	failed, recErr := p.alerts.RecordOutcome(ctx, a.ID, false, err.Error())
	if recErr != nil {
		p.l.Errorf(ctx, "internal.dispatch.Pool.deliver.RecordOutcome: %v", recErr)
		return
	}

	if failed.RetriesExhausted() {
		p.l.Warnf(ctx, "internal.dispatch.Pool.deliver: alert %s exhausted %d retries, last error kept for operators",
			failed.ID, failed.MaxRetries)
		return
	}

	delay := p.backoff(failed.RetryCount)
	if _, err := p.alerts.Reschedule(ctx, failed.ID, delay); err != nil {
		p.l.Errorf(ctx, "internal.dispatch.Pool.deliver.Reschedule: %v", err)
	}
}

// backoff doubles per attempt: base, 2*base, 4*base, ...
func (p *Pool) backoff(retryCount int) time.Duration {
	d := p.opts.RetryBackoffBase
	for i := 1; i < retryCount; i++ {
		d *= 2
	}
	return d
}
