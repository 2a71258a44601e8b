package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"semaforo-srv/internal/alert"
	"semaforo-srv/internal/model"
)

// testLogger implements log.Logger for testing
type testLogger struct{}

func (m *testLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *testLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *testLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *testLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *testLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *testLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *testLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *testLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *testLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *testLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *testLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *testLogger) Panicf(ctx context.Context, template string, arg ...any)  {}
func (m *testLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *testLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}

type outcome struct {
	alertID string
	success bool
	errMsg  string
}

type reschedule struct {
	alertID string
	delay   time.Duration
}

// fakeScheduler serves one batch of due alerts and records outcomes.
type fakeScheduler struct {
	mu          sync.Mutex
	due         []model.Alert
	outcomes    []outcome
	reschedules []reschedule
	maxRetries  int
}

func (f *fakeScheduler) Enqueue(ctx context.Context, draft alert.Draft) (model.Alert, bool, error) {
	return model.Alert{}, false, nil
}

func (f *fakeScheduler) DueAlerts(ctx context.Context, limit int) ([]model.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	due := f.due
	f.due = nil
	return due, nil
}

func (f *fakeScheduler) RecordOutcome(ctx context.Context, alertID string, success bool, errMsg string) (model.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, outcome{alertID, success, errMsg})

	retries := 0
	for _, o := range f.outcomes {
		if o.alertID == alertID && !o.success {
			retries++
		}
	}
	return model.Alert{
		ID:         alertID,
		State:      model.DeliveryStateError,
		RetryCount: retries,
		MaxRetries: f.maxRetries,
	}, nil
}

func (f *fakeScheduler) Reschedule(ctx context.Context, alertID string, delay time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reschedules = append(f.reschedules, reschedule{alertID, delay})
	return true, nil
}

func (f *fakeScheduler) Ignore(ctx context.Context, alertID string) (model.Alert, error) {
	return model.Alert{}, nil
}

func (f *fakeScheduler) HasLiveAlert(ctx context.Context, dedupKey string, window time.Duration) (bool, error) {
	return false, nil
}

func (f *fakeScheduler) Get(ctx context.Context, ip alert.GetInput) (alert.GetOutput, error) {
	return alert.GetOutput{}, nil
}

func (f *fakeScheduler) CountPending(ctx context.Context) (int, error) { return 0, nil }

func (f *fakeScheduler) CountCreatedSince(ctx context.Context, t time.Time) (int, error) {
	return 0, nil
}

// fakeTransport fails the ids in failIDs, succeeds otherwise.
type fakeTransport struct {
	mu      sync.Mutex
	sent    []string
	failIDs map[string]bool
	block   time.Duration
}

func (f *fakeTransport) Send(ctx context.Context, a model.Alert) error {
	if f.block > 0 {
		select {
		case <-time.After(f.block):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIDs[a.ID] {
		return errors.New("delivery refused")
	}
	f.sent = append(f.sent, a.ID)
	return nil
}

func TestPool_DeliversAndRecordsSuccess(t *testing.T) {
	sched := &fakeScheduler{
		maxRetries: 3,
		due: []model.Alert{
			{ID: "a1", Severity: model.SeverityCritical},
			{ID: "a2", Severity: model.SeverityInfo},
		},
	}
	transport := &fakeTransport{}
	pool := NewPool(&testLogger{}, sched, transport, Options{Workers: 2})

	pool.drain(context.Background())

	if len(transport.sent) != 2 {
		t.Fatalf("sent = %d, want 2", len(transport.sent))
	}
	for _, o := range sched.outcomes {
		if !o.success {
			t.Errorf("outcome for %s: success=false", o.alertID)
		}
	}
}

func TestPool_FailureReschedulesWithBackoff(t *testing.T) {
	sched := &fakeScheduler{
		maxRetries: 3,
		due:        []model.Alert{{ID: "a1", Severity: model.SeverityError}},
	}
	transport := &fakeTransport{failIDs: map[string]bool{"a1": true}}
	pool := NewPool(&testLogger{}, sched, transport, Options{
		Workers:          1,
		RetryBackoffBase: time.Minute,
	})

	pool.drain(context.Background())

	if len(sched.outcomes) != 1 || sched.outcomes[0].success {
		t.Fatalf("outcomes = %+v, want one failure", sched.outcomes)
	}
	if sched.outcomes[0].errMsg == "" {
		t.Error("failure must carry the transport error")
	}
	if len(sched.reschedules) != 1 {
		t.Fatalf("reschedules = %d, want 1", len(sched.reschedules))
	}
	if sched.reschedules[0].delay != time.Minute {
		t.Errorf("first retry delay = %v, want 1m", sched.reschedules[0].delay)
	}
}

func TestPool_ExhaustedIsNotRescheduled(t *testing.T) {
	sched := &fakeScheduler{
		maxRetries: 1,
		due:        []model.Alert{{ID: "a1"}},
	}
	transport := &fakeTransport{failIDs: map[string]bool{"a1": true}}
	pool := NewPool(&testLogger{}, sched, transport, Options{Workers: 1})

	pool.drain(context.Background())

	if len(sched.reschedules) != 0 {
		t.Errorf("reschedules = %d, want 0 after exhaustion", len(sched.reschedules))
	}
}

func TestPool_SendTimeoutBecomesFailure(t *testing.T) {
	sched := &fakeScheduler{
		maxRetries: 3,
		due:        []model.Alert{{ID: "a1"}},
	}
	transport := &fakeTransport{block: 200 * time.Millisecond}
	pool := NewPool(&testLogger{}, sched, transport, Options{
		Workers:     1,
		SendTimeout: 20 * time.Millisecond,
	})

	pool.drain(context.Background())

	if len(sched.outcomes) != 1 || sched.outcomes[0].success {
		t.Fatalf("outcomes = %+v, want one timeout failure", sched.outcomes)
	}
}

func TestPool_Backoff(t *testing.T) {
	pool := NewPool(&testLogger{}, &fakeScheduler{}, &fakeTransport{}, Options{
		RetryBackoffBase: time.Minute,
	})

	tests := []struct {
		retryCount int
		want       time.Duration
	}{
		{1, time.Minute},
		{2, 2 * time.Minute},
		{3, 4 * time.Minute},
		{4, 8 * time.Minute},
	}
	for _, tc := range tests {
		if got := pool.backoff(tc.retryCount); got != tc.want {
			t.Errorf("backoff(%d) = %v, want %v", tc.retryCount, got, tc.want)
		}
	}
}
