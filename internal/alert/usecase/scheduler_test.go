package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"semaforo-srv/internal/alert"
	"semaforo-srv/internal/alert/repository"
	"semaforo-srv/internal/model"
	"semaforo-srv/pkg/paginator"
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

var schedulerNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// fakeRepository is an in-memory repository implementing the delivery state
// machine with the same guards as the SQL layer.
type fakeRepository struct {
	alerts map[string]model.Alert
	nextID int

	createCalls []repository.CreateOptions
	claimCalls  []repository.ClaimOptions
	failWith    error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{alerts: map[string]model.Alert{}}
}

func (f *fakeRepository) put(a model.Alert) model.Alert {
	if a.ID == "" {
		f.nextID++
		a.ID = string(rune('a' + f.nextID - 1))
	}
	f.alerts[a.ID] = a
	return a
}

func (f *fakeRepository) Detail(ctx context.Context, id string) (model.Alert, error) {
	a, ok := f.alerts[id]
	if !ok {
		return model.Alert{}, repository.ErrNotFound
	}
	return a, nil
}

func (f *fakeRepository) Create(ctx context.Context, opts repository.CreateOptions) (model.Alert, bool, error) {
	if f.failWith != nil {
		return model.Alert{}, false, f.failWith
	}
	f.createCalls = append(f.createCalls, opts)
	for _, a := range f.alerts {
		if a.DedupKey == opts.DedupKey && a.State.IsLive() && !a.CreatedAt.Before(opts.DedupSince) {
			return a, false, nil
		}
	}
	a := f.put(model.Alert{
		CampaignID:   opts.CampaignID,
		DedupKey:     opts.DedupKey,
		Type:         opts.Type,
		Severity:     opts.Severity,
		Title:        opts.Title,
		Body:         opts.Body,
		State:        model.DeliveryStatePending,
		ScheduledFor: opts.ScheduledFor,
		MaxRetries:   opts.MaxRetries,
		ExpiresAt:    opts.ExpiresAt,
		Recipients:   opts.Recipients,
		CreatedAt:    schedulerNow,
		UpdatedAt:    schedulerNow,
	})
	return a, true, nil
}

func (f *fakeRepository) FindLive(ctx context.Context, dedupKey string, since time.Time) (model.Alert, error) {
	for _, a := range f.alerts {
		if a.DedupKey == dedupKey && a.State.IsLive() && !a.CreatedAt.Before(since) {
			return a, nil
		}
	}
	return model.Alert{}, repository.ErrNotFound
}

func (f *fakeRepository) ClaimDue(ctx context.Context, opts repository.ClaimOptions) ([]model.Alert, error) {
	f.claimCalls = append(f.claimCalls, opts)
	var due []model.Alert
	for _, a := range f.alerts {
		if a.State == model.DeliveryStatePending && !a.ScheduledFor.After(opts.Now) {
			due = append(due, a)
		}
		if len(due) == opts.Limit {
			break
		}
	}
	return due, nil
}

func (f *fakeRepository) MarkSent(ctx context.Context, id string, at time.Time) (model.Alert, error) {
	a, ok := f.alerts[id]
	if !ok {
		return model.Alert{}, repository.ErrNotFound
	}
	if a.State != model.DeliveryStatePending {
		return model.Alert{}, repository.ErrStaleState
	}
	a.State = model.DeliveryStateSent
	a.SentAt = &at
	f.alerts[id] = a
	return a, nil
}

func (f *fakeRepository) MarkFailed(ctx context.Context, id string, errMsg string) (model.Alert, error) {
	a, ok := f.alerts[id]
	if !ok {
		return model.Alert{}, repository.ErrNotFound
	}
	if a.State != model.DeliveryStatePending {
		return model.Alert{}, repository.ErrStaleState
	}
	a.State = model.DeliveryStateError
	a.RetryCount++
	a.LastError = &errMsg
	f.alerts[id] = a
	return a, nil
}

func (f *fakeRepository) MarkIgnored(ctx context.Context, id string) (model.Alert, error) {
	a, ok := f.alerts[id]
	if !ok {
		return model.Alert{}, repository.ErrNotFound
	}
	if a.State != model.DeliveryStatePending && a.State != model.DeliveryStateError {
		return model.Alert{}, repository.ErrStaleState
	}
	a.State = model.DeliveryStateIgnored
	f.alerts[id] = a
	return a, nil
}

func (f *fakeRepository) Reschedule(ctx context.Context, id string, at time.Time) (model.Alert, bool, error) {
	a, ok := f.alerts[id]
	if !ok {
		return model.Alert{}, false, nil
	}
	if a.State != model.DeliveryStateError || a.RetriesExhausted() || a.Expired(schedulerNow) {
		return model.Alert{}, false, nil
	}
	a.State = model.DeliveryStatePending
	a.ScheduledFor = at
	f.alerts[id] = a
	return a, true, nil
}

func (f *fakeRepository) Get(ctx context.Context, opts repository.GetOptions) ([]model.Alert, paginator.Paginator, error) {
	var out []model.Alert
	for _, a := range f.alerts {
		if opts.Filter.State != "" && a.State != opts.Filter.State {
			continue
		}
		if opts.Filter.ExhaustedOnly && !(a.State == model.DeliveryStateError && a.RetriesExhausted()) {
			continue
		}
		out = append(out, a)
	}
	return out, paginator.New(opts.PaginateQuery, int64(len(out)), len(out)), nil
}

func (f *fakeRepository) CountByState(ctx context.Context, state model.DeliveryState) (int, error) {
	count := 0
	for _, a := range f.alerts {
		if a.State == state {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepository) CountCreatedSince(ctx context.Context, t time.Time) (int, error) {
	count := 0
	for _, a := range f.alerts {
		if !a.CreatedAt.Before(t) {
			count++
		}
	}
	return count, nil
}

func newTestUseCase(repo repository.Repository) alert.UseCase {
	uc := New(&testLogger{}, repo).(*usecase)
	uc.now = func() time.Time { return schedulerNow }
	return uc
}

func TestEnqueue_Defaults(t *testing.T) {
	repo := newFakeRepository()
	uc := newTestUseCase(repo)

	a, created, err := uc.Enqueue(context.Background(), alert.Draft{
		DedupKey: "camp-1:criticalState",
		Type:     model.AlertTypeCriticalState,
		Severity: model.SeverityCritical,
		Title:    "t",
		Body:     "b",
	})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if !created {
		t.Fatal("expected a new alert")
	}
	if a.MaxRetries != model.DefaultMaxRetries {
		t.Errorf("MaxRetries = %d, want %d", a.MaxRetries, model.DefaultMaxRetries)
	}
	if !a.ScheduledFor.Equal(schedulerNow) {
		t.Errorf("ScheduledFor = %v, want now", a.ScheduledFor)
	}

	opts := repo.createCalls[0]
	wantSince := schedulerNow.Add(-alert.DedupWindow)
	if !opts.DedupSince.Equal(wantSince) {
		t.Errorf("DedupSince = %v, want %v", opts.DedupSince, wantSince)
	}
}

func TestEnqueue_DedupReturnsExisting(t *testing.T) {
	repo := newFakeRepository()
	uc := newTestUseCase(repo)

	draft := alert.Draft{
		DedupKey: "camp-1:criticalState",
		Type:     model.AlertTypeCriticalState,
		Severity: model.SeverityCritical,
	}
	first, created, err := uc.Enqueue(context.Background(), draft)
	if err != nil || !created {
		t.Fatalf("first Enqueue: created=%v err=%v", created, err)
	}

	second, created, err := uc.Enqueue(context.Background(), draft)
	if err != nil {
		t.Fatalf("second Enqueue: %v", err)
	}
	if created {
		t.Error("second enqueue within the window must not create")
	}
	if second.ID != first.ID {
		t.Errorf("dedup returned alert %q, want %q", second.ID, first.ID)
	}
}

func TestRecordOutcome(t *testing.T) {
	repo := newFakeRepository()
	uc := newTestUseCase(repo)

	pending := repo.put(model.Alert{State: model.DeliveryStatePending, MaxRetries: 3})

	a, err := uc.RecordOutcome(context.Background(), pending.ID, false, "webhook timeout")
	if err != nil {
		t.Fatalf("RecordOutcome failure: %v", err)
	}
	if a.State != model.DeliveryStateError {
		t.Errorf("state = %s, want error", a.State)
	}
	if a.RetryCount != 1 {
		t.Errorf("retry count = %d, want 1", a.RetryCount)
	}
	if a.LastError == nil || *a.LastError != "webhook timeout" {
		t.Errorf("last error = %v, want webhook timeout", a.LastError)
	}

	// Success on an alert no longer pending is an invalid transition.
	if _, err := uc.RecordOutcome(context.Background(), pending.ID, true, ""); err != alert.ErrInvalidTransition {
		t.Errorf("err = %v, want ErrInvalidTransition", err)
	}

	if _, err := uc.RecordOutcome(context.Background(), "missing", true, ""); err != alert.ErrAlertNotFound {
		t.Errorf("err = %v, want ErrAlertNotFound", err)
	}
}

func TestRecordOutcome_Success(t *testing.T) {
	repo := newFakeRepository()
	uc := newTestUseCase(repo)

	pending := repo.put(model.Alert{State: model.DeliveryStatePending, MaxRetries: 3})

	a, err := uc.RecordOutcome(context.Background(), pending.ID, true, "")
	if err != nil {
		t.Fatalf("RecordOutcome success: %v", err)
	}
	if a.State != model.DeliveryStateSent {
		t.Errorf("state = %s, want sent", a.State)
	}
	if a.SentAt == nil || !a.SentAt.Equal(schedulerNow) {
		t.Errorf("sent at = %v, want %v", a.SentAt, schedulerNow)
	}
}

func TestReschedule(t *testing.T) {
	repo := newFakeRepository()
	uc := newTestUseCase(repo)

	failed := repo.put(model.Alert{State: model.DeliveryStateError, RetryCount: 1, MaxRetries: 3})
	exhausted := repo.put(model.Alert{State: model.DeliveryStateError, RetryCount: 3, MaxRetries: 3})

	ok, err := uc.Reschedule(context.Background(), failed.ID, 10*time.Minute)
	if err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	if !ok {
		t.Fatal("expected reschedule to succeed")
	}
	got := repo.alerts[failed.ID]
	if got.State != model.DeliveryStatePending {
		t.Errorf("state = %s, want pending", got.State)
	}
	if want := schedulerNow.Add(10 * time.Minute); !got.ScheduledFor.Equal(want) {
		t.Errorf("scheduled for = %v, want %v", got.ScheduledFor, want)
	}

	ok, err = uc.Reschedule(context.Background(), exhausted.ID, time.Minute)
	if err != nil {
		t.Fatalf("Reschedule exhausted: %v", err)
	}
	if ok {
		t.Error("exhausted alert must not reschedule")
	}

	if _, err := uc.Reschedule(context.Background(), "missing", time.Minute); err != alert.ErrAlertNotFound {
		t.Errorf("err = %v, want ErrAlertNotFound", err)
	}
}

func TestIgnore(t *testing.T) {
	repo := newFakeRepository()
	uc := newTestUseCase(repo)

	failed := repo.put(model.Alert{State: model.DeliveryStateError, RetryCount: 3, MaxRetries: 3})
	sent := repo.put(model.Alert{State: model.DeliveryStateSent})

	a, err := uc.Ignore(context.Background(), failed.ID)
	if err != nil {
		t.Fatalf("Ignore: %v", err)
	}
	if a.State != model.DeliveryStateIgnored {
		t.Errorf("state = %s, want ignored", a.State)
	}

	if _, err := uc.Ignore(context.Background(), sent.ID); err != alert.ErrInvalidTransition {
		t.Errorf("ignoring a sent alert: err = %v, want ErrInvalidTransition", err)
	}
}

func TestHasLiveAlert(t *testing.T) {
	repo := newFakeRepository()
	uc := newTestUseCase(repo)

	repo.put(model.Alert{
		DedupKey:  "camp-1:criticalState",
		State:     model.DeliveryStateSent,
		CreatedAt: schedulerNow.Add(-2 * time.Hour),
	})
	repo.put(model.Alert{
		DedupKey:  "camp-2:criticalState",
		State:     model.DeliveryStateIgnored,
		CreatedAt: schedulerNow.Add(-time.Hour),
	})

	ok, err := uc.HasLiveAlert(context.Background(), "camp-1:criticalState", alert.DedupWindow)
	if err != nil {
		t.Fatalf("HasLiveAlert: %v", err)
	}
	if !ok {
		t.Error("sent alert inside the window must count as live")
	}

	ok, err = uc.HasLiveAlert(context.Background(), "camp-2:criticalState", alert.DedupWindow)
	if err != nil {
		t.Fatalf("HasLiveAlert: %v", err)
	}
	if ok {
		t.Error("ignored alert must not count as live")
	}

	// Same key, window too small to reach the existing alert.
	ok, err = uc.HasLiveAlert(context.Background(), "camp-1:criticalState", time.Hour)
	if err != nil {
		t.Fatalf("HasLiveAlert: %v", err)
	}
	if ok {
		t.Error("alert outside the window must not count as live")
	}
}

func TestDueAlerts_ClaimOptions(t *testing.T) {
	repo := newFakeRepository()
	uc := newTestUseCase(repo)

	if _, err := uc.DueAlerts(context.Background(), 0); err != nil {
		t.Fatalf("DueAlerts: %v", err)
	}
	opts := repo.claimCalls[0]
	if opts.Limit != 50 {
		t.Errorf("default limit = %d, want 50", opts.Limit)
	}
	if !opts.Now.Equal(schedulerNow) {
		t.Errorf("claim now = %v, want %v", opts.Now, schedulerNow)
	}
	if opts.Lease != claimLease {
		t.Errorf("lease = %v, want %v", opts.Lease, claimLease)
	}
}

func TestEnqueue_RepoError(t *testing.T) {
	repo := newFakeRepository()
	repo.failWith = errors.New("connection refused")
	uc := newTestUseCase(repo)

	if _, _, err := uc.Enqueue(context.Background(), alert.Draft{DedupKey: "k"}); err == nil {
		t.Fatal("expected error")
	}
}
