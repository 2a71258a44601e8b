package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"semaforo-srv/internal/alert"
	"semaforo-srv/internal/model"
	"semaforo-srv/internal/status"
	"semaforo-srv/internal/status/repository"
	"semaforo-srv/pkg/locker"
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

var engineNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func datePtr(t time.Time) *time.Time { return &t }

// fakeStatusRepo mirrors the transition detection of the SQL layer.
type fakeStatusRepo struct {
	mu      sync.Mutex
	records map[string]model.StatusRecord
	history map[string][]model.HistoryEntry

	upsertErr error
	failFor   map[string]error
}

func newFakeStatusRepo() *fakeStatusRepo {
	return &fakeStatusRepo{
		records: map[string]model.StatusRecord{},
		history: map[string][]model.HistoryEntry{},
	}
}

func (f *fakeStatusRepo) Detail(ctx context.Context, campaignID string) (model.StatusRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[campaignID]
	if !ok {
		return model.StatusRecord{}, repository.ErrNotFound
	}
	return rec, nil
}

func (f *fakeStatusRepo) Upsert(ctx context.Context, opts repository.UpsertOptions) (repository.UpsertResult, error) {
	if f.upsertErr != nil {
		return repository.UpsertResult{}, f.upsertErr
	}
	if err, ok := f.failFor[opts.CampaignID]; ok {
		return repository.UpsertResult{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, exists := f.records[opts.CampaignID]
	rec := model.StatusRecord{
		CampaignID:     opts.CampaignID,
		CurrentColor:   opts.Color,
		Priority:       opts.Priority,
		DaysRemaining:  opts.DaysRemaining,
		ElapsedPercent: opts.ElapsedPercent,
		Reason:         opts.Reason,
		AlertRequired:  opts.AlertRequired,
		ConfigID:       opts.ConfigID,
		ComputedAt:     opts.ComputedAt,
	}

	res := repository.UpsertResult{}
	switch {
	case !exists:
		res.Created = true
		f.history[opts.CampaignID] = append(f.history[opts.CampaignID], model.HistoryEntry{
			CampaignID:  opts.CampaignID,
			ColorAfter:  opts.Color,
			TriggeredBy: opts.TriggeredBy,
		})
	case prev.CurrentColor != opts.Color:
		res.Transitioned = true
		before := prev.CurrentColor
		rec.PreviousColor = &before
		f.history[opts.CampaignID] = append(f.history[opts.CampaignID], model.HistoryEntry{
			CampaignID:  opts.CampaignID,
			ColorBefore: &before,
			ColorAfter:  opts.Color,
			TriggeredBy: opts.TriggeredBy,
		})
	default:
		rec.PreviousColor = prev.PreviousColor
		rec.AlertSent = prev.AlertSent
	}

	f.records[opts.CampaignID] = rec
	res.Record = rec
	return res, nil
}

func (f *fakeStatusRepo) MarkAlertSent(ctx context.Context, campaignID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[campaignID]
	if !ok {
		return repository.ErrNotFound
	}
	rec.AlertSent = true
	f.records[campaignID] = rec
	return nil
}

func (f *fakeStatusRepo) Delete(ctx context.Context, campaignID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[campaignID]; !ok {
		return repository.ErrNotFound
	}
	delete(f.records, campaignID)
	delete(f.history, campaignID)
	return nil
}

func (f *fakeStatusRepo) ListHistory(ctx context.Context, opts repository.HistoryOptions) ([]model.HistoryEntry, paginator.Paginator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := f.history[opts.CampaignID]
	return entries, paginator.New(opts.PaginateQuery, int64(len(entries)), len(entries)), nil
}

func (f *fakeStatusRepo) CountByColor(ctx context.Context) (map[model.Color]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[model.Color]int{
		model.ColorGreen: 0, model.ColorYellow: 0, model.ColorRed: 0, model.ColorGray: 0,
	}
	for _, rec := range f.records {
		counts[rec.CurrentColor]++
	}
	return counts, nil
}

func (f *fakeStatusRepo) CountByPriority(ctx context.Context) (map[model.Priority]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[model.Priority]int{
		model.PriorityLow: 0, model.PriorityMedium: 0, model.PriorityHigh: 0, model.PriorityCritical: 0,
	}
	for _, rec := range f.records {
		counts[rec.Priority]++
	}
	return counts, nil
}

func (f *fakeStatusRepo) CountTransitionsSince(ctx context.Context, t time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, entries := range f.history {
		count += len(entries)
	}
	return count, nil
}

func (f *fakeStatusRepo) SaveSummary(ctx context.Context, s model.AggregateSummary) (model.AggregateSummary, error) {
	s.ID = "summary-1"
	s.CreatedAt = engineNow
	return s, nil
}

// fakeSnapshots serves campaign snapshots from a map.
type fakeSnapshots struct {
	snaps map[string]model.CampaignSnapshot
	err   error
}

func (f *fakeSnapshots) GetCampaignSnapshot(ctx context.Context, id string) (model.CampaignSnapshot, error) {
	if f.err != nil {
		return model.CampaignSnapshot{}, f.err
	}
	snap, ok := f.snaps[id]
	if !ok {
		return model.CampaignSnapshot{}, status.ErrSnapshotNotFound
	}
	return snap, nil
}

func (f *fakeSnapshots) ListCampaignSnapshots(ctx context.Context) ([]model.CampaignSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.CampaignSnapshot
	for _, snap := range f.snaps {
		out = append(out, snap)
	}
	return out, nil
}

// fakeConfigs returns one fixed config or ErrNoActiveConfig.
type fakeConfigs struct {
	cfg model.ThresholdConfig
	err error
}

func (f *fakeConfigs) GetActiveConfig(ctx context.Context) (model.ThresholdConfig, error) {
	if f.err != nil {
		return model.ThresholdConfig{}, f.err
	}
	return f.cfg, nil
}

// fakeAlertUC records enqueued drafts and answers liveness lookups.
type fakeAlertUC struct {
	mu       sync.Mutex
	drafts   []alert.Draft
	liveKeys map[string]bool

	enqueueErr error
	pending    int
	created    int
}

func newFakeAlertUC() *fakeAlertUC {
	return &fakeAlertUC{liveKeys: map[string]bool{}}
}

func (f *fakeAlertUC) Enqueue(ctx context.Context, draft alert.Draft) (model.Alert, bool, error) {
	if f.enqueueErr != nil {
		return model.Alert{}, false, f.enqueueErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drafts = append(f.drafts, draft)
	f.liveKeys[draft.DedupKey] = true
	return model.Alert{ID: "alert-1", DedupKey: draft.DedupKey}, true, nil
}

func (f *fakeAlertUC) DueAlerts(ctx context.Context, limit int) ([]model.Alert, error) {
	return nil, nil
}

func (f *fakeAlertUC) RecordOutcome(ctx context.Context, alertID string, success bool, errMsg string) (model.Alert, error) {
	return model.Alert{}, nil
}

func (f *fakeAlertUC) Reschedule(ctx context.Context, alertID string, delay time.Duration) (bool, error) {
	return false, nil
}

func (f *fakeAlertUC) Ignore(ctx context.Context, alertID string) (model.Alert, error) {
	return model.Alert{}, nil
}

func (f *fakeAlertUC) HasLiveAlert(ctx context.Context, dedupKey string, window time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.liveKeys[dedupKey], nil
}

func (f *fakeAlertUC) Get(ctx context.Context, ip alert.GetInput) (alert.GetOutput, error) {
	return alert.GetOutput{}, nil
}

func (f *fakeAlertUC) CountPending(ctx context.Context) (int, error) {
	return f.pending, nil
}

func (f *fakeAlertUC) CountCreatedSince(ctx context.Context, t time.Time) (int, error) {
	return f.created, nil
}

type fakeResolver struct {
	recipients model.Recipients
	err        error
}

func (f *fakeResolver) ResolveRecipients(ctx context.Context, campaignID string) (model.Recipients, error) {
	if f.err != nil {
		return model.Recipients{}, f.err
	}
	return f.recipients, nil
}

type engineFixture struct {
	repo     *fakeStatusRepo
	snaps    *fakeSnapshots
	configs  *fakeConfigs
	alerts   *fakeAlertUC
	resolver *fakeResolver
	uc       status.UseCase
}

func newEngineFixture() *engineFixture {
	f := &engineFixture{
		repo:     newFakeStatusRepo(),
		snaps:    &fakeSnapshots{snaps: map[string]model.CampaignSnapshot{}},
		configs:  &fakeConfigs{err: status.ErrNoActiveConfig},
		alerts:   newFakeAlertUC(),
		resolver: &fakeResolver{recipients: model.Recipients{Roles: []string{"trafico"}}},
	}
	uc := New(&testLogger{}, f.repo, f.snaps, f.configs, f.alerts, f.resolver, locker.NewLocal(), 0).(*usecase)
	uc.now = func() time.Time { return engineNow }
	f.uc = uc
	return f
}

func TestRecalculateOne_CreatesRecord(t *testing.T) {
	f := newEngineFixture()
	f.snaps.snaps["camp-1"] = model.CampaignSnapshot{
		ID:        "camp-1",
		Name:      "Verano FM",
		State:     model.LifecycleStateActive,
		StartDate: datePtr(engineNow.AddDate(0, 0, -10)),
		EndDate:   datePtr(engineNow.AddDate(0, 0, 30)),
	}

	outcome, err := f.uc.RecalculateOne(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("RecalculateOne: %v", err)
	}
	if !outcome.Created {
		t.Error("first recalculation must create the record")
	}
	if outcome.Transitioned {
		t.Error("creation is not a transition")
	}
	if outcome.Record.CurrentColor != model.ColorGreen {
		t.Errorf("color = %s, want green", outcome.Record.CurrentColor)
	}
	if outcome.AlertGenerated {
		t.Error("green status must not generate an alert")
	}
	if len(f.repo.history["camp-1"]) != 1 {
		t.Errorf("history entries = %d, want 1", len(f.repo.history["camp-1"]))
	}
}

func TestRecalculateOne_Idempotent(t *testing.T) {
	f := newEngineFixture()
	f.snaps.snaps["camp-1"] = model.CampaignSnapshot{
		ID:        "camp-1",
		State:     model.LifecycleStateActive,
		StartDate: datePtr(engineNow.AddDate(0, 0, -10)),
		EndDate:   datePtr(engineNow.AddDate(0, 0, 30)),
	}

	if _, err := f.uc.RecalculateOne(context.Background(), "camp-1"); err != nil {
		t.Fatalf("first run: %v", err)
	}
	outcome, err := f.uc.RecalculateOne(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if outcome.Created || outcome.Transitioned {
		t.Errorf("unchanged input must not create (%v) or transition (%v)", outcome.Created, outcome.Transitioned)
	}
	if got := len(f.repo.history["camp-1"]); got != 1 {
		t.Errorf("history entries = %d, want 1 (no entry without a transition)", got)
	}
}

func TestRecalculateOne_TransitionGeneratesAlert(t *testing.T) {
	f := newEngineFixture()
	f.snaps.snaps["camp-1"] = model.CampaignSnapshot{
		ID:        "camp-1",
		Name:      "Liquidación",
		State:     model.LifecycleStateActive,
		StartDate: datePtr(engineNow.AddDate(0, 0, -10)),
		EndDate:   datePtr(engineNow.AddDate(0, 0, 30)),
	}
	if _, err := f.uc.RecalculateOne(context.Background(), "camp-1"); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// The campaign window now ends in 2 days: green -> red.
	f.snaps.snaps["camp-1"] = model.CampaignSnapshot{
		ID:        "camp-1",
		Name:      "Liquidación",
		State:     model.LifecycleStateActive,
		StartDate: datePtr(engineNow.AddDate(0, 0, -10)),
		EndDate:   datePtr(engineNow.AddDate(0, 0, 2)),
	}

	outcome, err := f.uc.RecalculateOne(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !outcome.Transitioned {
		t.Fatal("expected a color transition")
	}
	if outcome.Record.CurrentColor != model.ColorRed {
		t.Errorf("color = %s, want red", outcome.Record.CurrentColor)
	}
	if !outcome.AlertGenerated {
		t.Error("red transition must generate an alert")
	}
	if !outcome.Record.AlertSent {
		t.Error("record must be flagged alert_sent after the enqueue")
	}

	if len(f.alerts.drafts) != 1 {
		t.Fatalf("drafts = %d, want 1", len(f.alerts.drafts))
	}
	draft := f.alerts.drafts[0]
	if draft.Type != model.AlertTypeCriticalState {
		t.Errorf("draft type = %s, want criticalState", draft.Type)
	}
	if draft.DedupKey != "camp-1:criticalState" {
		t.Errorf("dedup key = %q", draft.DedupKey)
	}
	if len(draft.Recipients.Roles) != 1 || draft.Recipients.Roles[0] != "trafico" {
		t.Errorf("recipients = %+v, want resolved roles", draft.Recipients)
	}
}

func TestRecalculateOne_SnapshotMissing(t *testing.T) {
	f := newEngineFixture()
	if _, err := f.uc.RecalculateOne(context.Background(), "ghost"); err != status.ErrSnapshotNotFound {
		t.Errorf("err = %v, want ErrSnapshotNotFound", err)
	}
}

func TestRecalculateOne_EnqueueFailureKeepsStatus(t *testing.T) {
	f := newEngineFixture()
	f.alerts.enqueueErr = errors.New("scheduler down")
	f.snaps.snaps["camp-1"] = model.CampaignSnapshot{
		ID:        "camp-1",
		State:     model.LifecycleStateActive,
		StartDate: datePtr(engineNow.AddDate(0, 0, -10)),
		EndDate:   datePtr(engineNow.AddDate(0, 0, 2)),
	}

	outcome, err := f.uc.RecalculateOne(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("status write must survive an enqueue failure: %v", err)
	}
	if outcome.AlertGenerated {
		t.Error("no alert was generated")
	}
	rec := f.repo.records["camp-1"]
	if rec.AlertSent {
		t.Error("alert_sent must stay false so the next run retries")
	}
	if rec.CurrentColor != model.ColorRed {
		t.Errorf("color = %s, want red", rec.CurrentColor)
	}
}

func TestRecalculateOne_ResolverFailureStillAlerts(t *testing.T) {
	f := newEngineFixture()
	f.resolver.err = errors.New("directory down")
	f.snaps.snaps["camp-1"] = model.CampaignSnapshot{
		ID:        "camp-1",
		State:     model.LifecycleStateActive,
		StartDate: datePtr(engineNow.AddDate(0, 0, -10)),
		EndDate:   datePtr(engineNow.AddDate(0, 0, 2)),
	}

	outcome, err := f.uc.RecalculateOne(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("RecalculateOne: %v", err)
	}
	if !outcome.AlertGenerated {
		t.Fatal("alert must go out with empty recipients")
	}
	if len(f.alerts.drafts[0].Recipients.Users) != 0 || len(f.alerts.drafts[0].Recipients.Roles) != 0 {
		t.Errorf("recipients = %+v, want empty", f.alerts.drafts[0].Recipients)
	}
}

func TestOnCampaignDeleted(t *testing.T) {
	f := newEngineFixture()
	f.snaps.snaps["camp-1"] = model.CampaignSnapshot{
		ID:        "camp-1",
		State:     model.LifecycleStateActive,
		StartDate: datePtr(engineNow.AddDate(0, 0, -10)),
		EndDate:   datePtr(engineNow.AddDate(0, 0, 30)),
	}
	if _, err := f.uc.RecalculateOne(context.Background(), "camp-1"); err != nil {
		t.Fatalf("RecalculateOne: %v", err)
	}

	if err := f.uc.OnCampaignDeleted(context.Background(), "camp-1"); err != nil {
		t.Fatalf("OnCampaignDeleted: %v", err)
	}
	if _, ok := f.repo.records["camp-1"]; ok {
		t.Error("record must be deleted")
	}

	// Deleting a campaign that never had a record is a no-op.
	if err := f.uc.OnCampaignDeleted(context.Background(), "ghost"); err != nil {
		t.Errorf("deleting without a record: %v", err)
	}
}

func TestRecalculateBatch(t *testing.T) {
	f := newEngineFixture()
	for _, snap := range []model.CampaignSnapshot{
		{ID: "green-1", State: model.LifecycleStateActive,
			StartDate: datePtr(engineNow.AddDate(0, 0, -5)), EndDate: datePtr(engineNow.AddDate(0, 0, 40))},
		{ID: "red-1", State: model.LifecycleStateActive,
			StartDate: datePtr(engineNow.AddDate(0, 0, -30)), EndDate: datePtr(engineNow.AddDate(0, 0, 2))},
		{ID: "gray-1", State: model.LifecycleStateFinalized},
		{ID: "draft-1", State: model.LifecycleStateDraft,
			StartDate: datePtr(engineNow.AddDate(0, 0, 10)), EndDate: datePtr(engineNow.AddDate(0, 0, 40))},
	} {
		f.snaps.snaps[snap.ID] = snap
	}

	stats, err := f.uc.RecalculateBatch(context.Background(), status.BatchFilter{})
	if err != nil {
		t.Fatalf("RecalculateBatch: %v", err)
	}
	if stats.Processed != 4 {
		t.Errorf("processed = %d, want 4", stats.Processed)
	}
	if stats.Created != 4 {
		t.Errorf("created = %d, want 4", stats.Created)
	}
	if stats.Errors != 0 {
		t.Errorf("errors = %d, want 0", stats.Errors)
	}
	if stats.AlertsGenerated != 1 {
		t.Errorf("alerts = %d, want 1 (only red-1)", stats.AlertsGenerated)
	}
}

func TestRecalculateBatch_FilterByState(t *testing.T) {
	f := newEngineFixture()
	f.snaps.snaps["active-1"] = model.CampaignSnapshot{
		ID: "active-1", State: model.LifecycleStateActive,
		StartDate: datePtr(engineNow.AddDate(0, 0, -5)), EndDate: datePtr(engineNow.AddDate(0, 0, 40)),
	}
	f.snaps.snaps["final-1"] = model.CampaignSnapshot{ID: "final-1", State: model.LifecycleStateFinalized}

	stats, err := f.uc.RecalculateBatch(context.Background(), status.BatchFilter{
		States: []model.LifecycleState{model.LifecycleStateActive},
	})
	if err != nil {
		t.Fatalf("RecalculateBatch: %v", err)
	}
	if stats.Processed != 1 {
		t.Errorf("processed = %d, want 1", stats.Processed)
	}
}

func TestRecalculateBatch_FailureIsolation(t *testing.T) {
	f := newEngineFixture()
	f.snaps.snaps["ok-1"] = model.CampaignSnapshot{
		ID: "ok-1", State: model.LifecycleStateActive,
		StartDate: datePtr(engineNow.AddDate(0, 0, -5)), EndDate: datePtr(engineNow.AddDate(0, 0, 40)),
	}
	f.snaps.snaps["ok-2"] = model.CampaignSnapshot{ID: "ok-2", State: model.LifecycleStateFinalized}
	f.snaps.snaps["bad-1"] = model.CampaignSnapshot{
		ID: "bad-1", State: model.LifecycleStateActive,
		StartDate: datePtr(engineNow.AddDate(0, 0, -5)), EndDate: datePtr(engineNow.AddDate(0, 0, 40)),
	}
	f.repo.failFor = map[string]error{"bad-1": errors.New("write failed")}

	stats, err := f.uc.RecalculateBatch(context.Background(), status.BatchFilter{})
	if err != nil {
		t.Fatalf("RecalculateBatch: %v", err)
	}
	if stats.Processed != 3 {
		t.Errorf("processed = %d, want 3", stats.Processed)
	}
	if stats.Errors != 1 {
		t.Errorf("errors = %d, want 1", stats.Errors)
	}
	if stats.Created != 2 {
		t.Errorf("created = %d, want 2 (failed item must not stop the rest)", stats.Created)
	}
}

// gateSnapshots blocks the snapshot fetch until released, so a test can
// cancel the batch while one item is in flight.
type gateSnapshots struct {
	snap    model.CampaignSnapshot
	started chan struct{}
	release chan struct{}
}

func (g *gateSnapshots) ListCampaignSnapshots(ctx context.Context) ([]model.CampaignSnapshot, error) {
	return []model.CampaignSnapshot{g.snap}, nil
}

func (g *gateSnapshots) GetCampaignSnapshot(ctx context.Context, id string) (model.CampaignSnapshot, error) {
	close(g.started)
	<-g.release
	if err := ctx.Err(); err != nil {
		return model.CampaignSnapshot{}, err
	}
	return g.snap, nil
}

func TestRecalculateBatch_CancelLetsInFlightFinish(t *testing.T) {
	snaps := &gateSnapshots{
		snap: model.CampaignSnapshot{
			ID: "camp-1", State: model.LifecycleStateActive,
			StartDate: datePtr(engineNow.AddDate(0, 0, -5)), EndDate: datePtr(engineNow.AddDate(0, 0, 40)),
		},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	repo := newFakeStatusRepo()
	uc := New(&testLogger{}, repo, snaps, &fakeConfigs{err: status.ErrNoActiveConfig},
		newFakeAlertUC(), &fakeResolver{}, locker.NewLocal(), 1).(*usecase)
	uc.now = func() time.Time { return engineNow }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type result struct {
		stats status.BatchStats
		err   error
	}
	done := make(chan result, 1)
	go func() {
		stats, err := uc.RecalculateBatch(ctx, status.BatchFilter{})
		done <- result{stats, err}
	}()

	<-snaps.started
	cancel()
	close(snaps.release)

	res := <-done
	if res.err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", res.err)
	}
	if res.stats.Errors != 0 {
		t.Errorf("errors = %d, want 0 (in-flight item must finish)", res.stats.Errors)
	}
	if res.stats.Processed != 1 || res.stats.Created != 1 {
		t.Errorf("stats = %+v, want processed=1 created=1", res.stats)
	}
}

func TestGetStatusSummary(t *testing.T) {
	f := newEngineFixture()
	f.alerts.pending = 2
	for _, snap := range []model.CampaignSnapshot{
		{ID: "g1", State: model.LifecycleStateActive,
			StartDate: datePtr(engineNow.AddDate(0, 0, -5)), EndDate: datePtr(engineNow.AddDate(0, 0, 40))},
		{ID: "g2", State: model.LifecycleStateActive,
			StartDate: datePtr(engineNow.AddDate(0, 0, -5)), EndDate: datePtr(engineNow.AddDate(0, 0, 40))},
		{ID: "r1", State: model.LifecycleStateActive,
			StartDate: datePtr(engineNow.AddDate(0, 0, -30)), EndDate: datePtr(engineNow.AddDate(0, 0, 2))},
		{ID: "x1", State: model.LifecycleStateFinalized},
	} {
		f.snaps.snaps[snap.ID] = snap
	}
	if _, err := f.uc.RecalculateBatch(context.Background(), status.BatchFilter{}); err != nil {
		t.Fatalf("seed batch: %v", err)
	}

	out, err := f.uc.GetStatusSummary(context.Background())
	if err != nil {
		t.Fatalf("GetStatusSummary: %v", err)
	}
	if out.Counts[model.ColorGreen] != 2 {
		t.Errorf("green = %d, want 2", out.Counts[model.ColorGreen])
	}
	if out.Counts[model.ColorRed] != 1 {
		t.Errorf("red = %d, want 1", out.Counts[model.ColorRed])
	}
	if out.Percentages[model.ColorGreen] != 50 {
		t.Errorf("green%% = %.2f, want 50", out.Percentages[model.ColorGreen])
	}
	if out.AlertsPending != 2 {
		t.Errorf("alerts pending = %d, want 2", out.AlertsPending)
	}
}

func TestRecomputeSummary(t *testing.T) {
	f := newEngineFixture()
	f.alerts.created = 3
	f.snaps.snaps["g1"] = model.CampaignSnapshot{
		ID: "g1", State: model.LifecycleStateActive,
		StartDate: datePtr(engineNow.AddDate(0, 0, -5)), EndDate: datePtr(engineNow.AddDate(0, 0, 40)),
	}
	if _, err := f.uc.RecalculateBatch(context.Background(), status.BatchFilter{}); err != nil {
		t.Fatalf("seed batch: %v", err)
	}

	summary, err := f.uc.RecomputeSummary(context.Background(), model.PeriodDaily, engineNow)
	if err != nil {
		t.Fatalf("RecomputeSummary: %v", err)
	}
	if summary.CountGreen != 1 {
		t.Errorf("green = %d, want 1", summary.CountGreen)
	}
	if summary.AlertCount != 3 {
		t.Errorf("alert count = %d, want 3", summary.AlertCount)
	}
	if want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC); !summary.SummaryDate.Equal(want) {
		t.Errorf("summary date = %v, want %v", summary.SummaryDate, want)
	}

	if _, err := f.uc.RecomputeSummary(context.Background(), "hourly", engineNow); err == nil {
		t.Error("invalid period must be rejected")
	}
}

func TestPeriodStart(t *testing.T) {
	// 2025-03-12 is a Wednesday.
	wed := time.Date(2025, 3, 12, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		name   string
		period model.SummaryPeriod
		want   time.Time
	}{
		{"daily", model.PeriodDaily, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)},
		{"weekly snaps to Monday", model.PeriodWeekly, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		{"monthly snaps to the 1st", model.PeriodMonthly, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := periodStart(tc.period, wed); !got.Equal(tc.want) {
				t.Errorf("periodStart = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPeriodStart_Sunday(t *testing.T) {
	sun := time.Date(2025, 3, 16, 9, 0, 0, 0, time.UTC)
	want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if got := periodStart(model.PeriodWeekly, sun); !got.Equal(want) {
		t.Errorf("periodStart(sunday) = %v, want %v", got, want)
	}
}
