package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"ev-dashboard/internal/cache"
	"ev-dashboard/internal/metrics"
	"ev-dashboard/internal/model"
	"ev-dashboard/internal/pipeline"

	"github.com/google/uuid"
)

var (
	ErrNotLoaded       = errors.New("dataset not loaded")
	ErrSessionNotFound = errors.New("session not found")
	ErrRecordNotFound  = errors.New("record not found")
)

// LoadLog persists load attempts; *store.Store satisfies it.
type LoadLog interface {
	SaveLoad(ctx context.Context, info model.LoadInfo) error
	FinishLoad(ctx context.Context, info model.LoadInfo) error
	SaveLoadError(ctx context.Context, loadID string, err error) error
}

// Options configures a Dashboard.
type Options struct {
	Source    string
	Timeout   time.Duration
	CacheSize int
	// LoadLog is optional.
	LoadLog LoadLog
}

// Dashboard owns the loaded record set and every client session.
type Dashboard struct {
	source  string
	timeout time.Duration
	loadLog LoadLog
	cache   *cache.LRU[*pipeline.Derived]

	loadOnce sync.Once
	loadErr  error

	mu       sync.RWMutex
	status   model.LoadStatus
	records  []model.Record
	info     model.LoadInfo
	sessions map[string]*Session
}

// New creates a dashboard in the loading state.
func New(opts Options) (*Dashboard, error) {
	c, err := cache.New[*pipeline.Derived](opts.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		source:   opts.Source,
		timeout:  opts.Timeout,
		loadLog:  opts.LoadLog,
		cache:    c,
		status:   model.StatusLoading,
		info:     model.LoadInfo{Source: opts.Source, Status: model.LoadRunning},
		sessions: make(map[string]*Session),
	}, nil
}

// Load fetches and normalizes the dataset exactly once. A failure is logged and
// recorded and the dashboard stays loading; later calls return the same result
// without retrying.
func (d *Dashboard) Load(ctx context.Context) error {
	d.loadOnce.Do(func() {
		d.loadErr = d.load(ctx)
	})
	return d.loadErr
}

func (d *Dashboard) load(ctx context.Context) error {
	start := time.Now()
	info := model.LoadInfo{
		ID:        uuid.New().String(),
		Source:    d.source,
		Status:    model.LoadRunning,
		StartedAt: start.UTC(),
	}
	d.setInfo(info)
	if d.loadLog != nil {
		if err := d.loadLog.SaveLoad(ctx, info); err != nil {
			log.Printf("⚠ Warning: failed to record load %s: %v", info.ID, err)
		}
	}

	ds, err := pipeline.Load(ctx, d.source, d.timeout)
	info.FinishedAt = time.Now().UTC()
	metrics.RecordLoad(err, time.Since(start))

	if err != nil {
		err = fmt.Errorf("load %s: %w", d.source, err)
		log.Printf("❌ Error in load %s: %v\n", info.ID, err)
		info.Status = model.LoadFailed
		info.Error = err.Error()
		d.setInfo(info)
		if d.loadLog != nil {
			if e := d.loadLog.SaveLoadError(ctx, info.ID, err); e != nil {
				log.Printf("⚠ Warning: failed to record load error: %v", e)
			}
			if e := d.loadLog.FinishLoad(ctx, info); e != nil {
				log.Printf("⚠ Warning: failed to finish load %s: %v", info.ID, e)
			}
		}
		return err
	}

	info.Status = model.LoadSucceeded
	info.Checksum = ds.Checksum
	info.Stats = ds.Stats
	recordRowMetrics(ds.Stats)

	d.mu.Lock()
	d.records = ds.Records
	d.status = model.StatusReady
	d.info = info
	d.cache.Purge()
	d.mu.Unlock()

	if d.loadLog != nil {
		if e := d.loadLog.FinishLoad(ctx, info); e != nil {
			log.Printf("⚠ Warning: failed to finish load %s: %v", info.ID, e)
		}
	}
	d.publishAll()
	return nil
}

func recordRowMetrics(s model.NormalizeStats) {
	metrics.RecordRows("raw", s.Raw)
	metrics.RecordRows("kept", s.Kept)
	metrics.RecordRows("dropped_missing", s.DroppedMissing)
	metrics.RecordRows("dropped_year", s.DroppedYear)
	metrics.RecordRows("range_defaulted", s.RangeDefaulted)
}

func (d *Dashboard) setInfo(info model.LoadInfo) {
	d.mu.Lock()
	d.info = info
	d.mu.Unlock()
}

// Status reports whether the dataset is ready.
func (d *Dashboard) Status() model.LoadStatus {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.status
}

// LoadInfo describes the current (or last) load attempt.
func (d *Dashboard) LoadInfo() model.LoadInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.info
}

// Records returns the normalized set; callers must not modify it.
func (d *Dashboard) Records() []model.Record {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.records
}

// derive returns the cached filter-dependent results, computing them on a miss.
func (d *Dashboard) derive(f model.FilterState) (*pipeline.Derived, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.status != model.StatusReady {
		return nil, false
	}

	start := time.Now()
	key := f.Key()
	if hit, ok := d.cache.Get(key); ok {
		metrics.RecordViewBuild("hit", time.Since(start))
		return hit, true
	}
	derived := pipeline.Derive(d.records, f)
	d.cache.Set(key, derived)
	metrics.RecordViewBuild("miss", time.Since(start))
	return derived, true
}

// ViewFor builds the view for an arbitrary state snapshot.
func (d *Dashboard) ViewFor(state model.SessionState) model.View {
	derived, ok := d.derive(state.Filters)
	if !ok {
		state.Page = pipeline.ClampPage(state.Page, 0)
		return pipeline.LoadingView(state)
	}
	return pipeline.BuildView(derived, state)
}

// Filtered returns the records matching f.
func (d *Dashboard) Filtered(f model.FilterState) ([]model.Record, error) {
	derived, ok := d.derive(f)
	if !ok {
		return nil, ErrNotLoaded
	}
	return derived.Filtered, nil
}

// NewSession starts a client session with empty filters on page 1.
func (d *Dashboard) NewSession() *Session {
	s := &Session{
		ID:    uuid.New().String(),
		d:     d,
		state: model.SessionState{Page: 1},
		subs:  make(map[int]chan model.View),
	}
	d.mu.Lock()
	d.sessions[s.ID] = s
	d.mu.Unlock()
	return s
}

// Session looks up a session by ID.
func (d *Dashboard) Session(id string) (*Session, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// CloseSession forgets a session and closes its subscriptions.
func (d *Dashboard) CloseSession(id string) error {
	d.mu.Lock()
	s, ok := d.sessions[id]
	delete(d.sessions, id)
	d.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.closeSubscribers()
	return nil
}

// SessionCount is the number of open sessions.
func (d *Dashboard) SessionCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.sessions)
}

func (d *Dashboard) publishAll() {
	d.mu.RLock()
	sessions := make([]*Session, 0, len(d.sessions))
	for _, s := range d.sessions {
		sessions = append(sessions, s)
	}
	d.mu.RUnlock()

	for _, s := range sessions {
		s.refresh()
	}
}
