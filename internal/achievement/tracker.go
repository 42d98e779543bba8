package achievement

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Starman965/mongoose-sub000/internal/match"
)

// CatalogStore is the persistence the tracker depends on. Implementations
// live in internal/store; the tracker only needs this slice of them.
type CatalogStore interface {
	LoadCatalog(ctx context.Context) ([]Entry, error)
	SaveRule(ctx context.Context, rule Rule) error
	SaveProgress(ctx context.Context, prog Progress) error
	DeleteRule(ctx context.Context, id string) error
	AddMatch(ctx context.Context, rec *match.Record) error
}

// ResultCallback is invoked after a match produces catalog updates.
// It runs outside the tracker's lock.
type ResultCallback func(res Result)

// Tracker owns the in-memory catalog snapshot and serializes match
// processing behind a mutex, so two concurrently submitted matches cannot
// double-count progress against the same rule. The engine itself is pure;
// the tracker is where the load-compute-persist sequencing lives.
type Tracker struct {
	mu      sync.Mutex
	store   CatalogStore
	catalog []Entry

	onResult ResultCallback
}

// NewTracker loads the catalog from the store.
func NewTracker(ctx context.Context, store CatalogStore) (*Tracker, error) {
	catalog, err := store.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return &Tracker{store: store, catalog: catalog}, nil
}

// OnResult registers the callback invoked for each processed match that
// updated the catalog. Must be called before matches flow.
func (t *Tracker) OnResult(cb ResultCallback) {
	t.onResult = cb
}

// Catalog returns a copy of the current catalog in store order.
func (t *Tracker) Catalog() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return cloneEntries(t.catalog)
}

// Query filters and sorts the catalog for presentation.
func (t *Tracker) Query(status StatusFilter, gameType string, key SortKey, now time.Time) []Entry {
	t.mu.Lock()
	snapshot := cloneEntries(t.catalog)
	t.mu.Unlock()
	return Sort(Filter(snapshot, status, gameType, now), key)
}

// Summary aggregates the current catalog.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Summarize(t.catalog)
}

// RecordMatch durably records rec, evaluates the catalog against it, and
// persists each updated progress. A failed progress save is logged and
// reported in the returned error, but does not roll back the in-memory
// update or stop the remaining saves; the result still carries every
// computed update so the caller can retry persistence independently.
func (t *Tracker) RecordMatch(ctx context.Context, rec *match.Record) (Result, error) {
	t.mu.Lock()

	if err := t.store.AddMatch(ctx, rec); err != nil {
		t.mu.Unlock()
		return Result{}, fmt.Errorf("recording match: %w", err)
	}

	res := Process(t.catalog, rec, time.Now().UTC())

	var saveErrs []error
	for _, updated := range res.Updated {
		t.replaceLocked(updated)
		if err := t.store.SaveProgress(ctx, updated.Progress); err != nil {
			log.Printf("Failed to save progress for rule %s: %v", updated.Rule.ID, err)
			saveErrs = append(saveErrs, fmt.Errorf("rule %s: %w", updated.Rule.ID, err))
		}
	}
	cb := t.onResult
	t.mu.Unlock()

	// Dispatch outside the lock so a slow broadcast cannot stall the next match.
	if cb != nil && len(res.Updated) > 0 {
		cb(res)
	}
	return res, errors.Join(saveErrs...)
}

// AddRule validates and persists a new rule and appends it to the catalog
// with zero progress.
func (t *Tracker) AddRule(ctx context.Context, rule Rule) (Entry, error) {
	if err := rule.Validate(); err != nil {
		return Entry{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, e := range t.catalog {
		if e.Rule.ID == rule.ID {
			return Entry{}, fmt.Errorf("rule %s already exists", rule.ID)
		}
	}
	if err := t.store.SaveRule(ctx, rule); err != nil {
		return Entry{}, fmt.Errorf("saving rule: %w", err)
	}
	entry := Entry{Rule: rule, Progress: NewProgress(rule.ID)}
	t.catalog = append(t.catalog, entry)
	return entry, nil
}

// DeleteRule removes a rule and its progress from the store and catalog.
func (t *Tracker) DeleteRule(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.DeleteRule(ctx, id); err != nil {
		return err
	}
	for i, e := range t.catalog {
		if e.Rule.ID == id {
			t.catalog = append(t.catalog[:i], t.catalog[i+1:]...)
			break
		}
	}
	return nil
}

func (t *Tracker) replaceLocked(updated Entry) {
	for i, e := range t.catalog {
		if e.Rule.ID == updated.Rule.ID {
			t.catalog[i] = updated
			return
		}
	}
}

// cloneEntries deep-copies the map and slice fields so callers cannot
// mutate the tracker's snapshot.
func cloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	for i := range out {
		r := &out[i].Rule
		if r.MemberKills != nil {
			mk := make(map[string]Condition, len(r.MemberKills))
			for k, v := range r.MemberKills {
				mk[k] = v
			}
			r.MemberKills = mk
		}
		if r.DaysOfWeek != nil {
			dw := make([]time.Weekday, len(r.DaysOfWeek))
			copy(dw, r.DaysOfWeek)
			r.DaysOfWeek = dw
		}
	}
	return out
}
