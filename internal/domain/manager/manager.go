// Package manager keeps a lazily loaded, periodically refreshed collection of
// HomeWizard entities of one kind.
//
// A Manager has two independent staleness axes. The entity list is loaded on
// first use and only reloaded by Refresh. Status fields are refreshed in place
// whenever a read finds the last status update older than the configured
// interval. All device traffic for one manager happens inside a single
// critical section, so concurrent readers never issue duplicate calls for the
// same expiry window.
package manager

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"homewizard-client/internal/domain/model"
)

// Record is satisfied by pointers to entity types embedding model.Entity.
type Record[T any] interface {
	*T
	Base() *model.Entity
}

// Patch is a status update for the entity with the given ID.
// Apply must replace reference fields rather than mutate what they point to,
// since snapshots handed out earlier share them.
type Patch[T any] struct {
	ID    int
	Apply func(*T)
}

// Source tells a Manager how to talk to the device for one entity kind.
type Source[T any] struct {
	Kind string
	// List fetches the complete entity list.
	List func(ctx context.Context) ([]T, error)
	// Status fetches status-only updates. Nil disables status refresh.
	Status func(ctx context.Context) ([]Patch[T], error)
	// Interval between status refreshes. Negative disables status refresh.
	Interval time.Duration
}

type options struct {
	logger zerolog.Logger
	now    func() time.Time
}

type Option func(*options)

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

type Manager[T any, P Record[T]] struct {
	src    Source[T]
	logger zerolog.Logger
	now    func() time.Time

	mu         sync.Mutex
	entities   map[int]*T // nil until the first list load
	lastStatus time.Time
	hasStatus  bool
}

func New[T any, P Record[T]](src Source[T], opts ...Option) *Manager[T, P] {
	o := options{logger: zerolog.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Manager[T, P]{
		src:    src,
		logger: o.logger.With().Str("kind", src.Kind).Logger(),
		now:    o.now,
	}
}

func (m *Manager[T, P]) Kind() string {
	return m.src.Kind
}

// All returns a copy of every entity, ordered by ID.
func (m *Manager[T, P]) All(ctx context.Context) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.sync(ctx); err != nil {
		return nil, err
	}
	out := make([]T, 0, len(m.entities))
	for _, id := range m.sortedIDs() {
		out = append(out, *m.entities[id])
	}
	return out, nil
}

// ByID returns a copy of the entity with the given ID. The boolean is false
// when the device does not know the ID.
func (m *Manager[T, P]) ByID(ctx context.Context, id int) (T, bool, error) {
	var zero T

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.sync(ctx); err != nil {
		return zero, false, err
	}
	e, ok := m.entities[id]
	if !ok {
		return zero, false, nil
	}
	return *e, true, nil
}

// ByName returns the first entity, in ID order, whose name matches exactly.
func (m *Manager[T, P]) ByName(ctx context.Context, name string) (T, bool, error) {
	var zero T

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.sync(ctx); err != nil {
		return zero, false, err
	}
	for _, id := range m.sortedIDs() {
		e := m.entities[id]
		if P(e).Base().Name == name {
			return *e, true, nil
		}
	}
	return zero, false, nil
}

// Refresh reloads the entity list from the device regardless of staleness.
// Entities missing from the new list are dropped.
func (m *Manager[T, P]) Refresh(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.loadList(ctx, true)
}

// LastStatusUpdate reports when status was last refreshed. The boolean is
// false before the first refresh.
func (m *Manager[T, P]) LastStatusUpdate() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.lastStatus, m.hasStatus
}

// sync brings the list and then the status up to date. Caller holds mu.
func (m *Manager[T, P]) sync(ctx context.Context) error {
	if err := m.loadList(ctx, false); err != nil {
		return err
	}
	return m.refreshStatusIfExpired(ctx)
}

// loadList is the only place entities are created or removed. A failed load
// keeps the previous collection. Caller holds mu.
func (m *Manager[T, P]) loadList(ctx context.Context, force bool) error {
	if m.entities != nil && !force {
		return nil
	}

	items, err := m.src.List(ctx)
	if err != nil {
		return err
	}

	now := m.now()
	entities := make(map[int]*T, len(items))
	for i := range items {
		item := items[i]
		base := P(&item).Base()
		if base.LastUpdate.IsZero() {
			base.LastUpdate = now
		}
		if _, dup := entities[base.ID]; dup {
			m.logger.Warn().Int("id", base.ID).Msg("duplicate entity id in list, keeping the last one")
		}
		entities[base.ID] = &item
	}

	m.entities = entities
	m.logger.Info().Int("count", len(entities)).Bool("forced", force).Msg("entity list loaded")
	return nil
}

// refreshStatusIfExpired applies a status-only payload when the interval has
// elapsed. Unknown IDs are skipped: status never creates entities.
// Caller holds mu.
func (m *Manager[T, P]) refreshStatusIfExpired(ctx context.Context) error {
	if m.src.Status == nil || m.src.Interval < 0 {
		return nil
	}

	now := m.now()
	if m.hasStatus && now.Sub(m.lastStatus) < m.src.Interval {
		return nil
	}

	patches, err := m.src.Status(ctx)
	if err != nil {
		return err
	}

	for _, p := range patches {
		e, ok := m.entities[p.ID]
		if !ok {
			m.logger.Warn().Int("id", p.ID).Msg("status for unknown entity ignored")
			continue
		}
		p.Apply(e)
		P(e).Base().Touch(now)
	}

	m.lastStatus = now
	m.hasStatus = true
	m.logger.Debug().Int("patches", len(patches)).Msg("status refreshed")
	return nil
}

func (m *Manager[T, P]) sortedIDs() []int {
	ids := make([]int, 0, len(m.entities))
	for id := range m.entities {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
