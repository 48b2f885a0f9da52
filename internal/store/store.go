// Package store owns the shopping list and publishes a snapshot after every
// change.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jask/shoplist/internal/model"
)

// Backend is the persistence collaborator. Insert assigns the id.
type Backend interface {
	Insert(ctx context.Context, name string) (model.Item, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]model.Item, error)
}

// Recorder receives one call per mutation attempt and the item count after
// each publish.
type Recorder interface {
	Mutation(op, result string)
	Items(n int)
}

// Mutation ops and results reported to a Recorder.
const (
	OpAdd    = "add"
	OpRemove = "remove"
	OpLoad   = "load"

	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
	ResultNoop     = "noop"
)

type Option func(*Store)

// WithBackend makes the store mirror a persistent backend instead of
// numbering items itself.
func WithBackend(b Backend) Option { return func(s *Store) { s.backend = b } }

func WithPolicy(p NamePolicy) Option { return func(s *Store) { s.policy = p } }

func WithLogger(l *zap.Logger) Option { return func(s *Store) { s.logger = l } }

func WithRecorder(r Recorder) Option { return func(s *Store) { s.rec = r } }

// Store is the only writer of the item collection.
type Store struct {
	// opMu serializes mutations; mu guards state and may be held only briefly.
	opMu sync.Mutex
	mu   sync.Mutex

	snap   model.Snapshot
	nextID int64
	subs   map[*Subscription]struct{}
	closed bool

	backend Backend
	policy  NamePolicy
	logger  *zap.Logger
	rec     Recorder
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		subs:   make(map[*Subscription]struct{}),
		policy: AllowDuplicates{},
		logger: zap.NewNop(),
		rec:    nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("store")
	return s
}

// Snapshot returns the current items.
func (s *Store) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Load replaces the mirror with the backend contents and publishes it.
// Without a backend it does nothing.
func (s *Store) Load(ctx context.Context) error {
	if s.backend == nil {
		return nil
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()

	items, err := s.backend.List(ctx)
	if err != nil {
		s.rec.Mutation(OpLoad, ResultFailed)
		return fmt.Errorf("load items: %w", err)
	}
	s.commit(items)
	s.rec.Mutation(OpLoad, ResultOK)
	s.logger.Debug("items loaded", zap.Int("count", len(items)))
	return nil
}

// Add appends a new item named name and publishes the result.
// Invalid or policy-rejected names leave the store untouched.
func (s *Store) Add(ctx context.Context, name string) (model.Item, error) {
	name, err := model.NormalizeName(name)
	if err != nil {
		s.rec.Mutation(OpAdd, ResultRejected)
		return model.Item{}, err
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	cur := s.Snapshot()
	if err := s.policy.Check(name, cur.Items()); err != nil {
		s.rec.Mutation(OpAdd, ResultRejected)
		return model.Item{}, err
	}

	log := s.logger.With(zap.String("op_id", uuid.NewString()), zap.String("op", OpAdd))

	if s.backend == nil {
		s.mu.Lock()
		s.nextID++
		item := model.Item{ID: s.nextID, Name: name}
		s.mu.Unlock()

		s.commit(append(cur.Items(), item))
		s.rec.Mutation(OpAdd, ResultOK)
		log.Debug("item added", zap.Int64("id", item.ID))
		return item, nil
	}

	item, err := s.backend.Insert(ctx, name)
	if err != nil {
		s.rec.Mutation(OpAdd, ResultFailed)
		log.Warn("insert failed", zap.Error(err))
		return model.Item{}, fmt.Errorf("insert item: %w", err)
	}

	items, err := s.backend.List(ctx)
	if err != nil {
		log.Warn("refresh after insert failed", zap.Error(err))
		items = cur.Items()
	}
	if !model.NewSnapshot(items).Contains(item.ID) {
		items = append(items, item)
	}
	s.commit(items)
	s.rec.Mutation(OpAdd, ResultOK)
	log.Debug("item added", zap.Int64("id", item.ID))
	return item, nil
}

// Remove deletes the item with the given id. Removing an id that is not in
// the current snapshot is a no-op.
func (s *Store) Remove(ctx context.Context, id int64) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	cur := s.Snapshot()
	if !cur.Contains(id) {
		s.rec.Mutation(OpRemove, ResultNoop)
		return nil
	}

	log := s.logger.With(
		zap.String("op_id", uuid.NewString()),
		zap.String("op", OpRemove),
		zap.Int64("id", id),
	)

	if s.backend == nil {
		s.commit(without(cur.Items(), id))
		s.rec.Mutation(OpRemove, ResultOK)
		log.Debug("item removed")
		return nil
	}

	if err := s.backend.Delete(ctx, id); err != nil {
		s.rec.Mutation(OpRemove, ResultFailed)
		log.Warn("delete failed", zap.Error(err))
		return fmt.Errorf("delete item %d: %w", id, err)
	}

	items, err := s.backend.List(ctx)
	if err != nil {
		log.Warn("refresh after delete failed", zap.Error(err))
		items = cur.Items()
	}
	s.commit(without(items, id))
	s.rec.Mutation(OpRemove, ResultOK)
	log.Debug("item removed")
	return nil
}

// Close ends every subscription. The store stays readable.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for sub := range s.subs {
		sub.closeLocked()
	}
}

// commit installs items as the current snapshot and publishes it.
func (s *Store) commit(items []model.Item) {
	snap := model.NewSnapshot(items)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	for sub := range s.subs {
		sub.offer(snap)
	}
	s.rec.Items(snap.Len())
}

func without(items []model.Item, id int64) []model.Item {
	out := items[:0:0]
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

type nopRecorder struct{}

func (nopRecorder) Mutation(string, string) {}
func (nopRecorder) Items(int)               {}
