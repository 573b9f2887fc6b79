package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/pyqhub/mcp-server/internal/indexing"
)

// ErrNotLoaded is returned by View before the first successful Reload.
var ErrNotLoaded = errors.New("question bank not loaded")

// LoadFunc produces a fresh catalog.
type LoadFunc func(ctx context.Context) (*Catalog, error)

// Snapshot pairs a catalog with the topic index built from its syllabus.
// Topics is nil when the index could not be built.
type Snapshot struct {
	Catalog *Catalog
	Topics  *indexing.TopicIndex

	// mu is held for reading by every in-flight view; retire takes it for
	// writing before closing Topics.
	mu      sync.RWMutex
	retired bool
}

// retire closes the snapshot's topic index once no view is using it.
func (snap *Snapshot) retire() error {
	snap.mu.Lock()
	defer snap.mu.Unlock()

	if snap.retired {
		return nil
	}
	snap.retired = true
	if snap.Topics == nil {
		return nil
	}
	return snap.Topics.Close()
}

// Store manages concurrent access to the current snapshot.
type Store struct {
	// current holds the active snapshot (atomic access for lock-free reads)
	current atomic.Pointer[Snapshot]

	// reloadMu prevents concurrent reloads
	// NOT used for reads - they only take the snapshot's read lock
	reloadMu sync.Mutex

	load LoadFunc
	log  *zap.Logger
}

// NewStore creates an empty store. Call Reload to load the first snapshot.
func NewStore(load LoadFunc, log *zap.Logger) *Store {
	return &Store{load: load, log: log}
}

// View runs fn against the current snapshot. The snapshot's topic index
// stays open until fn returns.
func (s *Store) View(fn func(*Snapshot) error) error {
	for {
		snap := s.current.Load()
		if snap == nil {
			return ErrNotLoaded
		}

		snap.mu.RLock()
		if snap.retired {
			// Swapped out between Load and RLock; the pointer already
			// holds its successor.
			snap.mu.RUnlock()
			continue
		}
		err := fn(snap)
		snap.mu.RUnlock()
		return err
	}
}

// Current returns the current catalog, or nil before the first load.
// Catalogs are immutable so the result stays valid after a reload.
func (s *Store) Current() *Catalog {
	snap := s.current.Load()
	if snap == nil {
		return nil
	}
	return snap.Catalog
}

// Reload loads a fresh catalog, rebuilds the topic index and swaps both in.
// Views already running keep using the old snapshot until they return.
// On failure the current snapshot stays in place.
func (s *Store) Reload(ctx context.Context) (*Snapshot, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()
	cat, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}

	snap := &Snapshot{Catalog: cat}
	topics := indexing.BuildTopics(cat.Syllabus)
	if idx, err := indexing.NewTopicIndex(topics); err != nil {
		s.log.Warn("topic index unavailable", zap.Error(err))
	} else {
		snap.Topics = idx
	}

	old := s.current.Swap(snap)
	s.log.Info("question bank swapped in",
		zap.Int("questions", len(cat.Questions)),
		zap.Int("topics", len(topics)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if old != nil {
		// Graceful cleanup of the old index in background
		go func() {
			if err := old.retire(); err != nil {
				s.log.Warn("error closing old topic index", zap.Error(err))
			}
		}()
	}

	return snap, nil
}

// Close releases the current snapshot once in-flight views finish.
func (s *Store) Close() error {
	snap := s.current.Swap(nil)
	if snap == nil {
		return nil
	}
	return snap.retire()
}
