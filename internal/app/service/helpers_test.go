package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ikkim/freshcart-backend/internal/app/model"
	"github.com/ikkim/freshcart-backend/internal/app/repository"
	"github.com/ikkim/freshcart-backend/internal/storage"
	"github.com/ikkim/freshcart-backend/pkg/logger"
)

var errStoreDown = errors.New("store unavailable")

func init() {
	logger.Initialize(logger.Config{Level: "disabled"})
}

// flakyStore wraps a MemoryStore and fails reads or writes on demand
type flakyStore struct {
	*storage.MemoryStore
	mu       sync.Mutex
	failGet  bool
	failPut  bool
	putCount int
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: storage.NewMemoryStore()}
}

func (s *flakyStore) setFailures(get, put bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failGet, s.failPut = get, put
}

func (s *flakyStore) puts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putCount
}

func (s *flakyStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	fail := s.failGet
	s.mu.Unlock()
	if fail {
		return nil, errStoreDown
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *flakyStore) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	fail := s.failPut
	if !fail {
		s.putCount++
	}
	s.mu.Unlock()
	if fail {
		return errStoreDown
	}
	return s.MemoryStore.Put(ctx, key, value)
}

// recordingPublisher keeps every published snapshot
type recordingPublisher struct {
	mu        sync.Mutex
	snapshots [][]model.CartLine
}

func (p *recordingPublisher) Publish(lines []model.CartLine) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshots = append(p.snapshots, lines)
}

func (p *recordingPublisher) Close() {}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.snapshots)
}

func (p *recordingPublisher) last() []model.CartLine {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.snapshots) == 0 {
		return nil
	}
	return p.snapshots[len(p.snapshots)-1]
}

const testWriteTimeout = time.Second

func newCatalog(t *testing.T, store storage.Store) CatalogService {
	t.Helper()
	catalog := NewCatalogService(repository.NewProductRepository(store), testWriteTimeout)
	catalog.Load(context.Background())
	return catalog
}
