package blobstore

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
)

// CachingStore wraps a Store with an in-memory LRU cache of whole blobs.
//
// Capture blobs are immutable once written, and a pairwise cascade over n
// groups opens each group's blob up to n-1 times per batch, so caching the
// decoded bytes across jobs saves most of the backend reads. Open reads the
// whole blob on a miss; blobs larger than the cache capacity bypass it.
//
// Writes invalidate: Put and Delete evict the named blob before delegating,
// so a re-uploaded capture is never served stale.
type CachingStore struct {
	inner    Store
	capacity int64

	mu    sync.Mutex
	size  int64
	items map[string]*list.Element
	evict *list.List

	hits   atomic.Int64
	misses atomic.Int64
}

type cacheEntry struct {
	name string
	data []byte
}

// DefaultCacheCapacity is used when NewCachingStore gets a capacity <= 0.
const DefaultCacheCapacity = 256 << 20

// NewCachingStore wraps inner with an LRU blob cache of the given capacity
// in bytes.
func NewCachingStore(inner Store, capacity int64) *CachingStore {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &CachingStore{
		inner:    inner,
		capacity: capacity,
		items:    make(map[string]*list.Element),
		evict:    list.New(),
	}
}

// Open returns a blob served from cache when possible. The returned blob is
// a read-only view backed by shared cache memory.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	if data, ok := s.get(name); ok {
		return &memoryBlob{data: data}, nil
	}

	data, err := ReadAll(ctx, s.inner, name)
	if err != nil {
		return nil, err
	}
	s.set(name, data)
	return &memoryBlob{data: data}, nil
}

// Put writes a blob through to the inner store, evicting any cached copy.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.invalidate(name)
	return s.inner.Put(ctx, name, data)
}

// Delete removes a blob from the inner store and the cache.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.invalidate(name)
	return s.inner.Delete(ctx, name)
}

// List delegates to the inner store.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Stats returns cache hit/miss counters.
func (s *CachingStore) Stats() (hits, misses int64) {
	return s.hits.Load(), s.misses.Load()
}

func (s *CachingStore) get(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.items[name]; ok {
		s.hits.Add(1)
		s.evict.MoveToFront(ent)
		return ent.Value.(*cacheEntry).data, true
	}
	s.misses.Add(1)
	return nil, false
}

func (s *CachingStore) set(name string, data []byte) {
	itemSize := int64(len(data))
	if itemSize > s.capacity {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.items[name]; ok {
		// Concurrent miss already filled the slot; refresh it.
		s.size += itemSize - int64(len(ent.Value.(*cacheEntry).data))
		ent.Value.(*cacheEntry).data = data
		s.evict.MoveToFront(ent)
	} else {
		s.items[name] = s.evict.PushFront(&cacheEntry{name: name, data: data})
		s.size += itemSize
	}

	for s.size > s.capacity {
		oldest := s.evict.Back()
		if oldest == nil {
			break
		}
		s.removeElement(oldest)
	}
}

func (s *CachingStore) invalidate(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.items[name]; ok {
		s.removeElement(ent)
	}
}

// removeElement drops an entry; callers hold s.mu.
func (s *CachingStore) removeElement(ent *list.Element) {
	e := ent.Value.(*cacheEntry)
	s.evict.Remove(ent)
	delete(s.items, e.name)
	s.size -= int64(len(e.data))
}
