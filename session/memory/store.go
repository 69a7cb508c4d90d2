package memory

import (
	"context"
	"sync"
	"time"

	"github.com/w-h-a/bookflow/session"
)

type entry struct {
	mtx     sync.Mutex
	data    session.Context
	expires time.Time
}

type memoryStore struct {
	options session.Options
	entries map[string]*entry
	mtx     sync.Mutex
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

func (s *memoryStore) Get(ctx context.Context, id string) (session.Context, error) {
	s.mtx.Lock()
	e, ok := s.entries[id]
	s.mtx.Unlock()

	if !ok {
		return session.Context{SessionId: id}, nil
	}

	e.mtx.Lock()
	defer e.mtx.Unlock()

	now := s.now()
	if now.After(e.expires) {
		return session.Context{SessionId: id}, nil
	}

	e.expires = now.Add(s.options.TTL)

	return e.data.Clone(), nil
}

func (s *memoryStore) Update(ctx context.Context, id string, fn func(*session.Context) error) (session.Context, error) {
	for {
		if err := ctx.Err(); err != nil {
			return session.Context{}, err
		}

		e := s.entryFor(id)

		e.mtx.Lock()

		// the janitor may have evicted e while we waited for its lock
		s.mtx.Lock()
		current := s.entries[id]
		s.mtx.Unlock()

		if current != e {
			e.mtx.Unlock()
			continue
		}

		now := s.now()
		if now.After(e.expires) {
			e.data = session.Context{SessionId: id}
		}

		work := e.data.Clone()
		if err := fn(&work); err != nil {
			e.mtx.Unlock()
			return session.Context{}, err
		}

		work.SessionId = id
		work.UpdatedAt = now
		if s.options.Window > 0 && len(work.Turns) > s.options.Window {
			work.Turns = append([]session.Turn(nil), work.Turns[len(work.Turns)-s.options.Window:]...)
		}

		e.data = work
		e.expires = now.Add(s.options.TTL)

		out := work.Clone()
		e.mtx.Unlock()

		return out, nil
	}
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	delete(s.entries, id)
	return nil
}

func (s *memoryStore) Close() error {
	s.once.Do(func() {
		close(s.stop)
	})
	return nil
}

func (s *memoryStore) entryFor(id string) *entry {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	e, ok := s.entries[id]
	if !ok {
		e = &entry{
			data:    session.Context{SessionId: id},
			expires: s.now().Add(s.options.TTL),
		}
		s.entries[id] = e
	}

	return e
}

func (s *memoryStore) evict() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	now := s.now()
	evicted := 0

	for id, e := range s.entries {
		if !e.mtx.TryLock() {
			continue
		}
		if now.After(e.expires) {
			delete(s.entries, id)
			evicted++
		}
		e.mtx.Unlock()
	}

	return evicted
}

func (s *memoryStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.evict()
		}
	}
}

func NewStore(opts ...session.Option) session.Store {
	options := session.NewOptions(opts...)

	s := &memoryStore{
		options: options,
		entries: map[string]*entry{},
		now:     time.Now,
		stop:    make(chan struct{}),
	}

	interval := options.TTL / 2
	if interval < time.Second {
		interval = time.Second
	}

	go s.janitor(interval)

	return s
}
