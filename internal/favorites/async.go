package favorites

import (
	"slices"
	"sync"

	"go.uber.org/zap"

	"devsearch/internal/domain"
)

const defaultAsyncQueue = 64

// AsyncSaver hands saves to a background worker so Save returns without
// waiting on storage I/O. Snapshots are written strictly in the order Save
// was called; none is dropped or merged.
type AsyncSaver struct {
	next  Persister
	queue chan asyncItem
	done  chan struct{}
	log   *zap.Logger

	mu     sync.RWMutex
	closed bool
}

type asyncItem struct {
	accounts []domain.Account
}

// NewAsyncSaver starts a worker that forwards saves to next. A queue size
// below one selects the default.
func NewAsyncSaver(next Persister, queue int, logger *zap.Logger) *AsyncSaver {
	if queue < 1 {
		queue = defaultAsyncQueue
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AsyncSaver{
		next:  next,
		queue: make(chan asyncItem, queue),
		done:  make(chan struct{}),
		log:   logger.Named("favorites"),
	}
	go s.run()
	return s
}

// Load reads synchronously from the wrapped persister.
func (s *AsyncSaver) Load() []domain.Account {
	return s.next.Load()
}

// Save enqueues a copy of accounts. It only waits when the queue is full.
// After Close, Save writes synchronously.
func (s *AsyncSaver) Save(accounts []domain.Account) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		s.next.Save(accounts)
		return
	}
	s.queue <- asyncItem{accounts: slices.Clone(accounts)}
}

// Close drains pending saves and stops the worker.
func (s *AsyncSaver) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	close(s.queue)
	<-s.done
	return nil
}

func (s *AsyncSaver) run() {
	defer close(s.done)
	for item := range s.queue {
		s.next.Save(item.accounts)
	}
	s.log.Debug("async favorites writer stopped")
}

// Compile-time assertion that AsyncSaver implements Persister.
var _ Persister = (*AsyncSaver)(nil)
