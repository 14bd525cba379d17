package favorites

import (
	"io"
	"slices"
	"sync"

	"go.uber.org/zap"

	"devsearch/internal/domain"
)

// Store is the authoritative in-memory favorites collection.
//
// Accounts are kept in insertion order with unique IDs. Every mutation is
// followed, before it returns, by exactly one Save of the resulting
// collection, and then by a notification to all subscribers.
type Store struct {
	mu        sync.Mutex
	accounts  []domain.Account
	persister Persister
	log       *zap.Logger

	redundantWrites bool

	seq uint64 // commits so far; guarded by mu

	// Deliveries run in seq order: commit n is delivered once n-1 is done.
	notifyMu   sync.Mutex
	notifyCond *sync.Cond
	delivered  uint64

	subMu   sync.Mutex
	subs    []subscription
	nextSub int
}

type subscription struct {
	id int
	fn func([]domain.Account)
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used by the store.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l.Named("favorites")
		}
	}
}

// WithRedundantWrites makes Add persist the collection even when the account
// is already present and nothing changed.
func WithRedundantWrites(on bool) Option {
	return func(s *Store) { s.redundantWrites = on }
}

// NewStore returns a Store seeded from p.Load. Seeding completes before
// NewStore returns, so no caller can observe an unseeded collection.
func NewStore(p Persister, opts ...Option) *Store {
	s := &Store{persister: p, log: zap.NewNop()}
	s.notifyCond = sync.NewCond(&s.notifyMu)
	for _, opt := range opts {
		opt(s)
	}

	loaded := p.Load()
	s.accounts = make([]domain.Account, 0, len(loaded))
	for _, a := range loaded {
		if s.indexOf(a.ID) >= 0 {
			s.log.Warn("dropping duplicate persisted favorite", zap.Int64("id", int64(a.ID)))
			continue
		}
		s.accounts = append(s.accounts, a)
	}
	s.log.Debug("favorites store ready", zap.Int("count", len(s.accounts)))
	return s
}

// Add appends a to the collection. If an account with the same ID is already
// present the collection is left unchanged, including that account's position.
func (s *Store) Add(a domain.Account) {
	s.mu.Lock()
	if s.indexOf(a.ID) >= 0 {
		var (
			snap []domain.Account
			seq  uint64
		)
		if s.redundantWrites {
			snap, seq = s.commitLocked()
		}
		s.mu.Unlock()
		s.log.Debug("favorite already present", zap.Int64("id", int64(a.ID)))
		if seq != 0 {
			s.notify(seq, snap)
		}
		return
	}
	s.accounts = append(s.accounts, a)
	snap, seq := s.commitLocked()
	s.mu.Unlock()

	s.log.Info("favorite added", zap.Int64("id", int64(a.ID)), zap.String("login", a.Login.String()))
	s.notify(seq, snap)
}

// Remove drops the account with the given ID, if present.
func (s *Store) Remove(id domain.AccountID) {
	s.mu.Lock()
	removed := false
	if i := s.indexOf(id); i >= 0 {
		s.accounts = slices.Delete(s.accounts, i, i+1)
		removed = true
	}
	snap, seq := s.commitLocked()
	s.mu.Unlock()

	if removed {
		s.log.Info("favorite removed", zap.Int64("id", int64(id)))
	}
	s.notify(seq, snap)
}

// Clear empties the collection.
func (s *Store) Clear() {
	s.mu.Lock()
	n := len(s.accounts)
	s.accounts = s.accounts[:0:0]
	snap, seq := s.commitLocked()
	s.mu.Unlock()

	s.log.Info("favorites cleared", zap.Int("removed", n))
	s.notify(seq, snap)
}

// Contains reports whether an account with the given ID is present.
func (s *Store) Contains(id domain.AccountID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id) >= 0
}

// Count returns the number of favorites.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts)
}

// Get returns the favorited account with the given ID.
func (s *Store) Get(id domain.AccountID) (domain.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.accounts[i], true
	}
	return domain.Account{}, false
}

// List returns a copy of the collection, oldest favorite first.
func (s *Store) List() []domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.accounts)
}

// Subscribe registers fn to receive the collection after every persisted
// mutation. Subscribers are called in registration order, outside the store
// lock, and notifications arrive in the order the mutations were persisted.
// A subscriber may query the store but must not mutate it. The returned func
// cancels the subscription.
func (s *Store) Subscribe(fn func([]domain.Account)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			s.subs = slices.DeleteFunc(s.subs, func(sub subscription) bool { return sub.id == id })
		})
	}
}

// Close releases the persister if it holds resources, flushing pending writes.
func (s *Store) Close() error {
	if c, ok := s.persister.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// commitLocked writes the current collection through and returns the
// snapshot that was written with its sequence number. s.mu must be held.
func (s *Store) commitLocked() ([]domain.Account, uint64) {
	snap := slices.Clone(s.accounts)
	if snap == nil {
		snap = []domain.Account{}
	}
	s.persister.Save(snap)
	s.seq++
	return snap, s.seq
}

// notify delivers commit seq to subscribers after every earlier commit has
// been delivered. No store lock is held while subscribers run.
func (s *Store) notify(seq uint64, snap []domain.Account) {
	s.notifyMu.Lock()
	for s.delivered != seq-1 {
		s.notifyCond.Wait()
	}
	s.notifyMu.Unlock()
	defer func() {
		s.notifyMu.Lock()
		s.delivered = seq
		s.notifyCond.Broadcast()
		s.notifyMu.Unlock()
	}()

	s.subMu.Lock()
	subs := slices.Clone(s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(slices.Clone(snap))
	}
}

func (s *Store) indexOf(id domain.AccountID) int {
	return slices.IndexFunc(s.accounts, func(a domain.Account) bool { return a.ID == id })
}
