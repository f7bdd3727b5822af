package draft

import (
	"strconv"
	"summabot/internal/cache"
	"summabot/internal/domain"
	"time"
)

const storeMaxEntries = 4096

// Store keeps one draft per chat in memory. Drafts expire ttl after their
// last update.
type Store struct {
	drafts *cache.LRU[domain.Draft]
	ttl    time.Duration
	now    func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		drafts: cache.NewLRU[domain.Draft](storeMaxEntries),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *Store) Get(chatID int64) domain.Draft {
	d, _ := s.drafts.Get(key(chatID), s.now())

	return d
}

// Update applies fn to the chat's current draft and stores the result.
func (s *Store) Update(chatID int64, fn func(*domain.Draft)) domain.Draft {
	now := s.now()

	d, _ := s.drafts.Get(key(chatID), now)
	fn(&d)
	d.UpdatedAt = now

	s.drafts.Set(key(chatID), d, now.Add(s.ttl), now)

	return d
}

func (s *Store) Clear(chatID int64) {
	s.drafts.Delete(key(chatID))
}

func (s *Store) Prune(now time.Time) int {
	return s.drafts.Prune(now)
}

func key(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
