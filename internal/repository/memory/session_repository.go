package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"spark-journal-be/pkg/spark/trigger"
)

// SessionRepository holds the per-entry trigger controllers for active
// editing sessions. Controllers are cheap; letting one expire after an hour
// of silence simply resets that entry's pacing state.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(key string, ctrl *trigger.Controller) {
	r.cache.Set(key, ctrl, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(key string) (*trigger.Controller, bool) {
	if x, found := r.cache.Get(key); found {
		return x.(*trigger.Controller), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(key string) {
	r.cache.Delete(key)
}
