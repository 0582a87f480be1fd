package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// RunGuard tracks notebooks with an in-flight research task so a second
// submission cannot race the worker. Entries expire on their own in case a
// worker dies without clearing its mark.
type RunGuard struct {
	cache *cache.Cache
}

func NewRunGuard() *RunGuard {
	// Default expiration of 30 minutes, purge sweep every 5.
	c := cache.New(30*time.Minute, 5*time.Minute)
	return &RunGuard{
		cache: c,
	}
}

// TryAcquire marks the notebook as running. Returns false if already marked.
func (g *RunGuard) TryAcquire(notebookId uuid.UUID) bool {
	err := g.cache.Add(notebookId.String(), true, cache.DefaultExpiration)
	return err == nil
}

func (g *RunGuard) Release(notebookId uuid.UUID) {
	g.cache.Delete(notebookId.String())
}

func (g *RunGuard) IsRunning(notebookId uuid.UUID) bool {
	_, found := g.cache.Get(notebookId.String())
	return found
}
