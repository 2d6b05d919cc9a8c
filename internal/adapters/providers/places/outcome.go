package places

import (
	"sync"
	"time"

	"github.com/ayursutra/wellness-portal/internal/domain/entities"
	"github.com/ayursutra/wellness-portal/internal/domain/providers"
)

// outcomeTracker remembers how the latest search ended
type outcomeTracker struct {
	mu   sync.RWMutex
	last providers.SearchOutcome
}

// record stores the outcome of a search and returns a never-nil result slice
func (t *outcomeTracker) record(centres []entities.Centre, err error) ([]entities.Centre, error) {
	outcome := providers.SearchOutcome{At: time.Now()}
	switch {
	case err != nil:
		centres = nil
		outcome.Status = providers.SearchStatusFailed
		outcome.Err = err
	case len(centres) == 0:
		outcome.Status = providers.SearchStatusZeroResults
	default:
		outcome.Status = providers.SearchStatusOK
		outcome.Count = len(centres)
	}

	t.mu.Lock()
	t.last = outcome
	t.mu.Unlock()

	if centres == nil {
		centres = []entities.Centre{}
	}
	return centres, err
}

func (t *outcomeTracker) LastOutcome() providers.SearchOutcome {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last
}
