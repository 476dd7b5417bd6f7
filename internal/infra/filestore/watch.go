package filestore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
)

const defaultPollInterval = 500 * time.Millisecond

// Watch subscribes to a task by polling the store file. Other processes
// share the file, so there is no in-process write hook to rely on;
// revision comparison detects changes instead. The current state is
// delivered before Watch returns.
func (s *Store) Watch(ctx context.Context, ownerID, taskID string, onChange func(*domain.Task), onError func(error)) (func(), error) {
	stop := make(chan struct{})
	var stopOnce sync.Once

	// deliverMu keeps callbacks ordered and lets unsubscribe wait out an
	// in-flight callback.
	var deliverMu sync.Mutex
	stopped := false

	var lastRev int64 = -1 // -1 = nothing delivered yet
	var lastMissing bool

	poll := func() {
		deliverMu.Lock()
		defer deliverMu.Unlock()
		if stopped {
			return
		}

		task, err := s.Get(ctx, ownerID, taskID)
		if err != nil {
			if errors.Is(err, domain.ErrNotInitialized) {
				err = nil // Treat an uninitialized store as a missing task.
			} else {
				if onError != nil {
					onError(err)
				}
				return
			}
		}

		if task == nil {
			if lastRev == -1 || !lastMissing {
				lastRev = 0
				lastMissing = true
				onChange(nil)
			}
			return
		}
		if lastMissing || task.Rev != lastRev {
			lastRev = task.Rev
			lastMissing = false
			onChange(task)
		}
	}

	poll()

	go func() {
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				poll()
			}
		}
	}()

	unsubscribe := func() {
		stopOnce.Do(func() {
			close(stop)
			deliverMu.Lock()
			stopped = true
			deliverMu.Unlock()
		})
	}
	return unsubscribe, nil
}
