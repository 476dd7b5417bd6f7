package pgstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
)

const (
	listenMinReconnect = 2 * time.Second
	listenMaxReconnect = time.Minute
)

// Watch subscribes to a task through a LISTEN connection. Each
// notification for the task triggers a re-read of the document; the
// re-read also runs after a listener reconnect, so a subscriber never
// stays stale after a dropped connection. The current state is
// delivered before Watch returns.
func (s *Store) Watch(ctx context.Context, ownerID, taskID string, onChange func(*domain.Task), onError func(error)) (func(), error) {
	listener := pq.NewListener(s.connStr, listenMinReconnect, listenMaxReconnect,
		func(_ pq.ListenerEventType, err error) {
			if err != nil && onError != nil {
				onError(fmt.Errorf("listener: %w", err))
			}
		})
	if err := listener.Listen(notifyChannel); err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("listen %s: %w", notifyChannel, err)
	}

	stop := make(chan struct{})
	var stopOnce sync.Once

	var deliverMu sync.Mutex
	stopped := false

	var lastRev int64 = -1
	var lastMissing bool

	refresh := func() {
		deliverMu.Lock()
		defer deliverMu.Unlock()
		if stopped {
			return
		}

		task, err := s.Get(ctx, ownerID, taskID)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
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

	refresh()

	key := ownerID + "/" + taskID
	go func() {
		defer func() { _ = listener.Close() }()
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case n := <-listener.Notify:
				// A nil notification marks a reconnect; anything could
				// have happened meanwhile, so re-read unconditionally.
				if n == nil || n.Extra == key {
					refresh()
				}
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
