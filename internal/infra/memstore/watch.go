package memstore

import (
	"context"
	"sync"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
)

// watcher is one Watch subscription. deliverMu serializes callback
// invocation so a subscriber observes writes in commit order even when
// writers race.
type watcher struct {
	ownerID  string
	taskID   string
	onChange func(*domain.Task)

	deliverMu sync.Mutex
	stopped   bool
	lastSeq   int64
}

// delivery is a pending onChange call captured while the store mutex
// was held.
type delivery struct {
	w    *watcher
	task *domain.Task
	seq  int64
}

// Watch subscribes to changes of one task. The current state is
// delivered before Watch returns, then every committed write follows.
// A nil task signals the document is missing. onError is never called
// by the in-memory store.
func (s *Store) Watch(_ context.Context, ownerID, taskID string, onChange func(*domain.Task), _ func(error)) (func(), error) {
	w := &watcher{ownerID: ownerID, taskID: taskID, onChange: onChange}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = w
	s.seq++
	initial := delivery{w: w, seq: s.seq}
	if t, ok := s.owner(ownerID).tasks[taskID]; ok {
		initial.task = t.Clone()
	}
	s.mu.Unlock()

	deliver([]delivery{initial})

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers, id)
			s.mu.Unlock()
			// Taking deliverMu waits out an in-flight callback, so no
			// onChange runs after unsubscribe returns.
			w.deliverMu.Lock()
			w.stopped = true
			w.deliverMu.Unlock()
		})
	}
	return unsubscribe, nil
}

// eventLocked captures deliveries for a committed write. Caller holds
// s.mu; the callbacks run after it is released.
func (s *Store) eventLocked(ownerID, taskID string, task *domain.Task) []delivery {
	s.seq++
	var out []delivery
	for _, w := range s.watchers {
		if w.ownerID == ownerID && w.taskID == taskID {
			var clone *domain.Task
			if task != nil {
				clone = task.Clone()
			}
			out = append(out, delivery{w: w, task: clone, seq: s.seq})
		}
	}
	return out
}

func deliver(deliveries []delivery) {
	for _, d := range deliveries {
		d.w.deliverMu.Lock()
		if !d.w.stopped && d.seq > d.w.lastSeq {
			d.w.lastSeq = d.seq
			d.w.onChange(d.task)
		}
		d.w.deliverMu.Unlock()
	}
}
