package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
)

type sseEvent struct {
	name string
	data []byte
}

// streamTask serves one task's change feed as server-sent events. The
// first event is the current state; after that, one event per committed
// write. A nil document streams as "missing".
func (h *Handler) streamTask(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Latest-only queue: every event carries the full document, so a
	// pending stale event can be replaced instead of blocking the
	// store's delivery path.
	events := make(chan sseEvent, 1)
	push := func(ev sseEvent) {
		for {
			select {
			case events <- ev:
				return
			default:
				select {
				case <-events:
				default:
				}
			}
		}
	}

	onChange := func(task *domain.Task) {
		if task == nil {
			push(sseEvent{name: "missing", data: []byte("{}")})
			return
		}
		data, err := json.Marshal(task)
		if err != nil {
			push(sseEvent{name: "error", data: []byte(`{"error":"encode failed"}`)})
			return
		}
		push(sseEvent{name: "task", data: data})
	}
	onError := func(err error) {
		data, _ := json.Marshal(map[string]string{"error": err.Error()})
		push(sseEvent{name: "error", data: data})
	}

	unsubscribe, err := h.container.Tasks.Watch(r.Context(), ownerFromContext(r.Context()), r.PathValue("id"), onChange, onError)
	if err != nil {
		writeError(w, err)
		return
	}
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-events:
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.name, ev.data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
