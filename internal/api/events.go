package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/balkashynov/tempus/internal/store"
)

// eventBuffer is how many notifications a slow client may fall behind before
// the oldest are dropped. Every event carries the full collection, so the
// newest one is always enough to catch up.
const eventBuffer = 16

// opSnapshot marks the first event of a stream, the state at connect time
const opSnapshot store.Op = "snapshot"

// streamEvents sends a snapshot followed by every store notification as
// server-sent events until the client goes away
func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, codeInternal, "streaming unsupported")
		return
	}

	ch := make(chan store.Event, eventBuffer)
	unsubscribe := s.store.Subscribe(func(ev store.Event) {
		for {
			select {
			case ch <- ev:
				return
			default:
			}
			select {
			case <-ch:
			default:
			}
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	snapshot := store.Event{Op: opSnapshot, Tasks: s.store.List(), Degraded: s.store.Degraded()}
	if err := writeEvent(w, snapshot); err != nil {
		return
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			if err := writeEvent(w, ev); err != nil {
				s.logger.Debug("event stream closed", "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, ev store.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Op, data)
	return err
}
