package storefront

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jokads/JokaTech/internal/domain"
	"github.com/jokads/JokaTech/internal/events"
	"github.com/jokads/JokaTech/internal/handler"
	"github.com/jokads/JokaTech/internal/middleware"
	"github.com/jokads/JokaTech/internal/service"
)

const heartbeatInterval = 25 * time.Second

// EventsHandler streams a session's cart and auth changes as server-sent
// events so open tabs stay in sync.
type EventsHandler struct {
	bus       events.Bus
	cart      service.CartService
	logger    *slog.Logger
	heartbeat time.Duration
}

func NewEventsHandler(bus events.Bus, cart service.CartService, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		bus:       bus,
		cart:      cart,
		logger:    logger,
		heartbeat: heartbeatInterval,
	}
}

// Stream handles GET /events
//
// The first frame is a cart.changed snapshot of the current count, so a
// tab that connects late still renders the right badge.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	session, err := sessionID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		handler.ErrorResponse(w, r, domain.Errorf(domain.ENOTIMPL, "events.stream", "Streaming is not supported"))
		return
	}

	sub, err := h.bus.Subscribe(events.ForSession(session))
	if err != nil {
		handler.ErrorResponse(w, r, domain.Internal(err, "events.stream", "subscribe"))
		return
	}
	defer sub.Close()

	logger := middleware.GetLogger(r.Context(), h.logger)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	snapshot := events.NewCartChanged(session, h.cart.Count(r.Context(), session))
	if err := writeEvent(w, snapshot); err != nil {
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case e, ok := <-sub.C:
			if !ok {
				return
			}
			if err := writeEvent(w, e); err != nil {
				logger.Debug("event stream write failed", "error", err)
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, e events.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Type, data)
	return err
}
