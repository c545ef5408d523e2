package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/driverwallet/shift-backend-go/internal/domain/shift"
	"github.com/driverwallet/shift-backend-go/internal/pkg/jwt"
	"github.com/driverwallet/shift-backend-go/internal/pkg/sse"
)

type StatusStreamHandler interface {
	Stream(w http.ResponseWriter, r *http.Request)
}

type statusStreamHandlerImpl struct {
	shiftService shift.ShiftService
	jwtService   jwt.Service
	hub          *sse.Hub
	interval     time.Duration
	keepalive    time.Duration
	clock        func() time.Time
}

func NewStatusStreamHandler(shiftService shift.ShiftService, jwtService jwt.Service, hub *sse.Hub, interval time.Duration, clock func() time.Time) StatusStreamHandler {
	if interval <= 0 {
		interval = time.Second
	}
	if clock == nil {
		clock = time.Now
	}
	return &statusStreamHandlerImpl{
		shiftService: shiftService,
		jwtService:   jwtService,
		hub:          hub,
		interval:     interval,
		keepalive:    30 * time.Second,
		clock:        clock,
	}
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, name string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		slog.Error("failed to encode stream event", "event", name, "error", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, payload)
	flusher.Flush()
}

// Stream pushes the dashboard status on every tick and forwards hub events.
// EventSource cannot send headers, so the short-lived token comes in the query.
func (h *statusStreamHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	subject, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(subject)
	defer cleanup()
	slog.Debug("status stream opened", "subject", subject, "subscribers", h.hub.SubscriberCount(subject))

	sendStatus := func() {
		st, err := h.shiftService.GetDashboardStatus(r.Context(), h.clock())
		if err != nil {
			slog.Error("status stream: failed to compute status", "error", err)
			return
		}
		writeEvent(w, flusher, "status", shift.NewDashboardStatusResponse(st))
	}
	sendStatus()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			writeEvent(w, flusher, event.Name, event.Data)

		case <-ticker.C:
			sendStatus()

		case <-keepalive.C:
			writeEvent(w, flusher, "ping", map[string]int64{"timestamp": h.clock().Unix()})

		case <-r.Context().Done():
			return
		}
	}
}
