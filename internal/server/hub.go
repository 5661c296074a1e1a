package server

import (
	"sync"

	"PriceChart/internal/model"

	"github.com/google/uuid"
)

// Hub holds the current series and the live chart sessions.
type Hub struct {
	mu       sync.RWMutex
	series   model.Series
	sessions map[uuid.UUID]*Session
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{sessions: make(map[uuid.UUID]*Session)}
}

// Publish replaces the series and redraws every session.
func (h *Hub) Publish(series model.Series) {
	h.mu.Lock()
	h.series = series
	live := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		live = append(live, s)
	}
	h.mu.Unlock()

	for _, s := range live {
		s.chart.SetSeries(series)
	}
}

// Series returns the current series.
func (h *Hub) Series() model.Series {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.series
}

// Sessions returns the number of live sessions.
func (h *Hub) Sessions() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// attach registers s and mounts its chart on the current series.
// Mounting under the lock keeps a concurrent Publish from being missed.
func (h *Hub) attach(s *Session) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := s.chart.Mount(s.size, h.series); err != nil {
		return err
	}
	h.sessions[s.ID] = s
	return nil
}

func (h *Hub) detach(s *Session) {
	h.mu.Lock()
	delete(h.sessions, s.ID)
	h.mu.Unlock()
	s.chart.Unmount()
}
