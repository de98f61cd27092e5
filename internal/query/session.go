package query

import (
	"strings"
	"sync"
	"time"

	"github.com/starford/logoteca/internal/models"
	"github.com/starford/logoteca/internal/parser"
)

// ChangeFunc is called with the settled query after every applied change.
type ChangeFunc func(models.Query)

// Session owns the interactive query of one viewer. Filter selections apply
// immediately; search-term edits are debounced. Close cancels a pending edit
// so nothing fires after the session is gone.
type Session struct {
	deb      *Debouncer
	onChange ChangeFunc

	mu         sync.Mutex
	q          models.Query
	pending    string
	hasPending bool
	closed     bool
}

// NewSession creates a Session with the given debounce window.
// onChange may be nil.
func NewSession(window time.Duration, onChange ChangeFunc) *Session {
	return &Session{deb: NewDebouncer(window), onChange: onChange}
}

// Query returns a snapshot of the settled query.
func (s *Session) Query() models.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q
}

// Results filters logos with the settled query.
func (s *Session) Results(logos []models.Logo) []models.Logo {
	return Filter(logos, s.Query())
}

// SetSearchTerm records term and applies it once input goes quiet.
func (s *Session) SetSearchTerm(term string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.pending = term
	s.hasPending = true
	s.mu.Unlock()

	s.deb.Trigger(s.applyPending)
}

// Flush applies a pending search term immediately.
func (s *Session) Flush() {
	s.deb.Cancel()
	s.applyPending()
}

// ToggleColor selects color, or clears the color filter if it is already selected.
func (s *Session) ToggleColor(color string) {
	s.update(func(q *models.Query) {
		q.Color = Toggle(q.Color, strings.ToLower(strings.TrimSpace(color)))
	})
}

// ToggleType selects typ, or clears the type filter if it is already selected.
func (s *Session) ToggleType(typ string) {
	s.update(func(q *models.Query) {
		q.Type = Toggle(q.Type, parser.NormalizeType(typ))
	})
}

// Clear drops every filter and any pending search term.
func (s *Session) Clear() {
	s.deb.Cancel()
	s.update(func(q *models.Query) {
		*q = models.Query{}
		s.hasPending = false
	})
}

// Close cancels any pending search term and ignores later edits.
func (s *Session) Close() {
	s.deb.Stop()
	s.mu.Lock()
	s.closed = true
	s.hasPending = false
	s.mu.Unlock()
}

func (s *Session) applyPending() {
	s.mu.Lock()
	if s.closed || !s.hasPending {
		s.mu.Unlock()
		return
	}
	s.q.SearchTerm = s.pending
	s.hasPending = false
	q := s.q
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(q)
	}
}

func (s *Session) update(fn func(*models.Query)) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	fn(&s.q)
	q := s.q
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(q)
	}
}
