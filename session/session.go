// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/danielhkuo/bale-scorer/metrics"
	"github.com/danielhkuo/bale-scorer/models"
	"github.com/danielhkuo/bale-scorer/scoring"
)

// Session owns the live bale for one profile. Mutations are serialized by
// the session mutex and applied in arrival order; each one hands a fresh
// snapshot to onChange.
type Session struct {
	mu       sync.Mutex
	profile  string
	slug     string
	bale     models.Bale
	focus    FocusMachine
	appState models.AppState

	// retired is set once a newer bale replaces this one; every later
	// mutation is stale
	retired bool

	collapseTens bool
	onChange     func(models.Bale)
	metrics      *metrics.Metrics
	now          func() time.Time
}

func newSession(profile, slug string, bale models.Bale) *Session {
	bale.Normalize()
	return &Session{
		profile:  profile,
		slug:     slug,
		bale:     bale,
		appState: models.AppState{View: models.ViewScoring, BaleID: bale.ID},
		now:      time.Now,
	}
}

func (s *Session) Profile() string { return s.profile }
func (s *Session) Slug() string    { return s.slug }

// Bale returns a copy of the current bale.
func (s *Session) Bale() models.Bale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bale.Clone()
}

func (s *Session) AppState() models.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appState
}

func (s *Session) FocusState() models.FocusState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focus.State()
}

// Focus gives the keypad to an arrow of the current end.
func (s *Session) Focus(archerID string, arrow int) (models.FocusState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.retired {
		return s.focus.State(), ErrStaleInput
	}
	if s.bale.Archer(archerID) == nil {
		return s.focus.State(), fmt.Errorf("%w: %s", ErrArcherNotFound, archerID)
	}
	if arrow < 1 || arrow > models.ArrowsPerEnd {
		return s.focus.State(), fmt.Errorf("%w: arrow %d", ErrInvalidInput, arrow)
	}

	s.focus.Focus(Slot{ArcherID: archerID, End: s.bale.CurrentEnd, Arrow: arrow})
	return s.focus.State(), nil
}

// CloseKeypad drops focus; input already in flight becomes stale.
func (s *Session) CloseKeypad() models.FocusState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focus.Close()
	return s.focus.State()
}

// Enter writes token into the focused slot and advances focus. An empty
// token clears the slot and leaves focus where it is.
func (s *Session) Enter(epoch uint64, token string) (models.FocusState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !scoring.IsValidScoreInput(token) {
		s.metrics.ScoreEntry(metrics.ResultRejected)
		return s.focus.State(), fmt.Errorf("%w: %q", ErrInvalidInput, token)
	}

	if s.retired {
		s.metrics.ScoreEntry(metrics.ResultStale)
		return s.focus.State(), ErrStaleInput
	}
	slot, err := s.focus.Current(epoch)
	if err != nil {
		s.metrics.ScoreEntry(metrics.ResultStale)
		return s.focus.State(), err
	}
	if slot.End != s.bale.CurrentEnd {
		s.focus.Close()
		s.metrics.ScoreEntry(metrics.ResultStale)
		return s.focus.State(), ErrStaleInput
	}

	tok := scoring.NormalizeToken(token, s.collapseTens)
	if err := s.write(slot, tok); err != nil {
		return s.focus.State(), err
	}
	if tok != "" {
		s.focus.Advance(s.archerOrder())
	}

	s.metrics.ScoreEntry(metrics.ResultOK)
	s.changed()
	return s.focus.State(), nil
}

// SetScore edits one arrow directly. Only the current end is editable.
func (s *Session) SetScore(archerID string, end, arrow int, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !scoring.IsValidScoreInput(token) {
		s.metrics.ScoreEntry(metrics.ResultRejected)
		return fmt.Errorf("%w: %q", ErrInvalidInput, token)
	}
	if arrow < 1 || arrow > models.ArrowsPerEnd {
		s.metrics.ScoreEntry(metrics.ResultRejected)
		return fmt.Errorf("%w: arrow %d", ErrInvalidInput, arrow)
	}
	if s.retired {
		s.metrics.ScoreEntry(metrics.ResultStale)
		return fmt.Errorf("%w: bale %s was replaced", ErrStaleInput, s.bale.ID)
	}
	if end != s.bale.CurrentEnd {
		s.metrics.ScoreEntry(metrics.ResultStale)
		return fmt.Errorf("%w: end %d is not open", ErrStaleInput, end)
	}

	slot := Slot{ArcherID: archerID, End: end, Arrow: arrow}
	if err := s.write(slot, scoring.NormalizeToken(token, s.collapseTens)); err != nil {
		return err
	}

	s.metrics.ScoreEntry(metrics.ResultOK)
	s.changed()
	return nil
}

// ChangeEnd closes the keypad and moves the current end pointer.
func (s *Session) ChangeEnd(n int) (models.Bale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changeEnd(n)
}

func (s *Session) NextEnd() (models.Bale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changeEnd(s.bale.CurrentEnd + 1)
}

func (s *Session) PrevEnd() (models.Bale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changeEnd(s.bale.CurrentEnd - 1)
}

// caller holds s.mu
func (s *Session) changeEnd(n int) (models.Bale, error) {
	if s.retired {
		return s.bale.Clone(), ErrStaleInput
	}
	if n < 1 || n > s.bale.TotalEnds {
		return s.bale.Clone(), fmt.Errorf("%w: %d", ErrInvalidEnd, n)
	}

	s.focus.Close()
	if n != s.bale.CurrentEnd {
		s.bale.CurrentEnd = n
		s.changed()
	}
	return s.bale.Clone(), nil
}

// retire closes the keypad, rejects further mutations and returns the
// final bale.
func (s *Session) retire() models.Bale {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retired = true
	s.focus.Close()
	return s.bale.Clone()
}

func (s *Session) setAppState(st models.AppState) {
	s.mu.Lock()
	s.appState = st
	s.mu.Unlock()
}

// caller holds s.mu
func (s *Session) write(slot Slot, tok string) error {
	a := s.bale.Archer(slot.ArcherID)
	if a == nil {
		return fmt.Errorf("%w: %s", ErrArcherNotFound, slot.ArcherID)
	}
	e := a.Scores.End(slot.End)
	e[slot.Arrow-1] = tok
	a.Scores[slot.End] = e
	return nil
}

func (s *Session) archerOrder() []string {
	ids := make([]string, len(s.bale.Archers))
	for i, a := range s.bale.Archers {
		ids[i] = a.ID
	}
	return ids
}

// caller holds s.mu
func (s *Session) changed() {
	s.bale.LastUpdated = s.now().UTC()
	if s.onChange != nil && !s.retired {
		s.onChange(s.bale.Clone())
	}
}
