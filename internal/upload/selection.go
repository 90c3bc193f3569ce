package upload

import "sync"

// DragState is the hover state of the drop zone.
type DragState int

const (
	DragIdle DragState = iota
	DragDragging
)

func (d DragState) String() string {
	if d == DragDragging {
		return "dragging"
	}
	return "idle"
}

// Selection holds at most one valid Candidate plus the drop zone's drag
// state. Invalid candidates never replace the current one.
type Selection struct {
	mu           sync.RWMutex
	current      *Candidate
	lastRejected string
	drag         DragState
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{}
}

// Select replaces the current candidate with c if c is a spreadsheet.
// An invalid c is ignored and false is returned; its name is remembered
// for LastRejected.
func (s *Selection) Select(c Candidate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectLocked(c)
}

func (s *Selection) selectLocked(c Candidate) bool {
	if !c.Valid() {
		s.lastRejected = c.Name
		return false
	}
	s.current = &c
	s.lastRejected = ""
	return true
}

// Clear removes the current candidate.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.lastRejected = ""
}

// Current returns the selected candidate, if any.
func (s *Selection) Current() (Candidate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Candidate{}, false
	}
	return *s.current, true
}

// LastRejected returns the name of the most recent candidate that was
// refused, or "" if the last attempt succeeded or the selection was cleared.
func (s *Selection) LastRejected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRejected
}

// Drag returns the drop zone state.
func (s *Selection) Drag() DragState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.drag
}

// DragEnter marks a drag as hovering over the drop zone.
func (s *Selection) DragEnter() {
	s.mu.Lock()
	s.drag = DragDragging
	s.mu.Unlock()
}

// DragLeave returns the drop zone to idle without selecting anything.
func (s *Selection) DragLeave() {
	s.mu.Lock()
	s.drag = DragIdle
	s.mu.Unlock()
}

// Drop ends a drag. Only the first dropped candidate is considered, and it
// goes through the same validation as Select.
func (s *Selection) Drop(cands ...Candidate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag = DragIdle
	if len(cands) == 0 {
		return false
	}
	return s.selectLocked(cands[0])
}
