// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import "github.com/danielhkuo/bale-scorer/models"

// Slot addresses one arrow on the scorecard.
type Slot struct {
	ArcherID string
	End      int
	Arrow    int // 1-indexed
}

// FocusMachine tracks which slot owns the keypad. At most one slot is
// focused. Every Focus and Close starts a new epoch; input carrying an
// older epoch is stale. Not safe for concurrent use; Session guards it.
type FocusMachine struct {
	slot    Slot
	focused bool
	epoch   uint64
}

// Focus moves the keypad to s and returns the new epoch.
func (f *FocusMachine) Focus(s Slot) uint64 {
	f.epoch++
	f.slot = s
	f.focused = true
	return f.epoch
}

// Blur unfocuses without invalidating the epoch.
func (f *FocusMachine) Blur() {
	f.focused = false
}

// Close unfocuses and invalidates any outstanding input.
func (f *FocusMachine) Close() {
	f.focused = false
	f.slot = Slot{}
	f.epoch++
}

// Current returns the focused slot if epoch is still live.
func (f *FocusMachine) Current(epoch uint64) (Slot, error) {
	if !f.focused || epoch != f.epoch {
		return Slot{}, ErrStaleInput
	}
	return f.slot, nil
}

// Advance moves to the next arrow of the same archer, then to arrow 1 of
// the next archer in order. After the last archer the keypad closes.
func (f *FocusMachine) Advance(order []string) {
	if !f.focused {
		return
	}
	if f.slot.Arrow < models.ArrowsPerEnd {
		f.slot.Arrow++
		return
	}

	for i, id := range order {
		if id == f.slot.ArcherID && i+1 < len(order) {
			f.slot.ArcherID = order[i+1]
			f.slot.Arrow = 1
			return
		}
	}
	f.Close()
}

func (f *FocusMachine) State() models.FocusState {
	st := models.FocusState{Focused: f.focused, Epoch: f.epoch}
	if f.focused {
		st.ArcherID = f.slot.ArcherID
		st.End = f.slot.End
		st.Arrow = f.slot.Arrow
	}
	return st
}
