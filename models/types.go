package models

import "time"

// Views the client can be restored into
const (
	ViewSetup     = "setup"
	ViewScoring   = "scoring"
	ViewScorecard = "scorecard"
	ViewSummary   = "summary"
)

func IsValidView(v string) bool {
	switch v {
	case ViewSetup, ViewScoring, ViewScorecard, ViewSummary:
		return true
	}
	return false
}

// Domain types

type Archer struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Target         string    `json:"target"`
	Classification string    `json:"classification,omitempty"`
	Scores         Scorecard `json:"scores"`
}

type Bale struct {
	ID          string    `json:"id"`
	BaleNumber  int       `json:"bale_number"`
	Archers     []Archer  `json:"archers"`
	CurrentEnd  int       `json:"current_end"`
	TotalEnds   int       `json:"total_ends"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}

// Archer returns a pointer into b.Archers, or nil.
func (b *Bale) Archer(id string) *Archer {
	for i := range b.Archers {
		if b.Archers[i].ID == id {
			return &b.Archers[i]
		}
	}
	return nil
}

// Clone returns a deep copy safe to hand to other goroutines.
func (b Bale) Clone() Bale {
	out := b
	out.Archers = make([]Archer, len(b.Archers))
	for i, a := range b.Archers {
		a.Scores = make(Scorecard, len(b.Archers[i].Scores))
		for n, e := range b.Archers[i].Scores {
			a.Scores[n] = e
		}
		out.Archers[i] = a
	}
	return out
}

// Normalize fixes documents written by older clients: missing end count,
// out of range current end, missing score maps.
func (b *Bale) Normalize() {
	if b.TotalEnds != TotalEnds {
		b.TotalEnds = TotalEnds
	}
	if b.CurrentEnd < 1 {
		b.CurrentEnd = 1
	}
	if b.CurrentEnd > b.TotalEnds {
		b.CurrentEnd = b.TotalEnds
	}
	for i := range b.Archers {
		if b.Archers[i].Scores == nil {
			b.Archers[i].Scores = Scorecard{}
		}
		for n := 1; n <= TotalEnds; n++ {
			if _, ok := b.Archers[i].Scores[n]; !ok {
				b.Archers[i].Scores[n] = End{}
			}
		}
		for n := range b.Archers[i].Scores {
			if n < 1 || n > TotalEnds {
				delete(b.Archers[i].Scores, n)
			}
		}
	}
}

type AppState struct {
	View     string    `json:"view"`
	BaleID   string    `json:"bale_id,omitempty"`
	ArcherID string    `json:"archer_id,omitempty"`
	SavedAt  time.Time `json:"saved_at"`
}

type Profile struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Classification string    `json:"classification,omitempty"`
	DefaultTarget  string    `json:"default_target,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Request types

type ArcherSetup struct {
	ProfileID      string `json:"profile_id,omitempty"`
	Name           string `json:"name"`
	Target         string `json:"target"`
	Classification string `json:"classification,omitempty"`
}

type StartBaleRequest struct {
	BaleNumber int           `json:"bale_number"`
	Archers    []ArcherSetup `json:"archers"`
}

type ChangeEndRequest struct {
	End int `json:"end"`
}

type FocusRequest struct {
	ArcherID string `json:"archer_id"`
	Arrow    int    `json:"arrow"` // 1-indexed
}

type KeypadEntryRequest struct {
	Epoch uint64 `json:"epoch"`
	Token string `json:"token"`
}

type SetScoreRequest struct {
	ArcherID string `json:"archer_id"`
	End      int    `json:"end"`
	Arrow    int    `json:"arrow"` // 1-indexed
	Token    string `json:"token"`
}

type SaveAppStateRequest struct {
	View     string `json:"view"`
	ArcherID string `json:"archer_id,omitempty"`
}

type CreateProfileRequest struct {
	Name           string `json:"name"`
	Classification string `json:"classification,omitempty"`
	DefaultTarget  string `json:"default_target,omitempty"`
}

// Response types

type StartBaleResponse struct {
	Bale     Bale   `json:"bale"`
	ViewSlug string `json:"view_slug"`
}

type FocusState struct {
	Focused  bool   `json:"focused"`
	ArcherID string `json:"archer_id,omitempty"`
	End      int    `json:"end,omitempty"`
	Arrow    int    `json:"arrow,omitempty"`
	Epoch    uint64 `json:"epoch"`
}

type RestoreResponse struct {
	View     string `json:"view"`
	ArcherID string `json:"archer_id,omitempty"`
	Bale     *Bale  `json:"bale,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
