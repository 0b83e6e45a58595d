// Package navigation models the arena → date → court → hour → videos
// selection chain. Every step receives its full context as a Params bundle;
// there is no shared state between steps.
package navigation

import (
	"fmt"
	"net/url"
	"strconv"

	"sportftv-backend/internal/datefmt"
	"sportftv-backend/internal/models"
)

type Step int

const (
	StepArenas Step = iota
	StepDates
	StepCourts
	StepHours
	StepVideos
	StepPlaying
)

var stepNames = [...]string{"arenas", "dates", "courts", "hours", "videos", "playing"}

func (s Step) String() string {
	if s < StepArenas || s > StepPlaying {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return stepNames[s]
}

// Query parameter names. They double as the JSON keys of the bundle.
const (
	KeyArenaID      = "arenaId"
	KeyArenaName    = "arenaName"
	KeySelectedDate = "selectedDate"
	KeyQuadraID     = "quadraId"
	KeyQuadraName   = "quadraName"
	KeySelectedHour = "selectedHour"
	KeyVideoID      = "videoId"
)

// Params is the bundle handed from one selection step to the next.
type Params struct {
	ArenaID      string `json:"arenaId,omitempty"`
	ArenaName    string `json:"arenaName,omitempty"`
	SelectedDate string `json:"selectedDate,omitempty"`
	QuadraID     string `json:"quadraId,omitempty"`
	QuadraName   string `json:"quadraName,omitempty"`
	SelectedHour *int   `json:"selectedHour,omitempty"`
	VideoID      string `json:"videoId,omitempty"`
}

// InvalidError reports a malformed bundle. Field is the offending key.
type InvalidError struct {
	Field  string
	Reason string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("navigation: %s: %s", e.Field, e.Reason)
}

// Step returns the deepest state the bundle has reached.
func (p Params) Step() Step {
	switch {
	case p.VideoID != "":
		return StepPlaying
	case p.SelectedHour != nil:
		return StepVideos
	case p.QuadraID != "":
		return StepHours
	case p.SelectedDate != "":
		return StepCourts
	case p.ArenaID != "":
		return StepDates
	default:
		return StepArenas
	}
}

// Validate rejects bundles that skip a step and malformed dates or hours.
// It does not check that the keys exist in the store.
func (p Params) Validate() error {
	chain := []struct {
		key string
		set bool
	}{
		{KeyArenaID, p.ArenaID != ""},
		{KeySelectedDate, p.SelectedDate != ""},
		{KeyQuadraID, p.QuadraID != ""},
		{KeySelectedHour, p.SelectedHour != nil},
		{KeyVideoID, p.VideoID != ""},
	}
	for i := 1; i < len(chain); i++ {
		if chain[i].set && !chain[i-1].set {
			return &InvalidError{Field: chain[i].key, Reason: "requires " + chain[i-1].key}
		}
	}

	if p.SelectedDate != "" && !datefmt.IsCanonical(p.SelectedDate) {
		return &InvalidError{Field: KeySelectedDate, Reason: "must be YYYY-MM-DD"}
	}
	if p.SelectedHour != nil && (*p.SelectedHour < 0 || *p.SelectedHour > 23) {
		return &InvalidError{Field: KeySelectedHour, Reason: "must be between 0 and 23"}
	}
	return nil
}

func (p Params) WithArena(id, name string) Params {
	return Params{ArenaID: id, ArenaName: name}
}

func (p Params) WithDate(date string) Params {
	p = p.Back(StepCourts)
	p.SelectedDate = date
	return p
}

func (p Params) WithQuadra(id, name string) Params {
	p = p.Back(StepHours)
	p.QuadraID = id
	p.QuadraName = name
	return p
}

func (p Params) WithHour(hour int) Params {
	p = p.Back(StepVideos)
	p.SelectedHour = &hour
	return p
}

func (p Params) WithVideo(id string) Params {
	p = p.Back(StepPlaying)
	p.VideoID = id
	return p
}

// Back leaves step for the state before it: the key that led into step and
// every key after it are discarded.
func (p Params) Back(step Step) Params {
	if step <= StepPlaying {
		p.VideoID = ""
	}
	if step <= StepVideos {
		p.SelectedHour = nil
	}
	if step <= StepHours {
		p.QuadraID, p.QuadraName = "", ""
	}
	if step <= StepCourts {
		p.SelectedDate = ""
	}
	if step <= StepDates {
		p.ArenaID, p.ArenaName = "", ""
	}
	return p
}

// Filter returns the video filter for the keys chosen so far.
func (p Params) Filter() models.VideoFilter {
	f := models.VideoFilter{
		ArenaID:  p.ArenaID,
		QuadraID: p.QuadraID,
		Date:     p.SelectedDate,
	}
	if p.SelectedHour != nil {
		h := *p.SelectedHour
		f.Hour = &h
	}
	return f
}

// Query encodes the bundle as URL query parameters.
func (p Params) Query() url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set(KeyArenaID, p.ArenaID)
	set(KeyArenaName, p.ArenaName)
	set(KeySelectedDate, p.SelectedDate)
	set(KeyQuadraID, p.QuadraID)
	set(KeyQuadraName, p.QuadraName)
	if p.SelectedHour != nil {
		q.Set(KeySelectedHour, strconv.Itoa(*p.SelectedHour))
	}
	set(KeyVideoID, p.VideoID)
	return q
}

// FromQuery decodes a bundle from query parameters. Dates in DD/MM/YYYY are
// normalized; the result is validated.
func FromQuery(q url.Values) (Params, error) {
	p := Params{
		ArenaID:    q.Get(KeyArenaID),
		ArenaName:  q.Get(KeyArenaName),
		QuadraID:   q.Get(KeyQuadraID),
		QuadraName: q.Get(KeyQuadraName),
		VideoID:    q.Get(KeyVideoID),
	}

	if raw := q.Get(KeySelectedDate); raw != "" {
		date, err := datefmt.Normalize(raw)
		if err != nil {
			return Params{}, &InvalidError{Field: KeySelectedDate, Reason: "unrecognized date " + strconv.Quote(raw)}
		}
		p.SelectedDate = date
	}

	if raw := q.Get(KeySelectedHour); raw != "" {
		h, ok := datefmt.ParseHour(raw)
		if !ok {
			return Params{}, &InvalidError{Field: KeySelectedHour, Reason: "must be between 0 and 23"}
		}
		p.SelectedHour = &h
	}

	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}
