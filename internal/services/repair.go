package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"sportftv-backend/internal/datefmt"
	"sportftv-backend/internal/models"
	"sportftv-backend/internal/repository"
)

// RepairDefaults fill in chain keys missing from legacy records.
type RepairDefaults struct {
	ArenaID   string
	QuadraID  string
	Hour      int
	VideoURLs []string
}

func DefaultRepairDefaults() RepairDefaults {
	return RepairDefaults{
		ArenaID:  "arena_sport_center",
		QuadraID: "quadra_1",
		Hour:     18,
		VideoURLs: []string{
			"https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4",
			"https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ElephantsDream.mp4",
		},
	}
}

// RepairChange is the patch planned for one document.
type RepairChange struct {
	VideoID string         `json:"video_id"`
	Title   string         `json:"title,omitempty"`
	Fields  map[string]any `json:"fields"`
	Notes   []string       `json:"notes"`
}

type RepairPlan struct {
	Scanned int            `json:"scanned"`
	Changes []RepairChange `json:"changes"`
	// Undiscoverable lists records the plan cannot place in the selection
	// chain. They need a manual fix.
	Undiscoverable []string `json:"undiscoverable"`
}

// RepairService rewrites legacy video records into the shape the selection
// chain queries for: ISO dates, integer hours and every chain key present.
type RepairService struct {
	videos   repository.VideoStore
	defaults RepairDefaults
	logger   *slog.Logger
	now      func() time.Time
}

func NewRepairService(videos repository.VideoStore, defaults RepairDefaults, logger *slog.Logger) *RepairService {
	return &RepairService{videos: videos, defaults: defaults, logger: logger, now: time.Now}
}

func (s *RepairService) Plan(ctx context.Context) (*RepairPlan, error) {
	docs, err := s.videos.ListRaw(ctx)
	if err != nil {
		return nil, &StoreError{Op: "list videos", Err: err}
	}

	plan := &RepairPlan{Scanned: len(docs), Changes: []RepairChange{}, Undiscoverable: []string{}}
	missingURL := 0
	for _, doc := range docs {
		change, repaired := s.planDocument(doc, missingURL)
		if _, ok := change.Fields["videoUrl"]; ok {
			missingURL++
		}
		if len(change.Fields) > 0 {
			plan.Changes = append(plan.Changes, change)
		}
		if !repaired.Discoverable() {
			s.logger.Warn("video stays outside the selection chain", "video_id", doc.ID, "notes", strings.Join(change.Notes, "; "))
			plan.Undiscoverable = append(plan.Undiscoverable, doc.ID)
		}
	}
	return plan, nil
}

// Apply patches every planned document and returns how many were updated.
// It stops at the first failure.
func (s *RepairService) Apply(ctx context.Context, plan *RepairPlan) (int, error) {
	applied := 0
	for _, c := range plan.Changes {
		if err := s.videos.Patch(ctx, c.VideoID, c.Fields); err != nil {
			return applied, fmt.Errorf("patching %s: %w", c.VideoID, err)
		}
		applied++
		s.logger.Info("video repaired", "video_id", c.VideoID, "notes", strings.Join(c.Notes, "; "))
	}
	return applied, nil
}

// planDocument returns the patch for one record and the chain keys the
// record will carry once the patch is applied.
func (s *RepairService) planDocument(doc models.RawDocument, urlIndex int) (RepairChange, models.Video) {
	f := doc.Fields
	change := RepairChange{VideoID: doc.ID, Fields: map[string]any{}}
	if t, ok := f["title"].(string); ok {
		change.Title = t
	}
	set := func(key string, value any, note string) {
		change.Fields[key] = value
		change.Notes = append(change.Notes, note)
	}

	timestamp := timestampString(f["timestamp"])
	repaired := models.Video{ID: doc.ID}

	if isBlank(f["arenaId"]) {
		set("arenaId", s.defaults.ArenaID, "arenaId defaulted")
		repaired.ArenaID = s.defaults.ArenaID
	} else {
		repaired.ArenaID = fmt.Sprint(f["arenaId"])
	}
	if isBlank(f["quadraId"]) {
		set("quadraId", s.defaults.QuadraID, "quadraId defaulted")
		repaired.QuadraID = s.defaults.QuadraID
	} else {
		repaired.QuadraID = fmt.Sprint(f["quadraId"])
	}

	rawDate, _ := f["date"].(string)
	date := ""
	switch {
	case rawDate == "":
		if d, ok := datefmt.FromTimestamp(timestamp); ok {
			date = d
			set("date", d, "date taken from timestamp")
		}
	case datefmt.IsCanonical(rawDate):
		date = rawDate
	default:
		if d, err := datefmt.Normalize(rawDate); err == nil {
			date = d
			set("date", d, fmt.Sprintf("date %q normalized", rawDate))
		} else if d, ok := datefmt.FromTimestamp(timestamp); ok {
			date = d
			set("date", d, fmt.Sprintf("unreadable date %q replaced from timestamp", rawDate))
		} else {
			change.Notes = append(change.Notes, fmt.Sprintf("unreadable date %q left as is", rawDate))
		}
	}

	repaired.Date = date

	hour := s.fallbackHour(timestamp)
	switch h := f["hour"].(type) {
	case nil:
		set("hour", hour, "hour backfilled")
	case string:
		if n, ok := datefmt.ParseHour(h); ok {
			hour = n
			set("hour", n, fmt.Sprintf("hour %q converted to integer", h))
		} else {
			set("hour", hour, fmt.Sprintf("unreadable hour %q replaced", h))
		}
	default:
		if n, ok := datefmt.ParseHour(h); ok {
			hour = n
		} else {
			set("hour", hour, fmt.Sprintf("hour %v out of range", h))
		}
	}
	repaired.Hour = &hour

	switch raw, isString := f["timestamp"].(string); {
	case timestamp == "":
		ts := datefmt.FormatTimestamp(s.now())
		if d, err := time.Parse(datefmt.ISOLayout, date); err == nil {
			ts = datefmt.FormatTimestamp(d)
		}
		set("timestamp", ts, "timestamp backfilled")
	case isString:
		if ts, ok := datefmt.CanonicalTimestamp(raw); ok && ts != raw {
			set("timestamp", ts, fmt.Sprintf("timestamp %q rewritten as UTC milliseconds", raw))
		}
	}

	if v, ok := f["views"].(string); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			n = 0
		}
		set("views", n, "views converted to integer")
	}

	if isBlank(f["videoUrl"]) && len(s.defaults.VideoURLs) > 0 {
		set("videoUrl", s.defaults.VideoURLs[urlIndex%len(s.defaults.VideoURLs)], "sample videoUrl assigned")
	}

	return change, repaired
}

// fallbackHour is the hour of the timestamp in UTC, or the default.
func (s *RepairService) fallbackHour(timestamp string) int {
	if t, err := time.Parse(time.RFC3339Nano, timestamp); err == nil {
		return t.UTC().Hour()
	}
	return s.defaults.Hour
}

func isBlank(v any) bool {
	s, ok := v.(string)
	return v == nil || (ok && strings.TrimSpace(s) == "")
}

func timestampString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return datefmt.FormatTimestamp(t)
	}
	return ""
}
