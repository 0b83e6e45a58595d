package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"sportftv-backend/internal/models"
	"sportftv-backend/internal/repository"
)

func newTestRepairService(store repository.VideoStore) *RepairService {
	svc := NewRepairService(store, DefaultRepairDefaults(), discardLogger())
	svc.now = func() time.Time { return time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC) }
	return svc
}

func findChange(plan *RepairPlan, id string) *RepairChange {
	for i := range plan.Changes {
		if plan.Changes[i].VideoID == id {
			return &plan.Changes[i]
		}
	}
	return nil
}

func TestRepairPlan(t *testing.T) {
	store := newStubVideoStore()
	store.raw = []models.RawDocument{
		{ID: "clean", Fields: map[string]any{
			"title": "ok", "arenaId": "arena_sport_center", "quadraId": "quadra_1",
			"date": "2024-01-15", "hour": float64(18), "timestamp": "2024-01-15T18:30:00.000Z",
			"videoUrl": "https://cdn/ok.mp4", "views": float64(3),
		}},
		{ID: "legacy", Fields: map[string]any{
			"title": "old", "date": "16/01/2024", "hour": "19",
			"timestamp": "2024-01-16T19:05:00Z", "views": "42",
		}},
		{ID: "undated", Fields: map[string]any{
			"arenaId": "arena_beach_club", "quadraId": "quadra_2",
			"timestamp": "2024-01-17T07:45:00Z", "videoUrl": "https://cdn/u.mp4",
		}},
		{ID: "bare", Fields: map[string]any{
			"arenaId": "arena_beach_club", "quadraId": "quadra_2", "hour": int64(99),
		}},
	}
	svc := newTestRepairService(store)

	plan, err := svc.Plan(context.Background())
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}

	if plan.Scanned != 4 {
		t.Errorf("Expected 4 scanned, got %d", plan.Scanned)
	}
	if findChange(plan, "clean") != nil {
		t.Error("Expected a well-formed record to need no change")
	}

	legacy := findChange(plan, "legacy")
	if legacy == nil {
		t.Fatal("Expected legacy record in plan")
	}
	want := map[string]any{
		"arenaId":   "arena_sport_center",
		"quadraId":  "quadra_1",
		"date":      "2024-01-16",
		"hour":      19,
		"views":     int64(42),
		"timestamp": "2024-01-16T19:05:00.000Z",
	}
	for k, v := range want {
		if legacy.Fields[k] != v {
			t.Errorf("legacy %s: expected %v (%T), got %v (%T)", k, v, v, legacy.Fields[k], legacy.Fields[k])
		}
	}
	if legacy.Fields["videoUrl"] != DefaultRepairDefaults().VideoURLs[0] {
		t.Errorf("Expected first sample videoUrl, got %v", legacy.Fields["videoUrl"])
	}

	undated := findChange(plan, "undated")
	if undated == nil {
		t.Fatal("Expected undated record in plan")
	}
	if undated.Fields["date"] != "2024-01-17" {
		t.Errorf("Expected date from timestamp, got %v", undated.Fields["date"])
	}
	if undated.Fields["hour"] != 7 {
		t.Errorf("Expected hour from timestamp, got %v", undated.Fields["hour"])
	}

	bare := findChange(plan, "bare")
	if bare == nil {
		t.Fatal("Expected bare record in plan")
	}
	if bare.Fields["hour"] != 18 {
		t.Errorf("Expected default hour 18, got %v", bare.Fields["hour"])
	}
	if bare.Fields["timestamp"] != "2024-01-20T12:00:00.000Z" {
		t.Errorf("Expected timestamp backfilled from the clock, got %v", bare.Fields["timestamp"])
	}
	if bare.Fields["videoUrl"] != DefaultRepairDefaults().VideoURLs[1] {
		t.Errorf("Expected second sample videoUrl, got %v", bare.Fields["videoUrl"])
	}
}

func TestRepairPlan_RewritesTimestamps(t *testing.T) {
	store := newStubVideoStore()
	store.raw = []models.RawDocument{
		{ID: "offset", Fields: map[string]any{
			"title": "ok", "arenaId": "a", "quadraId": "q", "date": "2024-01-16", "hour": int64(19),
			"videoUrl": "https://cdn/ok.mp4", "timestamp": "2024-01-16T16:05:00.5-03:00",
		}},
		{ID: "canonical", Fields: map[string]any{
			"title": "ok", "arenaId": "a", "quadraId": "q", "date": "2024-01-16", "hour": int64(19),
			"videoUrl": "https://cdn/ok.mp4", "timestamp": "2024-01-16T19:05:00.500Z",
		}},
		{ID: "firestore-time", Fields: map[string]any{
			"title": "ok", "arenaId": "a", "quadraId": "q", "date": "2024-01-16", "hour": int64(19),
			"videoUrl": "https://cdn/ok.mp4", "timestamp": time.Date(2024, 1, 16, 19, 5, 0, 0, time.UTC),
		}},
	}
	svc := newTestRepairService(store)

	plan, err := svc.Plan(context.Background())
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}

	offset := findChange(plan, "offset")
	if offset == nil || offset.Fields["timestamp"] != "2024-01-16T19:05:00.500Z" {
		t.Fatalf("Expected offset timestamp rewritten to UTC milliseconds, got %+v", offset)
	}
	if len(offset.Fields) != 1 {
		t.Errorf("Expected only the timestamp to change, got %v", offset.Fields)
	}
	if c := findChange(plan, "canonical"); c != nil {
		t.Errorf("Expected canonical timestamp untouched, got %v", c.Fields)
	}
	if c := findChange(plan, "firestore-time"); c != nil {
		t.Errorf("Expected native timestamp untouched, got %v", c.Fields)
	}
}

func TestRepairPlan_ReportsUndiscoverable(t *testing.T) {
	store := newStubVideoStore()
	store.raw = []models.RawDocument{
		{ID: "clean", Fields: map[string]any{
			"arenaId": "a", "quadraId": "q", "date": "2024-01-16", "hour": int64(19),
			"videoUrl": "https://cdn/ok.mp4", "timestamp": "2024-01-16T19:05:00.000Z",
		}},
		{ID: "garbled", Fields: map[string]any{
			"arenaId": "a", "quadraId": "q", "date": "sometime in march", "hour": int64(19),
			"videoUrl": "https://cdn/g.mp4",
		}},
		{ID: "undated", Fields: map[string]any{
			"arenaId": "a", "quadraId": "q", "hour": int64(19), "videoUrl": "https://cdn/u.mp4",
		}},
		{ID: "legacy", Fields: map[string]any{
			"date": "16/01/2024", "hour": "19", "timestamp": "2024-01-16T19:05:00Z",
		}},
	}
	svc := newTestRepairService(store)

	plan, err := svc.Plan(context.Background())
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}

	want := []string{"garbled", "undated"}
	if len(plan.Undiscoverable) != len(want) {
		t.Fatalf("Expected undiscoverable %v, got %v", want, plan.Undiscoverable)
	}
	for i, id := range want {
		if plan.Undiscoverable[i] != id {
			t.Errorf("Expected undiscoverable[%d] = %s, got %s", i, id, plan.Undiscoverable[i])
		}
	}
}

func TestRepairApply(t *testing.T) {
	store := newStubVideoStore()
	store.raw = []models.RawDocument{
		{ID: "legacy", Fields: map[string]any{"date": "16/01/2024", "hour": "19", "timestamp": "2024-01-16T19:05:00Z"}},
	}
	svc := newTestRepairService(store)

	plan, err := svc.Plan(context.Background())
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	n, err := svc.Apply(context.Background(), plan)
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	if n != 1 {
		t.Errorf("Expected 1 applied, got %d", n)
	}
	if store.patches["legacy"]["date"] != "2024-01-16" {
		t.Errorf("Expected patched date, got %v", store.patches["legacy"])
	}
}

func TestRepairPlan_StoreError(t *testing.T) {
	svc := newTestRepairService(&failingRawStore{stubVideoStore: newStubVideoStore()})

	_, err := svc.Plan(context.Background())

	var se *StoreError
	if !errors.As(err, &se) {
		t.Fatalf("Expected StoreError, got %v", err)
	}
}

type failingRawStore struct {
	*stubVideoStore
}

func (s *failingRawStore) ListRaw(context.Context) ([]models.RawDocument, error) {
	return nil, errors.New("deadline exceeded")
}
