package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"sportftv-backend/internal/datefmt"
	"sportftv-backend/internal/models"
	"sportftv-backend/internal/navigation"
	"sportftv-backend/internal/repository"
)

const (
	DefaultDescription = "Descrição não informada"
	DefaultDuration    = "0:00"
	DefaultRecentLimit = 20
	MaxRecentLimit     = 100
)

// VideoService answers every step of the selection chain. All reads are
// plain equality queries against the store; nothing is cached.
type VideoService struct {
	videos  repository.VideoStore
	catalog repository.CatalogStore
	logger  *slog.Logger
	now     func() time.Time
}

func NewVideoService(videos repository.VideoStore, catalog repository.CatalogStore, logger *slog.Logger) *VideoService {
	return &VideoService{
		videos:  videos,
		catalog: catalog,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *VideoService) find(ctx context.Context, op string, f models.VideoFilter) ([]models.Video, error) {
	videos, err := s.videos.Find(ctx, f)
	if err != nil {
		s.logger.Error("video query failed", "op", op, "filter", f, "error", err)
		return nil, &StoreError{Op: op, Err: err}
	}
	if videos == nil {
		videos = []models.Video{}
	}
	return videos, nil
}

// ListArenas counts videos per arena and merges the catalog. Catalog arenas
// without videos are listed as inactive.
func (s *VideoService) ListArenas(ctx context.Context) ([]ArenaSummary, error) {
	videos, err := s.find(ctx, "list arenas", models.VideoFilter{})
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for _, v := range videos {
		if v.ArenaID != "" {
			counts[v.ArenaID]++
		}
	}

	arenas, err := s.catalog.ListArenas(ctx)
	if err != nil {
		return nil, &StoreError{Op: "list arenas", Err: err}
	}

	seen := map[string]bool{}
	out := make([]ArenaSummary, 0, len(arenas)+len(counts))
	for _, a := range arenas {
		seen[a.ID] = true
		out = append(out, ArenaSummary{
			ID:         a.ID,
			Name:       a.Name,
			Address:    a.Address,
			ImageURL:   a.ImageURL,
			CourtCount: a.CourtCount,
			VideoCount: counts[a.ID],
			Active:     counts[a.ID] > 0,
		})
	}
	for id, n := range counts {
		if seen[id] {
			continue
		}
		out = append(out, ArenaSummary{
			ID:         id,
			Name:       arenaFallbackName(id),
			VideoCount: n,
			Active:     true,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Active != out[j].Active {
			return out[i].Active
		}
		return out[i].Name < out[j].Name
	})
	for i := range out {
		out[i].Next = navigation.Params{}.WithArena(out[i].ID, out[i].Name)
	}
	return out, nil
}

// ListDates returns the days with videos for the arena inside the window
// around month (YYYY-MM, empty for the current month). Dates are normalized;
// records with an unreadable date fall back to their timestamp.
func (s *VideoService) ListDates(ctx context.Context, p navigation.Params, month string) (*DateListing, error) {
	if p.ArenaID == "" {
		return nil, &MissingFilterError{Missing: []string{navigation.KeyArenaID}}
	}

	ref := s.now()
	if month != "" {
		t, err := time.Parse("2006-01", month)
		if err != nil {
			return nil, &ValidationError{Fields: map[string]string{"month": "Must be YYYY-MM"}}
		}
		ref = t
	}
	start, end := datefmt.MonthWindow(ref)

	videos, err := s.find(ctx, "list dates", models.VideoFilter{ArenaID: p.ArenaID})
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for _, v := range videos {
		date, err := datefmt.Normalize(v.Date)
		if err != nil {
			var ok bool
			if date, ok = datefmt.FromTimestamp(v.Timestamp); !ok {
				continue
			}
		}
		if date < start || date > end {
			continue
		}
		counts[date]++
	}

	dates := make([]DateSummary, 0, len(counts))
	for d, n := range counts {
		dates = append(dates, DateSummary{Date: d, VideoCount: n, Next: p.WithDate(d)})
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Date < dates[j].Date })

	return &DateListing{WindowStart: start, WindowEnd: end, Dates: dates}, nil
}

// ListQuadras counts the day's videos per court. When no court has videos
// the arena's catalog courts are returned inactive.
func (s *VideoService) ListQuadras(ctx context.Context, p navigation.Params) ([]QuadraSummary, error) {
	if missing := missingKeys(p, navigation.StepCourts); len(missing) > 0 {
		return nil, &MissingFilterError{Missing: missing}
	}

	videos, err := s.find(ctx, "list quadras", models.VideoFilter{ArenaID: p.ArenaID, Date: p.SelectedDate})
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	names := map[string]string{}
	for _, v := range videos {
		if v.QuadraID == "" {
			continue
		}
		counts[v.QuadraID]++
		if v.QuadraName != "" {
			names[v.QuadraID] = v.QuadraName
		}
	}

	catalog, err := s.catalog.ListQuadras(ctx, p.ArenaID)
	if err != nil {
		// Names are cosmetic; counts still answer the step.
		s.logger.Warn("quadra catalog unavailable", "arena_id", p.ArenaID, "error", err)
		catalog = nil
	}
	for _, q := range catalog {
		if q.Name != "" {
			names[q.ID] = q.Name
		}
	}

	nameOf := func(id string) string {
		if n, ok := names[id]; ok {
			return n
		}
		return quadraFallbackName(id)
	}

	out := make([]QuadraSummary, 0, len(counts))
	for id, n := range counts {
		out = append(out, QuadraSummary{ID: id, Name: nameOf(id), VideoCount: n, Active: true})
	}
	if len(out) == 0 {
		for _, q := range catalog {
			out = append(out, QuadraSummary{ID: q.ID, Name: nameOf(q.ID)})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	for i := range out {
		out[i].Next = p.WithQuadra(out[i].ID, out[i].Name)
	}
	return out, nil
}

// ListHours returns the 06:00 to 23:00 slots for the court and day, plus any
// earlier hour that has videos.
func (s *VideoService) ListHours(ctx context.Context, p navigation.Params) ([]HourSlot, error) {
	if missing := missingKeys(p, navigation.StepHours); len(missing) > 0 {
		return nil, &MissingFilterError{Missing: missing}
	}

	videos, err := s.find(ctx, "list hours", models.VideoFilter{
		ArenaID:  p.ArenaID,
		QuadraID: p.QuadraID,
		Date:     p.SelectedDate,
	})
	if err != nil {
		return nil, err
	}

	counts := map[int]int{}
	for _, v := range videos {
		if v.Hour != nil && *v.Hour >= 0 && *v.Hour <= 23 {
			counts[*v.Hour]++
		}
	}

	var slots []HourSlot
	for h := 0; h <= lastSlotHour; h++ {
		n := counts[h]
		if h < firstSlotHour && n == 0 {
			continue
		}
		slots = append(slots, HourSlot{
			Hour:       h,
			Label:      hourLabel(h),
			Period:     hourPeriod(h),
			VideoCount: n,
			HasVideos:  n > 0,
			Next:       p.WithHour(h),
		})
	}
	return slots, nil
}

// ListVideos is the terminal query of the chain. Every key is required and
// checked before the store is touched.
func (s *VideoService) ListVideos(ctx context.Context, f models.VideoFilter) ([]models.Video, error) {
	if missing := f.Missing(); len(missing) > 0 {
		return nil, &MissingFilterError{Missing: missing}
	}
	f.Limit = 0
	return s.find(ctx, "list videos", f)
}

// Search applies whichever filters are set.
func (s *VideoService) Search(ctx context.Context, f models.VideoFilter) ([]models.Video, error) {
	if f.Date != "" {
		date, err := datefmt.Normalize(f.Date)
		if err != nil {
			return nil, &ValidationError{Fields: map[string]string{"date": "Must be YYYY-MM-DD or DD/MM/YYYY"}}
		}
		f.Date = date
	}
	f.Limit = 0
	return s.find(ctx, "search videos", f)
}

// Recent is the highlights feed: every video, newest first.
func (s *VideoService) Recent(ctx context.Context, limit int) ([]models.Video, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	return s.find(ctx, "recent videos", models.VideoFilter{Limit: limit})
}

func (s *VideoService) Get(ctx context.Context, id string) (*models.Video, error) {
	v, err := s.videos.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Message: "Video not found"}
	}
	if err != nil {
		return nil, &StoreError{Op: "get video", Err: err}
	}
	return v, nil
}

// Create validates and stores a video. Re-using an id overwrites the record.
func (s *VideoService) Create(ctx context.Context, req models.CreateVideoRequest) (*models.Video, error) {
	fields := map[string]string{}

	if strings.TrimSpace(req.Title) == "" {
		fields["title"] = "Title is required"
	}
	if strings.TrimSpace(req.VideoURL) == "" {
		fields["videoUrl"] = "Video URL is required"
	}
	if req.ArenaID == "" {
		fields["arenaId"] = "Arena is required"
	}
	if req.QuadraID == "" {
		fields["quadraId"] = "Quadra is required"
	}

	date, err := datefmt.Normalize(req.Date)
	if err != nil {
		fields["date"] = "Must be YYYY-MM-DD or DD/MM/YYYY"
	}

	if req.Hour == nil {
		fields["hour"] = "Hour is required"
	} else if *req.Hour < 0 || *req.Hour > 23 {
		fields["hour"] = "Hour must be between 0 and 23"
	}

	timestamp := datefmt.FormatTimestamp(s.now())
	if req.Timestamp != "" {
		ts, ok := datefmt.CanonicalTimestamp(req.Timestamp)
		if !ok {
			fields["timestamp"] = "Must be an RFC 3339 timestamp"
		} else {
			timestamp = ts
		}
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	v := &models.Video{
		ID:          req.ID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		ArenaID:     req.ArenaID,
		QuadraID:    req.QuadraID,
		Date:        date,
		Hour:        models.IntPtr(*req.Hour),
		Duration:    req.Duration,
		VideoURL:    strings.TrimSpace(req.VideoURL),
		Tournament:  req.Tournament,
		Timestamp:   timestamp,
	}
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.Description == "" {
		v.Description = DefaultDescription
	}
	if v.Duration == "" {
		v.Duration = DefaultDuration
	}

	if a, err := s.catalog.GetArena(ctx, v.ArenaID); err == nil {
		v.ArenaName = a.Name
	}

	if err := s.videos.Upsert(ctx, v); err != nil {
		return nil, &StoreError{Op: "create video", Err: err}
	}
	s.logger.Info("video stored", "video_id", v.ID, "arena_id", v.ArenaID, "date", v.Date, "hour", *v.Hour)
	return v, nil
}

func (s *VideoService) CreateArena(ctx context.Context, a models.Arena) (*models.Arena, error) {
	fields := map[string]string{}
	if a.ID == "" {
		fields["id"] = "Arena id is required"
	}
	if strings.TrimSpace(a.Name) == "" {
		fields["name"] = "Name is required"
	}
	if a.CourtCount < 0 {
		fields["courtCount"] = "Must not be negative"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	if err := s.catalog.UpsertArena(ctx, &a); err != nil {
		return nil, &StoreError{Op: "create arena", Err: err}
	}
	return &a, nil
}

func (s *VideoService) CreateQuadra(ctx context.Context, q models.Quadra) (*models.Quadra, error) {
	fields := map[string]string{}
	if q.ID == "" {
		fields["id"] = "Quadra id is required"
	}
	if q.ArenaID == "" {
		fields["arenaId"] = "Arena is required"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	if q.Name == "" {
		q.Name = quadraFallbackName(q.ID)
	}
	if err := s.catalog.UpsertQuadra(ctx, &q); err != nil {
		return nil, &StoreError{Op: "create quadra", Err: err}
	}
	return &q, nil
}

// missingKeys lists the bundle keys a step needs that are not set.
func missingKeys(p navigation.Params, step navigation.Step) []string {
	var missing []string
	if step >= navigation.StepDates && p.ArenaID == "" {
		missing = append(missing, navigation.KeyArenaID)
	}
	if step >= navigation.StepCourts && p.SelectedDate == "" {
		missing = append(missing, navigation.KeySelectedDate)
	}
	if step >= navigation.StepHours && p.QuadraID == "" {
		missing = append(missing, navigation.KeyQuadraID)
	}
	return missing
}
