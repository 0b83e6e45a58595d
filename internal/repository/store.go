package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sportftv-backend/internal/datefmt"
	"sportftv-backend/internal/models"
)

var ErrNotFound = errors.New("not found")

// VideoStore is the videos collection. Find applies only the filter fields
// that are set, ANDed, newest first, and never returns a nil slice.
type VideoStore interface {
	Find(ctx context.Context, f models.VideoFilter) ([]models.Video, error)
	Get(ctx context.Context, id string) (*models.Video, error)
	Upsert(ctx context.Context, v *models.Video) error
	UpdateThumbnailURL(ctx context.Context, id, url string) error
	ListRaw(ctx context.Context) ([]models.RawDocument, error)
	Patch(ctx context.Context, id string, fields map[string]any) error
	Ping(ctx context.Context) error
}

type CatalogStore interface {
	ListArenas(ctx context.Context) ([]models.Arena, error)
	GetArena(ctx context.Context, id string) (*models.Arena, error)
	ListQuadras(ctx context.Context, arenaID string) ([]models.Quadra, error)
	UpsertArena(ctx context.Context, a *models.Arena) error
	UpsertQuadra(ctx context.Context, q *models.Quadra) error
}

// videoFromFields builds a Video from a loosely typed document. Stored
// records predate the validated write path, so hours may be strings and
// numbers may arrive as int64 or float64 depending on the backend.
func videoFromFields(id string, fields map[string]any) models.Video {
	v := models.Video{
		ID:          id,
		Title:       stringField(fields, "title"),
		Description: stringField(fields, "description"),
		ArenaID:     stringField(fields, "arenaId"),
		QuadraID:    stringField(fields, "quadraId"),
		Date:        stringField(fields, "date"),
		Duration:    stringField(fields, "duration"),
		VideoURL:    stringField(fields, "videoUrl"),
		Tournament:  stringField(fields, "tournament"),
		Timestamp:   timestampField(fields, "timestamp"),
		ArenaName:   stringField(fields, "arenaName"),
		QuadraName:  stringField(fields, "quadraName"),
	}
	if h, ok := datefmt.ParseHour(fields["hour"]); ok {
		v.Hour = &h
	}
	if s, ok := fields["thumbnailUrl"].(string); ok {
		v.ThumbnailURL = &s
	}
	switch n := fields["views"].(type) {
	case int64:
		v.Views = n
	case int:
		v.Views = int64(n)
	case float64:
		v.Views = int64(n)
	}
	return v
}

// videoFields is the inverse of videoFromFields for full writes.
func videoFields(v *models.Video) map[string]any {
	fields := map[string]any{
		"title":        v.Title,
		"arenaId":      v.ArenaID,
		"quadraId":     v.QuadraID,
		"date":         v.Date,
		"duration":     v.Duration,
		"videoUrl":     v.VideoURL,
		"views":        v.Views,
		"timestamp":    v.Timestamp,
		"thumbnailUrl": nil,
		"hour":         nil,
	}
	if v.Hour != nil {
		fields["hour"] = *v.Hour
	}
	if v.ThumbnailURL != nil {
		fields["thumbnailUrl"] = *v.ThumbnailURL
	}
	optional := map[string]string{
		"description": v.Description,
		"tournament":  v.Tournament,
		"arenaName":   v.ArenaName,
		"quadraName":  v.QuadraName,
	}
	for k, s := range optional {
		if s != "" {
			fields[k] = s
		}
	}
	return fields
}

// arenaFromFields decodes an arena document. Catalogs loaded by the older
// import scripts carry the court count as totalQuadras.
func arenaFromFields(id string, fields map[string]any) models.Arena {
	a := models.Arena{
		ID:       id,
		Name:     stringField(fields, "name"),
		Address:  stringField(fields, "address"),
		ImageURL: stringField(fields, "imageUrl"),
	}
	if n, ok := intField(fields, "courtCount"); ok {
		a.CourtCount = n
	} else if n, ok := intField(fields, "totalQuadras"); ok {
		a.CourtCount = n
	}
	return a
}

// quadraFromFields decodes a quadra document. The court id is the quadraId
// field, then an id field, then the document id.
func quadraFromFields(docID string, fields map[string]any) models.Quadra {
	id := stringField(fields, "quadraId")
	if id == "" {
		id = stringField(fields, "id")
	}
	if id == "" {
		id = docID
	}
	return models.Quadra{
		ID:      id,
		Name:    stringField(fields, "name"),
		ArenaID: stringField(fields, "arenaId"),
	}
}

func intField(fields map[string]any, key string) (int, bool) {
	switch n := fields[key].(type) {
	case int64:
		return int(n), true
	case int:
		return n, true
	case float64:
		return int(n), true
	}
	return 0, false
}

func stringField(fields map[string]any, key string) string {
	switch s := fields[key].(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}

func timestampField(fields map[string]any, key string) string {
	if t, ok := fields[key].(time.Time); ok {
		return datefmt.FormatTimestamp(t)
	}
	return stringField(fields, key)
}
