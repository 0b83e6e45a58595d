package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sportftv-backend/internal/models"
)

type PostgresVideoRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresVideoRepo(pool *pgxpool.Pool) *PostgresVideoRepo {
	return &PostgresVideoRepo{pool: pool}
}

// buildVideoQuery composes the equality predicates for the set filter fields.
func buildVideoQuery(f models.VideoFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if f.ArenaID != "" {
		add("arena_id", f.ArenaID)
	}
	if f.QuadraID != "" {
		add("quadra_id", f.QuadraID)
	}
	if f.Date != "" {
		add("date", f.Date)
	}
	if f.Hour != nil {
		add("hour", strconv.Itoa(*f.Hour))
	}

	query := "SELECT id, doc FROM videos"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY ts DESC NULLS LAST, id"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	return query, args
}

func (r *PostgresVideoRepo) Find(ctx context.Context, f models.VideoFilter) ([]models.Video, error) {
	query, args := buildVideoQuery(f)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying videos: %w", err)
	}
	defer rows.Close()

	videos := []models.Video{}
	for rows.Next() {
		var (
			id  string
			doc map[string]any
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scanning video: %w", err)
		}
		videos = append(videos, videoFromFields(id, doc))
	}
	return videos, rows.Err()
}

func (r *PostgresVideoRepo) Get(ctx context.Context, id string) (*models.Video, error) {
	var doc map[string]any
	err := r.pool.QueryRow(ctx, "SELECT doc FROM videos WHERE id = $1", id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting video %s: %w", id, err)
	}
	v := videoFromFields(id, doc)
	return &v, nil
}

func (r *PostgresVideoRepo) Upsert(ctx context.Context, v *models.Video) error {
	doc, err := json.Marshal(videoFields(v))
	if err != nil {
		return fmt.Errorf("encoding video: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO videos (id, doc) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW()`,
		v.ID, doc,
	)
	return err
}

func (r *PostgresVideoRepo) UpdateThumbnailURL(ctx context.Context, id, url string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE videos SET doc = jsonb_set(doc, '{thumbnailUrl}', to_jsonb($1::text)), updated_at = NOW()
		WHERE id = $2`,
		url, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresVideoRepo) ListRaw(ctx context.Context) ([]models.RawDocument, error) {
	rows, err := r.pool.Query(ctx, "SELECT id, doc FROM videos ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []models.RawDocument
	for rows.Next() {
		var d models.RawDocument
		if err := rows.Scan(&d.ID, &d.Fields); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// Patch merges fields into the stored document.
func (r *PostgresVideoRepo) Patch(ctx context.Context, id string, fields map[string]any) error {
	patch, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encoding patch: %w", err)
	}
	tag, err := r.pool.Exec(ctx,
		"UPDATE videos SET doc = doc || $1::jsonb, updated_at = NOW() WHERE id = $2",
		patch, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresVideoRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
