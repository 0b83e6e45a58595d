package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sportftv-backend/internal/models"
)

type PostgresCatalogRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresCatalogRepo(pool *pgxpool.Pool) *PostgresCatalogRepo {
	return &PostgresCatalogRepo{pool: pool}
}

func (r *PostgresCatalogRepo) ListArenas(ctx context.Context) ([]models.Arena, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT id, name, address, image_url, court_count FROM arenas ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	arenas := []models.Arena{}
	for rows.Next() {
		var a models.Arena
		if err := rows.Scan(&a.ID, &a.Name, &a.Address, &a.ImageURL, &a.CourtCount); err != nil {
			return nil, err
		}
		arenas = append(arenas, a)
	}
	return arenas, rows.Err()
}

func (r *PostgresCatalogRepo) GetArena(ctx context.Context, id string) (*models.Arena, error) {
	a := &models.Arena{}
	err := r.pool.QueryRow(ctx,
		"SELECT id, name, address, image_url, court_count FROM arenas WHERE id = $1", id,
	).Scan(&a.ID, &a.Name, &a.Address, &a.ImageURL, &a.CourtCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *PostgresCatalogRepo) ListQuadras(ctx context.Context, arenaID string) ([]models.Quadra, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT id, arena_id, name FROM quadras WHERE arena_id = $1 ORDER BY name", arenaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quadras := []models.Quadra{}
	for rows.Next() {
		var q models.Quadra
		if err := rows.Scan(&q.ID, &q.ArenaID, &q.Name); err != nil {
			return nil, err
		}
		quadras = append(quadras, q)
	}
	return quadras, rows.Err()
}

func (r *PostgresCatalogRepo) UpsertArena(ctx context.Context, a *models.Arena) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO arenas (id, name, address, image_url, court_count) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, address = EXCLUDED.address,
			image_url = EXCLUDED.image_url, court_count = EXCLUDED.court_count, updated_at = NOW()`,
		a.ID, a.Name, a.Address, a.ImageURL, a.CourtCount,
	)
	return err
}

func (r *PostgresCatalogRepo) UpsertQuadra(ctx context.Context, q *models.Quadra) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO quadras (id, arena_id, name) VALUES ($1, $2, $3)
		ON CONFLICT (arena_id, id) DO UPDATE SET name = EXCLUDED.name`,
		q.ID, q.ArenaID, q.Name,
	)
	return err
}
