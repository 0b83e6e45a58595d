package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"sportftv-backend/internal/models"
)

type FirestoreCatalogRepo struct {
	client *firestore.Client
}

func NewFirestoreCatalogRepo(client *firestore.Client) *FirestoreCatalogRepo {
	return &FirestoreCatalogRepo{client: client}
}

func (r *FirestoreCatalogRepo) ListArenas(ctx context.Context) ([]models.Arena, error) {
	snaps, err := r.client.Collection(arenasCollection).OrderBy("name", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("listing arenas: %w", err)
	}
	arenas := make([]models.Arena, 0, len(snaps))
	for _, s := range snaps {
		arenas = append(arenas, arenaFromFields(s.Ref.ID, s.Data()))
	}
	return arenas, nil
}

func (r *FirestoreCatalogRepo) GetArena(ctx context.Context, id string) (*models.Arena, error) {
	s, err := r.client.Collection(arenasCollection).Doc(id).Get(ctx)
	if isNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	a := arenaFromFields(s.Ref.ID, s.Data())
	return &a, nil
}

// ListQuadras reads quadras by arenaId. Documents written here are keyed
// <arenaId>_<quadraId> so courts named quadra_1 in different arenas do not
// collide; imported catalogs key them by the bare court id.
func (r *FirestoreCatalogRepo) ListQuadras(ctx context.Context, arenaID string) ([]models.Quadra, error) {
	snaps, err := r.client.Collection(quadrasCollection).
		Where("arenaId", "==", arenaID).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("listing quadras: %w", err)
	}
	quadras := make([]models.Quadra, 0, len(snaps))
	for _, s := range snaps {
		quadras = append(quadras, quadraFromFields(s.Ref.ID, s.Data()))
	}
	return quadras, nil
}

func (r *FirestoreCatalogRepo) UpsertArena(ctx context.Context, a *models.Arena) error {
	_, err := r.client.Collection(arenasCollection).Doc(a.ID).Set(ctx, map[string]any{
		"name":       a.Name,
		"address":    a.Address,
		"imageUrl":   a.ImageURL,
		"courtCount": a.CourtCount,
	}, firestore.MergeAll)
	return err
}

func (r *FirestoreCatalogRepo) UpsertQuadra(ctx context.Context, q *models.Quadra) error {
	_, err := r.client.Collection(quadrasCollection).Doc(q.ArenaID+"_"+q.ID).Set(ctx, map[string]any{
		"quadraId": q.ID,
		"arenaId":  q.ArenaID,
		"name":     q.Name,
	})
	return err
}
