package repository

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"sportftv-backend/internal/models"
)

const (
	videosCollection  = "videos"
	arenasCollection  = "arenas"
	quadrasCollection = "quadras"
)

type FirestoreVideoRepo struct {
	client *firestore.Client
}

func NewFirestoreVideoRepo(client *firestore.Client) *FirestoreVideoRepo {
	return &FirestoreVideoRepo{client: client}
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func (r *FirestoreVideoRepo) Find(ctx context.Context, f models.VideoFilter) ([]models.Video, error) {
	q := r.client.Collection(videosCollection).Query
	if f.ArenaID != "" {
		q = q.Where("arenaId", "==", f.ArenaID)
	}
	if f.QuadraID != "" {
		q = q.Where("quadraId", "==", f.QuadraID)
	}
	if f.Date != "" {
		q = q.Where("date", "==", f.Date)
	}
	if f.Hour != nil {
		q = q.Where("hour", "==", *f.Hour)
	}
	q = q.OrderBy("timestamp", firestore.Desc)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	videos := []models.Video{}
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("querying videos: %w", err)
		}
		videos = append(videos, videoFromFields(doc.Ref.ID, doc.Data()))
	}
	return videos, nil
}

func (r *FirestoreVideoRepo) Get(ctx context.Context, id string) (*models.Video, error) {
	doc, err := r.client.Collection(videosCollection).Doc(id).Get(ctx)
	if isNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting video %s: %w", id, err)
	}
	v := videoFromFields(doc.Ref.ID, doc.Data())
	return &v, nil
}

func (r *FirestoreVideoRepo) Upsert(ctx context.Context, v *models.Video) error {
	_, err := r.client.Collection(videosCollection).Doc(v.ID).Set(ctx, videoFields(v))
	return err
}

// UpdateThumbnailURL fails with ErrNotFound when the document is missing
// rather than creating it.
func (r *FirestoreVideoRepo) UpdateThumbnailURL(ctx context.Context, id, url string) error {
	return r.Patch(ctx, id, map[string]any{"thumbnailUrl": url})
}

func (r *FirestoreVideoRepo) ListRaw(ctx context.Context) ([]models.RawDocument, error) {
	snaps, err := r.client.Collection(videosCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	docs := make([]models.RawDocument, 0, len(snaps))
	for _, s := range snaps {
		docs = append(docs, models.RawDocument{ID: s.Ref.ID, Fields: s.Data()})
	}
	return docs, nil
}

func (r *FirestoreVideoRepo) Patch(ctx context.Context, id string, fields map[string]any) error {
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	_, err := r.client.Collection(videosCollection).Doc(id).Update(ctx, updates)
	if isNotFound(err) {
		return ErrNotFound
	}
	return err
}

func (r *FirestoreVideoRepo) Ping(ctx context.Context) error {
	_, err := r.client.Collection(videosCollection).Limit(1).Documents(ctx).GetAll()
	return err
}
