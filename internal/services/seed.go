package services

import (
	"context"
	"fmt"
	"log/slog"

	"sportftv-backend/internal/models"
)

var seedArenas = []models.Arena{
	{ID: "arena_sport_center", Name: "Arena Sport Center", Address: "Rua das Palmeiras, 123 - Boa Viagem, Recife", CourtCount: 3},
	{ID: "arena_beach_club", Name: "Beach Club Recife", Address: "Av. Beira Mar, 456 - Pina, Recife", CourtCount: 2},
}

var seedQuadras = []models.Quadra{
	{ID: "quadra_1", ArenaID: "arena_sport_center", Name: "Quadra Principal"},
	{ID: "quadra_2", ArenaID: "arena_sport_center", Name: "Quadra Lateral"},
	{ID: "quadra_3", ArenaID: "arena_sport_center", Name: "Quadra Panorâmica"},
	{ID: "quadra_beach_1", ArenaID: "arena_beach_club", Name: "Quadra Praia Norte"},
	{ID: "quadra_beach_2", ArenaID: "arena_beach_club", Name: "Quadra Praia Sul"},
}

func seedVideos() []models.CreateVideoRequest {
	const sample = "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/"
	return []models.CreateVideoRequest{
		{ID: "seed_001", Title: "Ponto decisivo na final", ArenaID: "arena_sport_center", QuadraID: "quadra_1", Date: "2024-01-15", Hour: models.IntPtr(18), Duration: "2:45", VideoURL: sample + "BigBuckBunny.mp4", Tournament: "Campeonato Regional", Timestamp: "2024-01-15T18:30:00Z"},
		{ID: "seed_002", Title: "Defesa no último segundo", ArenaID: "arena_sport_center", QuadraID: "quadra_2", Date: "2024-01-15", Hour: models.IntPtr(19), Duration: "1:30", VideoURL: sample + "ElephantsDream.mp4", Tournament: "Campeonato Regional", Timestamp: "2024-01-15T19:45:00Z"},
		{ID: "seed_003", Title: "Jogada ensaiada", ArenaID: "arena_beach_club", QuadraID: "quadra_beach_1", Date: "16/01/2024", Hour: models.IntPtr(16), Duration: "3:20", VideoURL: sample + "ForBiggerBlazes.mp4", Tournament: "Treino Tático", Timestamp: "2024-01-16T16:20:00Z"},
		{ID: "seed_004", Title: "Lance polêmico", ArenaID: "arena_sport_center", QuadraID: "quadra_3", Date: "2024-01-16", Hour: models.IntPtr(20), Duration: "1:15", VideoURL: sample + "BigBuckBunny.mp4", Tournament: "Campeonato Regional", Timestamp: "2024-01-16T20:10:00Z"},
		{ID: "seed_005", Title: "Comemoração da torcida", ArenaID: "arena_beach_club", QuadraID: "quadra_beach_2", Date: "2024-01-17", Hour: models.IntPtr(17), Duration: "2:00", VideoURL: sample + "ElephantsDream.mp4", Tournament: "Campeonato Regional", Timestamp: "2024-01-17T17:00:00Z"},
		{ID: "seed_006", Title: "Treino de finalizações", ArenaID: "arena_sport_center", QuadraID: "quadra_1", Date: "2024-01-17", Hour: models.IntPtr(15), Duration: "4:30", VideoURL: sample + "ForBiggerBlazes.mp4", Tournament: "Treino", Timestamp: "2024-01-17T15:30:00Z"},
		{ID: "seed_007", Title: "Aquecimento da equipe", ArenaID: "arena_sport_center", QuadraID: "quadra_2", Date: "2024-01-18", Hour: models.IntPtr(14), Duration: "3:00", VideoURL: sample + "BigBuckBunny.mp4", Tournament: "Pré-jogo", Timestamp: "2024-01-18T14:00:00Z"},
	}
}

type SeedResult struct {
	Arenas  int `json:"arenas"`
	Quadras int `json:"quadras"`
	Videos  int `json:"videos"`
}

// Seeder loads a sample catalog and videos through the validated write
// path. Ids are fixed, so running it twice overwrites the same records.
type Seeder struct {
	videos *VideoService
	logger *slog.Logger
}

func NewSeeder(videos *VideoService, logger *slog.Logger) *Seeder {
	return &Seeder{videos: videos, logger: logger}
}

func (s *Seeder) Seed(ctx context.Context) (*SeedResult, error) {
	res := &SeedResult{}
	for _, a := range seedArenas {
		if _, err := s.videos.CreateArena(ctx, a); err != nil {
			return res, fmt.Errorf("seeding arena %s: %w", a.ID, err)
		}
		res.Arenas++
	}
	for _, q := range seedQuadras {
		if _, err := s.videos.CreateQuadra(ctx, q); err != nil {
			return res, fmt.Errorf("seeding quadra %s: %w", q.ID, err)
		}
		res.Quadras++
	}
	for _, v := range seedVideos() {
		if _, err := s.videos.Create(ctx, v); err != nil {
			return res, fmt.Errorf("seeding video %s: %w", v.ID, err)
		}
		res.Videos++
	}
	s.logger.Info("seed complete", "arenas", res.Arenas, "quadras", res.Quadras, "videos", res.Videos)
	return res, nil
}
