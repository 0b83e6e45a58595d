package models

type Arena struct {
	ID         string `json:"id" firestore:"-"`
	Name       string `json:"name" firestore:"name"`
	Address    string `json:"address" firestore:"address"`
	ImageURL   string `json:"imageUrl,omitempty" firestore:"imageUrl,omitempty"`
	CourtCount int    `json:"courtCount" firestore:"courtCount"`
}

// Quadra is a single camera-covered court inside an arena.
type Quadra struct {
	ID      string `json:"id" firestore:"-"`
	Name    string `json:"name" firestore:"name"`
	ArenaID string `json:"arenaId" firestore:"arenaId"`
}
