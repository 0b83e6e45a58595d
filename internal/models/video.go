package models

// Video is a highlight clip ("video moment") tagged with the arena, court,
// date and hour it was captured at. Field names follow the document store.
type Video struct {
	ID           string  `json:"id" firestore:"-"`
	Title        string  `json:"title" firestore:"title"`
	Description  string  `json:"description,omitempty" firestore:"description,omitempty"`
	ArenaID      string  `json:"arenaId" firestore:"arenaId"`
	QuadraID     string  `json:"quadraId" firestore:"quadraId"`
	Date         string  `json:"date" firestore:"date"` // YYYY-MM-DD once normalized
	Hour         *int    `json:"hour" firestore:"hour"`
	Duration     string  `json:"duration" firestore:"duration"`
	VideoURL     string  `json:"videoUrl" firestore:"videoUrl"`
	ThumbnailURL *string `json:"thumbnailUrl" firestore:"thumbnailUrl"`
	Tournament   string  `json:"tournament,omitempty" firestore:"tournament,omitempty"`
	Views        int64   `json:"views" firestore:"views"`
	Timestamp    string  `json:"timestamp" firestore:"timestamp"` // datefmt.TimestampLayout
	ArenaName    string  `json:"arenaName,omitempty" firestore:"arenaName,omitempty"`
	QuadraName   string  `json:"quadraName,omitempty" firestore:"quadraName,omitempty"`
}

// Discoverable reports whether the video carries every key the selection
// chain filters on.
func (v *Video) Discoverable() bool {
	return v.ArenaID != "" && v.QuadraID != "" && v.Date != "" && v.Hour != nil
}

// VideoFilter is a conjunction of equality predicates. Empty fields are not
// applied. Limit 0 means no cap.
type VideoFilter struct {
	ArenaID  string `json:"arenaId,omitempty"`
	QuadraID string `json:"quadraId,omitempty"`
	Date     string `json:"date,omitempty"`
	Hour     *int   `json:"hour,omitempty"`
	Limit    int    `json:"-"`
}

// Missing lists the filter keys that are not set, in chain order.
func (f VideoFilter) Missing() []string {
	var missing []string
	if f.ArenaID == "" {
		missing = append(missing, "arenaId")
	}
	if f.QuadraID == "" {
		missing = append(missing, "quadraId")
	}
	if f.Date == "" {
		missing = append(missing, "date")
	}
	if f.Hour == nil {
		missing = append(missing, "hour")
	}
	return missing
}

type CreateVideoRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ArenaID     string `json:"arenaId"`
	QuadraID    string `json:"quadraId"`
	Date        string `json:"date"`
	Hour        *int   `json:"hour"`
	Duration    string `json:"duration"`
	VideoURL    string `json:"videoUrl"`
	Tournament  string `json:"tournament"`
	Timestamp   string `json:"timestamp"`
}

// RawDocument is an unvalidated stored record, used by repair tooling.
type RawDocument struct {
	ID     string
	Fields map[string]any
}

// IntPtr is a helper for optional hour values.
func IntPtr(v int) *int {
	return &v
}
