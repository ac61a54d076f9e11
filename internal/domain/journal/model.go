package journal

import (
	"time"

	"github.com/google/uuid"
)

// Memory maps to the memories table.
type Memory struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"userId"`
	Title     string    `db:"title" json:"title"`
	Content   *string   `db:"content" json:"content"`
	PhotoURLs []string  `db:"photo_urls" json:"photoUrls"`
	AudioURL  *string   `db:"audio_url" json:"audioUrl"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

func (m *Memory) AccessibleBy(userID uuid.UUID) bool { return m.UserID == userID }

// MemoryInput is the body of POST /api/memories.
type MemoryInput struct {
	Title     string   `json:"title"`
	Content   *string  `json:"content"`
	PhotoURLs []string `json:"photoUrls"`
	AudioURL  *string  `json:"audioUrl"`
}

// MemoryPatch is the body of PUT and PATCH /api/memories/:id. Absent fields
// keep their stored value; photoUrls, when present, replaces the whole list.
type MemoryPatch struct {
	Title     *string   `json:"title"`
	Content   *string   `json:"content"`
	PhotoURLs *[]string `json:"photoUrls"`
	AudioURL  *string   `json:"audioUrl"`
}

// FamiliarFace maps to the familiar_faces table.
type FamiliarFace struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"userId"`
	Name         string    `db:"name" json:"name"`
	Relationship string    `db:"relationship" json:"relationship"`
	PhotoURL     string    `db:"photo_url" json:"photoUrl"`
	Description  *string   `db:"description" json:"description"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

func (f *FamiliarFace) AccessibleBy(userID uuid.UUID) bool { return f.UserID == userID }

// FamiliarFaceInput is the body of POST /api/familiar-faces.
type FamiliarFaceInput struct {
	Name         string  `json:"name"`
	Relationship string  `json:"relationship"`
	PhotoURL     string  `json:"photoUrl"`
	Description  *string `json:"description"`
}

// FamiliarFacePatch is the body of PUT and PATCH /api/familiar-faces/:id.
type FamiliarFacePatch struct {
	Name         *string `json:"name"`
	Relationship *string `json:"relationship"`
	PhotoURL     *string `json:"photoUrl"`
	Description  *string `json:"description"`
}

// PhotoRequest is the body of the photo attachment routes. The key spelling
// matches what the upload widget sends.
type PhotoRequest struct {
	PhotoURL string `json:"photoURL"`
}
