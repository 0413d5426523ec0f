package gallery

import (
	"path"
	"strings"
	"time"

	"github.com/eleven-am/gallery-backend/internal/shared"
)

type Photo struct {
	ID       string `gorm:"primaryKey" json:"id"`
	FileName string `gorm:"uniqueIndex;not null" json:"file_name"`

	Description   string             `json:"description,omitempty"`
	Tags          shared.StringSlice `gorm:"type:json" json:"tags,omitempty"`
	UserTags      shared.StringSlice `gorm:"type:json" json:"user_tags,omitempty"`
	Objects       shared.StringSlice `gorm:"type:json" json:"objects,omitempty"`
	DominantColor string             `json:"dominant_color,omitempty"`
	TakenAt       string             `json:"taken_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// URL returns the public path the static file server exposes this photo at.
func (p *Photo) URL() string {
	return "/images/" + p.FileName
}

// AllTags merges model-generated and user-supplied tags, dropping blanks.
func (p *Photo) AllTags() []string {
	merged := make([]string, 0, len(p.Tags)+len(p.UserTags))
	for _, tag := range append(append([]string{}, p.Tags...), p.UserTags...) {
		if t := strings.TrimSpace(tag); t != "" {
			merged = append(merged, t)
		}
	}
	return merged
}

// ImageURL derives the public URL for a stored record id the way the chat
// pipeline needs it: only the base filename of the id is exposed.
func ImageURL(id string) string {
	return "/images/" + path.Base(id)
}
