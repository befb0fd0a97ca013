package model

import (
	"strings"
	"time"
)

type LectureResourceType string

const (
	LectureYoutube LectureResourceType = "youtube"
	LectureVideo   LectureResourceType = "video"
)

// swagger:model Lecture
type Lecture struct {
	BaseModel
	Title           string              `gorm:"size:200;not null" json:"title"`
	Date            time.Time           `gorm:"type:date;not null" json:"date"`
	Subject         Subject             `gorm:"type:enum('Physics','Chemistry','Biology','Mathematics');not null" json:"subject"`
	ResourceType    LectureResourceType `gorm:"type:enum('youtube','video');not null" json:"resourceType"`
	ResourceURL     string              `gorm:"size:500;not null" json:"resourceUrl"`
	Notes           string              `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy       uint                `gorm:"not null" json:"createdBy"`
	IsActive        bool                `gorm:"default:true" json:"isActive"`
	DurationMinutes int                 `json:"durationMinutes,omitempty"`
	ThumbnailURL    string              `gorm:"size:500" json:"thumbnailUrl,omitempty"`
}

func (Lecture) TableName() string {
	return "lectures"
}

// EmbedURL rewrites YouTube watch/short links to the embeddable form.
func (l *Lecture) EmbedURL() string {
	if l.ResourceType != LectureYoutube {
		return l.ResourceURL
	}
	if idx := strings.Index(l.ResourceURL, "watch?v="); idx >= 0 {
		id := l.ResourceURL[idx+len("watch?v="):]
		if amp := strings.Index(id, "&"); amp >= 0 {
			id = id[:amp]
		}
		return "https://www.youtube.com/embed/" + id
	}
	if idx := strings.Index(l.ResourceURL, "youtu.be/"); idx >= 0 {
		id := l.ResourceURL[idx+len("youtu.be/"):]
		if q := strings.Index(id, "?"); q >= 0 {
			id = id[:q]
		}
		return "https://www.youtube.com/embed/" + id
	}
	return l.ResourceURL
}
