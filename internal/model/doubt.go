package model

import "time"

type DoubtStatus string

const (
	DoubtOpen     DoubtStatus = "open"
	DoubtResolved DoubtStatus = "resolved"
)

// swagger:model Doubt
type Doubt struct {
	BaseModel
	StudentID  uint        `gorm:"not null;index" json:"studentId"`
	QuestionID *uint       `gorm:"index" json:"questionId,omitempty"`
	Message    string      `gorm:"type:text;not null" json:"message"`
	Status     DoubtStatus `gorm:"type:enum('open','resolved');default:'open';not null" json:"status"`
	Response   string      `gorm:"type:text" json:"response,omitempty"`
	ResolvedBy *uint       `json:"resolvedBy,omitempty"`
	ResolvedAt *time.Time  `json:"resolvedAt,omitempty"`
}

func (Doubt) TableName() string {
	return "doubts"
}

func (d *Doubt) MarkResolved(response string, resolverID uint, now time.Time) {
	d.Status = DoubtResolved
	d.Response = response
	d.ResolvedBy = &resolverID
	d.ResolvedAt = &now
}
