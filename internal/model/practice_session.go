package model

import (
	"encoding/json"
	"time"
)

type PracticeMode string

const (
	ModeAdaptive PracticeMode = "adaptive"
	ModeTopic    PracticeMode = "topic"
	ModeChapter  PracticeMode = "chapter"
	ModeSubject  PracticeMode = "subject"
	ModeRandom   PracticeMode = "random"
	ModeRevision PracticeMode = "revision"
)

func ValidPracticeMode(m string) bool {
	switch PracticeMode(m) {
	case ModeAdaptive, ModeTopic, ModeChapter, ModeSubject, ModeRandom, ModeRevision:
		return true
	}
	return false
}

type DeviceType string

const (
	DeviceKiosk    DeviceType = "kiosk"
	DevicePersonal DeviceType = "personal"
)

// swagger:model PracticeSession
type PracticeSession struct {
	BaseModel
	StudentID  uint         `gorm:"index;not null" json:"studentId"`
	Mode       PracticeMode `gorm:"type:enum('adaptive','topic','chapter','subject','random','revision');not null" json:"mode"`
	Subjects   string       `gorm:"type:json" json:"-"`
	Chapters   string       `gorm:"type:json" json:"-"`
	Topics     string       `gorm:"type:json" json:"-"`
	DeviceType DeviceType   `gorm:"type:enum('kiosk','personal');default:'personal'" json:"deviceType"`
	StartedAt  time.Time    `gorm:"not null" json:"startedAt"`
	EndedAt    *time.Time   `json:"endedAt,omitempty"`

	// Running counters, maintained under the session row lock. The summary
	// endpoint recomputes from the attempt log instead of trusting these.
	QuestionsAnswered int  `gorm:"default:0" json:"questionsAnswered"`
	CorrectAnswers    int  `gorm:"default:0" json:"correctAnswers"`
	IsActive          bool `gorm:"default:true;index" json:"isActive"`
}

func (PracticeSession) TableName() string {
	return "practice_sessions"
}

func (s *PracticeSession) SetSubjects(subjects []string) { s.Subjects = marshalList(subjects) }
func (s *PracticeSession) SetChapters(chapters []string) { s.Chapters = marshalList(chapters) }
func (s *PracticeSession) SetTopics(topics []string)     { s.Topics = marshalList(topics) }

func (s *PracticeSession) GetSubjects() []string { return unmarshalList(s.Subjects) }
func (s *PracticeSession) GetChapters() []string { return unmarshalList(s.Chapters) }
func (s *PracticeSession) GetTopics() []string   { return unmarshalList(s.Topics) }

func marshalList(values []string) string {
	if len(values) == 0 {
		return ""
	}
	data, err := json.Marshal(values)
	if err != nil {
		return ""
	}
	return string(data)
}

func unmarshalList(raw string) []string {
	if raw == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil
	}
	return values
}
