package model

// Attempt is one submitted answer inside a practice session. Rows are
// append-only; analytics and session summaries are derived from this log.
// swagger:model Attempt
type Attempt struct {
	BaseModel
	StudentID        uint   `gorm:"not null;index:idx_student_question_session" json:"studentId"`
	QuestionID       uint   `gorm:"not null;index:idx_student_question_session" json:"questionId"`
	SessionID        uint   `gorm:"not null;index:idx_student_question_session" json:"sessionId"`
	ChosenAnswer     string `gorm:"type:text;not null" json:"chosenAnswer"`
	IsCorrect        bool   `gorm:"not null" json:"isCorrect"`
	AttemptNo        int    `gorm:"not null;default:1" json:"attemptNo"`
	TimeTakenSeconds int    `gorm:"not null" json:"timeTakenSeconds"`

	// Client-generated key so offline-queue replays do not double-count.
	IdempotencyKey string `gorm:"size:64;uniqueIndex;default:null" json:"idempotencyKey,omitempty"`
}

func (Attempt) TableName() string {
	return "attempts"
}
