package model

// swagger:model Bookmark
type Bookmark struct {
	BaseModel
	StudentID  uint `gorm:"not null;uniqueIndex:unique_student_question_bookmark" json:"studentId"`
	QuestionID uint `gorm:"not null;uniqueIndex:unique_student_question_bookmark" json:"questionId"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}
