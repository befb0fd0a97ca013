package model

import (
	"time"
)

type UserRole string

const (
	Student  UserRole = "student"
	Mentor   UserRole = "mentor"
	Operator UserRole = "operator"
	Admin    UserRole = "admin"
)

type GoalExam string

const (
	ExamJEE        GoalExam = "JEE"
	ExamNEET       GoalExam = "NEET"
	ExamFoundation GoalExam = "Foundation"
)

// swagger:model User
type User struct {
	BaseModel
	Name     string   `gorm:"size:100;not null" json:"name"`
	Email    string   `gorm:"size:120;unique;not null" json:"email"`
	Phone    string   `gorm:"size:15" json:"phone"`
	Password string   `gorm:"size:256;not null" json:"-"`
	Role     UserRole `gorm:"type:enum('student','mentor','operator','admin');default:'student'" json:"role"`

	// Student profile fields
	GoalExam   GoalExam `gorm:"size:20" json:"goalExam,omitempty"`
	BatchName  string   `gorm:"size:50" json:"batchName,omitempty"`
	ClassLevel string   `gorm:"size:20" json:"classLevel,omitempty"`

	// Mentor profile fields
	Specialization string `gorm:"size:50" json:"specialization,omitempty"`

	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen  time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsStudent() bool {
	return u.Role == Student
}
