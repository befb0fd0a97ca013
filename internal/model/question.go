package model

import (
	"encoding/json"
	"errors"
	"strings"
)

type Subject string

const (
	Physics     Subject = "Physics"
	Chemistry   Subject = "Chemistry"
	Biology     Subject = "Biology"
	Mathematics Subject = "Mathematics"
)

func ValidSubject(s string) bool {
	switch Subject(s) {
	case Physics, Chemistry, Biology, Mathematics:
		return true
	}
	return false
}

// ChoiceOption is one MCQ choice. Options are kept as an ordered list rather
// than a free-form map so choice order survives round-trips and empty keys are
// rejected before a question reaches the selector.
type ChoiceOption struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

type OptionList []ChoiceOption

func (l OptionList) Validate() error {
	seen := make(map[string]bool, len(l))
	for _, o := range l {
		key := strings.TrimSpace(o.Key)
		if key == "" {
			return errors.New("option key must not be empty")
		}
		if strings.TrimSpace(o.Text) == "" {
			return errors.New("option text must not be empty")
		}
		if seen[strings.ToUpper(key)] {
			return errors.New("duplicate option key: " + key)
		}
		seen[strings.ToUpper(key)] = true
	}
	return nil
}

// swagger:model Question
type Question struct {
	BaseModel
	Subject       Subject `gorm:"type:enum('Physics','Chemistry','Biology','Mathematics');not null;index" json:"subject"`
	Chapter       string  `gorm:"size:100;not null;index" json:"chapter"`
	Topic         string  `gorm:"size:100;not null;index" json:"topic"`
	Difficulty    int     `gorm:"not null" json:"difficulty"` // 1-5
	QuestionText  string  `gorm:"type:text;not null" json:"questionText"`
	Options       string  `gorm:"type:json" json:"-"`
	CorrectAnswer string  `gorm:"type:text;not null" json:"-"`
	Hint          string  `gorm:"type:text" json:"-"`
	Solution      string  `gorm:"type:text" json:"-"`
	Source        string  `gorm:"size:100" json:"source,omitempty"`
	IsActive      bool    `gorm:"default:true" json:"isActive"`
}

func (Question) TableName() string {
	return "questions"
}

func (q *Question) SetOptions(options OptionList) error {
	if err := options.Validate(); err != nil {
		return err
	}
	if len(options) == 0 {
		q.Options = ""
		return nil
	}
	data, err := json.Marshal(options)
	if err != nil {
		return err
	}
	q.Options = string(data)
	return nil
}

func (q *Question) GetOptions() OptionList {
	if q.Options == "" {
		return nil
	}
	var options OptionList
	if err := json.Unmarshal([]byte(q.Options), &options); err != nil {
		return nil
	}
	return options
}

// HasOptions reports whether the question is an MCQ. Questions without
// options accept free-text answers.
func (q *Question) HasOptions() bool {
	return len(q.GetOptions()) > 0
}
