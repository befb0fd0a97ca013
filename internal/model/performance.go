package model

import (
	"encoding/json"
	"time"
)

// swagger:model PerformanceSummary
type PerformanceSummary struct {
	BaseModel
	StudentID       uint      `gorm:"not null;uniqueIndex:unique_student_subject" json:"studentId"`
	Subject         Subject   `gorm:"type:enum('Physics','Chemistry','Biology','Mathematics');not null;uniqueIndex:unique_student_subject" json:"subject"`
	Accuracy        float64   `gorm:"default:0;not null" json:"accuracy"`
	AvgTimeSeconds  float64   `gorm:"default:0;not null" json:"avgTimeSeconds"`
	TotalAttempts   int       `gorm:"default:0;not null" json:"totalAttempts"`
	CorrectAttempts int       `gorm:"default:0;not null" json:"correctAttempts"`
	WeakTopics      string    `gorm:"type:json" json:"-"`
	LastUpdated     time.Time `gorm:"not null" json:"lastUpdated"`
}

func (PerformanceSummary) TableName() string {
	return "performance_summaries"
}

// UpdatePerformance folds one new attempt into the rolling metrics.
func (p *PerformanceSummary) UpdatePerformance(correct bool, timeTaken int, now time.Time) {
	p.TotalAttempts++
	if correct {
		p.CorrectAttempts++
	}
	p.Accuracy = float64(p.CorrectAttempts) / float64(p.TotalAttempts)

	if p.TotalAttempts == 1 {
		p.AvgTimeSeconds = float64(timeTaken)
	} else {
		p.AvgTimeSeconds = (p.AvgTimeSeconds*float64(p.TotalAttempts-1) + float64(timeTaken)) / float64(p.TotalAttempts)
	}
	p.LastUpdated = now
}

func (p *PerformanceSummary) SetWeakTopics(topics []string) {
	if len(topics) == 0 {
		p.WeakTopics = ""
		return
	}
	data, err := json.Marshal(topics)
	if err != nil {
		return
	}
	p.WeakTopics = string(data)
}

func (p *PerformanceSummary) GetWeakTopics() []string {
	if p.WeakTopics == "" {
		return nil
	}
	var topics []string
	if err := json.Unmarshal([]byte(p.WeakTopics), &topics); err != nil {
		return nil
	}
	return topics
}
