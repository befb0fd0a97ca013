package model

import "time"

// swagger:model Streak
type Streak struct {
	BaseModel
	StudentID      uint       `gorm:"not null;uniqueIndex" json:"studentId"`
	CurrentStreak  int        `gorm:"default:0;not null" json:"currentStreak"`
	BestStreak     int        `gorm:"default:0;not null" json:"bestStreak"`
	LastActiveDate *time.Time `gorm:"type:date" json:"lastActiveDate,omitempty"`
}

func (Streak) TableName() string {
	return "streaks"
}

// UpdateStreak advances the streak for activity on the given day. Same-day
// activity is a no-op; activity on the next calendar day extends the streak;
// anything longer resets it. Days are calendar dates in the activity time's
// location, not 24-hour UTC buckets, so late-evening and next-morning
// practice count as consecutive days regardless of UTC offset.
func (s *Streak) UpdateStreak(activityDate time.Time) {
	day := dateOnly(activityDate)

	if s.LastActiveDate == nil {
		s.CurrentStreak = 1
	} else {
		last := dateOnly(s.LastActiveDate.In(activityDate.Location()))
		switch {
		case day.Equal(last):
			return
		case day.Equal(last.AddDate(0, 0, 1)):
			s.CurrentStreak++
		default:
			s.CurrentStreak = 1
		}
	}

	s.LastActiveDate = &day
	if s.CurrentStreak > s.BestStreak {
		s.BestStreak = s.CurrentStreak
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// swagger:model Points
type Points struct {
	BaseModel
	StudentID       uint       `gorm:"not null;uniqueIndex" json:"studentId"`
	PointsTotal     int        `gorm:"default:0;not null" json:"pointsTotal"`
	PointsThisWeek  int        `gorm:"default:0;not null" json:"pointsThisWeek"`
	PointsThisMonth int        `gorm:"default:0;not null" json:"pointsThisMonth"`
	LastPointsReset *time.Time `gorm:"type:date" json:"lastPointsReset,omitempty"`
}

func (Points) TableName() string {
	return "points"
}

func (p *Points) AddPoints(points int) {
	p.PointsTotal += points
	p.PointsThisWeek += points
	p.PointsThisMonth += points
}

// Badge codes awarded by the gamification service.
const (
	BadgeStreak7    = "7D_STREAK"
	BadgeStreak30   = "30D_STREAK"
	BadgeCentury    = "100_Q_SOLVED"
	BadgeFastSolver = "FAST_SOLVER"
)

// swagger:model Badge
type Badge struct {
	BaseModel
	StudentID   uint      `gorm:"not null;uniqueIndex:unique_student_badge" json:"studentId"`
	Code        string    `gorm:"size:50;not null;uniqueIndex:unique_student_badge" json:"code"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"size:200" json:"description,omitempty"`
	AwardedAt   time.Time `gorm:"not null" json:"awardedAt"`
}

func (Badge) TableName() string {
	return "badges"
}
