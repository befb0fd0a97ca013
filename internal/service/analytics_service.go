package service

import (
	"sort"
	"time"

	"tachyon_backend/internal/model"
	"tachyon_backend/internal/repository"
	"tachyon_backend/internal/util"

	"gorm.io/gorm"
)

type SubjectProgress struct {
	Subject        model.Subject `json:"subject"`
	Accuracy       float64       `json:"accuracy"`
	AvgTimeSeconds float64       `json:"avgTimeSeconds"`
	TotalAttempts  int           `json:"totalAttempts"`
	WeakTopics     []string      `json:"weakTopics,omitempty"`
}

type StudentProgress struct {
	TotalAttempts int64             `json:"totalAttempts"`
	TotalSessions int64             `json:"totalSessions"`
	Subjects      []SubjectProgress `json:"subjects"`
}

type WeakTopic struct {
	Topic    string  `json:"topic"`
	Subject  string  `json:"subject"`
	Attempts int64   `json:"attempts"`
	Accuracy float64 `json:"accuracy"`
}

type PlatformOverview struct {
	Students        int64 `json:"students"`
	Mentors         int64 `json:"mentors"`
	ActiveQuestions int64 `json:"activeQuestions"`
	TotalAttempts   int64 `json:"totalAttempts"`
	TotalSessions   int64 `json:"totalSessions"`
	OpenDoubts      int64 `json:"openDoubts"`
}

type DailyActivity struct {
	Date     string `json:"date"`
	Attempts int64  `json:"attempts"`
	Correct  int64  `json:"correct"`
}

// AnalyticsService computes read-side views over the attempt log. Weak
// topics are derived on read from the windowed topic stats, then cached on
// the per-subject performance summary row.
type AnalyticsService struct {
	db              *gorm.DB
	attemptRepo     *repository.AttemptRepository
	performanceRepo *repository.PerformanceRepository
	sessionRepo     *repository.SessionRepository
	policy          PolicyProvider
}

func NewAnalyticsService(
	db *gorm.DB,
	attemptRepo *repository.AttemptRepository,
	performanceRepo *repository.PerformanceRepository,
	sessionRepo *repository.SessionRepository,
	policy PolicyProvider,
) *AnalyticsService {
	return &AnalyticsService{
		db:              db,
		attemptRepo:     attemptRepo,
		performanceRepo: performanceRepo,
		sessionRepo:     sessionRepo,
		policy:          policy,
	}
}

// Progress returns the student's per-subject performance plus overall
// counters.
func (s *AnalyticsService) Progress(studentID uint) (*StudentProgress, error) {
	summaries, err := s.performanceRepo.ListByStudent(studentID)
	if err != nil {
		return nil, util.NewInternal("loading performance summaries", err)
	}

	totalAttempts, err := s.attemptRepo.CountByStudent(studentID)
	if err != nil {
		return nil, util.NewInternal("counting attempts", err)
	}
	var totalSessions int64
	if err := s.db.Model(&model.PracticeSession{}).Where("student_id = ?", studentID).Count(&totalSessions).Error; err != nil {
		return nil, util.NewInternal("counting sessions", err)
	}

	progress := &StudentProgress{
		TotalAttempts: totalAttempts,
		TotalSessions: totalSessions,
		Subjects:      make([]SubjectProgress, 0, len(summaries)),
	}
	for _, summary := range summaries {
		progress.Subjects = append(progress.Subjects, SubjectProgress{
			Subject:        summary.Subject,
			Accuracy:       summary.Accuracy,
			AvgTimeSeconds: summary.AvgTimeSeconds,
			TotalAttempts:  summary.TotalAttempts,
			WeakTopics:     summary.GetWeakTopics(),
		})
	}
	return progress, nil
}

// WeakTopics ranks the student's topics by windowed accuracy, weakest first,
// and refreshes the cached weak-topic lists on the performance summaries.
func (s *AnalyticsService) WeakTopics(studentID uint) ([]WeakTopic, error) {
	policy := s.policy.Practice()
	cutoff := time.Now().AddDate(0, 0, -policy.AccuracyWindowDays)

	stats, err := s.attemptRepo.TopicStats(studentID, cutoff, nil)
	if err != nil {
		return nil, util.NewInternal("loading topic stats", err)
	}

	weak := RankWeakTopics(stats, policy.MinTopicAttempts, policy.RevisionAccuracy)
	s.cacheWeakTopics(studentID, weak)
	return weak, nil
}

func (s *AnalyticsService) cacheWeakTopics(studentID uint, weak []WeakTopic) {
	bySubject := make(map[model.Subject][]string)
	for _, w := range weak {
		subject := model.Subject(w.Subject)
		bySubject[subject] = append(bySubject[subject], w.Topic)
	}
	for subject, topics := range bySubject {
		summary, err := s.performanceRepo.FindByStudentAndSubject(nil, studentID, subject)
		if err != nil {
			continue
		}
		summary.SetWeakTopics(topics)
		_ = s.performanceRepo.Save(nil, summary)
	}
}

// Overview aggregates platform-wide counts for the admin dashboard.
func (s *AnalyticsService) Overview() (*PlatformOverview, error) {
	overview := &PlatformOverview{}

	counts := []struct {
		dest  *int64
		model interface{}
		where []interface{}
	}{
		{&overview.Students, &model.User{}, []interface{}{"role = ?", model.Student}},
		{&overview.Mentors, &model.User{}, []interface{}{"role = ?", model.Mentor}},
		{&overview.ActiveQuestions, &model.Question{}, []interface{}{"is_active = ?", true}},
		{&overview.TotalAttempts, &model.Attempt{}, nil},
		{&overview.TotalSessions, &model.PracticeSession{}, nil},
		{&overview.OpenDoubts, &model.Doubt{}, []interface{}{"status = ?", model.DoubtOpen}},
	}
	for _, c := range counts {
		query := s.db.Model(c.model)
		if c.where != nil {
			query = query.Where(c.where[0], c.where[1:]...)
		}
		if err := query.Count(c.dest).Error; err != nil {
			return nil, util.NewInternal("counting rows", err)
		}
	}
	return overview, nil
}

// Trends returns daily attempt counts for the last `days` days, oldest first.
func (s *AnalyticsService) Trends(days int) ([]DailyActivity, error) {
	if days <= 0 || days > 365 {
		days = 30
	}
	cutoff := time.Now().AddDate(0, 0, -days).Truncate(24 * time.Hour)

	var rows []struct {
		Day     time.Time
		Total   int64
		Correct int64
	}
	err := s.db.Model(&model.Attempt{}).
		Select("DATE(created_at) AS day, COUNT(id) AS total, SUM(is_correct) AS correct").
		Where("created_at >= ?", cutoff).
		Group("DATE(created_at)").
		Order("day").
		Scan(&rows).Error
	if err != nil {
		return nil, util.NewInternal("loading activity trends", err)
	}

	activity := make([]DailyActivity, 0, len(rows))
	for _, row := range rows {
		activity = append(activity, DailyActivity{
			Date:     row.Day.Format("2006-01-02"),
			Attempts: row.Total,
			Correct:  row.Correct,
		})
	}
	return activity, nil
}

// RankWeakTopics filters topics to those with enough attempts and accuracy
// under the threshold, sorted weakest first with name tie-break.
func RankWeakTopics(stats []repository.TopicStat, minAttempts int, threshold float64) []WeakTopic {
	weak := make([]WeakTopic, 0)
	for _, stat := range stats {
		if stat.Total < int64(minAttempts) {
			continue
		}
		accuracy := float64(stat.Correct) / float64(stat.Total)
		if accuracy >= threshold {
			continue
		}
		weak = append(weak, WeakTopic{
			Topic:    stat.Topic,
			Subject:  stat.Subject,
			Attempts: stat.Total,
			Accuracy: accuracy,
		})
	}
	sort.Slice(weak, func(i, j int) bool {
		if weak[i].Accuracy != weak[j].Accuracy {
			return weak[i].Accuracy < weak[j].Accuracy
		}
		return weak[i].Topic < weak[j].Topic
	})
	return weak
}
