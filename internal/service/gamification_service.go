package service

import (
	"fmt"
	"time"

	"tachyon_backend/internal/config"
	"tachyon_backend/internal/model"
	"tachyon_backend/internal/repository"
	"tachyon_backend/internal/util"

	"gorm.io/gorm"
)

// GamificationStatus is the read-side view: streak, points and badges in one
// payload.
type GamificationStatus struct {
	CurrentStreak  int           `json:"currentStreak"`
	BestStreak     int           `json:"bestStreak"`
	PointsTotal    int           `json:"pointsTotal"`
	PointsThisWeek int           `json:"pointsThisWeek"`
	Badges         []model.Badge `json:"badges"`
}

// GamificationService maintains streaks, points, badges and the per-subject
// performance summaries. Writes always run inside the caller's transaction so
// an attempt and its rewards commit or roll back together.
type GamificationService struct {
	gamificationRepo *repository.GamificationRepository
	performanceRepo  *repository.PerformanceRepository
	attemptRepo      *repository.AttemptRepository
}

func NewGamificationService(
	gamificationRepo *repository.GamificationRepository,
	performanceRepo *repository.PerformanceRepository,
	attemptRepo *repository.AttemptRepository,
) *GamificationService {
	return &GamificationService{
		gamificationRepo: gamificationRepo,
		performanceRepo:  performanceRepo,
		attemptRepo:      attemptRepo,
	}
}

// ApplyAttempt folds one recorded attempt into the student's streak, points,
// badges and performance summary. Returns the points awarded.
func (s *GamificationService) ApplyAttempt(tx *gorm.DB, attempt *model.Attempt, question *model.Question, terminal bool, policy config.PracticeConfig) (int, error) {
	now := time.Now()

	streak, err := s.gamificationRepo.FindOrCreateStreak(tx, attempt.StudentID)
	if err != nil {
		return 0, util.NewInternal("loading streak", err)
	}
	streak.UpdateStreak(now)
	if err := s.gamificationRepo.SaveStreak(tx, streak); err != nil {
		return 0, util.NewInternal("saving streak", err)
	}

	awarded := AttemptPoints(policy, attempt.IsCorrect, attempt.AttemptNo)
	points, err := s.gamificationRepo.FindOrCreatePoints(tx, attempt.StudentID)
	if err != nil {
		return 0, util.NewInternal("loading points", err)
	}
	points.AddPoints(awarded)
	if err := s.gamificationRepo.SavePoints(tx, points); err != nil {
		return 0, util.NewInternal("saving points", err)
	}

	if err := s.checkBadges(tx, attempt, streak, policy); err != nil {
		return 0, err
	}

	if terminal {
		if err := s.updatePerformance(tx, attempt, question, now); err != nil {
			return 0, err
		}
	}
	return awarded, nil
}

func (s *GamificationService) checkBadges(tx *gorm.DB, attempt *model.Attempt, streak *model.Streak, policy config.PracticeConfig) error {
	if streak.CurrentStreak >= 7 {
		if err := s.gamificationRepo.AwardBadge(tx, attempt.StudentID, model.BadgeStreak7,
			"Week Warrior", "Practiced 7 days in a row"); err != nil {
			return util.NewInternal("awarding badge", err)
		}
	}
	if streak.CurrentStreak >= 30 {
		if err := s.gamificationRepo.AwardBadge(tx, attempt.StudentID, model.BadgeStreak30,
			"Monthly Master", "Practiced 30 days in a row"); err != nil {
			return util.NewInternal("awarding badge", err)
		}
	}

	var total int64
	if err := tx.Model(&model.Attempt{}).Where("student_id = ?", attempt.StudentID).Count(&total).Error; err != nil {
		return util.NewInternal("counting attempts", err)
	}
	if total >= 100 {
		if err := s.gamificationRepo.AwardBadge(tx, attempt.StudentID, model.BadgeCentury,
			"Centurion", "Attempted 100 questions"); err != nil {
			return util.NewInternal("awarding badge", err)
		}
	}

	if attempt.IsCorrect {
		recent, err := s.attemptRepo.ListRecentCorrect(tx, attempt.StudentID, policy.FastSolverSampleSize)
		if err != nil {
			return util.NewInternal("loading recent attempts", err)
		}
		if FastSolver(recent, policy.FastSolverSampleSize, policy.FastSolverSeconds) {
			if err := s.gamificationRepo.AwardBadge(tx, attempt.StudentID, model.BadgeFastSolver,
				"Fast Solver", fmt.Sprintf("Averaged under %ds on %d correct answers", policy.FastSolverSeconds, policy.FastSolverSampleSize)); err != nil {
				return util.NewInternal("awarding badge", err)
			}
		}
	}
	return nil
}

func (s *GamificationService) updatePerformance(tx *gorm.DB, attempt *model.Attempt, question *model.Question, now time.Time) error {
	summary, err := s.performanceRepo.FindByStudentAndSubject(tx, attempt.StudentID, question.Subject)
	if err == gorm.ErrRecordNotFound {
		summary = &model.PerformanceSummary{
			StudentID: attempt.StudentID,
			Subject:   question.Subject,
		}
	} else if err != nil {
		return util.NewInternal("loading performance summary", err)
	}
	summary.UpdatePerformance(attempt.IsCorrect, attempt.TimeTakenSeconds, now)
	if err := s.performanceRepo.Save(tx, summary); err != nil {
		return util.NewInternal("saving performance summary", err)
	}
	return nil
}

// Status returns the student's streak, points and badges, zero-valued where
// nothing has been recorded yet.
func (s *GamificationService) Status(studentID uint) (*GamificationStatus, error) {
	status := &GamificationStatus{Badges: []model.Badge{}}

	if streak, err := s.gamificationRepo.FindStreak(studentID); err == nil {
		status.CurrentStreak = streak.CurrentStreak
		status.BestStreak = streak.BestStreak
	} else if err != gorm.ErrRecordNotFound {
		return nil, util.NewInternal("loading streak", err)
	}

	if points, err := s.gamificationRepo.FindPoints(studentID); err == nil {
		status.PointsTotal = points.PointsTotal
		status.PointsThisWeek = points.PointsThisWeek
	} else if err != gorm.ErrRecordNotFound {
		return nil, util.NewInternal("loading points", err)
	}

	badges, err := s.gamificationRepo.ListBadges(studentID)
	if err != nil {
		return nil, util.NewInternal("loading badges", err)
	}
	status.Badges = badges
	return status, nil
}

// FastSolver reports whether the recent correct attempts fill the sample and
// average under the threshold.
func FastSolver(recentCorrect []model.Attempt, sampleSize, thresholdSeconds int) bool {
	if len(recentCorrect) < sampleSize {
		return false
	}
	total := 0
	for _, a := range recentCorrect {
		total += a.TimeTakenSeconds
	}
	return float64(total)/float64(len(recentCorrect)) <= float64(thresholdSeconds)
}
