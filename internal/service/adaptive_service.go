package service

import (
	"time"

	"tachyon_backend/internal/config"
	"tachyon_backend/internal/model"
	"tachyon_backend/internal/repository"
	"tachyon_backend/internal/util"
)

// ErrSessionComplete reports that no unanswered question matches the
// session's filters anymore.
var ErrSessionComplete = util.NewNotFound("session complete: no unanswered questions match the session filters")

// difficultyWindow is how many recent attempts feed the target-difficulty
// calculation.
const difficultyWindow = 20

// PolicyProvider hands out the current practice policy. The config watcher
// swaps the policy at runtime, so services read it per call instead of
// capturing it at construction.
type PolicyProvider interface {
	Practice() config.PracticeConfig
}

type staticPolicy struct {
	cfg config.PracticeConfig
}

func (p staticPolicy) Practice() config.PracticeConfig { return p.cfg }

// StaticPolicy wraps a fixed policy, used in tests and one-shot tools.
func StaticPolicy(cfg config.PracticeConfig) PolicyProvider {
	return staticPolicy{cfg: cfg}
}

// AdaptiveService selects the next question for a practice session. Selection
// is a pure read: it never writes, and for a fixed pool and seen-set it always
// returns the same question.
type AdaptiveService struct {
	questionRepo *repository.QuestionRepository
	attemptRepo  *repository.AttemptRepository
	policy       PolicyProvider
}

func NewAdaptiveService(questionRepo *repository.QuestionRepository, attemptRepo *repository.AttemptRepository, policy PolicyProvider) *AdaptiveService {
	return &AdaptiveService{
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		policy:       policy,
	}
}

// SelectNext picks the next question for the session, or ErrSessionComplete
// when the pool is exhausted. Constraints are relaxed in a fixed order
// (recent-history exclusion first, then the difficulty band, then the weak
// topic restriction) so a student is never starved while questions remain.
func (s *AdaptiveService) SelectNext(session *model.PracticeSession) (*model.Question, error) {
	policy := s.policy.Practice()

	seen, err := s.attemptRepo.QuestionIDsBySession(session.ID)
	if err != nil {
		return nil, util.NewInternal("loading session attempts", err)
	}

	base := repository.QuestionFilter{
		Subjects: session.GetSubjects(),
		Chapters: session.GetChapters(),
		Topics:   session.GetTopics(),
	}

	target := policy.DefaultDifficulty
	var weakTopic string

	switch session.Mode {
	case model.ModeAdaptive:
		weakTopic, target, err = s.adaptiveTargets(session.StudentID, base.Subjects, policy)
		if err != nil {
			return nil, err
		}
	case model.ModeRevision:
		ids, err := s.revisionCandidates(session.StudentID, base, policy)
		if err != nil {
			return nil, err
		}
		if len(ids) > 0 {
			base.IncludeIDs = ids
		}
	}

	var recent []uint
	if session.Mode == model.ModeAdaptive || session.Mode == model.ModeRandom {
		recent, err = s.attemptRepo.RecentQuestionIDs(session.StudentID, policy.RecentExcludeCount)
		if err != nil {
			return nil, util.NewInternal("loading recent attempts", err)
		}
	}

	// Relaxation ladder: each step gives up one constraint.
	type candidateStep struct {
		topic         string
		band          bool
		excludeRecent bool
	}
	steps := []candidateStep{
		{topic: weakTopic, band: true, excludeRecent: true},
		{topic: weakTopic, band: true, excludeRecent: false},
		{topic: weakTopic, band: false, excludeRecent: false},
		{topic: "", band: false, excludeRecent: false},
	}

	for _, step := range steps {
		filter := base
		if step.topic != "" {
			filter.Topics = []string{step.topic}
		}
		if step.band && session.Mode == model.ModeAdaptive {
			filter.Difficulties = difficultyBand(target)
		}
		filter.ExcludeIDs = seen
		if step.excludeRecent {
			filter.ExcludeIDs = mergeIDs(seen, recent)
		}

		pool, err := s.questionRepo.ListActive(filter)
		if err != nil {
			return nil, util.NewInternal("loading question pool", err)
		}
		if len(pool) == 0 {
			continue
		}
		if session.Mode == model.ModeAdaptive {
			return PickQuestion(pool, target), nil
		}
		return FirstByID(pool), nil
	}
	return nil, ErrSessionComplete
}

// adaptiveTargets resolves the weak topic and target difficulty for adaptive
// mode from the student's recent history.
func (s *AdaptiveService) adaptiveTargets(studentID uint, subjects []string, policy config.PracticeConfig) (string, int, error) {
	cutoff := time.Now().AddDate(0, 0, -policy.AccuracyWindowDays)
	stats, err := s.attemptRepo.TopicStats(studentID, cutoff, subjects)
	if err != nil {
		return "", 0, util.NewInternal("loading topic stats", err)
	}
	allTopics, err := s.questionRepo.DistinctTopics(subjects)
	if err != nil {
		return "", 0, util.NewInternal("loading topics", err)
	}

	topic, _ := WeakestTopic(stats, allTopics, policy.MinTopicAttempts)

	recent, questions, err := s.attemptRepo.ListRecentWithQuestions(studentID, repository.QuestionFilter{Subjects: subjects}, difficultyWindow)
	if err != nil {
		return "", 0, util.NewInternal("loading recent attempts", err)
	}
	return topic, TargetDifficulty(recent, questions, policy), nil
}

// revisionCandidates returns questions the student has attempted at least
// twice with accuracy below the revision threshold.
func (s *AdaptiveService) revisionCandidates(studentID uint, filter repository.QuestionFilter, policy config.PracticeConfig) ([]uint, error) {
	stats, err := s.attemptRepo.QuestionStats(studentID, filter, 2)
	if err != nil {
		return nil, util.NewInternal("loading question stats", err)
	}
	var ids []uint
	for _, stat := range stats {
		if float64(stat.Correct)/float64(stat.Total) < policy.RevisionAccuracy {
			ids = append(ids, stat.QuestionID)
		}
	}
	return ids, nil
}

// WeakestTopic picks the topic with the lowest accuracy among those with at
// least minAttempts attempts in the window. Ties break on topic name so the
// choice is stable. When no topic qualifies, the least-covered topic from the
// bank is returned instead, so new students still get steered.
func WeakestTopic(stats []repository.TopicStat, allTopics []string, minAttempts int) (string, bool) {
	best := ""
	bestAccuracy := 2.0
	for _, stat := range stats {
		if stat.Total < int64(minAttempts) {
			continue
		}
		accuracy := float64(stat.Correct) / float64(stat.Total)
		if accuracy < bestAccuracy || (accuracy == bestAccuracy && stat.Topic < best) {
			best = stat.Topic
			bestAccuracy = accuracy
		}
	}
	if best != "" {
		return best, true
	}

	counts := make(map[string]int64, len(stats))
	for _, stat := range stats {
		counts[stat.Topic] = stat.Total
	}
	var leastCount int64 = -1
	for _, topic := range allTopics {
		count := counts[topic]
		if leastCount < 0 || count < leastCount || (count == leastCount && topic < best) {
			best = topic
			leastCount = count
		}
	}
	return best, best != ""
}

// TargetDifficulty derives the difficulty to aim for from the student's
// recent attempts. Too little history falls back to the default; strong
// recent accuracy raises the band by one, weak accuracy lowers it.
func TargetDifficulty(recent []model.Attempt, questions map[uint]model.Question, policy config.PracticeConfig) int {
	if len(recent) < policy.MinTopicAttempts {
		return policy.DefaultDifficulty
	}

	correct := 0
	for _, a := range recent {
		if a.IsCorrect {
			correct++
		}
	}
	accuracy := float64(correct) / float64(len(recent))

	base := policy.DefaultDifficulty
	if q, ok := questions[recent[0].QuestionID]; ok {
		base = q.Difficulty
	}

	switch {
	case accuracy >= policy.RaiseAccuracy:
		base++
	case accuracy <= policy.LowerAccuracy:
		base--
	}
	return clampDifficulty(base)
}

// PickQuestion returns the pool question closest to the target difficulty.
// Ties break toward lower difficulty, then lower id, so the pick is
// deterministic for a fixed pool.
func PickQuestion(pool []model.Question, target int) *model.Question {
	if len(pool) == 0 {
		return nil
	}
	best := &pool[0]
	bestDist := absInt(best.Difficulty - target)
	for i := 1; i < len(pool); i++ {
		q := &pool[i]
		dist := absInt(q.Difficulty - target)
		if dist < bestDist ||
			(dist == bestDist && q.Difficulty < best.Difficulty) ||
			(dist == bestDist && q.Difficulty == best.Difficulty && q.ID < best.ID) {
			best = q
			bestDist = dist
		}
	}
	return best
}

// FirstByID returns the lowest-id question in the pool.
func FirstByID(pool []model.Question) *model.Question {
	if len(pool) == 0 {
		return nil
	}
	best := &pool[0]
	for i := 1; i < len(pool); i++ {
		if pool[i].ID < best.ID {
			best = &pool[i]
		}
	}
	return best
}

func difficultyBand(target int) []int {
	band := make([]int, 0, 3)
	for d := target - 1; d <= target+1; d++ {
		if d >= 1 && d <= 5 {
			band = append(band, d)
		}
	}
	return band
}

func clampDifficulty(d int) int {
	if d < 1 {
		return 1
	}
	if d > 5 {
		return 5
	}
	return d
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func mergeIDs(a, b []uint) []uint {
	if len(b) == 0 {
		return a
	}
	seen := make(map[uint]bool, len(a)+len(b))
	merged := make([]uint, 0, len(a)+len(b))
	for _, id := range a {
		if !seen[id] {
			seen[id] = true
			merged = append(merged, id)
		}
	}
	for _, id := range b {
		if !seen[id] {
			seen[id] = true
			merged = append(merged, id)
		}
	}
	return merged
}
