package service

import (
	"testing"

	"tachyon_backend/internal/config"
	"tachyon_backend/internal/model"
	"tachyon_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() config.PracticeConfig {
	return config.PracticeConfig{
		MaxAttempts:          2,
		AccuracyWindowDays:   30,
		MinTopicAttempts:     3,
		RecentExcludeCount:   30,
		DefaultDifficulty:    2,
		RaiseAccuracy:        0.8,
		LowerAccuracy:        0.4,
		RevisionAccuracy:     0.6,
		PointsPerAttempt:     2,
		PointsFirstCorrect:   5,
		PointsRetryCorrect:   3,
		FastSolverSeconds:    40,
		FastSolverSampleSize: 20,
	}
}

func question(id uint, difficulty int) model.Question {
	return model.Question{
		BaseModel:  model.BaseModel{ID: id},
		Difficulty: difficulty,
	}
}

func TestWeakestTopic(t *testing.T) {
	tests := []struct {
		name      string
		stats     []repository.TopicStat
		allTopics []string
		want      string
		found     bool
	}{
		{
			name: "lowest accuracy wins",
			stats: []repository.TopicStat{
				{Topic: "Optics", Total: 10, Correct: 8},
				{Topic: "Waves", Total: 10, Correct: 3},
				{Topic: "Thermodynamics", Total: 10, Correct: 6},
			},
			allTopics: []string{"Optics", "Waves", "Thermodynamics"},
			want:      "Waves",
			found:     true,
		},
		{
			name: "accuracy tie breaks on topic name",
			stats: []repository.TopicStat{
				{Topic: "Waves", Total: 10, Correct: 5},
				{Topic: "Optics", Total: 10, Correct: 5},
			},
			allTopics: []string{"Optics", "Waves"},
			want:      "Optics",
			found:     true,
		},
		{
			name: "topics below the attempt floor are ignored",
			stats: []repository.TopicStat{
				{Topic: "Waves", Total: 2, Correct: 0},
				{Topic: "Optics", Total: 5, Correct: 4},
			},
			allTopics: []string{"Optics", "Waves"},
			want:      "Optics",
			found:     true,
		},
		{
			name: "no qualifying topic falls back to least covered",
			stats: []repository.TopicStat{
				{Topic: "Optics", Total: 2, Correct: 2},
			},
			allTopics: []string{"Optics", "Waves"},
			want:      "Waves",
			found:     true,
		},
		{
			name:      "no history picks first topic from the bank",
			stats:     nil,
			allTopics: []string{"Optics", "Waves"},
			want:      "Optics",
			found:     true,
		},
		{
			name:      "empty bank finds nothing",
			stats:     nil,
			allTopics: nil,
			want:      "",
			found:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := WeakestTopic(tt.stats, tt.allTopics, 3)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.found, found)
		})
	}
}

func TestTargetDifficulty(t *testing.T) {
	policy := testPolicy()

	attempts := func(correct ...bool) []model.Attempt {
		out := make([]model.Attempt, len(correct))
		for i, c := range correct {
			out[i] = model.Attempt{QuestionID: uint(i + 1), IsCorrect: c}
		}
		return out
	}
	questions := map[uint]model.Question{
		1: question(1, 3),
		2: question(2, 2),
	}

	t.Run("too little history uses the default", func(t *testing.T) {
		got := TargetDifficulty(attempts(true, true), questions, policy)
		assert.Equal(t, policy.DefaultDifficulty, got)
	})

	t.Run("strong accuracy raises from the latest difficulty", func(t *testing.T) {
		got := TargetDifficulty(attempts(true, true, true, true, true), questions, policy)
		assert.Equal(t, 4, got)
	})

	t.Run("weak accuracy lowers from the latest difficulty", func(t *testing.T) {
		got := TargetDifficulty(attempts(false, false, false, true, false), questions, policy)
		assert.Equal(t, 2, got)
	})

	t.Run("middling accuracy keeps the latest difficulty", func(t *testing.T) {
		got := TargetDifficulty(attempts(true, false, true, false, true), questions, policy)
		assert.Equal(t, 3, got)
	})

	t.Run("result clamps to the 1-5 scale", func(t *testing.T) {
		low := map[uint]model.Question{1: question(1, 1)}
		got := TargetDifficulty(attempts(false, false, false), low, policy)
		assert.Equal(t, 1, got)

		high := map[uint]model.Question{1: question(1, 5)}
		got = TargetDifficulty(attempts(true, true, true), high, policy)
		assert.Equal(t, 5, got)
	})
}

func TestPickQuestion(t *testing.T) {
	t.Run("empty pool returns nil", func(t *testing.T) {
		assert.Nil(t, PickQuestion(nil, 3))
	})

	t.Run("nearest difficulty wins", func(t *testing.T) {
		pool := []model.Question{question(1, 1), question(2, 3), question(3, 5)}
		got := PickQuestion(pool, 3)
		require.NotNil(t, got)
		assert.Equal(t, uint(2), got.ID)
	})

	t.Run("distance tie prefers lower difficulty", func(t *testing.T) {
		pool := []model.Question{question(1, 5), question(2, 3)}
		got := PickQuestion(pool, 4)
		require.NotNil(t, got)
		assert.Equal(t, 3, got.Difficulty)
	})

	t.Run("full tie prefers lower id", func(t *testing.T) {
		pool := []model.Question{question(9, 3), question(4, 3), question(7, 3)}
		got := PickQuestion(pool, 3)
		require.NotNil(t, got)
		assert.Equal(t, uint(4), got.ID)
	})

	t.Run("same pool always yields the same pick", func(t *testing.T) {
		pool := []model.Question{question(3, 2), question(1, 4), question(2, 3)}
		first := PickQuestion(pool, 3)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first.ID, PickQuestion(pool, 3).ID)
		}
	})
}

func TestFirstByID(t *testing.T) {
	assert.Nil(t, FirstByID(nil))

	pool := []model.Question{question(5, 1), question(2, 4), question(9, 2)}
	got := FirstByID(pool)
	require.NotNil(t, got)
	assert.Equal(t, uint(2), got.ID)
}

func TestDifficultyBand(t *testing.T) {
	assert.Equal(t, []int{1, 2}, difficultyBand(1))
	assert.Equal(t, []int{2, 3, 4}, difficultyBand(3))
	assert.Equal(t, []int{4, 5}, difficultyBand(5))
}

func TestMergeIDs(t *testing.T) {
	assert.Equal(t, []uint{1, 2}, mergeIDs([]uint{1, 2}, nil))
	assert.Equal(t, []uint{1, 2, 3}, mergeIDs([]uint{1, 2}, []uint{2, 3}))
	assert.Equal(t, []uint{4, 5}, mergeIDs(nil, []uint{4, 5, 4}))
}
