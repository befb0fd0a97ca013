package service

import (
	"testing"

	"tachyon_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankWeakTopics(t *testing.T) {
	stats := []repository.TopicStat{
		{Topic: "Optics", Subject: "Physics", Total: 10, Correct: 9},          // strong, filtered
		{Topic: "Waves", Subject: "Physics", Total: 10, Correct: 2},           // weakest
		{Topic: "Stoichiometry", Subject: "Chemistry", Total: 2, Correct: 0},  // too few attempts
		{Topic: "Thermodynamics", Subject: "Physics", Total: 10, Correct: 5},  // weak
		{Topic: "Electrochemistry", Subject: "Chemistry", Total: 8, Correct: 4}, // weak, ties on accuracy
	}

	weak := RankWeakTopics(stats, 3, 0.6)

	require.Len(t, weak, 3)
	assert.Equal(t, "Waves", weak[0].Topic)
	assert.Equal(t, "Electrochemistry", weak[1].Topic, "accuracy tie breaks on topic name")
	assert.Equal(t, "Thermodynamics", weak[2].Topic)
	assert.InDelta(t, 0.2, weak[0].Accuracy, 1e-9)
	assert.Equal(t, int64(10), weak[0].Attempts)
}

func TestRankWeakTopicsEmpty(t *testing.T) {
	weak := RankWeakTopics(nil, 3, 0.6)
	assert.NotNil(t, weak)
	assert.Empty(t, weak)
}
