package service

import (
	"testing"

	"tachyon_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestFastSolver(t *testing.T) {
	attempts := func(seconds ...int) []model.Attempt {
		out := make([]model.Attempt, len(seconds))
		for i, s := range seconds {
			out[i] = model.Attempt{IsCorrect: true, TimeTakenSeconds: s}
		}
		return out
	}

	t.Run("sample not yet full", func(t *testing.T) {
		assert.False(t, FastSolver(attempts(10, 10), 3, 40))
	})

	t.Run("average under the threshold qualifies", func(t *testing.T) {
		assert.True(t, FastSolver(attempts(30, 35, 40), 3, 40))
	})

	t.Run("average exactly at the threshold qualifies", func(t *testing.T) {
		assert.True(t, FastSolver(attempts(40, 40, 40), 3, 40))
	})

	t.Run("one slow solve can push the average over", func(t *testing.T) {
		assert.False(t, FastSolver(attempts(30, 30, 120), 3, 40))
	})
}
