package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 15, 30, 0, 0, time.UTC)
}

func TestStreakUpdate(t *testing.T) {
	t.Run("first activity starts at one", func(t *testing.T) {
		s := &Streak{}
		s.UpdateStreak(day(2026, 3, 10))

		assert.Equal(t, 1, s.CurrentStreak)
		assert.Equal(t, 1, s.BestStreak)
		assert.NotNil(t, s.LastActiveDate)
	})

	t.Run("same-day activity is a no-op", func(t *testing.T) {
		s := &Streak{}
		s.UpdateStreak(day(2026, 3, 10))
		s.UpdateStreak(day(2026, 3, 10).Add(4 * time.Hour))

		assert.Equal(t, 1, s.CurrentStreak)
	})

	t.Run("consecutive days extend the streak", func(t *testing.T) {
		s := &Streak{}
		s.UpdateStreak(day(2026, 3, 10))
		s.UpdateStreak(day(2026, 3, 11))
		s.UpdateStreak(day(2026, 3, 12))

		assert.Equal(t, 3, s.CurrentStreak)
		assert.Equal(t, 3, s.BestStreak)
	})

	t.Run("a missed day resets but keeps the best", func(t *testing.T) {
		s := &Streak{}
		s.UpdateStreak(day(2026, 3, 10))
		s.UpdateStreak(day(2026, 3, 11))
		s.UpdateStreak(day(2026, 3, 14))

		assert.Equal(t, 1, s.CurrentStreak)
		assert.Equal(t, 2, s.BestStreak)
	})

	t.Run("days are calendar dates in the local zone", func(t *testing.T) {
		ist := time.FixedZone("IST", 5*3600+1800)

		// 11:50 PM and 2 AM the next local day share one 24-hour UTC
		// bucket but are consecutive calendar days.
		s := &Streak{}
		s.UpdateStreak(time.Date(2026, 3, 10, 23, 50, 0, 0, ist))
		s.UpdateStreak(time.Date(2026, 3, 11, 2, 0, 0, 0, ist))
		assert.Equal(t, 2, s.CurrentStreak)

		// 2 AM and 11 PM straddle UTC midnight but are the same local day.
		s = &Streak{}
		s.UpdateStreak(time.Date(2026, 3, 11, 2, 0, 0, 0, ist))
		s.UpdateStreak(time.Date(2026, 3, 11, 23, 0, 0, 0, ist))
		assert.Equal(t, 1, s.CurrentStreak)
	})
}

func TestPointsAdd(t *testing.T) {
	p := &Points{}
	p.AddPoints(7)
	p.AddPoints(5)

	assert.Equal(t, 12, p.PointsTotal)
	assert.Equal(t, 12, p.PointsThisWeek)
	assert.Equal(t, 12, p.PointsThisMonth)
}
