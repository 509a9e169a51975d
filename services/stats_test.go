package services

import (
	"testing"
	"time"

	"betabreaker/models"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestAggregateStatsEmpty(t *testing.T) {
	summary := AggregateStats(nil)

	assert.Equal(t, StatsSummary{}, summary)
	assert.Equal(t, 0, summary.ClimbCount)
	assert.Equal(t, 0, summary.HighestGrade)
	assert.Equal(t, 0, summary.FlashCount)
	assert.Equal(t, 0, summary.UniqueGyms)
	assert.Equal(t, 0, summary.ConsecutiveDays)
	assert.Equal(t, 0, summary.TotalPoints)
}

func TestAggregateStatsPoints(t *testing.T) {
	entries := []ClimbEntry{
		{AttemptType: models.AttemptSent, Grade: 5, Type: models.ClimbBoulder, GymID: 1, Date: day("2024-01-01")},
		{AttemptType: models.AttemptSent, Grade: 3, Type: models.ClimbLead, GymID: 1, Date: day("2024-01-01")},
	}

	summary := AggregateStats(entries)

	assert.Equal(t, 5*10+3*15, summary.TotalPoints)
	assert.Equal(t, 2, summary.ClimbCount)
	assert.Equal(t, 5, summary.HighestGrade)
}

func TestPointsForWeighting(t *testing.T) {
	assert.Equal(t, 40, PointsFor(4, models.ClimbBoulder))
	assert.Equal(t, 20, PointsFor(4, models.ClimbTopRope))
	assert.Equal(t, 60, PointsFor(4, models.ClimbLead))
	// unknown types fall back to boulder weighting
	assert.Equal(t, 40, PointsFor(4, "speed"))
}

func TestAggregateStatsStreak(t *testing.T) {
	entries := []ClimbEntry{
		{AttemptType: models.AttemptSent, Grade: 1, GymID: 1, Date: day("2024-01-01")},
		{AttemptType: models.AttemptSent, Grade: 1, GymID: 1, Date: day("2024-01-02")},
		{AttemptType: models.AttemptSent, Grade: 1, GymID: 1, Date: day("2024-01-04")},
	}

	summary := AggregateStats(entries)

	// Jan 1-2 is the longest run; the gap to Jan 4 resets the streak
	assert.Equal(t, 2, summary.ConsecutiveDays)
}

func TestAggregateStatsStreakSameDay(t *testing.T) {
	entries := []ClimbEntry{
		{AttemptType: models.AttemptSent, Grade: 1, GymID: 1, Date: day("2024-03-10")},
		{AttemptType: models.AttemptFlashed, Grade: 2, GymID: 1, Date: day("2024-03-10").Add(4 * time.Hour)},
		{AttemptType: models.AttemptSent, Grade: 1, GymID: 1, Date: day("2024-03-11")},
	}

	summary := AggregateStats(entries)

	// two entries on the same day count once
	assert.Equal(t, 2, summary.ConsecutiveDays)
}

func TestAggregateStatsSingleDayStreak(t *testing.T) {
	entries := []ClimbEntry{
		{AttemptType: models.AttemptSent, Grade: 1, GymID: 1, Date: day("2024-06-01")},
	}

	assert.Equal(t, 1, AggregateStats(entries).ConsecutiveDays)
}

func TestAggregateStatsUniqueGymsAndFlashes(t *testing.T) {
	entries := []ClimbEntry{
		{AttemptType: models.AttemptFlashed, Grade: 2, GymID: 1, Date: day("2024-01-01")},
		{AttemptType: models.AttemptSent, Grade: 4, GymID: 2, Date: day("2024-01-02")},
		{AttemptType: models.AttemptFlashed, Grade: 3, GymID: 2, Date: day("2024-01-03")},
	}

	summary := AggregateStats(entries)

	assert.Equal(t, 2, summary.UniqueGyms)
	assert.Equal(t, 2, summary.FlashCount)
}

func TestAggregateStatsFiltersProjected(t *testing.T) {
	entries := []ClimbEntry{
		{AttemptType: models.AttemptProjected, Grade: 9, Type: models.ClimbBoulder, GymID: 1, Date: day("2024-01-01")},
		{AttemptType: models.AttemptSent, Grade: 2, Type: models.ClimbBoulder, GymID: 2, Date: day("2024-01-03")},
	}

	summary := AggregateStats(entries)

	assert.Equal(t, 1, summary.ClimbCount)
	assert.Equal(t, 2, summary.HighestGrade)
	assert.Equal(t, 1, summary.UniqueGyms)
	assert.Equal(t, 20, summary.TotalPoints)
}
