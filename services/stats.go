// services/stats.go - Climb log stats aggregation
package services

import (
	"sort"
	"time"

	"betabreaker/models"
)

// ClimbEntry is one qualifying climb log row joined with its climb's
// grade, discipline and gym.
type ClimbEntry struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	ClimbID     uint      `json:"climb_id"`
	AttemptType string    `json:"attempt_type"`
	Date        time.Time `json:"date"`
	Grade       int       `json:"grade"`
	Type        string    `json:"type"`
	GymID       uint      `json:"gym_id"`
}

// StatsSummary is derived from a user's climb log snapshot. Never stored;
// recomputed on every evaluation.
type StatsSummary struct {
	ClimbCount      int `json:"climb_count"`
	HighestGrade    int `json:"highest_grade"`
	FlashCount      int `json:"flash_count"`
	UniqueGyms      int `json:"unique_gyms"`
	ConsecutiveDays int `json:"consecutive_days"`
	TotalPoints     int `json:"total_points"`
}

// PointsFor returns the weighted score for one climb.
func PointsFor(grade int, climbType string) int {
	switch climbType {
	case models.ClimbTopRope:
		return grade * 5
	case models.ClimbLead:
		return grade * 15
	default:
		// unknown types score like boulders
		return grade * 10
	}
}

// AggregateStats folds a climb log snapshot into a StatsSummary. Entries with
// non-qualifying attempt types are ignored even if the caller forgot to filter.
// Pure function: safe to call repeatedly and concurrently.
func AggregateStats(entries []ClimbEntry) StatsSummary {
	var summary StatsSummary

	gyms := make(map[uint]bool)
	days := make(map[string]bool)

	for _, e := range entries {
		if !models.IsQualifyingAttempt(e.AttemptType) {
			continue
		}

		summary.ClimbCount++
		summary.TotalPoints += PointsFor(e.Grade, e.Type)

		if e.Grade > summary.HighestGrade {
			summary.HighestGrade = e.Grade
		}
		if e.AttemptType == models.AttemptFlashed {
			summary.FlashCount++
		}
		gyms[e.GymID] = true
		days[e.Date.Format("2006-01-02")] = true
	}

	summary.UniqueGyms = len(gyms)
	summary.ConsecutiveDays = longestDayStreak(days)

	return summary
}

// longestDayStreak returns the length of the longest run of calendar-adjacent
// days. Multiple entries on one day count once.
func longestDayStreak(days map[string]bool) int {
	if len(days) == 0 {
		return 0
	}

	keys := make([]string, 0, len(days))
	for d := range days {
		keys = append(keys, d)
	}
	sort.Strings(keys)

	longest := 1
	current := 1
	prev, _ := time.Parse("2006-01-02", keys[0])

	for _, k := range keys[1:] {
		day, err := time.Parse("2006-01-02", k)
		if err != nil {
			continue
		}
		if day.Sub(prev) == 24*time.Hour {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 1
		}
		prev = day
	}

	return longest
}
