// services/criteria.go - Badge criteria parsing and evaluation
package services

import (
	"encoding/json"
)

// CriteriaKind is the closed set of recognized badge criteria shapes.
type CriteriaKind int

const (
	// CriteriaNone is the fallback for unknown or empty criteria payloads.
	// It imposes no constraints and is always satisfied.
	CriteriaNone CriteriaKind = iota
	CriteriaFirstSend
	CriteriaLevel
	CriteriaThresholds
)

// Criteria is a badge's award predicate, parsed from the catalog's raw JSON
// payload at the evaluation boundary.
type Criteria struct {
	Kind  CriteriaKind
	Level int

	// Legacy flat thresholds; nil means the field imposes no constraint.
	ClimbCount      *int
	HighestGrade    *int
	FlashCount      *int
	UniqueGyms      *int
	ConsecutiveDays *int
	TotalPoints     *int

	// Unrecognized marks payloads that did not match any known shape.
	Unrecognized bool
}

// ParseCriteria decodes a raw catalog criteria payload into a Criteria.
// Malformed or unknown shapes degrade to CriteriaNone; they never fail.
func ParseCriteria(raw json.RawMessage) Criteria {
	if len(raw) == 0 {
		return Criteria{Kind: CriteriaNone}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Criteria{Kind: CriteriaNone, Unrecognized: true}
	}
	if len(fields) == 0 {
		return Criteria{Kind: CriteriaNone}
	}

	if typRaw, ok := fields["type"]; ok {
		var typ string
		if err := json.Unmarshal(typRaw, &typ); err != nil {
			return Criteria{Kind: CriteriaNone, Unrecognized: true}
		}
		switch typ {
		case "first_send":
			return Criteria{Kind: CriteriaFirstSend}
		case "level":
			level, ok := intField(fields, "level")
			if !ok {
				return Criteria{Kind: CriteriaNone, Unrecognized: true}
			}
			return Criteria{Kind: CriteriaLevel, Level: level}
		default:
			return Criteria{Kind: CriteriaNone, Unrecognized: true}
		}
	}

	// Legacy flat threshold shape. Accept both snake_case and the original
	// camelCase field spellings.
	c := Criteria{Kind: CriteriaThresholds}
	recognized := false
	for _, f := range []struct {
		dst  **int
		keys []string
	}{
		{&c.ClimbCount, []string{"climb_count", "climbCount"}},
		{&c.HighestGrade, []string{"highest_grade", "highestGrade"}},
		{&c.FlashCount, []string{"flash_count", "flashCount"}},
		{&c.UniqueGyms, []string{"unique_gyms", "uniqueGyms"}},
		{&c.ConsecutiveDays, []string{"consecutive_days", "consecutiveDays"}},
		{&c.TotalPoints, []string{"total_points", "totalPoints"}},
	} {
		for _, key := range f.keys {
			if v, ok := intField(fields, key); ok {
				val := v
				*f.dst = &val
				recognized = true
				break
			}
		}
	}

	if !recognized {
		// No recognized fields: vacuously satisfiable
		return Criteria{Kind: CriteriaNone, Unrecognized: true}
	}
	return c
}

func intField(fields map[string]json.RawMessage, key string) (int, bool) {
	raw, ok := fields[key]
	if !ok {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return int(n), true
}

// Satisfied reports whether the user's cumulative stats meet the criteria.
func (c Criteria) Satisfied(stats StatsSummary) bool {
	switch c.Kind {
	case CriteriaFirstSend:
		return stats.ClimbCount >= 1
	case CriteriaLevel:
		return stats.HighestGrade >= c.Level
	case CriteriaThresholds:
		if c.ClimbCount != nil && stats.ClimbCount < *c.ClimbCount {
			return false
		}
		if c.HighestGrade != nil && stats.HighestGrade < *c.HighestGrade {
			return false
		}
		if c.FlashCount != nil && stats.FlashCount < *c.FlashCount {
			return false
		}
		if c.UniqueGyms != nil && stats.UniqueGyms < *c.UniqueGyms {
			return false
		}
		if c.ConsecutiveDays != nil && stats.ConsecutiveDays < *c.ConsecutiveDays {
			return false
		}
		if c.TotalPoints != nil && stats.TotalPoints < *c.TotalPoints {
			return false
		}
		return true
	default:
		return true
	}
}
