package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCriteriaFirstSend(t *testing.T) {
	c := ParseCriteria(json.RawMessage(`{"type":"first_send"}`))

	assert.Equal(t, CriteriaFirstSend, c.Kind)
	assert.False(t, c.Unrecognized)
	assert.False(t, c.Satisfied(StatsSummary{}))
	assert.True(t, c.Satisfied(StatsSummary{ClimbCount: 1}))
}

func TestParseCriteriaLevel(t *testing.T) {
	c := ParseCriteria(json.RawMessage(`{"type":"level","level":6}`))

	require.Equal(t, CriteriaLevel, c.Kind)
	assert.Equal(t, 6, c.Level)
	assert.False(t, c.Satisfied(StatsSummary{HighestGrade: 5}))
	assert.True(t, c.Satisfied(StatsSummary{HighestGrade: 6}))
	assert.True(t, c.Satisfied(StatsSummary{HighestGrade: 7}))
}

func TestParseCriteriaThresholds(t *testing.T) {
	c := ParseCriteria(json.RawMessage(`{"climb_count":10,"flash_count":3}`))

	require.Equal(t, CriteriaThresholds, c.Kind)
	require.NotNil(t, c.ClimbCount)
	require.NotNil(t, c.FlashCount)
	assert.Equal(t, 10, *c.ClimbCount)
	assert.Equal(t, 3, *c.FlashCount)
	assert.Nil(t, c.TotalPoints)

	assert.False(t, c.Satisfied(StatsSummary{ClimbCount: 10, FlashCount: 2}))
	assert.True(t, c.Satisfied(StatsSummary{ClimbCount: 10, FlashCount: 3}))
	assert.True(t, c.Satisfied(StatsSummary{ClimbCount: 99, FlashCount: 99}))
}

func TestParseCriteriaCamelCase(t *testing.T) {
	c := ParseCriteria(json.RawMessage(`{"highestGrade":7,"totalPoints":500}`))

	require.Equal(t, CriteriaThresholds, c.Kind)
	require.NotNil(t, c.HighestGrade)
	require.NotNil(t, c.TotalPoints)
	assert.Equal(t, 7, *c.HighestGrade)
	assert.Equal(t, 500, *c.TotalPoints)
}

func TestParseCriteriaAbsentFieldsImposeNoConstraint(t *testing.T) {
	c := ParseCriteria(json.RawMessage(`{"consecutive_days":3}`))

	require.Equal(t, CriteriaThresholds, c.Kind)
	assert.True(t, c.Satisfied(StatsSummary{ConsecutiveDays: 3}))
	assert.False(t, c.Satisfied(StatsSummary{ConsecutiveDays: 2, ClimbCount: 1000}))
}

func TestParseCriteriaUnknownShapes(t *testing.T) {
	cases := []json.RawMessage{
		nil,
		json.RawMessage(`{}`),
		json.RawMessage(`{"type":"moon_phase"}`),
		json.RawMessage(`{"wingspan":180}`),
		json.RawMessage(`not json at all`),
		json.RawMessage(`{"type":"level"}`), // level shape without a level
	}

	for _, raw := range cases {
		c := ParseCriteria(raw)
		assert.Equal(t, CriteriaNone, c.Kind, "payload %s", string(raw))
		// unknown criteria never throw and are vacuously satisfied
		assert.True(t, c.Satisfied(StatsSummary{}))
	}
}

func TestParseCriteriaFlagsUnrecognized(t *testing.T) {
	assert.True(t, ParseCriteria(json.RawMessage(`{"wingspan":180}`)).Unrecognized)
	assert.True(t, ParseCriteria(json.RawMessage(`{"type":"moon_phase"}`)).Unrecognized)
	assert.False(t, ParseCriteria(json.RawMessage(`{}`)).Unrecognized)
	assert.False(t, ParseCriteria(nil).Unrecognized)
	assert.False(t, ParseCriteria(json.RawMessage(`{"type":"first_send"}`)).Unrecognized)
}
