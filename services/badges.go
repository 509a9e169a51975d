// services/badges.go - Badge evaluation engine
package services

import (
	"time"

	"betabreaker/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Fixed milestone sets for count- and points-based badges.
var climbMilestones = map[int]bool{5: true, 10: true, 25: true, 50: true, 100: true, 250: true, 500: true}
var pointsMilestones = []int{100, 500, 1000, 2500, 5000, 10000}

// Trigger kinds derived from the most recent qualifying climb. Awards are
// attached to the triggering action; eligibility is checked against
// cumulative stats.
type triggerKind int

const (
	triggerFirstSend triggerKind = iota
	triggerGradeMilestone
	triggerFlash
	triggerClimbMilestone
	triggerPointsMilestone
)

type trigger struct {
	kind  triggerKind
	grade int // grade_milestone: the newly reached grade
	value int // points_milestone: the crossed threshold
}

// BadgeService evaluates and awards badges after qualifying user actions.
type BadgeService struct {
	db     *gorm.DB
	logger *zap.Logger
}

var badgeService *BadgeService

// InitBadgeService initializes the singleton badge service.
func InitBadgeService(db *gorm.DB, logger *zap.Logger) {
	badgeService = NewBadgeService(db, logger)
}

// GetBadgeService returns the initialized badge service.
func GetBadgeService() *BadgeService {
	return badgeService
}

func NewBadgeService(db *gorm.DB, logger *zap.Logger) *BadgeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BadgeService{db: db, logger: logger}
}

// CheckAndAwardBadges determines which badges the user newly qualifies for,
// persists each award exactly once, and returns the newly earned badges as one
// batch. Failures never propagate to the caller: a failed evaluation returns
// an empty result and the next qualifying action recomputes from scratch.
func (s *BadgeService) CheckAndAwardBadges(userID uint) []models.Badge {
	entries, err := s.qualifyingEntries(userID)
	if err != nil {
		s.logger.Error("badge check: failed to load climb logs",
			zap.Uint("user_id", userID), zap.Error(err))
		return nil
	}
	if len(entries) == 0 {
		return nil
	}

	stats := AggregateStats(entries)

	var earnedIDs []uint
	if err := s.db.Model(&models.UserBadge{}).
		Where("user_id = ?", userID).
		Pluck("badge_id", &earnedIDs).Error; err != nil {
		s.logger.Error("badge check: failed to load earned badges",
			zap.Uint("user_id", userID), zap.Error(err))
		return nil
	}
	earned := make(map[uint]bool, len(earnedIDs))
	for _, id := range earnedIDs {
		earned[id] = true
	}

	var catalog []models.Badge
	if err := s.db.Find(&catalog).Error; err != nil {
		s.logger.Error("badge check: failed to load badge catalog",
			zap.Uint("user_id", userID), zap.Error(err))
		return nil
	}

	// Entries are ordered date DESC, id DESC: the first is the triggering action.
	recent := entries[0]
	triggers := buildTriggers(stats, recent, previousHighestGrade(entries))

	newBadges := []models.Badge{}
	for _, badge := range catalog {
		if earned[badge.ID] {
			continue
		}

		criteria := ParseCriteria(badge.Criteria)
		if criteria.Unrecognized {
			s.logger.Warn("badge check: unrecognized criteria shape",
				zap.Uint("badge_id", badge.ID), zap.String("badge", badge.Name))
		}

		if !relevant(criteria, triggers, stats) {
			continue
		}
		if !criteria.Satisfied(stats) {
			continue
		}

		inserted, err := s.awardBadge(userID, badge.ID)
		if err != nil {
			// Skip just this badge; re-evaluation is stats-based, so a missed
			// award is picked up on the next qualifying action.
			s.logger.Warn("badge check: failed to persist award",
				zap.Uint("user_id", userID), zap.Uint("badge_id", badge.ID), zap.Error(err))
			continue
		}
		if !inserted {
			// Concurrent evaluation won the insert
			s.logger.Debug("badge check: award already present",
				zap.Uint("user_id", userID), zap.Uint("badge_id", badge.ID))
			continue
		}

		s.logger.Info("badge earned",
			zap.Uint("user_id", userID), zap.Uint("badge_id", badge.ID), zap.String("badge", badge.Name))
		newBadges = append(newBadges, badge)
	}

	return newBadges
}

// UserStats aggregates the user's current qualifying climb log snapshot.
func (s *BadgeService) UserStats(userID uint) (StatsSummary, error) {
	entries, err := s.qualifyingEntries(userID)
	if err != nil {
		return StatsSummary{}, err
	}
	return AggregateStats(entries), nil
}

// awardBadge inserts a UserBadge row unless one already exists for the pair.
// Returns whether this call performed the insert.
func (s *BadgeService) awardBadge(userID, badgeID uint) (bool, error) {
	award := models.UserBadge{
		UserID:   userID,
		BadgeID:  badgeID,
		EarnedAt: time.Now(),
	}
	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
		DoNothing: true,
	}).Create(&award)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// qualifyingEntries loads the user's flashed/sent logs joined with climb
// attributes, most recent first.
func (s *BadgeService) qualifyingEntries(userID uint) ([]ClimbEntry, error) {
	var entries []ClimbEntry
	err := s.db.Table("climb_logs").
		Select("climb_logs.id, climb_logs.user_id, climb_logs.climb_id, climb_logs.attempt_type, climb_logs.date, climbs.grade, climbs.type, climbs.gym_id").
		Joins("JOIN climbs ON climbs.id = climb_logs.climb_id").
		Where("climb_logs.user_id = ? AND climb_logs.attempt_type IN ?",
			userID, []string{models.AttemptFlashed, models.AttemptSent}).
		Order("climb_logs.date DESC, climb_logs.id DESC").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// previousHighestGrade is the max grade excluding the most recent entry.
// Isolates whether the latest climb set a new personal best.
func previousHighestGrade(entries []ClimbEntry) int {
	highest := 0
	for _, e := range entries[1:] {
		if e.Grade > highest {
			highest = e.Grade
		}
	}
	return highest
}

// buildTriggers derives the potential award triggers from the most recent
// qualifying climb and the cumulative stats.
func buildTriggers(stats StatsSummary, recent ClimbEntry, prevHighest int) []trigger {
	var triggers []trigger

	if stats.ClimbCount == 1 {
		triggers = append(triggers, trigger{kind: triggerFirstSend})
	}

	if recent.Grade > prevHighest && recent.Grade >= 3 {
		triggers = append(triggers, trigger{kind: triggerGradeMilestone, grade: recent.Grade})
	}

	if recent.AttemptType == models.AttemptFlashed {
		triggers = append(triggers, trigger{kind: triggerFlash})
	}

	if climbMilestones[stats.ClimbCount] {
		triggers = append(triggers, trigger{kind: triggerClimbMilestone})
	}

	// Points milestone fires when this climb's points pushed the total across
	// a threshold. At most one points badge per evaluation, even if a single
	// climb jumps several thresholds.
	recentPoints := PointsFor(recent.Grade, recent.Type)
	for _, m := range pointsMilestones {
		if stats.TotalPoints >= m && stats.TotalPoints-recentPoints < m {
			triggers = append(triggers, trigger{kind: triggerPointsMilestone, value: m})
			break
		}
	}

	return triggers
}

// relevant reports whether the badge's criteria matches any trigger from this
// evaluation. Relevance ties a badge to the triggering action; satisfaction
// against cumulative stats is checked separately.
func relevant(c Criteria, triggers []trigger, stats StatsSummary) bool {
	for _, t := range triggers {
		switch t.kind {
		case triggerFirstSend:
			if c.Kind == CriteriaFirstSend {
				return true
			}
		case triggerGradeMilestone:
			// Exact match only: the badge for the precise grade just reached.
			if c.Kind == CriteriaLevel && c.Level == t.grade {
				return true
			}
			if c.Kind == CriteriaThresholds && c.HighestGrade != nil && *c.HighestGrade == t.grade {
				return true
			}
		case triggerFlash:
			if c.Kind == CriteriaThresholds && c.FlashCount != nil {
				return true
			}
		case triggerClimbMilestone:
			if c.Kind == CriteriaThresholds && c.ClimbCount != nil && *c.ClimbCount == stats.ClimbCount {
				return true
			}
		case triggerPointsMilestone:
			if c.Kind == CriteriaThresholds && c.TotalPoints != nil && *c.TotalPoints == t.value {
				return true
			}
		}
	}
	return false
}
