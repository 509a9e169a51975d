package services

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"betabreaker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Gym{},
		&models.Climb{},
		&models.ClimbLog{},
		&models.Badge{},
		&models.UserBadge{},
	))

	return db
}

func newTestService(t *testing.T) (*BadgeService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewBadgeService(db, zap.NewNop()), db
}

func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{Username: username, Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedClimb(t *testing.T, db *gorm.DB, gymID uint, grade int, climbType string) models.Climb {
	t.Helper()
	climb := models.Climb{
		GymID: gymID,
		Name:  fmt.Sprintf("climb-%d-%s", grade, climbType),
		Grade: grade,
		Type:  climbType,
	}
	require.NoError(t, db.Create(&climb).Error)
	return climb
}

func seedBadge(t *testing.T, db *gorm.DB, name, criteria string) models.Badge {
	t.Helper()
	badge := models.Badge{Name: name}
	if criteria != "" {
		badge.Criteria = json.RawMessage(criteria)
	}
	require.NoError(t, db.Create(&badge).Error)
	return badge
}

func logClimb(t *testing.T, db *gorm.DB, userID, climbID uint, attemptType string, date time.Time) {
	t.Helper()
	entry := models.ClimbLog{
		UserID:      userID,
		ClimbID:     climbID,
		AttemptType: attemptType,
		Date:        date,
	}
	require.NoError(t, db.Create(&entry).Error)
}

func badgeNames(badges []models.Badge) []string {
	names := make([]string, 0, len(badges))
	for _, b := range badges {
		names = append(names, b.Name)
	}
	return names
}

func awardCount(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.UserBadge{}).Where("user_id = ?", userID).Count(&count).Error)
	return count
}

func TestEmptyHistoryReturnsNothing(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db, "newcomer")
	seedBadge(t, db, "First Send", `{"type":"first_send"}`)

	assert.Empty(t, svc.CheckAndAwardBadges(user.ID))
	assert.EqualValues(t, 0, awardCount(t, db, user.ID))
}

func TestProjectedOnlyHistoryReturnsNothing(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db, "projector")
	climb := seedClimb(t, db, 1, 5, models.ClimbBoulder)
	seedBadge(t, db, "First Send", `{"type":"first_send"}`)

	logClimb(t, db, user.ID, climb.ID, models.AttemptProjected, time.Now())

	assert.Empty(t, svc.CheckAndAwardBadges(user.ID))
}

func TestFirstSendAwardedOnceOnly(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db, "firsttimer")
	climb := seedClimb(t, db, 1, 2, models.ClimbBoulder)
	badge := seedBadge(t, db, "First Send", `{"type":"first_send"}`)

	logClimb(t, db, user.ID, climb.ID, models.AttemptSent, time.Now())

	awarded := svc.CheckAndAwardBadges(user.ID)
	require.Len(t, awarded, 1)
	assert.Equal(t, badge.ID, awarded[0].ID)

	// Re-evaluating with no new logs yields nothing and no duplicate rows
	assert.Empty(t, svc.CheckAndAwardBadges(user.ID))
	assert.EqualValues(t, 1, awardCount(t, db, user.ID))
}

func TestGradeMilestoneExactMatch(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db, "grinder")
	easier := seedClimb(t, db, 1, 4, models.ClimbBoulder)
	harder := seedClimb(t, db, 1, 6, models.ClimbBoulder)

	seedBadge(t, db, "Level 5", `{"type":"level","level":5}`)
	level6 := seedBadge(t, db, "Level 6", `{"type":"level","level":6}`)

	logClimb(t, db, user.ID, easier.ID, models.AttemptSent, day("2024-02-01"))
	logClimb(t, db, user.ID, harder.ID, models.AttemptSent, day("2024-02-02"))

	awarded := svc.CheckAndAwardBadges(user.ID)

	// Grade 6 beats the previous best of 4, so only the exact level-6 badge
	// fires; the level-5 badge is skipped even though highestGrade >= 5.
	require.Len(t, awarded, 1)
	assert.Equal(t, level6.ID, awarded[0].ID)
}

func TestGradeMilestoneLegacyHighestGradeShape(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db, "legacy")
	climb := seedClimb(t, db, 1, 5, models.ClimbBoulder)

	badge := seedBadge(t, db, "High Five", `{"highest_grade":5}`)

	logClimb(t, db, user.ID, climb.ID, models.AttemptSent, time.Now())

	awarded := svc.CheckAndAwardBadges(user.ID)
	require.Len(t, awarded, 1)
	assert.Equal(t, badge.ID, awarded[0].ID)
}

func TestGradeMilestoneNotRetriggeredByEasierClimb(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db, "plateau")
	hard := seedClimb(t, db, 1, 6, models.ClimbBoulder)
	easy := seedClimb(t, db, 1, 3, models.ClimbBoulder)

	level6 := seedBadge(t, db, "Level 6", `{"type":"level","level":6}`)

	logClimb(t, db, user.ID, hard.ID, models.AttemptSent, day("2024-02-01"))
	awarded := svc.CheckAndAwardBadges(user.ID)
	require.Len(t, awarded, 1)
	require.Equal(t, level6.ID, awarded[0].ID)

	// Wipe the award to prove the later, easier climb does not re-derive the
	// grade trigger (previous best is already 6)
	require.NoError(t, db.Where("user_id = ?", user.ID).Delete(&models.UserBadge{}).Error)

	logClimb(t, db, user.ID, easy.ID, models.AttemptSent, day("2024-02-05"))
	assert.Empty(t, svc.CheckAndAwardBadges(user.ID))
}

func TestFlashAchievement(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db, "flasher")
	climb := seedClimb(t, db, 1, 2, models.ClimbBoulder)

	badge := seedBadge(t, db, "Triple Flash", `{"flash_count":3}`)

	logClimb(t, db, user.ID, climb.ID, models.AttemptFlashed, day("2024-03-01"))
	logClimb(t, db, user.ID, climb.ID, models.AttemptFlashed, day("2024-03-02"))
	require.Empty(t, svc.CheckAndAwardBadges(user.ID), "two flashes should not satisfy flash_count 3")

	logClimb(t, db, user.ID, climb.ID, models.AttemptFlashed, day("2024-03-03"))
	awarded := svc.CheckAndAwardBadges(user.ID)
	require.Len(t, awarded, 1)
	assert.Equal(t, badge.ID, awarded[0].ID)
}

func TestFlashBadgeNotTriggeredBySend(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db, "sender")
	climb := seedClimb(t, db, 1, 2, models.ClimbBoulder)

	seedBadge(t, db, "One Flash", `{"flash_count":1}`)

	logClimb(t, db, user.ID, climb.ID, models.AttemptFlashed, day("2024-03-01"))
	// drop the award from the flash evaluation, then send
	_ = svc.CheckAndAwardBadges(user.ID)
	require.NoError(t, db.Where("user_id = ?", user.ID).Delete(&models.UserBadge{}).Error)

	logClimb(t, db, user.ID, climb.ID, models.AttemptSent, day("2024-03-02"))
	assert.Empty(t, svc.CheckAndAwardBadges(user.ID))
}

func TestClimbCountMilestone(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db, "regular")
	climb := seedClimb(t, db, 1, 2, models.ClimbBoulder)

	badge := seedBadge(t, db, "Five Sends", `{"climb_count":5}`)

	for i := 0; i < 4; i++ {
		logClimb(t, db, user.ID, climb.ID, models.AttemptSent, day("2024-04-01").AddDate(0, 0, i))
		require.Empty(t, svc.CheckAndAwardBadges(user.ID))
	}

	logClimb(t, db, user.ID, climb.ID, models.AttemptSent, day("2024-04-05"))
	awarded := svc.CheckAndAwardBadges(user.ID)
	require.Len(t, awarded, 1)
	assert.Equal(t, badge.ID, awarded[0].ID)

	// Count 6 is not a milestone
	logClimb(t, db, user.ID, climb.ID, models.AttemptSent, day("2024-04-06"))
	assert.Empty(t, svc.CheckAndAwardBadges(user.ID))
}

func TestPointsMilestoneJustCrossed(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db, "pointchaser")
	climb := seedClimb(t, db, 1, 6, models.ClimbBoulder) // 60 points per send

	badge := seedBadge(t, db, "Century", `{"total_points":100}`)

	logClimb(t, db, user.ID, climb.ID, models.AttemptSent, day("2024-05-01"))
	require.Empty(t, svc.CheckAndAwardBadges(user.ID), "60 points has not crossed 100")

	logClimb(t, db, user.ID, climb.ID, models.AttemptSent, day("2024-05-02"))
	awarded := svc.CheckAndAwardBadges(user.ID)
	require.Len(t, awarded, 1)
	assert.Equal(t, badge.ID, awarded[0].ID)

	// A later climb is past the threshold and must not re-fire it
	require.NoError(t, db.Where("user_id = ?", user.ID).Delete(&models.UserBadge{}).Error)
	logClimb(t, db, user.ID, climb.ID, models.AttemptSent, day("2024-05-03"))
	assert.Empty(t, svc.CheckAndAwardBadges(user.ID))
}

func TestPointsMilestoneSingleAwardPerCall(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db, "bigjump")
	small := seedClimb(t, db, 1, 9, models.ClimbBoulder) // 90 points
	huge := seedClimb(t, db, 1, 35, models.ClimbLead)    // 525 points

	century := seedBadge(t, db, "Century", `{"total_points":100}`)
	seedBadge(t, db, "Half Grand", `{"total_points":500}`)

	logClimb(t, db, user.ID, small.ID, models.AttemptSent, day("2024-06-01"))
	require.Empty(t, svc.CheckAndAwardBadges(user.ID))

	// 90 -> 615 crosses both 100 and 500 in one climb; at most one points
	// badge fires per evaluation, the lowest just-crossed threshold
	logClimb(t, db, user.ID, huge.ID, models.AttemptSent, day("2024-06-02"))
	awarded := svc.CheckAndAwardBadges(user.ID)
	require.Len(t, awarded, 1)
	assert.Equal(t, century.ID, awarded[0].ID)
}

func TestThresholdCriteriaMustAllBeMet(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db, "allrounder")
	climb := seedClimb(t, db, 1, 2, models.ClimbBoulder)

	// Relevant via climb_count, but the unique_gyms threshold is unmet
	seedBadge(t, db, "Explorer", `{"climb_count":5,"unique_gyms":3}`)

	for i := 0; i < 5; i++ {
		logClimb(t, db, user.ID, climb.ID, models.AttemptSent, day("2024-07-01").AddDate(0, 0, i))
	}

	assert.Empty(t, svc.CheckAndAwardBadges(user.ID))
}

func TestMalformedCriteriaNeverBreaksEvaluation(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db, "tolerant")
	climb := seedClimb(t, db, 1, 2, models.ClimbBoulder)

	seedBadge(t, db, "Mystery", `{"type":"moon_phase","wingspan":180}`)
	seedBadge(t, db, "Broken", `this is not json`)
	first := seedBadge(t, db, "First Send", `{"type":"first_send"}`)

	logClimb(t, db, user.ID, climb.ID, models.AttemptSent, time.Now())

	awarded := svc.CheckAndAwardBadges(user.ID)
	require.Len(t, awarded, 1)
	assert.Equal(t, first.ID, awarded[0].ID)
	assert.Equal(t, []string{"First Send"}, badgeNames(awarded))
}

func TestAwardBadgeReportsInsertedVsPresent(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db, "racer")
	badge := seedBadge(t, db, "First Send", `{"type":"first_send"}`)

	inserted, err := svc.awardBadge(user.ID, badge.ID)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = svc.awardBadge(user.ID, badge.ID)
	require.NoError(t, err)
	assert.False(t, inserted)

	assert.EqualValues(t, 1, awardCount(t, db, user.ID))
}

func TestConcurrentEvaluationsAwardOnce(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db, "speedy")
	climb := seedClimb(t, db, 1, 2, models.ClimbBoulder)
	seedBadge(t, db, "First Send", `{"type":"first_send"}`)

	logClimb(t, db, user.ID, climb.ID, models.AttemptSent, time.Now())

	var wg sync.WaitGroup
	results := make([][]models.Badge, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.CheckAndAwardBadges(user.ID)
		}(i)
	}
	wg.Wait()

	// Exactly one insert survives, and only one evaluation reports the badge
	assert.EqualValues(t, 1, awardCount(t, db, user.ID))
	assert.Equal(t, 1, len(results[0])+len(results[1]))
}

func TestUserStats(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db, "statcheck")
	boulder := seedClimb(t, db, 1, 5, models.ClimbBoulder)
	lead := seedClimb(t, db, 2, 3, models.ClimbLead)

	logClimb(t, db, user.ID, boulder.ID, models.AttemptFlashed, day("2024-01-01"))
	logClimb(t, db, user.ID, lead.ID, models.AttemptSent, day("2024-01-02"))

	stats, err := svc.UserStats(user.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.ClimbCount)
	assert.Equal(t, 5, stats.HighestGrade)
	assert.Equal(t, 1, stats.FlashCount)
	assert.Equal(t, 2, stats.UniqueGyms)
	assert.Equal(t, 2, stats.ConsecutiveDays)
	assert.Equal(t, 95, stats.TotalPoints)
}
