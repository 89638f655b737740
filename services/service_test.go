package services

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wanjiru256/mentor_connect/models"
	"github.com/wanjiru256/mentor_connect/notifications"
	"github.com/wanjiru256/mentor_connect/utils"
	"gorm.io/gorm"
)

// mondayDate is a known Monday used across the scheduling tests.
const mondayDate = "2026-03-02"

// testNow is early morning of mondayDate, so same-day slots are bookable.
var testNow = time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(10000)", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// One connection serializes writers, standing in for postgres row locks.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Mentor{},
		&models.AvailabilityRule{},
		&models.AvailabilityBreak{},
		&models.Session{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	user := &models.User{
		FullName: "Test " + role + " " + uuid.NewString()[:8],
		Email:    uuid.NewString()[:8] + "@example.com",
		Password: "hashed",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// weekdayRule declares Monday 09:00-17:00 UTC, 30-minute slots, with the
// given breaks.
func weekdayRule(t *testing.T, db *gorm.DB, mentorID uuid.UUID, breaks ...models.AvailabilityBreak) *models.AvailabilityRule {
	t.Helper()
	dow := 1
	rule := &models.AvailabilityRule{
		MentorID:            mentorID,
		DayOfWeek:           &dow,
		IsRecurring:         true,
		StartTime:           "09:00",
		EndTime:             "17:00",
		SlotDurationMinutes: 30,
		Timezone:            "UTC",
		Status:              models.RuleStatusAvailable,
		Breaks:              breaks,
	}
	require.NoError(t, db.Create(rule).Error)
	return rule
}

type notifierEvent struct {
	UserID uuid.UUID
	Kind   notifications.Kind
}

// notifierStub records notifications synchronously so tests can assert on
// them without races.
type notifierStub struct {
	mu     sync.Mutex
	events []notifierEvent
}

func (n *notifierStub) Notify(userID uuid.UUID, kind notifications.Kind, payload map[string]any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notifierEvent{UserID: userID, Kind: kind})
}

func (n *notifierStub) kindsFor(userID uuid.UUID) []notifications.Kind {
	n.mu.Lock()
	defer n.mu.Unlock()
	var kinds []notifications.Kind
	for _, ev := range n.events {
		if ev.UserID == userID {
			kinds = append(kinds, ev.Kind)
		}
	}
	return kinds
}

func (n *notifierStub) count(kind notifications.Kind) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	total := 0
	for _, ev := range n.events {
		if ev.Kind == kind {
			total++
		}
	}
	return total
}

type fixture struct {
	db       *gorm.DB
	mentor   *models.User
	mentee   *models.User
	notifier *notifierStub
	slots    *SlotService
	booking  *BookingService
	sessions *SessionService
}

func newFixture(t *testing.T, clock utils.Clock, grace time.Duration) *fixture {
	t.Helper()
	db := openTestDB(t)
	notifier := &notifierStub{}
	return &fixture{
		db:       db,
		mentor:   createUser(t, db, "mentor"),
		mentee:   createUser(t, db, "mentee"),
		notifier: notifier,
		slots:    NewSlotService(db),
		booking:  NewBookingService(db, clock, notifier),
		sessions: NewSessionService(db, clock, notifier, grace),
	}
}
