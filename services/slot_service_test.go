package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wanjiru256/mentor_connect/models"
	"github.com/wanjiru256/mentor_connect/utils"
)

func TestGenerateSlotsNoRuleReturnsEmpty(t *testing.T) {
	f := newFixture(t, utils.FixedClock{Time: testNow}, 2*time.Hour)

	slots, err := f.slots.GenerateSlots(f.mentor.ID, mondayDate)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlotsUnavailableRuleReturnsEmpty(t *testing.T) {
	f := newFixture(t, utils.FixedClock{Time: testNow}, 2*time.Hour)
	rule := weekdayRule(t, f.db, f.mentor.ID)
	rule.Status = models.RuleStatusUnavailable
	require.NoError(t, f.db.Save(rule).Error)

	slots, err := f.slots.GenerateSlots(f.mentor.ID, mondayDate)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlotsInvalidDate(t *testing.T) {
	f := newFixture(t, utils.FixedClock{Time: testNow}, 2*time.Hour)

	_, err := f.slots.GenerateSlots(f.mentor.ID, "02-03-2026")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
}

// Monday 09:00-17:00 with a 12:00-13:00 break yields 16 half-hour slots, the
// two inside the break listed but unavailable.
func TestGenerateSlotsWithBreak(t *testing.T) {
	f := newFixture(t, utils.FixedClock{Time: testNow}, 2*time.Hour)
	weekdayRule(t, f.db, f.mentor.ID, models.AvailabilityBreak{StartTime: "12:00", EndTime: "13:00"})

	slots, err := f.slots.GenerateSlots(f.mentor.ID, mondayDate)
	require.NoError(t, err)
	require.Len(t, slots, 16)

	assert.Equal(t, "09:00", slots[0].Time)
	assert.Equal(t, "16:30", slots[15].Time)

	for i := 1; i < len(slots); i++ {
		assert.Less(t, slots[i-1].Time, slots[i].Time, "slots must be in ascending order")
	}

	unavailable := map[string]bool{}
	for _, slot := range slots {
		if !slot.Available {
			unavailable[slot.Time] = true
		}
	}
	assert.Equal(t, map[string]bool{"12:00": true, "12:30": true}, unavailable)
}

func TestGenerateSlotsOverrideReplacesRecurring(t *testing.T) {
	f := newFixture(t, utils.FixedClock{Time: testNow}, 2*time.Hour)
	weekdayRule(t, f.db, f.mentor.ID)

	date := mondayDate
	override := &models.AvailabilityRule{
		MentorID:            f.mentor.ID,
		SpecificDate:        &date,
		IsRecurring:         false,
		StartTime:           "14:00",
		EndTime:             "16:00",
		SlotDurationMinutes: 60,
		Timezone:            "UTC",
		Status:              models.RuleStatusAvailable,
	}
	require.NoError(t, f.db.Create(override).Error)

	slots, err := f.slots.GenerateSlots(f.mentor.ID, mondayDate)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "14:00", slots[0].Time)
	assert.Equal(t, "15:00", slots[1].Time)

	// The weekday after is still governed by the recurring rule.
	slots, err = f.slots.GenerateSlots(f.mentor.ID, "2026-03-09")
	require.NoError(t, err)
	assert.Len(t, slots, 16)
}

func TestGenerateSlotsUnavailableOverrideBlocksDay(t *testing.T) {
	f := newFixture(t, utils.FixedClock{Time: testNow}, 2*time.Hour)
	weekdayRule(t, f.db, f.mentor.ID)

	date := mondayDate
	override := &models.AvailabilityRule{
		MentorID:            f.mentor.ID,
		SpecificDate:        &date,
		IsRecurring:         false,
		StartTime:           "09:00",
		EndTime:             "17:00",
		SlotDurationMinutes: 30,
		Timezone:            "UTC",
		Status:              models.RuleStatusUnavailable,
	}
	require.NoError(t, f.db.Create(override).Error)

	slots, err := f.slots.GenerateSlots(f.mentor.ID, mondayDate)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlotsDropsTrailingPartialSlot(t *testing.T) {
	f := newFixture(t, utils.FixedClock{Time: testNow}, 2*time.Hour)
	dow := 1
	rule := &models.AvailabilityRule{
		MentorID:            f.mentor.ID,
		DayOfWeek:           &dow,
		IsRecurring:         true,
		StartTime:           "09:00",
		EndTime:             "10:15",
		SlotDurationMinutes: 30,
		Timezone:            "UTC",
		Status:              models.RuleStatusAvailable,
	}
	require.NoError(t, f.db.Create(rule).Error)

	slots, err := f.slots.GenerateSlots(f.mentor.ID, mondayDate)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "09:00", slots[0].Time)
	assert.Equal(t, "09:30", slots[1].Time)
}

func TestGenerateSlotsWindowShorterThanSlot(t *testing.T) {
	f := newFixture(t, utils.FixedClock{Time: testNow}, 2*time.Hour)
	dow := 1
	rule := &models.AvailabilityRule{
		MentorID:            f.mentor.ID,
		DayOfWeek:           &dow,
		IsRecurring:         true,
		StartTime:           "09:00",
		EndTime:             "09:20",
		SlotDurationMinutes: 30,
		Timezone:            "UTC",
		Status:              models.RuleStatusAvailable,
	}
	require.NoError(t, f.db.Create(rule).Error)

	slots, err := f.slots.GenerateSlots(f.mentor.ID, mondayDate)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

// Booking a slot and regenerating the same date must show that slot as
// unavailable while keeping it listed.
func TestGenerateSlotsReflectsBooking(t *testing.T) {
	f := newFixture(t, utils.FixedClock{Time: testNow}, 2*time.Hour)
	weekdayRule(t, f.db, f.mentor.ID)

	_, err := f.booking.BookSlot(f.mentor.ID, f.mentee.ID, mondayDate, "09:00", 30)
	require.NoError(t, err)

	slots, err := f.slots.GenerateSlots(f.mentor.ID, mondayDate)
	require.NoError(t, err)
	require.Len(t, slots, 16)
	assert.Equal(t, "09:00", slots[0].Time)
	assert.False(t, slots[0].Available)
	assert.True(t, slots[1].Available)
}
