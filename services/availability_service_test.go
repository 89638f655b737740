package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wanjiru256/mentor_connect/models"
	"github.com/wanjiru256/mentor_connect/utils"
)

func validRecurringRule(mentorID uuid.UUID) *models.AvailabilityRule {
	dow := 3
	return &models.AvailabilityRule{
		MentorID:            mentorID,
		DayOfWeek:           &dow,
		IsRecurring:         true,
		StartTime:           "09:00",
		EndTime:             "17:00",
		SlotDurationMinutes: 30,
		Timezone:            "UTC",
		Status:              models.RuleStatusAvailable,
	}
}

func TestValidateRule(t *testing.T) {
	strPtr := func(s string) *string { return &s }
	intPtr := func(i int) *int { return &i }

	cases := []struct {
		name   string
		mutate func(r *models.AvailabilityRule)
		valid  bool
	}{
		{"baseline", func(r *models.AvailabilityRule) {}, true},
		{"start after end", func(r *models.AvailabilityRule) { r.StartTime = "18:00" }, false},
		{"start equals end", func(r *models.AvailabilityRule) { r.StartTime = "17:00" }, false},
		{"bad clock string", func(r *models.AvailabilityRule) { r.StartTime = "9am" }, false},
		{"zero duration", func(r *models.AvailabilityRule) { r.SlotDurationMinutes = 0 }, false},
		{"duration exceeds window", func(r *models.AvailabilityRule) { r.SlotDurationMinutes = 600 }, false},
		{"unknown timezone", func(r *models.AvailabilityRule) { r.Timezone = "Mars/Olympus" }, false},
		{"bad status", func(r *models.AvailabilityRule) { r.Status = "busy" }, false},
		{"recurring without weekday", func(r *models.AvailabilityRule) { r.DayOfWeek = nil }, false},
		{"weekday out of range", func(r *models.AvailabilityRule) { r.DayOfWeek = intPtr(7) }, false},
		{"override without date", func(r *models.AvailabilityRule) {
			r.IsRecurring = false
			r.DayOfWeek = nil
		}, false},
		{"override with bad date", func(r *models.AvailabilityRule) {
			r.IsRecurring = false
			r.SpecificDate = strPtr("March 2nd")
		}, false},
		{"valid override", func(r *models.AvailabilityRule) {
			r.IsRecurring = false
			r.SpecificDate = strPtr("2026-03-02")
		}, true},
		{"break inside window", func(r *models.AvailabilityRule) {
			r.Breaks = []models.AvailabilityBreak{{StartTime: "12:00", EndTime: "13:00"}}
		}, true},
		{"break outside window", func(r *models.AvailabilityRule) {
			r.Breaks = []models.AvailabilityBreak{{StartTime: "08:00", EndTime: "09:30"}}
		}, false},
		{"inverted break", func(r *models.AvailabilityRule) {
			r.Breaks = []models.AvailabilityBreak{{StartTime: "13:00", EndTime: "12:00"}}
		}, false},
		{"overlapping breaks", func(r *models.AvailabilityRule) {
			r.Breaks = []models.AvailabilityBreak{
				{StartTime: "12:00", EndTime: "13:00"},
				{StartTime: "12:30", EndTime: "14:00"},
			}
		}, false},
		{"adjacent breaks", func(r *models.AvailabilityRule) {
			r.Breaks = []models.AvailabilityBreak{
				{StartTime: "12:00", EndTime: "13:00"},
				{StartTime: "13:00", EndTime: "13:30"},
			}
		}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rule := validRecurringRule(uuid.New())
			tc.mutate(rule)
			err := ValidateRule(rule)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, IsKind(err, KindValidation), "expected validation_error, got %v", err)
			}
		})
	}
}

func TestRuleCRUD(t *testing.T) {
	f := newFixture(t, utils.FixedClock{Time: testNow}, 2*time.Hour)
	svc := NewAvailabilityService(f.db)

	rule := validRecurringRule(f.mentor.ID)
	rule.Breaks = []models.AvailabilityBreak{{StartTime: "12:00", EndTime: "13:00"}}
	require.NoError(t, svc.CreateRule(rule))

	rules, err := svc.ListRules(f.mentor.ID)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	require.Len(t, rules[0].Breaks, 1)

	// Update replaces the break set wholesale.
	incoming := validRecurringRule(f.mentor.ID)
	incoming.EndTime = "15:00"
	incoming.Breaks = []models.AvailabilityBreak{
		{StartTime: "10:00", EndTime: "10:30"},
		{StartTime: "13:00", EndTime: "13:30"},
	}
	saved, err := svc.UpdateRule(f.mentor.ID, rule.ID, incoming)
	require.NoError(t, err)
	assert.Equal(t, "15:00", saved.EndTime)

	rules, err = svc.ListRules(f.mentor.ID)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Len(t, rules[0].Breaks, 2)

	require.NoError(t, svc.DeleteRule(f.mentor.ID, rule.ID))
	rules, err = svc.ListRules(f.mentor.ID)
	require.NoError(t, err)
	assert.Empty(t, rules)

	var orphanBreaks int64
	require.NoError(t, f.db.Model(&models.AvailabilityBreak{}).Count(&orphanBreaks).Error)
	assert.EqualValues(t, 0, orphanBreaks)
}

func TestRuleOwnershipEnforced(t *testing.T) {
	f := newFixture(t, utils.FixedClock{Time: testNow}, 2*time.Hour)
	svc := NewAvailabilityService(f.db)

	rule := validRecurringRule(f.mentor.ID)
	require.NoError(t, svc.CreateRule(rule))

	other := createUser(t, f.db, "mentor")
	_, err := svc.UpdateRule(other.ID, rule.ID, validRecurringRule(other.ID))
	assert.True(t, IsKind(err, KindNotFound))

	err = svc.DeleteRule(other.ID, rule.ID)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestInvalidRuleRejectedOnCreate(t *testing.T) {
	f := newFixture(t, utils.FixedClock{Time: testNow}, 2*time.Hour)
	svc := NewAvailabilityService(f.db)

	rule := validRecurringRule(f.mentor.ID)
	rule.StartTime = "18:00"
	err := svc.CreateRule(rule)
	assert.True(t, IsKind(err, KindValidation))

	rules, err := svc.ListRules(f.mentor.ID)
	require.NoError(t, err)
	assert.Empty(t, rules)
}
