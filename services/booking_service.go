package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wanjiru256/mentor_connect/models"
	"github.com/wanjiru256/mentor_connect/notifications"
	"github.com/wanjiru256/mentor_connect/utils"
	"gorm.io/gorm"
)

// Notifier is the outbound fire-and-forget port the scheduling core calls
// after a transition commits. Implementations must never block the caller or
// surface delivery failures.
type Notifier interface {
	Notify(userID uuid.UUID, kind notifications.Kind, payload map[string]any)
}

type BookingService struct {
	db       *gorm.DB
	clock    utils.Clock
	notifier Notifier
}

func NewBookingService(db *gorm.DB, clock utils.Clock, notifier Notifier) *BookingService {
	return &BookingService{db: db, clock: clock, notifier: notifier}
}

// BookSlot claims one slot for a mentee and creates the session in scheduled
// status. The availability check and the claim run in a single transaction;
// the unique index on slot_key is the source of truth, so of N concurrent
// attempts on the same (mentor, instant) exactly one commits and the rest get
// a slot_conflict rejection.
func (s *BookingService) BookSlot(mentorID, menteeID uuid.UUID, date, startTime string, duration int) (*models.Session, error) {
	var created models.Session

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		var mentor models.User
		if err := tx.First(&mentor, "id = ?", mentorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newError(KindNotFound, "mentor not found")
			}
			return err
		}

		slotStart, rule, err := validateSlot(tx, s.clock, mentorID, date, startTime, duration)
		if err != nil {
			return err
		}

		key := models.SlotKeyFor(mentorID, slotStart)
		var taken int64
		if err := tx.Model(&models.Session{}).Where("slot_key = ?", key).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return newError(KindSlotConflict, "slot %s on %s is already booked", startTime, date)
		}

		created = models.Session{
			MentorID:             mentorID,
			MenteeID:             menteeID,
			ScheduledAt:          slotStart,
			Timezone:             rule.Timezone,
			DurationMinutes:      duration,
			Status:               models.SessionScheduled,
			SlotKey:              &key,
			RequestedScheduledAt: slotStart,
		}
		if err := tx.Create(&created).Error; err != nil {
			if isDuplicateKey(err) {
				return newError(KindSlotConflict, "slot %s on %s was booked concurrently", startTime, date)
			}
			return err
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notifier.Notify(mentorID, notifications.KindSessionRequested, map[string]any{
		"session_id":   created.ID.String(),
		"mentee_id":    menteeID.String(),
		"scheduled_at": created.ScheduledAt,
	})

	return &created, nil
}

// validateSlot re-derives availability for one proposed slot at the instant
// of booking: the governing rule must exist and be available, the slot must
// align with the rule's partition, fit inside the window, avoid every break,
// and lie in the future. Returns the absolute start instant on success.
func validateSlot(tx *gorm.DB, clock utils.Clock, mentorID uuid.UUID, date, startTime string, duration int) (time.Time, *models.AvailabilityRule, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, nil, newError(KindValidation, "invalid date %q, expected YYYY-MM-DD", date)
	}
	startH, startM, err := parseClock(startTime)
	if err != nil {
		return time.Time{}, nil, err
	}

	rule, err := resolveDayRule(tx, mentorID, date, day.Weekday())
	if err != nil {
		return time.Time{}, nil, err
	}
	if rule == nil || rule.Status != models.RuleStatusAvailable {
		return time.Time{}, nil, newError(KindSlotUnavailable, "mentor is not available on %s", date)
	}
	if duration != rule.SlotDurationMinutes {
		return time.Time{}, nil, newError(KindValidation, "duration must be %d minutes", rule.SlotDurationMinutes)
	}

	window, err := ruleWindow(rule, date)
	if err != nil {
		return time.Time{}, nil, err
	}

	width := time.Duration(rule.SlotDurationMinutes) * time.Minute
	slotStart := time.Date(window.dayStart.Year(), window.dayStart.Month(), window.dayStart.Day(), startH, startM, 0, 0, window.loc)
	slotEnd := slotStart.Add(width)

	offset := slotStart.Sub(window.start)
	if offset < 0 || offset%width != 0 || slotEnd.After(window.end) {
		return time.Time{}, nil, newError(KindSlotUnavailable, "%s is not a bookable slot on %s", startTime, date)
	}

	for _, br := range rule.Breaks {
		bh, bm, err := parseClock(br.StartTime)
		if err != nil {
			continue
		}
		eh, em, err := parseClock(br.EndTime)
		if err != nil {
			continue
		}
		brStart := time.Date(slotStart.Year(), slotStart.Month(), slotStart.Day(), bh, bm, 0, 0, window.loc)
		brEnd := time.Date(slotStart.Year(), slotStart.Month(), slotStart.Day(), eh, em, 0, 0, window.loc)
		if slotStart.Before(brEnd) && brStart.Before(slotEnd) {
			return time.Time{}, nil, newError(KindSlotUnavailable, "%s falls in a break on %s", startTime, date)
		}
	}

	if slotStart.Before(clock.Now()) {
		return time.Time{}, nil, newError(KindSlotUnavailable, "%s on %s is in the past", startTime, date)
	}

	return slotStart, rule, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
