package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wanjiru256/mentor_connect/models"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"
const clockLayout = "15:04"

// Slot is a derived, never-persisted candidate booking interval. Time is
// local wall-clock HH:MM for the requested date in the rule's timezone.
type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

type SlotService struct {
	db *gorm.DB
}

func NewSlotService(db *gorm.DB) *SlotService {
	return &SlotService{db: db}
}

// GenerateSlots produces the ordered candidate slots for one mentor and one
// calendar date (YYYY-MM-DD). Slots overlapping a break or a slot-occupying
// session stay in the list with Available=false; a date with no rule, or an
// unavailable rule, yields an empty list.
func (s *SlotService) GenerateSlots(mentorID uuid.UUID, date string) ([]Slot, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, newError(KindValidation, "invalid date %q, expected YYYY-MM-DD", date)
	}

	rule, err := resolveDayRule(s.db, mentorID, date, day.Weekday())
	if err != nil {
		return nil, err
	}
	if rule == nil || rule.Status != models.RuleStatusAvailable {
		return []Slot{}, nil
	}

	window, err := ruleWindow(rule, date)
	if err != nil {
		return nil, err
	}

	sessions, err := occupyingSessions(s.db, mentorID, window.dayStart, window.dayEnd)
	if err != nil {
		return nil, err
	}

	return buildSlots(rule, window, sessions), nil
}

// resolveDayRule picks the rule governing one date: a specific-date override
// wins outright, otherwise the recurring rule for that weekday applies.
func resolveDayRule(db *gorm.DB, mentorID uuid.UUID, date string, weekday time.Weekday) (*models.AvailabilityRule, error) {
	var override models.AvailabilityRule
	err := db.Preload("Breaks").
		Where("mentor_id = ? AND is_recurring = ? AND specific_date = ?", mentorID, false, date).
		First(&override).Error
	if err == nil {
		return &override, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var recurring models.AvailabilityRule
	err = db.Preload("Breaks").
		Where("mentor_id = ? AND is_recurring = ? AND day_of_week = ?", mentorID, true, int(weekday)).
		First(&recurring).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &recurring, nil
}

// dayWindow anchors a rule's wall-clock window to one calendar date in the
// rule's timezone.
type dayWindow struct {
	loc      *time.Location
	dayStart time.Time // midnight of the date in loc
	dayEnd   time.Time // midnight of the next day
	start    time.Time // rule start instant
	end      time.Time // rule end instant
}

func ruleWindow(rule *models.AvailabilityRule, date string) (dayWindow, error) {
	loc, err := time.LoadLocation(rule.Timezone)
	if err != nil {
		return dayWindow{}, newError(KindValidation, "unknown timezone %q", rule.Timezone)
	}

	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return dayWindow{}, newError(KindValidation, "invalid date %q, expected YYYY-MM-DD", date)
	}

	startH, startM, err := parseClock(rule.StartTime)
	if err != nil {
		return dayWindow{}, err
	}
	endH, endM, err := parseClock(rule.EndTime)
	if err != nil {
		return dayWindow{}, err
	}

	return dayWindow{
		loc:      loc,
		dayStart: day,
		dayEnd:   day.AddDate(0, 0, 1),
		start:    time.Date(day.Year(), day.Month(), day.Day(), startH, startM, 0, 0, loc),
		end:      time.Date(day.Year(), day.Month(), day.Day(), endH, endM, 0, 0, loc),
	}, nil
}

func parseClock(value string) (hour, min int, err error) {
	t, err := time.Parse(clockLayout, value)
	if err != nil {
		return 0, 0, newError(KindValidation, "invalid time %q, expected HH:MM", value)
	}
	return t.Hour(), t.Minute(), nil
}

func occupyingSessions(db *gorm.DB, mentorID uuid.UUID, from, to time.Time) ([]models.Session, error) {
	var sessions []models.Session
	err := db.
		Where("mentor_id = ? AND status IN ? AND scheduled_at >= ? AND scheduled_at < ?",
			mentorID, models.SlotOccupyingStatuses, from, to).
		Find(&sessions).Error
	return sessions, err
}

// buildSlots partitions the window into fixed-width slots starting at the
// rule's start time. A trailing partial slot is dropped entirely; slots
// overlapping a break or an existing session stay listed as unavailable.
func buildSlots(rule *models.AvailabilityRule, window dayWindow, sessions []models.Session) []Slot {
	width := time.Duration(rule.SlotDurationMinutes) * time.Minute
	if width <= 0 || !window.start.Before(window.end) {
		return []Slot{}
	}

	slots := []Slot{}
	for at := window.start; !at.Add(width).After(window.end); at = at.Add(width) {
		slotEnd := at.Add(width)
		available := true

		for _, br := range rule.Breaks {
			bh, bm, err := parseClock(br.StartTime)
			if err != nil {
				continue
			}
			eh, em, err := parseClock(br.EndTime)
			if err != nil {
				continue
			}
			brStart := time.Date(at.Year(), at.Month(), at.Day(), bh, bm, 0, 0, window.loc)
			brEnd := time.Date(at.Year(), at.Month(), at.Day(), eh, em, 0, 0, window.loc)
			if at.Before(brEnd) && brStart.Before(slotEnd) {
				available = false
				break
			}
		}

		if available {
			for _, sess := range sessions {
				if at.Before(sess.EndsAt()) && sess.ScheduledAt.Before(slotEnd) {
					available = false
					break
				}
			}
		}

		slots = append(slots, Slot{Time: at.Format(clockLayout), Available: available})
	}

	return slots
}
