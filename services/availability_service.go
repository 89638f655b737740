package services

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/wanjiru256/mentor_connect/models"
	"gorm.io/gorm"
)

// AvailabilityService owns the mentor's declared rules. Edits never touch
// existing sessions: a narrowed rule only changes slot generation going
// forward.
type AvailabilityService struct {
	db *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{db: db}
}

func (s *AvailabilityService) CreateRule(rule *models.AvailabilityRule) error {
	if err := ValidateRule(rule); err != nil {
		return err
	}
	return s.db.Create(rule).Error
}

func (s *AvailabilityService) ListRules(mentorID uuid.UUID) ([]models.AvailabilityRule, error) {
	var rules []models.AvailabilityRule
	err := s.db.Preload("Breaks").
		Where("mentor_id = ?", mentorID).
		Order("is_recurring desc, day_of_week asc, specific_date asc").
		Find(&rules).Error
	return rules, err
}

func (s *AvailabilityService) UpdateRule(mentorID, ruleID uuid.UUID, updated *models.AvailabilityRule) (*models.AvailabilityRule, error) {
	var rule models.AvailabilityRule
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rule, "id = ? AND mentor_id = ?", ruleID, mentorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newError(KindNotFound, "availability rule not found")
			}
			return err
		}

		updated.ID = rule.ID
		updated.MentorID = mentorID
		if err := ValidateRule(updated); err != nil {
			return err
		}

		// Breaks are replaced wholesale with the incoming set.
		if err := tx.Where("rule_id = ?", rule.ID).Delete(&models.AvailabilityBreak{}).Error; err != nil {
			return err
		}
		for i := range updated.Breaks {
			updated.Breaks[i].ID = uuid.Nil
			updated.Breaks[i].RuleID = rule.ID
		}
		if err := tx.Save(updated).Error; err != nil {
			return err
		}
		rule = *updated
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &rule, nil
}

func (s *AvailabilityService) DeleteRule(mentorID, ruleID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var rule models.AvailabilityRule
		if err := tx.First(&rule, "id = ? AND mentor_id = ?", ruleID, mentorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newError(KindNotFound, "availability rule not found")
			}
			return err
		}
		if err := tx.Where("rule_id = ?", rule.ID).Delete(&models.AvailabilityBreak{}).Error; err != nil {
			return err
		}
		return tx.Delete(&rule).Error
	})
}

// ValidateRule enforces the rule invariants: start before end, a positive
// slot duration no longer than the window, a known timezone, a weekday or a
// date depending on the rule kind, and breaks that nest inside the window
// without overlapping each other.
func ValidateRule(rule *models.AvailabilityRule) error {
	startH, startM, err := parseClock(rule.StartTime)
	if err != nil {
		return err
	}
	endH, endM, err := parseClock(rule.EndTime)
	if err != nil {
		return err
	}
	start := startH*60 + startM
	end := endH*60 + endM
	if start >= end {
		return newError(KindValidation, "start_time must be before end_time")
	}
	if rule.SlotDurationMinutes <= 0 || rule.SlotDurationMinutes > end-start {
		return newError(KindValidation, "slot_duration_minutes must be positive and fit the window")
	}
	if _, err := time.LoadLocation(rule.Timezone); err != nil {
		return newError(KindValidation, "unknown timezone %q", rule.Timezone)
	}
	if rule.Status != models.RuleStatusAvailable && rule.Status != models.RuleStatusUnavailable {
		return newError(KindValidation, "status must be available or unavailable")
	}

	if rule.IsRecurring {
		if rule.DayOfWeek == nil || *rule.DayOfWeek < 0 || *rule.DayOfWeek > 6 {
			return newError(KindValidation, "recurring rules need day_of_week between 0 and 6")
		}
	} else {
		if rule.SpecificDate == nil {
			return newError(KindValidation, "override rules need specific_date")
		}
		if _, err := time.Parse(dateLayout, *rule.SpecificDate); err != nil {
			return newError(KindValidation, "invalid specific_date %q, expected YYYY-MM-DD", *rule.SpecificDate)
		}
	}

	type span struct{ start, end int }
	spans := make([]span, 0, len(rule.Breaks))
	for _, br := range rule.Breaks {
		bh, bm, err := parseClock(br.StartTime)
		if err != nil {
			return err
		}
		eh, em, err := parseClock(br.EndTime)
		if err != nil {
			return err
		}
		b := span{bh*60 + bm, eh*60 + em}
		if b.start >= b.end {
			return newError(KindValidation, "break start must be before its end")
		}
		if b.start < start || b.end > end {
			return newError(KindValidation, "breaks must fall inside the availability window")
		}
		spans = append(spans, b)
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	for i := 1; i < len(spans); i++ {
		if spans[i].start < spans[i-1].end {
			return newError(KindValidation, "breaks must not overlap")
		}
	}
	return nil
}
