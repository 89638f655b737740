package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RuleStatusAvailable   = "available"
	RuleStatusUnavailable = "unavailable"
)

// AvailabilityRule declares when a mentor can be booked. A recurring rule is
// keyed by DayOfWeek (0=Sunday … 6=Saturday); an override rule is keyed by
// SpecificDate (YYYY-MM-DD) and fully replaces the recurring rule for that
// date. Times are local wall-clock HH:MM in the rule's IANA timezone.
type AvailabilityRule struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	MentorID uuid.UUID `gorm:"not null;index" json:"mentor_id"`

	DayOfWeek    *int    `json:"day_of_week,omitempty"`
	SpecificDate *string `gorm:"size:10;index" json:"specific_date,omitempty"`
	IsRecurring  bool    `gorm:"not null" json:"is_recurring"`

	StartTime           string `gorm:"size:5;not null" json:"start_time"`
	EndTime             string `gorm:"size:5;not null" json:"end_time"`
	SlotDurationMinutes int    `gorm:"not null;default:30" json:"slot_duration_minutes"`
	Timezone            string `gorm:"size:100;not null;default:'UTC'" json:"timezone"`

	Status string `gorm:"size:20;not null;default:'available'" json:"status"`

	Breaks []AvailabilityBreak `gorm:"foreignkey:RuleID;constraint:OnDelete:CASCADE" json:"breaks"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AvailabilityBreak is a sub-interval of its rule's window during which no
// slot may be booked.
type AvailabilityBreak struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RuleID    uuid.UUID `gorm:"not null;index" json:"-"`
	StartTime string    `gorm:"size:5;not null" json:"start_time"`
	EndTime   string    `gorm:"size:5;not null" json:"end_time"`
	Reason    *string   `gorm:"size:255" json:"reason,omitempty"`
}

func (r *AvailabilityRule) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (b *AvailabilityBreak) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
