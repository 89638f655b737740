package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionStatus string

const (
	SessionScheduled   SessionStatus = "scheduled"
	SessionConfirmed   SessionStatus = "confirmed"
	SessionRescheduled SessionStatus = "rescheduled"
	SessionInProgress  SessionStatus = "in_progress"
	SessionCompleted   SessionStatus = "completed"
	SessionCancelled   SessionStatus = "cancelled"
	SessionNoShow      SessionStatus = "no_show"
)

// OccupiesSlot reports whether a session in this status reserves its
// (mentor, scheduled_at) instant against new bookings.
func (s SessionStatus) OccupiesSlot() bool {
	switch s {
	case SessionScheduled, SessionConfirmed, SessionRescheduled, SessionInProgress:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are accepted.
func (s SessionStatus) Terminal() bool {
	switch s {
	case SessionCompleted, SessionCancelled, SessionNoShow:
		return true
	}
	return false
}

var SlotOccupyingStatuses = []SessionStatus{
	SessionScheduled, SessionConfirmed, SessionRescheduled, SessionInProgress,
}

// Session is a booking between a mentor and a mentee. While the session is in
// a slot-occupying status its SlotKey holds the mentor+instant claim; the
// unique index on slot_key is what makes two concurrent bookings of the same
// slot impossible. Terminal transitions clear the key.
type Session struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	MentorID uuid.UUID `gorm:"not null;index" json:"mentor_id"`
	MenteeID uuid.UUID `gorm:"not null;index" json:"mentee_id"`

	ScheduledAt     time.Time     `gorm:"not null;index" json:"scheduled_at"`
	Timezone        string        `gorm:"size:100;not null;default:'UTC'" json:"timezone"`
	DurationMinutes int           `gorm:"not null" json:"duration_minutes"`
	Status          SessionStatus `gorm:"size:20;not null;default:'scheduled'" json:"status"`
	SlotKey         *string       `gorm:"size:64;uniqueIndex" json:"-"`

	RequestedScheduledAt time.Time  `gorm:"not null" json:"requested_scheduled_at"`
	PreviousScheduledAt  *time.Time `json:"previous_scheduled_at,omitempty"`
	RescheduleReason     *string    `gorm:"size:255" json:"reschedule_reason,omitempty"`
	RescheduleMessage    *string    `gorm:"type:text" json:"reschedule_message,omitempty"`

	CancellationReason *string    `gorm:"size:255" json:"cancellation_reason,omitempty"`
	CancelledBy        *uuid.UUID `json:"cancelled_by,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`

	MentorConfirmed bool    `gorm:"not null;default:false" json:"mentor_confirmed"`
	MenteeConfirmed bool    `gorm:"not null;default:false" json:"mentee_confirmed"`
	MeetingLink     *string `gorm:"size:255" json:"meeting_link,omitempty"`

	Mentor User `gorm:"foreignkey:MentorID" json:"mentor,omitempty"`
	Mentee User `gorm:"foreignkey:MenteeID" json:"mentee,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SlotKeyFor builds the atomic-claim key for a mentor and an instant.
func SlotKeyFor(mentorID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("%s@%d", mentorID, at.UTC().Unix())
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// EndsAt is the scheduled end instant of the session.
func (s *Session) EndsAt() time.Time {
	return s.ScheduledAt.Add(time.Duration(s.DurationMinutes) * time.Minute)
}
