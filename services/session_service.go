package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wanjiru256/mentor_connect/models"
	"github.com/wanjiru256/mentor_connect/notifications"
	"github.com/wanjiru256/mentor_connect/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionService drives a session through its negotiation state machine.
// Every mutation runs in a transaction; notifications go out only after the
// transition has committed and never affect its outcome.
type SessionService struct {
	db       *gorm.DB
	clock    utils.Clock
	notifier Notifier
	grace    time.Duration
}

func NewSessionService(db *gorm.DB, clock utils.Clock, notifier Notifier, grace time.Duration) *SessionService {
	return &SessionService{db: db, clock: clock, notifier: notifier, grace: grace}
}

func (s *SessionService) GetSession(sessionID uuid.UUID) (*models.Session, error) {
	var session models.Session
	if err := s.db.First(&session, "id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFound, "session not found")
		}
		return nil, err
	}
	return &session, nil
}

// Accept confirms a session: the mentor accepts a fresh request, or the
// mentee accepts the mentor's rescheduled proposal. Confirmation also mints
// the meeting link.
func (s *SessionService) Accept(sessionID, actorID uuid.UUID) (*models.Session, error) {
	var session models.Session
	var role Actor

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		if err = lockSession(tx, sessionID, &session); err != nil {
			return err
		}
		if role, err = roleOf(&session, actorID); err != nil {
			return err
		}
		if err = applyTransition(&session, ActionAccept, role); err != nil {
			return err
		}
		link, err := utils.GenerateUniqueMeetingLink(tx)
		if err != nil {
			return err
		}
		session.MeetingLink = &link
		return tx.Save(&session).Error
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notifier.Notify(counterpartOf(&session, role), notifications.KindSessionConfirmed, sessionPayload(&session))
	return &session, nil
}

// Decline rejects the pending proposal: the mentor declines a fresh request,
// or the mentee declines the mentor's rescheduled time. Either way the
// session terminates as cancelled.
func (s *SessionService) Decline(sessionID, actorID uuid.UUID, reason string) (*models.Session, error) {
	var session models.Session
	var role Actor

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		if err = lockSession(tx, sessionID, &session); err != nil {
			return err
		}
		if role, err = roleOf(&session, actorID); err != nil {
			return err
		}
		if err = applyTransition(&session, ActionDecline, role); err != nil {
			return err
		}
		now := s.clock.Now()
		if reason != "" {
			session.CancellationReason = &reason
		}
		session.CancelledBy = &actorID
		session.CancelledAt = &now
		return tx.Save(&session).Error
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notifier.Notify(counterpartOf(&session, role), notifications.KindSessionDeclined, sessionPayload(&session))
	return &session, nil
}

// Cancel withdraws a scheduled or confirmed session. Either party may do it;
// the counterparty is notified.
func (s *SessionService) Cancel(sessionID, actorID uuid.UUID, reason string) (*models.Session, error) {
	var session models.Session
	var role Actor

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		if err = lockSession(tx, sessionID, &session); err != nil {
			return err
		}
		if role, err = roleOf(&session, actorID); err != nil {
			return err
		}
		if err = applyTransition(&session, ActionCancel, role); err != nil {
			return err
		}
		now := s.clock.Now()
		if reason != "" {
			session.CancellationReason = &reason
		}
		session.CancelledBy = &actorID
		session.CancelledAt = &now
		return tx.Save(&session).Error
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notifier.Notify(counterpartOf(&session, role), notifications.KindSessionCancelled, sessionPayload(&session))
	return &session, nil
}

// Reschedule is the mentor's decline-and-counter-propose move, legal only
// while the session is still scheduled. The new time must pass the same
// availability check as a fresh booking, including exclusivity; the claim
// moves to the new instant in the same transaction as the state change.
func (s *SessionService) Reschedule(sessionID, actorID uuid.UUID, date, startTime string, reason, message string) (*models.Session, error) {
	var session models.Session

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockSession(tx, sessionID, &session); err != nil {
			return err
		}
		role, err := roleOf(&session, actorID)
		if err != nil {
			return err
		}
		if err := applyTransition(&session, ActionReschedule, role); err != nil {
			return err
		}

		newStart, rule, err := validateSlot(tx, s.clock, session.MentorID, date, startTime, session.DurationMinutes)
		if err != nil {
			return err
		}

		key := models.SlotKeyFor(session.MentorID, newStart)
		var taken int64
		if err := tx.Model(&models.Session{}).
			Where("slot_key = ? AND id <> ?", key, session.ID).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return newError(KindSlotConflict, "slot %s on %s is already booked", startTime, date)
		}

		prev := session.ScheduledAt
		session.PreviousScheduledAt = &prev
		session.ScheduledAt = newStart
		session.Timezone = rule.Timezone
		session.SlotKey = &key
		if reason != "" {
			session.RescheduleReason = &reason
		}
		if message != "" {
			session.RescheduleMessage = &message
		}

		if err := tx.Save(&session).Error; err != nil {
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

	s.notifier.Notify(session.MenteeID, notifications.KindSessionRescheduled, sessionPayload(&session))
	return &session, nil
}

// ConfirmAttendance records that one party showed up. It is only legal on a
// confirmed session and never changes the status.
func (s *SessionService) ConfirmAttendance(sessionID, actorID uuid.UUID) (*models.Session, error) {
	var session models.Session

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockSession(tx, sessionID, &session); err != nil {
			return err
		}
		role, err := roleOf(&session, actorID)
		if err != nil {
			return err
		}
		if session.Status != models.SessionConfirmed {
			return newError(KindInvalidTransition, "attendance can only be confirmed on a confirmed session, not %s", session.Status)
		}
		if role == ActorMentor {
			session.MentorConfirmed = true
		} else {
			session.MenteeConfirmed = true
		}
		return tx.Save(&session).Error
	})
	if txErr != nil {
		return nil, txErr
	}
	return &session, nil
}

// MarkMissed is the system's time-driven transition into no_show. Calling it
// on a session that is already no_show is a no-op returning the unchanged
// session.
func (s *SessionService) MarkMissed(sessionID uuid.UUID) (*models.Session, error) {
	var session models.Session
	changed := false

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockSession(tx, sessionID, &session); err != nil {
			return err
		}
		if session.Status == models.SessionNoShow {
			return nil
		}
		if err := applyTransition(&session, ActionMarkMissed, ActorSystem); err != nil {
			return err
		}
		changed = true
		return tx.Save(&session).Error
	})
	if txErr != nil {
		return nil, txErr
	}

	if changed {
		payload := sessionPayload(&session)
		s.notifier.Notify(session.MentorID, notifications.KindSessionMissed, payload)
		s.notifier.Notify(session.MenteeID, notifications.KindSessionMissed, payload)
	}
	return &session, nil
}

// Complete terminates a confirmed session whose window elapsed normally.
func (s *SessionService) Complete(sessionID uuid.UUID) (*models.Session, error) {
	var session models.Session

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockSession(tx, sessionID, &session); err != nil {
			return err
		}
		if err := applyTransition(&session, ActionComplete, ActorSystem); err != nil {
			return err
		}
		return tx.Save(&session).Error
	})
	if txErr != nil {
		return nil, txErr
	}

	payload := sessionPayload(&session)
	s.notifier.Notify(session.MentorID, notifications.KindSessionCompleted, payload)
	s.notifier.Notify(session.MenteeID, notifications.KindSessionCompleted, payload)
	return &session, nil
}

// SweepOverdue is the periodic, idempotent pass over sessions whose window
// has passed. Confirmed sessions where both parties confirmed attendance are
// completed; scheduled or confirmed sessions past the grace period are marked
// no_show. Re-running the sweep on handled sessions is a no-op because both
// target states are terminal.
func (s *SessionService) SweepOverdue() (completed, missed int, err error) {
	now := s.clock.Now()

	var candidates []models.Session
	err = s.db.
		Where("status IN ? AND scheduled_at < ?",
			[]models.SessionStatus{models.SessionScheduled, models.SessionConfirmed}, now).
		Find(&candidates).Error
	if err != nil {
		return 0, 0, err
	}

	for _, session := range candidates {
		end := session.EndsAt()
		switch {
		case session.Status == models.SessionConfirmed &&
			session.MentorConfirmed && session.MenteeConfirmed &&
			!end.After(now):
			if _, err := s.Complete(session.ID); err != nil && !IsKind(err, KindInvalidTransition) {
				return completed, missed, err
			}
			completed++
		case !end.Add(s.grace).After(now):
			if _, err := s.MarkMissed(session.ID); err != nil && !IsKind(err, KindInvalidTransition) {
				return completed, missed, err
			}
			missed++
		}
	}
	return completed, missed, nil
}

func lockSession(tx *gorm.DB, sessionID uuid.UUID, out *models.Session) error {
	q := tx
	// sqlite has no row locks; its single-writer transaction covers the read.
	if tx.Dialector.Name() != "sqlite" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.First(out, "id = ?", sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newError(KindNotFound, "session not found")
		}
		return err
	}
	return nil
}

func roleOf(session *models.Session, actorID uuid.UUID) (Actor, error) {
	switch actorID {
	case session.MentorID:
		return ActorMentor, nil
	case session.MenteeID:
		return ActorMentee, nil
	}
	return "", newError(KindNotFound, "session not found")
}

// applyTransition mutates the session's status along an allowed edge and
// releases the slot claim when the new state is terminal. It rejects with
// invalid_transition when no edge matches the state, action and actor.
func applyTransition(session *models.Session, action Action, actor Actor) error {
	tr, ok := transitionFor(session.Status, action, actor)
	if !ok {
		return newError(KindInvalidTransition, "%s is not allowed for %s in state %s", action, actor, session.Status)
	}
	session.Status = tr.To
	if tr.To.Terminal() {
		session.SlotKey = nil
	}
	return nil
}

func counterpartOf(session *models.Session, actor Actor) uuid.UUID {
	if actor == ActorMentor {
		return session.MenteeID
	}
	return session.MentorID
}

func sessionPayload(session *models.Session) map[string]any {
	return map[string]any{
		"session_id":   session.ID.String(),
		"status":       string(session.Status),
		"scheduled_at": session.ScheduledAt,
	}
}
