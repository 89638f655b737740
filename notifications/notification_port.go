package notifications

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/wanjiru256/mentor_connect/models"
)

// Kind is the closed set of notification events the scheduling core emits.
type Kind string

const (
	KindSessionRequested   Kind = "session_requested"
	KindSessionConfirmed   Kind = "session_confirmed"
	KindSessionDeclined    Kind = "session_declined"
	KindSessionRescheduled Kind = "session_rescheduled"
	KindSessionCancelled   Kind = "session_cancelled"
	KindSessionMissed      Kind = "session_missed"
	KindSessionCompleted   Kind = "session_completed"
	KindSessionReminder    Kind = "session_reminder"
)

// UserDirectory resolves a user id to the identity needed to address a
// notification.
type UserDirectory interface {
	GetUser(id uuid.UUID) (*models.User, error)
}

// PushSink receives the in-app copy of a notification. The websocket hub
// implements it.
type PushSink interface {
	Push(userID uuid.UUID, event any)
}

// Dispatcher fans a notification out to email and the push sink. Delivery is
// fire-and-forget: failures are logged here and never reach the transition
// that triggered them.
type Dispatcher struct {
	Directory UserDirectory
	Push      PushSink
}

func NewDispatcher(directory UserDirectory, push PushSink) *Dispatcher {
	return &Dispatcher{Directory: directory, Push: push}
}

func (d *Dispatcher) Notify(userID uuid.UUID, kind Kind, payload map[string]any) {
	go d.deliver(userID, kind, payload)
}

func (d *Dispatcher) deliver(userID uuid.UUID, kind Kind, payload map[string]any) {
	user, err := d.Directory.GetUser(userID)
	if err != nil {
		log.Printf("🔥 Notification %s dropped, user %s: %v", kind, userID, err)
		return
	}

	if d.Push != nil {
		d.Push.Push(userID, map[string]any{
			"kind":    string(kind),
			"payload": payload,
			"sent_at": time.Now().UTC(),
		})
	}

	subject, body := renderEmail(kind, payload)
	SendEmail(user.FullName, user.Email, subject, body)
}

func renderEmail(kind Kind, payload map[string]any) (subject, body string) {
	when := ""
	if at, ok := payload["scheduled_at"].(time.Time); ok {
		when = at.Format("Mon, 02 Jan 2006 15:04 MST")
	}

	switch kind {
	case KindSessionRequested:
		return "New Session Request", fmt.Sprintf("<h1>New Session Request</h1><p>A mentee has requested a session with you for %s. Please accept or decline from your dashboard.</p>", when)
	case KindSessionConfirmed:
		return "Your Session is Confirmed", fmt.Sprintf("<h1>Session Confirmed</h1><p>Your session on %s has been confirmed.</p>", when)
	case KindSessionDeclined:
		return "Session Declined", "<h1>Session Declined</h1><p>Your session request was declined. Please pick another slot.</p>"
	case KindSessionRescheduled:
		return "New Time Proposed", fmt.Sprintf("<h1>Reschedule Proposed</h1><p>Your mentor proposed a new time: %s. Please accept or decline from your dashboard.</p>", when)
	case KindSessionCancelled:
		return "Session Cancelled", fmt.Sprintf("<h1>Session Cancelled</h1><p>Your session on %s has been cancelled.</p>", when)
	case KindSessionMissed:
		return "Session Marked as Missed", fmt.Sprintf("<h1>Session Missed</h1><p>The session on %s was marked as a no-show.</p>", when)
	case KindSessionCompleted:
		return "Session Completed", fmt.Sprintf("<h1>Session Completed</h1><p>Your session on %s is complete. We hope it went well!</p>", when)
	case KindSessionReminder:
		return "Reminder: Your Session Starts in 1 Hour!", fmt.Sprintf("<h1>Session Reminder</h1><p>Your session is scheduled to start in one hour at %s.</p>", when)
	}
	return "Mentorship Update", "<p>There is an update on one of your sessions.</p>"
}
