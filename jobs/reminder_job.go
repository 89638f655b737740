package jobs

import (
	"log"
	"time"

	"github.com/wanjiru256/mentor_connect/database"
	"github.com/wanjiru256/mentor_connect/models"
	"github.com/wanjiru256/mentor_connect/notifications"
)

var reminderDispatcher *notifications.Dispatcher

func InitReminders(dispatcher *notifications.Dispatcher) {
	reminderDispatcher = dispatcher
}

// SendSessionReminders nudges both parties of a confirmed session starting in
// roughly one hour. The 5-minute window matches the cron cadence so each
// session is picked up exactly once.
func SendSessionReminders() {
	log.Println("Running job: SendSessionReminders...")

	now := time.Now()
	lowerBound := now.Add(60 * time.Minute)
	upperBound := now.Add(65 * time.Minute)

	var upcoming []models.Session
	err := database.DB.
		Where("status = ? AND scheduled_at BETWEEN ? AND ?", models.SessionConfirmed, lowerBound, upperBound).
		Find(&upcoming).Error
	if err != nil {
		log.Printf("Error checking for upcoming sessions: %v", err)
		return
	}

	for _, session := range upcoming {
		log.Printf("Sending reminder for session ID: %s", session.ID)

		payload := map[string]any{
			"session_id":   session.ID.String(),
			"scheduled_at": session.ScheduledAt,
		}
		reminderDispatcher.Notify(session.MentorID, notifications.KindSessionReminder, payload)
		reminderDispatcher.Notify(session.MenteeID, notifications.KindSessionReminder, payload)
	}
}
