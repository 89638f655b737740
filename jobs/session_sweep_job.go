package jobs

import (
	"log"

	"github.com/wanjiru256/mentor_connect/services"
)

var sessionSvc *services.SessionService

// Init hands the cron jobs their session service. Called once from main.
func Init(svc *services.SessionService) {
	sessionSvc = svc
}

// SweepOverdueSessions is the periodic pass that completes attended sessions
// and marks abandoned ones as no-shows. Safe to run repeatedly: handled
// sessions land in terminal states and are skipped on the next pass.
func SweepOverdueSessions() {
	log.Println("Running job: SweepOverdueSessions...")

	completed, missed, err := sessionSvc.SweepOverdue()
	if err != nil {
		log.Printf("Error sweeping overdue sessions: %v", err)
		return
	}

	if completed == 0 && missed == 0 {
		log.Println("No overdue sessions found.")
		return
	}
	log.Printf("Completed %d session(s), marked %d as no-show.", completed, missed)
}
