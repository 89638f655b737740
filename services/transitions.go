package services

import "github.com/wanjiru256/mentor_connect/models"

// Actor is who is attempting a transition. Permissions are asymmetric: the
// same action can be legal for one party and not the other depending on the
// session's current state.
type Actor string

const (
	ActorMentor Actor = "mentor"
	ActorMentee Actor = "mentee"
	// ActorParticipant matches either party of the session.
	ActorParticipant Actor = "participant"
	ActorSystem      Actor = "system"
)

type Action string

const (
	ActionAccept     Action = "accept"
	ActionDecline    Action = "decline"
	ActionReschedule Action = "reschedule"
	ActionCancel     Action = "cancel"
	ActionMarkMissed Action = "mark_missed"
	ActionComplete   Action = "complete"
)

// transition is a single allowed edge in the session state machine.
type transition struct {
	From   models.SessionStatus
	Action Action
	Actor  Actor
	To     models.SessionStatus
}

var transitionsTable = []transition{
	// Mentor decides on a fresh request.
	{From: models.SessionScheduled, Action: ActionAccept, Actor: ActorMentor, To: models.SessionConfirmed},
	{From: models.SessionScheduled, Action: ActionDecline, Actor: ActorMentor, To: models.SessionCancelled},
	{From: models.SessionScheduled, Action: ActionReschedule, Actor: ActorMentor, To: models.SessionRescheduled},

	// Mentee decides on the mentor's counter-proposal.
	{From: models.SessionRescheduled, Action: ActionAccept, Actor: ActorMentee, To: models.SessionConfirmed},
	{From: models.SessionRescheduled, Action: ActionDecline, Actor: ActorMentee, To: models.SessionCancelled},

	// Either party may withdraw before the session happens. A confirmed
	// session has no reschedule edge: a late time change is cancel + rebook.
	{From: models.SessionScheduled, Action: ActionCancel, Actor: ActorParticipant, To: models.SessionCancelled},
	{From: models.SessionConfirmed, Action: ActionCancel, Actor: ActorParticipant, To: models.SessionCancelled},

	// Time-driven sweeps.
	{From: models.SessionScheduled, Action: ActionMarkMissed, Actor: ActorSystem, To: models.SessionNoShow},
	{From: models.SessionConfirmed, Action: ActionMarkMissed, Actor: ActorSystem, To: models.SessionNoShow},
	{From: models.SessionConfirmed, Action: ActionComplete, Actor: ActorSystem, To: models.SessionCompleted},
}

// transitionFor returns the allowed edge for a state, action and actor.
func transitionFor(from models.SessionStatus, action Action, actor Actor) (transition, bool) {
	for _, tr := range transitionsTable {
		if tr.From == from && tr.Action == action && actorMatches(tr.Actor, actor) {
			return tr, true
		}
	}
	return transition{}, false
}

func actorMatches(required, actual Actor) bool {
	if required == ActorParticipant {
		return actual == ActorMentor || actual == ActorMentee
	}
	return required == actual
}
