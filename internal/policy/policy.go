// Package policy holds the pure access predicates used by every engine
// operation. Predicates take the relevant records as arguments and never
// touch storage, so they can be evaluated anywhere and tested in isolation.
package policy

import (
	"camara-formacion/internal/models"
)

// CanAccessParticipant answers whether actor may act on a participant.
// Administrators always may; instructors only when an assignment links
// them to the participant; participants only on their own record.
func CanAccessParticipant(actor models.Actor, participant *models.Participant, assignments []models.InstructorAssignment) bool {
	switch actor.Role {
	case models.RoleAdministrator:
		return true
	case models.RoleInstructor:
		for _, assignment := range assignments {
			if assignment.InstructorID == actor.UserID && assignment.ParticipantID == participant.ID {
				return true
			}
		}
		return false
	case models.RoleParticipant:
		return participant.UserID == actor.UserID
	default:
		return false
	}
}

// CanManageDocuments answers whether actor may generate annexes or
// record attendance (staff roles only)
func CanManageDocuments(actor models.Actor) bool {
	return actor.Role == models.RoleAdministrator || actor.Role == models.RoleInstructor
}

// CanProgressPhase answers whether actor may advance a participant's
// phase. Participants never self-advance.
func CanProgressPhase(actor models.Actor) bool {
	return actor.Role == models.RoleAdministrator || actor.Role == models.RoleInstructor
}

// CanSignAnnex answers whether actor may sign an annex owned by
// participant. Participant actors must own the document, not merely
// have access to it.
func CanSignAnnex(actor models.Actor, participant *models.Participant) bool {
	if actor.Role == models.RoleParticipant {
		return participant.UserID == actor.UserID
	}
	return true
}
