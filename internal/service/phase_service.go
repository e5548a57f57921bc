package service

import (
	"camara-formacion/internal/apperrors"
	"camara-formacion/internal/models"
	"camara-formacion/internal/policy"
)

// PhaseService advances participants through the fixed itinerary
type PhaseService struct {
	core  *core
	audit *AuditService
}

// ProgressResult is the itinerary state after a progression
type ProgressResult struct {
	CurrentPhase models.PhaseType      `json:"current_phase"`
	Phases       []models.PhaseSummary `json:"phases"`
}

// Progress completes the participant's current phase and starts the
// next one. Staff only. The phase's annex must be fully signed unless
// override is set.
func (s *PhaseService) Progress(actor models.Actor, participantID string, override bool) (*ProgressResult, error) {
	if !policy.CanProgressPhase(actor) {
		return nil, apperrors.AccessDenied("only staff may progress phases")
	}

	unlock := s.core.locks.lock(participantID)
	defer unlock()

	participant, err := s.core.getParticipant(participantID)
	if err != nil {
		return nil, err
	}
	if err := s.core.assertParticipantAccess(actor, participant); err != nil {
		return nil, err
	}

	from := participant.CurrentPhase
	phase, err := s.core.getPhase(participant.ID, from)
	if err != nil {
		return nil, err
	}
	if phase.Status == models.PhaseCompleted {
		return nil, apperrors.RuleViolation("current phase is already completed")
	}

	if !override {
		signed, err := s.annexFullySigned(participant.ID, models.PhaseToAnnexType(from))
		if err != nil {
			return nil, err
		}
		if !signed {
			return nil, apperrors.RuleViolation("the phase document is not fully signed")
		}
	}

	now := s.core.now()
	phase.Status = models.PhaseCompleted
	completedAt := now
	phase.CompletedAt = &completedAt
	phase.UpdatedAt = now
	if err := s.core.store.UpdatePhase(phase); err != nil {
		return nil, err
	}

	to := from
	if next := models.NextPhase(from); next != "" {
		nextPhase, err := s.core.getPhase(participant.ID, next)
		if err != nil {
			return nil, err
		}
		if nextPhase.Status == models.PhaseNotStarted {
			nextPhase.Status = models.PhaseInProgress
			startedAt := now
			nextPhase.StartedAt = &startedAt
			nextPhase.UpdatedAt = now
			if err := s.core.store.UpdatePhase(nextPhase); err != nil {
				return nil, err
			}
		}
		participant.CurrentPhase = next
		participant.UpdatedAt = now
		if err := s.core.store.UpdateParticipant(participant); err != nil {
			return nil, err
		}
		to = next
	}

	s.audit.Log(actor.UserID, "phase_progressed", "participant", participant.ID, map[string]any{
		"override": override,
		"from":     from,
		"to":       to,
	})

	phases, err := s.core.store.ListPhases(participant.ID)
	if err != nil {
		return nil, err
	}
	result := &ProgressResult{CurrentPhase: participant.CurrentPhase}
	for i := range phases {
		result.Phases = append(result.Phases, phaseSummary(&phases[i]))
	}
	return result, nil
}

// annexFullySigned reports whether the annex of the given type exists
// and carries every required role's signature
func (s *PhaseService) annexFullySigned(participantID string, annexType models.AnnexType) (bool, error) {
	annex, err := s.core.store.FindAnnex(participantID, annexType)
	if err != nil {
		return false, err
	}
	if annex == nil {
		return false, nil
	}
	signatures, err := s.core.store.ListSignatures(annex.ID)
	if err != nil {
		return false, err
	}
	return hasAllRequiredSignatures(annexType, signatures), nil
}

// hasAllRequiredSignatures checks the closed role set of an annex type
// against the signatures present
func hasAllRequiredSignatures(annexType models.AnnexType, signatures []models.Signature) bool {
	present := make(map[models.Role]bool, len(signatures))
	for _, signature := range signatures {
		present[signature.ActorRole] = true
	}
	for _, role := range models.RequiredSignatures[annexType] {
		if !present[role] {
			return false
		}
	}
	return true
}
