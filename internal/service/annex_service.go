package service

import (
	"camara-formacion/internal/apperrors"
	"camara-formacion/internal/models"
	"camara-formacion/internal/policy"
	"camara-formacion/internal/render"
)

// AnnexService generates and serves the phase documents
type AnnexService struct {
	core  *core
	audit *AuditService
}

// Generate creates the annex for the given type, or refreshes its
// content if it already exists. Staff only. An empty type defaults to
// the annex of the participant's current phase. Generating outside the
// participant's active phase requires override.
func (s *AnnexService) Generate(actor models.Actor, participantID string, annexType models.AnnexType, override bool) (*models.AnnexSummary, error) {
	if !policy.CanManageDocuments(actor) {
		return nil, apperrors.AccessDenied("only staff may generate documents")
	}
	if annexType != "" && !models.ValidAnnexType(string(annexType)) {
		return nil, apperrors.RuleViolation("unknown annex type")
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

	if annexType == "" {
		annexType = models.PhaseToAnnexType(participant.CurrentPhase)
	}

	phaseType := models.AnnexTypeToPhase(annexType)
	if participant.CurrentPhase != phaseType && !override {
		return nil, apperrors.RuleViolation("annex does not belong to the participant's active phase")
	}

	annex, err := s.generateOrRefresh(participant, annexType)
	if err != nil {
		return nil, err
	}

	s.audit.Log(actor.UserID, "annex_generated", "annex", annex.ID, map[string]any{
		"participant_id": participant.ID,
		"annex_type":     annexType,
		"override":       override,
	})
	summary := annexSummary(annex)
	return &summary, nil
}

// generateOrRefresh renders and persists the annex for (participant,
// type). A first generation also starts the owning phase if it has not
// started yet. Rendering happens before any write, so a render failure
// leaves no partial state.
func (s *AnnexService) generateOrRefresh(participant *models.Participant, annexType models.AnnexType) (*models.Annex, error) {
	now := s.core.now()
	phaseType := models.AnnexTypeToPhase(annexType)
	phase, err := s.core.getPhase(participant.ID, phaseType)
	if err != nil {
		return nil, err
	}

	existing, err := s.core.store.FindAnnex(participant.ID, annexType)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		existing.FileName = render.AnnexFileName(annexType, participant.FirstName, participant.LastName)
		existing.GeneratedAt = now
		result, err := s.core.renderAnnex(existing)
		if err != nil {
			return nil, err
		}
		existing.PDFBytes = result.PDFBytes
		existing.ContentHash = result.ContentHash
		existing.UpdatedAt = now
		if err := s.core.store.UpdateAnnex(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	annex := &models.Annex{
		ID:              newID("annex"),
		ParticipantID:   participant.ID,
		PhaseID:         phase.ID,
		AnnexType:       annexType,
		Status:          models.AnnexGenerated,
		TemplateVersion: render.TemplateVersion,
		FileName:        render.AnnexFileName(annexType, participant.FirstName, participant.LastName),
		GeneratedAt:     now,
		UpdatedAt:       now,
	}
	annex.StoragePath = "annexes/" + participant.ID + "/" + annex.FileName

	result, err := s.core.renderAnnex(annex)
	if err != nil {
		return nil, err
	}
	annex.PDFBytes = result.PDFBytes
	annex.ContentHash = result.ContentHash

	if err := s.core.store.CreateAnnex(annex); err != nil {
		return nil, err
	}

	if phase.Status == models.PhaseNotStarted {
		phase.Status = models.PhaseInProgress
		startedAt := now
		phase.StartedAt = &startedAt
		phase.UpdatedAt = now
		if err := s.core.store.UpdatePhase(phase); err != nil {
			return nil, err
		}
	}
	return annex, nil
}

// List returns a participant's annexes
func (s *AnnexService) List(actor models.Actor, participantID string) ([]models.AnnexSummary, error) {
	participant, err := s.core.getParticipant(participantID)
	if err != nil {
		return nil, err
	}
	if err := s.core.assertParticipantAccess(actor, participant); err != nil {
		return nil, err
	}

	annexes, err := s.core.store.ListAnnexes(participantID)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.AnnexSummary, 0, len(annexes))
	for i := range annexes {
		summaries = append(summaries, annexSummary(&annexes[i]))
	}
	return summaries, nil
}

// Get returns one annex by id
func (s *AnnexService) Get(actor models.Actor, annexID string) (*models.AnnexSummary, error) {
	annex, err := s.core.getAnnex(annexID)
	if err != nil {
		return nil, err
	}
	participant, err := s.core.getParticipant(annex.ParticipantID)
	if err != nil {
		return nil, err
	}
	if err := s.core.assertParticipantAccess(actor, participant); err != nil {
		return nil, err
	}
	summary := annexSummary(annex)
	return &summary, nil
}

// Download returns the file name and document bytes of an annex
func (s *AnnexService) Download(actor models.Actor, annexID string) (string, []byte, error) {
	annex, err := s.core.getAnnex(annexID)
	if err != nil {
		return "", nil, err
	}
	participant, err := s.core.getParticipant(annex.ParticipantID)
	if err != nil {
		return "", nil, err
	}
	if err := s.core.assertParticipantAccess(actor, participant); err != nil {
		return "", nil, err
	}
	if len(annex.PDFBytes) == 0 {
		return "", nil, apperrors.NotFound("annex content not available")
	}
	return annex.FileName, annex.PDFBytes, nil
}
