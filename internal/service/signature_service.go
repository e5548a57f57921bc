package service

import (
	"strings"

	"camara-formacion/internal/apperrors"
	"camara-formacion/internal/models"
	"camara-formacion/internal/policy"
)

// SignatureService records role signatures on annexes and keeps annex
// and phase state in sync with them
type SignatureService struct {
	core  *core
	audit *AuditService
}

// SignInput is the payload for signing an annex
type SignInput struct {
	TypedName        string `json:"typed_name,omitempty"`
	SignatureDataURL string `json:"signature_data_url,omitempty"`
}

// Add records the actor's signature on an annex. Each role of the
// annex's required set may sign exactly once; signatures are immutable.
// A successful signature re-renders the document and may complete the
// owning phase and advance the participant.
func (s *SignatureService) Add(actor models.Actor, annexID string, in SignInput) (*models.SignatureSummary, error) {
	annex, err := s.core.getAnnex(annexID)
	if err != nil {
		return nil, err
	}

	unlock := s.core.locks.lock(annex.ParticipantID)
	defer unlock()

	// re-read under the lock
	annex, err = s.core.getAnnex(annexID)
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
	if !policy.CanSignAnnex(actor, participant) {
		return nil, apperrors.AccessDenied("no permission to sign this document")
	}

	required := models.RequiredSignatures[annex.AnnexType]
	roleRequired := false
	for _, role := range required {
		if role == actor.Role {
			roleRequired = true
			break
		}
	}
	if !roleRequired {
		return nil, apperrors.RuleViolation("this document does not require a signature from your role")
	}

	existing, err := s.core.store.ListSignatures(annex.ID)
	if err != nil {
		return nil, err
	}
	for _, signature := range existing {
		if signature.ActorRole == actor.Role {
			return nil, apperrors.Conflict("a signature from this role already exists and is immutable")
		}
	}

	typedName := strings.TrimSpace(in.TypedName)
	if typedName == "" {
		typedName = actor.Name
	}

	signature := models.Signature{
		ID:            newID("signature"),
		AnnexID:       annex.ID,
		ParticipantID: participant.ID,
		SignerUserID:  actor.UserID,
		ActorRole:     actor.Role,
		TypedName:     typedName,
		SignedAt:      s.core.now(),
		PhaseSnapshot: participant.CurrentPhase,
	}
	if in.SignatureDataURL != "" {
		blob := in.SignatureDataURL
		if s.core.cipher != nil {
			blob, err = s.core.cipher.Encrypt([]byte(in.SignatureDataURL))
			if err != nil {
				return nil, apperrors.Internal("failed to encrypt signature data", err)
			}
		}
		signature.SignatureDataURL = blob
	}

	// render with the prospective signature before any write
	result, err := s.core.renderAnnex(annex, signature)
	if err != nil {
		return nil, err
	}

	if err := s.core.store.CreateSignature(&signature); err != nil {
		return nil, err
	}

	annex.PDFBytes = result.PDFBytes
	annex.ContentHash = result.ContentHash
	annex.UpdatedAt = signature.SignedAt
	if hasAllRequiredSignatures(annex.AnnexType, append(existing, signature)) {
		annex.Status = models.AnnexSigned
	}
	if err := s.core.store.UpdateAnnex(annex); err != nil {
		return nil, err
	}

	if annex.Status == models.AnnexSigned {
		if err := s.syncPhaseProgress(participant, annex); err != nil {
			return nil, err
		}
	}

	s.audit.Log(actor.UserID, "annex_signed", "annex", annex.ID, map[string]any{
		"participant_id": participant.ID,
		"annex_type":     annex.AnnexType,
		"role":           actor.Role,
	})
	summary := signatureSummary(&signature)
	return &summary, nil
}

// syncPhaseProgress completes the phase behind a fully signed annex and
// advances the participant if that phase was their active one
func (s *SignatureService) syncPhaseProgress(participant *models.Participant, annex *models.Annex) error {
	phaseType := models.AnnexTypeToPhase(annex.AnnexType)
	phase, err := s.core.getPhase(participant.ID, phaseType)
	if err != nil {
		return err
	}

	now := s.core.now()
	if phase.Status != models.PhaseCompleted {
		phase.Status = models.PhaseCompleted
		completedAt := now
		phase.CompletedAt = &completedAt
		phase.UpdatedAt = now
		if err := s.core.store.UpdatePhase(phase); err != nil {
			return err
		}
	}

	next := models.NextPhase(phaseType)
	if next != "" {
		nextPhase, err := s.core.getPhase(participant.ID, next)
		if err != nil {
			return err
		}
		if nextPhase.Status == models.PhaseNotStarted {
			nextPhase.Status = models.PhaseInProgress
			startedAt := now
			nextPhase.StartedAt = &startedAt
			nextPhase.UpdatedAt = now
			if err := s.core.store.UpdatePhase(nextPhase); err != nil {
				return err
			}
		}
	}

	if participant.CurrentPhase == phaseType && next != "" {
		participant.CurrentPhase = next
		participant.UpdatedAt = now
		if err := s.core.store.UpdateParticipant(participant); err != nil {
			return err
		}
	}
	return nil
}

// List returns the signatures on an annex, ordered by signing time
func (s *SignatureService) List(actor models.Actor, annexID string) ([]models.SignatureSummary, error) {
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

	signatures, err := s.core.store.ListSignatures(annexID)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.SignatureSummary, 0, len(signatures))
	for i := range signatures {
		summaries = append(summaries, signatureSummary(&signatures[i]))
	}
	return summaries, nil
}
