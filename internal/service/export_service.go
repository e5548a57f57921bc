package service

import (
	"camara-formacion/internal/apperrors"
	"camara-formacion/internal/archive"
	"camara-formacion/internal/models"
)

// ExportService bundles annex documents into deterministic zip archives
type ExportService struct {
	core  *core
	audit *AuditService
}

// BatchInput selects which annexes to export. Empty filters select
// everything the actor may see.
type BatchInput struct {
	ParticipantIDs []string `json:"participant_ids,omitempty"`
	AnnexIDs       []string `json:"annex_ids,omitempty"`
	SignedOnly     bool     `json:"signed_only,omitempty"`
}

// BatchResult is the produced archive
type BatchResult struct {
	FileName string
	Data     []byte
	Count    int
}

// Batch exports the selected annexes as a zip archive. The selection is
// scoped to the actor's visible participants; an empty selection fails
// with NotFound.
func (s *ExportService) Batch(actor models.Actor, in BatchInput) (*BatchResult, error) {
	allowed, err := s.visibleParticipants(actor)
	if err != nil {
		return nil, err
	}

	wantParticipant := toSet(in.ParticipantIDs)
	wantAnnex := toSet(in.AnnexIDs)

	var entries []archive.Entry
	count := 0
	for _, participant := range allowed {
		if len(wantParticipant) > 0 && !wantParticipant[participant.ID] {
			continue
		}
		annexes, err := s.core.store.ListAnnexes(participant.ID)
		if err != nil {
			return nil, err
		}
		for _, annex := range annexes {
			if len(wantAnnex) > 0 && !wantAnnex[annex.ID] {
				continue
			}
			if in.SignedOnly && annex.Status != models.AnnexSigned {
				continue
			}
			if len(annex.PDFBytes) == 0 {
				continue
			}
			entries = append(entries, archive.Entry{Name: annex.FileName, Data: annex.PDFBytes})
			count++
		}
	}

	if count == 0 {
		return nil, apperrors.NotFound("no annexes match the export selection")
	}

	result := &BatchResult{
		FileName: "anexos-export-" + formatDate(s.core.now()) + ".zip",
		Data:     archive.Build(entries),
		Count:    count,
	}

	s.audit.Log(actor.UserID, "annexes_batch_exported", "annex", "", map[string]any{
		"count":       count,
		"signed_only": in.SignedOnly,
	})
	return result, nil
}

// visibleParticipants returns the participants the actor's role scopes
// exports to
func (s *ExportService) visibleParticipants(actor models.Actor) ([]models.Participant, error) {
	participants, err := s.core.store.ListParticipants()
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case models.RoleAdministrator:
		return participants, nil
	case models.RoleInstructor:
		assigned, err := assignedParticipantIDs(s.core.store, actor.UserID)
		if err != nil {
			return nil, err
		}
		var out []models.Participant
		for _, participant := range participants {
			if assigned[participant.ID] {
				out = append(out, participant)
			}
		}
		return out, nil
	case models.RoleParticipant:
		var out []models.Participant
		for _, participant := range participants {
			if participant.UserID == actor.UserID {
				out = append(out, participant)
			}
		}
		return out, nil
	default:
		return nil, apperrors.AccessDenied("unknown role")
	}
}

func toSet(ids []string) map[string]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
