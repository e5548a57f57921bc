package models

import "testing"

func TestPhaseAnnexMappingIsBijective(t *testing.T) {
	for _, phaseType := range PhaseOrder {
		annexType := PhaseToAnnexType(phaseType)
		if annexType == "" {
			t.Fatalf("no annex type mapped for phase %s", phaseType)
		}
		if got := AnnexTypeToPhase(annexType); got != phaseType {
			t.Errorf("AnnexTypeToPhase(%s) = %s, want %s", annexType, got, phaseType)
		}
	}
}

func TestNextPhase(t *testing.T) {
	tests := []struct {
		from PhaseType
		want PhaseType
	}{
		{PhaseDiagnostic, PhaseTraining},
		{PhaseTraining, PhaseCompletion},
		{PhaseCompletion, ""},
	}

	for _, tt := range tests {
		if got := NextPhase(tt.from); got != tt.want {
			t.Errorf("NextPhase(%s) = %q, want %q", tt.from, got, tt.want)
		}
	}
}

func TestRequiredSignatures(t *testing.T) {
	if got := len(RequiredSignatures[AnnexType2]); got != 2 {
		t.Errorf("annex_2 requires %d roles, want 2", got)
	}
	if got := len(RequiredSignatures[AnnexType3]); got != 1 {
		t.Errorf("annex_3 requires %d roles, want 1", got)
	}
	if got := len(RequiredSignatures[AnnexType5]); got != 3 {
		t.Errorf("annex_5 requires %d roles, want 3", got)
	}

	for annexType, roles := range RequiredSignatures {
		seen := make(map[Role]bool)
		for _, role := range roles {
			if seen[role] {
				t.Errorf("duplicate role %s in required set for %s", role, annexType)
			}
			seen[role] = true
		}
	}
}

func TestLabels(t *testing.T) {
	if got := PhaseLabel(PhaseDiagnostic); got != "Diagnostico" {
		t.Errorf("PhaseLabel(diagnostic) = %q", got)
	}
	if got := AnnexTitle(AnnexType5); got != "Anexo 5" {
		t.Errorf("AnnexTitle(annex_5) = %q", got)
	}
}
