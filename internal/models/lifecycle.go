package models

// PhaseOrder is the fixed itinerary: diagnostic -> training -> completion
var PhaseOrder = []PhaseType{PhaseDiagnostic, PhaseTraining, PhaseCompletion}

// RequiredSignatures maps each annex type to the closed set of roles
// that must sign before the annex counts as fully signed
var RequiredSignatures = map[AnnexType][]Role{
	AnnexType2: {RoleParticipant, RoleInstructor},
	AnnexType3: {RoleInstructor},
	AnnexType5: {RoleParticipant, RoleInstructor, RoleAdministrator},
}

var phaseToAnnex = map[PhaseType]AnnexType{
	PhaseDiagnostic: AnnexType2,
	PhaseTraining:   AnnexType3,
	PhaseCompletion: AnnexType5,
}

var annexToPhase = map[AnnexType]PhaseType{
	AnnexType2: PhaseDiagnostic,
	AnnexType3: PhaseTraining,
	AnnexType5: PhaseCompletion,
}

// PhaseToAnnexType returns the annex type issued during a phase
func PhaseToAnnexType(phaseType PhaseType) AnnexType {
	return phaseToAnnex[phaseType]
}

// AnnexTypeToPhase returns the phase an annex type belongs to
func AnnexTypeToPhase(annexType AnnexType) PhaseType {
	return annexToPhase[annexType]
}

// NextPhase returns the phase following phaseType in the fixed order,
// or "" if phaseType is terminal
func NextPhase(phaseType PhaseType) PhaseType {
	for i, pt := range PhaseOrder {
		if pt == phaseType && i+1 < len(PhaseOrder) {
			return PhaseOrder[i+1]
		}
	}
	return ""
}

// PhaseLabel returns the document label for a phase
func PhaseLabel(phaseType PhaseType) string {
	switch phaseType {
	case PhaseDiagnostic:
		return "Diagnostico"
	case PhaseTraining:
		return "Formacion"
	default:
		return "Finalizacion"
	}
}

// AnnexTitle returns the document title for an annex type
func AnnexTitle(annexType AnnexType) string {
	switch annexType {
	case AnnexType2:
		return "Anexo 2"
	case AnnexType3:
		return "Anexo 3"
	default:
		return "Anexo 5"
	}
}

// ValidPhaseType reports whether s names a known phase type
func ValidPhaseType(s string) bool {
	_, ok := phaseToAnnex[PhaseType(s)]
	return ok
}

// ValidAnnexType reports whether s names a known annex type
func ValidAnnexType(s string) bool {
	_, ok := annexToPhase[AnnexType(s)]
	return ok
}
