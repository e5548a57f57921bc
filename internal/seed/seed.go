// Package seed loads the demo program state used for pitches and local
// development: two courses, two administrators, two instructors and
// five participants at different points of the itinerary.
package seed

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"camara-formacion/internal/models"
	"camara-formacion/internal/service"
	"camara-formacion/internal/store"
)

// seedTime is the fixed timestamp stamped on every seeded record so
// repeated loads produce identical documents.
var seedTime = time.Date(2025, 2, 6, 10, 0, 0, 0, time.UTC)

var actorAna = models.Actor{
	UserID: "user-admin-ana",
	Email:  "admin@camara-menorca.es",
	Role:   models.RoleAdministrator,
	Name:   "Ana Garcia Ruiz",
}

var actorCarlos = models.Actor{
	UserID: "user-instructor-carlos",
	Email:  "instructor1@camara-menorca.es",
	Role:   models.RoleInstructor,
	Name:   "Carlos Martinez Lopez",
}

// Load populates the store with the demo dataset. password becomes the
// login password of every seeded account. Annexes and signatures go
// through the engine so the rendered documents match what the live
// operations would produce.
func Load(st store.Store, services *service.Services, password string) error {
	defer services.SetClock(time.Now)
	services.SetClock(func() time.Time { return seedTime })

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	if err := seedCourses(st); err != nil {
		return err
	}
	if err := seedUsers(st, string(hash)); err != nil {
		return err
	}
	if err := seedParticipants(st); err != nil {
		return err
	}
	if err := seedAssignments(st); err != nil {
		return err
	}
	if err := seedDocuments(services); err != nil {
		return err
	}
	return seedAttendance(services)
}

func seedCourses(st store.Store) error {
	courses := []models.Course{
		{
			ID:            "course-programa-emprendimiento-2025",
			Name:          "Programa de Emprendimiento Digital 2025",
			Description:   "Programa demo para el pitch de Madrid.",
			DurationHours: 120,
			StartDate:     "2025-01-15",
			EndDate:       "2025-04-30",
		},
		{
			ID:            "course-talento-45-marketing",
			Name:          "Talento 45+ - Marketing Digital",
			Description:   "Curso de apoyo complementario",
			DurationHours: 80,
			StartDate:     "2025-02-01",
			EndDate:       "2025-05-15",
		},
	}
	for i := range courses {
		if err := st.CreateCourse(&courses[i]); err != nil {
			return fmt.Errorf("failed to seed course %s: %w", courses[i].ID, err)
		}
	}
	return nil
}

func seedUsers(st store.Store, passwordHash string) error {
	users := []models.User{
		{ID: "user-admin-ana", Email: "admin@camara-menorca.es", Name: "Ana Garcia Ruiz", Role: models.RoleAdministrator},
		{ID: "user-admin-godmode", Email: "godmode@camara-menorca.es", Name: "God Mode Admin", Role: models.RoleAdministrator},
		{ID: "user-instructor-carlos", Email: "instructor1@camara-menorca.es", Name: "Carlos Martinez Lopez", Role: models.RoleInstructor},
		{ID: "user-instructor-isabel", Email: "instructor2@camara-menorca.es", Name: "Isabel Fernandez Torres", Role: models.RoleInstructor},
		{ID: "user-participant-miguel", Email: "participant1@camara-menorca.es", Name: "Miguel Sanchez Vega", Role: models.RoleParticipant},
		{ID: "user-participant-laura", Email: "participant2@camara-menorca.es", Name: "Laura Rodriguez Mora", Role: models.RoleParticipant},
		{ID: "user-participant-david", Email: "participant3@camara-menorca.es", Name: "David Hernandez Cruz", Role: models.RoleParticipant},
		{ID: "user-participant-sofia", Email: "participant4@camara-menorca.es", Name: "Sofia Lopez Navarro", Role: models.RoleParticipant},
		{ID: "user-participant-javier", Email: "participant5@camara-menorca.es", Name: "Javier Morales Ruiz", Role: models.RoleParticipant},
	}
	for i := range users {
		users[i].PasswordHash = passwordHash
		users[i].CreatedAt = seedTime
		if err := st.CreateUser(&users[i]); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", users[i].ID, err)
		}
	}
	return nil
}

// participantSeed describes one participant and how far along the
// itinerary the demo places them
type participantSeed struct {
	id           string
	userID       string
	firstName    string
	lastName     string
	idNumber     string
	email        string
	phone        string
	currentPhase models.PhaseType
	statuses     map[models.PhaseType]string
}

func participantSeeds() []participantSeed {
	return []participantSeed{
		{
			id: "participant-miguel", userID: "user-participant-miguel",
			firstName: "Miguel", lastName: "Sanchez Vega", idNumber: "43256789X",
			email: "participant1@camara-menorca.es", phone: "+34 611 111 111",
			currentPhase: models.PhaseDiagnostic,
			statuses: map[models.PhaseType]string{
				models.PhaseDiagnostic: models.PhaseInProgress,
			},
		},
		{
			id: "participant-laura", userID: "user-participant-laura",
			firstName: "Laura", lastName: "Rodriguez Mora", idNumber: "54123456W",
			email: "participant2@camara-menorca.es", phone: "+34 622 222 222",
			currentPhase: models.PhaseTraining,
			statuses: map[models.PhaseType]string{
				models.PhaseDiagnostic: models.PhaseCompleted,
				models.PhaseTraining:   models.PhaseInProgress,
			},
		},
		{
			id: "participant-david", userID: "user-participant-david",
			firstName: "David", lastName: "Hernandez Cruz", idNumber: "55111222J",
			email: "participant3@camara-menorca.es", phone: "+34 633 333 333",
			currentPhase: models.PhaseDiagnostic,
			statuses:     map[models.PhaseType]string{},
		},
		{
			id: "participant-sofia", userID: "user-participant-sofia",
			firstName: "Sofia", lastName: "Lopez Navarro", idNumber: "66777888K",
			email: "participant4@camara-menorca.es", phone: "+34 644 444 444",
			currentPhase: models.PhaseCompletion,
			statuses: map[models.PhaseType]string{
				models.PhaseDiagnostic: models.PhaseCompleted,
				models.PhaseTraining:   models.PhaseCompleted,
				models.PhaseCompletion: models.PhaseCompleted,
			},
		},
		{
			id: "participant-javier", userID: "user-participant-javier",
			firstName: "Javier", lastName: "Morales Ruiz", idNumber: "77888999L",
			email: "participant5@camara-menorca.es", phone: "+34 655 555 555",
			currentPhase: models.PhaseTraining,
			statuses: map[models.PhaseType]string{
				models.PhaseDiagnostic: models.PhaseCompleted,
				models.PhaseTraining:   models.PhaseInProgress,
			},
		},
	}
}

func seedParticipants(st store.Store) error {
	for _, s := range participantSeeds() {
		participant := &models.Participant{
			ID:           s.id,
			UserID:       s.userID,
			CourseID:     "course-programa-emprendimiento-2025",
			FirstName:    s.firstName,
			LastName:     s.lastName,
			IDNumber:     s.idNumber,
			Email:        s.email,
			Phone:        s.phone,
			CurrentPhase: s.currentPhase,
			CreatedAt:    seedTime,
			UpdatedAt:    seedTime,
		}

		var phases []models.Phase
		for _, phaseType := range models.PhaseOrder {
			status, ok := s.statuses[phaseType]
			if !ok {
				status = models.PhaseNotStarted
			}
			phase := models.Phase{
				ID:            fmt.Sprintf("phase-%s-%s", s.id, phaseType),
				ParticipantID: s.id,
				PhaseType:     phaseType,
				Status:        status,
				CreatedAt:     seedTime,
				UpdatedAt:     seedTime,
			}
			if status != models.PhaseNotStarted {
				started := seedTime
				phase.StartedAt = &started
			}
			if status == models.PhaseCompleted {
				completed := seedTime
				phase.CompletedAt = &completed
			}
			phases = append(phases, phase)
		}

		if err := st.CreateParticipant(participant, phases); err != nil {
			return fmt.Errorf("failed to seed participant %s: %w", s.id, err)
		}
	}
	return nil
}

func seedAssignments(st store.Store) error {
	assignments := []models.InstructorAssignment{
		{ID: "assignment-carlos-miguel", InstructorID: "user-instructor-carlos", ParticipantID: "participant-miguel"},
		{ID: "assignment-carlos-laura", InstructorID: "user-instructor-carlos", ParticipantID: "participant-laura"},
		{ID: "assignment-carlos-sofia", InstructorID: "user-instructor-carlos", ParticipantID: "participant-sofia"},
		{ID: "assignment-isabel-david", InstructorID: "user-instructor-isabel", ParticipantID: "participant-david"},
		{ID: "assignment-isabel-javier", InstructorID: "user-instructor-isabel", ParticipantID: "participant-javier"},
	}
	for i := range assignments {
		assignments[i].CreatedAt = seedTime
		if err := st.CreateAssignment(&assignments[i]); err != nil {
			return fmt.Errorf("failed to seed assignment %s: %w", assignments[i].ID, err)
		}
	}
	return nil
}

// seedDocuments generates the demo annexes through the engine so they
// carry real rendered PDFs. Miguel's annex stays pending signature,
// Laura's diagnostic annex is fully signed, Sofia's whole itinerary is
// signed off.
func seedDocuments(services *service.Services) error {
	if _, err := services.Annexes.Generate(actorAna, "participant-miguel", models.AnnexType2, false); err != nil {
		return fmt.Errorf("failed to seed annex for miguel: %w", err)
	}

	laura, err := services.Annexes.Generate(actorAna, "participant-laura", models.AnnexType2, true)
	if err != nil {
		return fmt.Errorf("failed to seed annex for laura: %w", err)
	}
	lauraActor := models.Actor{UserID: "user-participant-laura", Role: models.RoleParticipant, Name: "Laura Rodriguez Mora"}
	if _, err := services.Signatures.Add(lauraActor, laura.ID, service.SignInput{TypedName: "Laura Rodriguez Mora"}); err != nil {
		return fmt.Errorf("failed to seed laura's signature: %w", err)
	}
	if _, err := services.Signatures.Add(actorCarlos, laura.ID, service.SignInput{TypedName: "Carlos Martinez Lopez"}); err != nil {
		return fmt.Errorf("failed to seed carlos's signature: %w", err)
	}

	sofiaActor := models.Actor{UserID: "user-participant-sofia", Role: models.RoleParticipant, Name: "Sofia Lopez Navarro"}
	for _, annexType := range []models.AnnexType{models.AnnexType2, models.AnnexType3, models.AnnexType5} {
		annex, err := services.Annexes.Generate(actorAna, "participant-sofia", annexType, true)
		if err != nil {
			return fmt.Errorf("failed to seed %s for sofia: %w", annexType, err)
		}
		for _, role := range models.RequiredSignatures[annexType] {
			var signer models.Actor
			switch role {
			case models.RoleParticipant:
				signer = sofiaActor
			case models.RoleInstructor:
				signer = actorCarlos
			case models.RoleAdministrator:
				signer = actorAna
			}
			if _, err := services.Signatures.Add(signer, annex.ID, service.SignInput{TypedName: signer.Name}); err != nil {
				return fmt.Errorf("failed to seed %s signature on %s: %w", role, annexType, err)
			}
		}
	}
	return nil
}

func seedAttendance(services *service.Services) error {
	sessions := []service.MarkInput{
		{SessionDate: "2025-01-22", Hours: 4, Notes: "Excelente participacion en la sesion de hoy."},
		{SessionDate: "2025-01-29", Hours: 4, Notes: "Avance constante en modulo practico."},
	}
	for _, session := range sessions {
		if _, err := services.Attendance.Mark(actorCarlos, "participant-laura", session); err != nil {
			return fmt.Errorf("failed to seed attendance: %w", err)
		}
	}
	return nil
}
