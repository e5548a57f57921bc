package service

import (
	"camara-formacion/internal/apperrors"
	"camara-formacion/internal/models"
)

// CourseService exposes the course catalog
type CourseService struct {
	core *core
}

// List returns all courses. Any authenticated user may read the catalog.
func (s *CourseService) List(actor models.Actor) ([]models.Course, error) {
	courses, err := s.core.store.ListCourses()
	if err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []models.Course{}
	}
	return courses, nil
}

// Get returns one course by id
func (s *CourseService) Get(actor models.Actor, id string) (*models.Course, error) {
	course, err := s.core.store.GetCourse(id)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, apperrors.NotFound("course not found")
	}
	return course, nil
}
