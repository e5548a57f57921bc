package handlers

import (
	"net/http"

	"camara-formacion/internal/service"
)

// CourseHandler serves the training course catalog
type CourseHandler struct {
	courses *service.CourseService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courses *service.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// List returns all training courses
// @Summary List courses
// @Description Get all training courses
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Course "Courses"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /courses [get]
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	courses, err := h.courses.List(actor)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, courses)
}

// Get returns a single course
// @Summary Get a course
// @Description Get one training course by ID
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} models.Course "Course"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Course not found"
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	course, err := h.courses.Get(actor, r.PathValue("id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, course)
}
