package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/siuroma-kids/admin-api/internal/dto"
	"github.com/siuroma-kids/admin-api/internal/service"
	"github.com/siuroma-kids/admin-api/internal/utils"
)

// CourseHandler wires the course management endpoints.
type CourseHandler struct {
	courses    service.CourseService
	enrollment service.EnrollmentService
	logger     zerolog.Logger
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(courses service.CourseService, enrollment service.EnrollmentService, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		courses:    courses,
		enrollment: enrollment,
		logger:     logger.With().Str("component", "course_handler").Logger(),
	}
}

// Register attaches course routes to the router group.
func (h *CourseHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:category/:round/:name", h.get)
	router.Delete("/:category/:round/:name", h.delete)
	router.Post("/:category/:round/:name/lessons/:lessonId/toggle", h.toggle)
	router.Post("/:category/:round/:name/lessons/:lessonId/shift", h.shift)
	router.Post("/:category/:round/:name/lessons/:lessonId/students", h.addStudent)
	router.Delete("/:category/:round/:name/lessons/:lessonId/students/:studentId", h.removeStudent)
}

func (h *CourseHandler) list(c *fiber.Ctx) error {
	courses, err := h.courses.List(c.Context(), c.Query("category"), c.Query("round"))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list courses")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list courses")
	}

	return utils.SendSuccess(c, "courses retrieved", courses)
}

func (h *CourseHandler) create(c *fiber.Ctx) error {
	var payload dto.CourseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	course, err := h.courses.Create(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrInvalidRound):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid course payload")
		case errors.Is(err, service.ErrUnknownCategory):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrCourseExists):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create course")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create course")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "course created", course)
}

func (h *CourseHandler) get(c *fiber.Ctx) error {
	course, err := h.courses.Get(c.Context(), c.Params("category"), c.Params("round"), c.Params("name"))
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch course")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch course")
	}

	return utils.SendSuccess(c, "course retrieved", course)
}

func (h *CourseHandler) delete(c *fiber.Ctx) error {
	err := h.courses.Delete(c.Context(), c.Params("category"), c.Params("round"), c.Params("name"))
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete course")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete course")
	}

	return utils.SendSuccess(c, "course deleted", nil)
}

func (h *CourseHandler) toggle(c *fiber.Ctx) error {
	lessonID, err := parseLessonIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid lesson id")
	}

	course, err := h.courses.ToggleCompletion(c.Context(), c.Params("category"), c.Params("round"), c.Params("name"), lessonID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		case errors.Is(err, service.ErrLessonNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "lesson not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to toggle lesson completion")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to toggle lesson completion")
	}

	return utils.SendSuccess(c, "lesson completion toggled", course)
}

func (h *CourseHandler) shift(c *fiber.Ctx) error {
	lessonID, err := parseLessonIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid lesson id")
	}

	var payload dto.ShiftDatesRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	payload.StartLessonID = lessonID

	course, err := h.courses.ShiftDates(c.Context(), c.Params("category"), c.Params("round"), c.Params("name"), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid shift payload")
		case errors.Is(err, service.ErrCourseNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		case errors.Is(err, service.ErrLessonNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "lesson not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to shift lesson dates")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to shift lesson dates")
	}

	return utils.SendSuccess(c, "lesson dates shifted", course)
}

func (h *CourseHandler) addStudent(c *fiber.Ctx) error {
	lessonID, err := parseLessonIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid lesson id")
	}

	var payload dto.PlacementRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if payload.StudentID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "student_id is required")
	}

	course, err := h.enrollment.AddStudentToLesson(c.Context(), c.Params("category"), c.Params("round"), c.Params("name"), lessonID, payload.StudentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		case errors.Is(err, service.ErrLessonNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "lesson not found")
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		case errors.Is(err, service.ErrCapacityExceeded):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrAlreadyEnrolled):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrSlotConflict):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to add student to lesson")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to add student to lesson")
	}

	return utils.SendSuccess(c, "student added to lesson", course)
}

func (h *CourseHandler) removeStudent(c *fiber.Ctx) error {
	lessonID, err := parseLessonIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid lesson id")
	}

	course, err := h.enrollment.RemoveStudentFromLesson(c.Context(), c.Params("category"), c.Params("round"), c.Params("name"), lessonID, c.Params("studentId"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		case errors.Is(err, service.ErrLessonNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "lesson not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to remove student from lesson")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to remove student from lesson")
	}

	return utils.SendSuccess(c, "student removed from lesson", course)
}
