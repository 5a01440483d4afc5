package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/siuroma-kids/admin-api/internal/dto"
	"github.com/siuroma-kids/admin-api/internal/service"
	"github.com/siuroma-kids/admin-api/internal/utils"
)

// StudentHandler wires the student roster and reschedule endpoints.
type StudentHandler struct {
	students   service.StudentService
	reschedule service.RescheduleService
	logger     zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(students service.StudentService, reschedule service.RescheduleService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		students:   students,
		reschedule: reschedule,
		logger:     logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches student routes to the router group.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Get("/:id/reschedule-options", h.rescheduleOptions)
	router.Post("/:id/reschedule", h.rescheduleConfirm)
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	response, err := h.students.List(c.Context(), dto.StudentListRequest{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
		Level:    c.Query("level"),
	})
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list students")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list students")
	}

	return utils.SendSuccess(c, "students retrieved", response)
}

func (h *StudentHandler) get(c *fiber.Ctx) error {
	student, err := h.students.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch student")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch student")
	}

	return utils.SendSuccess(c, "student retrieved", student)
}

func (h *StudentHandler) update(c *fiber.Ctx) error {
	var payload dto.StudentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	student, err := h.students.Update(c.Context(), c.Params("id"), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid student payload")
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to update student")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to update student")
	}

	return utils.SendSuccess(c, "student updated", student)
}

func (h *StudentHandler) rescheduleOptions(c *fiber.Ctx) error {
	lessonID, err := parseQueryInt(c, "lesson_id")
	if err != nil || lessonID < 1 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid lesson id")
	}

	options, err := h.reschedule.Options(c.Context(), lessonID)
	if err != nil {
		if errors.Is(err, service.ErrLessonNotFound) {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid lesson id")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list reschedule options")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list reschedule options")
	}

	return utils.SendSuccess(c, "reschedule options retrieved", options)
}

func (h *StudentHandler) rescheduleConfirm(c *fiber.Ctx) error {
	var payload dto.RescheduleRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	student, err := h.reschedule.Confirm(c.Context(), c.Params("id"), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid reschedule payload")
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		case errors.Is(err, service.ErrEnrollmentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "enrollment not found")
		case errors.Is(err, service.ErrLessonNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "lesson not found")
		case errors.Is(err, service.ErrTargetNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "target course not found")
		case errors.Is(err, service.ErrUnknownCategory):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to reschedule lesson")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to reschedule lesson")
	}

	return utils.SendSuccess(c, "lesson rescheduled", student)
}
