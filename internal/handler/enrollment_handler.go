package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/siuroma-kids/admin-api/internal/dto"
	"github.com/siuroma-kids/admin-api/internal/service"
	"github.com/siuroma-kids/admin-api/internal/utils"
)

// EnrollmentHandler wires the bulk enrollment endpoint.
type EnrollmentHandler struct {
	enrollment service.EnrollmentService
	logger     zerolog.Logger
}

// NewEnrollmentHandler constructs the handler.
func NewEnrollmentHandler(enrollment service.EnrollmentService, logger zerolog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollment: enrollment,
		logger:     logger.With().Str("component", "enrollment_handler").Logger(),
	}
}

// Register attaches enrollment routes to the router group.
func (h *EnrollmentHandler) Register(router fiber.Router) {
	router.Post("", h.create)
}

func (h *EnrollmentHandler) create(c *fiber.Ctx) error {
	var payload dto.EnrollmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	student, err := h.enrollment.Enroll(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrInvalidRound):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid enrollment payload")
		case errors.Is(err, service.ErrUnknownCategory):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrCourseNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		case errors.Is(err, service.ErrRoundEnrolled):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to enroll student")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to enroll student")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student enrolled", student)
}
