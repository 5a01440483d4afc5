package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/siuroma-kids/admin-api/internal/service"
	"github.com/siuroma-kids/admin-api/internal/utils"
)

// TimetableHandler serves the aggregated timetable grid.
type TimetableHandler struct {
	timetable service.TimetableService
	logger    zerolog.Logger
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(timetable service.TimetableService, logger zerolog.Logger) *TimetableHandler {
	return &TimetableHandler{
		timetable: timetable,
		logger:    logger.With().Str("component", "timetable_handler").Logger(),
	}
}

// Register attaches the timetable route to the router group.
func (h *TimetableHandler) Register(router fiber.Router) {
	router.Get("", h.get)
}

func (h *TimetableHandler) get(c *fiber.Ctx) error {
	category := c.Query("category")
	round := c.Query("round")
	if category == "" || round == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "category and round are required")
	}

	grid, err := h.timetable.GetTimetable(c.Context(), category, round)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build timetable")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build timetable")
	}

	return utils.SendSuccess(c, "timetable retrieved", grid)
}
