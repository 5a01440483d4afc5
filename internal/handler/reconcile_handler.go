package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/siuroma-kids/admin-api/internal/service"
	"github.com/siuroma-kids/admin-api/internal/utils"
)

// ReconcileHandler exposes the roster/enrollment reconciliation pass.
type ReconcileHandler struct {
	reconcile service.ReconcileService
	logger    zerolog.Logger
}

// NewReconcileHandler constructs the handler.
func NewReconcileHandler(reconcile service.ReconcileService, logger zerolog.Logger) *ReconcileHandler {
	return &ReconcileHandler{
		reconcile: reconcile,
		logger:    logger.With().Str("component", "reconcile_handler").Logger(),
	}
}

// Register attaches the reconcile route to the router group.
func (h *ReconcileHandler) Register(router fiber.Router) {
	router.Post("", h.run)
}

func (h *ReconcileHandler) run(c *fiber.Ctx) error {
	report, err := h.reconcile.Run(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("reconciliation pass failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "reconciliation pass failed")
	}

	return utils.SendSuccess(c, "reconciliation completed", report)
}
