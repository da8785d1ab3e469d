package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/daehan-coding/grader-go-api/internal/dto"
	"github.com/daehan-coding/grader-go-api/internal/service"
	"github.com/daehan-coding/grader-go-api/internal/utils"
)

// ProblemHandler exposes the problem catalog.
type ProblemHandler struct {
	problems  service.ProblemService
	dashboard service.DashboardService
	logger    zerolog.Logger
}

// NewProblemHandler constructs the handler.
func NewProblemHandler(problems service.ProblemService, dashboard service.DashboardService, logger zerolog.Logger) *ProblemHandler {
	return &ProblemHandler{
		problems:  problems,
		dashboard: dashboard,
		logger:    logger.With().Str("component", "problem_handler").Logger(),
	}
}

// RegisterStudent wires the student-facing endpoints.
func (h *ProblemHandler) RegisterStudent(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.detail)
}

// RegisterAdmin wires the instructor-facing endpoints.
func (h *ProblemHandler) RegisterAdmin(router fiber.Router) {
	router.Get("", h.adminList)
	router.Get("/:id", h.adminGet)
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Post("/:id/toggle-open", h.toggleOpen)
}

func (h *ProblemHandler) list(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	statuses, err := h.dashboard.StudentStatuses(c.Context(), studentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "problems retrieved", statuses)
}

func (h *ProblemHandler) detail(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	detail, err := h.problems.Detail(c.Context(), id, studentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "problem retrieved", detail)
}

func (h *ProblemHandler) adminList(c *fiber.Ctx) error {
	problems, err := h.problems.AdminList(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "problems retrieved", problems)
}

func (h *ProblemHandler) adminGet(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	problem, err := h.problems.AdminGet(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "problem retrieved", problem)
}

func (h *ProblemHandler) create(c *fiber.Ctx) error {
	var payload dto.ProblemCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	problem, err := h.problems.Create(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "problem created", problem)
}

func (h *ProblemHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ProblemUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	problem, err := h.problems.Update(c.Context(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "problem updated", problem)
}

func (h *ProblemHandler) toggleOpen(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	problem, err := h.problems.ToggleOpen(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "problem visibility changed", problem)
}

func (h *ProblemHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrProblemNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "problem not found")
	case errors.Is(err, service.ErrProblemClosed):
		return utils.SendError(c, fiber.StatusForbidden, "problem is closed")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
