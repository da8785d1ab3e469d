package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/daehan-coding/grader-go-api/internal/dto"
	"github.com/daehan-coding/grader-go-api/internal/service"
	"github.com/daehan-coding/grader-go-api/internal/utils"
)

// AuthHandler exposes login endpoints for students and instructors.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/student/login", h.studentLogin)
	router.Post("/admin/login", h.adminLogin)
}

func (h *AuthHandler) studentLogin(c *fiber.Ctx) error {
	var payload dto.StudentLoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.StudentLogin(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "login successful", response)
}

func (h *AuthHandler) adminLogin(c *fiber.Ctx) error {
	var payload dto.AdminLoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.AdminLogin(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "login successful", response)
}

func (h *AuthHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrStudentNotRegistered):
		return utils.SendError(c, fiber.StatusUnauthorized, "student not registered; check with your teacher")
	case errors.Is(err, service.ErrStudentNameMismatch):
		return utils.SendError(c, fiber.StatusUnauthorized, "name does not match the roster")
	case errors.Is(err, service.ErrNoEnrollments):
		return utils.SendError(c, fiber.StatusForbidden, "no class enrollment found; check with your teacher")
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid credentials")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
