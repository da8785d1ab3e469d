package handler

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/daehan-coding/grader-go-api/internal/dto"
	"github.com/daehan-coding/grader-go-api/internal/service"
	"github.com/daehan-coding/grader-go-api/internal/utils"
)

// RosterHandler exposes the roster CSV import endpoint.
type RosterHandler struct {
	service service.RosterService
	logger  zerolog.Logger
}

// NewRosterHandler constructs the handler.
func NewRosterHandler(service service.RosterService, logger zerolog.Logger) *RosterHandler {
	return &RosterHandler{
		service: service,
		logger:  logger.With().Str("component", "roster_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *RosterHandler) Register(router fiber.Router) {
	router.Post("/import", h.importCSV)
}

func (h *RosterHandler) importCSV(c *fiber.Ctx) error {
	payload := dto.RosterImportRequest{
		Subject: strings.TrimSpace(c.FormValue("subject")),
		Term:    strings.TrimSpace(c.FormValue("term")),
	}

	if yearValue := strings.TrimSpace(c.FormValue("year")); yearValue != "" {
		year, err := strconv.Atoi(yearValue)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "year must be a number")
		}
		payload.Year = &year
	}

	fileHeader, err := c.FormFile("csv_file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "csv_file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "unable to open uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "unable to read uploaded file")
	}

	result, err := h.service.ImportCSV(c.Context(), payload, data)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "roster imported", result)
}

func (h *RosterHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrRosterNotCSV),
		errors.Is(err, service.ErrRosterBadHeader),
		errors.Is(err, service.ErrRosterEncoding):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
