package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/codeclash/arena/internal/dto"
	"github.com/codeclash/arena/internal/service"
	"github.com/codeclash/arena/internal/store"
	"github.com/codeclash/arena/internal/utils"
)

// RoomHandler exposes room lifecycle and membership endpoints.
type RoomHandler struct {
	service service.RoomService
	logger  zerolog.Logger
}

// NewRoomHandler constructs the handler.
func NewRoomHandler(service service.RoomService, logger zerolog.Logger) *RoomHandler {
	return &RoomHandler{
		service: service,
		logger:  logger.With().Str("component", "room_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *RoomHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Post("/:id/join", h.join)
	router.Post("/:id/leave", h.leave)
	router.Post("/:id/start", h.start)
	router.Post("/:id/close", h.close)
	router.Get("/:id/leaderboard", h.leaderboard)
}

func (h *RoomHandler) create(c *fiber.Ctx) error {
	var payload dto.RoomCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Create(c.UserContext(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "room created", response)
}

func (h *RoomHandler) get(c *fiber.Ctx) error {
	response, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "room retrieved", response)
}

func (h *RoomHandler) join(c *fiber.Ctx) error {
	var payload dto.RoomJoinRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Join(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "room joined", response)
}

func (h *RoomHandler) leave(c *fiber.Ctx) error {
	var payload dto.RoomLeaveRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.Leave(c.UserContext(), c.Params("id"), payload); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "room left", nil)
}

func (h *RoomHandler) start(c *fiber.Ctx) error {
	response, err := h.service.Start(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "room started", response)
}

func (h *RoomHandler) close(c *fiber.Ctx) error {
	response, err := h.service.Close(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "room closed", response)
}

func (h *RoomHandler) leaderboard(c *fiber.Ctx) error {
	response, err := h.service.Leaderboard(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "leaderboard retrieved", response)
}

func (h *RoomHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, store.ErrRoomNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "room not found")
	case errors.Is(err, service.ErrProblemNotFound):
		return utils.SendError(c, fiber.StatusBadRequest, "unknown problem id")
	case errors.Is(err, service.ErrInvalidProblemSpec):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid problem spec")
	case errors.Is(err, service.ErrInvalidUsername):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid username")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("room operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
