package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/codeclash/arena/internal/middleware"
	"github.com/codeclash/arena/internal/service"
	"github.com/codeclash/arena/internal/store"
)

// EventHandler wires the room event stream websocket upgrade.
type EventHandler struct {
	service service.EventService
	rooms   *store.RoomStore
	logger  zerolog.Logger
}

// NewEventHandler creates an event stream handler instance.
func NewEventHandler(service service.EventService, rooms *store.RoomStore, logger zerolog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		rooms:   rooms,
		logger:  logger.With().Str("component", "event_handler").Logger(),
	}
}

// Register binds the event stream route under the provided router group.
func (h *EventHandler) Register(router fiber.Router) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			ctx := c.UserContext()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))
			c.Locals("request_ctx", ctx)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	router.Get("/ws", websocket.New(h.handleConnection))
}

func (h *EventHandler) handleConnection(conn *websocket.Conn) {
	roomID := strings.TrimSpace(conn.Query("room_id"))
	if roomID == "" {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(fiber.StatusBadRequest, "room_id required"))
		_ = conn.Close()
		return
	}

	if _, err := h.rooms.Get(roomID); err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(fiber.StatusNotFound, "room not found"))
		_ = conn.Close()
		return
	}

	correlation := fmt.Sprint(conn.Locals("correlation_id"))
	baseCtx, _ := conn.Locals("request_ctx").(context.Context)

	opts := service.EventStreamOptions{
		RoomID:        roomID,
		Username:      strings.TrimSpace(conn.Query("username")),
		CorrelationID: correlation,
		Context:       baseCtx,
	}

	h.logger.Info().Str("room_id", roomID).Msg("event stream connected")
	h.service.ServeConnection(conn, opts)
	h.logger.Info().Str("room_id", roomID).Msg("event stream disconnected")
}
