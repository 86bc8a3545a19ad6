package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/model"
)

// StatusService is the part of service.StatusService the handler uses.
type StatusService interface {
	Room(ctx context.Context, roomID uint64, at time.Time) (model.RoomStatus, error)
	All(ctx context.Context, at time.Time) ([]model.RoomStatus, error)
}

// StatusHandler serves the derived room status.
type StatusHandler struct {
	svc StatusService
}

func NewStatusHandler(svc StatusService) *StatusHandler {
	if svc == nil {
		panic("nil service passed to NewStatusHandler")
	}
	return &StatusHandler{svc: svc}
}

// evaluationTime reads ?at=RFC3339.  Absent means now.
func evaluationTime(c echo.Context) (time.Time, bool) {
	raw := c.QueryParam("at")
	if raw == "" {
		return time.Time{}, true
	}
	at, err := time.Parse(time.RFC3339, raw)
	return at, err == nil
}

// All handles GET /v1/rooms/status.
func (h *StatusHandler) All(c echo.Context) error {
	at, ok := evaluationTime(c)
	if !ok {
		return badRequest(c, "invalid_time", "at must be an RFC 3339 timestamp")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	list, err := h.svc.All(ctx, at)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": list, "count": len(list)})
}

// Room handles GET /v1/rooms/:id/status.
func (h *StatusHandler) Room(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "room")
	}
	at, ok := evaluationTime(c)
	if !ok {
		return badRequest(c, "invalid_time", "at must be an RFC 3339 timestamp")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	st, err := h.svc.Room(ctx, id, at)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": st})
}
