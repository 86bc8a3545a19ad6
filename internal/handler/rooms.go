package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/service"
)

// RoomService is the part of service.RoomService the handler uses.
type RoomService interface {
	Create(ctx context.Context, in service.RoomInput) (model.Room, error)
	Get(ctx context.Context, id uint64) (model.Room, error)
	List(ctx context.Context) ([]model.Room, error)
	Patch(ctx context.Context, id uint64, in service.RoomPatchInput) (model.Room, error)
	SetOperationalStatus(ctx context.Context, id uint64, in service.OperationalStatusInput) (model.Room, error)
}

// RoomHandler serves /v1/rooms.
type RoomHandler struct {
	svc RoomService
}

func NewRoomHandler(svc RoomService) *RoomHandler {
	if svc == nil {
		panic("nil service passed to NewRoomHandler")
	}
	return &RoomHandler{svc: svc}
}

// publicView reports whether the caller asked for the outside-viewer
// projection with ?view=public.
func publicView(c echo.Context) bool { return c.QueryParam("view") == "public" }

// List handles GET /v1/rooms.
func (h *RoomHandler) List(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	rooms, err := h.svc.List(ctx)
	if err != nil {
		return writeError(c, err)
	}
	if publicView(c) {
		items := make([]model.PublicRoom, len(rooms))
		for i, r := range rooms {
			items[i] = r.Public()
		}
		return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rooms, "count": len(rooms)})
}

// Get handles GET /v1/rooms/:id.
func (h *RoomHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "room")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	room, err := h.svc.Get(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	if publicView(c) {
		return c.JSON(http.StatusOK, echo.Map{"item": room.Public()})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": room})
}

// Create handles POST /v1/rooms.
func (h *RoomHandler) Create(c echo.Context) error {
	var in service.RoomInput
	if err := c.Bind(&in); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	room, err := h.svc.Create(ctx, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": room})
}

// Patch handles PATCH /v1/rooms/:id.
func (h *RoomHandler) Patch(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "room")
	}
	var in service.RoomPatchInput
	if err := c.Bind(&in); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	room, err := h.svc.Patch(ctx, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": room})
}

// SetOperationalStatus handles PUT /v1/rooms/:id/operational-status.  An
// empty or null status clears the override.
func (h *RoomHandler) SetOperationalStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "room")
	}
	var in service.OperationalStatusInput
	if err := c.Bind(&in); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	room, err := h.svc.SetOperationalStatus(ctx, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": room})
}
