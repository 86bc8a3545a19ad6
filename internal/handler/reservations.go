package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/service"
)

// ReservationService is the part of service.ReservationService the
// handler uses.
type ReservationService interface {
	Create(ctx context.Context, in service.ReservationInput) (model.Reservation, error)
	Update(ctx context.Context, id uint64, patch service.ReservationPatch) (model.Reservation, error)
	Cancel(ctx context.Context, id uint64) error
	Get(ctx context.Context, id uint64) (model.Reservation, error)
	ListByRoom(ctx context.Context, roomID uint64) ([]model.Reservation, error)
	Quote(ctx context.Context, roomID uint64, in service.QuoteInput) (service.Quote, error)
}

// ReservationHandler serves /v1/reservations and the per-room reservation
// and quote routes.
type ReservationHandler struct {
	svc ReservationService
}

func NewReservationHandler(svc ReservationService) *ReservationHandler {
	if svc == nil {
		panic("nil service passed to NewReservationHandler")
	}
	return &ReservationHandler{svc: svc}
}

// Create handles POST /v1/reservations.
func (h *ReservationHandler) Create(c echo.Context) error {
	var in service.ReservationInput
	if err := c.Bind(&in); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	res, err := h.svc.Create(ctx, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": res})
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "reservation")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	res, err := h.svc.Get(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": res})
}

// Update handles PATCH /v1/reservations/:id.
func (h *ReservationHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "reservation")
	}
	var patch service.ReservationPatch
	if err := c.Bind(&patch); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	res, err := h.svc.Update(ctx, id, patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": res})
}

// Cancel handles DELETE /v1/reservations/:id.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "reservation")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	if err := h.svc.Cancel(ctx, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListByRoom handles GET /v1/rooms/:id/reservations.
func (h *ReservationHandler) ListByRoom(c echo.Context) error {
	roomID, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "room")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	list, err := h.svc.ListByRoom(ctx, roomID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": list, "count": len(list)})
}

// Quote handles GET /v1/rooms/:id/quote?stay_type=&date=.
func (h *ReservationHandler) Quote(c echo.Context) error {
	roomID, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "room")
	}
	in := service.QuoteInput{StayType: c.QueryParam("stay_type"), Date: c.QueryParam("date")}
	ctx, cancel := withTimeout(c)
	defer cancel()
	q, err := h.svc.Quote(ctx, roomID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": q})
}
