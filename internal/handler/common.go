// Package handler translates HTTP requests into service calls and
// service errors into JSON responses.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/service"
)

// requestTimeout bounds the storage work of one request.
const requestTimeout = 5 * time.Second

func withTimeout(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// pathID parses the :name path parameter as a positive id.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

func badRequest(c echo.Context, code, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": code, "message": msg})
}

func invalidID(c echo.Context, what string) error {
	return badRequest(c, "invalid_id", "invalid "+what+" id")
}

func invalidBody(c echo.Context) error {
	return badRequest(c, "invalid_body", "request body is not valid JSON for this endpoint")
}

// writeError maps a service error onto its status and error code.  Errors
// the service could not classify are logged and reported as a
// persistence failure the client may retry.
func writeError(c echo.Context, err error) error {
	var (
		ve *service.ValidationError
		ce *service.ConflictError
	)
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":   "validation_failed",
			"message": "one or more fields are invalid",
			"fields":  ve.Fields,
		})
	case errors.Is(err, service.ErrInvalidDateRange):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_date_range", "message": err.Error()})
	case errors.Is(err, service.ErrDateUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "date_unavailable", "message": err.Error()})
	case errors.Is(err, service.ErrSalesBlocked):
		return c.JSON(http.StatusConflict, echo.Map{"error": "sales_blocked", "message": err.Error()})
	case errors.As(err, &ce):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":        "room_conflict",
			"message":      service.ErrRoomConflict.Error(),
			"conflictWith": ce.With,
		})
	case errors.Is(err, service.ErrRoomConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "room_conflict", "message": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": err.Error()})
	}
	slog.Error("request failed",
		"method", c.Request().Method,
		"path", c.Path(),
		"req_id", c.Response().Header().Get(echo.HeaderXRequestID),
		"err", err,
	)
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"error":   "persistence_failure",
		"message": "the request could not be completed; it is safe to retry",
	})
}
