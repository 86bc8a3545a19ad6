package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/service"
)

// SettingsService is the part of service.SettingsService the handler uses.
type SettingsService interface {
	Get(ctx context.Context) ([]model.AvailabilitySetting, error)
	Patch(ctx context.Context, in map[string]service.SettingPatchInput) ([]model.AvailabilitySetting, error)
}

// SettingsHandler serves /v1/settings/availability.
type SettingsHandler struct {
	svc SettingsService
}

func NewSettingsHandler(svc SettingsService) *SettingsHandler {
	if svc == nil {
		panic("nil service passed to NewSettingsHandler")
	}
	return &SettingsHandler{svc: svc}
}

// Get handles GET /v1/settings/availability.
func (h *SettingsHandler) Get(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	list, err := h.svc.Get(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": list, "count": len(list)})
}

// Patch handles PATCH /v1/settings/availability.  The body is keyed by
// stay type, e.g. {"nightly": {"availableDays": "0111110"}}.
func (h *SettingsHandler) Patch(c echo.Context) error {
	var body map[string]service.SettingPatchInput
	if err := c.Bind(&body); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	list, err := h.svc.Patch(ctx, body)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": list, "count": len(list)})
}
