package handlers

import (
	"savingsfund/internal/core/services"
	"savingsfund/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SettingsHandler handles per-user preferences
type SettingsHandler struct {
	settingsService *services.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// GetSettings returns the caller's settings or the defaults
// @Summary Get settings
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /settings [get]
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	settings, err := h.settingsService.Get(c.Context(), userID)
	if err != nil {
		return respondError(c, err, "Failed to get settings")
	}

	return response.Success(c, "Settings retrieved successfully", fiber.Map{
		"settings": settings,
	})
}

// UpdateSettings changes the caller's settings
// @Summary Update settings
// @Description Currency must be an ISO 4217 code, language es or en
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.SettingsInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /settings [put]
func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.SettingsInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	settings, err := h.settingsService.Update(c.Context(), userID, &input)
	if err != nil {
		return respondError(c, err, "Failed to update settings")
	}

	return response.Success(c, "Settings updated successfully", fiber.Map{
		"settings": settings,
	})
}
