package handlers

import (
	"savingsfund/internal/core/services"
	"savingsfund/internal/pkg/pagination"
	"savingsfund/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SavingsHandler handles the savings ledger
type SavingsHandler struct {
	savingsService *services.SavingsService
}

// NewSavingsHandler creates a new savings handler
func NewSavingsHandler(savingsService *services.SavingsService) *SavingsHandler {
	return &SavingsHandler{
		savingsService: savingsService,
	}
}

// ListEntries handles listing the ledger (Admin only)
// @Summary List savings entries
// @Description Page through every deposit, newest first, optionally limited to the current month, quarter or year (Admin only)
// @Tags Savings
// @Produce json
// @Security BearerAuth
// @Param period query string false "month, quarter, year or all" default(all)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /savings [get]
func (h *SavingsHandler) ListEntries(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	entries, total, err := h.savingsService.ListEntries(c.Context(), params, c.Query("period"))
	if err != nil {
		return respondError(c, err, "Failed to list savings entries")
	}

	return response.Paginated(c, "Savings entries retrieved successfully", entries, params, total)
}

// AddEntry handles recording a deposit (Admin only)
// @Summary Add savings entry
// @Description Record a deposit for a member, dated today (Admin only)
// @Tags Savings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.AddEntryInput true "Deposit"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /savings [post]
func (h *SavingsHandler) AddEntry(c *fiber.Ctx) error {
	adminID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.AddEntryInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.UserID == "" {
		return response.BadRequest(c, "User ID is required")
	}

	entry, err := h.savingsService.AddEntry(c.Context(), adminID, &input)
	if err != nil {
		return respondError(c, err, "Failed to add savings entry")
	}

	return response.Created(c, "Savings entry added successfully", fiber.Map{
		"entry": entry,
	})
}

// DeleteEntry handles removing a deposit (Admin only)
// @Summary Delete savings entry
// @Description Remove a deposit from the ledger (Admin only)
// @Tags Savings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /savings/{id} [delete]
func (h *SavingsHandler) DeleteEntry(c *fiber.Ctx) error {
	adminID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.savingsService.DeleteEntry(c.Context(), adminID, c.Params("id")); err != nil {
		return respondError(c, err, "Failed to delete savings entry")
	}

	return response.Success(c, "Savings entry deleted successfully", nil)
}

// UserEntries handles listing one member's deposits (Admin only)
// @Summary List a user's savings
// @Description Get a user's deposits newest first with their total (Admin only)
// @Tags Savings
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /savings/users/{id} [get]
func (h *SavingsHandler) UserEntries(c *fiber.Ctx) error {
	return h.entriesOf(c, c.Params("id"))
}

// MyEntries handles listing the caller's own deposits
// @Summary List own savings
// @Description Get the current user's deposits newest first with their total
// @Tags Savings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /savings/me [get]
func (h *SavingsHandler) MyEntries(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	return h.entriesOf(c, userID)
}

func (h *SavingsHandler) entriesOf(c *fiber.Ctx, userID string) error {
	entries, err := h.savingsService.EntriesByUser(c.Context(), userID)
	if err != nil {
		return respondError(c, err, "Failed to get savings entries")
	}

	total, err := h.savingsService.TotalByUser(c.Context(), userID)
	if err != nil {
		return respondError(c, err, "Failed to get savings total")
	}

	return response.Success(c, "Savings entries retrieved successfully", fiber.Map{
		"entries":       entries,
		"total_savings": total,
	})
}
