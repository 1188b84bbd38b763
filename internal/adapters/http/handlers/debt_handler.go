package handlers

import (
	"savingsfund/internal/core/services"
	"savingsfund/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DebtHandler handles a user's personal debts
type DebtHandler struct {
	debtService *services.DebtService
}

// NewDebtHandler creates a new debt handler
func NewDebtHandler(debtService *services.DebtService) *DebtHandler {
	return &DebtHandler{
		debtService: debtService,
	}
}

// ListDebts handles listing own debts
// @Summary List debts
// @Description Get the current user's debts with progress, status and payoff estimate
// @Tags Debts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /debts [get]
func (h *DebtHandler) ListDebts(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	debts, err := h.debtService.List(c.Context(), userID)
	if err != nil {
		return respondError(c, err, "Failed to list debts")
	}

	return response.Success(c, "Debts retrieved successfully", fiber.Map{
		"debts": debts,
	})
}

// CreateDebt handles adding a debt
// @Summary Create debt
// @Tags Debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.DebtInput true "Debt"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /debts [post]
func (h *DebtHandler) CreateDebt(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.DebtInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	debt, err := h.debtService.Create(c.Context(), userID, &input)
	if err != nil {
		return respondError(c, err, "Failed to create debt")
	}

	return response.Created(c, "Debt created successfully", fiber.Map{
		"debt": debt,
	})
}

// UpdateDebt handles a partial debt update
// @Summary Update debt
// @Tags Debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Debt ID"
// @Param body body services.DebtUpdate true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /debts/{id} [put]
func (h *DebtHandler) UpdateDebt(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.DebtUpdate
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	debt, err := h.debtService.Update(c.Context(), userID, c.Params("id"), &input)
	if err != nil {
		return respondError(c, err, "Failed to update debt")
	}

	return response.Success(c, "Debt updated successfully", fiber.Map{
		"debt": debt,
	})
}

// PayDebt handles a payment against a debt
// @Summary Pay debt
// @Tags Debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Debt ID"
// @Param body body services.PaymentInput true "Payment"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /debts/{id}/payments [post]
func (h *DebtHandler) PayDebt(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.PaymentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	debt, err := h.debtService.Pay(c.Context(), userID, c.Params("id"), &input)
	if err != nil {
		return respondError(c, err, "Failed to record debt payment")
	}

	return response.Success(c, "Debt payment recorded successfully", fiber.Map{
		"debt": debt,
	})
}

// DeleteDebt handles removing a debt
// @Summary Delete debt
// @Tags Debts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Debt ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /debts/{id} [delete]
func (h *DebtHandler) DeleteDebt(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.debtService.Delete(c.Context(), userID, c.Params("id")); err != nil {
		return respondError(c, err, "Failed to delete debt")
	}

	return response.Success(c, "Debt deleted successfully", nil)
}
