package handlers

import (
	"savingsfund/internal/core/services"
	"savingsfund/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// GoalHandler handles a user's savings goals
type GoalHandler struct {
	goalService *services.GoalService
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(goalService *services.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

// ListGoals handles listing own goals
// @Summary List goals
// @Tags Goals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /goals [get]
func (h *GoalHandler) ListGoals(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	goals, err := h.goalService.List(c.Context(), userID)
	if err != nil {
		return respondError(c, err, "Failed to list goals")
	}

	return response.Success(c, "Goals retrieved successfully", fiber.Map{
		"goals": goals,
	})
}

// CreateGoal handles adding a goal
// @Summary Create goal
// @Tags Goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.GoalInput true "Goal"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /goals [post]
func (h *GoalHandler) CreateGoal(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.GoalInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	goal, err := h.goalService.Create(c.Context(), userID, &input)
	if err != nil {
		return respondError(c, err, "Failed to create goal")
	}

	return response.Created(c, "Goal created successfully", fiber.Map{
		"goal": goal,
	})
}

// UpdateGoal handles a partial goal update
// @Summary Update goal
// @Tags Goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Param body body services.GoalUpdate true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /goals/{id} [put]
func (h *GoalHandler) UpdateGoal(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.GoalUpdate
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	goal, err := h.goalService.Update(c.Context(), userID, c.Params("id"), &input)
	if err != nil {
		return respondError(c, err, "Failed to update goal")
	}

	return response.Success(c, "Goal updated successfully", fiber.Map{
		"goal": goal,
	})
}

// Contribute handles adding money to a goal
// @Summary Contribute to goal
// @Tags Goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Param body body services.PaymentInput true "Contribution"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /goals/{id}/contributions [post]
func (h *GoalHandler) Contribute(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.PaymentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	goal, err := h.goalService.Contribute(c.Context(), userID, c.Params("id"), &input)
	if err != nil {
		return respondError(c, err, "Failed to record contribution")
	}

	return response.Success(c, "Contribution recorded successfully", fiber.Map{
		"goal": goal,
	})
}

// DeleteGoal handles removing a goal
// @Summary Delete goal
// @Tags Goals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.goalService.Delete(c.Context(), userID, c.Params("id")); err != nil {
		return respondError(c, err, "Failed to delete goal")
	}

	return response.Success(c, "Goal deleted successfully", nil)
}
