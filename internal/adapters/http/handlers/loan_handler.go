package handlers

import (
	"strconv"

	"savingsfund/internal/core/services"
	"savingsfund/internal/pkg/pagination"
	"savingsfund/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Loan analysis defaults when the query string leaves them out
const (
	defaultLoanPercentage = "80"
	defaultAnalysisTerm   = 12
)

// LoanHandler handles the loan book
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
	}
}

// ListLoans handles listing loans (Admin only)
// @Summary List loans
// @Description Page through loans newest first, optionally filtered by status (Admin only)
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param status query string false "active, paid or defaulted"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /loans [get]
func (h *LoanHandler) ListLoans(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	loans, total, err := h.loanService.ListLoans(c.Context(), params, c.Query("status"))
	if err != nil {
		return respondError(c, err, "Failed to list loans")
	}

	return response.Paginated(c, "Loans retrieved successfully", loans, params, total)
}

// CreateLoan handles granting a loan (Admin only)
// @Summary Create loan
// @Description Grant a flat-rate loan to a member (Admin only)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateLoanInput true "Loan terms"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans [post]
func (h *LoanHandler) CreateLoan(c *fiber.Ctx) error {
	adminID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateLoanInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.UserID == "" {
		return response.BadRequest(c, "User ID is required")
	}

	loan, err := h.loanService.CreateLoan(c.Context(), adminID, &input)
	if err != nil {
		return respondError(c, err, "Failed to create loan")
	}

	return response.Created(c, "Loan created successfully", fiber.Map{
		"loan": loan,
	})
}

// GetLoan handles getting a loan with its plan (Admin only)
// @Summary Get loan
// @Description Get a loan with its quote and installment schedule (Admin only)
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [get]
func (h *LoanHandler) GetLoan(c *fiber.Ctx) error {
	detail, err := h.loanService.GetLoan(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to get loan")
	}

	return response.Success(c, "Loan retrieved successfully", fiber.Map{
		"loan": detail,
	})
}

// Schedule handles getting only the installment plan (Admin only)
// @Summary Loan schedule
// @Description Get a loan's installment schedule (Admin only)
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/schedule [get]
func (h *LoanHandler) Schedule(c *fiber.Ctx) error {
	detail, err := h.loanService.GetLoan(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to get loan schedule")
	}

	return response.Success(c, "Loan schedule retrieved successfully", fiber.Map{
		"schedule": detail.Schedule,
	})
}

// DeleteLoan handles deleting a loan (Admin only)
// @Summary Delete loan
// @Description Permanently delete a loan (Admin only)
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [delete]
func (h *LoanHandler) DeleteLoan(c *fiber.Ctx) error {
	adminID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.loanService.DeleteLoan(c.Context(), adminID, c.Params("id")); err != nil {
		return respondError(c, err, "Failed to delete loan")
	}

	return response.Success(c, "Loan deleted successfully", nil)
}

// MakePayment handles a repayment (Admin only)
// @Summary Record loan payment
// @Description Reduce the remaining balance. The loan becomes paid when it reaches zero (Admin only)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Param body body services.PaymentInput true "Payment"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/payments [post]
func (h *LoanHandler) MakePayment(c *fiber.Ctx) error {
	adminID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.PaymentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.loanService.MakePayment(c.Context(), adminID, c.Params("id"), &input)
	if err != nil {
		return respondError(c, err, "Failed to record payment")
	}

	return response.Success(c, "Payment recorded successfully", fiber.Map{
		"loan": loan,
	})
}

// UpdateStatus handles a manual status change (Admin only)
// @Summary Update loan status
// @Description Set a loan to active, paid or defaulted (Admin only)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Param body body services.StatusInput true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/status [put]
func (h *LoanHandler) UpdateStatus(c *fiber.Ctx) error {
	adminID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.StatusInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.loanService.UpdateStatus(c.Context(), adminID, c.Params("id"), &input)
	if err != nil {
		return respondError(c, err, "Failed to update loan status")
	}

	return response.Success(c, "Loan status updated successfully", fiber.Map{
		"loan": loan,
	})
}

// Statistics handles loan book totals (Admin only)
// @Summary Loan statistics
// @Description Totals over every loan (Admin only)
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /loans/statistics [get]
func (h *LoanHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.loanService.Statistics(c.Context())
	if err != nil {
		return respondError(c, err, "Failed to get loan statistics")
	}

	return response.Success(c, "Loan statistics retrieved successfully", stats)
}

// Quote handles a loan simulation (Admin only)
// @Summary Quote loan
// @Description Simulate a flat-rate loan without saving it (Admin only)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.QuoteInput true "Loan terms"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /loans/quote [post]
func (h *LoanHandler) Quote(c *fiber.Ctx) error {
	var input services.QuoteInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	quote, err := h.loanService.Quote(&input)
	if err != nil {
		return respondError(c, err, "Failed to quote loan")
	}

	return response.Success(c, "Loan quoted successfully", quote)
}

// Analyze handles sizing a loan against a member's savings (Admin only)
// @Summary Loan analysis
// @Description Maximum loan, recommended share and payment capacity for a member (Admin only)
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Param percentage query number false "Share of savings to lend" default(80)
// @Param rate query number false "Flat monthly interest rate in percent" default(0)
// @Param term query int false "Term in months" default(12)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/analysis/{userId} [get]
func (h *LoanHandler) Analyze(c *fiber.Ctx) error {
	percentage, err := decimal.NewFromString(c.Query("percentage", defaultLoanPercentage))
	if err != nil {
		return response.BadRequest(c, "Invalid percentage")
	}
	rate, err := decimal.NewFromString(c.Query("rate", "0"))
	if err != nil {
		return response.BadRequest(c, "Invalid interest rate")
	}
	term, err := strconv.Atoi(c.Query("term", strconv.Itoa(defaultAnalysisTerm)))
	if err != nil {
		return response.BadRequest(c, "Invalid term")
	}

	analysis, err := h.loanService.Analyze(c.Context(), c.Params("userId"), percentage, rate, term)
	if err != nil {
		return respondError(c, err, "Failed to analyze loan")
	}

	return response.Success(c, "Loan analysis completed successfully", analysis)
}

// MyLoans handles listing the caller's own loans
// @Summary List own loans
// @Description Get the current user's loans
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /loans/me [get]
func (h *LoanHandler) MyLoans(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	loans, err := h.loanService.LoansByUser(c.Context(), userID)
	if err != nil {
		return respondError(c, err, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved successfully", fiber.Map{
		"loans": loans,
	})
}
