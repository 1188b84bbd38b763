package handlers

import (
	"bytes"
	"io"
	"log"

	"savingsfund/internal/core/services"
	"savingsfund/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// TransferHandler handles CSV export/import and legacy snapshot import
type TransferHandler struct {
	transferService *services.TransferService
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(transferService *services.TransferService) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
	}
}

// ExportMembers handles the members CSV download (Admin only)
// @Summary Export members
// @Tags Transfer
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file
// @Router /transfer/members.csv [get]
func (h *TransferHandler) ExportMembers(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.transferService.ExportMembers(c.Context(), &buf); err != nil {
		return respondError(c, err, "Failed to export members")
	}
	return response.CSV(c, "members.csv", buf.Bytes())
}

// ExportEntries handles the ledger CSV download (Admin only)
// @Summary Export savings entries
// @Tags Transfer
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file
// @Router /transfer/entries.csv [get]
func (h *TransferHandler) ExportEntries(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.transferService.ExportEntries(c.Context(), &buf); err != nil {
		return respondError(c, err, "Failed to export savings entries")
	}
	return response.CSV(c, "entries.csv", buf.Bytes())
}

// ImportMembers handles a members CSV upload (Admin only)
// @Summary Import members
// @Description Create a member per CSV row. Accepts a multipart "file" field or a raw text/csv body. Bad rows are skipped and reported (Admin only)
// @Tags Transfer
// @Accept multipart/form-data
// @Accept text/csv
// @Produce json
// @Security BearerAuth
// @Param file formData file false "Members CSV"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /transfer/members [post]
func (h *TransferHandler) ImportMembers(c *fiber.Ctx) error {
	adminID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	body, err := uploadOf(c)
	if err != nil {
		return response.BadRequest(c, "Invalid upload")
	}
	defer body.Close()

	result, err := h.transferService.ImportMembers(c.Context(), adminID, body)
	if err != nil {
		return respondError(c, err, "Failed to import members")
	}

	log.Printf("📥 Members import: %d imported, %d failed", result.Imported, result.Failed)
	return response.Success(c, "Members imported", result)
}

// ImportLegacy handles a legacy storage snapshot upload (Admin only)
// @Summary Import legacy snapshot
// @Description Load users, entries and loans from a JSON dump of the old application's storage (Admin only)
// @Tags Transfer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /transfer/legacy [post]
func (h *TransferHandler) ImportLegacy(c *fiber.Ctx) error {
	adminID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	body, err := uploadOf(c)
	if err != nil {
		return response.BadRequest(c, "Invalid upload")
	}
	defer body.Close()

	result, err := h.transferService.ImportLegacy(c.Context(), adminID, body)
	if err != nil {
		return respondError(c, err, "Failed to import legacy snapshot")
	}

	return response.Success(c, "Legacy snapshot imported", result)
}

// uploadOf returns the multipart "file" field when present, else the raw body
func uploadOf(c *fiber.Ctx) (io.ReadCloser, error) {
	if fh, err := c.FormFile("file"); err == nil {
		return fh.Open()
	}
	return io.NopCloser(bytes.NewReader(c.Body())), nil
}
