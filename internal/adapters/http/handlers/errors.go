package handlers

import (
	"errors"
	"log"
	"strings"

	"savingsfund/internal/core/domain"
	"savingsfund/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// respondError maps a service error onto the API envelope.
// Unknown errors are logged and answered with fallback as a 500.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrDuplicateEmail):
		return response.Conflict(c, "Email already registered")
	case errors.Is(err, domain.ErrValidation):
		return response.BadRequest(c, validationMessage(err))
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, "Resource not found")
	case errors.Is(err, domain.ErrPermissionDenied):
		return response.Forbidden(c, "You don't have permission to perform this action")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return response.Unauthorized(c, "Invalid email or password")
	case errors.Is(err, domain.ErrUserInactive):
		return response.Forbidden(c, "User account is inactive")
	case errors.Is(err, domain.ErrTokenExpired):
		return response.Unauthorized(c, "Token expired, please login again")
	case errors.Is(err, domain.ErrTokenRevoked):
		return response.Unauthorized(c, "Token revoked, please login again")
	case errors.Is(err, domain.ErrTokenInvalid):
		return response.Unauthorized(c, "Invalid token")
	default:
		log.Printf("❌ %s: %v", fallback, err)
		return response.InternalServerError(c, fallback)
	}
}

// validationMessage strips the category prefix, "validation failed: amount
// must be greater than zero" becomes "Amount must be greater than zero"
func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), domain.ErrValidation.Error()+": ")
	if msg == "" {
		return "Validation failed"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// currentUserID returns the token subject set by the auth middleware
func currentUserID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals("userID").(string)
	return userID, ok && userID != ""
}
