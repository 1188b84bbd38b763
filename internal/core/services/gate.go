package services

import (
	"context"
	"errors"

	"savingsfund/internal/adapters/persistence/models"
	"savingsfund/internal/adapters/persistence/repositories"
	"savingsfund/internal/core/domain"

	"gorm.io/gorm"
)

// Gate is the single authorization check in front of every mutating
// operation. HTTP middleware may reject earlier, but the gate decides.
type Gate struct {
	users repositories.UserRepository
}

// NewGate creates a gate reading actors from the store
func NewGate(store *repositories.Store) *Gate {
	return &Gate{users: store.Users}
}

// Require loads the actor and checks it may use capability c. Missing or
// inactive actors are denied like any other actor lacking the capability.
func (g *Gate) Require(ctx context.Context, actorID string, c domain.Capability) (*models.User, error) {
	if actorID == "" {
		return nil, domain.ErrPermissionDenied
	}

	actor, err := g.users.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPermissionDenied
		}
		return nil, err
	}

	if !actor.IsActive || !domain.Role(actor.Role).Can(c) {
		return nil, domain.ErrPermissionDenied
	}
	return actor, nil
}
