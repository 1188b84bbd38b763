package services

import (
	"context"
	"log"
	"strings"

	"savingsfund/internal/adapters/persistence/models"
	"savingsfund/internal/adapters/persistence/repositories"
	"savingsfund/internal/config"
	"savingsfund/internal/core/domain"
	"savingsfund/internal/pkg/pagination"
	"savingsfund/internal/pkg/password"
)

// User service errors
var (
	ErrOldPasswordWrong    = domain.Invalidf("old password is incorrect")
	ErrCannotChangeOwnRole = domain.Invalidf("cannot change your own role or status")
)

// UserService handles user management business logic
type UserService struct {
	store *repositories.Store
	gate  *Gate
	cfg   *config.Config
}

// NewUserService creates a new user service
func NewUserService(store *repositories.Store, gate *Gate, cfg *config.Config) *UserService {
	return &UserService{
		store: store,
		gate:  gate,
		cfg:   cfg,
	}
}

// CreateUserInput represents admin user creation input
type CreateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"` // empty uses the fund's default password
	Role     string `json:"role"`     // empty means member
}

// UpdateUserInput is a partial update; nil fields are left unchanged
type UpdateUserInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// UpdateProfileInput represents update profile input (for self)
type UpdateProfileInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// ChangePasswordInput represents change password input
type ChangePasswordInput struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// MergeUserUpdate applies the non-nil fields of in to user after validating
// them. Email uniqueness is the caller's concern.
func MergeUserUpdate(user *models.User, in *UpdateUserInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return domain.Invalidf("name is required")
		}
		user.Name = name
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if err := validateEmail(email); err != nil {
			return err
		}
		user.Email = email
	}
	if in.Role != nil {
		if !domain.Role(*in.Role).IsValid() {
			return domain.Invalid(domain.ErrInvalidRole)
		}
		user.Role = *in.Role
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	return nil
}

// CreateUser creates a user on behalf of an admin
func (s *UserService) CreateUser(ctx context.Context, actorID string, input *CreateUserInput) (*models.UserResponse, error) {
	if _, err := s.gate.Require(ctx, actorID, domain.CapUserManage); err != nil {
		return nil, err
	}

	role := domain.RoleMember
	if input.Role != "" {
		role = domain.Role(input.Role)
		if !role.IsValid() {
			return nil, domain.Invalid(domain.ErrInvalidRole)
		}
	}

	plain := input.Password
	if plain == "" {
		plain = s.cfg.Fund.ImportDefaultPassword
	}

	user, err := createUser(ctx, s.store.Users, input.Name, input.Email, plain, role)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User created by %s: %s", actorID, user.Email)
	return user.ToResponse(), nil
}

// createUser validates and inserts a user with a bcrypt hash
func createUser(ctx context.Context, users repositories.UserRepository, name, email, plain string, role domain.Role) (*models.User, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Invalidf("name is required")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if !password.ValidatePassword(plain) {
		return nil, domain.Invalid(domain.ErrPasswordTooShort)
	}

	exists, err := users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.Invalid(domain.ErrDuplicateEmail)
	}

	hashedPassword, err := password.Hash(plain)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hashedPassword,
		Role:         string(role),
		IsActive:     true,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers lists users with pagination
func (s *UserService) ListUsers(ctx context.Context, params *pagination.Params) ([]*models.UserResponse, int64, error) {
	users, total, err := s.store.Users.List(ctx, params.Offset, params.Limit)
	if err != nil {
		return nil, 0, err
	}

	if err := fillTotals(ctx, s.store, users); err != nil {
		return nil, 0, err
	}

	userResponses := make([]*models.UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = user.ToResponse()
	}
	return userResponses, total, nil
}

// GetUserByID gets a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.UserResponse, error) {
	user, err := s.store.Users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if err := fillTotal(ctx, s.store, user); err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// UpdateUser updates a user by admin
func (s *UserService) UpdateUser(ctx context.Context, actorID, id string, input *UpdateUserInput) (*models.UserResponse, error) {
	if _, err := s.gate.Require(ctx, actorID, domain.CapUserManage); err != nil {
		return nil, err
	}

	user, err := s.store.Users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	// Prevent admin from demoting or deactivating themselves
	if id == actorID && (input.Role != nil || input.IsActive != nil) {
		return nil, ErrCannotChangeOwnRole
	}

	if err := s.checkEmailFree(ctx, user, input.Email); err != nil {
		return nil, err
	}
	if err := MergeUserUpdate(user, input); err != nil {
		return nil, err
	}

	if err := s.store.Users.Update(ctx, user); err != nil {
		return nil, err
	}
	if err := fillTotal(ctx, s.store, user); err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// DeleteUser deletes a non-admin user and everything the user owns, in one
// transaction. Admin accounts cannot be deleted.
func (s *UserService) DeleteUser(ctx context.Context, actorID, id string) error {
	if _, err := s.gate.Require(ctx, actorID, domain.CapUserManage); err != nil {
		return err
	}

	user, err := s.store.Users.GetByID(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if user.Role == string(domain.RoleAdmin) {
		return domain.Invalid(domain.ErrCannotDeleteAdmin)
	}

	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := tx.Entries.DeleteByUserID(ctx, id); err != nil {
			return err
		}
		if err := tx.Loans.DeleteByUserID(ctx, id); err != nil {
			return err
		}
		if err := tx.Debts.DeleteByUserID(ctx, id); err != nil {
			return err
		}
		if err := tx.Goals.DeleteByUserID(ctx, id); err != nil {
			return err
		}
		if err := tx.Settings.DeleteByUserID(ctx, id); err != nil {
			return err
		}
		if err := tx.RefreshTokens.DeleteByUserID(ctx, id); err != nil {
			return err
		}
		return tx.Users.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	log.Printf("🗑️ User deleted by %s: %s", actorID, user.Email)
	return nil
}

// GetProfile gets own profile
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.UserResponse, error) {
	return s.GetUserByID(ctx, userID)
}

// UpdateProfile updates own profile
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input *UpdateProfileInput) (*models.UserResponse, error) {
	user, err := s.gate.Require(ctx, userID, domain.CapSelfWrite)
	if err != nil {
		return nil, err
	}

	if err := s.checkEmailFree(ctx, user, input.Email); err != nil {
		return nil, err
	}
	if err := MergeUserUpdate(user, &UpdateUserInput{Name: input.Name, Email: input.Email}); err != nil {
		return nil, err
	}

	if err := s.store.Users.Update(ctx, user); err != nil {
		return nil, err
	}
	if err := fillTotal(ctx, s.store, user); err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// ChangePassword changes user's password
func (s *UserService) ChangePassword(ctx context.Context, userID string, input *ChangePasswordInput) error {
	user, err := s.gate.Require(ctx, userID, domain.CapSelfWrite)
	if err != nil {
		return err
	}

	// Verify old password
	if !password.Verify(input.OldPassword, user.PasswordHash) {
		return ErrOldPasswordWrong
	}

	// Validate new password
	if !password.ValidatePassword(input.NewPassword) {
		return domain.Invalid(domain.ErrPasswordTooShort)
	}

	hashedPassword, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hashedPassword
	return s.store.Users.Update(ctx, user)
}

// checkEmailFree rejects an email change to an address another user holds
func (s *UserService) checkEmailFree(ctx context.Context, user *models.User, email *string) error {
	if email == nil {
		return nil
	}
	normalized := normalizeEmail(*email)
	if normalized == user.Email {
		return nil
	}
	exists, err := s.store.Users.ExistsByEmail(ctx, normalized)
	if err != nil {
		return err
	}
	if exists {
		return domain.Invalid(domain.ErrDuplicateEmail)
	}
	return nil
}

// fillTotal sets user.TotalSavings from the ledger
func fillTotal(ctx context.Context, store *repositories.Store, user *models.User) error {
	total, err := store.Entries.SumByUserID(ctx, user.ID)
	if err != nil {
		return err
	}
	user.TotalSavings = total
	return nil
}

// fillTotals sets TotalSavings on every user with one ledger scan
func fillTotals(ctx context.Context, store *repositories.Store, users []*models.User) error {
	sums, err := store.Entries.SumsByUser(ctx)
	if err != nil {
		return err
	}
	for _, user := range users {
		user.TotalSavings = sums[user.ID]
	}
	return nil
}
