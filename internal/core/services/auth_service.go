package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"savingsfund/internal/adapters/persistence/models"
	"savingsfund/internal/adapters/persistence/repositories"
	"savingsfund/internal/config"
	"savingsfund/internal/core/domain"
	"savingsfund/internal/pkg/jwt"
	"savingsfund/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthService handles authentication business logic
type AuthService struct {
	store *repositories.Store
	cfg   *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(store *repositories.Store, cfg *config.Config) *AuthService {
	return &AuthService{
		store: store,
		cfg:   cfg,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *models.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// Register registers a new user. The very first account becomes admin.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
	email := normalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.Invalidf("name is required")
	}

	// 1. Validate email and password
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if !password.ValidatePassword(input.Password) {
		return nil, domain.Invalid(domain.ErrPasswordTooShort)
	}

	// 2. Check if email already exists
	exists, err := s.store.Users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.Invalid(domain.ErrDuplicateEmail)
	}

	// 3. First user becomes admin
	count, err := s.store.Users.Count(ctx)
	if err != nil {
		return nil, err
	}
	role := domain.RoleMember
	if count == 0 {
		role = domain.RoleAdmin
	}

	// 4. Hash password
	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	// 5. Create user
	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hashedPassword,
		Role:         string(role),
		IsActive:     true,
	}
	if err := s.store.Users.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User registered: %s (role: %s)", user.Email, user.Role)

	return s.issue(ctx, user)
}

// Login authenticates a user
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	// 1. Find user by email
	user, err := s.store.Users.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Check if user is active
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	// 3. Verify password
	if !password.Verify(input.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	// 4. Accounts imported with the legacy hash move to bcrypt on first login
	if password.NeedsUpgrade(user.PasswordHash) {
		hashedPassword, err := password.Hash(input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashedPassword
		if err := s.store.Users.Update(ctx, user); err != nil {
			return nil, err
		}
		log.Printf("🔐 Upgraded legacy password hash for: %s", user.Email)
	}

	log.Printf("✅ User logged in: %s", user.Email)

	return s.issue(ctx, user)
}

// RefreshToken refreshes the access token using refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	// 1. Validate refresh token JWT
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	// 2. Find token in DB by its hash
	storedToken, err := s.store.RefreshTokens.GetByTokenHash(ctx, password.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenRevoked
		}
		return nil, err
	}

	// 3. Check if token is revoked or expired
	if storedToken.IsRevoked() {
		return nil, domain.ErrTokenRevoked
	}
	if storedToken.IsExpired() {
		return nil, domain.ErrTokenExpired
	}

	// 4. Get user
	user, err := s.store.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, notFound(err)
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	// 5. Revoke old refresh token (Token Rotation)
	if err := s.store.RefreshTokens.Revoke(ctx, storedToken.ID); err != nil {
		return nil, err
	}

	log.Printf("✅ Token refreshed for user: %s", user.Email)

	return s.issue(ctx, user)
}

// Logout revokes the refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.store.RefreshTokens.RevokeByTokenHash(ctx, password.HashToken(refreshToken)); err != nil {
		return err
	}

	log.Printf("✅ User logged out")
	return nil
}

// LogoutAll revokes all refresh tokens for a user
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	if err := s.store.RefreshTokens.RevokeAllByUserID(ctx, userID); err != nil {
		return err
	}

	log.Printf("✅ All sessions revoked for user ID: %s", userID)
	return nil
}

// ValidateAccessToken validates an access token
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	claims, err := jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

// CurrentUser returns the token subject with its ledger total
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.UserResponse, error) {
	user, err := s.store.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err)
	}
	if err := fillTotal(ctx, s.store, user); err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// IsAdmin reports whether userID is an active admin
func (s *AuthService) IsAdmin(ctx context.Context, userID string) bool {
	user, err := s.store.Users.GetByID(ctx, userID)
	if err != nil {
		return false
	}
	return user.IsActive && user.Role == string(domain.RoleAdmin)
}

// issue generates and stores a token pair for user
func (s *AuthService) issue(ctx context.Context, user *models.User) (*AuthResponse, error) {
	tokenID := uuid.New().String()
	tokens, err := s.generateTokens(user, tokenID)
	if err != nil {
		return nil, err
	}

	if err := s.storeRefreshToken(ctx, user.ID, tokenID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	if err := fillTotal(ctx, s.store, user); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// generateTokens generates access and refresh tokens
func (s *AuthService) generateTokens(user *models.User, tokenID string) (*TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		user.ID,
		user.Email,
		user.Role,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.GenerateRefreshToken(
		user.ID,
		tokenID,
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// storeRefreshToken stores a refresh token in the database
func (s *AuthService) storeRefreshToken(ctx context.Context, userID, tokenID, refreshToken string) error {
	token := &models.RefreshToken{
		ID:        tokenID,
		UserID:    userID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}

	return s.store.RefreshTokens.Create(ctx, token)
}

// PurgeExpiredTokens deletes refresh tokens past their expiry
func (s *AuthService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return s.store.RefreshTokens.DeleteExpired(ctx)
}
