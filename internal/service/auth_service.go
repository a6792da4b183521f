package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Thanhbi2612/Dreamlens/internal/dto"
	"github.com/Thanhbi2612/Dreamlens/internal/errs"
	"github.com/Thanhbi2612/Dreamlens/internal/models"
	"github.com/Thanhbi2612/Dreamlens/internal/repository"
	"github.com/Thanhbi2612/Dreamlens/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	msgBadCredentials = "Incorrect email/username or password"
	msgInactiveUser   = "Inactive user"
	msgBadToken       = "Could not validate credentials"
	maxUsernameLength = 100
)

// GoogleUserInfo profile returned by Google's userinfo endpoint
type GoogleUserInfo struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// AuthService registration, login and token authentication
type AuthService struct {
	userRepo   *repository.UserRepository
	jwtManager *utils.JWTManager
	logger     logrus.FieldLogger
}

// NewAuthService creates the auth service
func NewAuthService(userRepo *repository.UserRepository, jwtManager *utils.JWTManager, logger logrus.FieldLogger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		logger:     logger.WithField("component", "auth_service"),
	}
}

// Register creates a local account
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, errs.Conflict("email", "Email already registered")
	}

	exists, err = s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, errs.Conflict("username", "Username already taken")
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:          req.Email,
		Username:       req.Username,
		HashedPassword: &hashedPassword,
		AuthProvider:   models.AuthProviderLocal,
		FullName:       req.FullName,
		IsActive:       true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.Conflict("email", "Email or username already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Info("user registered")
	return user, nil
}

// Login authenticates by email or username and issues an access token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByIdentifier(ctx, req.Identifier)
	if errs.IsNotFound(err) {
		return nil, errs.Auth(msgBadCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !user.HasPassword() || utils.CheckPassword(req.Password, *user.HashedPassword) != nil {
		return nil, errs.Auth(msgBadCredentials)
	}

	if !user.IsActive {
		return nil, errs.Validation(msgInactiveUser)
	}

	return s.NewLoginResponse(user)
}

// NewLoginResponse issues a token for user
func (s *AuthService) NewLoginResponse(user *models.User) (*dto.LoginResponse, error) {
	token, err := s.jwtManager.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        dto.NewUserInfo(user),
	}, nil
}

// Authenticate resolves a bearer token to an active user
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		return nil, errs.Auth(msgBadToken)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if errs.IsNotFound(err) {
		return nil, errs.Auth(msgBadToken)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !user.IsActive {
		return nil, errs.Validation(msgInactiveUser)
	}
	return user, nil
}

// GetMe returns the profile of userID
func (s *AuthService) GetMe(ctx context.Context, userID uint) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := dto.NewUserInfo(user)
	return &info, nil
}

// GetOrCreateGoogleUser finds the account of a Google profile, linking an
// existing account with the same email or creating a new one.
func (s *AuthService) GetOrCreateGoogleUser(ctx context.Context, info *GoogleUserInfo) (*models.User, error) {
	if info.Sub == "" || info.Email == "" {
		return nil, errs.Validation("Google profile is missing id or email")
	}
	picture := optionalString(info.Picture)

	user, err := s.userRepo.GetByGoogleID(ctx, info.Sub)
	if err == nil {
		if !equalOptional(user.AvatarURL, picture) {
			user.AvatarURL = picture
			if err := s.userRepo.Save(ctx, user); err != nil {
				return nil, fmt.Errorf("update avatar: %w", err)
			}
		}
		return user, nil
	}
	if !errs.IsNotFound(err) {
		return nil, fmt.Errorf("get user by google id: %w", err)
	}

	user, err = s.userRepo.GetByEmail(ctx, info.Email)
	if err == nil {
		user.GoogleID = &info.Sub
		user.AuthProvider = models.AuthProviderGoogle
		user.AvatarURL = picture
		user.IsVerified = true
		if err := s.userRepo.Save(ctx, user); err != nil {
			return nil, fmt.Errorf("link google account: %w", err)
		}
		s.logger.WithField("user_id", user.ID).Info("google account linked")
		return user, nil
	}
	if !errs.IsNotFound(err) {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	username, err := s.uniqueUsername(ctx, usernameFromEmail(info.Email))
	if err != nil {
		return nil, err
	}

	googleID := info.Sub
	user = &models.User{
		Email:        info.Email,
		Username:     username,
		GoogleID:     &googleID,
		AuthProvider: models.AuthProviderGoogle,
		FullName:     optionalString(info.Name),
		AvatarURL:    picture,
		IsActive:     true,
		IsVerified:   true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create google user: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Info("google user created")
	return user, nil
}

// uniqueUsername appends 1, 2, ... to base until the name is free
func (s *AuthService) uniqueUsername(ctx context.Context, base string) (string, error) {
	candidate := base
	for i := 1; ; i++ {
		exists, err := s.userRepo.ExistsByUsername(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check username: %w", err)
		}
		if !exists {
			return candidate, nil
		}

		suffix := strconv.Itoa(i)
		trimmed := base
		if len(trimmed)+len(suffix) > maxUsernameLength {
			trimmed = trimmed[:maxUsernameLength-len(suffix)]
		}
		candidate = trimmed + suffix
	}
}

func usernameFromEmail(email string) string {
	local := email
	if at := strings.Index(email, "@"); at >= 0 {
		local = email[:at]
	}
	if local == "" {
		local = "user"
	}
	if len(local) > maxUsernameLength {
		local = local[:maxUsernameLength]
	}
	return local
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
