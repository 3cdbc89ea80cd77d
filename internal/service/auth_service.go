package service

import (
	"context"
	"errors"
	"regexp"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/cms-service/internal/auth"
	"github.com/spec-kit/cms-service/internal/config"
	"github.com/spec-kit/cms-service/internal/domain"
	"github.com/spec-kit/cms-service/internal/events"
	"github.com/spec-kit/cms-service/internal/repository"
	"github.com/spec-kit/cms-service/internal/storage"
	"github.com/spec-kit/cms-service/pkg/envelope"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// AuthService coordinates registration, login and profile flows.
type AuthService struct {
	users      repository.UserRepository
	store      ObjectStorage
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	bcryptCost int
	maxUpload  int64
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Storage    ObjectStorage
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		store:      deps.Storage,
		dispatcher: deps.Dispatcher,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		maxUpload:  cfg.Storage.MaxUploadBytes(),
	}
}

// TokenManager exposes the credential codec for the access gate.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Register creates a new admin account and returns it with a fresh token.
// Email uniqueness is enforced by the storage layer; a collision surfaces as
// a conflict.
func (s *AuthService) Register(ctx context.Context, fullName, email, password string) (*domain.User, string, error) {
	if !emailPattern.MatchString(email) {
		return nil, "", envelope.NewValidation("Please enter a valid email", nil)
	}
	if err := validatePassword(password); err != nil {
		return nil, "", err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		FullName:     fullName,
		EmailAddress: email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", envelope.NewConflict("Email already registered", nil)
		}
		return nil, "", err
	}

	token, _, err := s.tokenMgr.GenerateToken(user.ID, user.EmailAddress)
	if err != nil {
		return nil, "", err
	}

	s.publish(ctx, events.EventUserRegistered, events.UserRegisteredPayload{
		UserID:       user.ID,
		EmailAddress: user.EmailAddress,
	})
	return user, token, nil
}

// Login authenticates an admin and returns a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", envelope.NewInvalidCredential("User not found")
		}
		return nil, "", err
	}
	if !user.IsActive {
		return nil, "", envelope.NewInvalidCredential("User not found")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", envelope.NewInvalidCredential("Invalid credentials")
	}

	token, _, err := s.tokenMgr.GenerateToken(user.ID, user.EmailAddress)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// CurrentUser loads the authenticated identity's record.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, envelope.NewNotFound("User not found", nil)
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies a partial profile update. When a new picture is
// uploaded the previous one is released from the bucket.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, patch domain.UserPatch, picture *FileUpload) (*domain.User, error) {
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var replacedKey string
	if picture != nil {
		key, err := uploadImage(ctx, s.store, picture, storage.PathProfilePictures, false, s.maxUpload)
		if err != nil {
			return nil, err
		}
		if user.ProfilePhoto != nil {
			replacedKey = *user.ProfilePhoto
		}
		user.ProfilePhoto = &key
	}
	if patch.FullName != nil {
		user.FullName = *patch.FullName
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	if replacedKey != "" {
		_ = s.store.Delete(ctx, replacedKey)
		s.publish(ctx, events.EventAssetReleased, events.AssetReleasedPayload{Resource: "user", Key: replacedKey})
	}
	return user, nil
}

// ResetPassword sets a new password for the authenticated identity.
func (s *AuthService) ResetPassword(ctx context.Context, userID, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.publish(ctx, events.EventPasswordChanged, events.PasswordChangedPayload{
		UserID:       user.ID,
		EmailAddress: user.EmailAddress,
	})
	return nil
}

// SignedURL resolves a storage key to either its stable public URL or a
// time-limited signed URL.
func (s *AuthService) SignedURL(ctx context.Context, key, visibility string) (string, error) {
	if visibility == "public" {
		return s.store.PublicURL(key), nil
	}
	return s.store.SignedURL(ctx, key)
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

// validatePassword enforces the account password policy: 8-40 characters
// with at least one lowercase letter, one uppercase letter and one digit.
func validatePassword(password string) error {
	if len(password) < 8 || len(password) > 40 {
		return envelope.NewValidation("Password must be between 8 and 40 characters", nil)
	}
	var hasLower, hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLower || !hasUpper || !hasDigit {
		return envelope.NewValidation("Password must contain at least one uppercase letter, one lowercase letter and one number", nil)
	}
	return nil
}
