package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cms-service/internal/api/dto"
	"github.com/spec-kit/cms-service/internal/auth"
	"github.com/spec-kit/cms-service/internal/domain"
	"github.com/spec-kit/cms-service/internal/service"
	"github.com/spec-kit/cms-service/pkg/envelope"
)

const (
	msgUserRegistered     = "User registered successfully"
	msgUserLoggedIn       = "User logged in successfully"
	msgUserDetailsFetched = "User details fetched successfully"
	msgProfileUpdated     = "Profile updated successfully"
	msgPasswordUpdated    = "Password updated successfully"
	msgSignedURLGenerated = "Signed URL generated successfully"
	msgInvalidCredentials = "Invalid credentials"
	msgInvalidPath        = "Invalid path"
)

// AuthHandler manages signup, login and profile endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Signup POST /auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return envelope.NewValidation(msgMissingField, nil)
	}
	if req.EmailAddress == "" || req.Password == "" {
		return envelope.NewValidation(msgMissingField, nil)
	}

	user, token, err := h.service.Register(c.Context(), req.FullName, req.EmailAddress, req.Password)
	if err != nil {
		return err
	}
	return envelope.Success(c, dto.AuthResponse{
		User:        userResponse(user),
		AccessToken: token,
	}, msgUserRegistered, http.StatusCreated)
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return envelope.NewValidation(msgInvalidCredentials, nil)
	}
	if req.EmailAddress == "" || req.Password == "" {
		return envelope.NewValidation(msgInvalidCredentials, nil)
	}

	user, token, err := h.service.Login(c.Context(), req.EmailAddress, req.Password)
	if err != nil {
		return err
	}
	return envelope.Success(c, dto.AuthResponse{
		User:        userResponse(user),
		AccessToken: token,
	}, msgUserLoggedIn, http.StatusOK)
}

// GetUser GET /auth/user.
func (h *AuthHandler) GetUser(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return envelope.NewMissingCredential(auth.MsgNoTokenProvided)
	}

	user, err := h.service.CurrentUser(c.Context(), claims.SubjectID)
	if err != nil {
		return err
	}
	return envelope.Success(c, fiber.Map{"user": userResponse(user)}, msgUserDetailsFetched, http.StatusOK)
}

// EditProfile PATCH /auth/edit-profile.
func (h *AuthHandler) EditProfile(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return envelope.NewMissingCredential(auth.MsgNoTokenProvided)
	}

	picture, closePicture, err := formFile(c, "profilePicture")
	if err != nil {
		return err
	}
	if closePicture != nil {
		defer closePicture()
	}

	patch := domain.UserPatch{FullName: optional(c.FormValue("fullName"))}
	user, err := h.service.UpdateProfile(c.Context(), claims.SubjectID, patch, picture)
	if err != nil {
		return err
	}
	return envelope.Success(c, fiber.Map{"user": userResponse(user)}, msgProfileUpdated, http.StatusOK)
}

// ResetPassword POST /auth/reset-password. The identity comes from the
// access gate, never from the request body.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return envelope.NewMissingCredential(auth.MsgNoTokenProvided)
	}

	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return envelope.NewValidation(msgMissingField, nil)
	}
	if req.Password == "" {
		return envelope.NewValidation(msgMissingField, nil)
	}

	if err := h.service.ResetPassword(c.Context(), claims.SubjectID, req.Password); err != nil {
		return err
	}
	return envelope.Success(c, fiber.Map{}, msgPasswordUpdated, http.StatusOK)
}

// SignedURL GET /auth/signed-url.
func (h *AuthHandler) SignedURL(c *fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return envelope.NewValidation(msgInvalidPath, nil)
	}

	url, err := h.service.SignedURL(c.Context(), path, c.Query("type", "private"))
	if err != nil {
		return err
	}
	return envelope.Success(c, url, msgSignedURLGenerated, http.StatusOK)
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:           user.ID,
		FullName:     user.FullName,
		EmailAddress: user.EmailAddress,
		ProfilePhoto: user.ProfilePhoto,
	}
}
