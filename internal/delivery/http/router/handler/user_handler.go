// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"agrilink/internal/delivery/http/middleware"
	"agrilink/internal/delivery/http/response"
	"agrilink/internal/domain/entity"
	domainerrors "agrilink/internal/domain/errors"
	"agrilink/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UserHandler holds dependencies for authentication and session handlers.
type UserHandler struct {
	userUsecase usecase.UserUsecase
	roleUsecase usecase.RoleUsecase
	logger      *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(userUsecase usecase.UserUsecase, roleUsecase usecase.RoleUsecase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		roleUsecase: roleUsecase,
		logger:      logger,
	}
}

// --- Request / Response DTOs ---

type registerRequest struct {
	FullName string `json:"full_name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Language string `json:"language"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type googleSignInRequest struct {
	IDToken string `json:"id_token" validate:"required"`
	Role    string `json:"role"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type selectRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type userResponse struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
	Language string    `json:"language"`
}

type authResponse struct {
	AccessToken    string       `json:"access_token"`
	RefreshToken   string       `json:"refresh_token"`
	User           userResponse `json:"user"`
	Role           string       `json:"role"`
	RoleResolved   bool         `json:"role_resolved"`
	ProfileCreated bool         `json:"profile_created"`
}

func toAuthResponse(output *usecase.AuthOutput) authResponse {
	return authResponse{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
		User: userResponse{
			ID:       output.User.ID,
			Email:    output.User.Email,
			FullName: output.User.FullName,
			Role:     output.User.UserType.String(),
			Language: output.User.Language,
		},
		Role:           output.Role.String(),
		RoleResolved:   output.RoleResolved,
		ProfileCreated: output.ProfileCreated,
	}
}

// Register handles the email/password registration request.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.userUsecase.Register(c.Request().Context(), usecase.RegisterInput{
		FullName:      req.FullName,
		Email:         req.Email,
		Password:      req.Password,
		Language:      req.Language,
		RequestedRole: req.Role,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toAuthResponse(output), "User registered successfully")
}

// Login handles the email/password login request.
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.userUsecase.Login(c.Request().Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAuthResponse(output), "Login successful")
}

// GoogleSignIn handles the Google ID token sign-in request.
func (h *UserHandler) GoogleSignIn(c echo.Context) error {
	var req googleSignInRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid Google sign-in input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.userUsecase.GoogleSignIn(c.Request().Context(), usecase.GoogleSignInInput{
		IDToken:       req.IDToken,
		RequestedRole: req.Role,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAuthResponse(output), "Google sign-in successful")
}

// Refresh handles the token refresh request.
func (h *UserHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid refresh token input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.userUsecase.Refresh(c.Request().Context(), usecase.RefreshInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAuthResponse(output), "Token refreshed successfully")
}

// Logout handles the logout request, ending one session.
func (h *UserHandler) Logout(c echo.Context) error {
	var req logoutRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid logout input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	if err := h.userUsecase.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Logout successful")
}

// LogoutAll ends every session of the authenticated user.
func (h *UserHandler) LogoutAll(c echo.Context) error {
	userID, ok := c.Get(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	if err := h.userUsecase.LogoutAll(c.Request().Context(), userID.String()); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "All sessions terminated")
}

// SelectRole records the role the user picked after an unresolved sign-in.
func (h *UserHandler) SelectRole(c echo.Context) error {
	userID, ok := c.Get(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req selectRoleRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid role selection input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	role, valid := entity.ParseRole(req.Role)
	if !valid {
		return errors.WithStack(domainerrors.ErrInvalidRole.WithDetails("unknown role: " + req.Role))
	}

	if err := h.roleUsecase.SelectRole(c.Request().Context(), userID, role); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"role": role.String()}, "Role selected")
}
