package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/voicify/voicify-api/internal/core/domain"
	"github.com/voicify/voicify-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token,omitempty"`
	User    *domain.User `json:"user,omitempty"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Register creates a new account and returns a session token.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return domain.NewValidationError(err.Error())
	}

	token, user, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Success: true, Token: token, User: user})
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		// A malformed login attempt gets the same answer as a wrong
		// password; the shape must not reveal which field failed.
		return domain.ErrInvalidCredentials
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Success: true, Token: token, User: user})
}

// Me returns the authenticated caller's profile.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  authResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Me(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Success: true, User: user})
}

// ForgotPassword issues a reset secret and emails it to the account
// holder. The response is identical whether or not the email exists.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return domain.NewValidationError(err.Error())
	}

	if err := h.authService.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{
		Success: true,
		Message: "If that email is registered, a reset link has been sent",
	})
}

// ResetPassword consumes a reset secret and sets a new password.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token  path      string                true  "Reset secret from the emailed link"
// @Param        body   body      resetPasswordRequest  true  "New password"
// @Success      200    {object}  messageResponse
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /api/auth/reset-password/{token} [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return domain.NewValidationError(err.Error())
	}

	if err := h.authService.ResetPassword(c.Request().Context(), c.Param("token"), req.Password); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Password has been reset"})
}
