package handlers

import (
	"time"

	"coursa/internal/config"
	"coursa/internal/models"
	"coursa/internal/services/auth"
	"coursa/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// LoginUser handles user authentication and returns JWT tokens
func (h *AuthHandler) LoginUser(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if input.Email == "" || input.Password == "" {
		return response.BadRequest(c, "Email and password are required")
	}

	user, accessToken, refreshToken, err := h.authService.Login(input.Email, input.Password)
	if err != nil {
		if err.Error() == "invalid credentials" {
			return response.Error(c, fiber.StatusUnauthorized, "Invalid email or password")
		}
		return response.ServerError(c, "Authentication failed")
	}

	h.setAuthCookies(c, accessToken, refreshToken)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user": fiber.Map{
			"id":          user.ID,
			"email":       user.Email,
			"name":        user.Name,
			"role":        user.Role,
			"permissions": models.GetDefaultPermissions(user.Role),
		},
	})
}

// RefreshToken handles token refresh requests
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")

	if refreshToken == "" {
		var input struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.BodyParser(&input); err != nil {
			return response.Unauthorized(c)
		}
		refreshToken = input.RefreshToken
	}

	if refreshToken == "" {
		return response.Unauthorized(c)
	}

	accessToken, newRefreshToken, err := h.authService.RefreshTokens(refreshToken)
	if err != nil {
		return response.Error(c, fiber.StatusUnauthorized, "Invalid refresh token")
	}

	h.setAuthCookies(c, accessToken, newRefreshToken)

	return c.JSON(fiber.Map{
		"access_token":  accessToken,
		"refresh_token": newRefreshToken,
	})
}

// Logout invalidates every outstanding token for the user
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	if err := h.authService.Logout(claims.UserID); err != nil {
		return response.ServerError(c, "Logout failed")
	}

	c.ClearCookie("access_token", "refresh_token")
	return response.Success(c, "Logged out", nil)
}

// ChangePassword updates the authenticated user's password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var input struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.authService.ChangePassword(claims.UserID, input.OldPassword, input.NewPassword); err != nil {
		return response.BadRequest(c, err.Error())
	}

	return response.Success(c, "Password changed", nil)
}

func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	secure := config.IsProduction()

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Expires:  time.Now().Add(15 * time.Minute),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: "Lax",
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: "Lax",
	})
}
