package handlers

import (
	"coursa/internal/models"
	"coursa/internal/services/user"
	"coursa/internal/utils/pagination"
	"coursa/internal/utils/response"
	"coursa/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterUser creates a new student or instructor account
func (h *UserHandler) RegisterUser(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Role     string `json:"role"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	if input.Role == "" {
		input.Role = models.RoleStudent
	}

	v := validation.New()
	v.Email("email", input.Email)
	v.Required("name", input.Name)
	v.Password("password", input.Password)
	if !v.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": v.Errors})
	}

	newUser, err := h.userService.Register(user.RegisterInput{
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
		Role:     input.Role,
	})
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	return response.Success(c, "Account created", fiber.Map{
		"id":    newUser.ID,
		"email": newUser.Email,
		"name":  newUser.Name,
		"role":  newUser.Role,
	})
}

// GetProfile returns the authenticated user's profile
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	profile, err := h.userService.GetProfile(claims.UserID)
	if err != nil {
		return response.NotFound(c, "User not found")
	}

	return response.Success(c, "Profile", fiber.Map{
		"id":               profile.ID,
		"email":            profile.Email,
		"name":             profile.Name,
		"role":             profile.Role,
		"bio":              profile.Bio,
		"avatar_url":       profile.AvatarURL,
		"payout_connected": profile.CanReceivePayouts(),
	})
}

// UpdateProfile updates the authenticated user's profile
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var input struct {
		Name      string `json:"name"`
		Bio       string `json:"bio"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	profile, err := h.userService.UpdateProfile(claims.UserID, input.Name, input.Bio, input.AvatarURL)
	if err != nil {
		return response.ServerError(c, "Failed to update profile")
	}

	return response.Success(c, "Profile updated", profile)
}

// ConnectPayoutAccount stores an instructor's Stripe connected account ID
func (h *UserHandler) ConnectPayoutAccount(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var input struct {
		AccountID string `json:"account_id"`
	}
	if err := c.BodyParser(&input); err != nil || input.AccountID == "" {
		return response.BadRequest(c, "account_id is required")
	}

	if err := h.userService.ConnectPayoutAccount(claims.UserID, input.AccountID); err != nil {
		return response.BadRequest(c, err.Error())
	}

	return response.Success(c, "Payout account connected", nil)
}

// ListUsers returns a paginated user listing for admins
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	users, total, err := h.userService.ListUsers(p.Offset, p.Limit)
	if err != nil {
		return response.ServerError(c, "Failed to list users")
	}
	p.Total = total

	return c.JSON(pagination.Response(p, users))
}
