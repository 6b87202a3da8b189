package handlers

import (
	"errors"
	"strconv"

	"coursa/internal/config"
	"coursa/internal/models"
	"coursa/internal/repositories"
	"coursa/internal/services/checkout"
	"coursa/internal/utils/pagination"
	"coursa/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type CheckoutHandler struct {
	checkoutService checkout.Service
}

func NewCheckoutHandler(checkoutService checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// CreateSession starts a checkout for a course and returns the redirect URL
func (h *CheckoutHandler) CreateSession(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var input struct {
		CourseID uint `json:"course_id"`
	}
	if err := c.BodyParser(&input); err != nil || input.CourseID == 0 {
		return response.BadRequest(c, "course_id is required")
	}

	appURL := config.GetEnv("APP_URL", "http://localhost:3000")
	successURL := appURL + "/purchase/success?session_id={CHECKOUT_SESSION_ID}"
	cancelURL := appURL + "/courses/" + strconv.FormatUint(uint64(input.CourseID), 10)

	result, err := h.checkoutService.CreateSession(claims.UserID, input.CourseID, successURL, cancelURL)
	if err != nil {
		return checkoutError(c, err)
	}

	return response.Success(c, "Checkout session created", result)
}

// VerifySession confirms a checkout after the client returns from the
// processor's hosted page
func (h *CheckoutHandler) VerifySession(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	sessionID := c.Query("session_id")
	if sessionID == "" {
		return response.BadRequest(c, "session_id is required")
	}

	purchase, err := h.checkoutService.VerifySession(claims.UserID, sessionID)
	if err != nil {
		return checkoutError(c, err)
	}

	return response.Success(c, "Purchase verified", purchase)
}

// Library lists the authenticated student's purchased courses
func (h *CheckoutHandler) Library(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)
	p := pagination.ParseFromRequest(c)

	purchases, total, err := h.checkoutService.Library(claims.UserID, p.Offset, p.Limit)
	if err != nil {
		return response.ServerError(c, "Failed to load library")
	}
	p.Total = total

	return c.JSON(pagination.Response(p, purchases))
}

// WatchCourse returns a purchased course including its playback URL
func (h *CheckoutHandler) WatchCourse(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	course, err := h.checkoutService.OwnedCourse(claims.UserID, courseID)
	if err != nil {
		if errors.Is(err, checkout.ErrNotOwned) {
			return response.Forbidden(c, "Course not purchased")
		}
		return checkoutError(c, err)
	}

	return response.Success(c, "Course", course)
}

// Sales lists the authenticated instructor's settled sales and totals
func (h *CheckoutHandler) Sales(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)
	p := pagination.ParseFromRequest(c)

	purchases, total, gross, earned, err := h.checkoutService.Sales(claims.UserID, p.Offset, p.Limit)
	if err != nil {
		return response.ServerError(c, "Failed to load sales")
	}
	p.Total = total

	return c.JSON(fiber.Map{
		"sales": pagination.Response(p, purchases),
		"totals": fiber.Map{
			"gross_volume": gross,
			"earned":       earned,
		},
	})
}

func checkoutError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repositories.ErrCourseNotFound),
		errors.Is(err, repositories.ErrPurchaseNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, checkout.ErrNotYourPurchase):
		return response.Forbidden(c, err.Error())
	case errors.Is(err, checkout.ErrCourseNotPublished),
		errors.Is(err, checkout.ErrAlreadyOwned),
		errors.Is(err, checkout.ErrOwnCourse),
		errors.Is(err, checkout.ErrNoPayoutAccount),
		errors.Is(err, checkout.ErrSessionNotPaid):
		return response.BadRequest(c, err.Error())
	default:
		return response.ServerError(c, "Unable to process purchase")
	}
}
