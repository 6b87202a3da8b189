package handlers

import (
	"errors"
	"strconv"

	"coursa/internal/models"
	"coursa/internal/repositories"
	"coursa/internal/services/catalog"
	"coursa/internal/utils/pagination"
	"coursa/internal/utils/response"
	"coursa/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type CourseHandler struct {
	catalogService catalog.Service
}

func NewCourseHandler(catalogService catalog.Service) *CourseHandler {
	return &CourseHandler{catalogService: catalogService}
}

type courseInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
	VideoURL    string `json:"video_url"`
	Price       int64  `json:"price"` // minor units
}

func (in courseInput) validate() *validation.Validator {
	v := validation.New()
	v.Required("title", in.Title)
	v.MaxLength("title", in.Title, validation.MaxTitleLength)
	v.MaxLength("description", in.Description, validation.MaxDescriptionLength)
	v.Price("price", in.Price)
	return v
}

// CreateCourse creates a draft course for the authenticated instructor
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var input courseInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if v := input.validate(); !v.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": v.Errors})
	}

	course, err := h.catalogService.CreateCourse(claims.UserID, catalog.CourseInput{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		VideoURL:    input.VideoURL,
		Price:       input.Price,
	})
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	return response.Success(c, "Course created", course)
}

// UpdateCourse updates an instructor-owned course
func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	var input courseInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if v := input.validate(); !v.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": v.Errors})
	}

	course, err := h.catalogService.UpdateCourse(claims.UserID, courseID, catalog.CourseInput{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		VideoURL:    input.VideoURL,
		Price:       input.Price,
	})
	if err != nil {
		return courseError(c, err)
	}

	return response.Success(c, "Course updated", course)
}

// PublishCourse makes a course visible in the public catalog
func (h *CourseHandler) PublishCourse(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	course, err := h.catalogService.PublishCourse(claims.UserID, courseID)
	if err != nil {
		return courseError(c, err)
	}

	return response.Success(c, "Course published", course)
}

// ArchiveCourse removes a course from the public catalog
func (h *CourseHandler) ArchiveCourse(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	course, err := h.catalogService.ArchiveCourse(claims.UserID, courseID)
	if err != nil {
		return courseError(c, err)
	}

	return response.Success(c, "Course archived", course)
}

// DeleteCourse removes an instructor-owned course
func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	if err := h.catalogService.DeleteCourse(claims.UserID, courseID); err != nil {
		return courseError(c, err)
	}

	return response.Success(c, "Course deleted", nil)
}

// ListCourses returns the public catalog of published courses
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	courses, total, err := h.catalogService.ListPublished(p.Offset, p.Limit)
	if err != nil {
		return response.ServerError(c, "Failed to list courses")
	}
	p.Total = total

	return c.JSON(pagination.Response(p, publicCourses(courses)))
}

// GetCourse returns a single published course without playback details
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	course, err := h.catalogService.GetCourse(courseID)
	if err != nil {
		return response.NotFound(c, "Course not found")
	}
	if !course.IsPublished() {
		return response.NotFound(c, "Course not found")
	}

	return response.Success(c, "Course", publicCourse(course))
}

// ListMyCourses returns the authenticated instructor's courses, any status
func (h *CourseHandler) ListMyCourses(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)
	p := pagination.ParseFromRequest(c)

	courses, total, err := h.catalogService.ListByInstructor(claims.UserID, p.Offset, p.Limit)
	if err != nil {
		return response.ServerError(c, "Failed to list courses")
	}
	p.Total = total

	return c.JSON(pagination.Response(p, courses))
}

// publicCourse strips playback details from a catalog listing entry.
func publicCourse(course *models.Course) fiber.Map {
	m := fiber.Map{
		"id":          course.ID,
		"title":       course.Title,
		"description": course.Description,
		"category":    course.Category,
		"image_url":   course.ImageURL,
		"price":       course.Price,
		"created_at":  course.CreatedAt,
	}
	if course.Instructor != nil {
		m["instructor"] = fiber.Map{
			"id":   course.Instructor.ID,
			"name": course.Instructor.Name,
		}
	}
	return m
}

func publicCourses(courses []*models.Course) []fiber.Map {
	out := make([]fiber.Map, 0, len(courses))
	for _, course := range courses {
		out = append(out, publicCourse(course))
	}
	return out
}

func courseError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repositories.ErrCourseNotFound):
		return response.NotFound(c, "Course not found")
	case errors.Is(err, catalog.ErrNotOwner):
		return response.Forbidden(c, err.Error())
	default:
		return response.BadRequest(c, err.Error())
	}
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
