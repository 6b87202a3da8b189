package catalog

import (
	"coursa/internal/models"
	"coursa/internal/repositories"
)

// CourseInput carries validated course fields from a handler.
type CourseInput struct {
	Title       string
	Description string
	Category    string
	ImageURL    string
	VideoURL    string
	Price       int64 // Base price in minor units, before fees
}

type Service interface {
	CreateCourse(instructorID uint, input CourseInput) (*models.Course, error)
	UpdateCourse(instructorID, courseID uint, input CourseInput) (*models.Course, error)
	PublishCourse(instructorID, courseID uint) (*models.Course, error)
	ArchiveCourse(instructorID, courseID uint) (*models.Course, error)
	DeleteCourse(instructorID, courseID uint) error

	GetCourse(courseID uint) (*models.Course, error)
	ListPublished(offset, limit int) ([]*models.Course, int64, error)
	ListByInstructor(instructorID uint, offset, limit int) ([]*models.Course, int64, error)
}

type service struct {
	courseRepo repositories.CourseRepository
	userRepo   repositories.UserRepository
}

// NewService creates a new catalog service
func NewService(courseRepo repositories.CourseRepository, userRepo repositories.UserRepository) Service {
	return &service{
		courseRepo: courseRepo,
		userRepo:   userRepo,
	}
}

func (s *service) CreateCourse(instructorID uint, input CourseInput) (*models.Course, error) {
	instructor, err := s.userRepo.GetByID(instructorID)
	if err != nil {
		return nil, err
	}
	if !instructor.IsInstructor() {
		return nil, ErrNotInstructor
	}
	if input.Title == "" || input.Price < 0 {
		return nil, ErrInvalidCourse
	}

	course := &models.Course{
		InstructorID: instructorID,
		Title:        input.Title,
		Description:  input.Description,
		Category:     input.Category,
		ImageURL:     input.ImageURL,
		VideoURL:     input.VideoURL,
		Price:        input.Price,
		Status:       models.CourseStatusDraft,
	}

	if err := s.courseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *service) UpdateCourse(instructorID, courseID uint, input CourseInput) (*models.Course, error) {
	course, err := s.ownedCourse(instructorID, courseID)
	if err != nil {
		return nil, err
	}
	if input.Title == "" || input.Price < 0 {
		return nil, ErrInvalidCourse
	}

	course.Title = input.Title
	course.Description = input.Description
	course.Category = input.Category
	course.ImageURL = input.ImageURL
	course.VideoURL = input.VideoURL
	course.Price = input.Price

	if err := s.courseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *service) PublishCourse(instructorID, courseID uint) (*models.Course, error) {
	course, err := s.ownedCourse(instructorID, courseID)
	if err != nil {
		return nil, err
	}
	if course.VideoURL == "" {
		return nil, ErrMissingVideo
	}

	course.Status = models.CourseStatusPublished
	if err := s.courseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *service) ArchiveCourse(instructorID, courseID uint) (*models.Course, error) {
	course, err := s.ownedCourse(instructorID, courseID)
	if err != nil {
		return nil, err
	}

	course.Status = models.CourseStatusArchived
	if err := s.courseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *service) DeleteCourse(instructorID, courseID uint) error {
	if _, err := s.ownedCourse(instructorID, courseID); err != nil {
		return err
	}
	return s.courseRepo.Delete(courseID)
}

func (s *service) GetCourse(courseID uint) (*models.Course, error) {
	return s.courseRepo.GetByID(courseID)
}

func (s *service) ListPublished(offset, limit int) ([]*models.Course, int64, error) {
	return s.courseRepo.ListPublished(offset, limit)
}

func (s *service) ListByInstructor(instructorID uint, offset, limit int) ([]*models.Course, int64, error) {
	return s.courseRepo.ListByInstructor(instructorID, offset, limit)
}

func (s *service) ownedCourse(instructorID, courseID uint) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(courseID)
	if err != nil {
		return nil, err
	}
	if course.InstructorID != instructorID {
		return nil, ErrNotOwner
	}
	return course, nil
}
