package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"coursa/internal/models"
	"coursa/internal/repositories/cache"

	"gorm.io/gorm"
)

var ErrCourseNotFound = errors.New("course not found")

// CourseRepository defines the interface for course catalog persistence
type CourseRepository interface {
	Create(course *models.Course) error
	GetByID(id uint) (*models.Course, error)
	Update(course *models.Course) error
	Delete(id uint) error

	// ListPublished retrieves published courses with pagination
	ListPublished(offset, limit int) ([]*models.Course, int64, error)

	// ListByInstructor retrieves an instructor's courses, any status
	ListByInstructor(instructorID uint, offset, limit int) ([]*models.Course, int64, error)
}

type courseRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewCourseRepository creates a new instance of CourseRepository
func NewCourseRepository(db *gorm.DB, cache *cache.CacheService) CourseRepository {
	return &courseRepository{db: db, cache: cache}
}

func (r *courseRepository) Create(course *models.Course) error {
	if err := r.db.Create(course).Error; err != nil {
		return ErrDatabaseOperation
	}
	r.invalidate(course.ID)
	return nil
}

func (r *courseRepository) GetByID(id uint) (*models.Course, error) {
	if course, err := r.cache.GetCourse(context.Background(), id); err == nil {
		return course, nil
	}

	var course models.Course
	if err := r.db.Preload("Instructor").First(&course, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCourseNotFound
		}
		return nil, ErrDatabaseOperation
	}

	if err := r.cache.CacheCourse(context.Background(), &course); err != nil {
		log.Printf("Failed to cache course %d: %v", course.ID, err)
	}
	return &course, nil
}

func (r *courseRepository) Update(course *models.Course) error {
	if err := r.db.Save(course).Error; err != nil {
		return ErrDatabaseOperation
	}
	r.invalidate(course.ID)
	return nil
}

func (r *courseRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Course{}, id)
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return ErrCourseNotFound
	}
	r.invalidate(id)
	return nil
}

// catalogPage is the cached shape of one published-listing page.
type catalogPage struct {
	Courses []*models.Course `json:"courses"`
	Total   int64            `json:"total"`
}

func (r *courseRepository) ListPublished(offset, limit int) ([]*models.Course, int64, error) {
	ctx := context.Background()
	key := fmt.Sprintf("catalog:page:%d:%d", offset, limit)

	var page catalogPage
	if found, err := r.cache.Get(ctx, key, &page); err == nil && found {
		return page.Courses, page.Total, nil
	}

	var courses []*models.Course
	var total int64

	query := r.db.Model(&models.Course{}).Where("status = ?", models.CourseStatusPublished)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	if err := query.Preload("Instructor").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&courses).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	page = catalogPage{Courses: courses, Total: total}
	if err := r.cache.SetWithTTL(ctx, key, page, 5*time.Minute); err != nil {
		log.Printf("Failed to cache catalog page %s: %v", key, err)
	}

	return courses, total, nil
}

func (r *courseRepository) ListByInstructor(instructorID uint, offset, limit int) ([]*models.Course, int64, error) {
	var courses []*models.Course
	var total int64

	query := r.db.Model(&models.Course{}).Where("instructor_id = ?", instructorID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	if err := query.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&courses).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	return courses, total, nil
}

func (r *courseRepository) invalidate(courseID uint) {
	if err := r.cache.InvalidateCourse(context.Background(), courseID); err != nil {
		log.Printf("Failed to invalidate course cache %d: %v", courseID, err)
	}
}
