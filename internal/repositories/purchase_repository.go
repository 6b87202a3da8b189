package repositories

import (
	"errors"
	"time"

	"coursa/internal/models"

	"gorm.io/gorm"
)

var ErrPurchaseNotFound = errors.New("purchase not found")

// PurchaseRepository defines the interface for the purchase ledger
type PurchaseRepository interface {
	Create(purchase *models.Purchase) error
	GetByID(id uint) (*models.Purchase, error)
	GetBySessionID(sessionID string) (*models.Purchase, error)
	Update(purchase *models.Purchase) error

	// MarkCompleted settles a pending purchase; it is a no-op if the
	// purchase is already completed, so settlement stays idempotent.
	MarkCompleted(id uint) error

	// MarkFailed records a failed or abandoned checkout.
	MarkFailed(id uint) error

	// HasCompleted reports whether a student already owns a course.
	HasCompleted(studentID, courseID uint) (bool, error)

	// ListByStudent retrieves a student's settled purchases
	ListByStudent(studentID uint, offset, limit int) ([]*models.Purchase, int64, error)

	// ListByInstructor retrieves an instructor's sales
	ListByInstructor(instructorID uint, offset, limit int) ([]*models.Purchase, int64, error)

	// InstructorTotals sums an instructor's settled earnings in minor units
	InstructorTotals(instructorID uint) (gross int64, earned int64, err error)
}

type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository creates a new instance of PurchaseRepository
func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) Create(purchase *models.Purchase) error {
	if err := r.db.Create(purchase).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *purchaseRepository) GetByID(id uint) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := r.db.Preload("Course").First(&purchase, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPurchaseNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &purchase, nil
}

func (r *purchaseRepository) GetBySessionID(sessionID string) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := r.db.Where("stripe_session_id = ?", sessionID).First(&purchase).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPurchaseNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &purchase, nil
}

func (r *purchaseRepository) Update(purchase *models.Purchase) error {
	if err := r.db.Save(purchase).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *purchaseRepository) MarkCompleted(id uint) error {
	now := time.Now()
	result := r.db.Model(&models.Purchase{}).
		Where("id = ? AND status = ?", id, models.PurchaseStatusPending).
		Updates(map[string]interface{}{
			"status":       models.PurchaseStatusCompleted,
			"completed_at": &now,
		})
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *purchaseRepository) MarkFailed(id uint) error {
	result := r.db.Model(&models.Purchase{}).
		Where("id = ? AND status = ?", id, models.PurchaseStatusPending).
		Update("status", models.PurchaseStatusFailed)
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *purchaseRepository) HasCompleted(studentID, courseID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Purchase{}).
		Where("student_id = ? AND course_id = ? AND status = ?",
			studentID, courseID, models.PurchaseStatusCompleted).
		Count(&count).Error
	if err != nil {
		return false, ErrDatabaseOperation
	}
	return count > 0, nil
}

func (r *purchaseRepository) ListByStudent(studentID uint, offset, limit int) ([]*models.Purchase, int64, error) {
	var purchases []*models.Purchase
	var total int64

	query := r.db.Model(&models.Purchase{}).
		Where("student_id = ? AND status = ?", studentID, models.PurchaseStatusCompleted)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	if err := query.Preload("Course").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&purchases).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	return purchases, total, nil
}

func (r *purchaseRepository) ListByInstructor(instructorID uint, offset, limit int) ([]*models.Purchase, int64, error) {
	var purchases []*models.Purchase
	var total int64

	query := r.db.Model(&models.Purchase{}).
		Where("instructor_id = ? AND status = ?", instructorID, models.PurchaseStatusCompleted)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	if err := query.Preload("Course").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&purchases).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	return purchases, total, nil
}

func (r *purchaseRepository) InstructorTotals(instructorID uint) (int64, int64, error) {
	type totals struct {
		Gross  int64
		Earned int64
	}
	var t totals
	err := r.db.Model(&models.Purchase{}).
		Select("COALESCE(SUM(charge_amount),0) AS gross, COALESCE(SUM(instructor_amount),0) AS earned").
		Where("instructor_id = ? AND status = ?", instructorID, models.PurchaseStatusCompleted).
		Scan(&t).Error
	if err != nil {
		return 0, 0, ErrDatabaseOperation
	}
	return t.Gross, t.Earned, nil
}
