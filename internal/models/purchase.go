package models

import "time"

// Purchase statuses
const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusCompleted = "completed"
	PurchaseStatusFailed    = "failed"
)

// Purchase is the ledger row for a single course sale. The monetary
// columns are written from the fee engine's output when the checkout
// session is created and confirmed at settlement; they are never
// recomputed from request data.
type Purchase struct {
	ID               uint    `gorm:"primarykey"`
	CourseID         uint    `gorm:"not null;index:idx_purchases_student_course"`
	Course           *Course `gorm:"foreignKey:CourseID"`
	StudentID        uint    `gorm:"not null;index:idx_purchases_student_course"`
	InstructorID     uint    `gorm:"not null;index"`
	ChargeAmount     int64   `gorm:"not null"` // Fee-inclusive amount charged, minor units
	PlatformFee      int64   `gorm:"not null"`
	InstructorAmount int64   `gorm:"not null"`
	Currency         string  `gorm:"default:'usd'"`
	Status           string  `gorm:"not null;default:'pending';index"`
	Reference        string  `gorm:"uniqueIndex"` // Internal reference
	StripeSessionID  string  `gorm:"index"`       // External checkout session
	Metadata         JSON    `gorm:"type:jsonb"`
	CompletedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsSettled reports whether the purchase grants course access.
func (p *Purchase) IsSettled() bool {
	return p.Status == PurchaseStatusCompleted
}
