package models

import "gorm.io/gorm"

// Course statuses
const (
	CourseStatusDraft     = "draft"
	CourseStatusPublished = "published"
	CourseStatusArchived  = "archived"
)

type Course struct {
	gorm.Model
	InstructorID uint   `gorm:"not null;index"`
	Instructor   *User  `gorm:"foreignKey:InstructorID"`
	Title        string `gorm:"not null"`
	Description  string
	Category     string `gorm:"index"`
	ImageURL     string
	VideoURL     string // Playback URL, only exposed to owners
	Price        int64  `gorm:"not null;default:0"` // Base price in minor units, before fees
	Status       string `gorm:"default:'draft';index"`
}

// IsPublished reports whether the course is visible in the public catalog.
func (c *Course) IsPublished() bool {
	return c.Status == CourseStatusPublished
}

// IsFree reports whether the course can be acquired without payment.
func (c *Course) IsFree() bool {
	return c.Price == 0
}
