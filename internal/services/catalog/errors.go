package catalog

import "errors"

// Service errors
var (
	ErrNotOwner      = errors.New("course belongs to another instructor")
	ErrMissingVideo  = errors.New("course has no video content")
	ErrInvalidCourse = errors.New("invalid course data")
	ErrNotInstructor = errors.New("user is not an instructor")
)
