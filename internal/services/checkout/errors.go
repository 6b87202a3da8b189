package checkout

import "errors"

// Service errors
var (
	ErrCourseNotPublished = errors.New("course is not available for purchase")
	ErrAlreadyOwned       = errors.New("course already purchased")
	ErrOwnCourse          = errors.New("instructors cannot buy their own course")
	ErrNoPayoutAccount    = errors.New("instructor has no payout account connected")
	ErrSessionNotPaid     = errors.New("checkout session is not paid")
	ErrNotYourPurchase    = errors.New("purchase belongs to another user")
	ErrNotOwned           = errors.New("course not purchased")
)
