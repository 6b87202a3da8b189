package checkout

import (
	"fmt"
	"log"
	"strconv"

	"coursa/internal/models"
	"coursa/internal/repositories"
	"coursa/internal/services/fees"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v72"
)

// Result is what a checkout attempt hands back to the client: either a
// redirect to the processor's hosted page, or an immediately settled
// purchase for free courses.
type Result struct {
	Purchase    *models.Purchase `json:"purchase"`
	RedirectURL string           `json:"redirect_url,omitempty"`
}

type Service interface {
	// CreateSession prices the course through the fee engine, opens a
	// Stripe Checkout session carrying the split, and records a pending
	// ledger row.
	CreateSession(studentID, courseID uint, successURL, cancelURL string) (*Result, error)

	// HandleSessionCompleted settles the purchase referenced by a
	// checkout.session.completed event. Unknown sessions and replays
	// are acknowledged without effect.
	HandleSessionCompleted(sess *stripe.CheckoutSession) error

	// HandleSessionExpired marks the purchase behind an abandoned
	// session as failed.
	HandleSessionExpired(sess *stripe.CheckoutSession) error

	// VerifySession is the client-driven fallback: it fetches the
	// session from Stripe and settles through the same path the webhook
	// uses.
	VerifySession(studentID uint, sessionID string) (*models.Purchase, error)

	// Library lists a student's settled purchases.
	Library(studentID uint, offset, limit int) ([]*models.Purchase, int64, error)

	// OwnedCourse returns a course, playback URL included, only if the
	// student has a settled purchase for it.
	OwnedCourse(studentID, courseID uint) (*models.Course, error)

	// Sales lists an instructor's settled sales with earning totals.
	Sales(instructorID uint, offset, limit int) ([]*models.Purchase, int64, int64, int64, error)
}

type service struct {
	courseRepo   repositories.CourseRepository
	userRepo     repositories.UserRepository
	purchaseRepo repositories.PurchaseRepository
	gateway      StripeGateway
	calc         *fees.Calculator
	currency     string
}

// NewService creates a new checkout service
func NewService(
	courseRepo repositories.CourseRepository,
	userRepo repositories.UserRepository,
	purchaseRepo repositories.PurchaseRepository,
	gateway StripeGateway,
	calc *fees.Calculator,
) Service {
	return &service{
		courseRepo:   courseRepo,
		userRepo:     userRepo,
		purchaseRepo: purchaseRepo,
		gateway:      gateway,
		calc:         calc,
		currency:     "usd",
	}
}

func (s *service) CreateSession(studentID, courseID uint, successURL, cancelURL string) (*Result, error) {
	course, err := s.courseRepo.GetByID(courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsPublished() {
		return nil, ErrCourseNotPublished
	}
	if course.InstructorID == studentID {
		return nil, ErrOwnCourse
	}

	owned, err := s.purchaseRepo.HasCompleted(studentID, courseID)
	if err != nil {
		return nil, err
	}
	if owned {
		return nil, ErrAlreadyOwned
	}

	if course.IsFree() {
		return s.settleFreeCourse(studentID, course)
	}

	instructor, err := s.userRepo.GetByID(course.InstructorID)
	if err != nil {
		return nil, err
	}
	if !instructor.CanReceivePayouts() {
		return nil, ErrNoPayoutAccount
	}

	// The single source of truth for every amount on this purchase.
	chargeAmount, err := s.calc.ChargeAmount(course.Price)
	if err != nil {
		return nil, fmt.Errorf("pricing course %d: %w", course.ID, err)
	}
	split, err := s.calc.SplitFees(chargeAmount)
	if err != nil {
		return nil, fmt.Errorf("splitting fees for course %d: %w", course.ID, err)
	}

	reference := uuid.NewString()

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(successURL),
		CancelURL:          stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(s.currency),
					UnitAmount: stripe.Int64(chargeAmount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(course.Title),
						Description: stripe.String(course.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			ApplicationFeeAmount: stripe.Int64(split.PlatformShare),
			TransferData: &stripe.CheckoutSessionPaymentIntentDataTransferDataParams{
				Destination: stripe.String(instructor.StripeAccountID),
			},
		},
	}
	params.AddMetadata("reference", reference)
	params.AddMetadata("course_id", strconv.FormatUint(uint64(course.ID), 10))
	params.AddMetadata("student_id", strconv.FormatUint(uint64(studentID), 10))

	sess, err := s.gateway.CreateCheckoutSession(params)
	if err != nil {
		return nil, fmt.Errorf("creating checkout session: %w", err)
	}

	purchase := &models.Purchase{
		CourseID:         course.ID,
		StudentID:        studentID,
		InstructorID:     course.InstructorID,
		ChargeAmount:     chargeAmount,
		PlatformFee:      split.PlatformShare,
		InstructorAmount: split.InstructorShare,
		Currency:         s.currency,
		Status:           models.PurchaseStatusPending,
		Reference:        reference,
		StripeSessionID:  sess.ID,
		Metadata: models.NewJSON(map[string]interface{}{
			"base_price": course.Price,
		}),
	}
	if err := s.purchaseRepo.Create(purchase); err != nil {
		return nil, err
	}

	return &Result{Purchase: purchase, RedirectURL: sess.URL}, nil
}

func (s *service) settleFreeCourse(studentID uint, course *models.Course) (*Result, error) {
	purchase := &models.Purchase{
		CourseID:         course.ID,
		StudentID:        studentID,
		InstructorID:     course.InstructorID,
		ChargeAmount:     0,
		PlatformFee:      0,
		InstructorAmount: 0,
		Currency:         s.currency,
		Status:           models.PurchaseStatusPending,
		Reference:        uuid.NewString(),
	}
	if err := s.purchaseRepo.Create(purchase); err != nil {
		return nil, err
	}
	if err := s.purchaseRepo.MarkCompleted(purchase.ID); err != nil {
		return nil, err
	}
	purchase.Status = models.PurchaseStatusCompleted
	return &Result{Purchase: purchase}, nil
}

func (s *service) HandleSessionCompleted(sess *stripe.CheckoutSession) error {
	purchase, err := s.purchaseRepo.GetBySessionID(sess.ID)
	if err != nil {
		if err == repositories.ErrPurchaseNotFound {
			// Not ours; acknowledge so the processor stops retrying.
			log.Printf("webhook: unknown checkout session %s", sess.ID)
			return nil
		}
		return err
	}

	if purchase.IsSettled() {
		return nil
	}

	return s.settle(purchase, sess)
}

func (s *service) HandleSessionExpired(sess *stripe.CheckoutSession) error {
	purchase, err := s.purchaseRepo.GetBySessionID(sess.ID)
	if err != nil {
		if err == repositories.ErrPurchaseNotFound {
			return nil
		}
		return err
	}
	if purchase.IsSettled() {
		return nil
	}
	return s.purchaseRepo.MarkFailed(purchase.ID)
}

func (s *service) VerifySession(studentID uint, sessionID string) (*models.Purchase, error) {
	purchase, err := s.purchaseRepo.GetBySessionID(sessionID)
	if err != nil {
		return nil, err
	}
	if purchase.StudentID != studentID {
		return nil, ErrNotYourPurchase
	}
	if purchase.IsSettled() {
		return purchase, nil
	}

	sess, err := s.gateway.GetCheckoutSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("fetching checkout session: %w", err)
	}
	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return nil, ErrSessionNotPaid
	}

	if err := s.settle(purchase, sess); err != nil {
		return nil, err
	}
	return s.purchaseRepo.GetByID(purchase.ID)
}

// settle confirms the ledger row against the gateway-reported amount.
// The split is recomputed from the fee engine rather than trusted from
// stored metadata; a mismatch with the pending row means the catalog
// price moved between checkout and settlement, and the gateway amount
// wins.
func (s *service) settle(purchase *models.Purchase, sess *stripe.CheckoutSession) error {
	if sess.AmountTotal > 0 && sess.AmountTotal != purchase.ChargeAmount {
		split, err := s.calc.SplitFees(sess.AmountTotal)
		if err != nil {
			return fmt.Errorf("splitting settled amount: %w", err)
		}
		log.Printf("settlement: purchase %d amount drifted from %d to %d, re-splitting",
			purchase.ID, purchase.ChargeAmount, sess.AmountTotal)
		purchase.ChargeAmount = sess.AmountTotal
		purchase.PlatformFee = split.PlatformShare
		purchase.InstructorAmount = split.InstructorShare
		if err := s.purchaseRepo.Update(purchase); err != nil {
			return err
		}
	}

	return s.purchaseRepo.MarkCompleted(purchase.ID)
}

func (s *service) Library(studentID uint, offset, limit int) ([]*models.Purchase, int64, error) {
	return s.purchaseRepo.ListByStudent(studentID, offset, limit)
}

func (s *service) OwnedCourse(studentID, courseID uint) (*models.Course, error) {
	owned, err := s.purchaseRepo.HasCompleted(studentID, courseID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, ErrNotOwned
	}
	return s.courseRepo.GetByID(courseID)
}

func (s *service) Sales(instructorID uint, offset, limit int) ([]*models.Purchase, int64, int64, int64, error) {
	purchases, total, err := s.purchaseRepo.ListByInstructor(instructorID, offset, limit)
	if err != nil {
		return nil, 0, 0, 0, err
	}
	gross, earned, err := s.purchaseRepo.InstructorTotals(instructorID)
	if err != nil {
		return nil, 0, 0, 0, err
	}
	return purchases, total, gross, earned, nil
}
