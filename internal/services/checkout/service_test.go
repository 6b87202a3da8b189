package checkout

import (
	"testing"

	"coursa/internal/models"
	"coursa/internal/repositories"
	"coursa/internal/services/fees"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v72"
)

type MockCourseRepo struct {
	mock.Mock
}

type MockUserRepo struct {
	mock.Mock
}

type MockPurchaseRepo struct {
	mock.Mock
}

type MockGateway struct {
	mock.Mock
}

func newTestService(courses *MockCourseRepo, users *MockUserRepo, purchases *MockPurchaseRepo, gw *MockGateway) Service {
	return NewService(courses, users, purchases, gw, fees.NewCalculator(fees.DefaultConfig()))
}

func publishedCourse() *models.Course {
	course := &models.Course{
		InstructorID: 7,
		Title:        "Intro to Baking",
		Price:        1000,
		Status:       models.CourseStatusPublished,
	}
	course.ID = 42
	return course
}

func payoutInstructor() *models.User {
	instructor := &models.User{
		Role:            models.RoleInstructor,
		StripeAccountID: "acct_123",
	}
	instructor.ID = 7
	return instructor
}

func TestCreateSessionUsesFeeEngineNumbers(t *testing.T) {
	courses := new(MockCourseRepo)
	users := new(MockUserRepo)
	purchases := new(MockPurchaseRepo)
	gw := new(MockGateway)

	courses.On("GetByID", uint(42)).Return(publishedCourse(), nil)
	users.On("GetByID", uint(7)).Return(payoutInstructor(), nil)
	purchases.On("HasCompleted", uint(3), uint(42)).Return(false, nil)
	gw.On("CreateCheckoutSession", mock.Anything).Return(&stripe.CheckoutSession{
		ID:  "cs_test_1",
		URL: "https://checkout.example/cs_test_1",
	}, nil)
	purchases.On("Create", mock.Anything).Return(nil)

	svc := newTestService(courses, users, purchases, gw)
	result, err := svc.CreateSession(3, 42, "https://app/success", "https://app/cancel")
	require.NoError(t, err)

	// Base price 1000 with 2.9% + 30c processor fees and a 15% platform
	// cut: charge 1061, platform 159, instructor 902.
	params := gw.Calls[0].Arguments.Get(0).(*stripe.CheckoutSessionParams)
	assert.Equal(t, int64(1061), *params.LineItems[0].PriceData.UnitAmount)
	assert.Equal(t, int64(159), *params.PaymentIntentData.ApplicationFeeAmount)
	assert.Equal(t, "acct_123", *params.PaymentIntentData.TransferData.Destination)

	assert.Equal(t, "https://checkout.example/cs_test_1", result.RedirectURL)
	assert.Equal(t, int64(1061), result.Purchase.ChargeAmount)
	assert.Equal(t, int64(159), result.Purchase.PlatformFee)
	assert.Equal(t, int64(902), result.Purchase.InstructorAmount)
	assert.Equal(t, result.Purchase.ChargeAmount,
		result.Purchase.PlatformFee+result.Purchase.InstructorAmount)
	assert.Equal(t, models.PurchaseStatusPending, result.Purchase.Status)
	assert.Equal(t, "cs_test_1", result.Purchase.StripeSessionID)

	courses.AssertExpectations(t)
	users.AssertExpectations(t)
	purchases.AssertExpectations(t)
	gw.AssertExpectations(t)
}

func TestCreateSessionRejections(t *testing.T) {
	tests := []struct {
		name      string
		studentID uint
		setupMock func(*MockCourseRepo, *MockUserRepo, *MockPurchaseRepo)
		wantErr   error
	}{
		{
			name:      "draft course",
			studentID: 3,
			setupMock: func(courses *MockCourseRepo, users *MockUserRepo, purchases *MockPurchaseRepo) {
				course := publishedCourse()
				course.Status = models.CourseStatusDraft
				courses.On("GetByID", uint(42)).Return(course, nil)
			},
			wantErr: ErrCourseNotPublished,
		},
		{
			name:      "own course",
			studentID: 7,
			setupMock: func(courses *MockCourseRepo, users *MockUserRepo, purchases *MockPurchaseRepo) {
				courses.On("GetByID", uint(42)).Return(publishedCourse(), nil)
			},
			wantErr: ErrOwnCourse,
		},
		{
			name:      "already owned",
			studentID: 3,
			setupMock: func(courses *MockCourseRepo, users *MockUserRepo, purchases *MockPurchaseRepo) {
				courses.On("GetByID", uint(42)).Return(publishedCourse(), nil)
				purchases.On("HasCompleted", uint(3), uint(42)).Return(true, nil)
			},
			wantErr: ErrAlreadyOwned,
		},
		{
			name:      "instructor without payout account",
			studentID: 3,
			setupMock: func(courses *MockCourseRepo, users *MockUserRepo, purchases *MockPurchaseRepo) {
				courses.On("GetByID", uint(42)).Return(publishedCourse(), nil)
				purchases.On("HasCompleted", uint(3), uint(42)).Return(false, nil)
				instructor := payoutInstructor()
				instructor.StripeAccountID = ""
				users.On("GetByID", uint(7)).Return(instructor, nil)
			},
			wantErr: ErrNoPayoutAccount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courses := new(MockCourseRepo)
			users := new(MockUserRepo)
			purchases := new(MockPurchaseRepo)
			gw := new(MockGateway)
			tt.setupMock(courses, users, purchases)

			svc := newTestService(courses, users, purchases, gw)
			_, err := svc.CreateSession(tt.studentID, 42, "https://app/s", "https://app/c")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateSessionFreeCourseSettlesImmediately(t *testing.T) {
	courses := new(MockCourseRepo)
	users := new(MockUserRepo)
	purchases := new(MockPurchaseRepo)
	gw := new(MockGateway)

	course := publishedCourse()
	course.Price = 0
	courses.On("GetByID", uint(42)).Return(course, nil)
	purchases.On("HasCompleted", uint(3), uint(42)).Return(false, nil)
	purchases.On("Create", mock.Anything).Return(nil)
	purchases.On("MarkCompleted", mock.Anything).Return(nil)

	svc := newTestService(courses, users, purchases, gw)
	result, err := svc.CreateSession(3, 42, "https://app/s", "https://app/c")
	require.NoError(t, err)

	assert.Empty(t, result.RedirectURL)
	assert.Equal(t, models.PurchaseStatusCompleted, result.Purchase.Status)
	assert.Zero(t, result.Purchase.ChargeAmount)
	assert.Zero(t, result.Purchase.PlatformFee)
	assert.Zero(t, result.Purchase.InstructorAmount)
	gw.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything)
}

func TestHandleSessionCompleted(t *testing.T) {
	t.Run("settles a pending purchase", func(t *testing.T) {
		purchases := new(MockPurchaseRepo)
		pending := &models.Purchase{
			CourseID:         42,
			StudentID:        3,
			ChargeAmount:     1061,
			PlatformFee:      159,
			InstructorAmount: 902,
			Status:           models.PurchaseStatusPending,
			StripeSessionID:  "cs_test_1",
		}
		pending.ID = 9
		purchases.On("GetBySessionID", "cs_test_1").Return(pending, nil)
		purchases.On("MarkCompleted", uint(9)).Return(nil)

		svc := newTestService(new(MockCourseRepo), new(MockUserRepo), purchases, new(MockGateway))
		err := svc.HandleSessionCompleted(&stripe.CheckoutSession{ID: "cs_test_1", AmountTotal: 1061})
		require.NoError(t, err)
		purchases.AssertExpectations(t)
	})

	t.Run("re-splits when the settled amount drifted", func(t *testing.T) {
		purchases := new(MockPurchaseRepo)
		pending := &models.Purchase{
			ChargeAmount:     1030,
			PlatformFee:      154,
			InstructorAmount: 876,
			Status:           models.PurchaseStatusPending,
			StripeSessionID:  "cs_test_2",
		}
		pending.ID = 10
		purchases.On("GetBySessionID", "cs_test_2").Return(pending, nil)
		purchases.On("Update", mock.Anything).Return(nil)
		purchases.On("MarkCompleted", uint(10)).Return(nil)

		svc := newTestService(new(MockCourseRepo), new(MockUserRepo), purchases, new(MockGateway))
		err := svc.HandleSessionCompleted(&stripe.CheckoutSession{ID: "cs_test_2", AmountTotal: 1061})
		require.NoError(t, err)

		updated := purchases.Calls[1].Arguments.Get(0).(*models.Purchase)
		assert.Equal(t, int64(1061), updated.ChargeAmount)
		assert.Equal(t, int64(159), updated.PlatformFee)
		assert.Equal(t, int64(902), updated.InstructorAmount)
	})

	t.Run("replay of a settled purchase is a no-op", func(t *testing.T) {
		purchases := new(MockPurchaseRepo)
		done := &models.Purchase{
			Status:          models.PurchaseStatusCompleted,
			StripeSessionID: "cs_test_3",
		}
		purchases.On("GetBySessionID", "cs_test_3").Return(done, nil)

		svc := newTestService(new(MockCourseRepo), new(MockUserRepo), purchases, new(MockGateway))
		err := svc.HandleSessionCompleted(&stripe.CheckoutSession{ID: "cs_test_3", AmountTotal: 1061})
		require.NoError(t, err)
		purchases.AssertNotCalled(t, "MarkCompleted", mock.Anything)
	})

	t.Run("unknown session is acknowledged", func(t *testing.T) {
		purchases := new(MockPurchaseRepo)
		purchases.On("GetBySessionID", "cs_other").Return(nil, repositories.ErrPurchaseNotFound)

		svc := newTestService(new(MockCourseRepo), new(MockUserRepo), purchases, new(MockGateway))
		err := svc.HandleSessionCompleted(&stripe.CheckoutSession{ID: "cs_other"})
		assert.NoError(t, err)
	})
}

func TestHandleSessionExpired(t *testing.T) {
	t.Run("fails a pending purchase", func(t *testing.T) {
		purchases := new(MockPurchaseRepo)
		pending := &models.Purchase{
			Status:          models.PurchaseStatusPending,
			StripeSessionID: "cs_test_1",
		}
		pending.ID = 9
		purchases.On("GetBySessionID", "cs_test_1").Return(pending, nil)
		purchases.On("MarkFailed", uint(9)).Return(nil)

		svc := newTestService(new(MockCourseRepo), new(MockUserRepo), purchases, new(MockGateway))
		err := svc.HandleSessionExpired(&stripe.CheckoutSession{ID: "cs_test_1"})
		require.NoError(t, err)
		purchases.AssertExpectations(t)
	})

	t.Run("settled purchase is untouched", func(t *testing.T) {
		purchases := new(MockPurchaseRepo)
		done := &models.Purchase{
			Status:          models.PurchaseStatusCompleted,
			StripeSessionID: "cs_test_2",
		}
		purchases.On("GetBySessionID", "cs_test_2").Return(done, nil)

		svc := newTestService(new(MockCourseRepo), new(MockUserRepo), purchases, new(MockGateway))
		err := svc.HandleSessionExpired(&stripe.CheckoutSession{ID: "cs_test_2"})
		require.NoError(t, err)
		purchases.AssertNotCalled(t, "MarkFailed", mock.Anything)
	})

	t.Run("unknown session is acknowledged", func(t *testing.T) {
		purchases := new(MockPurchaseRepo)
		purchases.On("GetBySessionID", "cs_other").Return(nil, repositories.ErrPurchaseNotFound)

		svc := newTestService(new(MockCourseRepo), new(MockUserRepo), purchases, new(MockGateway))
		err := svc.HandleSessionExpired(&stripe.CheckoutSession{ID: "cs_other"})
		assert.NoError(t, err)
	})
}

func TestVerifySession(t *testing.T) {
	t.Run("unpaid session is rejected", func(t *testing.T) {
		purchases := new(MockPurchaseRepo)
		gw := new(MockGateway)
		pending := &models.Purchase{
			StudentID:       3,
			Status:          models.PurchaseStatusPending,
			StripeSessionID: "cs_test_1",
		}
		purchases.On("GetBySessionID", "cs_test_1").Return(pending, nil)
		gw.On("GetCheckoutSession", "cs_test_1").Return(&stripe.CheckoutSession{
			ID:            "cs_test_1",
			PaymentStatus: stripe.CheckoutSessionPaymentStatusUnpaid,
		}, nil)

		svc := newTestService(new(MockCourseRepo), new(MockUserRepo), purchases, gw)
		_, err := svc.VerifySession(3, "cs_test_1")
		assert.ErrorIs(t, err, ErrSessionNotPaid)
	})

	t.Run("someone else's purchase is rejected", func(t *testing.T) {
		purchases := new(MockPurchaseRepo)
		pending := &models.Purchase{
			StudentID:       3,
			Status:          models.PurchaseStatusPending,
			StripeSessionID: "cs_test_1",
		}
		purchases.On("GetBySessionID", "cs_test_1").Return(pending, nil)

		svc := newTestService(new(MockCourseRepo), new(MockUserRepo), purchases, new(MockGateway))
		_, err := svc.VerifySession(99, "cs_test_1")
		assert.ErrorIs(t, err, ErrNotYourPurchase)
	})

	t.Run("paid session settles", func(t *testing.T) {
		purchases := new(MockPurchaseRepo)
		gw := new(MockGateway)
		pending := &models.Purchase{
			StudentID:        3,
			ChargeAmount:     1061,
			PlatformFee:      159,
			InstructorAmount: 902,
			Status:           models.PurchaseStatusPending,
			StripeSessionID:  "cs_test_1",
		}
		pending.ID = 9
		settled := &models.Purchase{Status: models.PurchaseStatusCompleted}
		settled.ID = 9

		purchases.On("GetBySessionID", "cs_test_1").Return(pending, nil)
		gw.On("GetCheckoutSession", "cs_test_1").Return(&stripe.CheckoutSession{
			ID:            "cs_test_1",
			AmountTotal:   1061,
			PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid,
		}, nil)
		purchases.On("MarkCompleted", uint(9)).Return(nil)
		purchases.On("GetByID", uint(9)).Return(settled, nil)

		svc := newTestService(new(MockCourseRepo), new(MockUserRepo), purchases, gw)
		purchase, err := svc.VerifySession(3, "cs_test_1")
		require.NoError(t, err)
		assert.True(t, purchase.IsSettled())
		purchases.AssertExpectations(t)
	})
}

// Mock implementations

func (m *MockCourseRepo) Create(course *models.Course) error {
	return m.Called(course).Error(0)
}

func (m *MockCourseRepo) GetByID(id uint) (*models.Course, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockCourseRepo) Update(course *models.Course) error {
	return m.Called(course).Error(0)
}

func (m *MockCourseRepo) Delete(id uint) error {
	return m.Called(id).Error(0)
}

func (m *MockCourseRepo) ListPublished(offset, limit int) ([]*models.Course, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]*models.Course), args.Get(1).(int64), args.Error(2)
}

func (m *MockCourseRepo) ListByInstructor(instructorID uint, offset, limit int) ([]*models.Course, int64, error) {
	args := m.Called(instructorID, offset, limit)
	return args.Get(0).([]*models.Course), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepo) Create(user *models.User) error {
	return m.Called(user).Error(0)
}

func (m *MockUserRepo) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) Update(user *models.User) error {
	return m.Called(user).Error(0)
}

func (m *MockUserRepo) Delete(id uint) error {
	return m.Called(id).Error(0)
}

func (m *MockUserRepo) IncrementTokenVersion(userID uint) error {
	return m.Called(userID).Error(0)
}

func (m *MockUserRepo) List(offset, limit int) ([]*models.User, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]*models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepo) UpdatePassword(userID uint, hashedPassword string) error {
	return m.Called(userID, hashedPassword).Error(0)
}

func (m *MockUserRepo) UpdateStripeAccount(userID uint, accountID string) error {
	return m.Called(userID, accountID).Error(0)
}

func (m *MockPurchaseRepo) Create(purchase *models.Purchase) error {
	return m.Called(purchase).Error(0)
}

func (m *MockPurchaseRepo) GetByID(id uint) (*models.Purchase, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Purchase), args.Error(1)
}

func (m *MockPurchaseRepo) GetBySessionID(sessionID string) (*models.Purchase, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Purchase), args.Error(1)
}

func (m *MockPurchaseRepo) Update(purchase *models.Purchase) error {
	return m.Called(purchase).Error(0)
}

func (m *MockPurchaseRepo) MarkCompleted(id uint) error {
	return m.Called(id).Error(0)
}

func (m *MockPurchaseRepo) MarkFailed(id uint) error {
	return m.Called(id).Error(0)
}

func (m *MockPurchaseRepo) HasCompleted(studentID, courseID uint) (bool, error) {
	args := m.Called(studentID, courseID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPurchaseRepo) ListByStudent(studentID uint, offset, limit int) ([]*models.Purchase, int64, error) {
	args := m.Called(studentID, offset, limit)
	return args.Get(0).([]*models.Purchase), args.Get(1).(int64), args.Error(2)
}

func (m *MockPurchaseRepo) ListByInstructor(instructorID uint, offset, limit int) ([]*models.Purchase, int64, error) {
	args := m.Called(instructorID, offset, limit)
	return args.Get(0).([]*models.Purchase), args.Get(1).(int64), args.Error(2)
}

func (m *MockPurchaseRepo) InstructorTotals(instructorID uint) (int64, int64, error) {
	args := m.Called(instructorID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockGateway) CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.CheckoutSession), args.Error(1)
}

func (m *MockGateway) GetCheckoutSession(sessionID string) (*stripe.CheckoutSession, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.CheckoutSession), args.Error(1)
}
