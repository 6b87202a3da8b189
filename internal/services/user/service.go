package user

import (
	"errors"

	"coursa/internal/models"
	"coursa/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailInUse  = errors.New("email already in use")
	ErrInvalidRole = errors.New("invalid role")
)

// RegisterInput carries a validated registration request.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string
}

type Service interface {
	Register(input RegisterInput) (*models.User, error)
	GetProfile(userID uint) (*models.User, error)
	UpdateProfile(userID uint, name, bio, avatarURL string) (*models.User, error)

	// ConnectPayoutAccount stores the instructor's Stripe connected
	// account so destination charges can route to it.
	ConnectPayoutAccount(userID uint, accountID string) error

	ListUsers(offset, limit int) ([]*models.User, int64, error)
}

type service struct {
	userRepo repositories.UserRepository
}

func NewService(userRepo repositories.UserRepository) Service {
	return &service{userRepo: userRepo}
}

func (s *service) Register(input RegisterInput) (*models.User, error) {
	if input.Role != models.RoleStudent && input.Role != models.RoleInstructor {
		return nil, ErrInvalidRole
	}

	if _, err := s.userRepo.GetByEmail(input.Email); err == nil {
		return nil, ErrEmailInUse
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &models.User{
		Email:        input.Email,
		Password:     string(hashedPassword),
		Name:         input.Name,
		Role:         input.Role,
		TokenVersion: 1,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *service) GetProfile(userID uint) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

func (s *service) UpdateProfile(userID uint, name, bio, avatarURL string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	user.Bio = bio
	user.AvatarURL = avatarURL

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) ConnectPayoutAccount(userID uint, accountID string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if !user.IsInstructor() {
		return errors.New("only instructors can connect payout accounts")
	}
	return s.userRepo.UpdateStripeAccount(userID, accountID)
}

func (s *service) ListUsers(offset, limit int) ([]*models.User, int64, error) {
	return s.userRepo.List(offset, limit)
}
