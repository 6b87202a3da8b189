package repositories

import (
	"context"
	"log"

	"coursa/internal/models"
	"coursa/internal/repositories/cache"

	"gorm.io/gorm"
)

type userRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *gorm.DB, cache *cache.CacheService) UserRepository {
	return &userRepository{
		db:    db,
		cache: cache,
	}
}

func (r *userRepository) Create(user *models.User) error {
	result := r.db.Create(user)
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	// Try cache first
	key := r.cache.GenerateKey("user", "id", id)
	if user, err := r.cache.GetUser(context.Background(), key); err == nil {
		return user, nil
	}

	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := r.cache.CacheUser(context.Background(), &user); err != nil {
		log.Printf("Failed to cache user %d: %v", user.ID, err)
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	result := r.db.Where("email = ?", email).First(&user)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &user, nil
}

func (r *userRepository) Update(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return ErrDatabaseOperation
	}
	if err := r.cache.InvalidateUser(context.Background(), user); err != nil {
		log.Printf("Failed to invalidate user cache %d: %v", user.ID, err)
	}
	return nil
}

func (r *userRepository) Delete(id uint) error {
	user, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if err := r.db.Delete(&models.User{}, id).Error; err != nil {
		return ErrDatabaseOperation
	}
	if err := r.cache.InvalidateUser(context.Background(), user); err != nil {
		log.Printf("Failed to invalidate user cache %d: %v", id, err)
	}
	return nil
}

func (r *userRepository) IncrementTokenVersion(userID uint) error {
	result := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("token_version", gorm.Expr("token_version + 1"))
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	if user, err := r.GetByID(userID); err == nil {
		if err := r.cache.InvalidateUser(context.Background(), user); err != nil {
			log.Printf("Failed to invalidate user cache %d: %v", userID, err)
		}
	}
	return nil
}

func (r *userRepository) List(offset, limit int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	if err := r.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	if err := r.db.Offset(offset).Limit(limit).Order("id").Find(&users).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	return users, total, nil
}

func (r *userRepository) UpdatePassword(userID uint, hashedPassword string) error {
	result := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password":      hashedPassword,
			"token_version": gorm.Expr("token_version + 1"),
		})
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) UpdateStripeAccount(userID uint, accountID string) error {
	result := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("stripe_account_id", accountID)
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
