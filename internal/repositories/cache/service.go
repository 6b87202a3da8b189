package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"coursa/internal/models"

	"github.com/redis/go-redis/v9"
)

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

func (s *CacheService) DeletePattern(ctx context.Context, pattern string) error {
	keys, err := s.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		return s.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

func (s *CacheService) Close() error {
	return s.client.Close()
}

// Key generation
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// User caching
func (s *CacheService) CacheUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("cannot cache nil user")
	}

	keys := []string{
		s.GenerateKey("user", "id", user.ID),
		s.GenerateKey("user", "email", user.Email),
	}

	for _, key := range keys {
		if err := s.Set(ctx, key, user); err != nil {
			return err
		}
	}
	return nil
}

func (s *CacheService) GetUser(ctx context.Context, key string) (*models.User, error) {
	var user models.User
	found, err := s.Get(ctx, key, &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("user not found in cache")
	}
	return &user, nil
}

func (s *CacheService) InvalidateUser(ctx context.Context, user *models.User) error {
	return s.Delete(ctx,
		s.GenerateKey("user", "id", user.ID),
		s.GenerateKey("user", "email", user.Email),
	)
}

// Course caching
func (s *CacheService) CacheCourse(ctx context.Context, course *models.Course) error {
	if course == nil {
		return errors.New("cannot cache nil course")
	}
	return s.Set(ctx, s.GenerateKey("course", "id", course.ID), course)
}

func (s *CacheService) GetCourse(ctx context.Context, courseID uint) (*models.Course, error) {
	var course models.Course
	found, err := s.Get(ctx, s.GenerateKey("course", "id", courseID), &course)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("course not found in cache")
	}
	return &course, nil
}

// InvalidateCourse drops the single-course entry and every cached page
// of the public catalog listing.
func (s *CacheService) InvalidateCourse(ctx context.Context, courseID uint) error {
	if err := s.Delete(ctx, s.GenerateKey("course", "id", courseID)); err != nil {
		return err
	}
	return s.DeletePattern(ctx, "catalog:page:*")
}

// Health check
func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

// Stats collection
func (s *CacheService) GetStats(ctx context.Context) *redis.PoolStats {
	return s.client.PoolStats()
}
