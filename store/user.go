package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mastkeey/cb-cloud-service/model"
)

type userStore struct {
	db *gorm.DB
}

func (s *userStore) Create(ctx context.Context, tx *gorm.DB, user *model.User) error {
	return conn(s.db, ctx, tx).Create(user).Error
}

func (s *userStore) CountByUsername(ctx context.Context, username string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("username = ?", username).
		Count(&count).Error
	return count, err
}

func (s *userStore) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error
	return user, err
}

func (s *userStore) GetByID(ctx context.Context, userID uuid.UUID) (model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Preload("Workspaces").
		Where("id = ?", userID).
		First(&user).Error
	return user, err
}
