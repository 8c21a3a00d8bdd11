package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mastkeey/cb-cloud-service/model"
)

type membershipStore struct {
	db *gorm.DB
}

func (s *membershipStore) Create(ctx context.Context, tx *gorm.DB, membership *model.UserWorkspace) error {
	return conn(s.db, ctx, tx).Create(membership).Error
}

func (s *membershipStore) Find(ctx context.Context, userID, workspaceID uuid.UUID) (model.UserWorkspace, error) {
	var membership model.UserWorkspace
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND workspace_id = ?", userID, workspaceID).
		First(&membership).Error
	return membership, err
}

func (s *membershipStore) DeleteByWorkspace(ctx context.Context, tx *gorm.DB, workspaceID uuid.UUID) error {
	return conn(s.db, ctx, tx).
		Where("workspace_id = ?", workspaceID).
		Delete(&model.UserWorkspace{}).Error
}

func (s *membershipStore) DeleteByUserAndWorkspace(ctx context.Context, tx *gorm.DB, userID, workspaceID uuid.UUID) error {
	return conn(s.db, ctx, tx).
		Where("user_id = ? AND workspace_id = ?", userID, workspaceID).
		Delete(&model.UserWorkspace{}).Error
}
